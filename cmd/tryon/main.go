package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"tryon/internal/bootstrap"
	"tryon/internal/domain"
	"tryon/internal/imagecodec"
	"tryon/internal/infra"
	"tryon/internal/prompt"
	"tryon/internal/storage"
	"tryon/internal/tryon"
)

func main() {
	var (
		outputFlag       string
		styleFlag        string
		iterativeFlag    bool
		iterationsFlag   int
		apiKeyFlag       string
		shotTypeFlag     string
		focalLengthFlag  string
		angleFlag        string
		depthOfFieldFlag string
	)
	flag.StringVar(&outputFlag, "output", "", "path of the generated image (default output.<ext> matching the image type)")
	flag.StringVar(&styleFlag, "style", string(prompt.StyleDefault), "prompt style (default or wedding)")
	flag.BoolVar(&iterativeFlag, "iterative", false, "refine the result over several rounds")
	flag.IntVar(&iterationsFlag, "iterations", tryon.DefaultIterations, "number of rounds in iterative mode")
	flag.StringVar(&apiKeyFlag, "api-key", "", "Gemini API key (fallbacks to GEMINI_API_KEY)")
	flag.StringVar(&shotTypeFlag, "shot-type", "", "camera shot type, e.g. \"Full body portrait\"")
	flag.StringVar(&focalLengthFlag, "focal-length", "", "camera focal length, e.g. \"50mm\"")
	flag.StringVar(&angleFlag, "angle", "", "camera angle, e.g. \"Eye level\"")
	flag.StringVar(&depthOfFieldFlag, "depth-of-field", "", "depth of field, e.g. \"Shallow (f/2.8)\"")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] <person-image> <clothing-image>\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 2 {
		flag.Usage()
		os.Exit(2)
	}

	_ = godotenv.Load()
	if key := strings.TrimSpace(apiKeyFlag); key != "" {
		_ = os.Setenv("GEMINI_API_KEY", key)
	}
	cfg, err := infra.LoadConfig()
	if err != nil {
		exitWithError(err)
	}
	logger := infra.NewLogger("cli").With().Str("cmd", "tryon").Logger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pipeline, err := bootstrap.NewPipeline(ctx, cfg, &logger)
	if err != nil {
		exitWithError(err)
	}

	person := imagecodec.FileSource(flag.Arg(0))
	garment := imagecodec.FileSource(flag.Arg(1))

	var res domain.Result
	if iterativeFlag {
		res = pipeline.RunIterative(ctx, person, garment, iterationsFlag)
	} else {
		res = pipeline.Run(ctx, tryon.Request{
			Person:  person,
			Garment: garment,
			Style:   prompt.ParseStyle(styleFlag),
			Camera: prompt.CameraSettingsFromMap(map[string]string{
				"shot_type":      shotTypeFlag,
				"focal_length":   focalLengthFlag,
				"angle":          angleFlag,
				"depth_of_field": depthOfFieldFlag,
			}),
		})
	}

	switch out := res.(type) {
	case domain.Success:
		path := outputPath(outputFlag, out.MIMEType)
		if err := writeOutput(ctx, path, out.Image); err != nil {
			exitWithError(err)
		}
		if out.Person != nil {
			fmt.Printf("person:   %s\n", out.Person.Description)
		}
		if out.Garment != nil {
			fmt.Printf("clothing: %s (%s)\n", out.Garment.Description, out.Garment.ClothingType)
		}
		if iterativeFlag {
			fmt.Printf("round:    %d\n", out.Round+1)
		}
		fmt.Printf("saved %s (%s, %d bytes)\n", path, out.MIMEType, len(out.Image))
	case domain.Failure:
		exitWithError(fmt.Errorf("try-on failed [%s]: %s", out.Kind, out.Message))
	default:
		exitWithError(errors.New("try-on returned no result"))
	}
}

// outputPath returns the -output value, or output.<ext> for the generated
// media type when none was given.
func outputPath(flagValue, mimeType string) string {
	if path := strings.TrimSpace(flagValue); path != "" {
		return path
	}
	return "output" + storage.ExtensionFor(mimeType)
}

func writeOutput(ctx context.Context, path string, data []byte) error {
	dir, name := filepath.Split(filepath.Clean(path))
	if dir == "" {
		dir = "."
	}
	store, err := storage.NewFileStore(dir)
	if err != nil {
		return err
	}
	_, err = store.Write(ctx, name, data)
	return err
}

func exitWithError(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}

package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"tryon/internal/bootstrap"
	"tryon/internal/imagecodec"
	"tryon/internal/infra"
)

func main() {
	var (
		typeFlag   string
		apiKeyFlag string
		jsonFlag   bool
	)
	flag.StringVar(&typeFlag, "type", "", "image type to validate (person or clothing)")
	flag.StringVar(&apiKeyFlag, "api-key", "", "Gemini API key (fallbacks to GEMINI_API_KEY)")
	flag.BoolVar(&jsonFlag, "json", false, "print the result as JSON")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s -type person|clothing [flags] <image>\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	flag.Parse()

	kind := strings.ToLower(strings.TrimSpace(typeFlag))
	if flag.NArg() != 1 || (kind != "person" && kind != "clothing") {
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
	logger := infra.NewLogger("cli").With().Str("cmd", "validate").Str("type", kind).Logger()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ProviderTimeout+10*time.Second)
	defer cancel()

	pipeline, err := bootstrap.NewPipeline(ctx, cfg, &logger)
	if err != nil {
		exitWithError(err)
	}
	src := imagecodec.FileSource(flag.Arg(0))

	var (
		result any
		lines  [][2]string
	)
	switch kind {
	case "person":
		person, err := pipeline.ValidatePerson(ctx, src)
		if err != nil {
			exitWithError(err)
		}
		result = person
		lines = [][2]string{
			{"is person", fmt.Sprint(person.IsPerson)},
			{"description", person.Description},
			{"body visible", fmt.Sprint(person.BodyVisible)},
			{"pose suitable", fmt.Sprint(person.PoseSuitable)},
		}
	default:
		garment, err := pipeline.ValidateGarment(ctx, src)
		if err != nil {
			exitWithError(err)
		}
		result = garment
		lines = [][2]string{
			{"is clothing", fmt.Sprint(garment.IsClothing)},
			{"clothing type", garment.ClothingType},
			{"description", garment.Description},
			{"color", garment.Color},
			{"pattern", garment.Pattern},
		}
	}

	if jsonFlag {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
		return
	}
	for _, line := range lines {
		fmt.Printf("%-14s %s\n", line[0]+":", line[1])
	}
}

func exitWithError(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}

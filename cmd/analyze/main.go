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
	"tryon/internal/domain"
	"tryon/internal/imagecodec"
	"tryon/internal/infra"
	"tryon/internal/storage"
)

func main() {
	var (
		outputFlag string
		showFlag   bool
		apiKeyFlag string
	)
	flag.StringVar(&outputFlag, "o", "", "path of the JSON result (default <image>_result.json next to the image)")
	flag.BoolVar(&showFlag, "show", false, "print the prompt and schema")
	flag.StringVar(&apiKeyFlag, "api-key", "", "Gemini API key (fallbacks to GEMINI_API_KEY)")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] <dress-image>\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
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
	logger := infra.NewLogger("cli").With().Str("cmd", "analyze").Logger()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ProviderTimeout+10*time.Second)
	defer cancel()

	pipeline, err := bootstrap.NewPipeline(ctx, cfg, &logger)
	if err != nil {
		exitWithError(err)
	}

	imagePath := flag.Arg(0)
	logger.Info().Str("image", imagePath).Msg("analyzing dress image")
	analysis, err := pipeline.AnalyzeDress(ctx, imagecodec.FileSource(imagePath))
	if err != nil {
		exitWithError(err)
	}

	if showFlag {
		printAnalysis(analysis)
	}

	path := resultPath(imagePath, outputFlag)
	if err := writeResult(ctx, path, analysis); err != nil {
		exitWithError(err)
	}
	fmt.Printf("saved %s\n", path)
}

// resultPath returns the -o value, or <stem>_result.json beside the image.
func resultPath(imagePath, flagValue string) string {
	if path := strings.TrimSpace(flagValue); path != "" {
		return path
	}
	base := filepath.Base(imagePath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(filepath.Dir(imagePath), stem+"_result.json")
}

func writeResult(ctx context.Context, path string, analysis domain.DressAnalysis) error {
	data, err := json.MarshalIndent(analysis, "", "  ")
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	dir, name := filepath.Split(filepath.Clean(path))
	if dir == "" {
		dir = "."
	}
	store, err := storage.NewFileStore(dir)
	if err != nil {
		return err
	}
	_, err = store.Write(ctx, name, append(data, '\n'))
	return err
}

func printAnalysis(analysis domain.DressAnalysis) {
	rule := strings.Repeat("=", 80)
	schema, _ := json.MarshalIndent(analysis.Schema, "", "  ")
	fmt.Printf("\n%s\nIMAGE PROMPT:\n%s\n%s\n\n%s\nSCHEMA:\n%s\n%s\n%s\n\n",
		rule, rule, analysis.Prompt, rule, rule, schema, rule)
}

func exitWithError(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}

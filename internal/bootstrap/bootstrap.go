package bootstrap

import (
	"context"
	"fmt"
	"net/http"

	"tryon/internal/imagecodec"
	"tryon/internal/infra"
	"tryon/internal/providers/genai"
	"tryon/internal/providers/openai"
	"tryon/internal/tryon"
	"tryon/internal/validator"
)

// NewDescriber returns the vision client selected by cfg.VisionProvider.
func NewDescriber(ctx context.Context, cfg *infra.Config, gemini *genai.Client, logger *infra.Logger) (validator.Describer, error) {
	switch cfg.VisionProvider {
	case infra.VisionProviderOpenAI:
		client, err := openai.NewVisionClient(openai.Options{
			APIKey:       cfg.OpenAIAPIKey,
			Model:        cfg.OpenAIModel,
			BaseURL:      cfg.OpenAIBaseURL,
			Organization: cfg.OpenAIOrg,
			HTTPClient:   &http.Client{Timeout: cfg.ProviderTimeout},
			Logger:       logger,
		})
		if err != nil {
			return nil, err
		}
		return client, nil
	case infra.VisionProviderGemini, "":
		if gemini != nil {
			return gemini, nil
		}
		client, err := NewGeminiClient(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
		return client, nil
	default:
		return nil, fmt.Errorf("bootstrap: unknown vision provider %q", cfg.VisionProvider)
	}
}

// NewGeminiClient builds the Gemini client from cfg.
func NewGeminiClient(ctx context.Context, cfg *infra.Config, logger *infra.Logger) (*genai.Client, error) {
	return genai.NewClient(ctx, genai.Options{
		APIKey:            cfg.GeminiAPIKey,
		BaseURL:           cfg.GeminiBaseURL,
		VisionModel:       cfg.GeminiVisionModel,
		ImageModel:        cfg.GeminiImageModel,
		Timeout:           cfg.ProviderTimeout,
		RequestsPerMinute: cfg.ProviderRatePerMin,
		Logger:            logger,
	})
}

// NewPipeline wires the codec, validator and Gemini generator into a
// tryon.Pipeline.
func NewPipeline(ctx context.Context, cfg *infra.Config, logger *infra.Logger) (*tryon.Pipeline, error) {
	logger = infra.OrDiscard(logger)
	gemini, err := NewGeminiClient(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	describer, err := NewDescriber(ctx, cfg, gemini, logger)
	if err != nil {
		return nil, err
	}
	logger.Info().
		Str("vision_provider", cfg.VisionProvider).
		Str("image_model", gemini.ImageModel()).
		Int("max_dimension", cfg.MaxImageDimension).
		Msg("try-on pipeline configured")

	return tryon.New(tryon.Options{
		Codec:               imagecodec.New(cfg.MaxImageDimension),
		Validator:           validator.New(describer, logger),
		Generator:           tryon.NewGeminiGenerator(gemini),
		MaxRetries:          cfg.GenerationRetries,
		IterativeMaxRetries: cfg.IterativeRetries,
		BaseDelay:           cfg.RetryBaseDelay,
		Logger:              logger,
	})
}

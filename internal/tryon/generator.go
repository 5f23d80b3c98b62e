package tryon

import (
	"context"
	"errors"

	"tryon/internal/domain"
	"tryon/internal/providers/genai"
)

// GenerationRequest is the input of one generation attempt. Both images are
// already encoded for transport.
type GenerationRequest struct {
	Person    domain.Image
	Garment   domain.Image
	Prompt    string
	RequestID string
}

// Generator produces a try-on image. Expected failures are returned as a
// domain.Failure rather than an error.
type Generator interface {
	Generate(ctx context.Context, req GenerationRequest) domain.Result
}

type imageGenerator interface {
	GenerateImage(ctx context.Context, req genai.ImageRequest) (*genai.GeneratedImage, error)
}

// GeminiGenerator adapts the Gemini image model to the Generator contract.
type GeminiGenerator struct {
	client imageGenerator
	config genai.GenerationConfig
}

var _ Generator = (*GeminiGenerator)(nil)

func NewGeminiGenerator(client imageGenerator) *GeminiGenerator {
	return &GeminiGenerator{client: client, config: genai.TryOnGenerationConfig()}
}

func (g *GeminiGenerator) Generate(ctx context.Context, req GenerationRequest) domain.Result {
	out, err := g.client.GenerateImage(ctx, genai.ImageRequest{
		Prompt:    req.Prompt,
		Images:    []domain.Image{req.Person, req.Garment},
		Config:    g.config,
		RequestID: req.RequestID,
	})
	switch {
	case err == nil:
		return domain.NewSuccess(out.Data, out.MIMEType)
	case errors.Is(err, domain.ErrNoImage):
		return domain.Fail(domain.KindNoImage, domain.ErrNoImage.Error())
	case ctx.Err() != nil:
		return domain.Fail(domain.KindCanceled, err.Error())
	default:
		return domain.Fail(domain.KindTransport, err.Error())
	}
}

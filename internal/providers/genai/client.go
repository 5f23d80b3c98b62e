package genai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
	sdk "google.golang.org/genai"

	"tryon/internal/domain"
	"tryon/internal/infra"
)

const (
	defaultModel   = "gemini-2.0-flash-exp"
	defaultTimeout = 120 * time.Second
)

// Options controls how the Gemini client is configured.
type Options struct {
	APIKey      string
	BaseURL     string
	VisionModel string
	ImageModel  string
	HTTPClient  *http.Client
	Timeout     time.Duration
	// RequestsPerMinute throttles outgoing calls; zero disables throttling.
	RequestsPerMinute int
	Logger            *infra.Logger
}

// contentGenerator is the slice of the SDK used by the client.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*sdk.Content, config *sdk.GenerateContentConfig) (*sdk.GenerateContentResponse, error)
}

// Client is a facade over the Gemini API covering the two calls the try-on
// flow needs: describing a single image and generating an image from a prompt
// and reference images.
type Client struct {
	models      contentGenerator
	visionModel string
	imageModel  string
	limiter     *rate.Limiter
	logger      *infra.Logger
}

// GenerationConfig tunes an image generation call.
type GenerationConfig struct {
	Temperature     float32
	TopP            float32
	TopK            float32
	MaxOutputTokens int32
}

// TryOnGenerationConfig is near-deterministic so repeated attempts converge on
// the same composition.
func TryOnGenerationConfig() GenerationConfig {
	return GenerationConfig{
		Temperature:     0.1,
		TopP:            0.95,
		TopK:            40,
		MaxOutputTokens: 8192,
	}
}

// ImageRequest represents the information required to generate one image.
type ImageRequest struct {
	Prompt    string
	Images    []domain.Image
	Config    GenerationConfig
	RequestID string
}

// GeneratedImage is the first inline image found in a response.
type GeneratedImage struct {
	Data     []byte
	MIMEType string
}

// NewClient constructs a Gemini client. Callers may provide a nil HTTP client;
// one bounded by Timeout will be created.
func NewClient(ctx context.Context, opts Options) (*Client, error) {
	apiKey := strings.TrimSpace(opts.APIKey)
	if apiKey == "" {
		return nil, errors.New("genai: api key is required")
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	cfg := &sdk.ClientConfig{
		APIKey:     apiKey,
		Backend:    sdk.BackendGeminiAPI,
		HTTPClient: httpClient,
	}
	if base := strings.TrimSpace(opts.BaseURL); base != "" {
		cfg.HTTPOptions = sdk.HTTPOptions{BaseURL: base}
	}
	client, err := sdk.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("genai: create client: %w", err)
	}
	return newClient(client.Models, opts), nil
}

func newClient(models contentGenerator, opts Options) *Client {
	c := &Client{
		models:      models,
		visionModel: firstNonEmpty(opts.VisionModel, defaultModel),
		imageModel:  firstNonEmpty(opts.ImageModel, defaultModel),
		logger:      infra.OrDiscard(opts.Logger),
	}
	if opts.RequestsPerMinute > 0 {
		c.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(opts.RequestsPerMinute)), 1)
	}
	return c
}

// VisionModel returns the model used by DescribeImage.
func (c *Client) VisionModel() string {
	return c.visionModel
}

// ImageModel returns the model used by GenerateImage.
func (c *Client) ImageModel() string {
	return c.imageModel
}

// DescribeImage sends one image with an instruction and returns the text of
// the first candidate.
func (c *Client) DescribeImage(ctx context.Context, img domain.Image, instruction string) (string, error) {
	if err := c.wait(ctx); err != nil {
		return "", err
	}
	contents := []*sdk.Content{
		sdk.NewContentFromParts([]*sdk.Part{
			sdk.NewPartFromText(instruction),
			sdk.NewPartFromBytes(img.Data, img.MIMEType),
		}, sdk.RoleUser),
	}
	resp, err := c.models.GenerateContent(ctx, c.visionModel, contents, nil)
	if err != nil {
		return "", fmt.Errorf("genai: describe image: %w: %w", domain.ErrTransport, err)
	}
	text := responseText(resp)
	c.logger.Debug().
		Str("model", c.visionModel).
		Int("text_len", len(text)).
		Msg("genai: image described")
	return text, nil
}

// GenerateImage requests an image-only response for the prompt and reference
// images. A response without inline image data yields domain.ErrNoImage.
func (c *Client) GenerateImage(ctx context.Context, req ImageRequest) (*GeneratedImage, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}
	parts := []*sdk.Part{sdk.NewPartFromText(req.Prompt)}
	for _, img := range req.Images {
		parts = append(parts, sdk.NewPartFromBytes(img.Data, img.MIMEType))
	}
	contents := []*sdk.Content{sdk.NewContentFromParts(parts, sdk.RoleUser)}

	resp, err := c.models.GenerateContent(ctx, c.imageModel, contents, generateContentConfig(req.Config))
	if err != nil {
		return nil, fmt.Errorf("genai: generate image: %w: %w", domain.ErrTransport, err)
	}

	blob, finishReason := firstInlineImage(resp)
	if blob == nil {
		c.logger.Warn().
			Str("request_id", req.RequestID).
			Str("model", c.imageModel).
			Str("finish_reason", finishReason).
			Str("text", truncate(responseText(resp), 200)).
			Msg("genai: response carried no image")
		if finishReason != "" {
			return nil, fmt.Errorf("%w (finish reason %s)", domain.ErrNoImage, finishReason)
		}
		return nil, domain.ErrNoImage
	}

	c.logger.Debug().
		Str("request_id", req.RequestID).
		Str("model", c.imageModel).
		Str("mime_type", blob.MIMEType).
		Int("bytes", len(blob.Data)).
		Msg("genai: generated image")

	return &GeneratedImage{Data: blob.Data, MIMEType: blob.MIMEType}, nil
}

func (c *Client) wait(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if c.limiter == nil {
		return nil
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("genai: rate limit wait: %w", err)
	}
	return nil
}

func generateContentConfig(cfg GenerationConfig) *sdk.GenerateContentConfig {
	if cfg == (GenerationConfig{}) {
		cfg = TryOnGenerationConfig()
	}
	return &sdk.GenerateContentConfig{
		Temperature:        sdk.Ptr(cfg.Temperature),
		TopP:               sdk.Ptr(cfg.TopP),
		TopK:               sdk.Ptr(cfg.TopK),
		MaxOutputTokens:    cfg.MaxOutputTokens,
		ResponseModalities: []string{"IMAGE"},
	}
}

// firstInlineImage inspects only the first candidate and returns its first
// part carrying inline data, plus the candidate's finish reason.
func firstInlineImage(resp *sdk.GenerateContentResponse) (*sdk.Blob, string) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0] == nil {
		return nil, ""
	}
	candidate := resp.Candidates[0]
	finishReason := string(candidate.FinishReason)
	if candidate.Content == nil {
		return nil, finishReason
	}
	for _, part := range candidate.Content.Parts {
		if part != nil && part.InlineData != nil && len(part.InlineData.Data) > 0 {
			return part.InlineData, finishReason
		}
	}
	return nil, finishReason
}

func responseText(resp *sdk.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0] == nil || resp.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part == nil || part.Thought || part.Text == "" {
			continue
		}
		b.WriteString(part.Text)
	}
	return b.String()
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "…"
}

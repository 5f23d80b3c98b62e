package openai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"tryon/internal/domain"
	"tryon/internal/infra"
)

const (
	defaultTimeout = 60 * time.Second
	defaultModel   = "gpt-4o-mini"
)

var modelAliases = map[string]string{
	"gpt4o-mini":             "gpt-4o-mini",
	"gpt4omini":              "gpt-4o-mini",
	"gpt-4o-mini-2024-07-18": "gpt-4o-mini",
	"gpt4o":                  "gpt-4o",
}

// Options configures the OpenAI-compatible vision client.
type Options struct {
	APIKey       string
	Model        string
	BaseURL      string
	Organization string
	HTTPClient   *http.Client
	Logger       *infra.Logger
}

// VisionClient describes images through the chat completions endpoint. Any
// OpenAI-compatible gateway that accepts image_url data URIs works.
type VisionClient struct {
	apiKey       string
	model        string
	baseURL      string
	organization string
	client       *http.Client
	logger       *infra.Logger
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatMessage struct {
	Role    string        `json:"role"`
	Content []contentPart `json:"content"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL    string `json:"url"`
	Detail string `json:"detail,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    any    `json:"code"`
	} `json:"error"`
}

func NewVisionClient(opts Options) (*VisionClient, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, errors.New("openai api key is required")
	}
	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	return &VisionClient{
		apiKey:       strings.TrimSpace(opts.APIKey),
		model:        normalizeModel(opts.Model),
		baseURL:      baseURL,
		organization: strings.TrimSpace(opts.Organization),
		client:       client,
		logger:       infra.OrDiscard(opts.Logger),
	}, nil
}

// Model returns the resolved model identifier.
func (o *VisionClient) Model() string {
	return o.model
}

// DescribeImage sends the image inline as a data URI together with the
// instruction and returns the assistant's text.
func (o *VisionClient) DescribeImage(ctx context.Context, img domain.Image, instruction string) (string, error) {
	mimeType := img.MIMEType
	if mimeType == "" {
		mimeType = "image/jpeg"
	}
	payload := chatRequest{
		Model:       o.model,
		Temperature: 0,
		MaxTokens:   1024,
		Messages: []chatMessage{{
			Role: "user",
			Content: []contentPart{
				{Type: "text", Text: instruction},
				{Type: "image_url", ImageURL: &imageURL{
					URL:    "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(img.Data),
					Detail: "auto",
				}},
			},
		}},
	}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(payload); err != nil {
		return "", fmt.Errorf("openai: encode request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/chat/completions", &buf)
	if err != nil {
		return "", fmt.Errorf("openai: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+o.apiKey)
	if o.organization != "" {
		httpReq.Header.Set("OpenAI-Organization", o.organization)
	}

	resp, err := o.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("openai: %w: %w", domain.ErrTransport, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= http.StatusMultipleChoices {
		return "", fmt.Errorf("openai: %w: %s", domain.ErrTransport, statusMessage(resp))
	}
	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("openai: decode response: %w", err)
	}
	if len(out.Choices) == 0 {
		return "", errors.New("openai: no choices")
	}
	text := out.Choices[0].Message.Content
	o.logger.Debug().
		Str("model", o.model).
		Str("finish_reason", out.Choices[0].FinishReason).
		Int("text_len", len(text)).
		Msg("openai: image described")
	return text, nil
}

func statusMessage(resp *http.Response) string {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	var apiErr errorResponse
	if err := json.Unmarshal(data, &apiErr); err == nil && apiErr.Error.Message != "" {
		return fmt.Sprintf("status %d: %s", resp.StatusCode, apiErr.Error.Message)
	}
	if trimmed := strings.TrimSpace(string(data)); trimmed != "" {
		return fmt.Sprintf("status %d: %s", resp.StatusCode, trimmed)
	}
	return fmt.Sprintf("status %d", resp.StatusCode)
}

func normalizeModel(model string) string {
	model = strings.ToLower(strings.TrimSpace(model))
	if model == "" {
		return defaultModel
	}
	if canonical, ok := modelAliases[model]; ok {
		return canonical
	}
	return model
}

package generator

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"

	appErrors "github.com/unclebandit/coldreach-backend/internal/errors"
)

const DefaultModel = "gemini-2.5-flash"

// GenAIBackend talks to the Gemini API through the genai SDK.
type GenAIBackend struct {
	client *genai.Client
	model  string
}

// NewGenAIBackend creates a Gemini client. baseURL is only set when the
// default endpoint has to be overridden.
func NewGenAIBackend(ctx context.Context, apiKey, model, baseURL string) (*GenAIBackend, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	if model == "" {
		model = DefaultModel
	}

	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if baseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return &GenAIBackend{client: client, model: model}, nil
}

func (b *GenAIBackend) GenerateText(ctx context.Context, prompt string) (string, error) {
	resp, err := b.client.Models.GenerateContent(ctx, b.model, genai.Text(prompt), nil)
	if err != nil {
		upstream := &appErrors.UpstreamError{Service: "genai", Err: err}
		var apiErr genai.APIError
		if errors.As(err, &apiErr) {
			upstream.Status = apiErr.Code
		}
		return "", fmt.Errorf("GenAI generate failed: %w", upstream)
	}
	return resp.Text(), nil
}

var _ TextGenerator = (*GenAIBackend)(nil)

package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"conceptlab/internal/config"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GenAI uses the Google generative-ai-go SDK
type GenAI struct {
	client  *genai.Client
	models  config.Models
	timeout time.Duration
}

// NewGenAI creates an SDK-backed Gemini client
func NewGenAI(ctx context.Context, cfg *config.AIConfig) (*GenAI, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &GenAI{client: client, models: cfg.Models, timeout: cfg.Timeout()}, nil
}

// Close releases the SDK connection
func (g *GenAI) Close() error {
	return g.client.Close()
}

// Generate makes one GenerateContent call
func (g *GenAI) Generate(ctx context.Context, req Request) (string, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	// a fresh model handle per call keeps generation settings request-local
	model := g.client.GenerativeModel(modelFor(g.models, req.Purpose))
	model.SetTemperature(0.7)
	model.SetTopP(0.95)
	if req.JSON {
		model.ResponseMIMEType = "application/json"
	}

	resp, err := model.GenerateContent(ctx, genai.Text(req.Prompt))
	if err != nil {
		return "", &CallError{Provider: config.ProviderGeminiSDK, Purpose: req.Purpose, Err: err}
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", &CallError{Provider: config.ProviderGeminiSDK, Purpose: req.Purpose, Err: errors.New("no content generated")}
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	return b.String(), nil
}

package llm

import (
	"context"
	"errors"

	"conceptlab/internal/config"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAI uses the chat completions API
type OpenAI struct {
	client *openai.Client
	models config.Models
	cfg    *config.AIConfig
}

// NewOpenAI creates a chat completion client. OPENAI_BASE_URL may point at
// any compatible endpoint.
func NewOpenAI(cfg *config.AIConfig) *OpenAI {
	clientCfg := openai.DefaultConfig(cfg.OpenAIKey)
	if cfg.OpenAIBaseURL != "" {
		clientCfg.BaseURL = cfg.OpenAIBaseURL
	}
	return &OpenAI{client: openai.NewClientWithConfig(clientCfg), models: cfg.Models, cfg: cfg}
}

// Generate makes one chat completion call
func (o *OpenAI) Generate(ctx context.Context, req Request) (string, error) {
	if d := o.cfg.Timeout(); d > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d)
		defer cancel()
	}

	chatReq := openai.ChatCompletionRequest{
		Model: modelFor(o.models, req.Purpose),
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: req.Prompt},
		},
	}
	if req.JSON {
		chatReq.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	completion, err := o.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		callErr := &CallError{Provider: config.ProviderOpenAI, Purpose: req.Purpose, Err: err}
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			callErr.StatusCode = apiErr.HTTPStatusCode
		}
		return "", callErr
	}
	if len(completion.Choices) == 0 {
		return "", &CallError{Provider: config.ProviderOpenAI, Purpose: req.Purpose, Err: errors.New("no choices returned")}
	}
	return completion.Choices[0].Message.Content, nil
}

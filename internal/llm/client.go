// Package llm reaches the external text generation service used for persona
// interviews and report consolidation. Calls are never retried here.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"conceptlab/internal/config"
)

// Purpose selects the model configured for a call
type Purpose string

const (
	PurposeInterview     Purpose = "interview"
	PurposeConsolidation Purpose = "consolidation"
)

// Request is one generation call
type Request struct {
	Purpose Purpose
	Prompt  string
	JSON    bool // ask the provider for a JSON response
}

// Client generates text for a prompt
type Client interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// ErrNotConfigured is returned by New when the provider has no credentials
var ErrNotConfigured = errors.New("llm: provider not configured")

// CallError reports an unreachable provider, a non-success status or an empty answer
type CallError struct {
	Provider   string
	Purpose    Purpose
	StatusCode int // 0 when no response was received
	Err        error
}

func (e *CallError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s %s call failed (status %d): %v", e.Provider, e.Purpose, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s %s call failed: %v", e.Provider, e.Purpose, e.Err)
}

func (e *CallError) Unwrap() error {
	return e.Err
}

// New builds the client for cfg.Provider
func New(ctx context.Context, cfg *config.AIConfig) (Client, error) {
	if !cfg.IsEnabled() {
		return nil, ErrNotConfigured
	}
	switch strings.ToLower(cfg.Provider) {
	case config.ProviderGemini, "":
		return NewGeminiREST(cfg), nil
	case config.ProviderGeminiSDK:
		c, err := NewGenAI(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return c, nil
	case config.ProviderOpenAI:
		return NewOpenAI(cfg), nil
	}
	return nil, fmt.Errorf("llm: unknown provider %q", cfg.Provider)
}

func modelFor(m config.Models, p Purpose) string {
	if p == PurposeConsolidation {
		return m.Consolidation
	}
	return m.Interview
}

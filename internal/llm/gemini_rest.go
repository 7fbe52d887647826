package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"conceptlab/internal/config"
)

// GeminiREST calls the generateContent endpoint directly
type GeminiREST struct {
	config *config.AIConfig
	client *http.Client
}

// NewGeminiREST creates a REST Gemini client
func NewGeminiREST(cfg *config.AIConfig) *GeminiREST {
	return &GeminiREST{
		config: cfg,
		client: &http.Client{Timeout: cfg.Timeout()},
	}
}

// Generate makes one generateContent request
func (g *GeminiREST) Generate(ctx context.Context, req Request) (string, error) {
	reqBody := map[string]interface{}{
		"contents": []map[string]interface{}{
			{
				"parts": []map[string]string{
					{"text": req.Prompt},
				},
			},
		},
	}
	if req.JSON {
		reqBody["generationConfig"] = map[string]interface{}{
			"responseMimeType": "application/json",
		}
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", g.fail(req, 0, err)
	}

	url := fmt.Sprintf("%s?key=%s", g.config.ModelEndpoint(modelFor(g.config.Models, req.Purpose)), g.config.APIKey)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", g.fail(req, 0, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return "", g.fail(req, 0, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", g.fail(req, resp.StatusCode, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", g.fail(req, resp.StatusCode, errors.New(snippet(body)))
	}

	// Parse Gemini response structure
	var geminiResp struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.Unmarshal(body, &geminiResp); err != nil {
		return "", g.fail(req, resp.StatusCode, err)
	}

	if len(geminiResp.Candidates) > 0 && len(geminiResp.Candidates[0].Content.Parts) > 0 {
		var buf bytes.Buffer
		for _, part := range geminiResp.Candidates[0].Content.Parts {
			buf.WriteString(part.Text)
		}
		return buf.String(), nil
	}

	return "", g.fail(req, resp.StatusCode, errors.New("empty response from Gemini"))
}

func (g *GeminiREST) fail(req Request, status int, err error) error {
	return &CallError{Provider: config.ProviderGemini, Purpose: req.Purpose, StatusCode: status, Err: err}
}

func snippet(body []byte) string {
	const limit = 200
	if len(body) > limit {
		return string(body[:limit]) + "..."
	}
	if len(body) == 0 {
		return "empty body"
	}
	return string(body)
}

package config

import (
	"os"
	"strconv"
	"time"
)

// Provider names accepted in AI_PROVIDER
const (
	ProviderGemini    = "gemini"     // raw REST generateContent
	ProviderGeminiSDK = "gemini-sdk" // google generative-ai-go
	ProviderOpenAI    = "openai"
)

// Models defines which model to use for each pipeline call
type Models struct {
	// Interview is the per-persona interview call (runs once per panel member)
	Interview string `json:"interview"`

	// Consolidation is the single report call (quality over speed)
	Consolidation string `json:"consolidation"`
}

// AIConfig holds all AI-related configuration
type AIConfig struct {
	Provider      string `json:"provider"`
	APIKey        string `json:"-"` // Never serialize
	OpenAIKey     string `json:"-"`
	BaseURL       string `json:"baseUrl"`
	OpenAIBaseURL string `json:"openaiBaseUrl,omitempty"`
	Models        Models `json:"models"`
	TimeoutMS     int    `json:"timeoutMs"`

	// InterviewDelayMS is the pause between interview calls; 0 disables it
	InterviewDelayMS int `json:"interviewDelayMs"`
}

// DefaultAIConfig returns the AI configuration from the environment
func DefaultAIConfig() *AIConfig {
	provider := getEnvOrDefault("AI_PROVIDER", ProviderGemini)
	cfg := &AIConfig{
		Provider:      provider,
		APIKey:        os.Getenv("GEMINI_API_KEY"),
		OpenAIKey:     os.Getenv("OPENAI_API_KEY"),
		BaseURL:       getEnvOrDefault("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta/models"),
		OpenAIBaseURL: os.Getenv("OPENAI_BASE_URL"),
		Models: Models{
			Interview:     getEnvOrDefault("GEMINI_MODEL_INTERVIEW", "gemini-2.0-flash"),
			Consolidation: getEnvOrDefault("GEMINI_MODEL_CONSOLIDATION", "gemini-2.5-flash"),
		},
		TimeoutMS:        getEnvInt("AI_TIMEOUT_MS", 60000), // interviews are long generations
		InterviewDelayMS: getEnvInt("INTERVIEW_DELAY_MS", 1500),
	}
	if provider == ProviderOpenAI {
		cfg.Models = Models{
			Interview:     getEnvOrDefault("OPENAI_MODEL_INTERVIEW", "gpt-4o-mini"),
			Consolidation: getEnvOrDefault("OPENAI_MODEL_CONSOLIDATION", "gpt-4o"),
		}
	}
	return cfg
}

// IsEnabled returns true if the selected provider has credentials
func (c *AIConfig) IsEnabled() bool {
	if c.Provider == ProviderOpenAI {
		return c.OpenAIKey != ""
	}
	return c.APIKey != ""
}

// ModelEndpoint returns the full REST endpoint for a given Gemini model
func (c *AIConfig) ModelEndpoint(model string) string {
	return c.BaseURL + "/" + model + ":generateContent"
}

// Timeout is the per-call timeout
func (c *AIConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutMS) * time.Millisecond
}

// InterviewDelay is the pause inserted between interview calls
func (c *AIConfig) InterviewDelay() time.Duration {
	return time.Duration(c.InterviewDelayMS) * time.Millisecond
}

func getEnvOrDefault(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return defaultValue
	}
	return n
}

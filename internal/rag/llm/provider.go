package llm

import (
	"context"
	"fmt"
	"sync"

	"github.com/fgiraldo/ragapi/internal/config"
	"github.com/fgiraldo/ragapi/internal/rag/llm/gemini"
	"github.com/fgiraldo/ragapi/internal/rag/llm/openaiCompat"
)

// Name identifies a generation backend. The set is closed: anything else is
// rejected at parse time, before credentials are even looked at.
type Name string

const (
	Groq   Name = "groq"
	OpenAI Name = "openai"
	Gemini Name = "gemini"
)

// ParseName validates a caller-supplied provider string.
func ParseName(s string) (Name, error) {
	switch Name(s) {
	case Groq, OpenAI, Gemini:
		return Name(s), nil
	}
	return "", &ConfigError{Provider: Name(s), Reason: "unknown provider"}
}

// Provider generates an answer from a system prompt and a user prompt.
// TotalTokens is nil when the backend does not report usage.
type Provider interface {
	Complete(ctx context.Context, systemPrompt string, userPrompt string, maxTokens int64) (text string, totalTokens *int64, err error)
}

// ConfigError reports a provider that cannot be used as requested: unknown
// name or missing credential. Only the requested provider is checked, other
// providers' credentials never block a request.
type ConfigError struct {
	Provider Name
	Reason   string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("provider %q: %s", e.Provider, e.Reason)
}

// Factory hands out one client per provider, built on first use. Construction
// is memoized so repeated requests share connections.
type Factory struct {
	mu      sync.Mutex
	clients map[Name]Provider
}

func NewFactory() *Factory {
	return &Factory{clients: map[Name]Provider{}}
}

func (f *Factory) GetClient(ctx context.Context, name Name) (Provider, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if client, ok := f.clients[name]; ok {
		return client, nil
	}

	client, err := f.build(ctx, name)
	if err != nil {
		return nil, err
	}
	f.clients[name] = client
	return client, nil
}

func (f *Factory) build(ctx context.Context, name Name) (Provider, error) {
	switch name {
	case Groq:
		key := config.GroqAPIKey()
		if key == "" {
			return nil, &ConfigError{Provider: name, Reason: config.EnvGroqAPIKey + " is not set"}
		}
		return openaiCompat.NewClient("llm_groq", key, config.GroqBaseURL, config.GroqModelName, config.TemperatureGroq), nil

	case OpenAI:
		key := config.OpenAIAPIKey()
		if key == "" {
			return nil, &ConfigError{Provider: name, Reason: config.EnvOpenAIAPIKey + " is not set"}
		}
		return openaiCompat.NewClient("llm_openai", key, "", config.OpenAIModelName, config.TemperatureOther), nil

	case Gemini:
		key := config.GoogleAPIKey()
		if key == "" {
			return nil, &ConfigError{Provider: name, Reason: config.EnvGoogleAPIKey + " is not set"}
		}
		client := gemini.GetGeminiClient(ctx, key, config.GeminiModelName)
		if client == nil {
			return nil, &ConfigError{Provider: name, Reason: "client initialization failed"}
		}
		return client, nil
	}
	return nil, &ConfigError{Provider: name, Reason: "unknown provider"}
}

package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/fgiraldo/ragapi/internal/config"
)

func TestParseName(t *testing.T) {
	for _, valid := range []string{"groq", "openai", "gemini"} {
		name, err := ParseName(valid)
		if err != nil {
			t.Errorf("ParseName(%q) failed: %v", valid, err)
		}
		if string(name) != valid {
			t.Errorf("ParseName(%q) = %q", valid, name)
		}
	}

	for _, invalid := range []string{"", "claude", "GROQ", "ollama"} {
		if _, err := ParseName(invalid); err == nil {
			t.Errorf("ParseName(%q) should fail", invalid)
		}
	}
}

func TestFactory_MissingCredential(t *testing.T) {
	t.Setenv(config.EnvGroqAPIKey, "")
	t.Setenv(config.EnvOpenAIAPIKey, "")
	t.Setenv(config.EnvGoogleAPIKey, "")

	f := NewFactory()
	for _, name := range []Name{Groq, OpenAI, Gemini} {
		_, err := f.GetClient(context.Background(), name)
		if err == nil {
			t.Errorf("GetClient(%s) without credential should fail", name)
			continue
		}
		var cfgErr *ConfigError
		if !errors.As(err, &cfgErr) {
			t.Errorf("GetClient(%s) error is %T, want *ConfigError", name, err)
			continue
		}
		if cfgErr.Provider != name {
			t.Errorf("ConfigError names provider %q, want %q", cfgErr.Provider, name)
		}
	}
}

func TestFactory_OnlyRequestedProviderIsChecked(t *testing.T) {
	// groq configured, the others not: asking for groq must succeed
	t.Setenv(config.EnvGroqAPIKey, "gsk_test")
	t.Setenv(config.EnvOpenAIAPIKey, "")
	t.Setenv(config.EnvGoogleAPIKey, "")

	f := NewFactory()
	client, err := f.GetClient(context.Background(), Groq)
	if err != nil {
		t.Fatalf("GetClient(groq) failed: %v", err)
	}
	if client == nil {
		t.Fatal("expected a client")
	}
}

func TestFactory_MemoizesClients(t *testing.T) {
	t.Setenv(config.EnvOpenAIAPIKey, "sk-test")

	f := NewFactory()
	first, err := f.GetClient(context.Background(), OpenAI)
	if err != nil {
		t.Fatalf("first GetClient failed: %v", err)
	}
	second, err := f.GetClient(context.Background(), OpenAI)
	if err != nil {
		t.Fatalf("second GetClient failed: %v", err)
	}
	if first != second {
		t.Error("factory should reuse the constructed client")
	}
}

func TestConfigError_Message(t *testing.T) {
	err := &ConfigError{Provider: "claude", Reason: "unknown provider"}
	if err.Error() != `provider "claude": unknown provider` {
		t.Errorf("unexpected message %q", err.Error())
	}
}

package openaiCompat

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

// completionServer answers every chat-completions call with the given body.
func completionServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if _, err := w.Write([]byte(body)); err != nil {
			t.Errorf("writing stub response: %v", err)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func TestComplete_ReportsUsageWhenPresent(t *testing.T) {
	server := completionServer(t, `{
		"id": "cmpl-1",
		"object": "chat.completion",
		"created": 1,
		"model": "test-model",
		"choices": [{"index": 0, "finish_reason": "stop",
			"message": {"role": "assistant", "content": "una respuesta"}}],
		"usage": {"prompt_tokens": 10, "completion_tokens": 32, "total_tokens": 42}
	}`)

	client := NewClient("llm_test", "test-key", server.URL, "test-model", 0.3)
	text, tokens, err := client.Complete(context.Background(), "sistema", "pregunta", 500)
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if text != "una respuesta" {
		t.Errorf("unexpected text %q", text)
	}
	if tokens == nil || *tokens != 42 {
		t.Errorf("tokens = %v, want 42", tokens)
	}
}

func TestComplete_MissingUsageIsUnknownNotZero(t *testing.T) {
	server := completionServer(t, `{
		"id": "cmpl-2",
		"object": "chat.completion",
		"created": 1,
		"model": "test-model",
		"choices": [{"index": 0, "finish_reason": "stop",
			"message": {"role": "assistant", "content": "sin usage"}}]
	}`)

	client := NewClient("llm_test", "test-key", server.URL, "test-model", 0.3)
	text, tokens, err := client.Complete(context.Background(), "sistema", "pregunta", 500)
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if text != "sin usage" {
		t.Errorf("unexpected text %q", text)
	}
	if tokens != nil {
		t.Errorf("tokens = %d, want nil when the endpoint omits usage", *tokens)
	}
}

func TestComplete_NoChoicesIsAnError(t *testing.T) {
	server := completionServer(t, `{
		"id": "cmpl-3",
		"object": "chat.completion",
		"created": 1,
		"model": "test-model",
		"choices": []
	}`)

	client := NewClient("llm_test", "test-key", server.URL, "test-model", 0.3)
	if _, _, err := client.Complete(context.Background(), "sistema", "pregunta", 500); err == nil {
		t.Fatal("expected an error for an empty choices list")
	}
}

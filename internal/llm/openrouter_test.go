package llm

import (
	"context"
	"net/http"
	"testing"
)

func TestNewOpenRouterProvider(t *testing.T) {
	t.Run("model ids pass through", func(t *testing.T) {
		p, err := NewOpenRouterProvider(OpenRouterConfig{
			APIKey: "sk-or-test",
			Model:  "gpt-4o",
		})
		if err != nil {
			t.Fatalf("NewOpenRouterProvider: %v", err)
		}
		if p.ModelID() != "gpt-4o" {
			t.Errorf("ModelID = %q, want gpt-4o", p.ModelID())
		}
	})

	t.Run("vendor qualified id", func(t *testing.T) {
		p, err := NewOpenRouterProvider(OpenRouterConfig{
			APIKey: "sk-or-test",
			Model:  "anthropic/claude-haiku-4-5",
		})
		if err != nil {
			t.Fatalf("NewOpenRouterProvider: %v", err)
		}
		if p.ModelID() != "anthropic/claude-haiku-4-5" {
			t.Errorf("ModelID = %q", p.ModelID())
		}
	})

	t.Run("empty API key", func(t *testing.T) {
		if _, err := NewOpenRouterProvider(OpenRouterConfig{Model: "google/gemini-2.5-flash"}); err == nil {
			t.Error("expected error for empty API key")
		}
	})
}

func TestOpenRouterProvider_Generate(t *testing.T) {
	server := jsonServer(t, http.StatusOK,
		chatCompletion(`{"score":5,"maxPoints":5,"reason":"Complete."}`, "stop"))

	p, err := NewOpenRouterProvider(OpenRouterConfig{
		APIKey:  "sk-or-test",
		Model:   "google/gemini-2.5-flash",
		BaseURL: server.URL + "/v1",
	})
	if err != nil {
		t.Fatalf("NewOpenRouterProvider: %v", err)
	}

	resp, err := p.Generate(context.Background(), judgmentRequest())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	checkJSON(t, `{"score":5,"maxPoints":5,"reason":"Complete."}`, resp.Content)
}

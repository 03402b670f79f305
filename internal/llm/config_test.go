package llm

import (
	"strings"
	"testing"
	"time"
)

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("GRADEWISE_LLM_PROVIDER", "openrouter")
	t.Setenv("GRADEWISE_OPENROUTER_API_KEY", "sk-or-test")
	t.Setenv("GRADEWISE_OPENROUTER_MODEL", "anthropic/claude-haiku-4-5")
	t.Setenv("GRADEWISE_LLM_TIMEOUT", "15s")

	cfg := ConfigFromEnv()
	if cfg.Provider != "openrouter" {
		t.Errorf("Provider = %q, want openrouter", cfg.Provider)
	}
	if cfg.OpenRouter.APIKey != "sk-or-test" {
		t.Errorf("APIKey = %q", cfg.OpenRouter.APIKey)
	}
	if cfg.OpenRouter.Model != "anthropic/claude-haiku-4-5" {
		t.Errorf("Model = %q", cfg.OpenRouter.Model)
	}
	if cfg.Timeout != 15*time.Second {
		t.Errorf("Timeout = %v, want 15s", cfg.Timeout)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestConfigFromEnv_BadTimeoutKeepsDefault(t *testing.T) {
	t.Setenv("GRADEWISE_LLM_TIMEOUT", "soon")
	if got := ConfigFromEnv().Timeout; got != 60*time.Second {
		t.Errorf("Timeout = %v, want 60s default", got)
	}
}

func TestDiscoverConfig(t *testing.T) {
	for _, k := range []string{"ANTHROPIC_API_KEY", "OPENAI_API_KEY", "GEMINI_API_KEY", "OPENROUTER_API_KEY"} {
		t.Setenv(k, "")
	}

	if _, ok := DiscoverConfig(); ok {
		t.Error("expected no config without keys")
	}

	t.Setenv("GEMINI_API_KEY", "g-key")
	t.Setenv("OPENROUTER_API_KEY", "or-key")
	cfg, ok := DiscoverConfig()
	if !ok {
		t.Fatal("expected a config once keys are set")
	}
	if cfg.Provider != "gemini" || cfg.Gemini.APIKey != "g-key" {
		t.Errorf("cfg = %s / %q, want gemini / g-key", cfg.Provider, cfg.Gemini.APIKey)
	}

	t.Setenv("ANTHROPIC_API_KEY", "a-key")
	cfg, _ = DiscoverConfig()
	if cfg.Provider != "anthropic" {
		t.Errorf("Provider = %q, want anthropic", cfg.Provider)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{"mock needs nothing", Config{Provider: "mock"}, ""},
		{"anthropic without key", Config{Provider: "anthropic"}, "GRADEWISE_ANTHROPIC_API_KEY"},
		{"openai with key", Config{Provider: "openai", OpenAI: OpenAIConfig{APIKey: "k"}}, ""},
		{"gemini without key", Config{Provider: "gemini"}, "GRADEWISE_GEMINI_API_KEY"},
		{"unknown", Config{Provider: "bard"}, "unknown LLM provider"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate: %v", err)
				}
				if !tt.cfg.HasKey() {
					t.Error("HasKey = false, want true")
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("err = %v, want mention of %q", err, tt.wantErr)
			}
			if tt.cfg.HasKey() {
				t.Error("HasKey = true, want false")
			}
		})
	}
}

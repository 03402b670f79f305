package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/abhisek/gradewise/internal/judge"
	"github.com/abhisek/gradewise/internal/llm"
	"github.com/abhisek/gradewise/internal/scoring"
	"github.com/abhisek/gradewise/internal/store"
)

const envPrefix = "GRADEWISE"

// newProvider builds the judgment provider. Tests swap it for a mock.
var newProvider = llm.NewProvider

// judgeSettings are the judgment options shared by scoring commands. They
// come from flags, GRADEWISE_* variables or the config file.
type judgeSettings struct {
	Provider    string        `mapstructure:"provider"`
	Model       string        `mapstructure:"model"`
	Timeout     time.Duration `mapstructure:"llm-timeout"`
	MaxTokens   int           `mapstructure:"max-tokens"`
	Temperature float64       `mapstructure:"temperature"`
}

func addJudgeFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("provider", "", "Judgment provider (anthropic, openai, gemini, openrouter, mock)")
	f.String("model", "", "Model name for the selected provider")
	f.Duration("llm-timeout", 0, "Deadline for one judgment including retries (default 60s)")
	f.Int("max-tokens", judge.DefaultConfig().MaxTokens, "Max tokens in a judgment reply")
	f.Float64("temperature", judge.DefaultConfig().Temperature, "Sampling temperature for judgments")
}

// viperForCmd binds a command's flags and environment to a fresh viper instance.
func viperForCmd(cmd *cobra.Command) *viper.Viper {
	v := viper.New()
	_ = v.BindPFlags(cmd.Flags())

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("gradewise")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/gradewise")
	}
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			slog.Warn("error reading config file", "error", err)
		}
	} else {
		slog.Debug("loaded config file", "path", v.ConfigFileUsed())
	}

	return v
}

func setupLogging(cmd *cobra.Command) {
	v := viperForCmd(cmd)

	var logLevel slog.Level
	switch strings.ToLower(v.GetString("log-level")) {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}
	handlerOpts := &slog.HandlerOptions{Level: logLevel}
	var logHandler slog.Handler
	switch strings.ToLower(v.GetString("log-format")) {
	case "json":
		logHandler = slog.NewJSONHandler(os.Stderr, handlerOpts)
	default:
		logHandler = slog.NewTextHandler(os.Stderr, handlerOpts)
	}
	slog.SetDefault(slog.New(logHandler))
}

func loadJudgeSettings(v *viper.Viper) (judgeSettings, error) {
	var s judgeSettings
	if err := v.Unmarshal(&s); err != nil {
		return s, fmt.Errorf("decode judgment settings: %w", err)
	}
	return s, nil
}

// llmConfig resolves the provider configuration. GRADEWISE_* variables win;
// without them the standard vendor key variables are checked. Explicit
// settings are applied last.
func (s judgeSettings) llmConfig() llm.Config {
	cfg := llm.ConfigFromEnv()
	if !cfg.HasKey() {
		if found, ok := llm.DiscoverConfig(); ok {
			found.Timeout = cfg.Timeout
			cfg = found
		}
	}

	if s.Provider != "" {
		cfg.Provider = s.Provider
	}
	if s.Model != "" {
		switch cfg.Provider {
		case "anthropic":
			cfg.Anthropic.Model = s.Model
		case "openai":
			cfg.OpenAI.Model = s.Model
		case "gemini":
			cfg.Gemini.Model = s.Model
		case "openrouter":
			cfg.OpenRouter.Model = s.Model
		}
	}
	if s.Timeout > 0 {
		cfg.Timeout = s.Timeout
	}
	return cfg
}

// newDispatcher builds a Dispatcher backed by the configured judgment
// provider. Without a usable provider the Dispatcher still scores
// deterministic tasks; tasks that need judgment fail with a ConfigError.
func newDispatcher(ctx context.Context, s judgeSettings, events store.EventRepo) (*scoring.Dispatcher, error) {
	cfg := s.llmConfig()
	if err := cfg.Validate(); err != nil {
		slog.Warn("no judgment provider available", "error", err)
		return scoring.NewDispatcher(nil), nil
	}

	provider, err := newProvider(ctx, cfg, events)
	if err != nil {
		return nil, fmt.Errorf("create judgment provider: %w", err)
	}
	slog.Debug("judgment provider ready", "provider", cfg.Provider, "model", provider.ModelID())

	jcfg := judge.DefaultConfig()
	jcfg.Timeout = cfg.Timeout
	if s.MaxTokens > 0 {
		jcfg.MaxTokens = s.MaxTokens
	}
	jcfg.Temperature = s.Temperature
	return scoring.NewDispatcher(judge.New(provider, jcfg)), nil
}

package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/heartmarshall/wortschatz/internal/adapter/provider/claude"
	"github.com/heartmarshall/wortschatz/internal/adapter/provider/gemini"
	"github.com/heartmarshall/wortschatz/internal/adapter/provider/openai"
	"github.com/heartmarshall/wortschatz/internal/adapter/redis"
	"github.com/heartmarshall/wortschatz/internal/config"
	"github.com/heartmarshall/wortschatz/internal/llm"
)

// NewCaller builds the model caller for the configured provider. When Redis
// is configured every attempt goes through the shared limiter. The returned
// close function releases the limiter connection and is never nil.
func NewCaller(ctx context.Context, cfg *config.Config, reg prometheus.Registerer, logger *slog.Logger) (*llm.Caller, func() error, error) {
	noop := func() error { return nil }

	if err := cfg.LLM.RequireCredential(); err != nil {
		return nil, noop, err
	}

	transport, err := newTransport(ctx, cfg.LLM, logger)
	if err != nil {
		return nil, noop, err
	}

	opts := []llm.Option{llm.WithMetrics(llm.NewMetrics(reg))}
	closeFn := noop
	if cfg.Redis.Enabled() {
		limiter, closeRedis, err := redis.NewLimiter(ctx, cfg.Redis.URL, redis.Config{
			KeyPrefix:         cfg.Redis.KeyPrefix,
			RequestsPerMinute: cfg.Redis.RequestsPerMinute,
		}, logger)
		if err != nil {
			return nil, noop, fmt.Errorf("connect to redis: %w", err)
		}
		opts = append(opts, llm.WithLimiter(limiter))
		closeFn = closeRedis
	}

	caller := llm.NewCaller(transport, llm.Config{
		MaxRetries:  cfg.LLM.MaxRetries,
		BaseBackoff: cfg.LLM.BaseBackoff,
	}, logger, opts...)

	logger.Info("model caller ready",
		slog.String("provider", caller.Provider()),
		slog.String("model", cfg.LLM.Model),
		slog.Bool("shared_limiter", cfg.Redis.Enabled()),
	)
	return caller, closeFn, nil
}

func newTransport(ctx context.Context, cfg config.LLMConfig, logger *slog.Logger) (llm.Transport, error) {
	switch cfg.Provider {
	case config.ProviderOpenAI:
		return openai.New(openai.Config{
			APIKey:      cfg.OpenAIAPIKey,
			BaseURL:     cfg.OpenAIBaseURL,
			Model:       cfg.Model,
			Temperature: cfg.Temperature,
			Timeout:     cfg.RequestTimeout,
		}, logger), nil
	case config.ProviderGemini:
		return gemini.New(ctx, gemini.Config{
			APIKey:      cfg.GeminiAPIKey,
			Model:       cfg.Model,
			Temperature: cfg.Temperature,
		}, logger)
	case config.ProviderAnthropic:
		return claude.New(claude.Config{
			APIKey:      cfg.AnthropicAPIKey,
			BaseURL:     cfg.AnthropicURL,
			Model:       cfg.Model,
			Temperature: cfg.Temperature,
		}, logger), nil
	default:
		return nil, fmt.Errorf("unknown model provider %q", cfg.Provider)
	}
}

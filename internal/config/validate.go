package config

import (
	"fmt"
	"strings"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
// Credentials are checked separately by LLMConfig.RequireCredential.
func (c *Config) Validate() error {
	if err := c.LLM.validate(); err != nil {
		return fmt.Errorf("llm: %w", err)
	}

	if strings.TrimSpace(c.Paths.DatabaseDir) == "" || strings.TrimSpace(c.Paths.DBFile) == "" {
		return fmt.Errorf("paths: database_dir and db_file must be set")
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in 1..65535 (got %d)", c.Server.Port)
	}

	if c.Database.Enabled() && c.Database.MinConns > c.Database.MaxConns {
		return fmt.Errorf("database.min_conns (%d) must not exceed max_conns (%d)", c.Database.MinConns, c.Database.MaxConns)
	}

	if c.Redis.Enabled() && c.Redis.RequestsPerMinute <= 0 {
		return fmt.Errorf("redis.requests_per_minute must be > 0 (got %d)", c.Redis.RequestsPerMinute)
	}

	if c.Practice.RateLimitPerMinute <= 0 {
		return fmt.Errorf("practice.rate_limit_per_minute must be > 0 (got %d)", c.Practice.RateLimitPerMinute)
	}
	if c.Practice.HintOptions < 2 {
		return fmt.Errorf("practice.hint_options must be >= 2 (got %d)", c.Practice.HintOptions)
	}

	return nil
}

func (l *LLMConfig) validate() error {
	l.Provider = strings.ToLower(strings.TrimSpace(l.Provider))
	switch l.Provider {
	case ProviderOpenAI, ProviderGemini, ProviderAnthropic:
	default:
		return fmt.Errorf("provider must be one of openai, gemini, anthropic (got %q)", l.Provider)
	}
	if strings.TrimSpace(l.Model) == "" {
		return fmt.Errorf("model must be set")
	}
	if l.MaxRetries < 0 {
		return fmt.Errorf("max_retries must be >= 0 (got %d)", l.MaxRetries)
	}
	if l.BaseBackoff < 0 {
		return fmt.Errorf("base_backoff must be >= 0 (got %s)", l.BaseBackoff)
	}
	if l.TopK < 1 {
		return fmt.Errorf("top_k must be >= 1 (got %d)", l.TopK)
	}
	if l.Workers < 1 {
		return fmt.Errorf("workers must be >= 1 (got %d)", l.Workers)
	}
	if l.Temperature < 0 || l.Temperature > 2 {
		return fmt.Errorf("temperature must be in [0, 2] (got %v)", l.Temperature)
	}
	return nil
}

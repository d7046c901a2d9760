package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// ErrMissingCredential is returned when the selected model service has no API key.
var ErrMissingCredential = errors.New("missing model service credential")

// Model service providers.
const (
	ProviderOpenAI    = "openai"
	ProviderGemini    = "gemini"
	ProviderAnthropic = "anthropic"
)

// Config is the root application configuration.
type Config struct {
	Log      LogConfig      `yaml:"log"`
	LLM      LLMConfig      `yaml:"llm"`
	Paths    PathsConfig    `yaml:"paths"`
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Practice PracticeConfig `yaml:"practice"`
	CORS     CORSConfig     `yaml:"cors"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"text"`
}

// LLMConfig holds model service settings shared by generation and validation.
type LLMConfig struct {
	Provider       string        `yaml:"provider"        env:"LLM_PROVIDER"        env-default:"openai"`
	Model          string        `yaml:"model"           env:"LLM_MODEL"           env-default:"gpt-4o-mini"`
	Temperature    float64       `yaml:"temperature"     env:"LLM_TEMPERATURE"     env-default:"0"`
	MaxRetries     int           `yaml:"max_retries"     env:"LLM_MAX_RETRIES"     env-default:"3"`
	BaseBackoff    time.Duration `yaml:"base_backoff"    env:"LLM_BASE_BACKOFF"    env-default:"800ms"`
	TopK           int           `yaml:"top_k"           env:"LLM_TOP_K"           env-default:"3"`
	Workers        int           `yaml:"workers"         env:"LLM_WORKERS"         env-default:"1"`
	RequestTimeout time.Duration `yaml:"request_timeout" env:"LLM_REQUEST_TIMEOUT" env-default:"60s"`
	BatchTimeout   time.Duration `yaml:"batch_timeout"   env:"LLM_BATCH_TIMEOUT"   env-default:"0s"`

	// ValidateVerbForm adds the verb_form check to validation runs.
	ValidateVerbForm bool `yaml:"validate_verb_form" env:"LLM_VALIDATE_VERB_FORM" env-default:"false"`

	OpenAIAPIKey    string `yaml:"openai_api_key"    env:"OPENAI_API_KEY"`
	OpenAIBaseURL   string `yaml:"openai_base_url"   env:"OPENAI_BASE_URL"`
	GeminiAPIKey    string `yaml:"gemini_api_key"    env:"GEMINI_API_KEY"`
	AnthropicAPIKey string `yaml:"anthropic_api_key" env:"ANTHROPIC_API_KEY"`
	AnthropicURL    string `yaml:"anthropic_base_url" env:"ANTHROPIC_BASE_URL"`
}

// APIKey returns the key for the selected provider.
func (c LLMConfig) APIKey() string {
	switch c.Provider {
	case ProviderOpenAI:
		return c.OpenAIAPIKey
	case ProviderGemini:
		return c.GeminiAPIKey
	case ProviderAnthropic:
		return c.AnthropicAPIKey
	default:
		return ""
	}
}

// RequireCredential fails with ErrMissingCredential when the selected
// provider has no API key. Only commands that call the model service need it.
func (c LLMConfig) RequireCredential() error {
	if strings.TrimSpace(c.APIKey()) == "" {
		return fmt.Errorf("%w: set the API key for provider %q", ErrMissingCredential, c.Provider)
	}
	return nil
}

// PathsConfig holds file locations for the JSON vocabulary database.
type PathsConfig struct {
	DatabaseDir    string `yaml:"database_dir"    env:"VOCAB_DATABASE_DIR"    env-default:"database"`
	DBFile         string `yaml:"db_file"         env:"VOCAB_DB_FILE"         env-default:"vocab.json"`
	NewEntriesFile string `yaml:"new_entries"     env:"VOCAB_NEW_ENTRIES"     env-default:"new_entries.json"`
	ReportFile     string `yaml:"report_file"     env:"VOCAB_REPORT_FILE"     env-default:"validation_report.json"`
}

// DBPath is the vocabulary database file.
func (p PathsConfig) DBPath() string { return filepath.Join(p.DatabaseDir, p.DBFile) }

// NewEntriesPath is the default generator output.
func (p PathsConfig) NewEntriesPath() string { return filepath.Join(p.DatabaseDir, p.NewEntriesFile) }

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"30s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// DatabaseConfig holds PostgreSQL connection settings. An empty DSN keeps the
// vocabulary in the JSON file.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"10"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"1"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
}

// Enabled reports whether a Postgres store is configured.
func (d DatabaseConfig) Enabled() bool { return d.DSN != "" }

// RedisConfig configures the shared model-call rate limiter. An empty URL
// disables it.
type RedisConfig struct {
	URL               string `yaml:"url"                 env:"REDIS_URL"`
	KeyPrefix         string `yaml:"key_prefix"          env:"REDIS_KEY_PREFIX"          env-default:"wortschatz:llm"`
	RequestsPerMinute int    `yaml:"requests_per_minute" env:"REDIS_REQUESTS_PER_MINUTE" env-default:"60"`
}

// Enabled reports whether the limiter is configured.
func (r RedisConfig) Enabled() bool { return r.URL != "" }

// PracticeConfig holds practice server settings.
type PracticeConfig struct {
	RateLimitPerMinute int           `yaml:"rate_limit_per_minute" env:"PRACTICE_RATE_LIMIT"   env-default:"120"`
	SessionTTL         time.Duration `yaml:"session_ttl"           env:"PRACTICE_SESSION_TTL"  env-default:"30m"`
	HintOptions        int           `yaml:"hint_options"          env:"PRACTICE_HINT_OPTIONS" env-default:"4"`
	TrustProxy         bool          `yaml:"trust_proxy"           env:"PRACTICE_TRUST_PROXY"  env-default:"false"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins string `yaml:"allowed_origins" env:"CORS_ALLOWED_ORIGINS" env-default:"*"`
	AllowedMethods string `yaml:"allowed_methods" env:"CORS_ALLOWED_METHODS" env-default:"GET,POST,OPTIONS"`
	AllowedHeaders string `yaml:"allowed_headers" env:"CORS_ALLOWED_HEADERS" env-default:"Content-Type,X-Request-Id"`
	MaxAge         int    `yaml:"max_age"         env:"CORS_MAX_AGE"         env-default:"86400"`
}

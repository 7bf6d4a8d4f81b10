package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"

	"horse.fit/dynamictranslator/internal/language"
)

type Config struct {
	Environment string `envconfig:"ENVIRONMENT" default:"local"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`

	DatabaseURL string `envconfig:"DATABASE_URL" default:""`
	DBMinConns  int32  `envconfig:"DB_MIN_CONNS" default:"1"`
	DBMaxConns  int32  `envconfig:"DB_MAX_CONNS" default:"8"`

	TargetLanguage       string        `envconfig:"TARGET_LANGUAGE" default:"tr"`
	TranslationProviders string        `envconfig:"TRANSLATION_PROVIDERS" default:"local,google,glossary"`
	TranslationEndpoint  string        `envconfig:"TRANSLATION_ENDPOINT" default:"http://127.0.0.1:8845/v1"`
	TranslationModel     string        `envconfig:"TRANSLATION_MODEL" default:"tencent/HY-MT1.5-7B"`
	GoogleAPIKey         string        `envconfig:"GOOGLE_TRANSLATE_API_KEY" default:""`
	GoogleBaseURL        string        `envconfig:"GOOGLE_TRANSLATE_BASE_URL" default:"https://translation.googleapis.com"`
	ProviderTimeout      time.Duration `envconfig:"PROVIDER_TIMEOUT" default:"10s"`
	LookupTimeout        time.Duration `envconfig:"LOOKUP_TIMEOUT" default:"30s"`

	CacheSize int           `envconfig:"CACHE_SIZE" default:"1024"`
	CacheTTL  time.Duration `envconfig:"CACHE_TTL" default:"1h"`

	NotificationIcon      string        `envconfig:"NOTIFICATION_ICON" default:"https://dynamictranslator.app/assets/notification.png"`
	ClipboardPollInterval time.Duration `envconfig:"CLIPBOARD_POLL_INTERVAL" default:"500ms"`
	ScreenTrackInterval   time.Duration `envconfig:"SCREEN_TRACK_INTERVAL" default:"30m"`
	ClientID              string        `envconfig:"CLIENT_ID" default:"dynamictranslator"`

	APITokenHash string `envconfig:"API_TOKEN_HASH" default:""`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.DBMinConns < 0 {
		return fmt.Errorf("DB_MIN_CONNS must be >= 0")
	}
	if c.DBMaxConns < 1 {
		return fmt.Errorf("DB_MAX_CONNS must be >= 1")
	}
	if c.DBMinConns > c.DBMaxConns {
		return fmt.Errorf("DB_MIN_CONNS (%d) cannot exceed DB_MAX_CONNS (%d)", c.DBMinConns, c.DBMaxConns)
	}
	if url := strings.TrimSpace(c.DatabaseURL); url != "" && !IsPostgresURL(url) && !IsSQLiteURL(url) {
		return fmt.Errorf("DATABASE_URL must start with postgres://, postgresql:// or sqlite:")
	}
	if language.NormalizeCode(c.TargetLanguage) == "" {
		return fmt.Errorf("TARGET_LANGUAGE must be a valid language code")
	}
	if strings.TrimSpace(c.TranslationProviders) == "" {
		return fmt.Errorf("TRANSLATION_PROVIDERS is required")
	}
	if c.ProviderTimeout < 0 {
		return fmt.Errorf("PROVIDER_TIMEOUT must be >= 0")
	}
	if c.LookupTimeout < 0 {
		return fmt.Errorf("LOOKUP_TIMEOUT must be >= 0")
	}
	if c.CacheSize < 1 {
		return fmt.Errorf("CACHE_SIZE must be >= 1")
	}
	if c.CacheTTL < 0 {
		return fmt.Errorf("CACHE_TTL must be >= 0")
	}
	if c.ClipboardPollInterval < 10*time.Millisecond {
		return fmt.Errorf("CLIPBOARD_POLL_INTERVAL must be >= 10ms")
	}
	if c.ScreenTrackInterval < 0 {
		return fmt.Errorf("SCREEN_TRACK_INTERVAL must be >= 0")
	}
	if strings.TrimSpace(c.ClientID) == "" {
		return fmt.Errorf("CLIENT_ID is required")
	}
	return nil
}

// Target returns the normalized target language code.
func (c *Config) Target() string {
	if c == nil {
		return ""
	}
	return language.NormalizeCode(c.TargetLanguage)
}

// HasDatabase reports whether persistent sinks and the glossary are available.
func (c *Config) HasDatabase() bool {
	return c != nil && strings.TrimSpace(c.DatabaseURL) != ""
}

func IsPostgresURL(raw string) bool {
	lower := strings.ToLower(strings.TrimSpace(raw))
	return strings.HasPrefix(lower, "postgres://") || strings.HasPrefix(lower, "postgresql://")
}

func IsSQLiteURL(raw string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(raw)), "sqlite:")
}

// SQLitePath strips the sqlite: scheme (and an optional //) from a DATABASE_URL.
func SQLitePath(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if !IsSQLiteURL(trimmed) {
		return ""
	}
	path := trimmed[len("sqlite:"):]
	return strings.TrimPrefix(path, "//")
}

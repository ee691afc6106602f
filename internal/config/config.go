// Package config reads the portfolio server's settings from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Assistant providers.
const (
	ProviderKeyword   = "keyword"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// Config holds all application configuration.
type Config struct {
	Port        string
	Environment string
	ContentPath string
	CORSOrigins []string

	DBPath     string
	RedisURL   string
	SessionTTL time.Duration

	LogFile string

	CounterVisible time.Duration

	Assistant AssistantConfig
	Mail      MailConfig
	Admin     AdminConfig
}

// AssistantConfig selects how chat messages are answered.
type AssistantConfig struct {
	Provider      string
	APIKey        string
	BaseURL       string
	Model         string
	SystemPrompt  string
	MaxTokens     int
	ThinkingDelay time.Duration
	IdleTTL       time.Duration
}

// MailConfig configures contact form delivery. Resend is used when
// ResendAPIKey is set, SMTP otherwise.
type MailConfig struct {
	ResendAPIKey string
	From         string
	FromName     string
	To           string

	SMTPHost string
	SMTPPort int
	SMTPUser string
	SMTPPass string
}

// AdminConfig holds the dashboard credentials.
type AdminConfig struct {
	Username  string
	Password  string
	JWTSecret string
}

const defaultSystemPrompt = `You are the assistant on Bhuvan Shetty's portfolio website. ` +
	`Answer questions about his skills, projects, experience and education briefly and politely. ` +
	`If you do not know something, suggest using the contact form.`

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	var env envParser
	provider := strings.ToLower(getEnv("ASSISTANT_PROVIDER", ProviderKeyword))

	defaultDelay := time.Second
	if provider != ProviderKeyword {
		defaultDelay = 0
	}

	cfg := &Config{
		Port:           getEnv("PORT", "8080"),
		Environment:    getEnv("APP_ENV", "development"),
		ContentPath:    getEnv("CONTENT_PATH", ""),
		CORSOrigins:    splitList(getEnv("CORS_ORIGINS", "")),
		DBPath:         getEnv("DB_PATH", "./data/portfolio.db"),
		RedisURL:       getEnv("REDIS_URL", ""),
		SessionTTL:     env.getDuration("SESSION_TTL", 24*time.Hour),
		LogFile:        getEnv("LOG_FILE", "./data/logs/portfolio.log"),
		CounterVisible: env.getDuration("VISITOR_COUNTER_VISIBLE", 5*time.Second),
		Assistant: AssistantConfig{
			Provider:      provider,
			APIKey:        getEnv("ASSISTANT_API_KEY", ""),
			BaseURL:       getEnv("ASSISTANT_BASE_URL", ""),
			Model:         getEnv("ASSISTANT_MODEL", ""),
			SystemPrompt:  getEnv("ASSISTANT_SYSTEM_PROMPT", defaultSystemPrompt),
			MaxTokens:     env.getInt("ASSISTANT_MAX_TOKENS", 512),
			ThinkingDelay: env.getDuration("ASSISTANT_THINKING_DELAY", defaultDelay),
			IdleTTL:       env.getDuration("ASSISTANT_IDLE_TTL", time.Hour),
		},
		Mail: MailConfig{
			ResendAPIKey: getEnv("RESEND_API_KEY", ""),
			From:         getEnv("MAIL_FROM", ""),
			FromName:     getEnv("MAIL_FROM_NAME", "Portfolio"),
			To:           getEnv("TO_EMAIL", "bhuvanshetty2018@gmail.com"),
			SMTPHost:     getEnv("SMTP_HOST", "smtp.gmail.com"),
			SMTPPort:     env.getInt("SMTP_PORT", 587),
			SMTPUser:     getEnv("SMTP_USER", ""),
			SMTPPass:     getEnv("SMTP_PASS", ""),
		},
		Admin: AdminConfig{
			Username:  getEnv("ADMIN_USERNAME", "admin"),
			Password:  getEnv("ADMIN_PASSWORD", "admin123"),
			JWTSecret: getEnv("ADMIN_JWT_SECRET", ""),
		},
	}

	if err := errors.Join(env.errs...); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if cfg.Mail.From == "" {
		cfg.Mail.From = cfg.Mail.SMTPUser
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required configuration fields are set.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}
	if c.DBPath == "" && c.RedisURL == "" {
		return fmt.Errorf("one of DB_PATH or REDIS_URL must be set")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be > 0")
	}
	if c.CounterVisible < 0 {
		return fmt.Errorf("VISITOR_COUNTER_VISIBLE cannot be negative")
	}
	switch c.Assistant.Provider {
	case ProviderKeyword:
	case ProviderOpenAI, ProviderAnthropic:
		if c.Assistant.APIKey == "" {
			return fmt.Errorf("ASSISTANT_API_KEY is required for provider %q", c.Assistant.Provider)
		}
	default:
		return fmt.Errorf("unknown ASSISTANT_PROVIDER %q", c.Assistant.Provider)
	}
	if c.Assistant.ThinkingDelay < 0 {
		return fmt.Errorf("ASSISTANT_THINKING_DELAY cannot be negative")
	}
	if c.Assistant.IdleTTL <= 0 {
		return fmt.Errorf("ASSISTANT_IDLE_TTL must be > 0")
	}
	return nil
}

// IsProduction reports whether APP_ENV is "production".
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// envParser reads typed variables and collects the ones that fail to parse.
type envParser struct {
	errs []error
}

func (p *envParser) getInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(value) == "" {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s=%q is not an integer", key, value))
		return fallback
	}
	return n
}

func (p *envParser) getDuration(key string, fallback time.Duration) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(value) == "" {
		return fallback
	}
	d, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s=%q is not a duration such as 1s or 24h", key, value))
		return fallback
	}
	return d
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Package config loads application configuration from config.yml and environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	defaultJWTSecret     = "yatube-dev-access-secret"
	defaultRefreshSecret = "yatube-dev-refresh-secret"
)

// Config holds application configuration values.
type Config struct {
	Env  string `mapstructure:"APP_ENV"`
	Port string `mapstructure:"PORT"`

	DBDriver string `mapstructure:"DB_DRIVER"`
	DBDSN    string `mapstructure:"DB_DSN"`

	RedisURL      string `mapstructure:"REDIS_URL"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"REDIS_DB"`

	JWTSecret        string `mapstructure:"JWT_SECRET"`
	JWTRefreshSecret string `mapstructure:"JWT_REFRESH_SECRET"`

	PostsPerPage int           `mapstructure:"POSTS_PER_PAGE"`
	PageCacheTTL time.Duration `mapstructure:"PAGE_CACHE_TTL"`

	MediaRoot   string `mapstructure:"MEDIA_ROOT"`
	MediaURL    string `mapstructure:"MEDIA_URL"`
	MaxUploadMB int    `mapstructure:"MAX_UPLOAD_MB"`

	KafkaBrokers   string        `mapstructure:"KAFKA_BROKERS"`
	KafkaTopic     string        `mapstructure:"KAFKA_TOPIC"`
	OutboxInterval time.Duration `mapstructure:"OUTBOX_INTERVAL"`
	OutboxBatch    int           `mapstructure:"OUTBOX_BATCH"`

	SMTPHost     string `mapstructure:"SMTP_HOST"`
	SMTPPort     int    `mapstructure:"SMTP_PORT"`
	SMTPUsername string `mapstructure:"SMTP_USERNAME"`
	SMTPPassword string `mapstructure:"SMTP_PASSWORD"`
	SMTPFrom     string `mapstructure:"SMTP_FROM"`
}

var defaults = map[string]any{
	"APP_ENV":            "development",
	"PORT":               "8080",
	"DB_DRIVER":          "mysql",
	"DB_DSN":             "yatube:yatube@tcp(127.0.0.1:3306)/yatube?charset=utf8mb4&parseTime=True&loc=Local",
	"REDIS_URL":          "127.0.0.1:6379",
	"REDIS_PASSWORD":     "",
	"REDIS_DB":           0,
	"JWT_SECRET":         defaultJWTSecret,
	"JWT_REFRESH_SECRET": defaultRefreshSecret,
	"POSTS_PER_PAGE":     10,
	"PAGE_CACHE_TTL":     "20s",
	"MEDIA_ROOT":         "./media",
	"MEDIA_URL":          "/media/",
	"MAX_UPLOAD_MB":      5,
	"KAFKA_BROKERS":      "",
	"KAFKA_TOPIC":        "yatube.follow",
	"OUTBOX_INTERVAL":    "1s",
	"OUTBOX_BATCH":       200,
	"SMTP_HOST":          "localhost",
	"SMTP_PORT":          587,
	"SMTP_USERNAME":      "",
	"SMTP_PASSWORD":      "",
	"SMTP_FROM":          "Yatube <no-reply@yatube.local>",
}

// LoadConfig reads config.yml (optional), then the environment, on top of defaults.
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.AddConfigPath(".")
	v.AddConfigPath("..")
	v.SetConfigName("config")
	v.SetConfigType("yml")
	v.AutomaticEnv()

	for k, val := range defaults {
		v.SetDefault(k, val)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		slog.Debug("config file not found; using environment variables and defaults")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}
	cfg.DBDriver = strings.ToLower(strings.TrimSpace(cfg.DBDriver))

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate ensures that required configuration values are present and sane.
func (c *Config) Validate() error {
	if c.Port == "" {
		return errors.New("PORT is required")
	}
	if c.JWTSecret == "" || c.JWTRefreshSecret == "" {
		return errors.New("JWT_SECRET and JWT_REFRESH_SECRET are required")
	}
	switch c.DBDriver {
	case "mysql", "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.DBDSN == "" {
		return errors.New("DB_DSN is required")
	}
	if c.PostsPerPage <= 0 {
		return errors.New("POSTS_PER_PAGE must be positive")
	}
	if c.PageCacheTTL <= 0 {
		return errors.New("PAGE_CACHE_TTL must be positive")
	}
	if c.MaxUploadMB <= 0 {
		return errors.New("MAX_UPLOAD_MB must be positive")
	}

	if c.IsProduction() {
		if c.JWTSecret == defaultJWTSecret || c.JWTRefreshSecret == defaultRefreshSecret {
			return errors.New("JWT secrets must be changed from the default values in production")
		}
		if len(c.JWTSecret) < 32 {
			return errors.New("JWT_SECRET must be at least 32 characters in production")
		}
		if c.DBDriver == "sqlite" {
			slog.Warn("sqlite driver selected in production")
		}
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production" || c.Env == "prod"
}

// Brokers 逗号分隔的 kafka 地址列表
func (c *Config) Brokers() []string {
	var out []string
	for _, b := range strings.Split(c.KafkaBrokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			out = append(out, b)
		}
	}
	return out
}

func (c *Config) MaxUploadBytes() int64 {
	return int64(c.MaxUploadMB) << 20
}

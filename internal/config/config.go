// Package config loads dementia's runtime configuration from the environment,
// an optional .env file, and an optional config.yaml, mirroring the layered
// approach the teacher CLI uses for its own database settings
// (pkg/config/config.go: godotenv + viper, env-first with file/default
// fallback).
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the root configuration for the dementia engine.
type Config struct {
	Database  DatabaseConfig  `mapstructure:"database"`
	Server    ServerConfig    `mapstructure:"server"`
	Session   SessionConfig   `mapstructure:"session"`
	Embedding EmbeddingConfig `mapstructure:"embedding"`
	LLM       LLMConfig       `mapstructure:"llm"`
}

// DatabaseConfig holds the Postgres connection and pool settings for the
// Storage Adapter.
type DatabaseConfig struct {
	Host             string        `mapstructure:"host"`
	Port             int           `mapstructure:"port"`
	User             string        `mapstructure:"user"`
	Password         string        `mapstructure:"password"`
	Name             string        `mapstructure:"name"`
	SSLMode          string        `mapstructure:"ssl_mode"`
	MinConns         int32         `mapstructure:"min_conns"`
	MaxConns         int32         `mapstructure:"max_conns"`
	StatementTimeout time.Duration `mapstructure:"statement_timeout"`
}

// DSN assembles a libpq-style connection string, the same fmt.Sprintf shape
// the teacher uses in pkg/repository/database.go.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

// ServerConfig configures process-level concerns not tied to any one
// transport (health port, shutdown grace period).
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// SessionConfig carries the cutoffs spec.md §9 asks to be configuration
// rather than hardcoded constants.
type SessionConfig struct {
	// HandoverCutoff is the idle duration after which get_last_handover
	// switches from the "current" path to the "packaged" path.
	HandoverCutoff time.Duration `mapstructure:"handover_cutoff"`
	// IdleTTL is the idle duration after which the cleanup task deletes a
	// session row.
	IdleTTL time.Duration `mapstructure:"idle_ttl"`
	// CleanupInterval is how often the background cleanup task scans.
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

// EmbeddingConfig points at the optional embedding collaborator (spec.md §6).
type EmbeddingConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	BaseURL  string        `mapstructure:"base_url"`
	APIKey   string        `mapstructure:"api_key"`
	Model    string        `mapstructure:"model"`
	Timeout  time.Duration `mapstructure:"timeout"`
	MaxChars int           `mapstructure:"max_chars"`
}

// LLMConfig points at the optional summarization collaborator (spec.md §6).
type LLMConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	BaseURL string        `mapstructure:"base_url"`
	APIKey  string        `mapstructure:"api_key"`
	Model   string        `mapstructure:"model"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// Load reads configuration from environment variables, an optional .env
// file, and an optional config.yaml in the working directory or ./config,
// following the precedence the teacher's pkg/config/config.go establishes.
func Load() (*Config, error) {
	for _, path := range []string{".env", "./config/.env"} {
		if err := godotenv.Load(path); err == nil {
			break
		}
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	viper.SetDefault("database.host", getEnv("DEMENTIA_PG_HOST", "localhost"))
	viper.SetDefault("database.port", getEnvInt("DEMENTIA_PG_PORT", 5432))
	viper.SetDefault("database.user", getEnv("DEMENTIA_PG_USER", "postgres"))
	viper.SetDefault("database.password", getEnv("DEMENTIA_PG_PASSWORD", ""))
	viper.SetDefault("database.name", getEnv("DEMENTIA_PG_DATABASE", "dementia"))
	viper.SetDefault("database.ssl_mode", getEnv("DEMENTIA_PG_SSL_MODE", "disable"))
	viper.SetDefault("database.min_conns", 2)
	viper.SetDefault("database.max_conns", 10)
	viper.SetDefault("database.statement_timeout", "30s")

	viper.SetDefault("server.host", getEnv("DEMENTIA_HOST", "localhost"))
	viper.SetDefault("server.port", getEnvInt("DEMENTIA_PORT", 8099))
	viper.SetDefault("server.shutdown_timeout", "10s")

	viper.SetDefault("session.handover_cutoff", "2h")
	viper.SetDefault("session.idle_ttl", "2h")
	viper.SetDefault("session.cleanup_interval", "5m")

	viper.SetDefault("embedding.enabled", getEnv("DEMENTIA_EMBEDDING_URL", "") != "")
	viper.SetDefault("embedding.base_url", getEnv("DEMENTIA_EMBEDDING_URL", ""))
	viper.SetDefault("embedding.api_key", getEnv("DEMENTIA_EMBEDDING_API_KEY", ""))
	viper.SetDefault("embedding.model", getEnv("DEMENTIA_EMBEDDING_MODEL", "text-embedding-3-small"))
	viper.SetDefault("embedding.timeout", "10s")
	viper.SetDefault("embedding.max_chars", 1020)

	viper.SetDefault("llm.enabled", getEnv("DEMENTIA_LLM_URL", "") != "")
	viper.SetDefault("llm.base_url", getEnv("DEMENTIA_LLM_URL", ""))
	viper.SetDefault("llm.api_key", getEnv("DEMENTIA_LLM_API_KEY", ""))
	viper.SetDefault("llm.model", getEnv("DEMENTIA_LLM_MODEL", ""))
	viper.SetDefault("llm.timeout", "30s")

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	return &cfg, nil
}

func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue
	}
	var n int
	if _, err := fmt.Sscanf(v, "%d", &n); err != nil {
		return defaultValue
	}
	return n
}

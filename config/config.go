package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the recipe parser service.
type Config struct {
	// Server configuration
	ServerPort string
	ServerHost string

	// Redis configuration (parse cache + rate limiting)
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	RedisURL      string

	// Postgres configuration (parse history; optional)
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// LLM configuration
	LLMAPIKey      string
	LLMAPIURL      string
	LLMModel       string
	LLMVisionModel string

	// Acquisition configuration
	FetchTimeout time.Duration
}

// LoadConfig builds a Config from environment variables. Secrets may be
// supplied indirectly via *_FILE variables pointing at mounted secret files.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		ServerPort: getEnv("SERVER_PORT", "8090"),
		ServerHost: getEnv("SERVER_HOST", "0.0.0.0"),

		RedisHost: getEnv("REDIS_HOST", "localhost"),
		RedisPort: getEnv("REDIS_PORT", "6379"),
		RedisURL:  os.Getenv("REDIS_URL"),

		DBHost:    os.Getenv("DB_HOST"),
		DBPort:    getEnv("DB_PORT", "5432"),
		DBUser:    os.Getenv("DB_USER"),
		DBName:    getEnv("DB_NAME", "recipe_parser"),
		DBSSLMode: getEnv("DB_SSL_MODE", "disable"),

		LLMAPIURL:      getEnv("LLM_API_URL", "https://api.deepseek.com/v1/chat/completions"),
		LLMModel:       getEnv("LLM_MODEL", "deepseek-chat"),
		LLMVisionModel: getEnv("LLM_VISION_MODEL", "deepseek-vl"),
	}

	var err error
	if cfg.RedisPassword, err = getSecret("REDIS_PASSWORD"); err != nil {
		return nil, err
	}
	if cfg.DBPassword, err = getSecret("DB_PASSWORD"); err != nil {
		return nil, err
	}
	if cfg.LLMAPIKey, err = getSecret("LLM_API_KEY"); err != nil {
		return nil, err
	}

	cfg.RedisDB = 0
	if dbStr := os.Getenv("REDIS_DB"); dbStr != "" {
		db, err := strconv.Atoi(dbStr)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_DB %q: %w", dbStr, err)
		}
		cfg.RedisDB = db
	}

	cfg.FetchTimeout = 30 * time.Second
	if secs := os.Getenv("FETCH_TIMEOUT_SECONDS"); secs != "" {
		n, err := strconv.Atoi(secs)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid FETCH_TIMEOUT_SECONDS %q", secs)
		}
		cfg.FetchTimeout = time.Duration(n) * time.Second
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// HistoryEnabled reports whether a Postgres parse-history store is configured.
func (c *Config) HistoryEnabled() bool {
	return c.DBHost != ""
}

// getEnv returns the value of key or a fallback when unset.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// getSecret reads KEY directly, or from the file named by KEY_FILE when the
// direct variable is unset (Docker secrets style).
func getSecret(key string) (string, error) {
	if v := os.Getenv(key); v != "" {
		return v, nil
	}
	file := os.Getenv(key + "_FILE")
	if file == "" {
		return "", nil
	}
	content, err := os.ReadFile(file)
	if err != nil {
		return "", fmt.Errorf("failed to read %s_FILE: %w", key, err)
	}
	v := strings.TrimSpace(string(content))
	if v == "" {
		return "", fmt.Errorf("%s_FILE %s is empty", key, file)
	}
	return v, nil
}

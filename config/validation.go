package config

import (
	"fmt"
	"strconv"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateConfig checks that the loaded configuration is usable for the
// current environment. Development and test tolerate missing secrets so a
// local instance can come up against mocks; production does not.
func ValidateConfig(cfg *Config) error {
	if _, err := strconv.Atoi(cfg.ServerPort); err != nil {
		return ValidationError{Field: "SERVER_PORT", Message: "must be numeric"}
	}
	if cfg.RedisURL == "" {
		if cfg.RedisHost == "" {
			return ValidationError{Field: "REDIS_HOST", Message: "required when REDIS_URL is unset"}
		}
		if _, err := strconv.Atoi(cfg.RedisPort); err != nil {
			return ValidationError{Field: "REDIS_PORT", Message: "must be numeric"}
		}
	}
	if cfg.HistoryEnabled() {
		if cfg.DBUser == "" {
			return ValidationError{Field: "DB_USER", Message: "required when DB_HOST is set"}
		}
		if cfg.DBName == "" {
			return ValidationError{Field: "DB_NAME", Message: "required when DB_HOST is set"}
		}
	}
	if IsProduction() && cfg.LLMAPIKey == "" {
		return ValidationError{Field: "LLM_API_KEY", Message: "required in production"}
	}
	return nil
}

package config

import (
	"fmt"
	"os"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// requiredEnvVars lists the variables that must be set per environment.
// Development and test fall back to defaults for everything except the
// JWT secret, which has no safe default anywhere.
var requiredEnvVars = map[Environment][]string{
	Development: {
		"JWT_SECRET",
	},
	Test: {
		"JWT_SECRET",
	},
	CI: {
		"JWT_SECRET",
		"DB_HOST",
		"DB_PORT",
		"DB_USER",
		"DB_PASSWORD",
		"DB_NAME",
	},
	Production: {
		"JWT_SECRET",
		"DB_HOST",
		"DB_PORT",
		"DB_USER",
		"DB_PASSWORD",
		"DB_NAME",
		"DB_SSL_MODE",
		"SERVER_PORT",
	},
}

// ValidateConfig checks if the configuration meets the requirements for
// the current environment
func ValidateConfig(cfg *Config) error {
	env := GetEnvironment()

	var errors []string
	for _, envVar := range requiredEnvVars[env] {
		if os.Getenv(envVar) == "" {
			errors = append(errors, fmt.Sprintf("required environment variable %s is not set", envVar))
		}
	}

	if cfg.DBDriver != "postgres" && cfg.DBDriver != "sqlite" {
		errors = append(errors, fmt.Sprintf("unsupported DB_DRIVER %q", cfg.DBDriver))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n%s", strings.Join(errors, "\n"))
	}

	return nil
}

package config

import (
	"fmt"

	"github.com/sanketp27/travel-concierge/internal/types"
)

var validProviders = map[string]bool{
	"google": true,
}

var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Validate checks cross-field constraints the type system cannot.
func Validate(cfg *Config) error {
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return validationError(fmt.Sprintf("server.port must be between 1 and 65535, got %d", cfg.Server.Port))
	}
	if cfg.Database.Path == "" {
		return validationError("database.path cannot be empty")
	}
	if !validProviders[cfg.Oracle.Provider] {
		return validationError(fmt.Sprintf("oracle.provider %q is not supported", cfg.Oracle.Provider))
	}
	if cfg.Oracle.Temperature < 0 || cfg.Oracle.Temperature > 2 {
		return validationError(fmt.Sprintf("oracle.temperature must be between 0 and 2, got %g", cfg.Oracle.Temperature))
	}
	if cfg.Executor.PoolSize <= 0 {
		return validationError(fmt.Sprintf("executor.pool_size must be positive, got %d", cfg.Executor.PoolSize))
	}
	if cfg.Executor.RetryDelay < 0 {
		return validationError("executor.retry_delay cannot be negative")
	}
	if cfg.Loop.MaxIterations <= 0 {
		return validationError(fmt.Sprintf("loop.max_iterations must be positive, got %d", cfg.Loop.MaxIterations))
	}
	if !validLogLevels[cfg.Logging.Level] {
		return validationError(fmt.Sprintf("logging.level %q is not supported", cfg.Logging.Level))
	}
	if cfg.Logging.Format != "json" && cfg.Logging.Format != "text" {
		return validationError(fmt.Sprintf("logging.format %q must be json or text", cfg.Logging.Format))
	}
	if err := cfg.Tracing.Validate(); err != nil {
		return validationError(err.Error())
	}
	return nil
}

func validationError(message string) error {
	return types.NewError(types.CONFIG_VALIDATION_FAILED, message)
}

package config

import (
	"time"

	"github.com/sanketp27/travel-concierge/internal/database"
	"github.com/sanketp27/travel-concierge/internal/observability"
	"github.com/sanketp27/travel-concierge/internal/oracle"
	"github.com/sanketp27/travel-concierge/internal/server"
)

// Config is the root configuration for the concierge service.
type Config struct {
	Server   server.Config               `mapstructure:"server" yaml:"server"`
	Database database.Config             `mapstructure:"database" yaml:"database"`
	Oracle   OracleConfig                `mapstructure:"oracle" yaml:"oracle"`
	Executor ExecutorConfig              `mapstructure:"executor" yaml:"executor"`
	Loop     LoopConfig                  `mapstructure:"loop" yaml:"loop"`
	Logging  LoggingConfig               `mapstructure:"logging" yaml:"logging"`
	Tracing  observability.TracingConfig `mapstructure:"tracing" yaml:"tracing"`
}

// OracleConfig selects and configures the reasoning provider.
type OracleConfig struct {
	Provider    string              `mapstructure:"provider" yaml:"provider"`
	Model       string              `mapstructure:"model" yaml:"model"`
	Temperature float64             `mapstructure:"temperature" yaml:"temperature"`
	MaxTokens   int                 `mapstructure:"max_tokens" yaml:"max_tokens"`
	Google      oracle.GoogleConfig `mapstructure:"google" yaml:"google"`
}

// ExecutorConfig tunes the task worker pool.
type ExecutorConfig struct {
	PoolSize    int           `mapstructure:"pool_size" yaml:"pool_size"`
	TaskTimeout time.Duration `mapstructure:"task_timeout" yaml:"task_timeout"`
	RetryDelay  time.Duration `mapstructure:"retry_delay" yaml:"retry_delay"`
}

// LoopConfig bounds the refinement loop.
type LoopConfig struct {
	MaxIterations int `mapstructure:"max_iterations" yaml:"max_iterations"`
}

// LoggingConfig controls the structured logger.
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"` // "json" or "text"
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		Server:   server.DefaultConfig(),
		Database: database.DefaultConfig("concierge.db"),
		Oracle: OracleConfig{
			Provider:    "google",
			Model:       "gemini-1.5-flash",
			Temperature: 0.2,
			MaxTokens:   4096,
		},
		Executor: ExecutorConfig{
			PoolSize:    10,
			TaskTimeout: 2 * time.Minute,
			RetryDelay:  500 * time.Millisecond,
		},
		Loop: LoopConfig{
			MaxIterations: 3,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Tracing: observability.DefaultTracingConfig(),
	}
}

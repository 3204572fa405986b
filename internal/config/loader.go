package config

import (
	"os"
	"regexp"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/sanketp27/travel-concierge/internal/types"
)

// Load reads configuration from the given YAML file, interpolates
// ${VAR} references from the environment, applies defaults for unset
// fields, and validates the result.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, types.WrapError(types.CONFIG_LOAD_FAILED, "failed to read config file", err)
	}

	for _, key := range v.AllKeys() {
		if s, ok := v.Get(key).(string); ok {
			v.Set(key, interpolateString(s))
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, types.WrapError(types.CONFIG_PARSE_FAILED, "failed to unmarshal config", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadWithDefaults behaves like Load but falls back to the default
// configuration when the file does not exist.
func LoadWithDefaults(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := DefaultConfig()
		if err := Validate(cfg); err != nil {
			return nil, err
		}
		return cfg, nil
	}
	return Load(path)
}

// WriteDefault writes the default configuration to the given path as
// YAML. It refuses to overwrite an existing file.
func WriteDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return types.NewError(types.CONFIG_LOAD_FAILED, "config file already exists: "+path)
	}

	data, err := yaml.Marshal(DefaultConfig())
	if err != nil {
		return types.WrapError(types.CONFIG_PARSE_FAILED, "failed to marshal default config", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return types.WrapError(types.CONFIG_LOAD_FAILED, "failed to write config file", err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	def := DefaultConfig()

	v.SetDefault("server.host", def.Server.Host)
	v.SetDefault("server.port", def.Server.Port)
	v.SetDefault("server.cors_origins", def.Server.CORSOrigins)
	v.SetDefault("server.read_timeout", def.Server.ReadTimeout)
	v.SetDefault("server.write_timeout", def.Server.WriteTimeout)
	v.SetDefault("server.shutdown_timeout", def.Server.ShutdownTimeout)

	v.SetDefault("database.path", def.Database.Path)
	v.SetDefault("database.max_open_conns", def.Database.MaxOpenConns)
	v.SetDefault("database.max_idle_conns", def.Database.MaxIdleConns)
	v.SetDefault("database.conn_max_lifetime", def.Database.ConnMaxLifetime)
	v.SetDefault("database.busy_timeout", def.Database.BusyTimeout)

	v.SetDefault("oracle.provider", def.Oracle.Provider)
	v.SetDefault("oracle.model", def.Oracle.Model)
	v.SetDefault("oracle.temperature", def.Oracle.Temperature)
	v.SetDefault("oracle.max_tokens", def.Oracle.MaxTokens)

	v.SetDefault("executor.pool_size", def.Executor.PoolSize)
	v.SetDefault("executor.task_timeout", def.Executor.TaskTimeout)
	v.SetDefault("executor.retry_delay", def.Executor.RetryDelay)

	v.SetDefault("loop.max_iterations", def.Loop.MaxIterations)

	v.SetDefault("logging.level", def.Logging.Level)
	v.SetDefault("logging.format", def.Logging.Format)

	v.SetDefault("tracing.enabled", def.Tracing.Enabled)
	v.SetDefault("tracing.provider", def.Tracing.Provider)
	v.SetDefault("tracing.service_name", def.Tracing.ServiceName)
	v.SetDefault("tracing.sample_rate", def.Tracing.SampleRate)
}

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// interpolateString replaces ${VAR_NAME} with environment variable
// values. Unset variables interpolate to an empty string.
func interpolateString(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		name := strings.TrimSuffix(strings.TrimPrefix(match, "${"), "}")
		return os.Getenv(name)
	})
}

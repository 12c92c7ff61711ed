package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Load reads configuration from environment variables and an optional
// config.yaml in the working directory. Environment variables take
// precedence and use the PROMOTER_ prefix with underscores for nesting,
// e.g. PROMOTER_DATABASE_URL, PROMOTER_LLM_GEMINI_API_KEY.
// Returns a populated Config or an error if loading or validation fails.
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("PROMOTER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Keys without defaults need explicit binding for AutomaticEnv to see
	// them during Unmarshal.
	for _, key := range []string{"database.url", "llm.gemini_api_key"} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind env for %s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine; env vars and defaults carry it.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")

	// Pool defaults match the sizing the service has always run with.
	v.SetDefault("database.pool_min_size", 5)
	v.SetDefault("database.pool_max_size", 20)
	v.SetDefault("database.pool_max_waiting", 100)
	v.SetDefault("database.pool_max_lifetime", 3600)
	v.SetDefault("database.pool_acquire_timeout", 30)

	v.SetDefault("llm.model_name", "gemini-2.0-flash")

	v.SetDefault("orchestrator.persona", "concise")
	v.SetDefault("orchestrator.max_steps", 12)
}

package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server       ServerConfig       `mapstructure:"server"       validate:"required"`
	Database     DatabaseConfig     `mapstructure:"database"     validate:"required"`
	LLM          LLMConfig          `mapstructure:"llm"          validate:"required"`
	Orchestrator OrchestratorConfig `mapstructure:"orchestrator" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains the store connection settings, including the
// connection pool's admission policy.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required"`

	// Pool sizing. MaxWaiting bounds callers queued for a connection;
	// MaxLifetimeSeconds retires connections that have been open too long.
	PoolMinSize           int `mapstructure:"pool_min_size"        validate:"gte=0"`
	PoolMaxSize           int `mapstructure:"pool_max_size"        validate:"required,gt=0,gtefield=PoolMinSize"`
	PoolMaxWaiting        int `mapstructure:"pool_max_waiting"     validate:"gte=0"`
	PoolMaxLifetimeSecs   int `mapstructure:"pool_max_lifetime"    validate:"gt=0"`
	AcquireTimeoutSeconds int `mapstructure:"pool_acquire_timeout" validate:"gt=0"`
}

// LLMConfig contains all model-capability settings.
type LLMConfig struct {
	GeminiAPIKey string `mapstructure:"gemini_api_key" validate:"required"`
	ModelName    string `mapstructure:"model_name"     validate:"required"`
}

// OrchestratorConfig tunes the decision loop.
type OrchestratorConfig struct {
	// Persona selects the system-prompt variant: "concise" or "confirm".
	Persona string `mapstructure:"persona" validate:"required,oneof=concise confirm"`

	// MaxSteps bounds transitions per cycle.
	MaxSteps int `mapstructure:"max_steps" validate:"gt=0"`
}

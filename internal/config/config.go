package config

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds runtime configuration sourced from environment variables.
type Config struct {
	AppEnv       string        `envconfig:"APP_ENV" default:"development"`
	Addr         string        `envconfig:"APP_ADDR" default:":8080"`
	ReadTimeout  time.Duration `envconfig:"APP_READ_TIMEOUT" default:"15s"`
	WriteTimeout time.Duration `envconfig:"APP_WRITE_TIMEOUT" default:"15s"`

	LogFormat string `envconfig:"LOG_FORMAT" default:"text"`

	DBPath        string `envconfig:"DB_PATH" default:"./printquote.db"`
	MigrationsDir string `envconfig:"MIGRATIONS_DIR" default:"migrations"`
}

// Load reads configuration from the environment. A local .env file is loaded
// best-effort first; production should use real env injection.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// IsDev returns true outside of production.
func (c *Config) IsDev() bool {
	return c != nil && c.AppEnv != "production"
}

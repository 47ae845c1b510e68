package api

import (
	"time"

	"github.com/caarlos0/env/v11"
)

// ServerConfig holds the server configuration. Every field can be set from
// the environment.
type ServerConfig struct {
	Host           string        `env:"FINESSE_HOST" envDefault:"localhost"`
	Port           int           `env:"FINESSE_PORT" envDefault:"8080"`
	ReadTimeout    time.Duration `env:"FINESSE_READ_TIMEOUT" envDefault:"30s"`
	WriteTimeout   time.Duration `env:"FINESSE_WRITE_TIMEOUT" envDefault:"30s"`
	IdleTimeout    time.Duration `env:"FINESSE_IDLE_TIMEOUT" envDefault:"60s"`
	MaxFastWorkers int           `env:"FINESSE_FAST_WORKERS" envDefault:"100"`
	MaxSlowWorkers int           `env:"FINESSE_SLOW_WORKERS" envDefault:"4"`
	DBPath         string        `env:"FINESSE_DB" envDefault:"./data/finesse.db"`
	JWTSecret      string        `env:"FINESSE_JWT_SECRET"`
}

// DefaultConfig returns a ServerConfig with sensible defaults.
func DefaultConfig() ServerConfig {
	return ServerConfig{
		Host:           "localhost",
		Port:           8080,
		ReadTimeout:    30 * time.Second,
		WriteTimeout:   30 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxFastWorkers: 100,
		MaxSlowWorkers: 4,
		DBPath:         "./data/finesse.db",
	}
}

// ConfigFromEnv builds a ServerConfig from FINESSE_* environment variables.
func ConfigFromEnv() (ServerConfig, error) {
	var cfg ServerConfig
	if err := env.Parse(&cfg); err != nil {
		return ServerConfig{}, err
	}
	return cfg, nil
}

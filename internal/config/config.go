package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds server configuration parsed from the environment
type Config struct {
	Host string `env:"BOATRACE_HOST" envDefault:""`
	Port int    `env:"BOATRACE_PORT" envDefault:"8080"`

	// StorageType selects the snapshot store backend ("memory" or "redis")
	StorageType string `env:"BOATRACE_STORAGE" envDefault:"memory"`
	RedisURL    string `env:"BOATRACE_REDIS_URL" envDefault:"redis://localhost:6379"`

	// TickInterval is the boat loop period; TickStep the position advance per tick
	TickInterval time.Duration `env:"BOATRACE_TICK_INTERVAL" envDefault:"500ms"`
	TickStep     int           `env:"BOATRACE_TICK_STEP" envDefault:"5"`

	LogLevel string `env:"BOATRACE_LOG_LEVEL" envDefault:"info"`
}

// Load parses configuration from the environment
func Load() (Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.TickStep <= 0 {
		return Config{}, fmt.Errorf("tick step must be positive, got %d", cfg.TickStep)
	}
	return cfg, nil
}

package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App struct {
		Name     string `envconfig:"APP_NAME" default:"Pizzangooo"`
		Port     int    `envconfig:"PORT" default:"8080"`
		Passcode string `envconfig:"APP_PASSCODE" default:"060821"`
	}

	DB struct {
		Path string `envconfig:"DB_PATH" default:"loyalty.db"`
	}

	Auth struct {
		Secret string        `envconfig:"AUTH_SECRET" default:"change-me"`
		TTL    time.Duration `envconfig:"AUTH_TTL" default:"12h"`
	}

	Sync struct {
		// Default endpoint used until the operator stores one; empty
		// disables sync entirely.
		URL     string        `envconfig:"SYNC_URL" default:""`
		Timeout time.Duration `envconfig:"SYNC_TIMEOUT" default:"15s"`
	}

	Server struct {
		Timeout time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
	}

	Syncd struct {
		Port int `envconfig:"SYNCD_PORT" default:"8090"`
		// Driver is sqlite3 or pgx; DSN is a file path for sqlite3 and a
		// connection string for pgx.
		Driver string `envconfig:"SYNCD_DB_DRIVER" default:"sqlite3"`
		DSN    string `envconfig:"SYNCD_DB_DSN" default:"syncdoc.db"`
	}
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}

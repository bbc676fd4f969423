// Package config loads settings from the environment, after an optional .env
// file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	ServerURL      string        `env:"IRONSWORN_SERVER_URL"       envDefault:"ws://localhost:8080"`
	APIURL         string        `env:"IRONSWORN_API_URL"          envDefault:"http://localhost:8080"`
	ReconnectDelay time.Duration `env:"IRONSWORN_RECONNECT_DELAY"  envDefault:"3s"`
	MeterSyncDelay time.Duration `env:"IRONSWORN_METER_SYNC_DELAY" envDefault:"500ms"`
	RevealInterval time.Duration `env:"IRONSWORN_REVEAL_INTERVAL"  envDefault:"30ms"`

	LogLevel  string `env:"IRONSWORN_LOG_LEVEL"  envDefault:"info"`
	LogFormat string `env:"IRONSWORN_LOG_FORMAT" envDefault:"console"`

	DevServerAddr string `env:"IRONSWORN_DEVSERVER_ADDR" envDefault:":8080"`
	// DatabaseURL selects the Postgres store for the dev server. Empty keeps
	// sessions in memory.
	DatabaseURL string `env:"IRONSWORN_DATABASE_URL"`
}

// Load reads the given .env files (default ".env"; missing files are fine)
// and then parses the environment. Variables already set win over the files.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// SessionURL is the websocket endpoint for one session.
func (c Config) SessionURL(id string) string {
	return c.ServerURL + "/ws?session=" + id
}

// Package config reads process configuration from the environment, optionally
// seeded from .env files in the working directory.
package config

import (
	"errors"
	"io/fs"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// DefaultEnvFiles are loaded in order when present. Variables already set in the
// environment win.
var DefaultEnvFiles = []string{".env", ".env.local"}

type Config struct {
	Data     string `env:"SHOWCASE_DATA" envDefault:"data/slides.json"`
	BaseURL  string `env:"SHOWCASE_BASE_URL" envDefault:"http://127.0.0.1:3335/"`
	Addr     string `env:"SHOWCASE_ADDR" envDefault:"127.0.0.1:3335"`
	TUIAddr  string `env:"SHOWCASE_TUI_ADDR" envDefault:"127.0.0.1:3334"`
	Format   string `env:"SHOWCASE_FORMAT" envDefault:"json"`
	LogLevel string `env:"SHOWCASE_LOG_LEVEL" envDefault:"info"`
	LogFile  string `env:"SHOWCASE_LOG_FILE"`
	Watch    bool   `env:"SHOWCASE_WATCH" envDefault:"false"`
	Theme    string `env:"SHOWCASE_TUI_THEME" envDefault:"auto"`
}

// LoadEnv loads the env files that exist and returns how many were read.
func LoadEnv(files []string) (int, error) {
	existing := make([]string, 0, len(files))
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			existing = append(existing, f)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return 0, err
		}
	}
	if len(existing) == 0 {
		return 0, nil
	}
	return len(existing), godotenv.Load(existing...)
}

// Load reads DefaultEnvFiles and parses the environment.
func Load() (Config, error) {
	if _, err := LoadEnv(DefaultEnvFiles); err != nil {
		return Config{}, err
	}
	return Parse()
}

// Parse parses the current environment without touching env files.
func Parse() (Config, error) {
	var c Config
	if err := env.Parse(&c); err != nil {
		return Config{}, err
	}
	return c, nil
}

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	env "github.com/Netflix/go-env"
	"github.com/joho/godotenv"
)

// EnvConfig maps GALLERYBIN_* variables. Unset variables leave the
// corresponding setting alone.
type EnvConfig struct {
	DBPath        string `env:"GALLERYBIN_DB"`
	MediaRoot     string `env:"GALLERYBIN_MEDIA"`
	SweepInterval string `env:"GALLERYBIN_SWEEP_INTERVAL"`
	CopyWorkers   int    `env:"GALLERYBIN_COPY_WORKERS"`
	TimeZone      string `env:"GALLERYBIN_TZ"`
	LogBackend    string `env:"GALLERYBIN_LOG_BACKEND"`
	LogLevel      string `env:"GALLERYBIN_LOG_LEVEL"`
	LogFormat     string `env:"GALLERYBIN_LOG_FORMAT"`
}

const configPathVar = "GALLERYBIN_CONFIG"

func lookupConfigPath() string {
	return os.Getenv(configPathVar)
}

// loadDotEnv seeds the process environment from a .env file. Variables that
// are already set win. A missing file is not an error.
func loadDotEnv(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func (c *Config) loadEnv() error {
	var ec EnvConfig
	if _, err := env.UnmarshalFromEnviron(&ec); err != nil {
		return fmt.Errorf("read environment: %w", err)
	}

	setIf(&c.DBPath, ec.DBPath)
	setIf(&c.MediaRoot, ec.MediaRoot)
	setIf(&c.TimeZone, ec.TimeZone)
	setIf(&c.LogBackend, ec.LogBackend)
	setIf(&c.LogLevel, ec.LogLevel)
	setIf(&c.LogFormat, ec.LogFormat)

	if ec.SweepInterval != "" {
		d, err := time.ParseDuration(ec.SweepInterval)
		if err != nil {
			return fmt.Errorf("GALLERYBIN_SWEEP_INTERVAL: %w", err)
		}
		c.SweepInterval = d
	}
	if ec.CopyWorkers != 0 {
		c.CopyWorkers = ec.CopyWorkers
	}
	return nil
}

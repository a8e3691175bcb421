package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/dmitrijs2005/gallerybin/internal/logging"
)

const appName = "gallerybin"

// Config holds runtime settings.
type Config struct {
	DBPath        string
	MediaRoot     string
	SweepInterval time.Duration
	CopyWorkers   int
	TimeZone      string

	LogBackend string
	LogLevel   string
	LogFormat  string
}

// LoadDefaults populates c with defaults.
func (c *Config) LoadDefaults() {
	c.DBPath = filepath.Join(xdg.DataHome, appName, "bin.db")
	c.MediaRoot = xdg.UserDirs.Pictures
	c.SweepInterval = time.Hour
	c.CopyWorkers = 2
	c.TimeZone = "Local"
	c.LogBackend = logging.BackendSlog
	c.LogLevel = "info"
	c.LogFormat = logging.FormatText
}

// Overrides carries command-line values. Empty fields are ignored.
type Overrides struct {
	DBPath     string
	MediaRoot  string
	LogBackend string
	LogLevel   string
	LogFormat  string
}

func (c *Config) apply(o Overrides) {
	setIf(&c.DBPath, o.DBPath)
	setIf(&c.MediaRoot, o.MediaRoot)
	setIf(&c.LogBackend, o.LogBackend)
	setIf(&c.LogLevel, o.LogLevel)
	setIf(&c.LogFormat, o.LogFormat)
}

func setIf(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// Load builds a Config from every source. jsonPath and envFile may be empty.
func Load(jsonPath, envFile string, o Overrides) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := loadDotEnv(envFile); err != nil {
		return nil, err
	}

	if jsonPath == "" {
		jsonPath = lookupConfigPath()
	}
	if err := cfg.loadJSON(jsonPath); err != nil {
		return nil, err
	}

	if err := cfg.loadEnv(); err != nil {
		return nil, err
	}

	cfg.apply(o)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the application cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if c.DBPath == "" {
		errs = append(errs, errors.New("db path is empty"))
	}
	if c.MediaRoot == "" {
		errs = append(errs, errors.New("media root is empty"))
	}
	if c.SweepInterval <= 0 {
		errs = append(errs, fmt.Errorf("sweep interval must be positive, got %s", c.SweepInterval))
	}
	if c.CopyWorkers < 1 {
		errs = append(errs, fmt.Errorf("copy workers must be at least 1, got %d", c.CopyWorkers))
	}
	if _, err := c.Location(); err != nil {
		errs = append(errs, err)
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Location resolves TimeZone. "Local" and "" mean the system zone.
func (c *Config) Location() (*time.Location, error) {
	if c.TimeZone == "" || c.TimeZone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("time zone %q: %w", c.TimeZone, err)
	}
	return loc, nil
}

package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/gallerybin/internal/timex"
)

// JsonConfig is a DTO used only for JSON unmarshalling. Intervals may be
// written as "30m" or as integer nanoseconds. Absent fields keep the value
// they had before the file was read.
type JsonConfig struct {
	DBPath        *string         `json:"db_path"`
	MediaRoot     *string         `json:"media_root"`
	SweepInterval *timex.Duration `json:"sweep_interval"`
	CopyWorkers   *int            `json:"copy_workers"`
	TimeZone      *string         `json:"time_zone"`
	LogBackend    *string         `json:"log_backend"`
	LogLevel      *string         `json:"log_level"`
	LogFormat     *string         `json:"log_format"`
}

func (c *Config) loadJSON(path string) error {
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	if jc.DBPath != nil {
		c.DBPath = *jc.DBPath
	}
	if jc.MediaRoot != nil {
		c.MediaRoot = *jc.MediaRoot
	}
	if jc.SweepInterval != nil {
		c.SweepInterval = jc.SweepInterval.Duration
	}
	if jc.CopyWorkers != nil {
		c.CopyWorkers = *jc.CopyWorkers
	}
	if jc.TimeZone != nil {
		c.TimeZone = *jc.TimeZone
	}
	if jc.LogBackend != nil {
		c.LogBackend = *jc.LogBackend
	}
	if jc.LogLevel != nil {
		c.LogLevel = *jc.LogLevel
	}
	if jc.LogFormat != nil {
		c.LogFormat = *jc.LogFormat
	}
	return nil
}

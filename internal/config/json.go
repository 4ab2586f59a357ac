package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"calorie-tracker/internal/storage"
)

// JsonConfig is the on-disk shape of the config file. Zero values leave the
// corresponding Config field untouched.
type JsonConfig struct {
	LogBackend        string  `json:"log_backend"`
	LogPath           string  `json:"log_path"`
	DBPath            string  `json:"db_path"`
	ReferencePath     string  `json:"reference_path"`
	ReferenceCacheTTL string  `json:"reference_cache_ttl"`
	Host              string  `json:"host"`
	Port              int     `json:"port"`
	LogLevel          string  `json:"log_level"`
	LogFormat         string  `json:"log_format"`
	LogFile           string  `json:"log_file"`
	RateLimit         float64 `json:"rate_limit"`
	RateBurst         int     `json:"rate_burst"`
}

// parseJson overlays cfg with values from the JSON file at path.
func parseJson(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	setString := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}

	if jc.LogBackend != "" {
		cfg.LogBackend = storage.Backend(jc.LogBackend)
	}
	setString(&cfg.LogPath, jc.LogPath)
	setString(&cfg.DBPath, jc.DBPath)
	setString(&cfg.ReferencePath, jc.ReferencePath)
	setString(&cfg.Host, jc.Host)
	setString(&cfg.LogLevel, jc.LogLevel)
	setString(&cfg.LogFormat, jc.LogFormat)
	setString(&cfg.LogFile, jc.LogFile)

	if jc.ReferenceCacheTTL != "" {
		ttl, err := time.ParseDuration(jc.ReferenceCacheTTL)
		if err != nil {
			return fmt.Errorf("invalid reference_cache_ttl: %w", err)
		}
		cfg.ReferenceCacheTTL = ttl
	}
	if jc.Port != 0 {
		cfg.Port = jc.Port
	}
	if jc.RateLimit != 0 {
		cfg.RateLimit = jc.RateLimit
	}
	if jc.RateBurst != 0 {
		cfg.RateBurst = jc.RateBurst
	}
	return nil
}

// Package config loads runtime configuration for the calorie tracker.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with -c or -config.
//  3. Global command-line flags, which override earlier values.
//
// Global flags come before the subcommand:
//
//	calorie-tracker -log-backend sqlite -db daily_log.db add --name Apple
//
// # JSON schema
//
//	{
//	  "log_backend": "json",
//	  "log_path": "daily_log.json",
//	  "db_path": "daily_log.db",
//	  "reference_path": "data/food.csv",
//	  "reference_cache_ttl": "5m",
//	  "host": "0.0.0.0",
//	  "port": 8000,
//	  "log_level": "info",
//	  "log_format": "text",
//	  "log_file": "",
//	  "rate_limit": 5,
//	  "rate_burst": 10
//	}
package config

import (
	"time"

	"calorie-tracker/internal/storage"
)

// Config holds runtime settings.
type Config struct {
	LogBackend storage.Backend
	LogPath    string
	DBPath     string

	ReferencePath     string
	ReferenceCacheTTL time.Duration

	Host string
	Port int

	LogLevel  string
	LogFormat string

	// LogFile, when set, sends logs to a size-rotated file instead of stderr.
	LogFile string

	// RateLimit is requests per second accepted by the HTTP server; 0 disables limiting.
	RateLimit float64
	RateBurst int
}

// LoadDefaults populates c with defaults matching the bundled data layout.
func (c *Config) LoadDefaults() {
	c.LogBackend = storage.BackendJSON
	c.LogPath = "daily_log.json"
	c.DBPath = "daily_log.db"
	c.ReferencePath = "data/food.csv"
	c.ReferenceCacheTTL = 5 * time.Minute
	c.Host = "0.0.0.0"
	c.Port = 8000
	c.LogLevel = "info"
	c.LogFormat = "text"
	c.RateLimit = 0
	c.RateBurst = 10
}

// StorePath returns the location handed to storage.Open for the chosen backend.
func (c *Config) StorePath() string {
	if c.LogBackend == storage.BackendSQLite {
		return c.DBPath
	}
	return c.LogPath
}

// LoadConfig applies defaults, then the JSON file, then global flags found
// at the start of args. It returns the arguments left after the global flags,
// starting with the subcommand.
func LoadConfig(args []string) (*Config, []string, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	global, rest := splitGlobalArgs(args)

	if path := jsonConfigPath(global); path != "" {
		if err := parseJson(cfg, path); err != nil {
			return nil, nil, err
		}
	}
	if err := parseFlags(cfg, global); err != nil {
		return nil, nil, err
	}
	return cfg, rest, nil
}

package config

import (
	"flag"
	"io"
	"strings"

	"calorie-tracker/internal/storage"
)

// splitGlobalArgs separates leading "-flag value" / "-flag=value" pairs from
// the subcommand and its arguments. Every global flag takes a value.
func splitGlobalArgs(args []string) (global, rest []string) {
	i := 0
	for i < len(args) {
		arg := args[i]
		if !strings.HasPrefix(arg, "-") || arg == "-" {
			break
		}
		if arg == "--" {
			i++
			break
		}
		if strings.Contains(arg, "=") {
			i++
			continue
		}
		i += 2
	}
	if i > len(args) {
		i = len(args)
	}
	return args[:i], args[i:]
}

// filterArgs keeps only the allowed flags (and their values) from args.
func filterArgs(args []string, allowedFlags []string) []string {
	allowed := make(map[string]struct{}, len(allowedFlags))
	for _, f := range allowedFlags {
		allowed[f] = struct{}{}
	}

	filtered := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]

		if strings.HasPrefix(arg, "-") && strings.Contains(arg, "=") {
			name := strings.SplitN(arg, "=", 2)[0]
			if _, ok := allowed[name]; ok {
				filtered = append(filtered, arg)
			}
			continue
		}

		if _, ok := allowed[arg]; ok {
			filtered = append(filtered, arg)
			if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
				filtered = append(filtered, args[i+1])
				i++
			}
		}
	}
	return filtered
}

// jsonConfigPath extracts the value of -c / -config (or their double-dash forms).
func jsonConfigPath(args []string) string {
	var path string

	fs := flag.NewFlagSet("json", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&path, "config", "", "path to config file")
	fs.StringVar(&path, "c", "", "path to config file (short)")
	_ = fs.Parse(filterArgs(args, []string{"-c", "-config", "--c", "--config"}))

	return path
}

// parseFlags overlays cfg with global command-line flags.
func parseFlags(cfg *Config, args []string) error {
	fs := flag.NewFlagSet("calorie-tracker", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var ignored string
	fs.StringVar(&ignored, "config", "", "path to config file")
	fs.StringVar(&ignored, "c", "", "path to config file (short)")

	backend := fs.String("log-backend", string(cfg.LogBackend), "log store: json, sqlite or memory")
	fs.StringVar(&cfg.LogPath, "log", cfg.LogPath, "JSON log file")
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "SQLite database path")
	fs.StringVar(&cfg.ReferencePath, "reference", cfg.ReferencePath, "default reference CSV table")
	fs.DurationVar(&cfg.ReferenceCacheTTL, "reference-ttl", cfg.ReferenceCacheTTL, "how long parsed reference tables are cached")
	fs.StringVar(&cfg.Host, "host", cfg.Host, "HTTP listen host")
	fs.IntVar(&cfg.Port, "port", cfg.Port, "HTTP listen port")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "log format: text or json")
	fs.StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "rotated log file; empty logs to stderr")
	fs.Float64Var(&cfg.RateLimit, "rate-limit", cfg.RateLimit, "HTTP requests per second, 0 disables")
	fs.IntVar(&cfg.RateBurst, "rate-burst", cfg.RateBurst, "HTTP request burst size")

	if err := fs.Parse(args); err != nil {
		return err
	}
	cfg.LogBackend = storage.Backend(*backend)
	return nil
}

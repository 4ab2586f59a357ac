package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"calorie-tracker/internal/storage"
)

func writeTempJSON(t *testing.T, data map[string]any) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cfg.json")
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, storage.BackendJSON, c.LogBackend)
	assert.Equal(t, "daily_log.json", c.LogPath)
	assert.Equal(t, "data/food.csv", c.ReferencePath)
	assert.Equal(t, 5*time.Minute, c.ReferenceCacheTTL)
	assert.Equal(t, 8000, c.Port)
	assert.Equal(t, "daily_log.json", c.StorePath())

	c.LogBackend = storage.BackendSQLite
	assert.Equal(t, "daily_log.db", c.StorePath())
}

func TestLoadConfig_NoArgsUsesDefaults(t *testing.T) {
	cfg, rest, err := LoadConfig(nil)
	require.NoError(t, err)
	assert.Empty(t, rest)

	var want Config
	want.LoadDefaults()
	assert.Empty(t, cmp.Diff(&want, cfg))
}

func TestLoadConfig_FlagsStopAtSubcommand(t *testing.T) {
	cfg, rest, err := LoadConfig([]string{"-log-backend", "sqlite", "-db=x.db", "add", "--name", "Apple", "--csv", "f.csv"})
	require.NoError(t, err)

	assert.Equal(t, storage.BackendSQLite, cfg.LogBackend)
	assert.Equal(t, "x.db", cfg.DBPath)
	assert.Equal(t, []string{"add", "--name", "Apple", "--csv", "f.csv"}, rest)
}

func TestLoadConfig_Precedence(t *testing.T) {
	path := writeTempJSON(t, map[string]any{
		"log_path":            "from-json.json",
		"port":                9000,
		"reference_cache_ttl": "10s",
		"rate_limit":          2.5,
		"log_file":            "tracker.log",
	})

	cfg, rest, err := LoadConfig([]string{"-c", path, "-port", "9100", "summary"})
	require.NoError(t, err)

	assert.Equal(t, []string{"summary"}, rest)
	assert.Equal(t, "from-json.json", cfg.LogPath, "json overrides default")
	assert.Equal(t, 9100, cfg.Port, "flag overrides json")
	assert.Equal(t, 10*time.Second, cfg.ReferenceCacheTTL)
	assert.Equal(t, 2.5, cfg.RateLimit)
	assert.Equal(t, "tracker.log", cfg.LogFile)
	assert.Equal(t, "info", cfg.LogLevel, "absent json keys keep defaults")
}

func TestLoadConfig_Errors(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{ not json`), 0o600))

	tests := []struct {
		name string
		args []string
	}{
		{name: "missing config file", args: []string{"-config", filepath.Join(dir, "missing.json")}},
		{name: "invalid json", args: []string{"-config", bad}},
		{name: "bad ttl", args: []string{"-config", writeTempJSON(t, map[string]any{"reference_cache_ttl": "soon"})}},
		{name: "bad port", args: []string{"-port", "eighty"}},
		{name: "unknown flag", args: []string{"-verbose", "yes"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := LoadConfig(tt.args)
			require.Error(t, err)
		})
	}
}

func TestSplitGlobalArgs(t *testing.T) {
	global, rest := splitGlobalArgs([]string{"-port", "1", "--", "-x"})
	assert.Equal(t, []string{"-port", "1", "--"}, global)
	assert.Equal(t, []string{"-x"}, rest)

	global, rest = splitGlobalArgs([]string{"-port"})
	assert.Equal(t, []string{"-port"}, global)
	assert.Empty(t, rest)
}

func TestFilterArgs(t *testing.T) {
	got := filterArgs([]string{"-port", "1", "-c", "a.json", "--config=b.json"}, []string{"-c", "--config"})
	assert.Equal(t, []string{"-c", "a.json", "--config=b.json"}, got)
}

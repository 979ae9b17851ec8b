package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, dir, name string, data map[string]any) string {
	t.Helper()
	if dir == "" {
		dir = t.TempDir()
	}
	if name == "" {
		name = "cfg.json"
	}
	path := filepath.Join(dir, name)
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson_SourcesAndPrecedence(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	dir := t.TempDir()
	pathFlag := writeTempJSON(t, dir, "flag.json", map[string]any{
		"server_base_url": "http://www.example:9000",
		"debounce_delay":  "300ms",
		"max_retries":     5,
	})

	t.Run("loads from flags", func(t *testing.T) {
		os.Args = []string{"testbin", "-config", pathFlag}

		cfg := &Config{}
		cfg.LoadDefaults()
		parseJson(cfg)

		assert.Equal(t, "http://www.example:9000", cfg.ServerBaseURL)
		assert.Equal(t, 300*time.Millisecond, cfg.DebounceDelay)
		assert.Equal(t, uint64(5), cfg.MaxRetries)
	})

	t.Run("fields the file omits keep their defaults", func(t *testing.T) {
		os.Args = []string{"testbin", "-config", pathFlag}

		cfg := &Config{}
		cfg.LoadDefaults()
		parseJson(cfg)

		assert.Equal(t, "fr", cfg.Lang)
		assert.Equal(t, 2*time.Second, cfg.SettleDelay)
	})

	t.Run("no CONFIG and no flags → no changes", func(t *testing.T) {
		os.Args = []string{"testbin"}

		cfg := &Config{
			ServerBaseURL: "http://defaults:1234",
			DebounceDelay: 42 * time.Second,
		}
		parseJson(cfg)

		assert.Equal(t, "http://defaults:1234", cfg.ServerBaseURL)
		assert.Equal(t, 42*time.Second, cfg.DebounceDelay)
	})

	t.Run("invalid JSON → panics", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))

		os.Args = []string{"testbin", "-config", bad}

		cfg := &Config{}
		require.Panics(t, func() { parseJson(cfg) })
	})
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

const minimalConfig = `
discord:
  token: tok
  guild_id: g1
  user_ids: ["u1", "u2"]
`

func TestLoadConfig(t *testing.T) {
	t.Run("applies defaults", func(t *testing.T) {
		cfg, err := LoadConfig(writeConfig(t, minimalConfig))
		require.NoError(t, err)
		assert.Equal(t, 3000, cfg.Server.Port)
		assert.Equal(t, 20, cfg.API.CacheSeconds)
		assert.Equal(t, 20*time.Second, cfg.CacheWindow())
	})

	t.Run("negative cache window floors at zero", func(t *testing.T) {
		cfg, err := LoadConfig(writeConfig(t, minimalConfig+`
api:
  cache_seconds: -5
`))
		require.NoError(t, err)
		assert.Equal(t, time.Duration(0), cfg.CacheWindow())
	})

	t.Run("env overrides the token", func(t *testing.T) {
		t.Setenv("DISCORD_TOKEN", "from-env")
		cfg, err := LoadConfig(writeConfig(t, minimalConfig))
		require.NoError(t, err)
		assert.Equal(t, "from-env", cfg.Discord.Token)
	})

	t.Run("rejects missing required fields", func(t *testing.T) {
		_, err := LoadConfig(writeConfig(t, `
discord:
  token: tok
`))
		assert.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})
}

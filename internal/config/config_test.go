package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tally.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("valid config", func(t *testing.T) {
		path := writeConfig(t, `
version: "1.0"
instance: my-project
account: alice.testnet
redis:
  addr: redis.local:6380
  db: 2
`)
		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "my-project", cfg.Instance)
		assert.Equal(t, "alice.testnet", cfg.Account)
		assert.Equal(t, "redis.local:6380", cfg.Redis.Addr)
		assert.Equal(t, 2, cfg.Redis.DB)
	})

	t.Run("redis addr defaults", func(t *testing.T) {
		path := writeConfig(t, `
version: "1.0"
instance: my-project
`)
		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "absent.yml"))
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read config")
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := writeConfig(t, "version: [unclosed")
		_, err := Load(path)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse YAML")
	})
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{Version: "1.0", Instance: "proj", Account: "alice.testnet"}
	}

	t.Run("accepts valid config", func(t *testing.T) {
		assert.NoError(t, base().Validate())
	})

	t.Run("rejects unsupported version", func(t *testing.T) {
		cfg := base()
		cfg.Version = "2.0"
		err := cfg.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported version")
	})

	t.Run("rejects bad instance names", func(t *testing.T) {
		for _, name := range []string{"", "-leading", "trailing-", "UPPER", "under_score"} {
			cfg := base()
			cfg.Instance = name
			assert.Error(t, cfg.Validate(), "instance name %q should be rejected", name)
		}
	})

	t.Run("rejects bad default account", func(t *testing.T) {
		cfg := base()
		cfg.Account = "Not Valid"
		err := cfg.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "invalid default account")
	})

	t.Run("account is optional", func(t *testing.T) {
		cfg := base()
		cfg.Account = ""
		assert.NoError(t, cfg.Validate())
	})
}

func TestValidateInstanceName(t *testing.T) {
	assert.NoError(t, ValidateInstanceName("a"))
	assert.NoError(t, ValidateInstanceName("my-project-2"))
	assert.Error(t, ValidateInstanceName(""))
	assert.Error(t, ValidateInstanceName("-bad"))
	assert.Error(t, ValidateInstanceName("this-name-is-way-too-long-to-be-a-dns-label-because-it-exceeds-63-characters"))
}

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		App:     AppConfig{Environment: "development"},
		Logger:  LoggerConfig{Level: "info"},
		Storage: StorageConfig{DataPath: "/tmp/cerebero", Backend: BackendBadger},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid development config",
			mutate: func(_ *Config) {},
		},
		{
			name:   "valid production config",
			mutate: func(c *Config) { c.App.Environment = "production" },
		},
		{
			name:   "valid staging config",
			mutate: func(c *Config) { c.App.Environment = "staging" },
		},
		{
			name:    "empty environment",
			mutate:  func(c *Config) { c.App.Environment = "" },
			wantErr: "ENV is required",
		},
		{
			name:    "unknown environment",
			mutate:  func(c *Config) { c.App.Environment = "testing" },
			wantErr: "invalid environment",
		},
		{
			name:   "log level is case insensitive",
			mutate: func(c *Config) { c.Logger.Level = "DEBUG" },
		},
		{
			name:    "unknown log level",
			mutate:  func(c *Config) { c.Logger.Level = "verbose" },
			wantErr: "invalid log level",
		},
		{
			name:   "sqlite backend",
			mutate: func(c *Config) { c.Storage.Backend = BackendSQLite },
		},
		{
			name:    "unknown storage backend",
			mutate:  func(c *Config) { c.Storage.Backend = "postgres" },
			wantErr: "invalid storage backend",
		},
		{
			name:    "empty data path",
			mutate:  func(c *Config) { c.Storage.DataPath = "" },
			wantErr: "data path cannot be empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestExpandDataPath(t *testing.T) {
	homeDir, err := os.UserHomeDir()
	require.NoError(t, err)

	t.Run("empty path defaults to ~/cerebero", func(t *testing.T) {
		cfg := validConfig()
		cfg.Storage.DataPath = ""

		require.NoError(t, cfg.expandDataPath())
		assert.Equal(t, filepath.Join(homeDir, "cerebero"), cfg.Storage.DataPath)
	})

	t.Run("tilde expands to home", func(t *testing.T) {
		cfg := validConfig()
		cfg.Storage.DataPath = "~/my-data"

		require.NoError(t, cfg.expandDataPath())
		assert.Equal(t, filepath.Join(homeDir, "my-data"), cfg.Storage.DataPath)
	})

	t.Run("relative path becomes absolute", func(t *testing.T) {
		cfg := validConfig()
		cfg.Storage.DataPath = "local-data"

		require.NoError(t, cfg.expandDataPath())
		assert.True(t, filepath.IsAbs(cfg.Storage.DataPath))
		assert.Equal(t, "local-data", filepath.Base(cfg.Storage.DataPath))
	})

	t.Run("absolute path is cleaned", func(t *testing.T) {
		cfg := validConfig()
		cfg.Storage.DataPath = "/var/lib//cerebero/"

		require.NoError(t, cfg.expandDataPath())
		assert.Equal(t, "/var/lib/cerebero", cfg.Storage.DataPath)
	})
}

func TestGetConfigValue(t *testing.T) {
	const envKey = "CEREBERO_TEST_VALUE"

	t.Run("flag wins over env and default", func(t *testing.T) {
		t.Setenv(envKey, "from-env")
		assert.Equal(t, "from-flag", getConfigValue("from-flag", envKey, "from-default"))
	})

	t.Run("env wins over default", func(t *testing.T) {
		t.Setenv(envKey, "from-env")
		assert.Equal(t, "from-env", getConfigValue("", envKey, "from-default"))
	})

	t.Run("default when nothing else is set", func(t *testing.T) {
		assert.Equal(t, "from-default", getConfigValue("", envKey+"_UNSET", "from-default"))
	})
}

func TestSplitOrigins(t *testing.T) {
	assert.Equal(t, []string{"*"}, splitOrigins("*"))
	assert.Equal(t, []string{"https://a.example", "https://b.example"},
		splitOrigins("https://a.example, https://b.example"))
	assert.Equal(t, []string{"https://a.example"}, splitOrigins(",https://a.example,,"))
	assert.Equal(t, []string{"*"}, splitOrigins("  ,  "))
}

func TestLoadEnvFile(t *testing.T) {
	writeEnvFile := func(t *testing.T, content string) string {
		t.Helper()
		path := filepath.Join(t.TempDir(), ".env")
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
		return path
	}

	t.Run("loads key value pairs", func(t *testing.T) {
		path := writeEnvFile(t, "CEREBERO_ENV_A=hello\nCEREBERO_ENV_B=\"quoted\"\n")
		t.Setenv("CEREBERO_ENV_A", "")
		t.Setenv("CEREBERO_ENV_B", "")
		os.Unsetenv("CEREBERO_ENV_A")
		os.Unsetenv("CEREBERO_ENV_B")

		require.NoError(t, loadEnvFile(path))
		assert.Equal(t, "hello", os.Getenv("CEREBERO_ENV_A"))
		assert.Equal(t, "quoted", os.Getenv("CEREBERO_ENV_B"))
	})

	t.Run("skips comments and blank lines", func(t *testing.T) {
		path := writeEnvFile(t, "# comment\n\nCEREBERO_ENV_C=set\n")
		t.Setenv("CEREBERO_ENV_C", "")
		os.Unsetenv("CEREBERO_ENV_C")

		require.NoError(t, loadEnvFile(path))
		assert.Equal(t, "set", os.Getenv("CEREBERO_ENV_C"))
	})

	t.Run("does not overwrite existing env vars", func(t *testing.T) {
		path := writeEnvFile(t, "CEREBERO_ENV_D=file-value\n")
		t.Setenv("CEREBERO_ENV_D", "env-value")

		require.NoError(t, loadEnvFile(path))
		assert.Equal(t, "env-value", os.Getenv("CEREBERO_ENV_D"))
	})

	t.Run("rejects malformed lines", func(t *testing.T) {
		path := writeEnvFile(t, "NOT A PAIR\n")

		err := loadEnvFile(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid format at line 1")
	})

	t.Run("missing file returns error", func(t *testing.T) {
		err := loadEnvFile(filepath.Join(t.TempDir(), "missing.env"))
		assert.Error(t, err)
	})
}

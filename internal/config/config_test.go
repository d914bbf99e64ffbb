package config

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("WIZFLOW_CONFIG", "")
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	c, err := Load("")
	require.NoError(t, err)
	require.Equal(t, DriverMemory, c.Storage.Driver)
	require.Equal(t, time.Second, c.Backend.Delay)
	require.False(t, c.Backend.SimulateFailure)
	require.Equal(t, 10, c.Backend.BcryptCost)
	require.True(t, c.Wizard.SurfaceBootstrapFailure)
	require.False(t, c.Wizard.RequireDeliveryMethod)
	require.Equal(t, 2, c.Wizard.Workers)
	require.Equal(t, 1, c.Wizard.RetryAttempts)
	require.Equal(t, "info", c.Log.Level)
}

func TestLoad_FileAndEnvOverrides(t *testing.T) {
	isolate(t)

	path := filepath.Join(t.TempDir(), "wizflow.toml")
	content := `
[storage]
driver = "sqlite"
path = "/tmp/wizflow-test.db"

[backend]
delay = "250ms"
simulate_failure = true

[wizard]
require_delivery_method = true
retry_attempts = 3
retry_backoff = "100ms"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("WIZFLOW_WIZARD_WORKERS", "4")
	t.Setenv("WIZFLOW_LOG_LEVEL", "debug")

	c, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, DriverSQLite, c.Storage.Driver)
	require.Equal(t, "/tmp/wizflow-test.db", c.Storage.Path)
	require.Equal(t, 250*time.Millisecond, c.Backend.Delay)
	require.True(t, c.Backend.SimulateFailure)
	require.True(t, c.Wizard.RequireDeliveryMethod)
	require.Equal(t, 3, c.Wizard.RetryAttempts)
	require.Equal(t, 100*time.Millisecond, c.Wizard.RetryBackoff)
	require.Equal(t, 4, c.Wizard.Workers)
	require.Equal(t, "debug", c.Log.Level)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	isolate(t)

	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)
}

func TestLoad_InvalidDriver(t *testing.T) {
	isolate(t)
	t.Setenv("WIZFLOW_STORAGE_DRIVER", "postgres")

	_, err := Load("")
	require.ErrorContains(t, err, "storage.driver")
}

func TestValidate(t *testing.T) {
	valid := Config{
		Log:     LogConfig{Level: "info", Format: "text"},
		Storage: StorageConfig{Driver: DriverMemory},
		Backend: BackendConfig{BcryptCost: 10},
		Wizard:  WizardConfig{Workers: 1, RetryAttempts: 1},
	}
	require.NoError(t, valid.Validate())

	cases := map[string]func(c *Config){
		"sqlite without path": func(c *Config) { c.Storage = StorageConfig{Driver: DriverSQLite} },
		"bad level":           func(c *Config) { c.Log.Level = "loud" },
		"bad format":          func(c *Config) { c.Log.Format = "xml" },
		"low bcrypt cost":     func(c *Config) { c.Backend.BcryptCost = 2 },
		"no workers":          func(c *Config) { c.Wizard.Workers = 0 },
		"no attempts":         func(c *Config) { c.Wizard.RetryAttempts = 0 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			c := valid
			mutate(&c)
			require.Error(t, c.Validate())
		})
	}
}

func TestLogConfig_NewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := LogConfig{Level: "warn", Format: "json"}.NewLogger(&buf)

	logger.Info("hidden")
	logger.Warn("shown", slog.String("k", "v"))

	out := buf.String()
	require.NotContains(t, out, "hidden")
	require.True(t, strings.Contains(out, `"msg":"shown"`), out)
	require.Contains(t, out, `"k":"v"`)
}

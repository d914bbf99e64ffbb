// Package config loads wizflow settings from an optional TOML file and the
// environment using Viper.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. WIZFLOW_STORAGE_DRIVER.
const EnvPrefix = "WIZFLOW"

const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
)

// Config holds application configuration.
type Config struct {
	Log     LogConfig     `mapstructure:"log"`
	Storage StorageConfig `mapstructure:"storage"`
	Backend BackendConfig `mapstructure:"backend"`
	Wizard  WizardConfig  `mapstructure:"wizard"`
}

// LogConfig controls the slog handler used by the CLI.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // text or json
}

// StorageConfig selects where accounts, delivery methods and history live.
type StorageConfig struct {
	Driver string `mapstructure:"driver"` // memory or sqlite
	Path   string `mapstructure:"path"`
}

// BackendConfig tunes the stub backend.
type BackendConfig struct {
	Delay           time.Duration `mapstructure:"delay"`
	SimulateFailure bool          `mapstructure:"simulate_failure"`
	BcryptCost      int           `mapstructure:"bcrypt_cost"`
}

// WizardConfig holds session behaviour.
type WizardConfig struct {
	RequireDeliveryMethod   bool          `mapstructure:"require_delivery_method"`
	SurfaceBootstrapFailure bool          `mapstructure:"surface_bootstrap_failure"`
	Workers                 int           `mapstructure:"workers"`
	Locale                  string        `mapstructure:"locale"` // empty: from LC_ALL/LC_MESSAGES/LANG
	RetryAttempts           int           `mapstructure:"retry_attempts"`
	RetryBackoff            time.Duration `mapstructure:"retry_backoff"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("storage.driver", DriverMemory)
	v.SetDefault("storage.path", filepath.Join(os.Getenv("HOME"), ".local", "share", "wizflow", "wizflow.db"))
	v.SetDefault("backend.delay", "1s")
	v.SetDefault("backend.simulate_failure", false)
	v.SetDefault("backend.bcrypt_cost", 10)
	v.SetDefault("wizard.require_delivery_method", false)
	v.SetDefault("wizard.surface_bootstrap_failure", true)
	v.SetDefault("wizard.workers", 2)
	v.SetDefault("wizard.locale", "")
	v.SetDefault("wizard.retry_attempts", 1)
	v.SetDefault("wizard.retry_backoff", "0s")
}

// Load reads configuration from path (or WIZFLOW_CONFIG, or
// ~/.config/wizflow/config.toml) and the environment. A missing default file
// is not an error; a missing explicit file is.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigType("toml")
	if path == "" {
		path = os.Getenv(EnvPrefix + "_CONFIG")
	}
	explicit := path != ""
	if explicit {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "wizflow"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicit || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	switch c.Storage.Driver {
	case DriverMemory:
	case DriverSQLite:
		if c.Storage.Path == "" {
			return errors.New("config: storage.path must be set for the sqlite driver")
		}
	default:
		return fmt.Errorf("config: unknown storage.driver %q", c.Storage.Driver)
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		return err
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return fmt.Errorf("config: unknown log.format %q", c.Log.Format)
	}
	if c.Backend.BcryptCost < 4 || c.Backend.BcryptCost > 31 {
		return errors.New("config: backend.bcrypt_cost must be between 4 and 31")
	}
	if c.Wizard.Workers < 1 {
		return errors.New("config: wizard.workers must be at least 1")
	}
	if c.Wizard.RetryAttempts < 1 {
		return errors.New("config: wizard.retry_attempts must be at least 1")
	}
	return nil
}

// SlogLevel parses Level.
func (c LogConfig) SlogLevel() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.Level)); err != nil {
		return 0, fmt.Errorf("config: invalid log.level %q: %w", c.Level, err)
	}
	return lvl, nil
}

// NewLogger builds a slog.Logger writing to w.
func (c LogConfig) NewLogger(w io.Writer) *slog.Logger {
	lvl, err := c.SlogLevel()
	if err != nil {
		lvl = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: lvl}
	if c.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

package commands

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/text/language"
	_ "modernc.org/sqlite"

	"github.com/petrijr/wizflow/internal/backend"
	"github.com/petrijr/wizflow/internal/config"
	"github.com/petrijr/wizflow/internal/locale"
	"github.com/petrijr/wizflow/internal/persistence"
)

type app struct {
	cfg    config.Config
	logger *slog.Logger
	store  persistence.Persistence
	hasher *backend.Hasher

	db *sql.DB
}

func openApp(ctx context.Context, cfg config.Config, logOut io.Writer) (*app, error) {
	a := &app{
		cfg:    cfg,
		logger: cfg.Log.NewLogger(logOut),
		hasher: backend.NewHasher(cfg.Backend.BcryptCost),
	}

	switch cfg.Storage.Driver {
	case config.DriverSQLite:
		if err := os.MkdirAll(filepath.Dir(cfg.Storage.Path), 0o755); err != nil {
			return nil, fmt.Errorf("mkdir db dir: %w", err)
		}
		db, err := sql.Open("sqlite", cfg.Storage.Path)
		if err != nil {
			return nil, fmt.Errorf("open db: %w", err)
		}
		// Observers write history from worker goroutines.
		db.SetMaxOpenConns(1)
		store, err := persistence.NewSQLite(db)
		if err != nil {
			_ = db.Close()
			return nil, err
		}
		a.db = db
		a.store = store

	default:
		a.store = persistence.NewInMemory()
		// Nothing survives the process, so give every run the demo data.
		if err := backend.Seed(ctx, a.store.Directory, a.hasher); err != nil {
			return nil, err
		}
	}

	a.logger.Debug("storage_opened", slog.String("driver", cfg.Storage.Driver))
	return a, nil
}

// localeName is the configured POSIX locale, or the one from the environment.
func (a *app) localeName() string {
	if a.cfg.Wizard.Locale != "" {
		return a.cfg.Wizard.Locale
	}
	return locale.LocaleFromEnv()
}

func (a *app) language() language.Tag {
	return locale.ParseLocale(a.localeName())
}

func (a *app) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}

package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"traininghours/config"
	"traininghours/internal/logging"
	"traininghours/internal/metrics"
	"traininghours/storage"
	"traininghours/transform"
)

// app bundles what the transform, serve and history commands share.
type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	store    *storage.SQLiteStore
	registry *prometheus.Registry
	service  *transform.Service

	closers []func() error
}

type appOverrides struct {
	strictHours bool
	historyDB   string
}

func newApp(overrides appOverrides) (*app, error) {
	cfg, err := config.LoadAndValidate()
	if err != nil {
		return nil, err
	}
	if overrides.strictHours {
		cfg.Transform.StrictHours = true
	}
	if strings.TrimSpace(overrides.historyDB) != "" {
		cfg.History.Enabled = true
		cfg.History.DB = overrides.historyDB
	}

	logDir, err := resolveLogDir(cfg.Logging.Dir)
	if err != nil {
		return nil, err
	}
	logger, closeLog, err := logging.New(logging.Options{
		Level:   cfg.Logging.Level,
		Dir:     logDir,
		Console: cfg.Logging.Console,
	})
	if err != nil {
		return nil, err
	}

	a := &app{
		cfg:      cfg,
		logger:   logger,
		registry: prometheus.NewRegistry(),
		closers:  []func() error{closeLog},
	}

	var journal transform.RunJournal
	if cfg.History.Enabled {
		store, err := storage.OpenSQLite(cfg.History.DB)
		if err != nil {
			_ = a.Close()
			return nil, err
		}
		a.store = store
		a.closers = append(a.closers, store.Close)
		journal = store
	}

	a.service = transform.NewService(transform.Options{
		StrictHours:   cfg.Transform.StrictHours,
		MissingName:   cfg.Transform.MissingNamePlaceholder,
		MissingSchool: cfg.Transform.MissingSchoolPlaceholder,
		Logger:        logger,
	}, journal, metrics.NewRecorder(a.registry))

	return a, nil
}

func (a *app) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func resolveLogDir(configured string) (string, error) {
	if strings.TrimSpace(configured) != "" {
		return configured, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".traininghours"), nil
}

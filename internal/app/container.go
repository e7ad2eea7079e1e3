// Package app wires configuration, logging, persistence and the task store
// together for the CLI and the TUI.
package app

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"gtd/internal/config"
	"gtd/internal/gtd"
	"gtd/internal/logging"
	"gtd/internal/storage"
)

// Options are the command-line overrides applied on top of the config file.
type Options struct {
	ConfigPath string
	DBPath     string
	// Ephemeral keeps everything in memory; nothing is written to disk.
	Ephemeral bool
}

type Container struct {
	Config     config.Config
	ConfigPath string

	// KV backs both the items and the theme slot.
	KV gtd.KV
	// DB is the SQLite store behind KV, or nil when running ephemeral.
	DB     *storage.Store
	Store  *gtd.Store
	Logger *slog.Logger

	closers []io.Closer
}

// New loads the config (creating it on first run), opens the log file and
// the database, and loads the task collection.
func New(opts Options) (*Container, error) {
	path := opts.ConfigPath
	if path == "" {
		path = config.ResolveConfigPath()
	}
	cfg, err := config.LoadOrCreate(path)
	if err != nil {
		return nil, err
	}
	if opts.DBPath != "" {
		cfg.DBPath = opts.DBPath
	}

	logPath := cfg.LogPath
	if opts.Ephemeral {
		logPath = "-"
	}
	logger, logCloser, err := logging.New(logPath, logging.ParseLevel(cfg.LogLevel))
	if err != nil {
		return nil, err
	}

	c := &Container{Config: cfg, ConfigPath: path, Logger: logger}
	c.closers = append(c.closers, logCloser)

	if opts.Ephemeral {
		c.KV = storage.NewMemory()
	} else {
		db, err := storage.Open(cfg.DBPath)
		if err != nil {
			_ = c.Close()
			return nil, fmt.Errorf("open store %s: %w", cfg.DBPath, err)
		}
		c.DB = db
		c.KV = db
		c.closers = append(c.closers, db)
	}

	c.Store = newStore(cfg, c.KV, logger)
	logger.Info("store loaded", "db", cfg.DBPath, "items", c.Store.Len(), "ephemeral", opts.Ephemeral)
	return c, nil
}

// NewWithDeps builds a container around an existing backend. Used by tests.
func NewWithDeps(cfg config.Config, kv gtd.KV, logger *slog.Logger, opts ...gtd.Option) *Container {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Container{
		Config: cfg,
		KV:     kv,
		Store:  newStore(cfg, kv, logger, opts...),
		Logger: logger,
	}
}

func newStore(cfg config.Config, kv gtd.KV, logger *slog.Logger, extra ...gtd.Option) *gtd.Store {
	opts := append([]gtd.Option{
		gtd.WithLogger(logger),
		gtd.WithIDGenerator(gtd.GeneratorFor(cfg.IDScheme)),
	}, extra...)
	s := gtd.NewStore(kv, cfg.App, opts...)
	s.Load()
	return s
}

// StartList is the configured default list, or the inbox.
func (c *Container) StartList() gtd.List {
	l, err := gtd.ParseList(c.Config.DefaultList)
	if err != nil {
		return gtd.ListInbox
	}
	return l
}

// Close releases the database and the log file in reverse order.
func (c *Container) Close() error {
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	c.closers = nil
	return errors.Join(errs...)
}

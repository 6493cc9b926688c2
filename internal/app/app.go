// Package app wires configuration, storage, catalogs and entry stores
// together for the command line.
package app

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/Tiliavir/sip/internal/catalog"
	"github.com/Tiliavir/sip/internal/config"
	"github.com/Tiliavir/sip/internal/intake"
	"github.com/Tiliavir/sip/internal/log"
	"github.com/Tiliavir/sip/internal/storage"
)

// Tracker bundles everything one vertical needs.
type Tracker struct {
	Vertical config.Vertical
	Store    *intake.Store
	Catalog  *catalog.Catalog
}

// App owns the opened storage backend and the per-vertical trackers.
type App struct {
	Config   config.Config
	KV       storage.KV
	logger   *log.Logger
	trackers []*Tracker
}

// New opens the configured storage backend and loads every vertical.
func New(ctx context.Context, cfg config.Config, logger *log.Logger, opts ...intake.Option) (*App, error) {
	kv, err := storage.Open(cfg.Storage.Backend, cfg.DataDir())
	if err != nil {
		return nil, fmt.Errorf("opening %s storage: %w", cfg.Storage.Backend, err)
	}
	a, err := NewWithKV(ctx, cfg, kv, logger, opts...)
	if err != nil {
		kv.Close()
		return nil, err
	}
	return a, nil
}

// NewWithKV loads catalogs and entry lists of all verticals from kv. The
// loads are independent and run concurrently.
func NewWithKV(ctx context.Context, cfg config.Config, kv storage.KV, logger *log.Logger, opts ...intake.Option) (*App, error) {
	if logger == nil {
		logger = log.Discard()
	}
	verticals := cfg.Verticals()
	trackers := make([]*Tracker, len(verticals))
	opts = append([]intake.Option{intake.WithLogger(logger)}, opts...)

	g, gctx := errgroup.WithContext(ctx)
	for i, v := range verticals {
		v := v
		trackers[i] = &Tracker{Vertical: v}
		t := trackers[i]
		g.Go(func() error {
			t.Catalog = loadCatalog(v, logger)
			return nil
		})
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			t.Store = intake.Open(gctx, kv, v, opts...)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("loading trackers: %w", err)
	}

	appLog := logger.WithComponent(log.ComponentApp)
	for _, t := range trackers {
		name := t.Vertical.Name
		t.Store.Subscribe(func(c intake.Change) {
			appLog.Info("entry "+c.Kind.String(), log.FieldVertical, name, log.FieldEntryID, c.Entry.ID, log.FieldAmount, c.Entry.Amount)
		})
	}

	return &App{Config: cfg, KV: kv, logger: logger, trackers: trackers}, nil
}

func loadCatalog(v config.Vertical, logger *log.Logger) *catalog.Catalog {
	if v.CatalogFile != "" {
		c := catalog.LoadFile(v.CatalogFile, v.AmountField, logger)
		if c.Status() != catalog.StatusFailed {
			return c
		}
		logger.WithComponent(log.ComponentCatalog).Warn("falling back to bundled catalog",
			log.FieldVertical, v.Name, log.FieldPath, v.CatalogFile)
	}
	return catalog.Bundled(v.BundledCatalog, v.AmountField, logger)
}

// Tracker returns the tracker of the named vertical.
func (a *App) Tracker(name string) (*Tracker, error) {
	v, err := a.Config.Vertical(name)
	if err != nil {
		return nil, err
	}
	for _, t := range a.trackers {
		if t.Vertical.Name == v.Name {
			return t, nil
		}
	}
	return nil, fmt.Errorf("%w %q", config.ErrUnknownVertical, name)
}

// Trackers returns all trackers in vertical order.
func (a *App) Trackers() []*Tracker {
	return append([]*Tracker(nil), a.trackers...)
}

// Close releases the storage backend.
func (a *App) Close() error {
	return a.KV.Close()
}

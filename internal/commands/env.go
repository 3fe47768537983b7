package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/balkashynov/pomo/internal/config"
	"github.com/balkashynov/pomo/internal/db"
	"github.com/balkashynov/pomo/internal/legacy"
	"github.com/balkashynov/pomo/internal/logging"
	"github.com/balkashynov/pomo/internal/models"
	"github.com/balkashynov/pomo/internal/recorder"
)

// Env is what a command runs against: configuration, logger, the store and
// the lazily opened legacy fallback
type Env struct {
	Config *config.Config
	Logger log.Logger
	Loc    *time.Location
	Now    func() time.Time

	// Store is nil when the database could not be opened; StoreErr says why
	Store    *db.Store
	StoreErr error

	legacy *legacy.Store
}

func openEnv(cfgFile string) (*Env, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(os.Stderr, cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	e := &Env{Config: cfg, Logger: logger, Loc: loc, Now: time.Now}
	store, err := db.Open(cfg.DBPath,
		db.WithLogger(logging.Component(logger, "db")),
		db.WithLocation(loc),
	)
	if err != nil {
		level.Error(logger).Log("msg", "failed to open database", "path", cfg.DBPath, "err", err)
		e.StoreErr = err
	} else {
		e.Store = store
	}
	return e, nil
}

// Close releases the store and the legacy directory
func (e *Env) Close() {
	if e.Store != nil {
		if err := e.Store.Close(); err != nil {
			level.Warn(e.Logger).Log("msg", "failed to close database", "err", err)
		}
	}
	if e.legacy != nil {
		if err := e.legacy.Close(); err != nil {
			level.Warn(e.Logger).Log("msg", "failed to close legacy store", "err", err)
		}
	}
}

// DB returns the open store or the reason there is none
func (e *Env) DB() (*db.Store, error) {
	if e.Store != nil {
		return e.Store, nil
	}
	if e.StoreErr != nil {
		return nil, fmt.Errorf("database unavailable: %w", e.StoreErr)
	}
	return nil, db.ErrNotInitialized
}

// Legacy opens the key-value fallback on first use
func (e *Env) Legacy() (*legacy.Store, error) {
	if e.legacy != nil {
		return e.legacy, nil
	}
	store, err := legacy.Open(e.Config.LegacyDir)
	if err != nil {
		return nil, err
	}
	e.legacy = store
	return store, nil
}

// LegacyExists reports whether a legacy directory is present, without creating one
func (e *Env) LegacyExists() bool {
	info, err := os.Stat(e.Config.LegacyDir)
	return err == nil && info.IsDir()
}

// lazyFallback opens the legacy store only when a session has to go there
type lazyFallback struct{ e *Env }

func (f lazyFallback) PrependSession(s models.Session) error {
	store, err := f.e.Legacy()
	if err != nil {
		return err
	}
	return store.PrependSession(s)
}

// Recorder builds a session recorder that falls back to the legacy store
func (e *Env) Recorder() *recorder.Recorder {
	return recorder.New(e.Store,
		recorder.WithFallback(lazyFallback{e: e}),
		recorder.WithLogger(logging.Component(e.Logger, "recorder")),
		recorder.WithLocation(e.Loc),
		recorder.WithClock(e.Now),
	)
}

// TimerSettings loads the timer preferences, from the legacy store when
// the database is unavailable, and from defaults when both fail
func (e *Env) TimerSettings(ctx context.Context) models.TimerSettings {
	settings, err := e.Store.LoadSettings(ctx)
	if err == nil {
		return settings.TimerSettings()
	}
	level.Warn(e.Logger).Log("msg", "failed to load settings from database", "err", err)

	if !e.LegacyExists() {
		return models.DefaultTimerSettings()
	}
	store, lerr := e.Legacy()
	if lerr == nil {
		settings, lerr = store.LoadSettings()
	}
	if lerr != nil {
		level.Warn(e.Logger).Log("msg", "failed to load legacy settings", "err", errors.Join(err, lerr))
		return models.DefaultTimerSettings()
	}
	return settings.TimerSettings()
}

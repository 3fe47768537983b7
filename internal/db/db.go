package db

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/go-kit/log"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Store owns the sessions, tasks and settings tables. One Store is opened
// per process and handed to everything that needs persistence.
type Store struct {
	db      *gorm.DB
	logger  log.Logger
	now     func() time.Time
	loc     *time.Location
	version int
}

// Option configures Open
type Option func(*Store)

// WithLogger sets the logger used for migration and maintenance messages
func WithLogger(l log.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock overrides time.Now
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLocation sets the zone the derived calendar fields are computed in
func WithLocation(loc *time.Location) Option {
	return func(s *Store) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// WithSchemaVersion opens the store at an older schema version. Only used
// to build legacy databases; normal callers keep CurrentSchemaVersion.
func WithSchemaVersion(v int) Option {
	return func(s *Store) {
		s.version = v
	}
}

// Open sets up the database connection and brings the schema up to date
func Open(path string, opts ...Option) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("db path is required")
	}

	s := &Store{
		logger:  log.NewNopLogger(),
		now:     time.Now,
		loc:     time.Local,
		version: CurrentSchemaVersion,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.version < 1 || s.version > CurrentSchemaVersion {
		return nil, fmt.Errorf("unsupported schema version %d", s.version)
	}

	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	gdb, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent), // Quiet by default
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// A single connection keeps ":memory:" databases alive across calls
	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	s.db = gdb
	if err := s.upgrade(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection. Any later call fails with
// ErrNotInitialized.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	sqlDB, err := s.db.DB()
	s.db = nil
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// ready returns the gorm handle or ErrNotInitialized
func (s *Store) ready() (*gorm.DB, error) {
	if s == nil || s.db == nil {
		return nil, ErrNotInitialized
	}
	return s.db, nil
}

func (s *Store) timestamp() time.Time {
	return s.now()
}

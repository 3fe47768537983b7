package recorder

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/balkashynov/pomo/internal/models"
)

// ErrRecordedToFallback is wrapped in the error Record returns when the
// session only reached the fallback history
var ErrRecordedToFallback = errors.New("session saved to fallback storage")

// SessionStore is the part of the structured store the recorder writes to.
// RecordSession must link the task and insert the session atomically.
type SessionStore interface {
	RecordSession(ctx context.Context, session *models.Session, task string) (uint, error)
}

// Fallback keeps sessions when the structured store fails
type Fallback interface {
	PrependSession(session models.Session) error
}

// Entry is what the timer knows about a finished interval
type Entry struct {
	TaskName        string
	Mode            models.Mode
	DurationMinutes int
	SessionOrdinal  int
}

// Recorder turns finished timer intervals into stored sessions
type Recorder struct {
	store    SessionStore
	fallback Fallback
	logger   log.Logger
	now      func() time.Time
	loc      *time.Location
}

// Option configures New
type Option func(*Recorder)

// WithFallback sets where sessions go when the store fails
func WithFallback(f Fallback) Option {
	return func(r *Recorder) { r.fallback = f }
}

func WithLogger(l log.Logger) Option {
	return func(r *Recorder) {
		if l != nil {
			r.logger = l
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(r *Recorder) {
		if now != nil {
			r.now = now
		}
	}
}

func WithLocation(loc *time.Location) Option {
	return func(r *Recorder) {
		if loc != nil {
			r.loc = loc
		}
	}
}

// New creates a recorder writing to store
func New(store SessionStore, opts ...Option) *Recorder {
	r := &Recorder{
		store:  store,
		logger: log.NewNopLogger(),
		now:    time.Now,
		loc:    time.Local,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Record stores one completed interval and returns the stored session.
// If the store fails and a fallback is set, the session is kept there and
// the returned error wraps ErrRecordedToFallback.
func (r *Recorder) Record(ctx context.Context, e Entry) (models.Session, error) {
	if !e.Mode.Valid() {
		return models.Session{}, fmt.Errorf("invalid mode %q", e.Mode)
	}
	if e.DurationMinutes <= 0 {
		return models.Session{}, fmt.Errorf("duration must be positive, got %d", e.DurationMinutes)
	}

	task := strings.TrimSpace(e.TaskName)
	session := models.Session{
		Task:          task,
		Mode:          e.Mode,
		Duration:      e.DurationMinutes,
		CompletedAt:   models.NewTimestamp(r.now()),
		SessionNumber: e.SessionOrdinal,
	}
	if session.Task == "" {
		session.Task = models.NoTask
	}
	session.Derive(r.loc)

	err := r.persist(ctx, &session, task)
	if err == nil {
		level.Debug(r.logger).Log("msg", "session recorded", "id", session.ID, "mode", session.Mode, "task", session.Task)
		return session, nil
	}
	if r.fallback == nil {
		return models.Session{}, fmt.Errorf("record session: %w", err)
	}

	level.Warn(r.logger).Log("msg", "store write failed, using fallback", "err", err)
	session.ID = uint(session.CompletedAt.UnixMilli())
	session.TaskID = nil
	if ferr := r.fallback.PrependSession(session); ferr != nil {
		return models.Session{}, fmt.Errorf("record session: %w (fallback failed: %v)", err, ferr)
	}
	return session, fmt.Errorf("%w: %v", ErrRecordedToFallback, err)
}

func (r *Recorder) persist(ctx context.Context, session *models.Session, task string) error {
	if r.store == nil {
		return errors.New("no session store")
	}
	_, err := r.store.RecordSession(ctx, session, task)
	return err
}

package db

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/balkashynov/pomo/internal/models"
)

const sessionOrder = "completed_at DESC, id DESC"

// AddSession appends a session and returns the id storage assigned to it.
// A zero CompletedAt is stamped with the current time; missing calendar
// fields are derived from CompletedAt.
func (s *Store) AddSession(ctx context.Context, session *models.Session) (uint, error) {
	db, err := s.ready()
	if err != nil {
		return 0, err
	}

	s.prepareSession(session)
	if err := db.WithContext(ctx).Create(session).Error; err != nil {
		return 0, opErr("add session", err)
	}
	return session.ID, nil
}

// RecordSession links session to the task named task, creating or bumping
// it, and inserts the session in the same transaction. An empty task name
// or the placeholder leaves the session unlinked. On failure neither the
// task nor the session is written.
func (s *Store) RecordSession(ctx context.Context, session *models.Session, task string) (uint, error) {
	db, err := s.ready()
	if err != nil {
		return 0, err
	}

	s.prepareSession(session)
	id, taskID := session.ID, session.TaskID
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if task != "" && task != models.NoTask {
			id, err := s.getOrCreateTask(tx, task)
			if err != nil {
				return err
			}
			session.TaskID = &id
		}
		return tx.Create(session).Error
	})
	if err != nil {
		session.ID, session.TaskID = id, taskID
		return 0, opErr("record session", err)
	}
	return session.ID, nil
}

// prepareSession fills what a caller may leave out
func (s *Store) prepareSession(session *models.Session) {
	if session.CompletedAt.IsZero() {
		session.CompletedAt = models.NewTimestamp(s.timestamp())
	}
	if !session.HasDerivedFields() {
		session.Derive(s.loc)
	}
	if session.Task == "" {
		session.Task = models.NoTask
	}
}

// ListSessions returns all sessions, newest first
func (s *Store) ListSessions(ctx context.Context) ([]models.Session, error) {
	db, err := s.ready()
	if err != nil {
		return nil, err
	}

	var sessions []models.Session
	if err := db.WithContext(ctx).Order(sessionOrder).Find(&sessions).Error; err != nil {
		return nil, opErr("list sessions", err)
	}
	return sessions, nil
}

// ListSessionsByDateRange returns the sessions completed within [start, end], newest first
func (s *Store) ListSessionsByDateRange(ctx context.Context, start, end time.Time) ([]models.Session, error) {
	db, err := s.ready()
	if err != nil {
		return nil, err
	}

	var sessions []models.Session
	err = db.WithContext(ctx).
		Where("completed_at >= ? AND completed_at <= ?", models.NewTimestamp(start), models.NewTimestamp(end)).
		Order(sessionOrder).
		Find(&sessions).Error
	if err != nil {
		return nil, opErr("list sessions by date range", err)
	}
	return sessions, nil
}

// ListSessionsByMonth returns the sessions of one calendar month, newest first.
// The month index cannot tell years apart, so year is filtered after the lookup.
func (s *Store) ListSessionsByMonth(ctx context.Context, year, month int) ([]models.Session, error) {
	db, err := s.ready()
	if err != nil {
		return nil, err
	}

	var byMonth []models.Session
	if err := db.WithContext(ctx).Where("month = ?", month).Order(sessionOrder).Find(&byMonth).Error; err != nil {
		return nil, opErr("list sessions by month", err)
	}

	sessions := make([]models.Session, 0, len(byMonth))
	for _, session := range byMonth {
		if session.Year == year {
			sessions = append(sessions, session)
		}
	}
	return sessions, nil
}

// ListSessionsByTask returns the sessions referencing taskID, newest first
func (s *Store) ListSessionsByTask(ctx context.Context, taskID uint) ([]models.Session, error) {
	db, err := s.ready()
	if err != nil {
		return nil, err
	}

	var sessions []models.Session
	if err := db.WithContext(ctx).Where("task_id = ?", taskID).Order(sessionOrder).Find(&sessions).Error; err != nil {
		return nil, opErr("list sessions by task", err)
	}
	return sessions, nil
}

// DeleteSession removes one session. Deleting a missing id is not an error.
func (s *Store) DeleteSession(ctx context.Context, id uint) error {
	db, err := s.ready()
	if err != nil {
		return err
	}
	return opErr("delete session", db.WithContext(ctx).Delete(&models.Session{}, id).Error)
}

// ClearSessions removes every session
func (s *Store) ClearSessions(ctx context.Context) error {
	db, err := s.ready()
	if err != nil {
		return err
	}
	return opErr("clear sessions", db.WithContext(ctx).Where("1 = 1").Delete(&models.Session{}).Error)
}

// CountSessions returns the number of stored sessions
func (s *Store) CountSessions(ctx context.Context) (int64, error) {
	db, err := s.ready()
	if err != nil {
		return 0, err
	}

	var count int64
	if err := db.WithContext(ctx).Model(&models.Session{}).Count(&count).Error; err != nil {
		return 0, opErr("count sessions", err)
	}
	return count, nil
}

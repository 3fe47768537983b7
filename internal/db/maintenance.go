package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-kit/log/level"

	"github.com/balkashynov/pomo/internal/models"
)

// DefaultRetentionDays is the age PurgeOlderThan is called with when the
// user gives no value
const DefaultRetentionDays = 365

// SizeInfo is an advisory estimate of how much space sessions take
type SizeInfo struct {
	SessionCount   int     `json:"sessionCount"`
	TotalSizeBytes int     `json:"totalSizeBytes"`
	TotalSizeKB    float64 `json:"totalSizeKB"`
	TotalSizeMB    float64 `json:"totalSizeMB"`
}

// LegacySource is the key-value store used before the structured store
type LegacySource interface {
	LoadSessions() ([]models.Session, error)
	LoadSettings() (models.Settings, error)
}

// LegacyMigration reports what MigrateFromLegacy copied
type LegacyMigration struct {
	SessionsMigrated int `json:"sessionsMigrated"`
	SettingsMigrated int `json:"settingsMigrated"`
	SessionsSkipped  int `json:"sessionsSkipped"`
}

// PurgeOlderThan deletes every session completed more than days calendar
// days ago and returns how many were removed
func (s *Store) PurgeOlderThan(ctx context.Context, days int) (int64, error) {
	db, err := s.ready()
	if err != nil {
		return 0, err
	}
	if days < 0 {
		return 0, fmt.Errorf("days must not be negative, got %d", days)
	}

	cutoff := models.NewTimestamp(s.timestamp().In(s.loc).AddDate(0, 0, -days))
	result := db.WithContext(ctx).Where("completed_at < ?", cutoff).Delete(&models.Session{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to cleanup old sessions: %w", opErr("purge sessions", result.Error))
	}

	level.Info(s.logger).Log("msg", "purged old sessions", "cutoff", cutoff.String(), "deleted", result.RowsAffected)
	return result.RowsAffected, nil
}

// SizeEstimate serializes all sessions to approximate their footprint
func (s *Store) SizeEstimate(ctx context.Context) (SizeInfo, error) {
	sessions, err := s.ListSessions(ctx)
	if err != nil {
		return SizeInfo{}, err
	}
	if sessions == nil {
		sessions = []models.Session{}
	}

	data, err := json.Marshal(sessions)
	if err != nil {
		return SizeInfo{}, fmt.Errorf("estimate size: %w", err)
	}

	size := len(data)
	return SizeInfo{
		SessionCount:   len(sessions),
		TotalSizeBytes: size,
		TotalSizeKB:    float64(size) / 1024,
		TotalSizeMB:    float64(size) / (1024 * 1024),
	}, nil
}

// MigrateFromLegacy copies the sessions and settings of the key-value
// fallback into the store. A session already present with the same
// completion time, mode, duration and task is skipped, so copying the same
// history twice adds nothing. Sessions are added one by one; a failure stops
// the copy without removing what was already added.
func (s *Store) MigrateFromLegacy(ctx context.Context, src LegacySource) (LegacyMigration, error) {
	db, err := s.ready()
	if err != nil {
		return LegacyMigration{}, err
	}

	var result LegacyMigration

	sessions, err := src.LoadSessions()
	if err != nil {
		return result, fmt.Errorf("failed to migrate from legacy store: %w", err)
	}
	for i := range sessions {
		session := sessions[i]
		session.ID = 0
		s.prepareSession(&session)

		var existing int64
		err := db.WithContext(ctx).Model(&models.Session{}).
			Where("completed_at = ? AND mode = ? AND duration = ? AND task = ?",
				session.CompletedAt, session.Mode, session.Duration, session.Task).
			Count(&existing).Error
		if err != nil {
			return result, fmt.Errorf("failed to migrate from legacy store: %w", opErr("find migrated session", err))
		}
		if existing > 0 {
			result.SessionsSkipped++
			continue
		}

		if session.TaskID != nil {
			_, err = s.AddSession(ctx, &session)
		} else {
			_, err = s.RecordSession(ctx, &session, session.Task)
		}
		if err != nil {
			return result, fmt.Errorf("failed to migrate from legacy store: %w", err)
		}
		result.SessionsMigrated++
	}
	if result.SessionsMigrated > 0 {
		level.Info(s.logger).Log("msg", "migrated sessions from legacy store", "count", result.SessionsMigrated)
	}

	settings, err := src.LoadSettings()
	if err != nil {
		return result, fmt.Errorf("failed to migrate from legacy store: %w", err)
	}
	if len(settings) > 0 {
		if err := s.SaveSettings(ctx, settings); err != nil {
			return result, fmt.Errorf("failed to migrate from legacy store: %w", err)
		}
		result.SettingsMigrated = len(settings)
		level.Info(s.logger).Log("msg", "migrated settings from legacy store", "count", result.SettingsMigrated)
	}

	return result, nil
}

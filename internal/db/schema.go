package db

import (
	"context"
	"fmt"

	"github.com/go-kit/log/level"
	"gorm.io/gorm"

	"github.com/balkashynov/pomo/internal/models"
)

// CurrentSchemaVersion is the version Open upgrades to by default
const CurrentSchemaVersion = 2

// sessionV1 is the sessions table as schema version 1 created it, before
// sessions carried a task reference
type sessionV1 struct {
	ID            uint             `gorm:"primarykey"`
	Task          string           `gorm:"not null"`
	Mode          models.Mode      `gorm:"index;not null"`
	Duration      int              `gorm:"not null"`
	CompletedAt   models.Timestamp `gorm:"index;not null"`
	SessionNumber int
	Date          string `gorm:"index"`
	Hour          int
	DayOfWeek     int
	Month         int `gorm:"index"`
	Year          int `gorm:"index"`
}

func (sessionV1) TableName() string { return "sessions" }

// upgrades[v] brings a database at version v-1 to version v
var upgrades = map[int]func(*Store) error{
	1: (*Store).upgradeToV1,
	2: (*Store).upgradeToV2,
}

// upgrade applies every step between the stored version and s.version.
// The marker lives in PRAGMA user_version.
func (s *Store) upgrade() error {
	current, err := readUserVersion(s.db)
	if err != nil {
		return err
	}
	if current > CurrentSchemaVersion {
		return fmt.Errorf("database schema version %d is newer than supported version %d", current, CurrentSchemaVersion)
	}
	if current > s.version {
		return fmt.Errorf("database is at schema version %d, cannot open at version %d", current, s.version)
	}

	for v := current + 1; v <= s.version; v++ {
		if err := upgrades[v](s); err != nil {
			return fmt.Errorf("upgrade to schema version %d: %w", v, err)
		}
		if err := s.db.Exec(fmt.Sprintf("PRAGMA user_version = %d", v)).Error; err != nil {
			return fmt.Errorf("record schema version %d: %w", v, err)
		}
		level.Info(s.logger).Log("msg", "schema upgraded", "version", v)
	}
	return nil
}

func readUserVersion(tx *gorm.DB) (int, error) {
	var version int
	if err := tx.Raw("PRAGMA user_version").Scan(&version).Error; err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	return version, nil
}

// SchemaVersion returns the version marker stored in the database
func (s *Store) SchemaVersion(ctx context.Context) (int, error) {
	db, err := s.ready()
	if err != nil {
		return 0, err
	}
	return readUserVersion(db.WithContext(ctx))
}

func (s *Store) upgradeToV1() error {
	return s.db.AutoMigrate(&sessionV1{}, &models.Setting{})
}

func (s *Store) upgradeToV2() error {
	if err := s.db.AutoMigrate(&models.Task{}, &models.Session{}); err != nil {
		return err
	}
	s.backfillTaskIDs(context.Background())
	return nil
}

// backfillTaskIDs points every pre-v2 session at a task record. Failures
// are logged and skipped; the version marker advances regardless.
func (s *Store) backfillTaskIDs(ctx context.Context) (migrated, failed int) {
	var rows []models.Session
	err := s.db.WithContext(ctx).
		Where("task_id IS NULL AND task <> '' AND task <> ?", models.NoTask).
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		level.Error(s.logger).Log("msg", "task backfill scan failed", "err", err)
		return 0, 0
	}

	for _, row := range rows {
		if err := s.backfillOne(ctx, row); err != nil {
			failed++
			level.Warn(s.logger).Log("msg", "skipping session during task backfill",
				"err", &MigrationRecordError{SessionID: row.ID, Task: row.Task, Err: err})
			continue
		}
		migrated++
	}

	level.Info(s.logger).Log("msg", "task backfill finished", "migrated", migrated, "failed", failed)
	return migrated, failed
}

func (s *Store) backfillOne(ctx context.Context, row models.Session) error {
	taskID, err := s.getOrCreateTask(s.db.WithContext(ctx), row.Task)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).
		Model(&models.Session{}).
		Where("id = ?", row.ID).
		Update("task_id", taskID).Error
}

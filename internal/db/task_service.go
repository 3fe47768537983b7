package db

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/balkashynov/pomo/internal/models"
)

// recentTaskLimit is how many tasks TaskStats reports as recent
const recentTaskLimit = 5

// TaskStats aggregates the task table
type TaskStats struct {
	TotalTasks             int           `json:"totalTasks"`
	TotalSessions          int           `json:"totalSessions"`
	MostUsedTask           *models.Task  `json:"mostUsedTask"`
	RecentTasks            []models.Task `json:"recentTasks"`
	AverageSessionsPerTask float64       `json:"averageSessionsPerTask"`
}

// GetOrCreateTask finds the task with exactly this name, bumps its usage
// and returns its id, or creates it with one session
func (s *Store) GetOrCreateTask(ctx context.Context, name string) (uint, error) {
	db, err := s.ready()
	if err != nil {
		return 0, err
	}
	id, err := s.getOrCreateTask(db.WithContext(ctx), name)
	if err != nil {
		return 0, opErr("get or create task", err)
	}
	return id, nil
}

func (s *Store) getOrCreateTask(db *gorm.DB, name string) (uint, error) {
	now := models.NewTimestamp(s.timestamp())

	var id uint
	err := db.Transaction(func(tx *gorm.DB) error {
		var existing []models.Task
		if err := tx.Where("name = ?", name).Order("id ASC").Limit(1).Find(&existing).Error; err != nil {
			return err
		}

		if len(existing) > 0 {
			id = existing[0].ID
			return tx.Model(&models.Task{}).Where("id = ?", id).Updates(map[string]any{
				"last_used":      now,
				"total_sessions": gorm.Expr("total_sessions + 1"),
			}).Error
		}

		task := models.Task{
			Name:          name,
			CreatedAt:     now,
			LastUsed:      now,
			TotalSessions: 1,
		}
		if err := tx.Create(&task).Error; err != nil {
			return err
		}
		id = task.ID
		return nil
	})
	return id, err
}

// GetTaskByName retrieves a task by exact name
func (s *Store) GetTaskByName(ctx context.Context, name string) (*models.Task, error) {
	db, err := s.ready()
	if err != nil {
		return nil, err
	}

	var task models.Task
	err = db.WithContext(ctx).Where("name = ?", name).Order("id ASC").First(&task).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, opErr("get task by name", err)
	}
	return &task, nil
}

// GetTaskByID retrieves a task by ID
func (s *Store) GetTaskByID(ctx context.Context, id uint) (*models.Task, error) {
	db, err := s.ready()
	if err != nil {
		return nil, err
	}

	var task models.Task
	err = db.WithContext(ctx).First(&task, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, opErr("get task by id", err)
	}
	return &task, nil
}

// ListTasks returns all tasks, most recently used first
func (s *Store) ListTasks(ctx context.Context) ([]models.Task, error) {
	db, err := s.ready()
	if err != nil {
		return nil, err
	}

	var tasks []models.Task
	if err := db.WithContext(ctx).Order("last_used DESC, id DESC").Find(&tasks).Error; err != nil {
		return nil, opErr("list tasks", err)
	}
	return tasks, nil
}

// ClearTasks removes every task. Sessions keep their now dangling task ids.
func (s *Store) ClearTasks(ctx context.Context) error {
	db, err := s.ready()
	if err != nil {
		return err
	}
	return opErr("clear tasks", db.WithContext(ctx).Where("1 = 1").Delete(&models.Task{}).Error)
}

// TaskStats summarizes ListTasks
func (s *Store) TaskStats(ctx context.Context) (TaskStats, error) {
	tasks, err := s.ListTasks(ctx)
	if err != nil {
		return TaskStats{}, err
	}

	stats := TaskStats{
		TotalTasks:  len(tasks),
		RecentTasks: append([]models.Task{}, tasks[:min(recentTaskLimit, len(tasks))]...),
	}
	for i := range tasks {
		stats.TotalSessions += tasks[i].TotalSessions
		if stats.MostUsedTask == nil || tasks[i].TotalSessions > stats.MostUsedTask.TotalSessions {
			stats.MostUsedTask = &tasks[i]
		}
	}
	if stats.TotalTasks > 0 {
		stats.AverageSessionsPerTask = float64(stats.TotalSessions) / float64(stats.TotalTasks)
	}
	return stats, nil
}

package db

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/xeipuuv/gojsonschema"

	"github.com/balkashynov/pomo/internal/models"
)

// SnapshotVersion is written into every export
const SnapshotVersion = "2.0"

// Snapshot is the complete exported state. Sessions and Settings are nil
// when absent from an imported document.
type Snapshot struct {
	Sessions   []models.Session  `json:"sessions"`
	Tasks      []models.Task     `json:"tasks,omitempty"`
	Settings   models.Settings   `json:"settings"`
	ExportDate string            `json:"exportDate,omitempty"`
	Version    string            `json:"version,omitempty"`
	Metadata   *SnapshotMetadata `json:"metadata,omitempty"`
}

// SnapshotMetadata carries the counts recorded at export time
type SnapshotMetadata struct {
	TotalSessions   int64  `json:"totalSessions"`
	TotalTasks      int    `json:"totalTasks"`
	ExportTimestamp int64  `json:"exportTimestamp"` // unix milliseconds
	ExportID        string `json:"exportId,omitempty"`
}

const snapshotSchemaJSON = `{
  "type": "object",
  "required": ["sessions", "settings"],
  "properties": {
    "sessions": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "task": {"type": "string"},
          "taskId": {"type": ["integer", "null"]},
          "mode": {"type": "string"},
          "duration": {"type": "number"},
          "completedAt": {"type": "string"},
          "sessionNumber": {"type": "integer"}
        }
      }
    },
    "tasks": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["name"],
        "properties": {
          "name": {"type": "string"},
          "totalSessions": {"type": "integer"}
        }
      }
    },
    "settings": {"type": "object"},
    "version": {"type": "string"}
  }
}`

var snapshotSchema = mustCompileSchema(snapshotSchemaJSON)

func mustCompileSchema(src string) *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
	if err != nil {
		panic(fmt.Sprintf("compile snapshot schema: %v", err))
	}
	return schema
}

// ParseSnapshot reads and validates an exported JSON document
func ParseSnapshot(r io.Reader) (*Snapshot, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	result, err := snapshotSchema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	if !result.Valid() {
		var problems []string
		for _, desc := range result.Errors() {
			problems = append(problems, desc.String())
		}
		return nil, fmt.Errorf("%w: %s", ErrInvalidFormat, strings.Join(problems, "; "))
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	return &snap, nil
}

// ExportSnapshot reads the three tables into one document
func (s *Store) ExportSnapshot(ctx context.Context) (*Snapshot, error) {
	if _, err := s.ready(); err != nil {
		return nil, err
	}

	sessions, err := s.ListSessions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to export data: %w", err)
	}
	tasks, err := s.ListTasks(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to export data: %w", err)
	}
	settings, err := s.LoadSettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to export data: %w", err)
	}

	// Empty tables still export as [] so the document can be imported again
	if sessions == nil {
		sessions = []models.Session{}
	}
	if tasks == nil {
		tasks = []models.Task{}
	}

	now := s.timestamp()
	return &Snapshot{
		Sessions:   sessions,
		Tasks:      tasks,
		Settings:   settings,
		ExportDate: models.NewTimestamp(now).String(),
		Version:    SnapshotVersion,
		Metadata: &SnapshotMetadata{
			TotalSessions:   int64(len(sessions)),
			TotalTasks:      len(tasks),
			ExportTimestamp: now.UnixMilli(),
			ExportID:        uuid.NewString(),
		},
	}, nil
}

// ImportSnapshot replaces sessions, tasks and settings with the snapshot.
// Tasks are re-created by name, so session task ids in the payload are
// only advisory: a session whose task name matches an imported task is
// pointed at the re-created record. Steps run one after another and
// earlier steps are not undone when a later one fails.
func (s *Store) ImportSnapshot(ctx context.Context, snap *Snapshot) error {
	if _, err := s.ready(); err != nil {
		return err
	}
	if snap == nil || snap.Sessions == nil || snap.Settings == nil {
		return ErrInvalidFormat
	}

	if err := s.ClearSessions(ctx); err != nil {
		return fmt.Errorf("failed to import data: %w", err)
	}
	if err := s.ClearTasks(ctx); err != nil {
		return fmt.Errorf("failed to import data: %w", err)
	}

	taskIDs := make(map[string]uint, len(snap.Tasks))
	for _, task := range snap.Tasks {
		if task.Name == "" {
			continue
		}
		id, err := s.GetOrCreateTask(ctx, task.Name)
		if err != nil {
			return fmt.Errorf("failed to import data: %w", err)
		}
		if err := s.restoreTaskUsage(ctx, id, task); err != nil {
			return fmt.Errorf("failed to import data: %w", err)
		}
		taskIDs[task.Name] = id
	}

	for i := range snap.Sessions {
		session := snap.Sessions[i]
		if id, ok := taskIDs[session.Task]; ok {
			session.TaskID = &id
		}
		if _, err := s.AddSession(ctx, &session); err != nil {
			return fmt.Errorf("failed to import data: %w", err)
		}
	}

	if err := s.ClearSettings(ctx); err != nil {
		return fmt.Errorf("failed to import data: %w", err)
	}
	if err := s.SaveSettings(ctx, snap.Settings); err != nil {
		return fmt.Errorf("failed to import data: %w", err)
	}
	return nil
}

// restoreTaskUsage copies the exported counters back over the values
// GetOrCreateTask just stamped
func (s *Store) restoreTaskUsage(ctx context.Context, id uint, from models.Task) error {
	db, err := s.ready()
	if err != nil {
		return err
	}

	updates := map[string]any{}
	if from.TotalSessions > 0 {
		updates["total_sessions"] = from.TotalSessions
	}
	if !from.CreatedAt.IsZero() {
		updates["created_at"] = from.CreatedAt
	}
	if !from.LastUsed.IsZero() {
		updates["last_used"] = from.LastUsed
	}
	if len(updates) == 0 {
		return nil
	}
	return opErr("restore task usage", db.WithContext(ctx).Model(&models.Task{}).Where("id = ?", id).Updates(updates).Error)
}

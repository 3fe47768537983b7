package db

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/balkashynov/pomo/internal/models"
)

// SaveSettings upserts one row per key. The writes share a transaction, so
// the call only succeeds when every key was stored.
func (s *Store) SaveSettings(ctx context.Context, settings models.Settings) error {
	db, err := s.ready()
	if err != nil {
		return err
	}

	rows := make([]models.Setting, 0, len(settings))
	for key, value := range settings {
		encoded, err := models.EncodeSettingValue(value)
		if err != nil {
			return opErr("save setting "+key, err)
		}
		rows = append(rows, models.Setting{Key: key, Value: encoded})
	}
	if len(rows) == 0 {
		return nil
	}

	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, row := range rows {
			if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&row).Error; err != nil {
				return opErr("save setting "+row.Key, err)
			}
		}
		return nil
	})
	return err
}

// LoadSettings collapses the stored rows into one mapping
func (s *Store) LoadSettings(ctx context.Context) (models.Settings, error) {
	db, err := s.ready()
	if err != nil {
		return nil, err
	}

	var rows []models.Setting
	if err := db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, opErr("load settings", err)
	}

	settings := make(models.Settings, len(rows))
	for _, row := range rows {
		value, err := models.DecodeSettingValue(row.Value)
		if err != nil {
			return nil, opErr("load setting "+row.Key, err)
		}
		settings[row.Key] = value
	}
	return settings, nil
}

// ClearSettings removes every stored setting
func (s *Store) ClearSettings(ctx context.Context) error {
	db, err := s.ready()
	if err != nil {
		return err
	}
	return opErr("clear settings", db.WithContext(ctx).Where("1 = 1").Delete(&models.Setting{}).Error)
}

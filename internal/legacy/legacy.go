package legacy

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/balkashynov/pomo/internal/models"
)

// Keys of the flat key-value layout
const (
	HistoryKey  = "pomodoroHistory"
	SettingsKey = "pomodoroSettings"
	MigratedKey = "pomodoroMigrated"
)

// MaxHistory caps the number of sessions kept under HistoryKey
const MaxHistory = 1000

// Store is the key-value fallback used when the structured store cannot be
// opened or written. Sessions live as one JSON array, settings as one JSON
// object.
type Store struct {
	db *badger.DB
}

// Open opens (or creates) the badger directory at dir
func Open(dir string) (*Store, error) {
	if dir == "" {
		return nil, fmt.Errorf("legacy store directory is required")
	}
	db, err := badger.Open(badger.DefaultOptions(dir).WithLogger(nil))
	if err != nil {
		return nil, fmt.Errorf("open legacy store: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the badger directory lock
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// LoadSessions returns the stored history, newest first. A missing key
// yields an empty history.
func (s *Store) LoadSessions() ([]models.Session, error) {
	var sessions []models.Session
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		sessions, err = readSessions(txn)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("load legacy history: %w", err)
	}
	return sessions, nil
}

// SaveSessions replaces the stored history, keeping the first MaxHistory entries
func (s *Store) SaveSessions(sessions []models.Session) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return writeSessions(txn, sessions)
	})
	if err != nil {
		return fmt.Errorf("save legacy history: %w", err)
	}
	return nil
}

// PrependSession adds session at the front of the history
func (s *Store) PrependSession(session models.Session) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		sessions, err := readSessions(txn)
		if err != nil {
			return err
		}
		return writeSessions(txn, append([]models.Session{session}, sessions...))
	})
	if err != nil {
		return fmt.Errorf("prepend legacy session: %w", err)
	}
	return nil
}

// DropSessions removes the sessions with the given ids from the history and
// returns how many were removed
func (s *Store) DropSessions(ids []uint) (int, error) {
	drop := make(map[uint]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}

	var removed int
	err := s.db.Update(func(txn *badger.Txn) error {
		sessions, err := readSessions(txn)
		if err != nil {
			return err
		}
		kept := sessions[:0]
		for _, session := range sessions {
			if drop[session.ID] {
				removed++
				continue
			}
			kept = append(kept, session)
		}
		return writeSessions(txn, kept)
	})
	if err != nil {
		return 0, fmt.Errorf("drop legacy sessions: %w", err)
	}
	return removed, nil
}

// LoadSettings returns the stored settings object, or an empty mapping
func (s *Store) LoadSettings() (models.Settings, error) {
	settings := models.Settings{}
	err := s.db.View(func(txn *badger.Txn) error {
		raw, err := get(txn, SettingsKey)
		if err != nil || raw == nil {
			return err
		}
		decoded, err := models.DecodeSettingValue(string(raw))
		if err != nil {
			return err
		}
		obj, ok := decoded.(map[string]any)
		if !ok {
			return fmt.Errorf("%s is not a JSON object", SettingsKey)
		}
		settings = obj
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("load legacy settings: %w", err)
	}
	return settings, nil
}

// SaveSettings replaces the stored settings object
func (s *Store) SaveSettings(settings models.Settings) error {
	if settings == nil {
		settings = models.Settings{}
	}
	data, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("save legacy settings: %w", err)
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(SettingsKey), data)
	})
	if err != nil {
		return fmt.Errorf("save legacy settings: %w", err)
	}
	return nil
}

// Migrated reports whether MarkMigrated was called
func (s *Store) Migrated() (bool, error) {
	var done bool
	err := s.db.View(func(txn *badger.Txn) error {
		raw, err := get(txn, MigratedKey)
		done = raw != nil
		return err
	})
	return done, err
}

// MarkMigrated records that the contents were copied into the structured store
func (s *Store) MarkMigrated(at time.Time) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(MigratedKey), []byte(models.NewTimestamp(at).String()))
	})
}

func get(txn *badger.Txn, key string) ([]byte, error) {
	item, err := txn.Get([]byte(key))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return item.ValueCopy(nil)
}

func readSessions(txn *badger.Txn) ([]models.Session, error) {
	raw, err := get(txn, HistoryKey)
	if err != nil || raw == nil {
		return []models.Session{}, err
	}
	var sessions []models.Session
	if err := json.Unmarshal(raw, &sessions); err != nil {
		return nil, fmt.Errorf("decode %s: %w", HistoryKey, err)
	}
	if sessions == nil {
		sessions = []models.Session{}
	}
	return sessions, nil
}

func writeSessions(txn *badger.Txn, sessions []models.Session) error {
	if len(sessions) > MaxHistory {
		sessions = sessions[:MaxHistory]
	}
	if sessions == nil {
		sessions = []models.Session{}
	}
	data, err := json.Marshal(sessions)
	if err != nil {
		return err
	}
	return txn.Set([]byte(HistoryKey), data)
}

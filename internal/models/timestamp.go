package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// ISOLayout is the layout timestamps are persisted and exported in. Fixed
// width UTC keeps lexical order equal to chronological order, so range
// scans on the column work on the raw text.
const ISOLayout = "2006-01-02T15:04:05.000Z"

// Timestamp is a time.Time stored as an ISO-8601 string
type Timestamp struct {
	time.Time
}

// NewTimestamp truncates t to millisecond precision in UTC
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t.UTC().Truncate(time.Millisecond)}
}

// String formats the timestamp in ISOLayout
func (t Timestamp) String() string {
	return t.UTC().Format(ISOLayout)
}

// GormDataType tells gorm to create a text column
func (Timestamp) GormDataType() string {
	return "text"
}

// Value implements driver.Valuer
func (t Timestamp) Value() (driver.Value, error) {
	if t.IsZero() {
		return nil, nil
	}
	return t.String(), nil
}

// Scan implements sql.Scanner
func (t *Timestamp) Scan(value any) error {
	switch v := value.(type) {
	case nil:
		t.Time = time.Time{}
		return nil
	case time.Time:
		*t = NewTimestamp(v)
		return nil
	case string:
		return t.parse(v)
	case []byte:
		return t.parse(string(v))
	}
	return fmt.Errorf("cannot scan %T into Timestamp", value)
}

// MarshalJSON writes the ISO string
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.String())
}

// UnmarshalJSON accepts any RFC 3339 string
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var s *string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == nil {
		t.Time = time.Time{}
		return nil
	}
	return t.parse(*s)
}

func (t *Timestamp) parse(s string) error {
	if s == "" {
		t.Time = time.Time{}
		return nil
	}
	parsed, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return fmt.Errorf("invalid timestamp %q: %w", s, err)
	}
	*t = NewTimestamp(parsed)
	return nil
}

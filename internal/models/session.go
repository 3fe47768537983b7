package models

import "time"

// Mode is the kind of timer interval a session covers
type Mode string

const (
	ModeFocus     Mode = "focus"
	ModeBreak     Mode = "break"
	ModeLongBreak Mode = "long-break"
)

// NoTask is stored in Session.Task when no task was named
const NoTask = "No task specified"

// Valid reports whether m is one of the known modes
func (m Mode) Valid() bool {
	switch m {
	case ModeFocus, ModeBreak, ModeLongBreak:
		return true
	}
	return false
}

// Label returns the human readable name of the mode
func (m Mode) Label() string {
	switch m {
	case ModeFocus:
		return "Focus"
	case ModeBreak:
		return "Break"
	case ModeLongBreak:
		return "Long Break"
	}
	return string(m)
}

// Session represents one completed timer interval
type Session struct {
	ID uint `gorm:"primarykey" json:"id,omitempty"`

	Task          string    `gorm:"not null" json:"task"`
	TaskID        *uint     `gorm:"index" json:"taskId,omitempty"`
	Mode          Mode      `gorm:"index;not null" json:"mode"`
	Duration      int       `gorm:"not null" json:"duration"` // minutes
	CompletedAt   Timestamp `gorm:"index;not null" json:"completedAt"`
	SessionNumber int       `json:"sessionNumber"`

	// Derived from CompletedAt at write time so they can be queried by index
	Date      string `gorm:"index" json:"date"`
	Hour      int    `json:"hour"`
	DayOfWeek int    `json:"dayOfWeek"`
	Month     int    `gorm:"index" json:"month"`
	Year      int    `gorm:"index" json:"year"`
}

// HasDerivedFields reports whether the calendar fields were filled in
func (s *Session) HasDerivedFields() bool {
	return s.Date != "" && s.Year != 0 && s.Month != 0
}

// Derive fills the calendar fields from CompletedAt as seen in loc
func (s *Session) Derive(loc *time.Location) {
	if loc == nil {
		loc = time.Local
	}
	t := s.CompletedAt.In(loc)
	s.Date = t.Format("2006-01-02")
	s.Hour = t.Hour()
	s.DayOfWeek = int(t.Weekday())
	s.Month = int(t.Month())
	s.Year = t.Year()
}

// DurationMinutes returns Duration as a time.Duration
func (s *Session) DurationMinutes() time.Duration {
	return time.Duration(s.Duration) * time.Minute
}

package report

import (
	"sort"
	"time"

	"github.com/balkashynov/pomo/internal/models"
)

// MonthStats totals one calendar month
type MonthStats struct {
	Key        string  `json:"key"` // YYYY-MM
	TotalHours float64 `json:"totalHours"`
	FocusHours float64 `json:"focusHours"`
	Sessions   int     `json:"sessions"`
	ActiveDays int     `json:"activeDays"`
}

// Label renders the key as "January 2024"
func (m MonthStats) Label() string {
	t, err := time.Parse("2006-01", m.Key)
	if err != nil {
		return m.Key
	}
	return t.Format("January 2006")
}

// Monthly groups sessions by the month they completed in, as seen in loc.
// The result is sorted newest month first.
func Monthly(sessions []models.Session, loc *time.Location) []MonthStats {
	if loc == nil {
		loc = time.Local
	}

	type acc struct {
		totalMinutes, focusMinutes, sessions int
		days                                 map[string]struct{}
	}
	months := make(map[string]*acc)

	for _, s := range sessions {
		local := s.CompletedAt.In(loc)
		key := local.Format("2006-01")
		m, ok := months[key]
		if !ok {
			m = &acc{days: make(map[string]struct{})}
			months[key] = m
		}
		m.totalMinutes += s.Duration
		m.sessions++
		if s.Mode == models.ModeFocus {
			m.focusMinutes += s.Duration
		}

		day := s.Date
		if day == "" {
			day = local.Format("2006-01-02")
		}
		m.days[day] = struct{}{}
	}

	stats := make([]MonthStats, 0, len(months))
	for key, m := range months {
		stats = append(stats, MonthStats{
			Key:        key,
			TotalHours: float64(m.totalMinutes) / 60,
			FocusHours: float64(m.focusMinutes) / 60,
			Sessions:   m.sessions,
			ActiveDays: len(m.days),
		})
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].Key > stats[j].Key })
	return stats
}

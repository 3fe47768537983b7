package report

import (
	"context"
	"sort"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/balkashynov/pomo/internal/models"
)

// DefaultWindow is the lookback Summary uses when given zero
const DefaultWindow = 30 * 24 * time.Hour

// TaskSource resolves task ids to their current records
type TaskSource interface {
	GetTaskByID(ctx context.Context, id uint) (*models.Task, error)
}

// Summary covers the sessions completed inside one lookback window
type Summary struct {
	From                   time.Time       `json:"from"`
	To                     time.Time       `json:"to"`
	TotalSessions          int             `json:"totalSessions"`
	FocusHours             float64         `json:"focusHours"`
	BreakHours             float64         `json:"breakHours"`
	ActiveDays             int             `json:"activeDays"`
	AverageDailyFocusHours float64         `json:"averageDailyFocusHours"`
	Tasks                  []TaskBreakdown `json:"tasks"`
}

// TaskBreakdown is the focus time spent on one task
type TaskBreakdown struct {
	TaskID       *uint  `json:"taskId,omitempty"`
	Name         string `json:"name"`
	FocusMinutes int    `json:"focusMinutes"`
	Sessions     int    `json:"sessions"`
}

// Aggregator computes report figures from a session list
type Aggregator struct {
	tasks  TaskSource
	logger log.Logger
	now    func() time.Time
}

// Option configures New
type Option func(*Aggregator)

func WithLogger(l log.Logger) Option {
	return func(a *Aggregator) {
		if l != nil {
			a.logger = l
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(a *Aggregator) {
		if now != nil {
			a.now = now
		}
	}
}

// New returns an Aggregator. tasks may be nil, in which case the
// breakdown uses the task names stored on the sessions.
func New(tasks TaskSource, opts ...Option) *Aggregator {
	a := &Aggregator{
		tasks:  tasks,
		logger: log.NewNopLogger(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Summary aggregates the sessions completed within window of now.
// A non-positive window means DefaultWindow.
func (a *Aggregator) Summary(ctx context.Context, sessions []models.Session, window time.Duration) (Summary, error) {
	if window <= 0 {
		window = DefaultWindow
	}
	to := a.now()
	from := to.Add(-window)

	summary := Summary{From: from, To: to, Tasks: []TaskBreakdown{}}
	var focusMinutes, breakMinutes int
	days := make(map[string]struct{})
	byTask := make(map[string]*TaskBreakdown)
	names := make(map[uint]string)

	for _, s := range sessions {
		if s.CompletedAt.Before(from) {
			continue
		}
		summary.TotalSessions++
		days[s.Date] = struct{}{}

		if s.Mode != models.ModeFocus {
			breakMinutes += s.Duration
			continue
		}
		focusMinutes += s.Duration

		name, err := a.taskName(ctx, s, names)
		if err != nil {
			return Summary{}, err
		}
		entry, ok := byTask[name]
		if !ok {
			entry = &TaskBreakdown{Name: name}
			if s.TaskID != nil {
				id := *s.TaskID
				entry.TaskID = &id
			}
			byTask[name] = entry
		}
		entry.FocusMinutes += s.Duration
		entry.Sessions++
	}

	summary.FocusHours = float64(focusMinutes) / 60
	summary.BreakHours = float64(breakMinutes) / 60
	summary.ActiveDays = len(days)
	if summary.ActiveDays > 0 {
		summary.AverageDailyFocusHours = summary.FocusHours / float64(summary.ActiveDays)
	}

	for _, entry := range byTask {
		summary.Tasks = append(summary.Tasks, *entry)
	}
	sort.Slice(summary.Tasks, func(i, j int) bool {
		if summary.Tasks[i].FocusMinutes != summary.Tasks[j].FocusMinutes {
			return summary.Tasks[i].FocusMinutes > summary.Tasks[j].FocusMinutes
		}
		return summary.Tasks[i].Name < summary.Tasks[j].Name
	})
	return summary, nil
}

// taskName prefers the current name of the referenced task over the name
// copied onto the session
func (a *Aggregator) taskName(ctx context.Context, s models.Session, cache map[uint]string) (string, error) {
	if s.TaskID == nil || a.tasks == nil {
		return s.Task, nil
	}
	if name, ok := cache[*s.TaskID]; ok {
		return name, nil
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	name := s.Task
	task, err := a.tasks.GetTaskByID(ctx, *s.TaskID)
	if err != nil {
		level.Debug(a.logger).Log("msg", "task lookup failed, using session name", "taskId", *s.TaskID, "err", err)
	} else if task.Name != "" {
		name = task.Name
	}
	cache[*s.TaskID] = name
	return name, nil
}

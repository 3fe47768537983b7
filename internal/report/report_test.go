package report

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/balkashynov/pomo/internal/models"
)

func at(t *testing.T, value string) models.Timestamp {
	t.Helper()
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		t.Fatalf("parse %q: %v", value, err)
	}
	return models.NewTimestamp(parsed)
}

func newSession(t *testing.T, when string, mode models.Mode, minutes int, task string, taskID *uint) models.Session {
	t.Helper()
	s := models.Session{Task: task, TaskID: taskID, Mode: mode, Duration: minutes, CompletedAt: at(t, when)}
	s.Derive(time.UTC)
	return s
}

type taskMap map[uint]string

func (m taskMap) GetTaskByID(_ context.Context, id uint) (*models.Task, error) {
	name, ok := m[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return &models.Task{ID: id, Name: name}, nil
}

func ptr(v uint) *uint { return &v }

func TestMonthly_JanuaryFebruary(t *testing.T) {
	sessions := []models.Session{
		newSession(t, "2024-02-01T10:00:00Z", models.ModeBreak, 5, "", nil),
		newSession(t, "2024-01-15T10:00:00Z", models.ModeFocus, 25, "", nil),
	}

	stats := Monthly(sessions, time.UTC)
	if len(stats) != 2 {
		t.Fatalf("expected 2 months, got %d", len(stats))
	}

	feb, jan := stats[0], stats[1]
	if feb.Key != "2024-02" || jan.Key != "2024-01" {
		t.Fatalf("expected newest month first, got %s then %s", feb.Key, jan.Key)
	}
	if jan.Sessions != 1 || jan.FocusHours != 25.0/60 || jan.ActiveDays != 1 {
		t.Fatalf("unexpected January stats: %+v", jan)
	}
	if feb.Sessions != 1 || feb.FocusHours != 0 || feb.ActiveDays != 1 || feb.TotalHours != 5.0/60 {
		t.Fatalf("unexpected February stats: %+v", feb)
	}
	if jan.Label() != "January 2024" {
		t.Fatalf("unexpected label %q", jan.Label())
	}
}

func TestMonthly_UsesLocation(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*60*60)
	s := models.Session{Mode: models.ModeFocus, Duration: 25, CompletedAt: at(t, "2024-01-31T20:00:00Z")}

	stats := Monthly([]models.Session{s}, tokyo)
	if len(stats) != 1 || stats[0].Key != "2024-02" {
		t.Fatalf("expected the session to fall in February in Tokyo, got %+v", stats)
	}
}

func TestMonthly_Empty(t *testing.T) {
	if stats := Monthly(nil, time.UTC); len(stats) != 0 {
		t.Fatalf("expected no months, got %+v", stats)
	}
}

func TestSummary_WindowAndTotals(t *testing.T) {
	now := at(t, "2024-01-31T12:00:00Z").Time
	agg := New(nil, WithClock(func() time.Time { return now }))

	sessions := []models.Session{
		newSession(t, "2024-01-31T09:00:00Z", models.ModeFocus, 30, "a", nil),
		newSession(t, "2024-01-31T09:35:00Z", models.ModeBreak, 5, "", nil),
		newSession(t, "2024-01-20T09:00:00Z", models.ModeFocus, 60, "b", nil),
		newSession(t, "2024-01-20T10:00:00Z", models.ModeLongBreak, 15, "", nil),
		newSession(t, "2023-12-01T09:00:00Z", models.ModeFocus, 90, "old", nil),
	}

	summary, err := agg.Summary(context.Background(), sessions, 0)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if summary.TotalSessions != 4 {
		t.Fatalf("expected 4 sessions in window, got %d", summary.TotalSessions)
	}
	if summary.FocusHours != 1.5 || summary.BreakHours != 20.0/60 {
		t.Fatalf("unexpected hours: focus %v break %v", summary.FocusHours, summary.BreakHours)
	}
	if summary.ActiveDays != 2 || summary.AverageDailyFocusHours != 0.75 {
		t.Fatalf("unexpected daily figures: %+v", summary)
	}
	if !summary.To.Equal(now) || !summary.From.Equal(now.Add(-DefaultWindow)) {
		t.Fatalf("unexpected window %v - %v", summary.From, summary.To)
	}
}

func TestSummary_Empty(t *testing.T) {
	summary, err := New(nil).Summary(context.Background(), nil, time.Hour)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if summary.TotalSessions != 0 || summary.AverageDailyFocusHours != 0 || len(summary.Tasks) != 0 {
		t.Fatalf("unexpected empty summary: %+v", summary)
	}
}

func TestSummary_TaskBreakdown(t *testing.T) {
	now := at(t, "2024-01-31T12:00:00Z").Time
	tasks := taskMap{1: "Renamed report", 2: "Reading"}
	agg := New(tasks, WithClock(func() time.Time { return now }))

	sessions := []models.Session{
		newSession(t, "2024-01-30T09:00:00Z", models.ModeFocus, 25, "Report", ptr(1)),
		newSession(t, "2024-01-30T10:00:00Z", models.ModeFocus, 25, "Report", ptr(1)),
		newSession(t, "2024-01-30T11:00:00Z", models.ModeFocus, 45, "Reading", ptr(2)),
		newSession(t, "2024-01-30T12:00:00Z", models.ModeFocus, 10, "Ghost", ptr(9)),
		newSession(t, "2024-01-30T12:30:00Z", models.ModeFocus, 10, models.NoTask, nil),
		newSession(t, "2024-01-30T13:00:00Z", models.ModeBreak, 5, models.NoTask, nil),
	}

	summary, err := agg.Summary(context.Background(), sessions, 7*24*time.Hour)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}

	want := []struct {
		name    string
		minutes int
		count   int
	}{
		{"Renamed report", 50, 2},
		{"Reading", 45, 1},
		{"Ghost", 10, 1},
		{models.NoTask, 10, 1},
	}
	if len(summary.Tasks) != len(want) {
		t.Fatalf("expected %d tasks, got %+v", len(want), summary.Tasks)
	}
	for i, w := range want {
		got := summary.Tasks[i]
		if got.Name != w.name || got.FocusMinutes != w.minutes || got.Sessions != w.count {
			t.Fatalf("task %d: expected %+v, got %+v", i, w, got)
		}
	}
	if summary.Tasks[0].TaskID == nil || *summary.Tasks[0].TaskID != 1 {
		t.Fatalf("expected task id on breakdown entry")
	}
}

func TestWriteText(t *testing.T) {
	now := at(t, "2024-02-02T12:00:00Z").Time
	sessions := []models.Session{
		newSession(t, "2024-02-01T10:00:00Z", models.ModeBreak, 5, "", nil),
		newSession(t, "2024-01-15T10:00:00Z", models.ModeFocus, 25, "Write", nil),
	}
	summary, err := New(nil, WithClock(func() time.Time { return now })).Summary(context.Background(), sessions, 0)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}

	var out strings.Builder
	if err := WriteText(&out, summary, Monthly(sessions, time.UTC), now); err != nil {
		t.Fatalf("write text: %v", err)
	}
	text := out.String()

	for _, line := range []string{
		"POMODORO TIMER REPORT",
		"Generated: 2024-02-02",
		"Period: Last 30 days",
		"- Total Sessions: 2",
		"- Focus Hours: 0.4h",
		"- Write: 25m across 1 sessions",
		"February 2024:",
		"January 2024:",
		"  - Active Days: 1",
	} {
		if !strings.Contains(text, line) {
			t.Fatalf("report missing %q:\n%s", line, text)
		}
	}
	if strings.Index(text, "February 2024") > strings.Index(text, "January 2024") {
		t.Fatalf("months must be listed newest first")
	}
}

func TestFileName(t *testing.T) {
	if got := FileName(time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)); got != "pomodoro-report-2024-03-05.txt" {
		t.Fatalf("unexpected file name %q", got)
	}
}

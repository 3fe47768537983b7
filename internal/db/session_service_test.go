package db

import (
	"context"
	"errors"
	"testing"

	"github.com/balkashynov/pomo/internal/models"
)

func TestAddSession_AssignsIDAndDerivedFields(t *testing.T) {
	store := newTestStore(t)

	first := addSessionAt(t, store, "2024-01-15T10:00:00Z", models.ModeFocus, 25, "Write report")
	second := addSessionAt(t, store, "2024-01-15T10:30:00Z", models.ModeBreak, 5, "")
	if first == 0 || second <= first {
		t.Fatalf("expected increasing ids, got %d then %d", first, second)
	}

	sessions, err := store.ListSessions(context.Background())
	if err != nil {
		t.Fatalf("list sessions: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(sessions))
	}

	focus := sessions[1]
	if focus.Date != "2024-01-15" || focus.Hour != 10 || focus.Month != 1 || focus.Year != 2024 {
		t.Fatalf("unexpected derived fields: %+v", focus)
	}
	if focus.DayOfWeek != 1 {
		t.Fatalf("expected Monday (1), got %d", focus.DayOfWeek)
	}
	if focus.CompletedAt.String() != "2024-01-15T10:00:00.000Z" {
		t.Fatalf("unexpected completedAt %s", focus.CompletedAt)
	}
	if sessions[0].Task != models.NoTask {
		t.Fatalf("expected empty task to be stored as %q, got %q", models.NoTask, sessions[0].Task)
	}
}

func TestAddSession_StampsCurrentTime(t *testing.T) {
	clock := newClock(t, "2024-03-10T08:15:00Z")
	store := newTestStore(t, WithClock(clock.Now))

	session := models.Session{Task: "Inbox", Mode: models.ModeFocus, Duration: 25}
	if _, err := store.AddSession(context.Background(), &session); err != nil {
		t.Fatalf("add session: %v", err)
	}
	if !session.CompletedAt.Equal(clock.now) {
		t.Fatalf("expected completedAt %v, got %v", clock.now, session.CompletedAt.Time)
	}
	if session.Date != "2024-03-10" {
		t.Fatalf("expected date 2024-03-10, got %q", session.Date)
	}
}

func TestListSessions_NewestFirst(t *testing.T) {
	store := newTestStore(t)

	times := []string{
		"2024-02-01T10:00:00Z",
		"2023-12-31T23:59:59Z",
		"2024-02-01T10:00:01Z",
		"2024-01-15T10:00:00Z",
	}
	for _, at := range times {
		addSessionAt(t, store, at, models.ModeFocus, 25, "a")
	}

	sessions, err := store.ListSessions(context.Background())
	if err != nil {
		t.Fatalf("list sessions: %v", err)
	}
	if len(sessions) != len(times) {
		t.Fatalf("expected %d sessions, got %d", len(times), len(sessions))
	}
	for i := 1; i < len(sessions); i++ {
		if !sessions[i-1].CompletedAt.After(sessions[i].CompletedAt.Time) {
			t.Fatalf("sessions not strictly descending at %d: %s then %s", i, sessions[i-1].CompletedAt, sessions[i].CompletedAt)
		}
	}
}

func TestListSessionsByDateRange_Inclusive(t *testing.T) {
	store := newTestStore(t)

	addSessionAt(t, store, "2024-01-01T00:00:00Z", models.ModeFocus, 25, "a")
	addSessionAt(t, store, "2024-01-10T12:00:00Z", models.ModeFocus, 25, "a")
	addSessionAt(t, store, "2024-01-31T23:59:59Z", models.ModeFocus, 25, "a")
	addSessionAt(t, store, "2024-02-01T00:00:00Z", models.ModeFocus, 25, "a")
	addSessionAt(t, store, "2023-12-31T23:59:59Z", models.ModeFocus, 25, "a")

	sessions, err := store.ListSessionsByDateRange(context.Background(),
		mustTime(t, "2024-01-01T00:00:00Z"), mustTime(t, "2024-01-31T23:59:59Z"))
	if err != nil {
		t.Fatalf("list by range: %v", err)
	}
	if len(sessions) != 3 {
		t.Fatalf("expected 3 sessions in range, got %d", len(sessions))
	}
	if sessions[0].CompletedAt.String() != "2024-01-31T23:59:59.000Z" {
		t.Fatalf("expected newest first, got %s", sessions[0].CompletedAt)
	}
}

func TestListSessionsByMonth_FiltersYear(t *testing.T) {
	store := newTestStore(t)

	jan := addSessionAt(t, store, "2024-01-15T10:00:00Z", models.ModeFocus, 25, "a")
	addSessionAt(t, store, "2024-02-01T10:00:00Z", models.ModeBreak, 5, "a")
	addSessionAt(t, store, "2023-01-20T10:00:00Z", models.ModeFocus, 25, "a")
	addSessionAt(t, store, "2025-01-02T10:00:00Z", models.ModeFocus, 25, "a")

	sessions, err := store.ListSessionsByMonth(context.Background(), 2024, 1)
	if err != nil {
		t.Fatalf("list by month: %v", err)
	}
	if len(sessions) != 1 || sessions[0].ID != jan {
		t.Fatalf("expected only session %d, got %+v", jan, sessions)
	}

	empty, err := store.ListSessionsByMonth(context.Background(), 2022, 1)
	if err != nil {
		t.Fatalf("list by month: %v", err)
	}
	if len(empty) != 0 {
		t.Fatalf("expected no sessions for 2022-01, got %d", len(empty))
	}
}

func TestListSessionsByTask(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	taskID, err := store.GetOrCreateTask(ctx, "Deep work")
	if err != nil {
		t.Fatalf("get or create task: %v", err)
	}

	for _, at := range []string{"2024-01-01T09:00:00Z", "2024-01-02T09:00:00Z"} {
		session := models.Session{
			Task:        "Deep work",
			TaskID:      &taskID,
			Mode:        models.ModeFocus,
			Duration:    25,
			CompletedAt: models.NewTimestamp(mustTime(t, at)),
		}
		if _, err := store.AddSession(ctx, &session); err != nil {
			t.Fatalf("add session: %v", err)
		}
	}
	addSessionAt(t, store, "2024-01-03T09:00:00Z", models.ModeFocus, 25, "Other")

	sessions, err := store.ListSessionsByTask(ctx, taskID)
	if err != nil {
		t.Fatalf("list by task: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("expected 2 sessions for task, got %d", len(sessions))
	}
	if sessions[0].Date != "2024-01-02" {
		t.Fatalf("expected newest first, got %s", sessions[0].Date)
	}
}

func TestDeleteClearAndCountSessions(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first := addSessionAt(t, store, "2024-01-01T09:00:00Z", models.ModeFocus, 25, "a")
	addSessionAt(t, store, "2024-01-02T09:00:00Z", models.ModeFocus, 25, "a")
	addSessionAt(t, store, "2024-01-03T09:00:00Z", models.ModeFocus, 25, "a")

	if err := store.DeleteSession(ctx, first); err != nil {
		t.Fatalf("delete session: %v", err)
	}
	count, err := store.CountSessions(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 sessions after delete, got %d", count)
	}

	if err := store.ClearSessions(ctx); err != nil {
		t.Fatalf("clear sessions: %v", err)
	}
	count, err = store.CountSessions(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected 0 sessions after clear, got %d", count)
	}
}

func TestRecordSession_LinksTask(t *testing.T) {
	store := newTestStore(t, WithClock(newClock(t, "2024-01-15T10:00:00Z").Now))
	ctx := context.Background()

	session := models.Session{Task: "Write", Mode: models.ModeFocus, Duration: 25}
	id, err := store.RecordSession(ctx, &session, "Write")
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	task, err := store.GetTaskByName(ctx, "Write")
	if err != nil {
		t.Fatalf("get task: %v", err)
	}
	if id == 0 || session.TaskID == nil || *session.TaskID != task.ID || task.TotalSessions != 1 {
		t.Fatalf("session %+v not linked to task %+v", session, task)
	}
	if session.Date != "2024-01-15" {
		t.Fatalf("derived fields missing: %+v", session)
	}

	placeholder := models.Session{Mode: models.ModeBreak, Duration: 5}
	if _, err := store.RecordSession(ctx, &placeholder, models.NoTask); err != nil {
		t.Fatalf("record placeholder: %v", err)
	}
	if placeholder.TaskID != nil || placeholder.Task != models.NoTask {
		t.Fatalf("placeholder session should stay unlinked: %+v", placeholder)
	}
	if _, err := store.GetTaskByName(ctx, models.NoTask); !errors.Is(err, ErrNotFound) {
		t.Fatalf("no task record expected for the placeholder, got %v", err)
	}
}

func TestRecordSession_FailedInsertLeavesTasksUntouched(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	existing := addSessionAt(t, store, "2024-01-15T09:00:00Z", models.ModeFocus, 25, "Read")
	if _, err := store.GetOrCreateTask(ctx, "Read"); err != nil {
		t.Fatalf("create task: %v", err)
	}

	// reusing an id makes the insert fail after the task step
	for _, name := range []string{"Read", "Write"} {
		clash := models.Session{ID: existing, Task: name, Mode: models.ModeFocus, Duration: 25}
		if _, err := store.RecordSession(ctx, &clash, name); err == nil {
			t.Fatalf("expected a duplicate id to fail for %q", name)
		}
		if clash.TaskID != nil {
			t.Fatalf("failed record must not keep a task id: %+v", clash)
		}
	}

	read, err := store.GetTaskByName(ctx, "Read")
	if err != nil {
		t.Fatalf("get task: %v", err)
	}
	if read.TotalSessions != 1 {
		t.Fatalf("failed record bumped the task to %d sessions", read.TotalSessions)
	}
	if _, err := store.GetTaskByName(ctx, "Write"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("failed record created a task: %v", err)
	}
	if n, _ := store.CountSessions(ctx); n != 1 {
		t.Fatalf("expected 1 session, got %d", n)
	}
}

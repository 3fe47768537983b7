package timer

import (
	"testing"
	"time"

	"github.com/balkashynov/pomo/internal/models"
)

func TestNew_StartsStoppedInFocus(t *testing.T) {
	tm := New(models.DefaultTimerSettings())

	if tm.Mode() != models.ModeFocus || tm.Running() {
		t.Fatalf("expected stopped focus timer, got mode %s running %v", tm.Mode(), tm.Running())
	}
	if tm.Total() != 25*time.Minute || tm.Remaining() != 25*time.Minute {
		t.Fatalf("unexpected lengths: total %v remaining %v", tm.Total(), tm.Remaining())
	}
}

func TestNew_FillsMissingSettings(t *testing.T) {
	tm := New(models.TimerSettings{FocusTime: 50})

	if tm.Total() != 50*time.Minute {
		t.Fatalf("expected 50m focus, got %v", tm.Total())
	}
	if tm.Settings().SessionsBeforeLongBreak != 4 || tm.Settings().BreakTime != 5 {
		t.Fatalf("expected defaults for missing values, got %+v", tm.Settings())
	}
}

func TestStart_IsNoOpWhenRunning(t *testing.T) {
	tm := New(models.DefaultTimerSettings())

	if !tm.Start() {
		t.Fatalf("first start should succeed")
	}
	if tm.Start() {
		t.Fatalf("second start should be a no-op")
	}
}

func TestTick(t *testing.T) {
	tm := New(models.TimerSettings{FocusTime: 1})

	if tm.Tick(time.Second) {
		t.Fatalf("paused timer must not complete")
	}
	if tm.Remaining() != time.Minute {
		t.Fatalf("paused timer must not count down")
	}

	tm.Start()
	for i := 0; i < 59; i++ {
		if tm.Tick(time.Second) {
			t.Fatalf("completed early at tick %d", i)
		}
	}
	if tm.Progress() <= 0.98 {
		t.Fatalf("expected progress near 1, got %v", tm.Progress())
	}
	if !tm.Tick(time.Second) {
		t.Fatalf("expected completion on the last tick")
	}
	if tm.Running() || tm.Remaining() != 0 {
		t.Fatalf("completed timer should be stopped at zero")
	}
	if tm.Start() {
		t.Fatalf("a finished interval cannot be started again")
	}
}

func TestPauseAndReset(t *testing.T) {
	tm := New(models.DefaultTimerSettings())
	tm.Start()
	tm.Tick(time.Minute)
	tm.Pause()

	if tm.Running() || tm.Remaining() != 24*time.Minute {
		t.Fatalf("pause must keep remaining time, got %v", tm.Remaining())
	}
	tm.Reset()
	if tm.Running() || tm.Remaining() != 25*time.Minute {
		t.Fatalf("reset must rewind, got %v", tm.Remaining())
	}
}

func TestSwitchMode(t *testing.T) {
	tm := New(models.DefaultTimerSettings())
	tm.Start()
	tm.SwitchMode(models.ModeLongBreak)

	if tm.Running() || tm.Mode() != models.ModeLongBreak || tm.Total() != 15*time.Minute {
		t.Fatalf("unexpected state after switch: mode %s total %v running %v", tm.Mode(), tm.Total(), tm.Running())
	}
}

func TestComplete_ModeCycle(t *testing.T) {
	tm := New(models.DefaultTimerSettings())

	want := []struct {
		mode models.Mode
		next models.Mode
	}{
		{models.ModeFocus, models.ModeBreak},
		{models.ModeBreak, models.ModeFocus},
		{models.ModeFocus, models.ModeBreak},
		{models.ModeBreak, models.ModeFocus},
		{models.ModeFocus, models.ModeBreak},
		{models.ModeBreak, models.ModeFocus},
		{models.ModeFocus, models.ModeLongBreak},
		{models.ModeLongBreak, models.ModeFocus},
		{models.ModeFocus, models.ModeBreak},
	}

	for i, step := range want {
		c := tm.Complete()
		if c.Mode != step.mode || c.Next != step.next {
			t.Fatalf("step %d: expected %s -> %s, got %s -> %s", i, step.mode, step.next, c.Mode, c.Next)
		}
		if c.Ordinal != i+1 {
			t.Fatalf("step %d: expected ordinal %d, got %d", i, i+1, c.Ordinal)
		}
		if tm.Mode() != step.next || tm.Running() {
			t.Fatalf("step %d: timer should wait in %s", i, step.next)
		}
	}
}

func TestComplete_ReportsMinutes(t *testing.T) {
	tm := New(models.TimerSettings{FocusTime: 40, BreakTime: 8})

	// minutes come from the interval length, not from what has elapsed
	tm.Start()
	tm.Tick(15 * time.Minute)
	if c := tm.Complete(); c.Minutes != 40 {
		t.Fatalf("expected the full 40 focus minutes, got %d", c.Minutes)
	}
	if c := tm.Complete(); c.Minutes != 8 {
		t.Fatalf("expected 8 break minutes, got %d", c.Minutes)
	}
}

package timer

import (
	"time"

	"github.com/balkashynov/pomo/internal/models"
)

// Timer is the countdown state machine behind the interactive screen.
// It holds no goroutines; callers advance it with Tick.
type Timer struct {
	settings models.TimerSettings

	mode      models.Mode
	total     time.Duration
	remaining time.Duration
	running   bool

	completed      int // intervals finished in this run
	focusCompleted int // focus intervals finished, drives the long break cadence
}

// Completion describes an interval that just ran out
type Completion struct {
	Mode    models.Mode
	Minutes int
	Ordinal int
	Next    models.Mode
}

// New returns a stopped timer in focus mode
func New(settings models.TimerSettings) *Timer {
	t := &Timer{settings: normalize(settings)}
	t.SwitchMode(models.ModeFocus)
	return t
}

func normalize(ts models.TimerSettings) models.TimerSettings {
	def := models.DefaultTimerSettings()
	if ts.FocusTime <= 0 {
		ts.FocusTime = def.FocusTime
	}
	if ts.BreakTime <= 0 {
		ts.BreakTime = def.BreakTime
	}
	if ts.LongBreakTime <= 0 {
		ts.LongBreakTime = def.LongBreakTime
	}
	if ts.SessionsBeforeLongBreak <= 0 {
		ts.SessionsBeforeLongBreak = def.SessionsBeforeLongBreak
	}
	return ts
}

func (t *Timer) Mode() models.Mode { return t.mode }
func (t *Timer) Total() time.Duration { return t.total }
func (t *Timer) Remaining() time.Duration { return t.remaining }
func (t *Timer) Running() bool { return t.running }
func (t *Timer) Completed() int { return t.completed }
func (t *Timer) Settings() models.TimerSettings { return t.settings }

// Progress is the elapsed fraction of the current interval, 0 to 1
func (t *Timer) Progress() float64 {
	if t.total <= 0 {
		return 0
	}
	return 1 - float64(t.remaining)/float64(t.total)
}

// Start resumes the countdown. It reports false when already running.
func (t *Timer) Start() bool {
	if t.running || t.remaining <= 0 {
		return false
	}
	t.running = true
	return true
}

// Pause stops the countdown, keeping the remaining time
func (t *Timer) Pause() {
	t.running = false
}

// Reset pauses and rewinds the current interval
func (t *Timer) Reset() {
	t.running = false
	t.remaining = t.total
}

// SwitchMode pauses and loads a fresh interval of mode
func (t *Timer) SwitchMode(mode models.Mode) {
	if !mode.Valid() {
		mode = models.ModeFocus
	}
	t.running = false
	t.mode = mode
	t.total = time.Duration(t.settings.Minutes(mode)) * time.Minute
	t.remaining = t.total
}

// Tick advances a running timer by d and reports whether the interval ran out
func (t *Timer) Tick(d time.Duration) bool {
	if !t.running {
		return false
	}
	t.remaining -= d
	if t.remaining > 0 {
		return false
	}
	t.remaining = 0
	t.running = false
	return true
}

// Complete closes the current interval and switches to the one that follows:
// a long break after every SessionsBeforeLongBreak-th focus interval, a short
// break after other focus intervals, and focus after any break.
func (t *Timer) Complete() Completion {
	c := Completion{
		Mode:    t.mode,
		Minutes: int(t.total / time.Minute),
	}
	t.completed++
	c.Ordinal = t.completed

	if t.mode == models.ModeFocus {
		t.focusCompleted++
		if t.focusCompleted%t.settings.SessionsBeforeLongBreak == 0 {
			c.Next = models.ModeLongBreak
		} else {
			c.Next = models.ModeBreak
		}
	} else {
		c.Next = models.ModeFocus
	}

	t.SwitchMode(c.Next)
	return c
}

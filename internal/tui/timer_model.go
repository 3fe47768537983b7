package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/balkashynov/pomo/internal/models"
	"github.com/balkashynov/pomo/internal/recorder"
	"github.com/balkashynov/pomo/internal/timer"
)

// Recorder stores finished intervals
type Recorder interface {
	Record(ctx context.Context, e recorder.Entry) (models.Session, error)
}

// TimerModel is the countdown screen
type TimerModel struct {
	width  int
	height int

	timer    *timer.Timer
	recorder Recorder
	task     string
	sound    bool
	bell     io.Writer

	progress  progress.Model
	taskInput textinput.Model
	editing   bool

	// gen identifies the live tick chain; ticks of older chains are dropped
	gen int

	recorded  []models.Session
	fallbacks int
	status    string
	err       error
}

// tickMsg is sent every second while the timer runs
type tickMsg struct{ gen int }

// recordedMsg carries the result of storing a finished interval
type recordedMsg struct {
	completion timer.Completion
	session    models.Session
	err        error
}

// NewTimerModel creates the countdown screen for t. Finished intervals are
// handed to rec under the given task name.
func NewTimerModel(t *timer.Timer, rec Recorder, task string) TimerModel {
	input := textinput.New()
	input.Placeholder = "What are you working on?"
	input.CharLimit = 120
	input.Width = 40

	bar := progress.New(
		progress.WithGradient(ColorAccentMain, ColorAccentBright),
		progress.WithoutPercentage(),
	)
	bar.Width = 40

	return TimerModel{
		timer:     t,
		recorder:  rec,
		task:      strings.TrimSpace(task),
		sound:     t.Settings().SoundEnabled,
		bell:      os.Stdout,
		progress:  bar,
		taskInput: input,
	}
}

// Init initializes the timer model
func (m TimerModel) Init() tea.Cmd {
	return nil
}

func (m TimerModel) tick() tea.Cmd {
	gen := m.gen
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return tickMsg{gen: gen}
	})
}

func (m TimerModel) record(c timer.Completion) tea.Cmd {
	rec, task := m.recorder, m.task
	return func() tea.Msg {
		if rec == nil {
			return recordedMsg{completion: c, err: errors.New("no recorder configured")}
		}
		session, err := rec.Record(context.Background(), recorder.Entry{
			TaskName:        task,
			Mode:            c.Mode,
			DurationMinutes: c.Minutes,
			SessionOrdinal:  c.Ordinal,
		})
		return recordedMsg{completion: c, session: session, err: err}
	}
}

// Update handles messages
func (m TimerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = max(10, min(msg.Width-8, 60))
		return m, nil

	case tickMsg:
		if msg.gen != m.gen || !m.timer.Running() {
			return m, nil
		}
		if !m.timer.Tick(time.Second) {
			return m, m.tick()
		}
		return m.complete()

	case recordedMsg:
		switch {
		case msg.err == nil:
			m.recorded = append(m.recorded, msg.session)
			m.status = fmt.Sprintf("Recorded %s #%d (%dm)", msg.completion.Mode.Label(), msg.completion.Ordinal, msg.completion.Minutes)
		case errors.Is(msg.err, recorder.ErrRecordedToFallback):
			m.recorded = append(m.recorded, msg.session)
			m.fallbacks++
			m.status = fmt.Sprintf("Saved %s #%d to fallback storage", msg.completion.Mode.Label(), msg.completion.Ordinal)
		default:
			m.err = msg.err
			m.status = ""
		}
		return m, nil

	case tea.KeyMsg:
		if m.editing {
			return m.updateTaskInput(msg)
		}
		return m.handleKey(msg)
	}

	return m, nil
}

func (m TimerModel) complete() (tea.Model, tea.Cmd) {
	c := m.timer.Complete()
	m.gen++
	m.status = fmt.Sprintf("%s finished, next up: %s", c.Mode.Label(), c.Next.Label())
	m.err = nil

	cmds := []tea.Cmd{m.record(c)}
	if m.sound && m.bell != nil {
		bell := m.bell
		cmds = append(cmds, func() tea.Msg {
			fmt.Fprint(bell, "\a")
			return nil
		})
	}
	return m, tea.Batch(cmds...)
}

func (m TimerModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case " ":
		if m.timer.Running() {
			m.timer.Pause()
			m.gen++
			return m, nil
		}
		if m.timer.Start() {
			m.gen++
			return m, m.tick()
		}
		return m, nil
	case "r":
		m.timer.Reset()
		m.gen++
	case "f":
		m.switchMode(models.ModeFocus)
	case "b":
		m.switchMode(models.ModeBreak)
	case "l":
		m.switchMode(models.ModeLongBreak)
	case "t":
		m.editing = true
		m.taskInput.SetValue(m.task)
		return m, m.taskInput.Focus()
	case "ctrl+c", "esc", "q":
		m.gen++
		return m, tea.Quit
	}
	return m, nil
}

func (m *TimerModel) switchMode(mode models.Mode) {
	m.timer.SwitchMode(mode)
	m.gen++
	m.status = ""
}

func (m TimerModel) updateTaskInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.task = strings.TrimSpace(m.taskInput.Value())
		m.editing = false
		m.taskInput.Blur()
		return m, nil
	case "esc":
		m.editing = false
		m.taskInput.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.taskInput, cmd = m.taskInput.Update(msg)
	return m, cmd
}

// View renders the timer TUI
func (m TimerModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	helpBar := m.renderHelpBar()
	contentHeight := m.height - 2

	panel := m.renderTimerPanel(m.width, contentHeight)
	return lipgloss.JoinVertical(lipgloss.Left, panel, helpBar)
}

// renderTimerPanel renders the clock with everything around it
func (m TimerModel) renderTimerPanel(width, height int) string {
	var components []string
	mode := m.timer.Mode()
	accent := modeColor(mode)

	center := lipgloss.NewStyle().Align(lipgloss.Center).Width(width)

	headerStyle := center.
		Foreground(lipgloss.Color(accent)).
		Bold(true)
	components = append(components, headerStyle.Render(strings.ToUpper(mode.Label())))

	if m.editing {
		components = append(components, center.Render(m.taskInput.View()))
	} else {
		taskText := m.task
		taskColor := ColorPrimaryText
		if taskText == "" {
			taskText = models.NoTask
			taskColor = ColorDisabledText
		}
		if len(taskText) > width-4 && width > 7 {
			taskText = taskText[:width-7] + "..."
		}
		components = append(components, center.Foreground(lipgloss.Color(taskColor)).Bold(true).Render(taskText))
	}

	clockColor := accent
	if !m.timer.Running() {
		clockColor = ColorPrimaryText
	}
	clockLines := strings.Split(renderBigClock(m.timer.Remaining(), clockColor), "\n")
	for i, line := range clockLines {
		clockLines[i] = center.Render(line)
	}
	components = append(components, strings.Join(clockLines, "\n"))

	components = append(components, center.Render(m.progress.ViewAs(m.timer.Progress())))

	state := "paused"
	if m.timer.Running() {
		state = "running"
	}
	info := fmt.Sprintf("%s · %d of %d before long break · %d recorded",
		state, m.focusInCycle(), m.timer.Settings().SessionsBeforeLongBreak, len(m.recorded))
	components = append(components, center.Foreground(lipgloss.Color(ColorSecondaryText)).Italic(true).Render(info))

	if m.err != nil {
		components = append(components, center.Foreground(lipgloss.Color(ColorError)).Render("Error: "+m.err.Error()))
	} else if m.status != "" {
		color := ColorSuccess
		if m.fallbacks > 0 {
			color = ColorWarning
		}
		components = append(components, center.Foreground(lipgloss.Color(color)).Render(m.status))
	}

	content := strings.Join(components, "\n\n")

	panelStyle := lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center)

	return panelStyle.Render(content)
}

// focusInCycle counts the focus sessions recorded since the last long break
func (m TimerModel) focusInCycle() int {
	n := 0
	for i := len(m.recorded) - 1; i >= 0; i-- {
		if m.recorded[i].Mode == models.ModeLongBreak {
			break
		}
		if m.recorded[i].Mode == models.ModeFocus {
			n++
		}
	}
	return n
}

// renderHelpBar renders the help bar at the bottom
func (m TimerModel) renderHelpBar() string {
	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorHelpText)).
		Italic(true).
		Align(lipgloss.Center).
		Width(m.width)

	helpText := "space start/pause · r reset · f/b/l focus/break/long · t task · q quit"
	if m.editing {
		helpText = "enter save task · esc cancel"
	}
	return helpStyle.Render(helpText)
}

// RunTimerTUI runs the countdown until the user quits and prints what was recorded
func RunTimerTUI(t *timer.Timer, rec Recorder, task string) error {
	finalModel, err := run(NewTimerModel(t, rec, task))
	if err != nil {
		return err
	}

	m, ok := finalModel.(TimerModel)
	if !ok {
		return nil
	}

	if len(m.recorded) == 0 {
		fmt.Println("No sessions completed.")
		return nil
	}

	var focus time.Duration
	for _, s := range m.recorded {
		if s.Mode == models.ModeFocus {
			focus += s.DurationMinutes()
		}
	}
	fmt.Printf("✅ Recorded %d session(s), %s of focus\n", len(m.recorded), formatDuration(focus))
	if m.fallbacks > 0 {
		fmt.Printf("⚠️  %d session(s) were saved to fallback storage. Run 'pomo migrate-legacy' once the database is reachable.\n", m.fallbacks)
	}
	return nil
}

// formatDuration formats a duration in a human-readable way
func formatDuration(d time.Duration) string {
	if d.Hours() >= 1 {
		return fmt.Sprintf("%.1fh", d.Hours())
	} else if d.Minutes() >= 1 {
		return fmt.Sprintf("%.0fm", d.Minutes())
	}
	return fmt.Sprintf("%.0fs", d.Seconds())
}

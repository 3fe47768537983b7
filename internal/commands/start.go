package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/go-kit/log"
	"github.com/spf13/cobra"

	"github.com/balkashynov/pomo/internal/models"
	"github.com/balkashynov/pomo/internal/recorder"
	"github.com/balkashynov/pomo/internal/timer"
	"github.com/balkashynov/pomo/internal/tui"
)

var startCmd = &cobra.Command{
	Use:   "start [task]",
	Short: "Start the Pomodoro timer",
	Long: `Open the interactive timer.

Each completed interval is stored as a session. Focus sessions are linked
to the task given as an argument, which can also be changed from the timer.

Examples:
  pomo start
  pomo start "Write quarterly report"
  pomo start --mode break`,
	RunE: withEnv(func(cmd *cobra.Command, args []string, e *Env) error {
		mode, _ := cmd.Flags().GetString("mode")

		t := timer.New(e.TimerSettings(cmd.Context()))
		if mode != "" {
			m := models.Mode(mode)
			if !m.Valid() {
				return fmt.Errorf("invalid mode %q (use focus, break or long-break)", mode)
			}
			t.SwitchMode(m)
		}
		// the alt screen owns the terminal; recording problems show in the status line
		e.Logger = log.NewNopLogger()
		return tui.RunTimerTUI(t, e.Recorder(), strings.Join(args, " "))
	}),
}

var recordCmd = &cobra.Command{
	Use:   "record [task]",
	Short: "Record a completed session without running the timer",
	Long: `Record a session that was completed elsewhere.

The duration defaults to the configured length of the chosen mode.

Examples:
  pomo record "Code review"
  pomo record "Code review" --minutes 50
  pomo record --mode break`,
	RunE: withEnv(func(cmd *cobra.Command, args []string, e *Env) error {
		mode, _ := cmd.Flags().GetString("mode")
		minutes, _ := cmd.Flags().GetInt("minutes")
		ordinal, _ := cmd.Flags().GetInt("number")

		entry := recorder.Entry{
			TaskName:        strings.Join(args, " "),
			Mode:            models.Mode(mode),
			DurationMinutes: minutes,
			SessionOrdinal:  ordinal,
		}
		return runRecord(cmd.Context(), e, cmd.OutOrStdout(), entry)
	}),
}

// runRecord fills the duration from settings when it is missing and stores
// the session
func runRecord(ctx context.Context, e *Env, out io.Writer, entry recorder.Entry) error {
	if !entry.Mode.Valid() {
		return fmt.Errorf("invalid mode %q (use focus, break or long-break)", entry.Mode)
	}
	if entry.DurationMinutes <= 0 {
		entry.DurationMinutes = e.TimerSettings(ctx).Minutes(entry.Mode)
	}
	if entry.SessionOrdinal <= 0 {
		entry.SessionOrdinal = 1
	}

	session, err := e.Recorder().Record(ctx, entry)
	if errors.Is(err, recorder.ErrRecordedToFallback) {
		fmt.Fprintf(out, "⚠️  Database unavailable, session saved to fallback storage\n")
		fmt.Fprintf(out, "   Run 'pomo migrate-legacy' once the database is reachable.\n")
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "✅ Recorded %s session #%d: %s (%d min)\n",
		strings.ToLower(session.Mode.Label()), session.ID, session.Task, session.Duration)
	return nil
}

func init() {
	startCmd.Flags().StringP("mode", "m", "", "Initial mode (focus/break/long-break)")

	recordCmd.Flags().StringP("mode", "m", string(models.ModeFocus), "Session mode (focus/break/long-break)")
	recordCmd.Flags().IntP("minutes", "d", 0, "Duration in minutes (default: configured length)")
	recordCmd.Flags().IntP("number", "n", 1, "Position of the session within the cycle")
}

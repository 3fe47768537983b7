package commands

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/balkashynov/pomo/internal/models"
	"github.com/balkashynov/pomo/internal/parser"
)

var historyCmd = &cobra.Command{
	Use:     "history",
	Aliases: []string{"ls", "log"},
	Short:   "List recorded sessions",
	Long: `List recorded sessions, newest first.

Filters:
  --month 2024-01            sessions of one calendar month
  --task 3                   sessions linked to task #3
  --from 2024-01-01 --to today
  --from "2 weeks ago"

Dates accept yyyy-mm-dd, dd/mm/yyyy, today, yesterday and "N hours/days/weeks ago".`,
	RunE: withEnv(func(cmd *cobra.Command, args []string, e *Env) error {
		var opts historyOptions
		opts.From, _ = cmd.Flags().GetString("from")
		opts.To, _ = cmd.Flags().GetString("to")
		opts.Month, _ = cmd.Flags().GetString("month")
		opts.TaskID, _ = cmd.Flags().GetUint("task")
		opts.Limit, _ = cmd.Flags().GetInt("limit")
		opts.JSON, _ = cmd.Flags().GetBool("json")
		return runHistory(cmd.Context(), e, cmd.OutOrStdout(), opts)
	}),
}

var rmCmd = &cobra.Command{
	Use:     "rm <session-id>",
	Aliases: []string{"delete"},
	Short:   "Delete a recorded session",
	Args:    cobra.ExactArgs(1),
	RunE: withEnv(func(cmd *cobra.Command, args []string, e *Env) error {
		id, err := strconv.ParseUint(args[0], 10, 64)
		if err != nil || id == 0 {
			return fmt.Errorf("invalid session ID: %s", args[0])
		}
		return runRemove(cmd.Context(), e, cmd.OutOrStdout(), uint(id))
	}),
}

type historyOptions struct {
	From   string
	To     string
	Month  string
	TaskID uint
	Limit  int
	JSON   bool
}

func runHistory(ctx context.Context, e *Env, out io.Writer, opts historyOptions) error {
	store, err := e.DB()
	if err != nil {
		return err
	}
	if opts.Month != "" && (opts.From != "" || opts.To != "") {
		return fmt.Errorf("--month cannot be combined with --from/--to")
	}

	var sessions []models.Session
	switch {
	case opts.Month != "":
		year, month, err := parser.ParseMonth(opts.Month)
		if err != nil {
			return err
		}
		sessions, err = store.ListSessionsByMonth(ctx, year, month)
		if err != nil {
			return err
		}
	case opts.From != "" || opts.To != "":
		now := e.Now()
		from, to := now.AddDate(-100, 0, 0), now
		if opts.From != "" {
			if from, err = parser.ParseDate(opts.From, now, e.Loc); err != nil {
				return err
			}
		}
		if opts.To != "" {
			if to, err = parser.ParseDate(opts.To, now, e.Loc); err != nil {
				return err
			}
			to = parser.EndOfDay(to)
		}
		if to.Before(from) {
			return fmt.Errorf("--to is before --from")
		}
		sessions, err = store.ListSessionsByDateRange(ctx, from, to)
		if err != nil {
			return err
		}
	case opts.TaskID != 0:
		sessions, err = store.ListSessionsByTask(ctx, opts.TaskID)
		if err != nil {
			return err
		}
	default:
		sessions, err = store.ListSessions(ctx)
		if err != nil {
			return err
		}
	}

	// month and range queries narrow by task afterwards
	if opts.TaskID != 0 {
		sessions = filterByTask(sessions, opts.TaskID)
	}
	if opts.Limit > 0 && len(sessions) > opts.Limit {
		sessions = sessions[:opts.Limit]
	}

	if opts.JSON {
		return renderSessionsJSON(out, sessions)
	}
	renderSessionsTable(out, e, sessions)
	return nil
}

func filterByTask(sessions []models.Session, taskID uint) []models.Session {
	filtered := sessions[:0:0]
	for _, s := range sessions {
		if s.TaskID != nil && *s.TaskID == taskID {
			filtered = append(filtered, s)
		}
	}
	return filtered
}

// renderSessionsJSON outputs sessions as JSON, an empty list as []
func renderSessionsJSON(out io.Writer, sessions []models.Session) error {
	if sessions == nil {
		sessions = []models.Session{}
	}
	return writeJSON(out, sessions)
}

// renderSessionsTable outputs sessions as a formatted table
func renderSessionsTable(out io.Writer, e *Env, sessions []models.Session) {
	if len(sessions) == 0 {
		fmt.Fprintln(out, "No sessions found. Use 'pomo start' to run your first Pomodoro.")
		return
	}

	fmt.Fprintf(out, "%-6s %-10s %-5s %-10s %4s %3s  %s\n", "ID", "DATE", "TIME", "MODE", "MIN", "#", "TASK")
	fmt.Fprintln(out, strings.Repeat("-", 80))

	for _, s := range sessions {
		local := s.CompletedAt.In(e.Loc)
		fmt.Fprintf(out, "%-6d %-10s %-5s %-10s %4d %3d  %s\n",
			s.ID,
			local.Format("2006-01-02"),
			local.Format("15:04"),
			s.Mode,
			s.Duration,
			s.SessionNumber,
			truncate(s.Task, 34))
	}
	fmt.Fprintf(out, "\n%d session(s)\n", len(sessions))
}

func runRemove(ctx context.Context, e *Env, out io.Writer, id uint) error {
	store, err := e.DB()
	if err != nil {
		return err
	}
	if err := store.DeleteSession(ctx, id); err != nil {
		return fmt.Errorf("failed to delete session #%d: %w", id, err)
	}
	fmt.Fprintf(out, "🗑️  Deleted session #%d\n", id)
	return nil
}

// truncate shortens s to at most n runes
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

func init() {
	historyCmd.Flags().StringP("from", "f", "", "Show sessions completed on or after this date")
	historyCmd.Flags().StringP("to", "t", "", "Show sessions completed on or before this date")
	historyCmd.Flags().StringP("month", "m", "", "Show sessions of one month (yyyy-mm)")
	historyCmd.Flags().Uint("task", 0, "Show sessions linked to this task ID")
	historyCmd.Flags().IntP("limit", "l", 0, "Limit number of results")
	historyCmd.Flags().Bool("json", false, "Output as JSON")
}

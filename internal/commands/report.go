package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/balkashynov/pomo/internal/logging"
	"github.com/balkashynov/pomo/internal/parser"
	"github.com/balkashynov/pomo/internal/report"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Summarize recent sessions and monthly totals",
	Long: `Print a report of the recent period, the tasks focus time went to and
a month-by-month breakdown of all history.

Examples:
  pomo report
  pomo report --days 2w
  pomo report --save                 writes pomodoro-report-YYYY-MM-DD.txt
  pomo report --out report.txt
  pomo report --json`,
	RunE: withEnv(func(cmd *cobra.Command, args []string, e *Env) error {
		var opts reportOptions
		rawDays, _ := cmd.Flags().GetString("days")
		days, err := parser.ParseDays(rawDays)
		if err != nil {
			return err
		}
		opts.Window = time.Duration(days) * 24 * time.Hour
		opts.Path, _ = cmd.Flags().GetString("out")
		if save, _ := cmd.Flags().GetBool("save"); save && opts.Path == "" {
			opts.Path = report.FileName(e.Now().In(e.Loc))
		}
		opts.JSON, _ = cmd.Flags().GetBool("json")
		return runReport(cmd.Context(), e, cmd.OutOrStdout(), opts)
	}),
}

type reportOptions struct {
	Window time.Duration
	Path   string
	JSON   bool
}

type reportDocument struct {
	Summary report.Summary      `json:"summary"`
	Months  []report.MonthStats `json:"months"`
}

func runReport(ctx context.Context, e *Env, out io.Writer, opts reportOptions) error {
	store, err := e.DB()
	if err != nil {
		return err
	}
	sessions, err := store.ListSessions(ctx)
	if err != nil {
		return err
	}

	aggregator := report.New(store,
		report.WithLogger(logging.Component(e.Logger, "report")),
		report.WithClock(e.Now),
	)
	summary, err := aggregator.Summary(ctx, sessions, opts.Window)
	if err != nil {
		return err
	}
	months := report.Monthly(sessions, e.Loc)

	w := out
	if opts.Path != "" {
		f, err := os.Create(opts.Path)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}

	if opts.JSON {
		if months == nil {
			months = []report.MonthStats{}
		}
		err = writeJSON(w, reportDocument{Summary: summary, Months: months})
	} else {
		err = report.WriteText(w, summary, months, e.Now().In(e.Loc))
	}
	if err != nil {
		return err
	}

	if opts.Path != "" {
		fmt.Fprintf(out, "📄 Report written to %s\n", opts.Path)
	}
	return nil
}

func init() {
	reportCmd.Flags().StringP("days", "d", "30", "Length of the summary period (e.g. 30, 2w, 3m)")
	reportCmd.Flags().StringP("out", "o", "", "Write the report to this file")
	reportCmd.Flags().Bool("save", false, "Write the report to a dated file in the current directory")
	reportCmd.Flags().Bool("json", false, "Output as JSON")
}

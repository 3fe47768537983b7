package report

import (
	"bufio"
	"fmt"
	"io"
	"time"
)

// WriteText writes the plain-text report
func WriteText(w io.Writer, summary Summary, months []MonthStats, generatedAt time.Time) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintln(bw, "POMODORO TIMER REPORT")
	fmt.Fprintln(bw, "=====================")
	fmt.Fprintln(bw)
	fmt.Fprintf(bw, "Generated: %s\n", generatedAt.Format("2006-01-02"))
	fmt.Fprintf(bw, "Period: Last %d days\n", windowDays(summary))
	fmt.Fprintln(bw)

	fmt.Fprintln(bw, "SUMMARY STATISTICS:")
	fmt.Fprintf(bw, "- Total Sessions: %d\n", summary.TotalSessions)
	fmt.Fprintf(bw, "- Focus Hours: %.1fh\n", summary.FocusHours)
	fmt.Fprintf(bw, "- Break Hours: %.1fh\n", summary.BreakHours)
	fmt.Fprintf(bw, "- Average Daily Focus: %.1fh\n", summary.AverageDailyFocusHours)
	fmt.Fprintf(bw, "- Days Active: %d\n", summary.ActiveDays)
	fmt.Fprintln(bw)

	if len(summary.Tasks) > 0 {
		fmt.Fprintln(bw, "TOP TASKS:")
		for _, task := range summary.Tasks {
			fmt.Fprintf(bw, "- %s: %dm across %d sessions\n", task.Name, task.FocusMinutes, task.Sessions)
		}
		fmt.Fprintln(bw)
	}

	fmt.Fprintln(bw, "MONTHLY BREAKDOWN:")
	if len(months) == 0 {
		fmt.Fprintln(bw, "No data available for monthly report")
	}
	for _, m := range months {
		fmt.Fprintf(bw, "%s:\n", m.Label())
		fmt.Fprintf(bw, "  - Total Hours: %.1fh\n", m.TotalHours)
		fmt.Fprintf(bw, "  - Focus Hours: %.1fh\n", m.FocusHours)
		fmt.Fprintf(bw, "  - Sessions: %d\n", m.Sessions)
		fmt.Fprintf(bw, "  - Active Days: %d\n", m.ActiveDays)
		fmt.Fprintln(bw)
	}

	return bw.Flush()
}

// FileName is the default name for a report written on day
func FileName(day time.Time) string {
	return fmt.Sprintf("pomodoro-report-%s.txt", day.Format("2006-01-02"))
}

func windowDays(s Summary) int {
	days := int(s.To.Sub(s.From).Round(time.Hour).Hours() / 24)
	if days <= 0 {
		return int(DefaultWindow.Hours() / 24)
	}
	return days
}

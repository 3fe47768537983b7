package commands

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/balkashynov/pomo/internal/models"
)

var weekCmd = &cobra.Command{
	Use:   "week",
	Short: "Show a weekly timesheet of focus time",
	Long: `Show focus hours per task for each day of a calendar week (Monday to Sunday).

Example output:
  Task                  Mon   Tue   Wed   Thu   Fri    Total
  Write report          1.7   0.8     -     -     -      2.5
  Code review             -   0.4   1.3     -     -      1.7
  Total                 1.7   1.2   1.3   0.0   0.0      4.2`,
	RunE: withEnv(func(cmd *cobra.Command, args []string, e *Env) error {
		weeksAgo, _ := cmd.Flags().GetInt("weeks-ago")
		if weeksAgo < 0 {
			return fmt.Errorf("--weeks-ago cannot be negative")
		}
		return runWeek(cmd.Context(), e, cmd.OutOrStdout(), weeksAgo)
	}),
}

func runWeek(ctx context.Context, e *Env, out io.Writer, weeksAgo int) error {
	store, err := e.DB()
	if err != nil {
		return err
	}

	weekStart := getWeekStart(e.Now().In(e.Loc)).AddDate(0, 0, -7*weeksAgo)
	weekEnd := weekStart.AddDate(0, 0, 7).Add(-time.Millisecond)

	sessions, err := store.ListSessionsByDateRange(ctx, weekStart, weekEnd)
	if err != nil {
		return fmt.Errorf("failed to get sessions: %w", err)
	}

	taskDayHours := make(map[string]map[time.Weekday]float64)
	activeDays := make(map[time.Weekday]bool)
	for _, session := range sessions {
		if session.Mode != models.ModeFocus {
			continue
		}
		weekday := session.CompletedAt.In(e.Loc).Weekday()
		if taskDayHours[session.Task] == nil {
			taskDayHours[session.Task] = make(map[time.Weekday]float64)
		}
		taskDayHours[session.Task][weekday] += session.DurationMinutes().Hours()
		activeDays[weekday] = true
	}

	if len(taskDayHours) == 0 {
		fmt.Fprintln(out, "No focus time recorded this week.")
		return nil
	}

	displayTimesheet(out, taskDayHours, activeDays, weekStart)
	return nil
}

// getWeekStart returns the start of the calendar week (Monday) for the given time
func getWeekStart(t time.Time) time.Time {
	weekday := t.Weekday()
	daysFromMonday := int(weekday - time.Monday)
	if weekday == time.Sunday {
		daysFromMonday = 6
	}

	weekStart := t.AddDate(0, 0, -daysFromMonday)
	return time.Date(weekStart.Year(), weekStart.Month(), weekStart.Day(), 0, 0, 0, 0, weekStart.Location())
}

// displayTimesheet outputs the formatted timesheet table. Tasks are ordered
// by total hours, weekdays always show and weekend days only when used.
func displayTimesheet(out io.Writer, taskDayHours map[string]map[time.Weekday]float64, activeDays map[time.Weekday]bool, weekStart time.Time) {
	taskTotals := make(map[string]float64, len(taskDayHours))
	var taskKeys []string
	for taskKey, dayHours := range taskDayHours {
		taskKeys = append(taskKeys, taskKey)
		for _, hours := range dayHours {
			taskTotals[taskKey] += hours
		}
	}
	sort.Slice(taskKeys, func(i, j int) bool {
		if taskTotals[taskKeys[i]] != taskTotals[taskKeys[j]] {
			return taskTotals[taskKeys[i]] > taskTotals[taskKeys[j]]
		}
		return taskKeys[i] < taskKeys[j]
	})

	dayNames := []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}
	weekdays := []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday, time.Sunday}
	var daysToShow []time.Weekday
	var headers []string
	for i, weekday := range weekdays {
		if i < 5 || activeDays[weekday] {
			daysToShow = append(daysToShow, weekday)
			headers = append(headers, dayNames[i])
		}
	}

	nameWidth := 20
	for _, taskKey := range taskKeys {
		if n := len([]rune(taskKey)); n > nameWidth {
			nameWidth = n
		}
	}
	if nameWidth > 40 {
		nameWidth = 40
	}

	const dayWidth = 5
	const totalWidth = 7

	separator := strings.Repeat("-", nameWidth) +
		strings.Repeat(" "+strings.Repeat("-", dayWidth), len(daysToShow)) +
		"  " + strings.Repeat("-", totalWidth)

	fmt.Fprintf(out, "%-*s", nameWidth, "Task")
	for _, name := range headers {
		fmt.Fprintf(out, " %*s", dayWidth, name)
	}
	fmt.Fprintf(out, "  %*s\n", totalWidth, "Total")
	fmt.Fprintln(out, separator)

	dayTotals := make(map[time.Weekday]float64)
	grandTotal := 0.0
	for _, taskKey := range taskKeys {
		fmt.Fprintf(out, "%-*s", nameWidth, truncate(taskKey, nameWidth))
		for _, weekday := range daysToShow {
			hours := taskDayHours[taskKey][weekday]
			if hours > 0 {
				fmt.Fprintf(out, " %*.1f", dayWidth, hours)
				dayTotals[weekday] += hours
			} else {
				fmt.Fprintf(out, " %*s", dayWidth, "-")
			}
		}
		fmt.Fprintf(out, "  %*.1f\n", totalWidth, taskTotals[taskKey])
		grandTotal += taskTotals[taskKey]
	}

	fmt.Fprintln(out, separator)
	fmt.Fprintf(out, "%-*s", nameWidth, "Total")
	for _, weekday := range daysToShow {
		fmt.Fprintf(out, " %*.1f", dayWidth, dayTotals[weekday])
	}
	fmt.Fprintf(out, "  %*.1f\n", totalWidth, grandTotal)

	fmt.Fprintf(out, "\nWeek of %s to %s\n",
		weekStart.Format("Jan 2"),
		weekStart.AddDate(0, 0, 6).Format("Jan 2, 2006"))
}

func init() {
	weekCmd.Flags().IntP("weeks-ago", "w", 0, "Show an earlier week (1 = last week)")
}

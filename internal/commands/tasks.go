package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/balkashynov/pomo/internal/models"
)

var tasksCmd = &cobra.Command{
	Use:   "tasks",
	Short: "List tasks, most recently used first",
	Long: `List the tasks sessions have been recorded against.

Tasks are created automatically the first time a focus session names them.
Use --stats for totals across all tasks.`,
	RunE: withEnv(func(cmd *cobra.Command, args []string, e *Env) error {
		stats, _ := cmd.Flags().GetBool("stats")
		jsonOutput, _ := cmd.Flags().GetBool("json")
		if stats {
			return runTaskStats(cmd.Context(), e, cmd.OutOrStdout(), jsonOutput)
		}
		return runTasks(cmd.Context(), e, cmd.OutOrStdout(), jsonOutput)
	}),
}

func runTasks(ctx context.Context, e *Env, out io.Writer, jsonOutput bool) error {
	store, err := e.DB()
	if err != nil {
		return err
	}
	tasks, err := store.ListTasks(ctx)
	if err != nil {
		return err
	}

	if jsonOutput {
		if tasks == nil {
			tasks = []models.Task{}
		}
		return writeJSON(out, tasks)
	}
	renderTasksTable(out, e, tasks)
	return nil
}

// renderTasksTable outputs tasks as a formatted table
func renderTasksTable(out io.Writer, e *Env, tasks []models.Task) {
	if len(tasks) == 0 {
		fmt.Fprintln(out, "No tasks yet. Use 'pomo start \"task name\"' to record focus time against one.")
		return
	}

	fmt.Fprintf(out, "%-4s %-40s %8s  %s\n", "ID", "NAME", "SESSIONS", "LAST USED")
	fmt.Fprintln(out, strings.Repeat("-", 80))
	for _, task := range tasks {
		fmt.Fprintf(out, "%-4d %-40s %8d  %s\n",
			task.ID,
			truncate(task.Name, 38),
			task.TotalSessions,
			humanize.RelTime(task.LastUsed.Time, e.Now(), "ago", "from now"))
	}
}

func runTaskStats(ctx context.Context, e *Env, out io.Writer, jsonOutput bool) error {
	store, err := e.DB()
	if err != nil {
		return err
	}
	stats, err := store.TaskStats(ctx)
	if err != nil {
		return err
	}
	if jsonOutput {
		return writeJSON(out, stats)
	}

	fmt.Fprintf(out, "Tasks:                     %d\n", stats.TotalTasks)
	fmt.Fprintf(out, "Linked sessions:           %d\n", stats.TotalSessions)
	fmt.Fprintf(out, "Average sessions per task: %.1f\n", stats.AverageSessionsPerTask)
	if stats.MostUsedTask != nil {
		fmt.Fprintf(out, "Most used:                 %s (%d sessions)\n",
			stats.MostUsedTask.Name, stats.MostUsedTask.TotalSessions)
	}
	if len(stats.RecentTasks) > 0 {
		fmt.Fprintln(out, "\nRecent:")
		for _, task := range stats.RecentTasks {
			fmt.Fprintf(out, "  #%-4d %s\n", task.ID, task.Name)
		}
	}
	return nil
}

func writeJSON(out io.Writer, v any) error {
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	fmt.Fprintln(out, string(jsonBytes))
	return nil
}

func init() {
	tasksCmd.Flags().Bool("stats", false, "Show statistics across all tasks")
	tasksCmd.Flags().Bool("json", false, "Output as JSON")
}

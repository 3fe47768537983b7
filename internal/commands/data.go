package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/balkashynov/pomo/internal/db"
	"github.com/balkashynov/pomo/internal/parser"
)

var exportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Export sessions, tasks and settings as JSON",
	Long: `Write a JSON backup of everything pomo stores.

Without a file (or with "-") the document is written to standard output.

Examples:
  pomo export backup.json
  pomo export | gzip > backup.json.gz`,
	Args: cobra.MaximumNArgs(1),
	RunE: withEnv(func(cmd *cobra.Command, args []string, e *Env) error {
		path := "-"
		if len(args) == 1 {
			path = args[0]
		}
		return runExport(cmd.Context(), e, cmd.OutOrStdout(), path)
	}),
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Replace all data with a JSON backup",
	Long: `Restore a backup written by 'pomo export'.

Importing replaces every session, task and setting. Pass --yes to confirm.`,
	Args: cobra.ExactArgs(1),
	RunE: withEnv(func(cmd *cobra.Command, args []string, e *Env) error {
		yes, _ := cmd.Flags().GetBool("yes")
		return runImport(cmd.Context(), e, cmd.OutOrStdout(), args[0], yes)
	}),
}

var clearCmd = &cobra.Command{
	Use:       "clear <sessions|tasks|settings|all>",
	Short:     "Delete stored data",
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"sessions", "tasks", "settings", "all"},
	RunE: withEnv(func(cmd *cobra.Command, args []string, e *Env) error {
		yes, _ := cmd.Flags().GetBool("yes")
		return runClear(cmd.Context(), e, cmd.OutOrStdout(), args[0], yes)
	}),
}

var purgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Delete sessions older than the retention period",
	Long: `Delete sessions completed before the retention cutoff.

The period defaults to retention_days from the configuration (365).

Examples:
  pomo purge
  pomo purge --days 90
  pomo purge --days 6m`,
	RunE: withEnv(func(cmd *cobra.Command, args []string, e *Env) error {
		days := e.Config.RetentionDays
		if raw, _ := cmd.Flags().GetString("days"); raw != "" {
			n, err := parser.ParseDays(raw)
			if err != nil {
				return err
			}
			days = n
		}
		return runPurge(cmd.Context(), e, cmd.OutOrStdout(), days)
	}),
}

func runExport(ctx context.Context, e *Env, out io.Writer, path string) error {
	store, err := e.DB()
	if err != nil {
		return err
	}
	snap, err := store.ExportSnapshot(ctx)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to export data: %w", err)
	}

	if path == "-" {
		_, err = fmt.Fprintln(out, string(data))
		return err
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	fmt.Fprintf(out, "📦 Exported %d session(s) and %d task(s) to %s\n", len(snap.Sessions), len(snap.Tasks), path)
	return nil
}

func runImport(ctx context.Context, e *Env, out io.Writer, path string, confirmed bool) error {
	store, err := e.DB()
	if err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	snap, err := db.ParseSnapshot(f)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if !confirmed {
		fmt.Fprintf(out, "%s contains %d session(s) and %d task(s).\n", path, len(snap.Sessions), len(snap.Tasks))
		fmt.Fprintln(out, "Importing replaces all existing data. Re-run with --yes to confirm.")
		return nil
	}

	if err := store.ImportSnapshot(ctx, snap); err != nil {
		return fmt.Errorf("import failed: %w", err)
	}
	fmt.Fprintf(out, "✅ Imported %d session(s), %d task(s) and %d setting(s)\n",
		len(snap.Sessions), len(snap.Tasks), len(snap.Settings))
	return nil
}

func runClear(ctx context.Context, e *Env, out io.Writer, what string, confirmed bool) error {
	store, err := e.DB()
	if err != nil {
		return err
	}
	if !confirmed {
		fmt.Fprintf(out, "This permanently deletes %s. Re-run with --yes to confirm.\n", what)
		return nil
	}

	var steps []func(context.Context) error
	switch what {
	case "sessions":
		steps = append(steps, store.ClearSessions)
	case "tasks":
		steps = append(steps, store.ClearTasks)
	case "settings":
		steps = append(steps, store.ClearSettings)
	case "all":
		steps = append(steps, store.ClearSessions, store.ClearTasks, store.ClearSettings)
	default:
		return fmt.Errorf("unknown target %q (use sessions, tasks, settings or all)", what)
	}
	for _, step := range steps {
		if err := step(ctx); err != nil {
			return err
		}
	}
	fmt.Fprintf(out, "🗑️  Cleared %s\n", what)
	return nil
}

func runPurge(ctx context.Context, e *Env, out io.Writer, days int) error {
	store, err := e.DB()
	if err != nil {
		return err
	}
	deleted, err := store.PurgeOlderThan(ctx, days)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "🧹 Cleanup completed! Deleted %d session(s) older than %d days.\n", deleted, days)
	return nil
}

func init() {
	importCmd.Flags().BoolP("yes", "y", false, "Confirm replacing existing data")
	clearCmd.Flags().BoolP("yes", "y", false, "Confirm deletion")
	purgeCmd.Flags().StringP("days", "d", "", "Retention period (e.g. 90, 12w, 6m)")
}

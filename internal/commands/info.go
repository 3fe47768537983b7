package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/balkashynov/pomo/internal/legacy"
	"github.com/balkashynov/pomo/internal/models"
	"github.com/dustin/go-humanize"
	"github.com/go-kit/log/level"
	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show storage locations and usage",
	RunE: withEnv(func(cmd *cobra.Command, args []string, e *Env) error {
		return runInfo(cmd.Context(), e, cmd.OutOrStdout())
	}),
}

var migrateLegacyCmd = &cobra.Command{
	Use:   "migrate-legacy",
	Short: "Copy sessions and settings from the fallback store into the database",
	Long: `Copy everything kept in the key-value fallback store into the database.

Sessions land there when the database cannot be written. Each run copies the
queued sessions and removes them from the fallback store; sessions already in
the database are skipped. Settings are copied on the first run only; use
--force to copy them again.`,
	RunE: withEnv(func(cmd *cobra.Command, args []string, e *Env) error {
		force, _ := cmd.Flags().GetBool("force")
		return runMigrateLegacy(cmd.Context(), e, cmd.OutOrStdout(), force)
	}),
}

func runInfo(ctx context.Context, e *Env, out io.Writer) error {
	fmt.Fprintf(out, "Database:     %s\n", e.Config.DBPath)
	fmt.Fprintf(out, "Fallback:     %s\n", e.Config.LegacyDir)
	fmt.Fprintf(out, "Timezone:     %s\n", e.Loc)
	fmt.Fprintf(out, "Retention:    %d days\n", e.Config.RetentionDays)

	store, err := e.DB()
	if err != nil {
		fmt.Fprintf(out, "Status:       %v\n", err)
		return nil
	}

	schemaVersion, err := store.SchemaVersion(ctx)
	if err != nil {
		return err
	}
	size, err := store.SizeEstimate(ctx)
	if err != nil {
		return err
	}
	stats, err := store.TaskStats(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Schema:       v%d\n", schemaVersion)
	fmt.Fprintf(out, "Sessions:     %s (~%s)\n", humanize.Comma(int64(size.SessionCount)), humanize.Bytes(uint64(size.TotalSizeBytes)))
	fmt.Fprintf(out, "Tasks:        %s\n", humanize.Comma(int64(stats.TotalTasks)))

	sessions, err := store.ListSessions(ctx)
	if err != nil {
		return err
	}
	if len(sessions) > 0 {
		fmt.Fprintf(out, "Last session: %s\n", humanize.RelTime(sessions[0].CompletedAt.Time, e.Now(), "ago", "from now"))
	}

	if e.LegacyExists() {
		status := "not migrated, run 'pomo migrate-legacy'"
		if lg, err := e.Legacy(); err != nil {
			status = err.Error()
		} else if done, err := lg.Migrated(); err != nil {
			status = err.Error()
		} else if queued, err := lg.LoadSessions(); err != nil {
			status = err.Error()
		} else if len(queued) > 0 {
			status = fmt.Sprintf("%d session(s) waiting, run 'pomo migrate-legacy'", len(queued))
		} else if done {
			status = "migrated"
		}
		fmt.Fprintf(out, "Migration:    %s\n", status)
	}
	return nil
}

// legacySource feeds the fallback store to MigrateFromLegacy and remembers
// which sessions it handed over
type legacySource struct {
	store        *legacy.Store
	skipSettings bool
	loaded       []models.Session
}

func (l *legacySource) LoadSessions() ([]models.Session, error) {
	sessions, err := l.store.LoadSessions()
	l.loaded = sessions
	return sessions, err
}

func (l *legacySource) LoadSettings() (models.Settings, error) {
	if l.skipSettings {
		return models.Settings{}, nil
	}
	return l.store.LoadSettings()
}

// runMigrateLegacy copies queued fallback sessions into the database and
// removes them from the queue. Settings are copied on the first run only,
// or again with force.
func runMigrateLegacy(ctx context.Context, e *Env, out io.Writer, force bool) error {
	store, err := e.DB()
	if err != nil {
		return err
	}
	if !e.LegacyExists() {
		fmt.Fprintln(out, "No fallback data found.")
		return nil
	}
	lg, err := e.Legacy()
	if err != nil {
		return err
	}

	done, err := lg.Migrated()
	if err != nil {
		return err
	}
	src := &legacySource{store: lg, skipSettings: done && !force}

	result, err := store.MigrateFromLegacy(ctx, src)
	if err != nil {
		return err
	}

	ids := make([]uint, 0, len(src.loaded))
	for _, s := range src.loaded {
		ids = append(ids, s.ID)
	}
	if _, err := lg.DropSessions(ids); err != nil {
		return fmt.Errorf("sessions were copied but are still queued: %w", err)
	}
	if err := lg.MarkMigrated(e.Now()); err != nil {
		level.Warn(e.Logger).Log("msg", "failed to mark fallback store migrated", "err", err)
	}

	if len(src.loaded) == 0 && result.SettingsMigrated == 0 {
		fmt.Fprintln(out, "No fallback sessions waiting to be migrated.")
		return nil
	}
	fmt.Fprintf(out, "✅ Migration completed! %d session(s) and %d setting(s) migrated.\n",
		result.SessionsMigrated, result.SettingsMigrated)
	if result.SessionsSkipped > 0 {
		fmt.Fprintf(out, "   %d session(s) were already in the database and were skipped.\n", result.SessionsSkipped)
	}
	return nil
}

func init() {
	migrateLegacyCmd.Flags().Bool("force", false, "Copy fallback settings again even if already migrated")
}

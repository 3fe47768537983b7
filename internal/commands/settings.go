package commands

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"github.com/balkashynov/pomo/internal/models"
	"github.com/balkashynov/pomo/internal/parser"
)

var settingsCmd = &cobra.Command{
	Use:   "settings [key=value...]",
	Short: "Show or change preferences",
	Long: `Show the stored preferences, or change them with key=value pairs.

Timer keys:
  focusTime                 focus length in minutes (default 25)
  breakTime                 short break length in minutes (default 5)
  longBreakTime             long break length in minutes (default 15)
  sessionsBeforeLongBreak   focus sessions before a long break (default 4)
  soundEnabled              ring the terminal bell when an interval ends

Other keys are stored as given.

Examples:
  pomo settings
  pomo settings focusTime=50 breakTime=10
  pomo settings soundEnabled=off
  pomo settings --reset`,
	RunE: withEnv(func(cmd *cobra.Command, args []string, e *Env) error {
		reset, _ := cmd.Flags().GetBool("reset")
		if reset {
			if len(args) > 0 {
				return fmt.Errorf("--reset does not take key=value arguments")
			}
			return runSettingsReset(cmd.Context(), e, cmd.OutOrStdout())
		}
		if len(args) > 0 {
			return runSettingsSet(cmd.Context(), e, cmd.OutOrStdout(), args)
		}
		return runSettingsShow(cmd.Context(), e, cmd.OutOrStdout())
	}),
}

func runSettingsShow(ctx context.Context, e *Env, out io.Writer) error {
	store, err := e.DB()
	if err != nil {
		return err
	}
	stored, err := store.LoadSettings(ctx)
	if err != nil {
		return err
	}

	timerSettings := stored.TimerSettings()
	fmt.Fprintf(out, "%-25s %d min\n", models.SettingFocusTime, timerSettings.FocusTime)
	fmt.Fprintf(out, "%-25s %d min\n", models.SettingBreakTime, timerSettings.BreakTime)
	fmt.Fprintf(out, "%-25s %d min\n", models.SettingLongBreakTime, timerSettings.LongBreakTime)
	fmt.Fprintf(out, "%-25s %d\n", models.SettingSessionsBeforeLongBreak, timerSettings.SessionsBeforeLongBreak)
	fmt.Fprintf(out, "%-25s %t\n", models.SettingSoundEnabled, timerSettings.SoundEnabled)

	var extra []string
	for key := range stored {
		if !isTimerKey(key) {
			extra = append(extra, key)
		}
	}
	sort.Strings(extra)
	for _, key := range extra {
		fmt.Fprintf(out, "%-25s %v\n", key, stored[key])
	}
	return nil
}

func runSettingsSet(ctx context.Context, e *Env, out io.Writer, assignments []string) error {
	store, err := e.DB()
	if err != nil {
		return err
	}

	settings := make(models.Settings, len(assignments))
	for _, assignment := range assignments {
		key, value, err := parser.ParseAssignment(assignment)
		if err != nil {
			return err
		}
		if err := validateSetting(key, value); err != nil {
			return err
		}
		settings[key] = value
	}

	if err := store.SaveSettings(ctx, settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	fmt.Fprintf(out, "✅ Saved %d setting(s)\n", len(settings))
	return nil
}

func runSettingsReset(ctx context.Context, e *Env, out io.Writer) error {
	store, err := e.DB()
	if err != nil {
		return err
	}
	if err := store.ClearSettings(ctx); err != nil {
		return err
	}
	fmt.Fprintln(out, "✅ Settings reset to defaults")
	return nil
}

func isTimerKey(key string) bool {
	switch key {
	case models.SettingFocusTime, models.SettingBreakTime, models.SettingLongBreakTime,
		models.SettingSessionsBeforeLongBreak, models.SettingSoundEnabled:
		return true
	}
	return false
}

// validateSetting checks the recognized keys; anything else is free-form
func validateSetting(key string, value any) error {
	switch key {
	case models.SettingFocusTime, models.SettingBreakTime, models.SettingLongBreakTime,
		models.SettingSessionsBeforeLongBreak:
		n, ok := value.(int)
		if !ok || n <= 0 {
			return fmt.Errorf("%s must be a positive whole number, got %v", key, value)
		}
	case models.SettingSoundEnabled:
		if _, ok := value.(bool); !ok {
			return fmt.Errorf("%s must be true or false, got %v", key, value)
		}
	}
	return nil
}

func init() {
	settingsCmd.Flags().Bool("reset", false, "Remove all stored preferences")
}

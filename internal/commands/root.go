package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// cfgFile is set by the --config flag
var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "pomo",
	Short: "A Pomodoro timer with local session history",
	Long: `pomo is a command-line Pomodoro timer.
Run focus and break intervals, keep a history of every completed session,
and generate reports from it, all stored locally.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "pomo %s (commit %s, built %s)\n", version, commit, date)
	},
}

// withEnv wraps a command function to load configuration and open the
// store first
func withEnv(fn func(cmd *cobra.Command, args []string, e *Env) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cfgFile)
		if err != nil {
			return err
		}
		defer e.Close()
		return fn(cmd, args, e)
	}
}

// SetVersion sets the version information
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ~/.pomo/config.{toml,yaml,json})")

	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(recordCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(rmCmd)
	rootCmd.AddCommand(tasksCmd)
	rootCmd.AddCommand(weekCmd)
	rootCmd.AddCommand(settingsCmd)
	rootCmd.AddCommand(clearCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(purgeCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(migrateLegacyCmd)
	rootCmd.SetHelpCommand(helpCmd)
	rootCmd.AddCommand(versionCmd)
}

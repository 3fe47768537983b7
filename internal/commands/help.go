package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

var helpCmd = &cobra.Command{
	Use:   "help",
	Short: "Show comprehensive help for pomo",
	Long:  `Display detailed help for all pomo commands and flags.`,
	Run: func(cmd *cobra.Command, args []string) {
		showCustomHelp(cmd.OutOrStdout())
	},
}

func showCustomHelp(out io.Writer) {
	fmt.Fprint(out, `
██████╗  ██████╗ ███╗   ███╗ ██████╗
██╔══██╗██╔═══██╗████╗ ████║██╔═══██╗
██████╔╝██║   ██║██╔████╔██║██║   ██║
██╔═══╝ ██║   ██║██║╚██╔╝██║██║   ██║
██║     ╚██████╔╝██║ ╚═╝ ██║╚██████╔╝
╚═╝      ╚═════╝ ╚═╝     ╚═╝ ╚═════╝

pomo - Pomodoro timer with local history

TIMER:

  start [task]            Open the interactive timer
    -m, --mode            Initial mode: focus|break|long-break

    Controls:
      space         Start / pause
      r             Reset the current interval
      f / b / l     Switch to focus / break / long break
      t             Edit the task name
      q             Quit

  record [task]           Record a session without running the timer
    -m, --mode            focus|break|long-break (default focus)
    -d, --minutes         Duration (default: configured length)
    -n, --number          Position within the cycle

HISTORY:

  history                 List sessions, newest first
    -f, --from            From date (yyyy-mm-dd, dd/mm/yyyy, today, "2 days ago")
    -t, --to              To date
    -m, --month           One month (yyyy-mm)
    --task                Sessions of one task ID
    -l, --limit           Limit number of results
    --json                JSON output

  rm <id>                 Delete one session
  tasks                   List tasks, most recently used first
    --stats               Totals across all tasks
    --json                JSON output
  week                    Focus hours per task for each day of the week
    -w, --weeks-ago       Show an earlier week
  report                  Recent summary, top tasks and monthly breakdown
    -d, --days            Summary period (default 30)
    -o, --out             Write to a file
    --save                Write to pomodoro-report-YYYY-MM-DD.txt
    --json                JSON output

DATA:

  settings [key=value]    Show or change preferences (focusTime=50 ...)
    --reset               Back to defaults
  export [file]           JSON backup (stdout by default)
  import <file> --yes     Replace everything with a backup
  clear <what> --yes      Delete sessions|tasks|settings|all
  purge                   Delete sessions older than the retention period
    -d, --days            Period (default retention_days)
  info                    Storage locations and usage
  migrate-legacy          Copy fallback data into the database
    --force               Copy again

CONFIGURATION:

  ~/.pomo/config.{toml,yaml,json} or POMO_* environment variables:
    data_dir              Where pomo.db lives (default ~/.pomo)
    log_level             debug|info|warn|error|none (default warn)
    retention_days        Default for purge (default 365)
    timezone              IANA name for dates and reports (default local)

  --config <file>         Use a specific config file

`)
}

// Command schedule runs jobs from a configuration file and inspects cron
// expressions.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "schedule",
	Short: "In-process job scheduler",
	Long: `schedule runs callbacks on cron and interval triggers.

Cron expressions have six fields:
  <second> <minute> <hour> <day-of-month> <month> <day-of-week>
Months are zero-based (0 is January) and the week starts on Sunday (0).
A day matches when both the day-of-month and the day-of-week fields match.

Examples:
  schedule run --config jobs.yaml       # Run the configured jobs
  schedule next "0 0 12 * * 1-5" -n 3   # Print the next three weekday noons`,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(nextCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

package main

import (
	"fmt"
	"io"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/reugn/go-schedule/schedule"
)

var nextCmd = &cobra.Command{
	Use:   "next <cron>",
	Short: "Print the next execution times of a cron expression",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runNext(cmd.OutOrStdout(), args[0], nextOpts)
	},
}

type nextOptions struct {
	count int
	from  string
	utc   bool
}

var nextOpts nextOptions

func init() {
	nextCmd.Flags().IntVarP(&nextOpts.count, "count", "n", 5, "Number of execution times to print")
	nextCmd.Flags().StringVar(&nextOpts.from, "from", "", "Start time in RFC 3339 format (default now)")
	nextCmd.Flags().BoolVar(&nextOpts.utc, "utc", false, "Evaluate the expression in UTC")
}

func runNext(w io.Writer, expression string, opts nextOptions) error {
	if opts.count < 1 {
		return errors.Newf("count must be positive, got %d", opts.count)
	}
	loc := time.Local
	if opts.utc {
		loc = time.UTC
	}

	from := time.Now()
	if opts.from != "" {
		var err error
		if from, err = time.Parse(time.RFC3339, opts.from); err != nil {
			return errors.Wrap(err, "parse --from")
		}
	}

	trigger, err := schedule.NewCronTriggerWithLoc(expression, loc)
	if err != nil {
		return err
	}
	next, err := trigger.NextExecuteTimeAfter(from)
	for i := 0; i < opts.count; i++ {
		if err != nil {
			return err
		}
		fmt.Fprintln(w, next.Format(time.RFC3339))
		next, err = trigger.NextExecuteTime(0)
	}
	return nil
}

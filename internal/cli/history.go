package cli

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/roach88/suburbprice/internal/change"
	"github.com/roach88/suburbprice/internal/price"
	"github.com/roach88/suburbprice/internal/summary"
)

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history <suburb>",
		Short: "Print one suburb's price series",
		Long: `Print every stored observation for a suburb in date order, with the
percentage change from the previous observation. Suburb names are matched
case-insensitively.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runHistory(opts *RootOptions, suburb string, cmd *cobra.Command) error {
	setupLogging(opts, cmd.ErrOrStderr())
	formatter := newFormatter(opts, cmd)
	ctx := commandContext(cmd)

	e, err := prepare(ctx, opts, formatter)
	if err != nil {
		return err
	}
	defer e.close()

	observations, err := e.store.History(ctx, suburb)
	if err != nil {
		return formatter.fail(ExitCommandError, ErrCodeStore, "failed to read history", err)
	}
	if len(observations) == 0 {
		return formatter.fail(ExitFailure, ErrCodeMissing,
			fmt.Sprintf("no observations for suburb %q", price.NormalizeSuburb(suburb)), nil)
	}

	series := price.NewSeries(suburb, observations)
	steps := change.Consecutive([]price.Series{series})

	if formatter.Format == "json" {
		return formatter.Success(steps)
	}

	w := formatter.Writer
	fmt.Fprintf(w, "%s: %d observation(s)\n", series.Suburb(), series.Len())
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Date", "Price", "Change"})
	for _, s := range steps {
		t.AppendRow(table.Row{price.FormatDate(s.Date), s.Price.String(), summary.FormatPct(s.PctChange)})
	}
	t.SetStyle(table.StyleRounded)
	t.Render()
	return nil
}

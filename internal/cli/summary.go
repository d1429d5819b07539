package cli

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/roach88/suburbprice/internal/export"
	"github.com/roach88/suburbprice/internal/summary"
)

// SummaryOptions holds flags for the summary command.
type SummaryOptions struct {
	*RootOptions
	Top int
}

// SummaryResult is the JSON payload of the summary command.
type SummaryResult struct {
	Aggregate summary.Aggregate     `json:"aggregate"`
	Top       []summary.SuburbStats `json:"top"`
}

// NewSummaryCommand creates the summary command.
func NewSummaryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SummaryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "summary <snapshot.csv>",
		Short: "Print statistics for a consecutive-mode snapshot",
		Long: `Read a consecutive-mode snapshot and print aggregate price statistics
and the top suburbs by mean price with their mean percentage change.

Example:
  suburbprice summary data/realestatedata_24MAY2024.csv --top 5`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSummary(opts, args[0], cmd)
		},
	}

	cmd.Flags().IntVar(&opts.Top, "top", 10, "number of suburbs to list")

	return cmd
}

func runSummary(opts *SummaryOptions, path string, cmd *cobra.Command) error {
	setupLogging(opts.RootOptions, cmd.ErrOrStderr())
	formatter := newFormatter(opts.RootOptions, cmd)

	f, err := os.Open(path)
	if err != nil {
		return formatter.fail(ExitCommandError, ErrCodeInput, "failed to open snapshot", err)
	}
	defer f.Close()

	steps, err := export.ReadSteps(f)
	if err != nil {
		return formatter.fail(ExitCommandError, ErrCodeInput, "failed to read snapshot", err)
	}
	formatter.VerboseLog("Read %d row(s) from %s", len(steps), path)

	stats := summary.BySuburb(steps)
	result := SummaryResult{
		Aggregate: summary.Overall(stats),
		Top:       summary.TopByMeanPrice(stats, opts.Top),
	}

	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	w := formatter.Writer
	agg := result.Aggregate
	fmt.Fprintln(w, "Aggregate Statistics:")
	fmt.Fprintf(w, "  Suburbs: %d\n", agg.Suburbs)
	fmt.Fprintf(w, "  Min:     %s\n", agg.Min.StringFixed(2))
	fmt.Fprintf(w, "  Max:     %s\n", agg.Max.StringFixed(2))
	fmt.Fprintf(w, "  Mean:    %s\n", agg.Mean.StringFixed(2))
	fmt.Fprintf(w, "  Median:  %s\n", agg.Median.StringFixed(2))
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Top %d Suburbs by Mean Price:\n", len(result.Top))
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Suburb", "Mean Price", "Mean Change"})
	for _, st := range result.Top {
		t.AppendRow(table.Row{st.Suburb, st.Mean.StringFixed(2), summary.FormatPct(st.MeanPctChange)})
	}
	t.SetStyle(table.StyleRounded)
	t.Render()
	return nil
}

package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/suburbprice/internal/change"
	"github.com/roach88/suburbprice/internal/export"
	"github.com/roach88/suburbprice/internal/pipeline"
	"github.com/roach88/suburbprice/internal/price"
	"github.com/roach88/suburbprice/internal/summary"
)

// Export modes.
const (
	ModeConsecutive = "consecutive"
	ModeRange       = "range"
)

// Quantiles kept by --clip.
const (
	clipLower = 0.1
	clipUpper = 0.9
)

// ExportOptions holds flags for the export command.
type ExportOptions struct {
	*RootOptions
	Mode     string
	Lower    int
	Upper    int
	MaxRange bool
	Clip     bool
	Dir      string
}

// ExportResult is the JSON payload of the export command.
type ExportResult struct {
	Path        string `json:"path"`
	Mode        string `json:"mode"`
	Rows        int    `json:"rows"`
	WindowLower string `json:"window_lower,omitempty"`
	WindowUpper string `json:"window_upper,omitempty"`
}

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a dated CSV snapshot of price changes",
		Long: `Compute percentage price changes over the stored history and write
them to <export.dir>/<export.prefix>_<DDMONYYYY>.csv.

Modes:
  consecutive  one row per observation, change from the previous observation
  range        one row per suburb, change between two positions in its series

Range positions default to range.lower_index / range.upper_index from the
config. Negative indices count from the end (-1 is the latest observation).

Example:
  suburbprice export
  suburbprice export --mode range --max-range
  suburbprice export --mode range --lower -2 --upper -1 --clip`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Mode, "mode", ModeConsecutive, "export mode (consecutive|range)")
	cmd.Flags().IntVar(&opts.Lower, "lower", 0, "range mode: lower index")
	cmd.Flags().IntVar(&opts.Upper, "upper", -1, "range mode: upper index")
	cmd.Flags().BoolVar(&opts.MaxRange, "max-range", false, "range mode: compare first and latest observations")
	cmd.Flags().BoolVar(&opts.Clip, "clip", false, "range mode: keep only changes within the 10-90% quantiles")
	cmd.Flags().StringVar(&opts.Dir, "dir", "", "output directory (default export.dir)")

	return cmd
}

func runExport(opts *ExportOptions, cmd *cobra.Command) error {
	setupLogging(opts.RootOptions, cmd.ErrOrStderr())
	formatter := newFormatter(opts.RootOptions, cmd)
	ctx := commandContext(cmd)

	if opts.Mode != ModeConsecutive && opts.Mode != ModeRange {
		return formatter.fail(ExitCommandError, ErrCodeInput,
			fmt.Sprintf("invalid mode %q: must be %s or %s", opts.Mode, ModeConsecutive, ModeRange), nil)
	}

	e, err := prepare(ctx, opts.RootOptions, formatter)
	if err != nil {
		return err
	}
	defer e.close()

	series, err := pipeline.LoadSeries(ctx, e.store)
	if err != nil {
		return formatter.fail(ExitCommandError, ErrCodeStore, "failed to read history", err)
	}
	formatter.VerboseLog("Loaded %d suburb series", len(series))

	dir := opts.Dir
	if dir == "" {
		dir = e.cfg.Export.Dir
	}
	exporter := &export.Exporter{Dir: dir, Prefix: e.cfg.Export.Prefix, Clock: e.clock}

	result := ExportResult{Mode: opts.Mode}
	if opts.Mode == ModeConsecutive {
		steps := change.Consecutive(series)
		result.Rows = len(steps)
		result.Path, err = exporter.ExportSteps(steps)
	} else {
		r := rangeFor(opts, cmd, e.cfg.Range.LowerIndex, e.cfg.Range.UpperIndex, e.cfg.Range.MaxRange)
		records := r.Compute(series)
		if opts.Clip {
			before := len(records)
			records = summary.ClipQuantiles(records, clipLower, clipUpper)
			slog.Info("clipped range records", "kept", len(records), "dropped", before-len(records))
		}
		result.Rows = len(records)
		if lower, upper, ok := change.Window(records); ok {
			result.WindowLower = price.FormatDate(lower)
			result.WindowUpper = price.FormatDate(upper)
		}
		result.Path, err = exporter.ExportRanges(records)
	}
	if err != nil {
		return formatter.fail(ExitCommandError, ErrCodeExport, "failed to write snapshot", err)
	}

	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	fmt.Fprintf(formatter.Writer, "✓ Wrote %d row(s) to %s\n", result.Rows, result.Path)
	if result.WindowLower != "" {
		fmt.Fprintf(formatter.Writer, "  window: %s to %s\n", result.WindowLower, result.WindowUpper)
	}
	return nil
}

// rangeFor builds the range selection from config defaults, overridden by
// any flag set on the command line.
func rangeFor(opts *ExportOptions, cmd *cobra.Command, lower int, upper *int, maxRange bool) change.Range {
	r := change.Range{Lower: lower, Upper: upper, MaxRange: maxRange}
	flags := cmd.Flags()
	if flags.Changed("lower") {
		r.Lower = opts.Lower
	}
	if flags.Changed("upper") {
		u := opts.Upper
		r.Upper = &u
	}
	if flags.Changed("max-range") {
		r.MaxRange = opts.MaxRange
	}
	return r
}

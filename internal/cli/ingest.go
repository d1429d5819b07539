package cli

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/suburbprice/internal/gate"
	"github.com/roach88/suburbprice/internal/pipeline"
	"github.com/roach88/suburbprice/internal/price"
)

// IngestOptions holds flags for the ingest command.
type IngestOptions struct {
	*RootOptions

	// NewRunID allows overriding the run id generator (for testing).
	// If nil, defaults to UUIDv7.
	NewRunID pipeline.RunIDFunc
}

// IngestResult is the JSON payload of the ingest command.
type IngestResult struct {
	Date     string         `json:"date"`
	Deferred bool           `json:"deferred"`
	Decision gate.Decision  `json:"decision"`
	Fetched  int            `json:"fetched"`
	Written  int            `json:"written"`
	Failed   int            `json:"failed"`
	Failures []WriteFailure `json:"failures,omitempty"`
}

// WriteFailure describes one failed observation write.
type WriteFailure struct {
	Suburb string `json:"suburb"`
	Error  string `json:"error"`
}

// NewIngestCommand creates the ingest command.
func NewIngestCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &IngestOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Scrape current prices and store them",
		Long: `Fetch the current suburb median prices and append them to the store,
dated today in the configured timezone.

The run is deferred (exit 0, nothing written) when the most recent stored
date is fewer than ingest.min_interval_days days ago.

Example:
  suburbprice ingest
  suburbprice ingest --config suburbprice.yaml --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIngest(opts, cmd)
		},
	}

	return cmd
}

func runIngest(opts *IngestOptions, cmd *cobra.Command) error {
	setupLogging(opts.RootOptions, cmd.ErrOrStderr())
	formatter := newFormatter(opts.RootOptions, cmd)
	ctx := commandContext(cmd)

	e, err := prepare(ctx, opts.RootOptions, formatter)
	if err != nil {
		return err
	}
	defer e.close()

	ingester := &pipeline.Ingester{
		Source:   sourceFor(opts.RootOptions, e.cfg),
		Store:    e.store,
		Gate:     gate.New(e.cfg.MinIntervalDays(), e.clock),
		Clock:    e.clock,
		NewRunID: opts.NewRunID,
	}

	summary, err := ingester.Run(ctx)
	if err != nil {
		if errors.Is(err, pipeline.ErrSourceUnavailable) {
			return formatter.fail(ExitCommandError, ErrCodeSource, "observation source unavailable", err)
		}
		return formatter.fail(ExitCommandError, ErrCodeStore, "ingestion failed", err)
	}

	result := newIngestResult(summary)
	if formatter.Format == "json" {
		if err := formatter.SuccessRun(result, summary.RunID); err != nil {
			return err
		}
	} else {
		printIngestText(formatter, summary)
	}

	if summary.Failed() > 0 {
		slog.Warn("ingestion finished with write failures", "failed", summary.Failed())
		return NewExitError(ExitFailure, fmt.Sprintf("%s: %d write(s) failed", ErrCodeWrite, summary.Failed()))
	}
	return nil
}

func newIngestResult(s *pipeline.Summary) IngestResult {
	r := IngestResult{
		Date:     price.FormatDate(s.Date),
		Deferred: s.Deferred,
		Decision: s.Decision,
		Fetched:  s.Fetched,
		Written:  s.Written,
		Failed:   s.Failed(),
	}
	for _, f := range s.Failures {
		r.Failures = append(r.Failures, WriteFailure{
			Suburb: f.Observation.Suburb,
			Error:  f.Err.Error(),
		})
	}
	return r
}

func printIngestText(f *OutputFormatter, s *pipeline.Summary) {
	if s.Deferred {
		fmt.Fprintf(f.Writer, "Ingestion deferred: %d day(s) since %s, minimum %d\n",
			s.Decision.ElapsedDays, price.FormatDate(s.Decision.LastDate), s.Decision.MinDays)
		return
	}

	fmt.Fprintf(f.Writer, "✓ Ingested %d listing(s) for %s\n", s.Fetched, price.FormatDate(s.Date))
	fmt.Fprintf(f.Writer, "  run:     %s\n", s.RunID)
	fmt.Fprintf(f.Writer, "  written: %d\n", s.Written)
	fmt.Fprintf(f.Writer, "  failed:  %d\n", s.Failed())
	for _, fail := range s.Failures {
		fmt.Fprintf(f.Writer, "  ✗ %s: %v\n", fail.Observation.Suburb, fail.Err)
	}
}

package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/pfgrants/internal/core/domain"
	"github.com/custodia-labs/pfgrants/internal/core/ports/driving"
)

var (
	runLimit       int
	runConcurrency int
	runSink        string
	runDryRun      bool
	runStrict      bool
)

// errRunFailed is returned when the report marks the run as failed.
var errRunFailed = errors.New("run failed")

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Load 990-PF returns into the donor and recipient tables",
	Long: `Reads the index, fetches and extracts every 990-PF return in index order,
then writes the aggregated filers and recipients to the configured sink.

Documents that cannot be fetched or parsed are skipped and counted. The
command exits non-zero when the index cannot be read, when no document is
processed, or when a table write fails. With --strict any skipped document
also fails the run.`,
	Args: cobra.NoArgs,
	RunE: runRun,
}

func init() {
	runCmd.Flags().IntVar(&runLimit, "limit", -1, "Stop after N processed documents (0 for no limit)")
	runCmd.Flags().IntVar(&runConcurrency, "concurrency", 0, "Documents fetched at once")
	runCmd.Flags().StringVar(&runSink, "sink", "", "Destination: bigquery or sqlite")
	runCmd.Flags().BoolVar(&runDryRun, "dry-run", false, "Extract and aggregate without writing tables")
	runCmd.Flags().BoolVar(&runStrict, "strict", false, "Fail the run when any document is skipped")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, _ []string) error {
	if pipeline == nil {
		return fmt.Errorf("pipeline: %w", errNotConfigured)
	}

	opts := driving.DefaultRunOptions()
	if cmd.Flags().Changed("limit") {
		if runLimit < 0 {
			return fmt.Errorf("%w: --limit must not be negative", domain.ErrInvalidInput)
		}
		opts.Limit = runLimit
	}
	if cmd.Flags().Changed("concurrency") {
		if runConcurrency <= 0 {
			return fmt.Errorf("%w: --concurrency must be positive", domain.ErrInvalidInput)
		}
		opts.Concurrency = runConcurrency
	}
	if runSink != "" {
		sink := domain.SinkType(runSink)
		if !sink.IsValid() {
			return fmt.Errorf("%w: sink %q", domain.ErrUnsupportedType, runSink)
		}
		opts.Sink = sink
	}
	opts.DryRun = runDryRun

	report, err := pipeline.Run(cmd.Context(), opts)
	if err != nil {
		return fmt.Errorf("run failed to start: %w", err)
	}

	cmd.Print(renderSummary(report, runStrict, isTerminal(cmd.OutOrStdout())))

	if report.Failed(runStrict) {
		if err := report.Err(); err != nil {
			return fmt.Errorf("%w: %w", errRunFailed, err)
		}
		return fmt.Errorf("%w: no documents processed", errRunFailed)
	}
	return nil
}

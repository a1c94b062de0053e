package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/pfrederiksen/steel-wayback/internal/config"
	"github.com/pfrederiksen/steel-wayback/internal/logger"
	"github.com/pfrederiksen/steel-wayback/internal/pipeline"
	"github.com/pfrederiksen/steel-wayback/internal/production"
	"github.com/pfrederiksen/steel-wayback/internal/report"
	"github.com/pfrederiksen/steel-wayback/internal/wayback"
)

const (
	ExitSuccess = 0
	ExitError   = 1
)

// NoDataMessage is printed when no snapshot yielded a Record
const NoDataMessage = "No regional numbers were extracted from snapshots. Try widening the date range or run with --verbose to inspect snapshot content."

// Version is reported by --version
var Version = "dev"

var (
	flagFrom    int
	flagTo      int
	flagOut     string
	flagPlot    string
	flagLimit   int
	flagFormat  string
	flagVerbose bool
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "steel-wayback",
		Short: "Recover AISI weekly district steel production from Wayback Machine snapshots",
		Long: `A CLI tool that rebuilds the history of AISI weekly raw steel production by district.
It lists the archived captures of steel.org/industry-data in the Wayback Machine, extracts the
North East, Great Lakes, Midwest, Southern and Western figures from each capture, and writes
the monthly averages as a CSV file and a line chart.`,
		Version:       Version,
		RunE:          runExtract,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Define flags
	cmd.Flags().IntVar(&flagFrom, "from", 2020, "Start year (inclusive) for the snapshot index query")
	cmd.Flags().IntVar(&flagTo, "to", 2025, "End year (inclusive) for the snapshot index query")
	cmd.Flags().StringVar(&flagOut, "out", "monthly_region.csv", "Output CSV path")
	cmd.Flags().StringVar(&flagPlot, "plot", "region_plot.png", "Output plot image path (.png, .svg, .pdf)")
	cmd.Flags().IntVar(&flagLimit, "limit", 0, fmt.Sprintf("Maximum snapshot index rows (0 = CDX_LIMIT, which defaults to %d)", wayback.DefaultLimit))
	cmd.Flags().StringVar(&flagFormat, "format", "text", "Summary output format: text or json")
	cmd.Flags().BoolVar(&flagVerbose, "verbose", false, "Enable debug logging of skipped snapshots and run metrics")

	return cmd
}

// runExtract is the main command logic
func runExtract(cmd *cobra.Command, args []string) error {
	format := OutputFormat(strings.ToLower(flagFormat))
	if format != FormatText && format != FormatJSON {
		return fmt.Errorf("invalid format: %s (must be 'text' or 'json')", flagFormat)
	}
	if flagFrom > flagTo {
		return fmt.Errorf("invalid year range: --from %d is after --to %d", flagFrom, flagTo)
	}
	if flagLimit < 0 {
		return fmt.Errorf("invalid limit: %d", flagLimit)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	level := cfg.LogLevel
	if flagVerbose {
		level = logger.LevelDebug
	}

	runID := uuid.NewString()
	log := logger.New(level, cmd.ErrOrStderr()).With(logger.Fields{"run_id": runID})
	logger.SetDefault(log)

	// JSON mode keeps stdout for the summary document
	stdout := cmd.OutOrStdout()
	progress := stdout
	if format == FormatJSON {
		progress = cmd.ErrOrStderr()
	}

	limit := flagLimit
	if limit == 0 {
		limit = cfg.CDXLimit
	}

	client := wayback.NewWithOptions(cfg.ClientOptions())
	metrics := logger.NewMetrics()
	p := pipeline.New(client, log, metrics, progress)

	fmt.Fprintf(progress, "Querying Wayback CDX for %s from %d to %d...\n", client.Target(), flagFrom, flagTo)

	result, err := p.Run(cmd.Context(), wayback.Query{
		FromYear: flagFrom,
		ToYear:   flagTo,
		Limit:    limit,
	})
	if err != nil {
		logger.Error("run failed", logger.Fields{"from": flagFrom, "to": flagTo}, err)
		return err
	}

	if result.Snapshots >= limit {
		logger.Warn("snapshot index hit the row limit, later captures may be missing", logger.Fields{
			"limit":     limit,
			"snapshots": result.Snapshots,
		})
	}

	summary := &OutputResult{
		RunID:       runID,
		GeneratedAt: time.Now().UTC(),
		Target:      client.Target(),
		FromYear:    flagFrom,
		ToYear:      flagTo,
		Result:      result,
		RecordCount: len(result.Records),
	}

	if flagVerbose {
		defer func() {
			log.Debug("run metrics", logger.Fields{"metrics": metrics.GetSnapshot()})
		}()
	}

	if len(result.Records) == 0 {
		fmt.Fprintln(progress, NoDataMessage)
		if format == FormatJSON {
			return WriteOutput(stdout, summary, format, flagVerbose)
		}
		return nil
	}

	rows := production.Monthly(result.Records)
	summary.Months = summarizeMonths(rows)

	fmt.Fprintf(progress, "Saving CSV to %s and plot to %s ...\n", flagOut, flagPlot)
	if err := report.SaveCSV(flagOut, rows); err != nil {
		return fmt.Errorf("writing csv: %w", err)
	}
	if err := report.SavePlot(flagPlot, rows); err != nil {
		return fmt.Errorf("writing plot: %w", err)
	}
	summary.CSVPath = flagOut
	summary.PlotPath = flagPlot

	logger.Info("run complete", logger.Fields{
		"snapshots": result.Snapshots,
		"records":   len(result.Records),
		"months":    len(rows),
	})

	if err := WriteOutput(stdout, summary, format, flagVerbose); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	fmt.Fprintln(progress, "Done.")
	return nil
}

// Execute runs the CLI
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, stderr io.Writer) int {
	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return ExitError
	}
	return ExitSuccess
}

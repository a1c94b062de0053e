package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/pfrederiksen/steel-wayback/internal/pipeline"
	"github.com/pfrederiksen/steel-wayback/internal/production"
	"github.com/pfrederiksen/steel-wayback/internal/report"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// MonthSummary is one aggregated month in the run summary
type MonthSummary struct {
	Month   string             `json:"month"`
	Records int                `json:"records"`
	Means   map[string]float64 `json:"means"`
}

// OutputResult contains data to be output
type OutputResult struct {
	RunID       string    `json:"run_id"`
	GeneratedAt time.Time `json:"generated_at"`
	Target      string    `json:"target"`
	FromYear    int       `json:"from"`
	ToYear      int       `json:"to"`
	*pipeline.Result
	RecordCount int            `json:"record_count"`
	Months      []MonthSummary `json:"months"`
	CSVPath     string         `json:"csv_path,omitempty"`
	PlotPath    string         `json:"plot_path,omitempty"`
}

func summarizeMonths(rows []production.MonthlyRow) []MonthSummary {
	months := make([]MonthSummary, 0, len(rows))
	for _, row := range rows {
		means := make(map[string]float64, production.NumRegions)
		for _, r := range production.Regions {
			means[r.String()] = row.Mean(r)
		}
		months = append(months, MonthSummary{
			Month:   row.Month.Format(report.MonthLayout),
			Records: row.Count,
			Means:   means,
		})
	}
	return months
}

// WriteOutput writes the result in the specified format
func WriteOutput(w io.Writer, result *OutputResult, format OutputFormat, verbose bool) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, result)
	case FormatText:
		return writeText(w, result, verbose)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// writeJSON outputs results as JSON
func writeJSON(w io.Writer, result *OutputResult) error {
	if result.Months == nil {
		result.Months = []MonthSummary{}
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

// writeText outputs results as a human-readable monthly table
func writeText(w io.Writer, result *OutputResult, verbose bool) error {
	if len(result.Months) == 0 {
		return nil
	}

	fmt.Fprintf(w, "\n%-10s %7s", "Month", "Records")
	for _, r := range production.Regions {
		fmt.Fprintf(w, " %12s", r)
	}
	fmt.Fprintln(w)

	for _, m := range result.Months {
		fmt.Fprintf(w, "%-10s %7d", m.Month, m.Records)
		for _, r := range production.Regions {
			fmt.Fprintf(w, " %12.2f", m.Means[r.String()])
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "\nTotal: %d records across %d months\n", result.RecordCount, len(result.Months))
	if verbose && result.Result != nil {
		fmt.Fprintf(w, "Snapshots: %d\n", result.Snapshots)
		fmt.Fprintf(w, "  unavailable:    %d\n", result.Unavailable)
		fmt.Fprintf(w, "  no figures:     %d\n", result.NoFigures)
		fmt.Fprintf(w, "  bad timestamp:  %d\n", result.BadTimestamps)
		fmt.Fprintf(w, "  capture date:   %d\n", result.CaptureDates)
		fmt.Fprintf(w, "Run ID: %s\n", result.RunID)
	}

	return nil
}

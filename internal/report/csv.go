package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/gocarina/gocsv"

	"github.com/pfrederiksen/steel-wayback/internal/production"
)

// MonthLayout formats the month column
const MonthLayout = "2006-01-02"

// csvRow is one serialized MonthlyRow; cells are preformatted so every value keeps two decimals
type csvRow struct {
	Month      string `csv:"yearmonth"`
	NorthEast  string `csv:"North East"`
	GreatLakes string `csv:"Great Lakes"`
	Midwest    string `csv:"Midwest"`
	Southern   string `csv:"Southern"`
	Western    string `csv:"Western"`
}

func formatMean(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func toCSVRows(rows []production.MonthlyRow) []*csvRow {
	out := make([]*csvRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, &csvRow{
			Month:      row.Month.Format(MonthLayout),
			NorthEast:  formatMean(row.Mean(production.NorthEast)),
			GreatLakes: formatMean(row.Mean(production.GreatLakes)),
			Midwest:    formatMean(row.Mean(production.Midwest)),
			Southern:   formatMean(row.Mean(production.Southern)),
			Western:    formatMean(row.Mean(production.Western)),
		})
	}
	return out
}

// WriteCSV writes the header and one line per month
func WriteCSV(w io.Writer, rows []production.MonthlyRow) error {
	if err := gocsv.Marshal(toCSVRows(rows), w); err != nil {
		return fmt.Errorf("encoding csv: %w", err)
	}
	return nil
}

// SaveCSV writes the table to path, creating parent directories as needed
func SaveCSV(path string, rows []production.MonthlyRow) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating csv file: %w", err)
	}

	if err := WriteCSV(f, rows); err != nil {
		f.Close()
		return err
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("writing csv file: %w", err)
	}

	return nil
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	return nil
}

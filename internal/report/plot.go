package report

import (
	"errors"
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/pfrederiksen/steel-wayback/internal/production"
)

const (
	PlotTitle  = "Monthly average regional net tons (from Wayback snapshots)"
	PlotXLabel = "Month"
	PlotYLabel = "Net tons (thousands)"
)

var (
	plotWidth  = 12 * vg.Inch
	plotHeight = 6 * vg.Inch
)

// ErrNoData is returned when there is nothing to plot
var ErrNoData = errors.New("no monthly data")

// NewPlot builds the regional time-series chart, one line per district
func NewPlot(rows []production.MonthlyRow) (*plot.Plot, error) {
	if len(rows) == 0 {
		return nil, ErrNoData
	}

	p := plot.New()
	p.Title.Text = PlotTitle
	p.X.Label.Text = PlotXLabel
	p.Y.Label.Text = PlotYLabel
	p.X.Tick.Marker = plot.TimeTicks{Format: "2006-01"}
	p.Legend.Top = true
	p.Legend.Left = true
	p.Add(plotter.NewGrid())

	for i, region := range production.Regions {
		pts := make(plotter.XYs, len(rows))
		for j, row := range rows {
			pts[j].X = float64(row.Month.Unix())
			pts[j].Y = row.Mean(region)
		}

		line, err := plotter.NewLine(pts)
		if err != nil {
			return nil, fmt.Errorf("building %s series: %w", region, err)
		}
		line.LineStyle.Color = plotutil.Color(i)
		line.LineStyle.Width = vg.Points(1.5)

		p.Add(line)
		p.Legend.Add(region.String(), line)
	}

	return p, nil
}

// SavePlot renders the chart to path; the extension picks the format (.png, .svg, .pdf, ...)
func SavePlot(path string, rows []production.MonthlyRow) error {
	p, err := NewPlot(rows)
	if err != nil {
		return err
	}

	if err := ensureDir(path); err != nil {
		return err
	}

	if err := p.Save(plotWidth, plotHeight, path); err != nil {
		return fmt.Errorf("saving plot: %w", err)
	}

	return nil
}

// Package pipeline runs one sequential pass over the archived snapshots:
// index query, then fetch, extract and normalize per snapshot, skipping any that fail.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/jonboulle/clockwork"

	"github.com/pfrederiksen/steel-wayback/internal/extract"
	"github.com/pfrederiksen/steel-wayback/internal/logger"
	"github.com/pfrederiksen/steel-wayback/internal/production"
	"github.com/pfrederiksen/steel-wayback/internal/wayback"
)

// SnapshotSource lists and retrieves archived captures
type SnapshotSource interface {
	QuerySnapshots(ctx context.Context, q wayback.Query) ([]wayback.Snapshot, error)
	FetchSnapshot(ctx context.Context, timestamp string) (string, error)
}

// Outcome describes what happened to one snapshot
type Outcome string

const (
	OutcomeRecorded     Outcome = "recorded"
	OutcomeCaptureDate  Outcome = "recorded (capture date)"
	OutcomeUnavailable  Outcome = "skipped: unavailable"
	OutcomeNoFigures    Outcome = "skipped: no figures"
	OutcomeBadTimestamp Outcome = "skipped: bad timestamp"
)

// Metric names
const (
	MetricFetched       = "snapshots.fetched"
	MetricUnavailable   = "snapshots.unavailable"
	MetricNoFigures     = "snapshots.no_figures"
	MetricBadTimestamp  = "snapshots.bad_timestamp"
	MetricRecorded      = "records.extracted"
	MetricCaptureDate   = "records.capture_date"
	MetricFetchDuration = "snapshot.fetch"
)

// Result is everything a run produced
type Result struct {
	Snapshots     int                 `json:"snapshots"`
	Records       []production.Record `json:"-"`
	Unavailable   int                 `json:"unavailable"`
	NoFigures     int                 `json:"no_figures"`
	BadTimestamps int                 `json:"bad_timestamps"`
	CaptureDates  int                 `json:"capture_dates"`
}

// Pipeline owns the Record list for the duration of a run
type Pipeline struct {
	source   SnapshotSource
	logger   *logger.Logger
	metrics  *logger.Metrics
	clock    clockwork.Clock
	progress io.Writer
}

// New creates a Pipeline. Progress lines go to progress; a nil writer discards them.
// A nil log uses logger.Default() and nil metrics get a fresh tracker.
func New(source SnapshotSource, log *logger.Logger, metrics *logger.Metrics, progress io.Writer) *Pipeline {
	if progress == nil {
		progress = io.Discard
	}
	if log == nil {
		log = logger.Default()
	}
	if metrics == nil {
		metrics = logger.NewMetrics()
	}
	return &Pipeline{
		source:   source,
		logger:   log,
		metrics:  metrics,
		clock:    clockwork.NewRealClock(),
		progress: progress,
	}
}

// SetClock swaps the time source used for fetch timings. Pass nil to reset to real time.
func (p *Pipeline) SetClock(c clockwork.Clock) {
	if c == nil {
		c = clockwork.NewRealClock()
	}
	p.clock = c
}

// Run queries the index and processes every snapshot in index order.
// Only an index failure or cancellation is returned as an error.
func (p *Pipeline) Run(ctx context.Context, q wayback.Query) (*Result, error) {
	snapshots, err := p.source.QuerySnapshots(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("querying snapshot index: %w", err)
	}

	fmt.Fprintf(p.progress, "Found %d snapshots (after collapsing). Will try to parse each snapshot.\n", len(snapshots))
	p.logger.Info("snapshot index loaded", logger.Fields{
		"from":      q.FromYear,
		"to":        q.ToYear,
		"snapshots": len(snapshots),
	})

	result := &Result{
		Snapshots: len(snapshots),
		Records:   make([]production.Record, 0, len(snapshots)),
	}

	for i, snap := range snapshots {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		outcome := p.process(ctx, snap, result)
		fmt.Fprintf(p.progress, "[%d/%d] %s %s\n", i+1, len(snapshots), snap.Timestamp, outcome)
	}

	p.metrics.SetGauge("records", float64(len(result.Records)))
	p.logger.Info("snapshots processed", logger.Fields{
		"fetched":       p.metrics.Counter(MetricFetched),
		"recorded":      p.metrics.Counter(MetricRecorded),
		"unavailable":   p.metrics.Counter(MetricUnavailable),
		"no_figures":    p.metrics.Counter(MetricNoFigures),
		"bad_timestamp": p.metrics.Counter(MetricBadTimestamp),
	})

	return result, nil
}

// process handles one snapshot and appends its Record on success
func (p *Pipeline) process(ctx context.Context, snap wayback.Snapshot, result *Result) Outcome {
	fields := logger.Fields{"timestamp": snap.Timestamp}

	if _, err := production.ParseTimestamp(snap.Timestamp); err != nil {
		result.BadTimestamps++
		p.metrics.IncrCounter(MetricBadTimestamp)
		p.logger.Warn("snapshot skipped", withReason(fields, err.Error()))
		return OutcomeBadTimestamp
	}

	start := p.clock.Now()
	body, err := p.source.FetchSnapshot(ctx, snap.Timestamp)
	p.metrics.RecordTiming(MetricFetchDuration, p.clock.Since(start))
	if err != nil {
		if !errors.Is(err, wayback.ErrSnapshotUnavailable) {
			p.logger.Warn("unexpected fetch error", fields)
		}
		result.Unavailable++
		p.metrics.IncrCounter(MetricUnavailable)
		p.logger.Debug("snapshot skipped", withReason(fields, err.Error()))
		return OutcomeUnavailable
	}
	p.metrics.IncrCounter(MetricFetched)

	reading, ok := extract.FromHTML(body)
	if !ok {
		result.NoFigures++
		p.metrics.IncrCounter(MetricNoFigures)
		p.logger.Debug("snapshot skipped", withReason(fields, "no regional figures found"))
		return OutcomeNoFigures
	}

	rec, err := production.NewRecord(snap.Timestamp, reading)
	if err != nil {
		result.BadTimestamps++
		p.metrics.IncrCounter(MetricBadTimestamp)
		p.logger.Warn("snapshot skipped", withReason(fields, err.Error()))
		return OutcomeBadTimestamp
	}

	result.Records = append(result.Records, rec)
	p.metrics.IncrCounter(MetricRecorded)

	if rec.DateFromSnapshot {
		result.CaptureDates++
		p.metrics.IncrCounter(MetricCaptureDate)
		p.logger.Debug("report date unavailable, using capture time", logger.Fields{
			"timestamp":   snap.Timestamp,
			"date_phrase": reading.DatePhrase,
		})
		return OutcomeCaptureDate
	}

	p.logger.Debug("snapshot recorded", logger.Fields{
		"timestamp":   snap.Timestamp,
		"reported_at": rec.ReportedAt.Format("2006-01-02"),
		"values":      rec.Values.Map(),
	})
	return OutcomeRecorded
}

func withReason(fields logger.Fields, reason string) logger.Fields {
	out := make(logger.Fields, len(fields)+1)
	for k, v := range fields {
		out[k] = v
	}
	out["reason"] = reason
	return out
}

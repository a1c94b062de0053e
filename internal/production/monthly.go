package production

import (
	"sort"
	"time"
)

// MonthlyRow is the per-region mean of every Record reported in one calendar month
type MonthlyRow struct {
	Month time.Time           `json:"month"` // first day of the month, UTC
	Means [NumRegions]float64 `json:"means"`
	Count int                 `json:"count"` // number of Records averaged
}

// Mean returns the monthly mean for a region
func (m MonthlyRow) Mean(r Region) float64 {
	return m.Means[r]
}

// MonthOf truncates t to the first day of its month
func MonthOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// Monthly buckets records by the month of ReportedAt and averages each region.
// Rows are sorted ascending; months without records are absent.
func Monthly(records []Record) []MonthlyRow {
	if len(records) == 0 {
		return nil
	}

	type bucket struct {
		sums  [NumRegions]int64
		count int
	}
	buckets := make(map[time.Time]*bucket)

	for _, rec := range records {
		key := MonthOf(rec.ReportedAt)
		b, ok := buckets[key]
		if !ok {
			b = &bucket{}
			buckets[key] = b
		}
		for _, r := range Regions {
			b.sums[r] += int64(rec.Values.Get(r))
		}
		b.count++
	}

	rows := make([]MonthlyRow, 0, len(buckets))
	for month, b := range buckets {
		row := MonthlyRow{Month: month, Count: b.count}
		n := float64(b.count)
		for _, r := range Regions {
			row.Means[r] = float64(b.sums[r]) / n
		}
		rows = append(rows, row)
	}

	sort.Slice(rows, func(i, j int) bool {
		return rows[i].Month.Before(rows[j].Month)
	})

	return rows
}

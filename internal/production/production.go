package production

import (
	"fmt"
	"time"
)

// Region is one of the five AISI reporting districts
type Region int

const (
	NorthEast Region = iota
	GreatLakes
	Midwest
	Southern
	Western
)

// NumRegions is the size of the closed region set
const NumRegions = 5

// Regions lists every district in reporting order
var Regions = [NumRegions]Region{NorthEast, GreatLakes, Midwest, Southern, Western}

var regionNames = [NumRegions]string{"North East", "Great Lakes", "Midwest", "Southern", "Western"}

// String returns the district name as printed on steel.org
func (r Region) String() string {
	if r < 0 || int(r) >= NumRegions {
		return fmt.Sprintf("Region(%d)", int(r))
	}
	return regionNames[r]
}

// Values holds one integer per region, in thousands of net tons
type Values [NumRegions]int

// Get returns the value for a region
func (v Values) Get(r Region) int {
	return v[r]
}

// Map returns the values keyed by region name
func (v Values) Map() map[string]int {
	m := make(map[string]int, NumRegions)
	for _, r := range Regions {
		m[r.String()] = v[r]
	}
	return m
}

// Reading is the result of extracting one snapshot's page text.
// DatePhrase is empty when the page did not state a "week ending" date.
type Reading struct {
	DatePhrase string `json:"date_phrase,omitempty"`
	Values     Values `json:"values"`
}

// Record is one normalized reading tied to its capture and reporting dates
type Record struct {
	SnapshotAt       time.Time `json:"snapshot_at"`
	ReportedAt       time.Time `json:"reported_at"`
	Values           Values    `json:"values"`
	DateFromSnapshot bool      `json:"date_from_snapshot"` // ReportedAt fell back to SnapshotAt
}

// NewRecord normalizes a reading captured at the given CDX timestamp.
// It only fails when the timestamp itself cannot be parsed.
func NewRecord(timestamp string, reading Reading) (Record, error) {
	snapshotAt, err := ParseTimestamp(timestamp)
	if err != nil {
		return Record{}, err
	}

	rec := Record{
		SnapshotAt: snapshotAt,
		ReportedAt: snapshotAt,
		Values:     reading.Values,
	}

	reported, ok := ParseReportDate(reading.DatePhrase)
	if !ok {
		rec.DateFromSnapshot = true
		return rec, nil
	}
	rec.ReportedAt = reported
	return rec, nil
}

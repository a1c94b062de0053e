package production

import (
	"fmt"
	"strings"
	"time"
)

const (
	// TimestampLayout is the full 14-digit Wayback capture time
	TimestampLayout = "20060102150405"
	// DayLayout is the day-only 8-digit prefix
	DayLayout = "20060102"
)

// reportDateLayouts are tried in order; the first that parses wins.
// Supports "November 29 2025", "November 29, 2025", "Nov 29 2025", "Nov 29, 2025"
var reportDateLayouts = []string{
	"January 2 2006",
	"January 2, 2006",
	"Jan 2 2006",
	"Jan 2, 2006",
}

// ParseTimestamp parses a CDX capture timestamp.
// Falls back to the 8-digit day prefix (midnight UTC) when the full form does not parse.
func ParseTimestamp(ts string) (time.Time, error) {
	t, err := time.Parse(TimestampLayout, ts)
	if err == nil {
		return t, nil
	}

	if len(ts) >= len(DayLayout) {
		t, err = time.Parse(DayLayout, ts[:len(DayLayout)])
		if err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("invalid snapshot timestamp %q", ts)
}

// ParseReportDate parses the human-readable "week ending" phrase.
// Returns false if the phrase is empty or matches none of the known layouts.
func ParseReportDate(phrase string) (time.Time, bool) {
	phrase = strings.TrimSpace(phrase)
	if phrase == "" {
		return time.Time{}, false
	}

	for _, layout := range reportDateLayouts {
		if t, err := time.Parse(layout, phrase); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

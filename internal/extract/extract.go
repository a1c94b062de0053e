package extract

import (
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/pfrederiksen/steel-wayback/internal/logger"
	"github.com/pfrederiksen/steel-wayback/internal/production"
)

// Example sentence:
// "Broken down by districts, here's production for the week ending November 29, 2025, in thousands
// of net tons: North East: 115; Great Lakes: 513; Midwest: 254; Southern: 794 and Western: 60 for a total of 1736."
var districtPattern = regexp.MustCompile(
	`(?i)Broken down by districts[\s\S]*?week ending\s+(?P<date>[^,\n:]+(?:,\s*\d{4})?),?[\s\S]*?:\s*(?P<body>.+?)for a total`,
)

// All five regions in reporting order, each followed by its integer
var numbersPattern = regexp.MustCompile(
	`(?i)North\s*East[:\s]+(\d[\d,]*)\D+Great\s*Lakes[:\s]+(\d[\d,]*)\D+Midwest[:\s]+(\d[\d,]*)\D+Southern[:\s]+(\d[\d,]*)\D+Western[:\s]+(\d[\d,]*)`,
)

// Elements whose text is never rendered
var hiddenElements = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
	"template": true,
}

// FromHTML extracts a reading from an HTML document
func FromHTML(body string) (production.Reading, bool) {
	if strings.TrimSpace(body) == "" {
		return production.Reading{}, false
	}

	text, err := VisibleText(strings.NewReader(body))
	if err != nil {
		return production.Reading{}, false
	}

	return Extract(text)
}

// VisibleText returns the rendered text of an HTML document with each text node
// whitespace-normalized and joined by single spaces
func VisibleText(r io.Reader) (string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return "", err
	}

	parts := make([]string, 0, 64)
	for _, n := range doc.Nodes {
		collectText(n, &parts)
	}

	return strings.Join(parts, " "), nil
}

func collectText(n *html.Node, parts *[]string) {
	switch n.Type {
	case html.TextNode:
		if s := strings.Join(strings.Fields(n.Data), " "); s != "" {
			*parts = append(*parts, s)
		}
		return
	case html.ElementNode:
		if hiddenElements[n.Data] {
			return
		}
	case html.CommentNode, html.DoctypeNode:
		return
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, parts)
	}
}

// Extract applies the district sentence pattern, then the bare numbers fallback.
// DatePhrase is empty when only the fallback matched.
func Extract(text string) (production.Reading, bool) {
	if text == "" {
		return production.Reading{}, false
	}

	if m := districtPattern.FindStringSubmatch(text); m != nil {
		date := strings.TrimSpace(m[districtPattern.SubexpIndex("date")])
		body := m[districtPattern.SubexpIndex("body")]
		if values, ok := parseValues(body); ok {
			return production.Reading{DatePhrase: date, Values: values}, true
		}
	}

	if values, ok := parseValues(text); ok {
		return production.Reading{Values: values}, true
	}

	return production.Reading{}, false
}

// parseValues finds the five-region sequence in s
func parseValues(s string) (production.Values, bool) {
	var values production.Values

	m := numbersPattern.FindStringSubmatch(s)
	if m == nil {
		return values, false
	}

	for i, r := range production.Regions {
		n, ok := parseNumber(m[i+1])
		if !ok {
			return production.Values{}, false
		}
		values[r] = n
	}

	return values, true
}

// parseNumber parses an integer with optional thousands separators, e.g. "1,234".
// Values that do not fit in an int are rejected and the whole match is discarded.
func parseNumber(s string) (int, bool) {
	n, err := strconv.Atoi(strings.ReplaceAll(s, ",", ""))
	if err != nil {
		logger.Debug("regional figure rejected", logger.Fields{"value": s, "error": err.Error()})
		return 0, false
	}
	return n, true
}

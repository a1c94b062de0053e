package wayback

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	CDXURL       = "https://web.archive.org/cdx/search/cdx"
	ArchiveHost  = "https://web.archive.org"
	TargetURL    = "https://www.steel.org/industry-data/"
	UserAgent    = "steel-wayback/1.0 (github.com/pfrederiksen/steel-wayback)"
	Timeout      = 120 * time.Second
	DefaultLimit = 10000
)

// ErrSnapshotUnavailable is wrapped by every FetchSnapshot failure
var ErrSnapshotUnavailable = errors.New("snapshot unavailable")

// TransportError reports a failed CDX index query
type TransportError struct {
	Op         string
	URL        string
	StatusCode int // zero when no response was received
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s %s: unexpected status code: %d", e.Op, e.URL, e.StatusCode)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Snapshot is one archived capture listed by the CDX index
type Snapshot struct {
	URLKey     string `json:"urlkey,omitempty"`
	Timestamp  string `json:"timestamp"` // YYYYMMDDhhmmss, sometimes truncated
	Original   string `json:"original"`
	MimeType   string `json:"mimetype,omitempty"`
	StatusCode string `json:"statuscode,omitempty"`
	Digest     string `json:"digest,omitempty"`
	Length     string `json:"length,omitempty"`
}

// Query selects the captures to list
type Query struct {
	FromYear int
	ToYear   int
	Limit    int
}

// Options overrides the client defaults. Zero values keep the defaults.
type Options struct {
	CDXURL      string
	ArchiveHost string
	Target      string
	UserAgent   string
	Timeout     time.Duration
}

// Client talks to the CDX index and playback endpoints for a single target page
type Client struct {
	client      *http.Client
	cdxURL      string
	archiveHost string
	target      string
	userAgent   string
}

// New creates a Client for steel.org against the public archive
func New() *Client {
	return NewWithOptions(Options{})
}

// NewWithOptions creates a Client, filling unset options with the package defaults
func NewWithOptions(opts Options) *Client {
	if opts.CDXURL == "" {
		opts.CDXURL = CDXURL
	}
	if opts.ArchiveHost == "" {
		opts.ArchiveHost = ArchiveHost
	}
	if opts.Target == "" {
		opts.Target = TargetURL
	}
	if opts.UserAgent == "" {
		opts.UserAgent = UserAgent
	}
	if opts.Timeout <= 0 {
		opts.Timeout = Timeout
	}

	return &Client{
		client: &http.Client{
			Timeout: opts.Timeout,
		},
		cdxURL:      opts.CDXURL,
		archiveHost: strings.TrimRight(opts.ArchiveHost, "/"),
		target:      opts.Target,
		userAgent:   opts.UserAgent,
	}
}

// Target returns the archived page URL
func (c *Client) Target() string {
	return c.target
}

// QuerySnapshots lists the 200-status captures of the target, collapsed to one per day.
// A header-only or empty response yields no snapshots and no error.
func (c *Client) QuerySnapshots(ctx context.Context, q Query) ([]Snapshot, error) {
	if q.Limit <= 0 {
		q.Limit = DefaultLimit
	}

	params := url.Values{}
	params.Set("url", c.target)
	params.Set("output", "json")
	params.Set("from", strconv.Itoa(q.FromYear))
	params.Set("to", strconv.Itoa(q.ToYear))
	params.Set("filter", "statuscode:200")
	params.Set("limit", strconv.Itoa(q.Limit))
	params.Set("collapse", "timestamp:8")

	reqURL := fmt.Sprintf("%s?%s", c.cdxURL, params.Encode())

	body, status, err := c.get(ctx, reqURL)
	if err != nil {
		return nil, &TransportError{Op: "query", URL: c.cdxURL, Err: err}
	}
	if status < 200 || status > 299 {
		return nil, &TransportError{Op: "query", URL: c.cdxURL, StatusCode: status}
	}

	snapshots, err := parseIndex(body)
	if err != nil {
		return nil, &TransportError{Op: "query", URL: c.cdxURL, Err: err}
	}

	return snapshots, nil
}

// PlaybackURL builds the archive URL of the target as captured at timestamp
func (c *Client) PlaybackURL(timestamp string) string {
	return fmt.Sprintf("%s/web/%s/%s", c.archiveHost, timestamp, c.target)
}

// FetchSnapshot returns the archived HTML captured at timestamp.
// Any failure wraps ErrSnapshotUnavailable.
func (c *Client) FetchSnapshot(ctx context.Context, timestamp string) (string, error) {
	body, status, err := c.get(ctx, c.PlaybackURL(timestamp))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSnapshotUnavailable, err)
	}
	if status != http.StatusOK {
		return "", fmt.Errorf("%w: status code %d", ErrSnapshotUnavailable, status)
	}

	return string(body), nil
}

// get issues a GET and reads the whole body
func (c *Client) get(ctx context.Context, reqURL string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("fetching page: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("reading body: %w", err)
	}

	return body, resp.StatusCode, nil
}

// parseIndex decodes a CDX JSON response. The first row names the columns of the rest.
func parseIndex(body []byte) ([]Snapshot, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return []Snapshot{}, nil
	}

	var rows [][]string
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("parsing index: %w", err)
	}

	if len(rows) <= 1 {
		return []Snapshot{}, nil
	}

	header := rows[0]
	snapshots := make([]Snapshot, 0, len(rows)-1)
	for _, row := range rows[1:] {
		fields := make(map[string]string, len(header))
		for i, key := range header {
			if i < len(row) {
				fields[key] = row[i]
			}
		}

		ts := fields["timestamp"]
		if ts == "" {
			continue
		}

		snapshots = append(snapshots, Snapshot{
			URLKey:     fields["urlkey"],
			Timestamp:  ts,
			Original:   fields["original"],
			MimeType:   fields["mimetype"],
			StatusCode: fields["statuscode"],
			Digest:     fields["digest"],
			Length:     fields["length"],
		})
	}

	return snapshots, nil
}

package wayback

import (
	"testing"
)

func TestParseIndex(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantErr  bool
		wantTS   []string
		checkRow func(*testing.T, []Snapshot)
	}{
		{
			name: "header labels rows",
			body: `[["urlkey","timestamp","original","mimetype","statuscode","digest","length"],
				["org,steel)/industry-data","20210115083012","https://www.steel.org/industry-data/","text/html","200","ABC","1234"],
				["org,steel)/industry-data","20210122090000","https://www.steel.org/industry-data/","text/html","200","DEF","1300"]]`,
			wantTS: []string{"20210115083012", "20210122090000"},
			checkRow: func(t *testing.T, snaps []Snapshot) {
				if snaps[0].Original != "https://www.steel.org/industry-data/" {
					t.Errorf("Original = %q", snaps[0].Original)
				}
				if snaps[0].Digest != "ABC" || snaps[1].Length != "1300" {
					t.Errorf("unexpected columns: %+v", snaps)
				}
			},
		},
		{
			name:   "column order follows header",
			body:   `[["original","timestamp"],["https://x/","20200101000000"]]`,
			wantTS: []string{"20200101000000"},
			checkRow: func(t *testing.T, snaps []Snapshot) {
				if snaps[0].Original != "https://x/" {
					t.Errorf("Original = %q, want https://x/", snaps[0].Original)
				}
			},
		},
		{
			name:   "rows without timestamp are dropped",
			body:   `[["timestamp","original"],["","https://x/"],["20200102","https://x/"],["20200103"]]`,
			wantTS: []string{"20200102", "20200103"},
		},
		{
			name:   "header only",
			body:   `[["urlkey","timestamp","original"]]`,
			wantTS: []string{},
		},
		{
			name:   "empty array",
			body:   `[]`,
			wantTS: []string{},
		},
		{
			name:   "empty body",
			body:   "  \n",
			wantTS: []string{},
		},
		{
			name:    "not json",
			body:    `<html>error</html>`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snaps, err := parseIndex([]byte(tt.body))
			if tt.wantErr {
				if err == nil {
					t.Error("parseIndex() expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("parseIndex() unexpected error: %v", err)
			}
			if snaps == nil {
				t.Fatal("parseIndex() returned nil slice")
			}
			if len(snaps) != len(tt.wantTS) {
				t.Fatalf("parseIndex() returned %d snapshots, want %d", len(snaps), len(tt.wantTS))
			}
			for i, ts := range tt.wantTS {
				if snaps[i].Timestamp != ts {
					t.Errorf("snaps[%d].Timestamp = %q, want %q", i, snaps[i].Timestamp, ts)
				}
			}
			if tt.checkRow != nil {
				tt.checkRow(t, snaps)
			}
		})
	}
}

func TestPlaybackURL(t *testing.T) {
	c := NewWithOptions(Options{ArchiveHost: "https://archive.example/", Target: "https://www.steel.org/industry-data/"})

	got := c.PlaybackURL("20210115083012")
	want := "https://archive.example/web/20210115083012/https://www.steel.org/industry-data/"
	if got != want {
		t.Errorf("PlaybackURL() = %q, want %q", got, want)
	}
}

func TestNew(t *testing.T) {
	c := New()

	if c == nil {
		t.Fatal("New() returned nil")
	}
	if c.client == nil {
		t.Fatal("client is nil")
	}
	if c.client.Timeout != Timeout {
		t.Errorf("client timeout = %v, want %v", c.client.Timeout, Timeout)
	}
	if c.cdxURL != CDXURL {
		t.Errorf("cdxURL = %q, want %q", c.cdxURL, CDXURL)
	}
	if c.Target() != TargetURL {
		t.Errorf("Target() = %q, want %q", c.Target(), TargetURL)
	}
}

func TestTransportError(t *testing.T) {
	withStatus := &TransportError{Op: "query", URL: "https://cdx", StatusCode: 503}
	if got := withStatus.Error(); got != "query https://cdx: unexpected status code: 503" {
		t.Errorf("Error() = %q", got)
	}
}

// Package wayback provides HTTP access to the Internet Archive for the steel.org industry-data page.
//
// The wayback package queries the CDX capture index for the snapshots of a target page taken within a
// year range (one per calendar day) and retrieves the archived HTML of individual captures through the
// public playback endpoint. Index failures are fatal and reported as *TransportError; playback failures
// are expected and reported as ErrSnapshotUnavailable so callers can skip the capture.
package wayback

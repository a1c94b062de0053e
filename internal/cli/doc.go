// Package cli implements the command-line interface for steel-wayback.
//
// The cli package provides the Cobra-based command that queries the Wayback Machine for
// archived copies of the AISI industry-data page, extracts the weekly district production
// figures from each capture, and writes the monthly regional averages as CSV and as a chart.
// It coordinates the config, wayback, pipeline, production and report packages.
package cli

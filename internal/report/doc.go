// Package report writes the monthly regional table to disk.
//
// The table is written as CSV with two-decimal cells and rendered as a line chart with one
// series per district. Output directories are created on demand; the image format follows
// the plot file's extension.
package report

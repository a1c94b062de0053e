// Package production provides the types and pure functions behind the AISI weekly
// raw steel production figures recovered from archived snapshots.
//
// A Reading holds the five district values found on one snapshot, a Record pins that
// reading to a reporting date, and Monthly folds a run's Records into per-month means.
// Regions are a closed, ordered set so every Record carries exactly five values.
package production

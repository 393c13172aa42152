// Package planner decides, per media file, which write steps to run and
// builds a FilePlan that the apply package executes.
//
// A plan always sets filesystem times when the record has a timestamp. The
// embedded step is planned only for formats that carry an embedded block,
// and is skipped when the probe shows the image already holds the same
// capture time and position (re-runs are no-ops).
package planner

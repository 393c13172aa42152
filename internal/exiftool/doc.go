// Package exiftool writes embedded capture time and GPS tags through
// exiftool running in stay-open mode (github.com/barasher/go-exiftool).
//
// A [Pool] holds up to one exiftool process per concurrent caller, started
// lazily and reused across files. exiftool's own error text is classified
// into a short [Reason] (errors.go) for the run summary.
package exiftool

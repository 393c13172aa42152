package sidecar

import (
	"fmt"
	"time"
)

// Coordinate is a validated WGS84 position. Altitude is meters above sea
// level; zero when the record carries none.
type Coordinate struct {
	Latitude  float64
	Longitude float64
	Altitude  float64
}

func (c Coordinate) String() string {
	return fmt.Sprintf("%.6f,%.6f", c.Latitude, c.Longitude)
}

// Record is the decoded content of one metadata record. Zero times mean
// absent. A Record is read-only once returned.
type Record struct {
	Path     string
	Title    string
	Taken    time.Time // photoTakenTime
	Created  time.Time // creationTime
	Modified time.Time // photoLastModifiedTime
	GPS      *Coordinate

	// Warnings lists fields that were present but unusable.
	Warnings []string
}

// Timestamp returns the capture time, falling back to the record creation
// time. ok is false when the record carries neither.
func (r Record) Timestamp() (time.Time, bool) {
	if !r.Taken.IsZero() {
		return r.Taken, true
	}
	if !r.Created.IsZero() {
		return r.Created, true
	}
	return time.Time{}, false
}

// DecodeError reports a record that could not be read or decoded. It is a
// warning: the Record returned alongside it has every field absent.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("metadata record %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

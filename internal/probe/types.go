package probe

import (
	"math"
	"time"
)

// ExifTimeLayout is the EXIF wall-clock layout used by DateTimeOriginal.
const ExifTimeLayout = "2006:01:02 15:04:05"

// coordTolerance is roughly 1 m; EXIF rationals rarely round-trip exactly.
const coordTolerance = 1e-5

// Position is an embedded GPS position in decimal degrees.
type Position struct {
	Latitude  float64
	Longitude float64
}

// Embedded holds the metadata fields currently stored in an image.
// DateTimeOriginal is the raw EXIF wall-clock string; empty when absent.
type Embedded struct {
	DateTimeOriginal string
	GPS              *Position
}

// HasTime reports whether the image carries a capture time equal to t
// rendered as wall-clock time in t's location.
func (e *Embedded) HasTime(t time.Time) bool {
	if e == nil || e.DateTimeOriginal == "" {
		return false
	}
	return e.DateTimeOriginal == t.Format(ExifTimeLayout)
}

// HasPosition reports whether the image carries GPS within tolerance of
// (lat, lon).
func (e *Embedded) HasPosition(lat, lon float64) bool {
	if e == nil || e.GPS == nil {
		return false
	}
	return math.Abs(e.GPS.Latitude-lat) < coordTolerance &&
		math.Abs(e.GPS.Longitude-lon) < coordTolerance
}

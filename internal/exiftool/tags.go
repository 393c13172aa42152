package exiftool

import (
	"math"
	"time"

	goexiftool "github.com/barasher/go-exiftool"

	"github.com/backmassage/photostamp/internal/sidecar"
)

// exifTimeLayout is the EXIF wall-clock layout.
const exifTimeLayout = "2006:01:02 15:04:05"

// Tags builds the exiftool field set for ts (wall clock in ts's location)
// and an optional GPS position. EXIF stores GPS magnitudes with separate
// hemisphere refs.
func Tags(path string, ts time.Time, gps *sidecar.Coordinate) goexiftool.FileMetadata {
	fm := goexiftool.EmptyFileMetadata()
	fm.File = path

	wall := ts.Format(exifTimeLayout)
	offset := ts.Format("-07:00")
	fm.SetString("DateTimeOriginal", wall)
	fm.SetString("CreateDate", wall)
	fm.SetString("OffsetTimeOriginal", offset)
	fm.SetString("OffsetTimeDigitized", offset)

	if gps == nil {
		return fm
	}
	fm.SetFloat("GPSLatitude", math.Abs(gps.Latitude))
	fm.SetString("GPSLatitudeRef", hemisphere(gps.Latitude, "North", "South"))
	fm.SetFloat("GPSLongitude", math.Abs(gps.Longitude))
	fm.SetString("GPSLongitudeRef", hemisphere(gps.Longitude, "East", "West"))
	if gps.Altitude != 0 {
		fm.SetFloat("GPSAltitude", math.Abs(gps.Altitude))
		fm.SetString("GPSAltitudeRef", hemisphere(gps.Altitude, "Above Sea Level", "Below Sea Level"))
	}
	return fm
}

func hemisphere(v float64, pos, neg string) string {
	if v < 0 {
		return neg
	}
	return pos
}

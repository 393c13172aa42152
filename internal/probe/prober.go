package probe

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rwcarlsen/goexif/exif"
)

// ErrNoEmbedded is returned when a file has no decodable EXIF block.
var ErrNoEmbedded = errors.New("no embedded metadata")

// Probe opens path and decodes its EXIF block.
func Probe(path string) (*Embedded, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("probe %q: %w", path, err)
	}
	defer f.Close()
	return Decode(f)
}

// Decode reads the EXIF block from r. Exported for testing without files.
func Decode(r io.Reader) (*Embedded, error) {
	x, err := exif.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoEmbedded, err)
	}
	return buildEmbedded(x), nil
}

// --- Conversion from goexif to domain types ---

func buildEmbedded(x *exif.Exif) *Embedded {
	e := &Embedded{}
	if tag, err := x.Get(exif.DateTimeOriginal); err == nil {
		if s, err := tag.StringVal(); err == nil {
			e.DateTimeOriginal = strings.TrimRight(strings.TrimSpace(s), "\x00")
		}
	}
	if lat, lon, err := x.LatLong(); err == nil {
		e.GPS = &Position{Latitude: lat, Longitude: lon}
	}
	return e
}

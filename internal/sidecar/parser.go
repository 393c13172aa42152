// Package sidecar decodes Takeout metadata records (the "*.json" files next
// to exported media). Decoding fails softly: a broken record yields an empty
// Record plus a [*DecodeError] the caller reports as a warning.
package sidecar

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"
)

// Parse reads and decodes the record at path.
func Parse(path string) (Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return Record{Path: path}, &DecodeError{Path: path, Err: err}
	}
	defer f.Close()
	return Decode(f, path)
}

// Decode decodes a record from r. path is recorded for reporting only.
func Decode(r io.Reader, path string) (Record, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Record{Path: path}, &DecodeError{Path: path, Err: err}
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return Record{Path: path}, &DecodeError{Path: path, Err: errors.New("empty record")}
	}

	var raw wireRecord
	if err := json.Unmarshal(data, &raw); err != nil {
		return Record{Path: path}, &DecodeError{Path: path, Err: err}
	}
	return buildRecord(path, &raw), nil
}

// --- Takeout JSON wire types ---

type wireRecord struct {
	Title                 string    `json:"title"`
	PhotoTakenTime        *wireTime `json:"photoTakenTime"`
	CreationTime          *wireTime `json:"creationTime"`
	PhotoLastModifiedTime *wireTime `json:"photoLastModifiedTime"`
	ModificationTime      *wireTime `json:"modificationTime"`
	GeoData               *wireGeo  `json:"geoData"`
	GeoDataExif           *wireGeo  `json:"geoDataExif"`
}

// wireTime.Timestamp is epoch seconds, as a string in current exports and a
// bare number in some older ones.
type wireTime struct {
	Timestamp json.RawMessage `json:"timestamp"`
	Formatted string          `json:"formatted"`
}

type wireGeo struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Altitude  float64 `json:"altitude"`
}

// --- Conversion from wire types to domain types ---

func buildRecord(path string, raw *wireRecord) Record {
	rec := Record{Path: path, Title: raw.Title}

	rec.Taken = convertTime(&rec, "photoTakenTime", raw.PhotoTakenTime)
	rec.Created = convertTime(&rec, "creationTime", raw.CreationTime)
	rec.Modified = convertTime(&rec, "photoLastModifiedTime", raw.PhotoLastModifiedTime)
	if rec.Modified.IsZero() {
		rec.Modified = convertTime(&rec, "modificationTime", raw.ModificationTime)
	}

	if c := convertGeo(&rec, "geoDataExif", raw.GeoDataExif); c != nil {
		rec.GPS = c
	} else {
		rec.GPS = convertGeo(&rec, "geoData", raw.GeoData)
	}
	return rec
}

func convertTime(rec *Record, field string, wt *wireTime) time.Time {
	if wt == nil {
		return time.Time{}
	}
	secs, err := parseEpoch(wt.Timestamp)
	if err != nil {
		rec.Warnings = append(rec.Warnings, fmt.Sprintf("%s: %v", field, err))
		return time.Time{}
	}
	if secs == 0 {
		return time.Time{}
	}
	return time.Unix(secs, 0).UTC()
}

// parseEpoch accepts a JSON number or string of whole seconds. Missing,
// null and empty values parse as 0.
func parseEpoch(raw json.RawMessage) (int64, error) {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return 0, nil
	}
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(raw, &str); err != nil {
			return 0, err
		}
		s = strings.TrimSpace(str)
		if s == "" {
			return 0, nil
		}
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("invalid timestamp %s", s)
	}
	return int64(f), nil
}

// convertGeo returns nil for absent, placeholder (0,0) and out-of-range
// positions. Out-of-range values add a warning.
func convertGeo(rec *Record, field string, g *wireGeo) *Coordinate {
	if g == nil {
		return nil
	}
	if g.Latitude == 0 && g.Longitude == 0 {
		return nil
	}
	if !(g.Latitude >= -90 && g.Latitude <= 90) {
		rec.Warnings = append(rec.Warnings, fmt.Sprintf("%s: latitude %v out of range", field, g.Latitude))
		return nil
	}
	if !(g.Longitude >= -180 && g.Longitude <= 180) {
		rec.Warnings = append(rec.Warnings, fmt.Sprintf("%s: longitude %v out of range", field, g.Longitude))
		return nil
	}
	return &Coordinate{Latitude: g.Latitude, Longitude: g.Longitude, Altitude: g.Altitude}
}

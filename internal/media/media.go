// Package media classifies media files into a closed set of kinds and
// formats and answers whether a file can carry embedded metadata.
package media

import (
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Kind is the closed set of media variants handled by a run.
type Kind int

const (
	KindStill      Kind = iota // Plain still image.
	KindVideo                  // Plain video.
	KindLiveStill              // Still half of a live-photo pair.
	KindLiveMotion             // Video half of a live-photo pair.
)

func (k Kind) String() string {
	switch k {
	case KindStill:
		return "still"
	case KindVideo:
		return "video"
	case KindLiveStill:
		return "live-still"
	case KindLiveMotion:
		return "live-motion"
	}
	return "unknown"
}

// IsLive reports whether k is one half of a live-photo pair.
func (k Kind) IsLive() bool { return k == KindLiveStill || k == KindLiveMotion }

// IsStill reports whether k is an image (plain or live).
func (k Kind) IsStill() bool { return k == KindStill || k == KindLiveStill }

// Format describes a container format derived from the file extension.
type Format struct {
	Name     string
	Video    bool
	Embedded bool // Format has an embedded metadata block we can write.
}

var formats = map[string]Format{
	".jpg":  {Name: "JPEG", Embedded: true},
	".jpeg": {Name: "JPEG", Embedded: true},
	".tif":  {Name: "TIFF", Embedded: true},
	".tiff": {Name: "TIFF", Embedded: true},
	".png":  {Name: "PNG", Embedded: true},
	".webp": {Name: "WebP", Embedded: true},
	".heic": {Name: "HEIC", Embedded: true},
	".heif": {Name: "HEIF", Embedded: true},
	".gif":  {Name: "GIF"},
	".bmp":  {Name: "BMP"},
	".mp4":  {Name: "MP4", Video: true},
	".m4v":  {Name: "M4V", Video: true},
	".mov":  {Name: "QuickTime", Video: true},
	".avi":  {Name: "AVI", Video: true},
	".mkv":  {Name: "Matroska", Video: true},
}

// FormatOf returns the format for path's extension (case-insensitive).
func FormatOf(path string) (Format, bool) {
	f, ok := formats[strings.ToLower(filepath.Ext(path))]
	return f, ok
}

// IsMedia reports whether path has a recognized media extension.
func IsMedia(path string) bool {
	_, ok := FormatOf(path)
	return ok
}

// Extensions returns the recognized extensions, sorted.
func Extensions() []string {
	out := make([]string, 0, len(formats))
	for ext := range formats {
		out = append(out, ext)
	}
	sort.Strings(out)
	return out
}

// File is one discovered media file. Identity is Path.
type File struct {
	Path    string
	Kind    Kind
	Format  Format
	ModTime time.Time
}

// New classifies path as a plain still or video. Live-photo pairing needs
// the directory context; see [PairLive].
func New(path string, modTime time.Time) (File, bool) {
	f, ok := FormatOf(path)
	if !ok {
		return File{}, false
	}
	kind := KindStill
	if f.Video {
		kind = KindVideo
	}
	return File{Path: path, Kind: kind, Format: f, ModTime: modTime}, true
}

// SupportsEmbedded reports whether an embedded metadata write applies.
func (f File) SupportsEmbedded() bool {
	return f.Kind.IsStill() && f.Format.Embedded
}

// Stem returns the base name without extension.
func (f File) Stem() string { return Stem(f.Path) }

// Stem returns the base name of path without its extension.
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// PairKey groups the two halves of a live-photo pair: same directory and
// the same stem, compared case-insensitively.
func PairKey(path string) string {
	return filepath.Join(filepath.Dir(path), strings.ToLower(Stem(path)))
}

// PairLive marks files that form live-photo pairs: a still and a video in
// the same directory sharing a stem. files is modified in place.
func PairLive(files []File) {
	type halves struct{ still, video bool }
	seen := make(map[string]*halves)
	for _, f := range files {
		k := PairKey(f.Path)
		h := seen[k]
		if h == nil {
			h = &halves{}
			seen[k] = h
		}
		if f.Kind.IsStill() {
			h.still = true
		} else {
			h.video = true
		}
	}
	for i := range files {
		h := seen[PairKey(files[i].Path)]
		if !h.still || !h.video {
			continue
		}
		if files[i].Kind.IsStill() {
			files[i].Kind = KindLiveStill
		} else {
			files[i].Kind = KindLiveMotion
		}
	}
}

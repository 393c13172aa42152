package locate

import (
	"io/fs"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/backmassage/photostamp/internal/media"
)

// RecordExt is the metadata record extension.
const RecordExt = ".json"

// albumFiles are album-level JSON files that describe no single media file.
var albumFiles = map[string]bool{
	"metadata.json":                     true,
	"print-subscriptions.json":          true,
	"shared_album_comments.json":        true,
	"user-generated-memory-titles.json": true,
}

// Index is a read-only snapshot of the records and media in a tree.
type Index struct {
	root string
	dirs map[string]*dirEntry
	// byKey maps a canonical key to every directory holding it, sorted.
	byKey   map[string][]string
	records int
}

type dirEntry struct {
	// records maps canonical key to record file names, sorted shortest
	// first, then lexicographically.
	records map[string][]string
	// media maps a lower-cased stem to media file names, for live-photo
	// sibling lookup.
	media map[string][]string
}

// NewIndex walks root once and indexes every metadata record and media file.
func NewIndex(root string) (*Index, error) {
	ix := &Index{
		root:  filepath.Clean(root),
		dirs:  make(map[string]*dirEntry),
		byKey: make(map[string][]string),
	}
	err := filepath.WalkDir(ix.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		name := d.Name()
		dir := filepath.Dir(path)
		switch {
		case IsRecord(name):
			key := CanonicalRecordName(name)
			e := ix.entry(dir)
			if len(e.records[key]) == 0 {
				ix.byKey[key] = append(ix.byKey[key], dir)
			}
			e.records[key] = append(e.records[key], name)
			ix.records++
		case media.IsMedia(name):
			stem := strings.ToLower(media.Stem(name))
			e := ix.entry(dir)
			e.media[stem] = append(e.media[stem], name)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, e := range ix.dirs {
		for _, names := range e.records {
			sortRecordNames(names)
		}
		for _, names := range e.media {
			sortSiblings(names)
		}
	}
	for _, dirs := range ix.byKey {
		sort.Strings(dirs)
	}
	return ix, nil
}

func (ix *Index) entry(dir string) *dirEntry {
	e := ix.dirs[dir]
	if e == nil {
		e = &dirEntry{
			records: make(map[string][]string),
			media:   make(map[string][]string),
		}
		ix.dirs[dir] = e
	}
	return e
}

// Root returns the cleaned root the index was built from.
func (ix *Index) Root() string { return ix.root }

// Records returns the number of indexed metadata records.
func (ix *Index) Records() int { return ix.records }

// Lookup returns the preferred record path for key in dir.
func (ix *Index) Lookup(dir, key string) (string, bool) {
	e := ix.dirs[filepath.Clean(dir)]
	if e == nil {
		return "", false
	}
	names := e.records[key]
	if len(names) == 0 {
		return "", false
	}
	return filepath.Join(filepath.Clean(dir), names[0]), true
}

// LookupElsewhere returns the preferred record path for key in the
// lexicographically first directory other than exclude.
func (ix *Index) LookupElsewhere(exclude, key string) (string, bool) {
	exclude = filepath.Clean(exclude)
	for _, dir := range ix.byKey[key] {
		if dir == exclude {
			continue
		}
		return ix.Lookup(dir, key)
	}
	return "", false
}

// Siblings returns the other media files in path's directory that share
// its stem (case-insensitively): still images first, then by name.
func (ix *Index) Siblings(path string) []string {
	dir := filepath.Dir(path)
	e := ix.dirs[dir]
	if e == nil {
		return nil
	}
	self := filepath.Base(path)
	var out []string
	for _, name := range e.media[strings.ToLower(media.Stem(self))] {
		if name != self {
			out = append(out, filepath.Join(dir, name))
		}
	}
	return out
}

// IsRecord reports whether name is a per-media metadata record.
func IsRecord(name string) bool {
	if !strings.EqualFold(filepath.Ext(name), RecordExt) {
		return false
	}
	return !albumFiles[strings.ToLower(name)]
}

var reTrailingCounter = regexp.MustCompile(`^(.+?)(\(\d+\))$`)

const supplementalSuffix = "supplemental-metadata"

// CanonicalRecordName returns the media name a record describes, which is
// the key candidates are matched against:
//
//	IMG_0001.jpg.json                         IMG_0001.jpg
//	IMG_0001.jpg(1).json                      IMG_0001(1).jpg
//	IMG_0001.jpg.supplemental-metadata.json   IMG_0001.jpg
//	IMG_0001.jpg.suppl(1).json                IMG_0001(1).jpg
//	IMG_0001.jpg..json                        IMG_0001.jpg
func CanonicalRecordName(name string) string {
	base := name[:len(name)-len(filepath.Ext(name))]

	var counter string
	if m := reTrailingCounter.FindStringSubmatch(base); m != nil {
		base, counter = m[1], m[2]
	}
	base = stripSupplemental(base)

	if counter != "" {
		ext := filepath.Ext(base)
		base = strings.TrimSuffix(base, ext) + counter + ext
	}
	return norm.NFC.String(base)
}

// stripSupplemental removes a trailing ".supplemental-metadata" segment,
// which Takeout may have truncated to any non-empty prefix.
func stripSupplemental(base string) string {
	i := strings.LastIndexByte(base, '.')
	if i <= 0 {
		return base
	}
	seg := base[i+1:]
	if seg == "" {
		// Cut down to its dot: "IMG.jpg..json".
		return base[:i]
	}
	if !strings.HasPrefix(supplementalSuffix, strings.ToLower(seg)) {
		return base
	}
	// Short segments only count when an extension precedes them.
	if filepath.Ext(base[:i]) == "" && len(seg) < 3 {
		return base
	}
	return base[:i]
}

// sortRecordNames orders by length, then lexicographically.
func sortRecordNames(names []string) {
	sort.Slice(names, func(i, j int) bool {
		if len(names[i]) != len(names[j]) {
			return len(names[i]) < len(names[j])
		}
		return names[i] < names[j]
	})
}

// sortSiblings orders stills before videos, then by name.
func sortSiblings(names []string) {
	sort.Slice(names, func(i, j int) bool {
		si, sj := isStill(names[i]), isStill(names[j])
		if si != sj {
			return si
		}
		return names[i] < names[j]
	})
}

func isStill(name string) bool {
	f, ok := media.FormatOf(name)
	return ok && !f.Video
}

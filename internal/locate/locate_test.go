package locate

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/backmassage/photostamp/internal/media"
	"github.com/backmassage/photostamp/internal/naming"
)

func touch(t *testing.T, root string, rel ...string) {
	t.Helper()
	for _, r := range rel {
		p := filepath.Join(root, filepath.FromSlash(r))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte("{}"), 0o644))
	}
}

func mediaFile(t *testing.T, root, rel string, kind media.Kind) media.File {
	t.Helper()
	f, ok := media.New(filepath.Join(root, filepath.FromSlash(rel)), time.Time{})
	require.True(t, ok, rel)
	f.Kind = kind
	return f
}

func locator(t *testing.T, root string) *Locator {
	t.Helper()
	ix, err := NewIndex(root)
	require.NoError(t, err)
	return New(ix)
}

func TestCanonicalRecordName(t *testing.T) {
	long := strings.Repeat("x", 40)
	tests := []struct {
		in   string
		want string
	}{
		{"IMG_0001.jpg.json", "IMG_0001.jpg"},
		{"IMG_0001.JPG.JSON", "IMG_0001.JPG"},
		{"IMG_0001.json", "IMG_0001"},
		{"IMG_0001.jpg(1).json", "IMG_0001(1).jpg"},
		{"IMG_0001(1).jpg.json", "IMG_0001(1).jpg"},
		{"IMG_0001.jpg.supplemental-metadata.json", "IMG_0001.jpg"},
		{"IMG_0001.jpg.supplemental-me.json", "IMG_0001.jpg"},
		{"IMG_0001.jpg.s.json", "IMG_0001.jpg"},
		{"IMG_0001.jpg..json", "IMG_0001.jpg"},
		{long + ".jpg..json", long + ".jpg"},
		{"IMG_0001.jpg.suppl(1).json", "IMG_0001(1).jpg"},
		{"IMG_0001.jpg.supplemental-metadata(2).json", "IMG_0001(2).jpg"},
		{long + ".jp.json", long + ".jp"},
		{"notes.s.json", "notes.s"},
		{"Café.jpg.json", "Café.jpg"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, CanonicalRecordName(tt.in))
		})
	}
}

func TestIsRecord(t *testing.T) {
	assert.True(t, IsRecord("IMG_0001.jpg.json"))
	assert.True(t, IsRecord("IMG_0001.JSON"))
	assert.False(t, IsRecord("metadata.json"))
	assert.False(t, IsRecord("print-subscriptions.json"))
	assert.False(t, IsRecord("IMG_0001.jpg"))
}

func TestLocate_Exact(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "2019/IMG_0001.jpg", "2019/IMG_0001.jpg.json")

	res := locator(t, root).Locate(mediaFile(t, root, "2019/IMG_0001.jpg", media.KindStill))
	assert.Equal(t, Resolved, res.Kind)
	assert.Equal(t, RuleExact, res.Rule)
	assert.Equal(t, filepath.Join(root, "2019", "IMG_0001.jpg.json"), res.Record)
	assert.Equal(t, naming.RuleIdentity, res.Candidate.Rule)
	require.Len(t, res.Trail, 1)
}

func TestLocate_DuplicateSuffix(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "a/IMG_0002(1).jpg", "a/IMG_0002.jpg.json")

	res := locator(t, root).Locate(mediaFile(t, root, "a/IMG_0002(1).jpg", media.KindStill))
	assert.Equal(t, Resolved, res.Kind)
	assert.Equal(t, filepath.Join(root, "a", "IMG_0002.jpg.json"), res.Record)
	assert.Equal(t, naming.RuleDuplicate, res.Candidate.Rule)
}

func TestLocate_TakeoutCounterPlacement(t *testing.T) {
	root := t.TempDir()
	touch(t, root,
		"a/IMG_0002(1).jpg",
		"a/IMG_0002.jpg.json",
		"a/IMG_0002.jpg(1).json",
	)

	res := locator(t, root).Locate(mediaFile(t, root, "a/IMG_0002(1).jpg", media.KindStill))
	assert.Equal(t, filepath.Join(root, "a", "IMG_0002.jpg(1).json"), res.Record,
		"the counter-bearing record belongs to the counter-bearing file")
	assert.Equal(t, naming.RuleIdentity, res.Candidate.Rule)
}

func TestLocate_EarliestCandidateWins(t *testing.T) {
	root := t.TempDir()
	touch(t, root,
		"a/IMG_0001-edited.jpg",
		"a/IMG_0001.jpg.json",
		"a/IMG_0001-edited.json",
	)

	res := locator(t, root).Locate(mediaFile(t, root, "a/IMG_0001-edited.jpg", media.KindStill))
	assert.Equal(t, filepath.Join(root, "a", "IMG_0001.jpg.json"), res.Record)
	assert.Equal(t, naming.RuleEdited, res.Candidate.Rule)
}

func TestLocate_TieBreakShortestName(t *testing.T) {
	root := t.TempDir()
	touch(t, root,
		"a/IMG_0001.jpg",
		"a/IMG_0001.jpg.supplemental-metadata.json",
		"a/IMG_0001.jpg.supplemental-met.json",
		"a/IMG_0001.jpg.suppl.json",
	)

	res := locator(t, root).Locate(mediaFile(t, root, "a/IMG_0001.jpg", media.KindStill))
	assert.Equal(t, filepath.Join(root, "a", "IMG_0001.jpg.suppl.json"), res.Record)
}

func TestLocate_Truncated(t *testing.T) {
	root := t.TempDir()
	name := strings.Repeat("p", 50) + ".jpg"
	record := strings.Repeat("p", 46) + ".json"
	touch(t, root, "a/"+name, "a/"+record)

	res := locator(t, root).Locate(mediaFile(t, root, "a/"+name, media.KindStill))
	assert.Equal(t, Resolved, res.Kind)
	assert.Equal(t, filepath.Join(root, "a", record), res.Record)
	assert.Equal(t, naming.RuleTruncated, res.Candidate.Rule)
}

func TestLocate_PairedSibling(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "a/IMG_1234.HEIC", "a/IMG_1234.MP4", "a/IMG_1234.HEIC.json")

	res := locator(t, root).Locate(mediaFile(t, root, "a/IMG_1234.MP4", media.KindLiveMotion))
	assert.Equal(t, Resolved, res.Kind)
	assert.Equal(t, RulePairedSibling, res.Rule)
	assert.Equal(t, filepath.Join(root, "a", "IMG_1234.HEIC.json"), res.Record)

	last := res.Trail[len(res.Trail)-1]
	assert.Equal(t, filepath.Join(root, "a", "IMG_1234.HEIC"), last.Via)
}

func TestLocate_PairedSiblingPrefersStill(t *testing.T) {
	root := t.TempDir()
	touch(t, root,
		"a/IMG_1234.HEIC", "a/IMG_1234.jpg", "a/IMG_1234.MP4", "a/IMG_1234.mov",
		"a/IMG_1234.jpg.json", "a/IMG_1234.mov.json",
	)

	res := locator(t, root).Locate(mediaFile(t, root, "a/IMG_1234.MP4", media.KindLiveMotion))
	assert.Equal(t, filepath.Join(root, "a", "IMG_1234.jpg.json"), res.Record,
		"stills are tried before videos")
}

func TestLocate_PairedSiblingOnlyForVideosAndPairs(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "a/IMG_1234.jpg", "a/IMG_1234.MP4", "a/IMG_1234.MP4.json")

	res := locator(t, root).Locate(mediaFile(t, root, "a/IMG_1234.jpg", media.KindStill))
	assert.Equal(t, Unresolved, res.Kind, "a plain still never borrows a record")

	var noted bool
	for _, a := range res.Trail {
		if a.Rule == RulePairedSibling {
			noted = true
			assert.Equal(t, "not part of a live-photo pair", a.Note)
			assert.Empty(t, a.Record)
		}
	}
	assert.True(t, noted, "paired-sibling evaluation is traced")
}

func TestLocate_LiveMotionWithoutStill(t *testing.T) {
	root := t.TempDir()
	touch(t, root,
		"a/IMG_1234.MP4", "a/IMG_1234.HEIC.json",
		"a/IMG_5555(1).MP4", "a/IMG_5555.JPG.json",
		"a/VID_0001.mov", "a/VID_0001.jpg.json",
	)
	loc := locator(t, root)

	tests := []struct {
		file string
		want string
		rule naming.Rule
	}{
		{"IMG_1234.MP4", "IMG_1234.HEIC.json", naming.RuleIdentity},
		{"IMG_5555(1).MP4", "IMG_5555.JPG.json", naming.RuleDuplicate},
		{"VID_0001.mov", "VID_0001.jpg.json", naming.RuleIdentity},
	}
	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			res := loc.Locate(mediaFile(t, root, "a/"+tt.file, media.KindVideo))
			assert.Equal(t, Resolved, res.Kind)
			assert.Equal(t, RulePairedSibling, res.Rule)
			assert.Equal(t, filepath.Join(root, "a", tt.want), res.Record)
			assert.Equal(t, tt.rule, res.Candidate.Rule)
		})
	}
}

func TestLocate_DotOnlySupplementalRecord(t *testing.T) {
	root := t.TempDir()
	name := strings.Repeat("7", 40) + ".jpg"
	touch(t, root, "a/"+name, "a/"+name+"..json")

	res := locator(t, root).Locate(mediaFile(t, root, "a/"+name, media.KindStill))
	assert.Equal(t, Resolved, res.Kind)
	assert.Equal(t, filepath.Join(root, "a", name+"..json"), res.Record)
}

func TestLocate_Elsewhere(t *testing.T) {
	root := t.TempDir()
	touch(t, root,
		"Photos from 2019/IMG_0005.jpg",
		"b-album/IMG_0005.jpg.json",
		"a-album/IMG_0005.jpg.json",
	)

	res := locator(t, root).Locate(mediaFile(t, root, "Photos from 2019/IMG_0005.jpg", media.KindStill))
	assert.Equal(t, ResolvedElsewhere, res.Kind)
	assert.Equal(t, RuleElsewhere, res.Rule)
	assert.Equal(t, filepath.Join(root, "a-album", "IMG_0005.jpg.json"), res.Record)
}

func TestLocate_SameDirectoryBeatsElsewhere(t *testing.T) {
	root := t.TempDir()
	touch(t, root,
		"a/IMG_0002(1).jpg",
		"a/IMG_0002.jpg.json",
		"b/IMG_0002(1).jpg.json",
	)

	res := locator(t, root).Locate(mediaFile(t, root, "a/IMG_0002(1).jpg", media.KindStill))
	assert.Equal(t, Resolved, res.Kind)
	assert.Equal(t, filepath.Join(root, "a", "IMG_0002.jpg.json"), res.Record)
}

func TestLocate_Unresolved(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "a/VID_0003.mp4", "a/IMG_0001.jpg.json", "a/metadata.json")

	res := locator(t, root).Locate(mediaFile(t, root, "a/VID_0003.mp4", media.KindVideo))
	assert.Equal(t, Unresolved, res.Kind)
	assert.Empty(t, res.Record)
	assert.NotEmpty(t, res.Trail, "every evaluated rule is traced")
	for _, a := range res.Trail {
		assert.Empty(t, a.Record)
	}
}

func TestLocate_DeterministicAndConcurrent(t *testing.T) {
	root := t.TempDir()
	touch(t, root,
		"a/IMG_0001.jpg", "a/IMG_0001.jpg.json",
		"a/IMG_0002(1).jpg", "a/IMG_0002.jpg.json",
		"b/IMG_0003.jpg", "c/IMG_0003.jpg.json",
	)
	l := locator(t, root)
	files := []media.File{
		mediaFile(t, root, "a/IMG_0001.jpg", media.KindStill),
		mediaFile(t, root, "a/IMG_0002(1).jpg", media.KindStill),
		mediaFile(t, root, "b/IMG_0003.jpg", media.KindStill),
	}
	want := make([]Result, len(files))
	for i, f := range files {
		want[i] = l.Locate(f)
	}

	var wg sync.WaitGroup
	for n := 0; n < 8; n++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i, f := range files {
				assert.Equal(t, want[i], l.Locate(f))
			}
		}()
	}
	wg.Wait()
}

func TestIndex_Counts(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "a/x.jpg.json", "a/metadata.json", "b/y.json", "b/y.png")
	ix, err := NewIndex(root)
	require.NoError(t, err)
	assert.Equal(t, 2, ix.Records())
	assert.Equal(t, filepath.Clean(root), ix.Root())
}

func TestNewIndex_MissingRoot(t *testing.T) {
	_, err := NewIndex(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

package naming

import (
	"regexp"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCandidates(t *testing.T) {
	long := strings.Repeat("a", 46)
	cases := []struct {
		name string
		in   string
		want []string
	}{
		{
			name: "plain",
			in:   "IMG_0001.jpg",
			want: []string{"IMG_0001.jpg", "IMG_0001"},
		},
		{
			name: "path uses base only",
			in:   "/takeout/Photos from 2019/IMG_0001.jpg",
			want: []string{"IMG_0001.jpg", "IMG_0001"},
		},
		{
			name: "duplicate counter",
			in:   "IMG_0002(1).jpg",
			want: []string{"IMG_0002(1).jpg", "IMG_0002.jpg", "IMG_0002(1)", "IMG_0002"},
		},
		{
			name: "duplicate counter with space",
			in:   "IMG_0002 (3).jpg",
			want: []string{"IMG_0002 (3).jpg", "IMG_0002.jpg", "IMG_0002 (3)", "IMG_0002"},
		},
		{
			name: "edited",
			in:   "IMG_0001-edited.jpg",
			want: []string{"IMG_0001-edited.jpg", "IMG_0001.jpg", "IMG_0001-edited", "IMG_0001"},
		},
		{
			name: "edited upper case",
			in:   "IMG-EDITED.JPG",
			want: []string{"IMG-EDITED.JPG", "IMG.JPG", "IMG-EDITED", "IMG"},
		},
		{
			name: "edited german",
			in:   "Foto-bearbeitet.jpg",
			want: []string{"Foto-bearbeitet.jpg", "Foto.jpg", "Foto-bearbeitet", "Foto"},
		},
		{
			name: "edited japanese",
			in:   "写真-編集済み.jpg",
			want: []string{"写真-編集済み.jpg", "写真.jpg", "写真-編集済み", "写真"},
		},
		{
			name: "edited and duplicate",
			in:   "IMG_0001-edited(1).jpg",
			want: []string{
				"IMG_0001-edited(1).jpg",
				"IMG_0001.jpg",
				"IMG_0001-edited.jpg",
				"IMG_0001-edited(1)",
				"IMG_0001",
				"IMG_0001-edited",
			},
		},
		{
			name: "truncated dedupes stem",
			in:   long + ".jpg",
			want: []string{long + ".jpg", long + ".j", long + ".", long},
		},
		{
			name: "no extension",
			in:   "README",
			want: []string{"README"},
		},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Names(tt.in))
		})
	}
}

func TestCandidates_RuleTags(t *testing.T) {
	got := CandidateList("IMG_0002(1).jpg")
	require.Len(t, got, 4)
	assert.Equal(t, RuleIdentity, got[0].Rule)
	assert.Equal(t, RuleDuplicate, got[1].Rule)
	assert.Equal(t, RuleStem, got[2].Rule)
	assert.Equal(t, RuleStem, got[3].Rule)
}

func TestCandidates_UnsuffixedBeforeSuffixedVariants(t *testing.T) {
	reCounter := regexp.MustCompile(`\(\d+\)`)
	cases := []struct {
		in         string
		unsuffixed string
	}{
		{"IMG_0002(1).jpg", "IMG_0002.jpg"},
		{"IMG_0002(12).jpeg", "IMG_0002.jpeg"},
		{"Screenshot 2019-01-01 at 10.00.00 (2).png", "Screenshot 2019-01-01 at 10.00.00.png"},
		{"IMG_0001-edited(1).jpg", "IMG_0001.jpg"},
		{strings.Repeat("b", 50) + "(1).jpg", strings.Repeat("b", 50) + ".jpg"},
	}
	for _, tt := range cases {
		t.Run(tt.in, func(t *testing.T) {
			got := Names(tt.in)
			idx := slices.Index(got, tt.unsuffixed)
			require.Positive(t, idx, "missing %q in %v", tt.unsuffixed, got)
			for i := 1; i < idx; i++ {
				assert.False(t, reCounter.MatchString(got[i]),
					"suffixed %q precedes %q", got[i], tt.unsuffixed)
			}
		})
	}
}

func TestCandidates_NFC(t *testing.T) {
	decomposed := "Cafe\u0301.jpg"
	got := Names(decomposed)
	require.NotEmpty(t, got)
	assert.Equal(t, "Caf\u00e9.jpg", got[0])
}

func TestCandidates_Restartable(t *testing.T) {
	seq := Candidates("IMG_0001-edited(1).jpg")

	var first, second []Candidate
	for c := range seq {
		first = append(first, c)
	}
	for c := range seq {
		second = append(second, c)
	}
	assert.Equal(t, first, second)

	var got []Candidate
	for c := range seq {
		got = append(got, c)
		if len(got) == 2 {
			break
		}
	}
	assert.Equal(t, first[:2], got)
}

package naming

import (
	"iter"
	"path/filepath"
	"slices"

	"golang.org/x/text/unicode/norm"
)

// Candidate is one possible record base name and the rule that derived it.
type Candidate struct {
	Name string
	Rule Rule
}

// Candidates returns the ordered, deduplicated candidate base names for
// filename (a base name or a path; only the base is used). Names are NFC
// normalized. The sequence is lazy and may be ranged over any number of
// times.
func Candidates(filename string) iter.Seq[Candidate] {
	base := norm.NFC.String(filepath.Base(filename))
	return func(yield func(Candidate) bool) {
		produced := []Candidate{{Name: base, Rule: RuleIdentity}}
		seen := map[string]bool{base: true}
		if !yield(produced[0]) {
			return
		}
		for _, rule := range Rules {
			n := len(produced)
			for i := 0; i < n; i++ {
				src := produced[i]
				if rule.Sources != nil && !slices.Contains(rule.Sources, src.Rule) {
					continue
				}
				for _, name := range rule.Derive(src.Name) {
					name = norm.NFC.String(name)
					if seen[name] {
						continue
					}
					seen[name] = true
					c := Candidate{Name: name, Rule: rule.Name}
					produced = append(produced, c)
					if !yield(c) {
						return
					}
				}
			}
		}
	}
}

// CandidateList collects [Candidates] into a slice.
func CandidateList(filename string) []Candidate {
	return slices.Collect(Candidates(filename))
}

// Names returns just the names of [CandidateList].
func Names(filename string) []string {
	var out []string
	for c := range Candidates(filename) {
		out = append(out, c.Name)
	}
	return out
}

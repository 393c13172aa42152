package locate

import (
	"path/filepath"
	"strings"

	"github.com/backmassage/photostamp/internal/media"
	"github.com/backmassage/photostamp/internal/naming"
)

// Kind is the resolution outcome for one media file.
type Kind int

const (
	Unresolved Kind = iota
	Resolved
	ResolvedElsewhere
)

func (k Kind) String() string {
	switch k {
	case Resolved:
		return "resolved"
	case ResolvedElsewhere:
		return "resolved-elsewhere"
	}
	return "unresolved"
}

// Rule tags recorded on a Result.
const (
	RuleExact         = "exact"
	RulePairedSibling = "paired-sibling"
	RuleElsewhere     = "elsewhere"
)

// Attempt is one lookup made while resolving a file, kept for --debug.
type Attempt struct {
	Rule      string
	Candidate naming.Candidate
	Via       string // Sibling path for paired-sibling attempts.
	Record    string // Matched record path; empty on a miss.
	Note      string // Why a rule made no lookup.
}

// Result is the outcome of [Locator.Locate]. Record is empty when Kind is
// Unresolved.
type Result struct {
	Kind      Kind
	Record    string
	Rule      string
	Candidate naming.Candidate
	Trail     []Attempt
}

// Rule is one entry of the ordered lookup table. Match must not mutate the
// index; it appends every lookup it makes to trail.
type Rule struct {
	Name  string
	Match func(ix *Index, f media.File, trail *[]Attempt) (Result, bool)
}

// Rules is the default lookup order.
var Rules = []Rule{
	{Name: RuleExact, Match: matchExact},
	{Name: RulePairedSibling, Match: matchPairedSibling},
	{Name: RuleElsewhere, Match: matchElsewhere},
}

// Locator resolves media files against an [Index].
type Locator struct {
	ix    *Index
	rules []Rule
}

// New returns a Locator over ix using [Rules].
func New(ix *Index) *Locator {
	return &Locator{ix: ix, rules: Rules}
}

// Locate evaluates the rules in order and returns the first match, or an
// Unresolved result carrying the full trail.
func (l *Locator) Locate(f media.File) Result {
	var trail []Attempt
	for _, r := range l.rules {
		if res, ok := r.Match(l.ix, f, &trail); ok {
			res.Trail = trail
			return res
		}
	}
	return Result{Kind: Unresolved, Trail: trail}
}

func matchExact(ix *Index, f media.File, trail *[]Attempt) (Result, bool) {
	return lookupSameDir(ix, f.Path, RuleExact, "", trail)
}

// livePairExts are the still extensions a motion clip's record is named
// after (IMG_1234.MP4 → IMG_1234.HEIC.json).
var livePairExts = []string{".HEIC", ".JPG", ".heic", ".jpg"}

// matchPairedSibling reuses the record of the other half of a live-photo
// pair. Siblings on disk are resolved the same way [matchExact] would; a
// video then tries records named after its still, which covers clips whose
// still was never exported.
func matchPairedSibling(ix *Index, f media.File, trail *[]Attempt) (Result, bool) {
	if !f.Kind.IsLive() && f.Kind.IsStill() {
		*trail = append(*trail, Attempt{
			Rule:      RulePairedSibling,
			Candidate: naming.Candidate{Name: filepath.Base(f.Path), Rule: naming.RuleIdentity},
			Note:      "not part of a live-photo pair",
		})
		return Result{}, false
	}

	// --- Siblings on disk ---
	if f.Kind.IsLive() {
		for _, sib := range ix.Siblings(f.Path) {
			if res, ok := lookupSameDir(ix, sib, RulePairedSibling, sib, trail); ok {
				return res, true
			}
		}
	}
	if f.Kind.IsStill() {
		return Result{}, false
	}

	// --- Records named after the still ---
	dir := filepath.Dir(f.Path)
	for _, stem := range pairStems(f.Path) {
		for _, ext := range livePairExts {
			c := naming.Candidate{Name: stem.Name + ext, Rule: stem.Rule}
			rec, ok := ix.Lookup(dir, c.Name)
			*trail = append(*trail, Attempt{Rule: RulePairedSibling, Candidate: c, Record: rec})
			if ok {
				return Result{Kind: Resolved, Record: rec, Rule: RulePairedSibling, Candidate: c}, true
			}
		}
	}
	return Result{}, false
}

// pairStems returns the extensionless identity and duplicate-stripped
// candidates of path.
func pairStems(path string) []naming.Candidate {
	var out []naming.Candidate
	for c := range naming.Candidates(path) {
		if c.Rule != naming.RuleIdentity && c.Rule != naming.RuleDuplicate {
			continue
		}
		c.Name = strings.TrimSuffix(c.Name, filepath.Ext(c.Name))
		out = append(out, c)
	}
	return out
}

func matchElsewhere(ix *Index, f media.File, trail *[]Attempt) (Result, bool) {
	dir := filepath.Dir(f.Path)
	for c := range naming.Candidates(f.Path) {
		rec, ok := ix.LookupElsewhere(dir, c.Name)
		*trail = append(*trail, Attempt{Rule: RuleElsewhere, Candidate: c, Record: rec})
		if ok {
			return Result{Kind: ResolvedElsewhere, Record: rec, Rule: RuleElsewhere, Candidate: c}, true
		}
	}
	return Result{}, false
}

func lookupSameDir(ix *Index, path, rule, via string, trail *[]Attempt) (Result, bool) {
	dir := filepath.Dir(path)
	for c := range naming.Candidates(path) {
		rec, ok := ix.Lookup(dir, c.Name)
		*trail = append(*trail, Attempt{Rule: rule, Candidate: c, Via: via, Record: rec})
		if ok {
			return Result{Kind: Resolved, Record: rec, Rule: rule, Candidate: c}, true
		}
	}
	return Result{}, false
}

package naming

import (
	"path/filepath"
	"regexp"
	"strings"
)

// Rule names the transformation that produced a candidate.
type Rule string

const (
	RuleIdentity  Rule = "identity"
	RuleEdited    Rule = "edited"
	RuleDuplicate Rule = "duplicate"
	RuleTruncated Rule = "truncated"
	RuleStem      Rule = "stem"
)

// DeriveRule pairs a rule name with a pure derivation. Rules are evaluated
// in order by [Candidates]; each sees every candidate produced before it.
// Sources restricts which candidates the rule derives from (nil means all).
type DeriveRule struct {
	Name    Rule
	Derive  func(name string) []string
	Sources []Rule
}

// TruncationLengths are the rune lengths Takeout cuts long record names to.
var TruncationLengths = []int{48, 47, 46}

// Rules is the ordered derivation table after the identity candidate.
var Rules = []DeriveRule{
	{Name: RuleEdited, Derive: stripEdited},
	{Name: RuleDuplicate, Derive: stripDuplicate},
	{Name: RuleTruncated, Derive: truncate},
	{
		Name:    RuleStem,
		Derive:  dropExtension,
		Sources: []Rule{RuleIdentity, RuleEdited, RuleDuplicate},
	},
}

// Edit markers appended by the Photos editor, per export language. A
// duplicate counter after the marker belongs to the edited copy and is
// stripped with it.
var reEdited = regexp.MustCompile(
	`(?i)-(?:edited|modified|modifié|bearbeitet|modificato|modificado|bewerkt|編集済み)(?:\s*\(\d+\))?$`)

var reDuplicate = regexp.MustCompile(`\s*\(\d+\)$`)

// splitExt splits name into stem and extension (with dot).
func splitExt(name string) (string, string) {
	ext := filepath.Ext(name)
	return strings.TrimSuffix(name, ext), ext
}

func stripEdited(name string) []string {
	stem, ext := splitExt(name)
	if !reEdited.MatchString(stem) {
		return nil
	}
	return []string{reEdited.ReplaceAllString(stem, "") + ext}
}

func stripDuplicate(name string) []string {
	stem, ext := splitExt(name)
	stripped := reDuplicate.ReplaceAllString(stem, "")
	if stripped == stem || stripped == "" {
		return nil
	}
	return []string{stripped + ext}
}

func truncate(name string) []string {
	r := []rune(name)
	var out []string
	for _, n := range TruncationLengths {
		if len(r) > n {
			out = append(out, string(r[:n]))
		}
	}
	return out
}

func dropExtension(name string) []string {
	stem, ext := splitExt(name)
	if ext == "" || stem == "" {
		return nil
	}
	return []string{stem}
}

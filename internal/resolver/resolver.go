// Package resolver decides which single candidate, if any, a normalized
// comment refers to.
package resolver

import (
	"regexp"
	"strings"

	"github.com/AbhishekSingh805138/Comment-Analyzer/internal/domain"
)

type entry struct {
	id    int64
	terms []*regexp.Regexp
}

// Registry is a per-batch snapshot of all candidates with their match terms
// compiled. Registry order is the tie-break order: the first candidate with
// any matching term wins, regardless of where it appears in the text.
type Registry struct {
	entries []entry
}

// NewRegistry compiles boundary patterns for every candidate's aliases plus
// its canonical name, all lowercased. Blank terms are skipped, so a candidate
// with no usable terms simply never matches.
func NewRegistry(candidates []domain.Candidate) *Registry {
	reg := &Registry{entries: make([]entry, 0, len(candidates))}
	for _, cand := range candidates {
		e := entry{id: cand.ID}
		for _, alias := range cand.Aliases {
			if p := compileTerm(alias); p != nil {
				e.terms = append(e.terms, p)
			}
		}
		if p := compileTerm(cand.Name); p != nil {
			e.terms = append(e.terms, p)
		}
		reg.entries = append(reg.entries, e)
	}
	return reg
}

// compileTerm builds a whole-word pattern for a literal term. Regex-special
// characters in aliases are escaped, never interpreted.
func compileTerm(term string) *regexp.Regexp {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return nil
	}
	p, err := regexp.Compile(`\b` + regexp.QuoteMeta(term) + `\b`)
	if err != nil {
		return nil
	}
	return p
}

// Resolve scans candidates in registry order and returns the id of the first
// one with any term matching the text as whole word(s). Empty text never
// matches.
func (r *Registry) Resolve(text string) (int64, bool) {
	if text == "" {
		return 0, false
	}
	for _, e := range r.entries {
		for _, term := range e.terms {
			if term.MatchString(text) {
				return e.id, true
			}
		}
	}
	return 0, false
}

// Len reports how many candidates the registry holds.
func (r *Registry) Len() int {
	return len(r.entries)
}

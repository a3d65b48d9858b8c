// Package patterns holds the ordered regular-expression families used to pull
// paper metadata out of filenames, folder names and document text.
//
// Each field owns a Family: an ordered list of Matchers tried first to last.
// The first match a field validator accepts wins; a rejected match falls
// through to the next alternative. Ordering encodes confidence: labelled,
// specific shapes come first and generic catch-alls last.
package patterns

import (
	"regexp"
	"strings"
)

// Matcher is a single named alternative within a Family.
type Matcher struct {
	Name  string
	re    *regexp.Regexp
	group int
}

// New compiles a case-insensitive matcher that captures group 1.
func New(name, expr string) Matcher {
	return NewGroup(name, expr, 1)
}

// NewGroup compiles a case-insensitive matcher capturing the given group.
func NewGroup(name, expr string, group int) Matcher {
	return Matcher{Name: name, re: regexp.MustCompile(`(?i)` + expr), group: group}
}

// Match returns the captured group of the leftmost match in text.
func (m Matcher) Match(text string) (string, bool) {
	sub := m.re.FindStringSubmatch(text)
	if sub == nil || m.group >= len(sub) {
		return "", false
	}
	return sub[m.group], true
}

// Submatch returns every capture group of the leftmost match, or nil.
func (m Matcher) Submatch(text string) []string {
	return m.re.FindStringSubmatch(text)
}

// Accept validates and normalizes a raw capture. Returning false rejects the
// capture so the next matcher in the family is tried.
type Accept func(raw string) (string, bool)

// Family is an ordered list of alternatives for one field.
type Family []Matcher

// First walks the family in order and returns the first capture accepted by
// accept, together with the name of the matcher that produced it. A nil
// accept takes any non-empty capture.
func (f Family) First(text string, accept Accept) (value, matcher string, ok bool) {
	if accept == nil {
		accept = NonEmpty
	}
	for _, m := range f {
		raw, found := m.Match(text)
		if !found {
			continue
		}
		if v, good := accept(raw); good {
			return v, m.Name, true
		}
	}
	return "", "", false
}

// NonEmpty accepts any capture that is not blank after trimming.
func NonEmpty(raw string) (string, bool) {
	v := strings.TrimSpace(raw)
	return v, v != ""
}

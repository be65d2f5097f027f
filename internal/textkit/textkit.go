// Package textkit provides the tokenization and normalization primitives
// shared by the crawler filters, the job scorer and the resume tailoring
// engine. All matching in the pipeline happens over the lowercase token
// sets produced here.
package textkit

import (
	"regexp"
	"sort"
	"strings"
)

var wordRE = regexp.MustCompile(`[a-z][a-z0-9+.-]{1,}`)

var wsRE = regexp.MustCompile(`\s+`)

// Set is a set of lowercase tokens.
type Set map[string]struct{}

// NewSet builds a Set from the given tokens.
func NewSet(tokens ...string) Set {
	s := make(Set, len(tokens))
	for _, t := range tokens {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" {
			s[t] = struct{}{}
		}
	}
	return s
}

// Has reports whether tok is in the set.
func (s Set) Has(tok string) bool {
	_, ok := s[tok]
	return ok
}

// Add inserts tok into the set.
func (s Set) Add(tok string) {
	if tok != "" {
		s[tok] = struct{}{}
	}
}

// Union merges other into a new set.
func (s Set) Union(other Set) Set {
	out := make(Set, len(s)+len(other))
	for t := range s {
		out[t] = struct{}{}
	}
	for t := range other {
		out[t] = struct{}{}
	}
	return out
}

// Intersects reports whether the two sets share at least one token.
func (s Set) Intersects(other Set) bool {
	small, big := s, other
	if len(big) < len(small) {
		small, big = big, small
	}
	for t := range small {
		if _, ok := big[t]; ok {
			return true
		}
	}
	return false
}

// IntersectionLen returns the size of the intersection of the two sets.
func (s Set) IntersectionLen(other Set) int {
	small, big := s, other
	if len(big) < len(small) {
		small, big = big, small
	}
	n := 0
	for t := range small {
		if _, ok := big[t]; ok {
			n++
		}
	}
	return n
}

// Subset reports whether every token of s is in other.
func (s Set) Subset(other Set) bool {
	for t := range s {
		if _, ok := other[t]; !ok {
			return false
		}
	}
	return true
}

// Sorted returns the tokens in lexical order.
func (s Set) Sorted() []string {
	out := make([]string, 0, len(s))
	for t := range s {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of tokens in the set.
func (s Set) Len() int { return len(s) }

// canonSingles maps single-token spellings onto one canonical form so
// either spelling of a term matches the other.
var canonSingles = map[string]string{
	"front-end": "frontend",
	"back-end":  "backend",
	"js":        "javascript",
	"ts":        "typescript",
	"reactjs":   "react",
	"postgres":  "postgresql",
	"sklearn":   "scikit-learn",
	"wasm":      "webassembly",
	"k8s":       "kubernetes",
}

// Tokenize lowercases text, extracts alphanumeric-plus-`+.-` tokens and
// expands variants: a token ending in `.` or `-` also emits the stripped
// form (so a sentence-final "SQL." still matches "sql"), hyphenated
// tokens also emit their split parts and the de-hyphenated form, and
// known synonym clusters are applied in both directions (ml <-> machine
// learning, frontend/front-end, and so on). Empty input yields an empty,
// non-nil set.
func Tokenize(text string) Set {
	text = strings.ReplaceAll(strings.ToLower(text), "/", " ")
	raw := wordRE.FindAllString(text, -1)

	expanded := make(Set, len(raw)*2)
	for _, t := range raw {
		expanded.Add(t)
		t = strings.TrimRight(t, ".-")
		if t == "" {
			continue
		}
		expanded.Add(t)
		if strings.Contains(t, "-") {
			for _, part := range strings.Split(t, "-") {
				expanded.Add(part)
			}
			expanded.Add(strings.ReplaceAll(t, "-", ""))
		}
	}

	final := make(Set, len(expanded))
	for t := range expanded {
		c := t
		if canon, ok := canonSingles[t]; ok {
			c = canon
		}
		final.Add(c)
		switch c {
		case "ml":
			final.Add("machine")
			final.Add("learning")
		case "machine", "learning":
			final.Add("ml")
		case "frontend", "front":
			final.Add("frontend")
			final.Add("front")
			final.Add("end")
		case "backend", "back":
			final.Add("backend")
			final.Add("back")
			final.Add("end")
		}
	}
	return final
}

// AsList coerces an unvalidated profile value (nil, scalar or list) into a
// slice of strings. Upstream profile data is not validated, so every field
// that should be a list goes through here once at the ingestion boundary.
func AsList(v any) []string {
	switch val := v.(type) {
	case nil:
		return nil
	case string:
		if strings.TrimSpace(val) == "" {
			return nil
		}
		return []string{val}
	case []string:
		return val
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

// TokensFromTerms tokenizes each term of a heterogeneous profile field
// (string, list or nil) into a single normalized token set.
func TokensFromTerms(terms any) Set {
	out := make(Set)
	for _, term := range AsList(terms) {
		for t := range Tokenize(term) {
			out.Add(t)
		}
	}
	return out
}

// NormalizeWS collapses runs of whitespace to single spaces and trims.
func NormalizeWS(s string) string {
	return strings.TrimSpace(wsRE.ReplaceAllString(s, " "))
}

// NormalizeTerm maps a phrase-level synonym onto its canonical spelling
// and lowercases it. Unlike Tokenize, the phrase is kept whole.
func NormalizeTerm(term string) string {
	t := strings.ToLower(strings.TrimSpace(term))
	if canon, ok := phraseSynonyms[t]; ok {
		return canon
	}
	return t
}

// phraseSynonyms canonicalizes whole vocabulary entries before keyword
// matching so profile spellings line up with JD spellings.
var phraseSynonyms = map[string]string{
	"js":         "javascript",
	"ts":         "typescript",
	"reactjs":    "react",
	"ml":         "machine learning",
	"cv":         "computer vision",
	"postgres":   "postgresql",
	"gh actions": "github actions",
	"gh-actions": "github actions",
	"ci/cd":      "ci",
	"llm":        "machine learning",
	"rest":       "rest api",
	"etl":        "data pipeline",
}

// ContainsAny reports whether text contains any of the needles,
// case-insensitively.
func ContainsAny(text string, needles []string) bool {
	t := strings.ToLower(text)
	for _, n := range needles {
		n = strings.ToLower(n)
		if n != "" && strings.Contains(t, n) {
			return true
		}
	}
	return false
}

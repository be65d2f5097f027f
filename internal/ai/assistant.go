// Package ai defines the assistant contract for per-job tailoring: a
// one-line targeted summary plus ATS keywords, and optional runtime
// clause policies. Every call has a deterministic fallback so drafting
// works with no model configured.
package ai

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/jobcopilot/jobcopilot/internal/tailor/policy"
)

// Snippets is the structured tailoring output for one job.
type Snippets struct {
	SummarySentence string   `json:"summary_sentence"`
	Keywords        []string `json:"keywords"`
	Notes           string   `json:"notes"`
}

// Request carries the per-job context sent to the assistant. AllowedVocab
// and JDKeywords are already normalized by the caller; Banlist entries are
// matched case-insensitively against returned keywords and clauses.
type Request struct {
	JobTitle     string
	JDText       string
	AllowedVocab []string
	JDKeywords   []string
	Banlist      []string
}

type Assistant interface {
	CraftSnippets(ctx context.Context, req *Request) (*Snippets, error)
	SuggestPolicies(ctx context.Context, req *Request) ([]policy.Policy, error)
}

// MaxKeywords caps the keyword list carried into document properties.
const MaxKeywords = 12

var wsRE = regexp.MustCompile(`\s+`)

// CollapseWS squeezes runs of whitespace to single spaces and trims.
func CollapseWS(s string) string {
	return wsRE.ReplaceAllString(strings.TrimSpace(s), " ")
}

// Fallback builds deterministic snippets from the JD keywords alone. It is
// used when no assistant is configured and when a model call fails.
func Fallback(req *Request) *Snippets {
	top := strings.Join(head(req.JDKeywords, 6), ", ")
	return &Snippets{
		SummarySentence: CollapseWS(fmt.Sprintf("Targeted for %s: hands-on with %s.", req.JobTitle, top)),
		Keywords:        head(req.JDKeywords, MaxKeywords),
		Notes:           "fallback_no_llm",
	}
}

// FilterBanned drops keywords whose lowercase form appears in banlist.
func FilterBanned(keywords, banlist []string) []string {
	banned := make(map[string]struct{}, len(banlist))
	for _, b := range banlist {
		if b = strings.ToLower(strings.TrimSpace(b)); b != "" {
			banned[b] = struct{}{}
		}
	}
	out := make([]string, 0, len(keywords))
	for _, k := range keywords {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		if _, ok := banned[strings.ToLower(k)]; ok {
			continue
		}
		out = append(out, k)
	}
	return out
}

func head(xs []string, n int) []string {
	if len(xs) > n {
		xs = xs[:n]
	}
	out := make([]string, len(xs))
	copy(out, xs)
	return out
}

package tailor

import (
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/jobcopilot/jobcopilot/internal/textkit"
)

// Weights are the tunable constants of the keyword selector. The defaults
// mirror the shipped behavior, but none of them is load-bearing.
type Weights struct {
	PhraseHit    float64 `mapstructure:"phrase-hit"`
	PhraseTitle  float64 `mapstructure:"phrase-title"`
	UnigramHit   float64 `mapstructure:"unigram-hit"`
	UnigramTitle float64 `mapstructure:"unigram-title"`
	URLBoost     float64 `mapstructure:"url-boost"`
	Cap          int     `mapstructure:"cap"`
}

// DefaultWeights returns the default selector weights.
func DefaultWeights() Weights {
	return Weights{
		PhraseHit:    3.0,
		PhraseTitle:  2.0,
		UnigramHit:   1.0,
		UnigramTitle: 1.5,
		URLBoost:     0.5,
		Cap:          24,
	}
}

// KeywordRequest describes one keyword-selection run.
type KeywordRequest struct {
	Description string
	Title       string
	URL         string
	Allowed     []string // allowed vocabulary, what the user truthfully claims
	Weights     Weights
}

var (
	phraseREs   = map[string]*regexp.Regexp{}
	phraseREsMu sync.Mutex
)

func phraseRE(phrase string) *regexp.Regexp {
	phraseREsMu.Lock()
	defer phraseREsMu.Unlock()
	if re, ok := phraseREs[phrase]; ok {
		return re
	}
	re := regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(phrase) + `\b`)
	phraseREs[phrase] = re
	return re
}

// SelectKeywords ranks the allowed-vocabulary terms by their relevance to
// the job description and returns the top entries. Every returned phrase
// is a member of the allowed vocabulary: terms the candidate does not
// claim never surface, no matter how often the JD repeats them. Ties
// break alphabetically so the output is deterministic.
func SelectKeywords(req KeywordRequest) []string {
	w := req.Weights
	if w.Cap <= 0 {
		w = DefaultWeights()
	}

	title := strings.ToLower(req.Title)
	desc := strings.ToLower(req.Description)
	url := strings.ToLower(req.URL)

	normalized := make(textkit.Set, len(req.Allowed))
	for _, a := range req.Allowed {
		normalized.Add(textkit.NormalizeTerm(a))
	}

	var phrases, unigrams []string
	for term := range normalized {
		if strings.Contains(term, " ") {
			phrases = append(phrases, term)
		} else {
			unigrams = append(unigrams, term)
		}
	}

	scores := make(map[string]float64)

	for _, ph := range phrases {
		if textkit.IsStopPhrase(ph) {
			continue
		}
		c := len(phraseRE(ph).FindAllStringIndex(desc, -1))
		if c == 0 {
			continue
		}
		scores[ph] += w.PhraseHit * float64(c)
		if strings.Contains(title, ph) {
			scores[ph] += w.PhraseTitle
		}
	}

	descTokens := textkit.Tokenize(desc)
	titleTokens := textkit.Tokenize(title)
	for _, u := range unigrams {
		if textkit.Stopwords.Has(u) || !descTokens.Has(u) {
			continue
		}
		scores[u] += w.UnigramHit
		if titleTokens.Has(u) {
			scores[u] += w.UnigramTitle
		}
	}

	// Terms echoed in the posting URL are usually board-assigned
	// categorization; nudge them up.
	for k := range scores {
		if strings.Contains(url, k) {
			scores[k] += w.URLBoost
		}
	}

	ranked := make([]string, 0, len(scores))
	for k := range scores {
		ranked = append(ranked, k)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if scores[ranked[i]] != scores[ranked[j]] {
			return scores[ranked[i]] > scores[ranked[j]]
		}
		return ranked[i] < ranked[j]
	})

	if len(ranked) > w.Cap {
		ranked = ranked[:w.Cap]
	}
	return ranked
}

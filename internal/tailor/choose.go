package tailor

import (
	"strings"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"

	"github.com/jobcopilot/jobcopilot/internal/tailor/policy"
	"github.com/jobcopilot/jobcopilot/internal/textkit"
)

// genericCues never justify a clause on their own.
var genericCues = textkit.NewSet("data", "software", "engineer", "engineering")

// vagueWords flag clauses that read like filler.
var vagueWords = textkit.NewSet("various", "multiple", "numerous", "optimize", "synergy", "innovative")

const defaultSimilarityCeiling = 0.85

// readabilityOK rejects clauses that would read badly in resume prose:
// too short, too long, comma soup, or stacked vague words.
func readabilityOK(clause string) bool {
	s := strings.TrimSpace(clause)
	if s == "" {
		return false
	}
	words := strings.Fields(s)
	if len(words) < 4 || len(words) > 18 {
		return false
	}
	if strings.Count(s, ",") > 2 || strings.Count(s, "/") > 2 {
		return false
	}
	return vagueWords.IntersectionLen(textkit.Tokenize(s)) < 2
}

func policyScore(p *policy.Policy, sentenceTokens, jdVocab textkit.Set) float64 {
	jdCues := p.JDCueSet()
	bulletCues := p.BulletCueSet()

	var score float64
	if jdCues.Len() > 0 {
		score += 2.0 * float64(jdVocab.IntersectionLen(jdCues))
		if jdCues.Subset(genericCues) {
			score -= 1.0
		}
	}
	if bulletCues.Len() > 0 {
		score += float64(sentenceTokens.IntersectionLen(bulletCues))
	}
	if p.Source == policy.SourceRuntime {
		score += 1.0
	}
	return score
}

// ChoosePolicy picks at most one clause eligible for the given sentence:
// its required vocabulary must intersect what the user claims, its bullet
// cues (when present) must intersect the sentence, it must not be a
// near-duplicate of the sentence, and it must be unused in this session.
// Candidates are scored against the JD cues; a best score of zero or less
// means no clause has a plausible justification, and nothing is injected.
func ChoosePolicy(sentence string, jdVocab, allowedVocab textkit.Set, policies []policy.Policy, session *Session) string {
	return choosePolicyWithCeiling(sentence, jdVocab, allowedVocab, policies, session, defaultSimilarityCeiling)
}

func choosePolicyWithCeiling(sentence string, jdVocab, allowedVocab textkit.Set, policies []policy.Policy, session *Session, ceiling float64) string {
	sentenceTokens := textkit.Tokenize(sentence)
	normSentence := textkit.NormalizeWS(strings.ToLower(sentence))
	sim := metrics.NewSorensenDice()

	var best *policy.Policy
	bestScore := 0.0

	for i := range policies {
		p := &policies[i]
		clause := strings.TrimSpace(p.Clause)
		if clause == "" || !session.ClauseUsable(clause) {
			continue
		}
		if !readabilityOK(clause) {
			continue
		}
		if req := p.RequiresAnySet(); req.Len() > 0 && !allowedVocab.Intersects(req) {
			continue
		}
		if cues := p.BulletCueSet(); cues.Len() > 0 && !sentenceTokens.Intersects(cues) {
			continue
		}
		normClause := textkit.NormalizeWS(strings.ToLower(clause))
		if strutil.Similarity(normSentence, normClause, sim) > ceiling {
			continue
		}
		if score := policyScore(p, sentenceTokens, jdVocab); score > bestScore {
			bestScore = score
			best = p
		}
	}

	if best == nil {
		return ""
	}
	session.MarkClause(best.Clause)
	return best.Clause
}

package scoring

import (
	"math"
	"sort"

	"github.com/jobcopilot/jobcopilot/internal/job"
	"github.com/jobcopilot/jobcopilot/internal/profile"
	"github.com/jobcopilot/jobcopilot/internal/textkit"
)

// Score weights. Location contributes only a soft boost; the gate is
// binary and handled before any arithmetic.
const (
	skillWeight = 0.6
	titleWeight = 0.3
	locBoost    = 0.1
)

// Parts are the per-posting score components exported alongside the
// composite score for the ranking UI.
type Parts struct {
	SkillOverlap    float64 `json:"skill_overlap"`
	TitleSimilarity float64 `json:"title_similarity"`
	LocBoost        float64 `json:"loc_boost"`
}

// ScoredJob pairs a posting with its score breakdown.
type ScoredJob struct {
	*job.Job
	Parts
	Score float64 `json:"score"`
}

// ComputeParts computes the score components without applying the
// location or must-have gates.
func ComputeParts(j *job.Job, p *profile.Profile) Parts {
	jobTokens := textkit.Tokenize(j.Title).Union(textkit.Tokenize(j.Description))

	skillTokens := textkit.TokensFromTerms(p.Skills)
	skillOverlap := float64(skillTokens.IntersectionLen(jobTokens)) / math.Max(1, float64(skillTokens.Len()))

	titleTokens := textkit.TokensFromTerms(p.TargetTitles)
	titleSimilarity := float64(titleTokens.IntersectionLen(textkit.Tokenize(j.Title))) / math.Max(1, float64(titleTokens.Len()))

	boost := 0.0
	locTokens := textkit.TokensFromTerms(p.Locations)
	if locTokens.Len() > 0 && locTokens.Intersects(textkit.Tokenize(j.Location+" "+j.Description)) {
		boost = locBoost
	} else if textkit.ContainsAny(j.Location, locBoostFallback) {
		boost = locBoost
	}

	return Parts{
		SkillOverlap:    round4(skillOverlap),
		TitleSimilarity: round4(titleSimilarity),
		LocBoost:        round4(boost),
	}
}

// Score returns the composite score for a posting, or 0 when the location
// policy or a must-have term rules it out.
func Score(j *job.Job, p *profile.Profile) float64 {
	if !LocationOK(j.Location, j.Description, p.LocationPolicy) {
		return 0
	}

	jobTokens := textkit.Tokenize(j.Title).Union(textkit.Tokenize(j.Description))
	mustTokens := textkit.TokensFromTerms(p.MustHaves)
	if mustTokens.Len() > 0 && !mustTokens.Subset(jobTokens) {
		return 0
	}

	parts := ComputeParts(j, p)
	return round4(skillWeight*parts.SkillOverlap + titleWeight*parts.TitleSimilarity + parts.LocBoost)
}

// Rank scores every posting and returns them ordered best-first. Ties
// keep input order so repeated runs stay stable.
func Rank(jobs *job.Jobs, p *profile.Profile) []*ScoredJob {
	out := make([]*ScoredJob, 0, jobs.Len())
	for _, j := range jobs.Items {
		out = append(out, &ScoredJob{
			Job:   j,
			Parts: ComputeParts(j, p),
			Score: Score(j, p),
		})
	}
	sort.SliceStable(out, func(i, k int) bool {
		return out[i].Score > out[k].Score
	})
	return out
}

func round4(f float64) float64 {
	return math.Round(f*10000) / 10000
}

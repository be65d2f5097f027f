package profile

import (
	"strings"

	"github.com/jobcopilot/jobcopilot/internal/textkit"
)

// sparseVocabThreshold is the vocabulary size below which the curated
// profile is considered too thin to match job descriptions and the title
// taxonomy kicks in.
const sparseVocabThreshold = 8

// AllowedVocab builds the set of terms the user may truthfully claim:
// profile skills, target titles and portfolio bullet tags, each kept in
// its raw lowercase form and in its synonym-normalized form. When the
// curated vocabulary is sparse, curated title→skills entries are merged
// in so keyword selection still has something to work with.
func AllowedVocab(p *Profile, pf *Portfolio) []string {
	curated := make(textkit.Set)
	addAll(curated, p.Skills)
	addAll(curated, p.TargetTitles)
	if pf != nil {
		addAll(curated, pf.Tags())
	}

	vocab := make(textkit.Set, curated.Len()*2)
	for t := range curated {
		vocab.Add(t)
		vocab.Add(textkit.NormalizeTerm(t))
	}

	if curated.Len() < sparseVocabThreshold {
		for _, t := range TitleSkills(p.TargetTitles) {
			vocab.Add(t)
		}
	}

	return vocab.Sorted()
}

func addAll(s textkit.Set, terms []string) {
	for _, t := range terms {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" {
			s.Add(t)
		}
	}
}

package profile

import (
	"strings"

	"github.com/jobcopilot/jobcopilot/internal/textkit"
)

// titleSkillMap is a small curated title→skills safety net, consulted only
// when the profile and portfolio yield a sparse vocabulary. Single-word
// keys match a word of the target title; multi-word keys match as a
// substring of the normalized title.
var titleSkillMap = map[string][]string{
	// Editorial / content
	"editor": {
		"ap style", "copyediting", "proofreading", "fact-checking",
		"cms", "seo", "adobe", "wordpress", "google docs", "microsoft office",
	},
	"editorial assistant": {
		"copyediting", "proofreading", "scheduling", "cms", "seo",
		"microsoft office", "adobe", "outlook",
	},
	"writer":  {"research", "copywriting", "editing", "seo", "cms", "ap style"},
	"content": {"seo", "cms", "analytics", "social media", "copyediting"},

	// Admin / ops / support
	"administrative assistant": {
		"scheduling", "calendar management", "outlook",
		"excel", "word", "powerpoint", "record keeping", "customer service",
	},
	"office manager": {
		"scheduling", "procurement", "vendor management",
		"excel", "budgeting", "facilities",
	},
	"customer service": {"crm", "ticketing", "phone etiquette", "conflict resolution"},

	// Marketing / comms
	"marketing":    {"seo", "sem", "email marketing", "google analytics", "social media", "crm"},
	"social media": {"content calendar", "copywriting", "analytics", "community management"},

	// Finance / accounting
	"accountant": {"quickbooks", "excel", "reconciliation", "ap/ar", "tax", "gaap"},

	// Healthcare
	"medical assistant": {"ehr", "scheduling", "triage", "vitals", "hipaa"},
	"nurse":             {"emr", "medication administration", "triage", "patient education"},

	// Hospitality / retail
	"retail":  {"pos", "inventory", "merchandising", "customer service"},
	"barista": {"pos", "cash handling", "customer service", "scheduling"},

	// Business / mgmt / analysis
	"project manager": {"jira", "confluence", "stakeholder management", "scheduling", "risk"},
	"analyst":         {"excel", "reporting", "dashboards", "sql"},

	// Hybrid data / IT support
	"data":       {"excel", "sql", "tableau", "python"},
	"it support": {"helpdesk", "ticketing", "windows", "active directory"},
}

// TitleSkills returns curated skills for the given target titles, with
// phrases expanded into their unigrams so downstream matchers can consume
// either form.
func TitleSkills(titles []string) []string {
	hits := make(textkit.Set)
	for _, title := range titles {
		norm := normalizeTitle(title)
		if norm == "" {
			continue
		}
		words := textkit.NewSet(strings.Fields(norm)...)
		for key, skills := range titleSkillMap {
			matched := false
			if strings.Contains(key, " ") {
				matched = strings.Contains(norm, key)
			} else {
				matched = words.Has(key)
			}
			if !matched {
				continue
			}
			for _, s := range skills {
				hits.Add(s)
			}
		}
	}
	return expandPhrases(hits.Sorted())
}

// expandPhrases keeps each phrase and adds its unigrams.
func expandPhrases(terms []string) []string {
	out := make(textkit.Set)
	for _, t := range terms {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		out.Add(t)
		for _, w := range strings.FieldsFunc(t, func(r rune) bool {
			return r == ' ' || r == '/'
		}) {
			out.Add(w)
		}
	}
	return out.Sorted()
}

func normalizeTitle(title string) string {
	return textkit.NormalizeWS(strings.ToLower(title))
}

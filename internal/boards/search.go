package boards

import (
	"strings"

	"github.com/jobcopilot/jobcopilot/internal/profile"
	"github.com/jobcopilot/jobcopilot/internal/textkit"
)

// searchTerms expands the profile's target titles into search queries:
// each title token plus the raw phrases, deduplicated and sorted so crawl
// order is stable between runs.
func searchTerms(p *profile.Profile) []string {
	terms := textkit.TokensFromTerms(p.TargetTitles)
	for _, raw := range p.TargetTitles {
		raw = strings.ToLower(strings.TrimSpace(raw))
		if raw != "" {
			terms.Add(raw)
		}
	}
	return terms.Sorted()
}

// searchLocations returns the profile locations, or one empty entry so
// aggregator boards fall back to their widest scope.
func searchLocations(p *profile.Profile) []string {
	var locs []string
	for _, l := range p.Locations {
		if strings.TrimSpace(l) != "" {
			locs = append(locs, l)
		}
	}
	if len(locs) == 0 {
		locs = []string{""}
	}
	return locs
}

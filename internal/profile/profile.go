// Package profile models the user profile and portfolio consumed by the
// crawler filters, the scorer and the tailoring engine. Upstream profile
// rows are unvalidated JSON, so every list-shaped field is coerced through
// textkit.AsList exactly once, here at the boundary.
package profile

import (
	"strings"

	"github.com/jobcopilot/jobcopilot/internal/textkit"
)

// LocationPolicy gates jobs by location before any scoring happens.
type LocationPolicy struct {
	RemoteOnly       bool
	AllowedCountries []string
	AllowedStates    []string
}

// SearchPolicy constrains which postings a crawl or ranking run keeps.
type SearchPolicy struct {
	RecencyDays       int
	RequirePostedDate bool
}

// Profile is what the user truthfully claims about themselves.
type Profile struct {
	ID           string
	FullName     string
	Email        string
	Phone        string
	Skills       []string
	TargetTitles []string
	Locations    []string
	MustHaves    []string
	Keywords     []string
	ExcludeTerms []string

	LocationPolicy LocationPolicy
	SearchPolicy   SearchPolicy
}

// FromMap builds a Profile from a raw row. Missing, scalar or null fields
// normalize to empty values and never fail.
func FromMap(raw map[string]any) *Profile {
	if raw == nil {
		raw = map[string]any{}
	}

	p := &Profile{
		ID:           stringField(raw, "id"),
		FullName:     stringField(raw, "full_name"),
		Email:        stringField(raw, "email"),
		Phone:        stringField(raw, "phone"),
		Skills:       textkit.AsList(raw["skills"]),
		TargetTitles: textkit.AsList(raw["target_titles"]),
		Locations:    textkit.AsList(raw["locations"]),
		MustHaves:    textkit.AsList(raw["must_haves"]),
		Keywords:     textkit.AsList(raw["keywords"]),
		ExcludeTerms: textkit.AsList(raw["exclude_terms"]),
	}

	if lp, ok := raw["location_policy"].(map[string]any); ok {
		p.LocationPolicy = LocationPolicy{
			RemoteOnly:       boolField(lp, "remote_only"),
			AllowedCountries: textkit.AsList(lp["allowed_countries"]),
			AllowedStates:    textkit.AsList(lp["allowed_states"]),
		}
	}

	if sp, ok := raw["search_policy"].(map[string]any); ok {
		p.SearchPolicy = SearchPolicy{
			RecencyDays:       intField(sp, "recency_days"),
			RequirePostedDate: boolField(sp, "require_posted_date"),
		}
	}

	return p
}

// SearchTerms returns the crawl query terms: explicit keywords when the
// user set any, target titles otherwise.
func (p *Profile) SearchTerms() []string {
	if len(p.Keywords) > 0 {
		return p.Keywords
	}
	return p.TargetTitles
}

func stringField(m map[string]any, key string) string {
	if v, ok := m[key].(string); ok {
		return strings.TrimSpace(v)
	}
	return ""
}

func boolField(m map[string]any, key string) bool {
	switch v := m[key].(type) {
	case bool:
		return v
	case string:
		lower := strings.ToLower(strings.TrimSpace(v))
		return lower == "true" || lower == "yes" || lower == "1"
	case float64:
		return v != 0
	default:
		return false
	}
}

func intField(m map[string]any, key string) int {
	switch v := m[key].(type) {
	case int:
		return v
	case float64:
		return int(v)
	default:
		return 0
	}
}

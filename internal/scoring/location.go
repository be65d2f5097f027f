// Package scoring ranks crawled postings against a profile: a hard
// location/must-have gate followed by a weighted overlap score.
package scoring

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/jobcopilot/jobcopilot/internal/profile"
	"github.com/jobcopilot/jobcopilot/internal/textkit"
)

var remoteKeywords = []string{
	"remote", "remotely", "work from home", "wfh", "distributed",
	"us-remote", "remote-us", "remote (us)", "remote, us",
	"remote in the us", "anywhere in the us", "anywhere (us)",
}

var usKeywords = []string{"us", "u.s.", "united states", "usa", "u.s.a"}

// locBoostFallback marks postings near the user's home region even when
// the profile lists no locations.
var locBoostFallback = []string{"virginia", "va", "east coast", "eastern time", "et", "est"}

// IsRemote reports whether the location or description advertises remote
// work.
func IsRemote(location, description string) bool {
	return textkit.ContainsAny(location, remoteKeywords) ||
		textkit.ContainsAny(description, remoteKeywords)
}

func mentionsUS(text string) bool {
	return textkit.ContainsAny(text, usKeywords)
}

var (
	stateREs  = map[string]*regexp.Regexp{}
	stateREMu sync.Mutex
)

// mentionsState matches two-letter state codes on word boundaries so "or"
// and "in" inside prose do not count, and longer names by substring.
func mentionsState(text string, wanted []string) bool {
	t := strings.ToLower(text)
	for _, w := range wanted {
		lw := strings.ToLower(strings.TrimSpace(w))
		if lw == "" {
			continue
		}
		if len(lw) == 2 {
			if stateRE(lw).MatchString(t) {
				return true
			}
			continue
		}
		if strings.Contains(t, lw) {
			return true
		}
	}
	return false
}

func stateRE(code string) *regexp.Regexp {
	stateREMu.Lock()
	defer stateREMu.Unlock()
	if re, ok := stateREs[code]; ok {
		return re
	}
	re := regexp.MustCompile(fmt.Sprintf(`\b%s\b`, regexp.QuoteMeta(code)))
	stateREs[code] = re
	return re
}

// LocationOK applies the profile's location policy to a posting. Remote
// postings that mention the US pass the country gate even when the
// location string names no allowed country.
func LocationOK(location, description string, policy profile.LocationPolicy) bool {
	combined := location + " " + description

	if policy.RemoteOnly && !IsRemote(location, description) {
		return false
	}

	if len(policy.AllowedCountries) > 0 {
		if !textkit.ContainsAny(combined, policy.AllowedCountries) {
			if !(IsRemote(location, description) && mentionsUS(combined)) {
				return false
			}
		}
	}

	if len(policy.AllowedStates) > 0 && !mentionsState(combined, policy.AllowedStates) {
		return false
	}

	return true
}

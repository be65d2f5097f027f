package filtering

import (
	"context"
	"fmt"
	"strings"

	"github.com/jobcopilot/jobcopilot/internal/job"
	"github.com/jobcopilot/jobcopilot/internal/textkit"
)

// defaultExcludes drops seniority levels the tool's users are not
// targeting. They stay overridable through profile exclude_terms and
// config only by addition, not removal.
var defaultExcludes = []string{"senior", "staff", "principal", "lead", "manager", "director"}

type profileMatchFilter struct {
	disabled bool
	reason   string

	extraExcludes []string
}

// NewProfileMatch creates the strict profile gate: the title must contain
// a target-title token, the posting must mention at least one profile
// term, and none of the exclude terms. The title gate is what makes
// general-purpose boards safe to crawl without hand-curated blocklists.
func NewProfileMatch() Filter {
	return &profileMatchFilter{}
}

func (f *profileMatchFilter) Name() string { return "profile_match" }

func (f *profileMatchFilter) Disable(reason string) {
	f.disabled = true
	f.reason = reason
}

func (f *profileMatchFilter) IsEnabled() bool { return !f.disabled }

func (f *profileMatchFilter) Validate(cfg *Config) error {
	f.extraExcludes = nil
	if cfg != nil {
		f.extraExcludes = append(f.extraExcludes, cfg.ExtraExcludes...)
	}
	return nil
}

func (f *profileMatchFilter) Apply(_ context.Context, deps Deps, jobs *job.Jobs) (*job.Jobs, Step, error) {
	if deps.Profile == nil {
		return jobs, Step{}, fmt.Errorf("profile is required")
	}

	initial := jobs.Len()

	titleTokens := textkit.TokensFromTerms(deps.Profile.TargetTitles)
	addTitleSynonyms(titleTokens)

	includes := titleTokens.Union(textkit.TokensFromTerms(deps.Profile.Skills))

	excludes := append([]string{}, defaultExcludes...)
	excludes = append(excludes, f.extraExcludes...)
	for _, t := range deps.Profile.ExcludeTerms {
		if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
			excludes = append(excludes, t)
		}
	}

	kept := &job.Jobs{}
	for _, j := range jobs.Items {
		if f.keep(j, titleTokens, includes, excludes) {
			kept.Append(j)
		}
	}

	return kept, Step{Initial: initial, Dropped: initial - kept.Len(), Left: kept.Len()}, nil
}

func (f *profileMatchFilter) keep(j *job.Job, titleTokens, includes textkit.Set, excludes []string) bool {
	title := strings.ToLower(j.Title)
	blob := title + " " + strings.ToLower(j.Description)

	if titleTokens.Len() > 0 && !titleTokens.Intersects(textkit.Tokenize(title)) {
		return false
	}
	if includes.Len() > 0 && !containsAnyTerm(blob, includes) {
		return false
	}
	for _, term := range excludes {
		if strings.Contains(blob, term) {
			return false
		}
	}
	return true
}

// containsAnyTerm is a plain substring check, deliberately looser than
// token matching so phrase skills ("ap style") still hit.
func containsAnyTerm(blob string, terms textkit.Set) bool {
	for term := range terms {
		if strings.Contains(blob, term) {
			return true
		}
	}
	return false
}

// addTitleSynonyms widens the title gate with obvious variants so a
// profile targeting "Editor" does not miss "Editorial Assistant".
func addTitleSynonyms(tokens textkit.Set) {
	if tokens.Has("editor") {
		tokens.Add("editorial")
	}
	if tokens.Has("editorial") {
		tokens.Add("editor")
	}
}

func (f *profileMatchFilter) Status() Status {
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason}
}

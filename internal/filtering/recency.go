package filtering

import (
	"context"
	"fmt"
	"time"

	"github.com/jobcopilot/jobcopilot/internal/job"
	"github.com/jobcopilot/jobcopilot/internal/scoring"
)

type recencyFilter struct {
	disabled bool
	reason   string
}

// NewRecency creates a filter that enforces the profile's search policy
// recency window at crawl time, so stale postings never reach storage.
func NewRecency() Filter {
	return &recencyFilter{}
}

func (f *recencyFilter) Name() string { return "recency" }

func (f *recencyFilter) Disable(reason string) {
	f.disabled = true
	f.reason = reason
}

func (f *recencyFilter) IsEnabled() bool { return !f.disabled }

func (f *recencyFilter) Validate(*Config) error { return nil }

func (f *recencyFilter) Apply(_ context.Context, deps Deps, jobs *job.Jobs) (*job.Jobs, Step, error) {
	if deps.Profile == nil {
		return jobs, Step{}, fmt.Errorf("profile is required")
	}

	initial := jobs.Len()
	now := deps.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}

	kept := scoring.FilterRecent(jobs, deps.Profile.SearchPolicy, now)
	return kept, Step{Initial: initial, Dropped: initial - kept.Len(), Left: kept.Len()}, nil
}

func (f *recencyFilter) Status() Status {
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason}
}

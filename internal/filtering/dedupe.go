package filtering

import (
	"context"

	"github.com/jobcopilot/jobcopilot/internal/job"
)

type dedupeFilter struct{}

// NewDedupe creates a filter that drops postings already seen in this
// crawl, keyed by normalized URL.
func NewDedupe() Filter {
	return &dedupeFilter{}
}

func (f *dedupeFilter) Name() string { return "dedupe" }

func (f *dedupeFilter) Disable(string) {}

func (f *dedupeFilter) IsEnabled() bool { return true }

func (f *dedupeFilter) Validate(*Config) error { return nil }

func (f *dedupeFilter) Apply(_ context.Context, _ Deps, jobs *job.Jobs) (*job.Jobs, Step, error) {
	initial := jobs.Len()
	jobs.Dedupe()
	return jobs, Step{Initial: initial, Dropped: initial - jobs.Len(), Left: jobs.Len()}, nil
}

func (f *dedupeFilter) Status() Status {
	return Status{Name: f.Name(), Enabled: true}
}

package scoring

import (
	"time"

	"github.com/jobcopilot/jobcopilot/internal/job"
	"github.com/jobcopilot/jobcopilot/internal/profile"
)

// WithinRecency reports whether a posting is fresh enough for the
// profile's search policy. Postings without a parseable date pass unless
// the policy requires one.
func WithinRecency(j *job.Job, policy profile.SearchPolicy, now time.Time) bool {
	if policy.RecencyDays <= 0 {
		return true
	}
	if j.PostedAt == "" {
		return !policy.RequirePostedDate
	}

	raw := j.PostedAt
	if len(raw) > 10 {
		raw = raw[:10]
	}
	posted, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return !policy.RequirePostedDate
	}

	cutoff := now.UTC().AddDate(0, 0, -policy.RecencyDays)
	cutoff = time.Date(cutoff.Year(), cutoff.Month(), cutoff.Day(), 0, 0, 0, 0, time.UTC)
	return !posted.Before(cutoff)
}

// FilterRecent drops postings outside the recency window, preserving
// order.
func FilterRecent(jobs *job.Jobs, policy profile.SearchPolicy, now time.Time) *job.Jobs {
	out := &job.Jobs{}
	for _, j := range jobs.Items {
		if WithinRecency(j, policy, now) {
			out.Append(j)
		}
	}
	return out
}

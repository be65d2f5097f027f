package boards

import (
	"fmt"

	"github.com/jobcopilot/jobcopilot/internal/job"
	"github.com/jobcopilot/jobcopilot/internal/profile"
)

// Source is one crawlable board.
type Source interface {
	Name() string
	Crawl() (*job.Jobs, error)
}

// ForBoard resolves a board registry row to a crawler. Company-scoped
// boards (greenhouse, lever) use the slug; aggregator boards (linkedin,
// indeed) build search queries from the profile and ignore it.
func ForBoard(client *Client, source, slug string, p *profile.Profile) (Source, error) {
	switch source {
	case "greenhouse":
		return NewGreenhouse(client, slug), nil
	case "lever":
		return NewLever(client, slug), nil
	case "linkedin":
		return NewLinkedIn(client, p), nil
	case "indeed":
		return NewIndeed(client, p), nil
	default:
		return nil, fmt.Errorf("unknown source %q", source)
	}
}

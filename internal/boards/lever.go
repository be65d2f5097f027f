package boards

import (
	"fmt"

	"github.com/jobcopilot/jobcopilot/internal/job"
)

// Lever reads the public postings API, which returns clean JSON with a
// plain-text description.
type Lever struct {
	client *Client
	slug   string

	baseURL string
}

func NewLever(client *Client, slug string) *Lever {
	return &Lever{
		client:  client,
		slug:    slug,
		baseURL: "https://api.lever.co",
	}
}

func (l *Lever) Name() string { return "lever" }

type leverPosting struct {
	Text       string `json:"text"`
	Categories struct {
		Location string `json:"location"`
	} `json:"categories"`
	HostedURL        string `json:"hostedUrl"`
	DescriptionPlain string `json:"descriptionPlain"`
}

func (l *Lever) Crawl() (*job.Jobs, error) {
	url := fmt.Sprintf("%s/v0/postings/%s?mode=json", l.baseURL, l.slug)

	var postings []leverPosting
	if !l.client.GetJSON(url, &postings) {
		return &job.Jobs{}, nil
	}

	jobs := &job.Jobs{}
	for _, p := range postings {
		jobs.Append(&job.Job{
			Title:       p.Text,
			Company:     l.slug,
			Location:    p.Categories.Location,
			URL:         p.HostedURL,
			Description: p.DescriptionPlain,
			Source:      l.Name(),
		})
	}
	return jobs, nil
}

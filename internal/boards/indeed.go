package boards

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jobcopilot/jobcopilot/internal/job"
	"github.com/jobcopilot/jobcopilot/internal/profile"
)

// Indeed scrapes the public search result pages, newest first. Relative
// posted dates ("3 days ago") are too fuzzy to keep, so postings carry no
// date and rely on the fromage query parameter for recency.
type Indeed struct {
	client  *Client
	profile *profile.Profile

	baseURL string
}

func NewIndeed(client *Client, p *profile.Profile) *Indeed {
	return &Indeed{
		client:  client,
		profile: p,
		baseURL: "https://www.indeed.com",
	}
}

func (i *Indeed) Name() string { return "indeed" }

func (i *Indeed) searchURLs() []string {
	days := i.profile.SearchPolicy.RecencyDays

	var urls []string
	for _, term := range searchTerms(i.profile) {
		for _, loc := range searchLocations(i.profile) {
			q := url.Values{}
			q.Set("q", term)
			q.Set("l", loc)
			q.Set("sort", "date")
			if days > 0 {
				q.Set("fromage", strconv.Itoa(days))
			}
			urls = append(urls, i.baseURL+"/jobs?"+q.Encode())
		}
	}
	return urls
}

func (i *Indeed) Crawl() (*job.Jobs, error) {
	jobs := &job.Jobs{}
	for _, searchURL := range i.searchURLs() {
		html := i.client.GetBrowserText(searchURL)
		if html == "" {
			continue
		}

		doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
		if err != nil {
			continue
		}

		doc.Find("a.tapItem").Each(func(_ int, card *goquery.Selection) {
			href, _ := card.Attr("href")
			if href == "" {
				return
			}
			full := href
			if !strings.HasPrefix(full, "http") {
				full = i.baseURL + href
			}

			jobs.Append(&job.Job{
				Title:       strings.TrimSpace(card.Find("h2.jobTitle").First().Text()),
				Company:     strings.TrimSpace(card.Find(".companyName").First().Text()),
				Location:    strings.TrimSpace(card.Find(".companyLocation").First().Text()),
				URL:         full,
				Description: strings.TrimSpace(card.Find(".job-snippet").First().Text()),
				Source:      i.Name(),
			})
		})
	}

	jobs.Dedupe()
	return jobs, nil
}

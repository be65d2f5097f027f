package boards

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/jobcopilot/jobcopilot/internal/job"
	"github.com/jobcopilot/jobcopilot/internal/profile"
)

// LinkedIn scrapes the public job search pages. Queries are built from
// the profile's target titles and locations; the board slug plays no role.
type LinkedIn struct {
	client  *Client
	profile *profile.Profile

	baseURL string
}

func NewLinkedIn(client *Client, p *profile.Profile) *LinkedIn {
	return &LinkedIn{
		client:  client,
		profile: p,
		baseURL: "https://www.linkedin.com",
	}
}

func (l *LinkedIn) Name() string { return "linkedin" }

func (l *LinkedIn) searchURLs() []string {
	recencySec := 0
	if days := l.profile.SearchPolicy.RecencyDays; days > 0 {
		recencySec = days * 24 * 60 * 60
	}

	var urls []string
	for _, term := range searchTerms(l.profile) {
		for _, loc := range searchLocations(l.profile) {
			q := url.Values{}
			q.Set("keywords", term)
			if loc != "" {
				q.Set("location", loc)
			}
			u := l.baseURL + "/jobs/search/?" + q.Encode()
			if recencySec > 0 {
				u += "&f_TPR=r" + strconv.Itoa(recencySec)
			}
			urls = append(urls, u)
		}
	}
	return urls
}

func (l *LinkedIn) Crawl() (*job.Jobs, error) {
	jobs := &job.Jobs{}
	for _, searchURL := range l.searchURLs() {
		html := l.client.GetBrowserText(searchURL)
		if html == "" {
			continue
		}

		doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
		if err != nil {
			continue
		}

		doc.Find("div.base-search-card, li.base-card").Each(func(_ int, card *goquery.Selection) {
			a := card.Find("a.base-card__full-link, a.job-card-container__link").First()
			href, _ := a.Attr("href")
			if href == "" {
				return
			}
			postingURL := strings.TrimSpace(strings.SplitN(href, "?", 2)[0])

			j := &job.Job{
				Title:       strings.TrimSpace(a.Text()),
				Company:     strings.TrimSpace(card.Find(".base-search-card__subtitle, .job-card-container__company-name").First().Text()),
				Location:    strings.TrimSpace(card.Find(".job-search-card__location").First().Text()),
				URL:         postingURL,
				Description: strings.TrimSpace(card.Find(".job-search-card__snippet, .result-benefits__text").First().Text()),
				Source:      l.Name(),
			}

			if datetime, ok := card.Find("time").First().Attr("datetime"); ok {
				if posted := parseISODate(datetime); posted != "" {
					j.PostedAt = posted
				}
			}

			jobs.Append(j)
		})
	}

	jobs.Dedupe()
	return jobs, nil
}

// parseISODate normalizes a card timestamp to YYYY-MM-DD, tolerating both
// bare dates and full RFC 3339 stamps.
func parseISODate(raw string) string {
	raw = strings.TrimSpace(raw)
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return ""
}

package boards

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jobcopilot/jobcopilot/internal/job"
)

// Greenhouse scrapes a boards.greenhouse.io board and follows each posting
// link for its full description.
type Greenhouse struct {
	client *Client
	slug   string

	// baseURL is overridden in tests.
	baseURL string
}

func NewGreenhouse(client *Client, slug string) *Greenhouse {
	return &Greenhouse{
		client:  client,
		slug:    slug,
		baseURL: "https://boards.greenhouse.io",
	}
}

func (g *Greenhouse) Name() string { return "greenhouse" }

// Crawl walks the board page. Greenhouse boards come in several layouts,
// so posting links are collected from the classic div.opening containers
// first and by href shape as a fallback.
func (g *Greenhouse) Crawl() (*job.Jobs, error) {
	html := g.client.GetText(g.baseURL + "/" + g.slug)
	if html == "" {
		return &job.Jobs{}, nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	type anchor struct {
		title    string
		href     string
		location string
	}
	var anchors []anchor
	seen := map[string]struct{}{}

	add := func(s *goquery.Selection) {
		href, _ := s.Attr("href")
		title := strings.TrimSpace(s.Text())
		if href == "" || title == "" {
			return
		}
		key := title + "\x00" + href
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}

		location := ""
		if parent := s.Closest("div, li"); parent.Length() > 0 {
			location = strings.TrimSpace(parent.Find(".location").First().Text())
		}

		anchors = append(anchors, anchor{title: title, href: href, location: location})
	}

	doc.Find("div.opening a").Each(func(_ int, s *goquery.Selection) {
		add(s)
	})
	doc.Find("section#jobs a, ul a, li a").Each(func(_ int, s *goquery.Selection) {
		if href, _ := s.Attr("href"); g.looksLikePosting(href) {
			add(s)
		}
	})
	if len(anchors) == 0 {
		doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
			if href, _ := s.Attr("href"); g.looksLikePosting(href) {
				add(s)
			}
		})
	}

	jobs := &job.Jobs{}
	for _, a := range anchors {
		full := a.href
		if !strings.HasPrefix(full, "http") {
			full = g.baseURL + a.href
		}

		jobs.Append(&job.Job{
			Title:       a.title,
			Company:     g.slug,
			Location:    a.location,
			URL:         full,
			Description: g.fetchDescription(full),
			Source:      g.Name(),
		})
	}

	jobs.Dedupe()
	return jobs, nil
}

func (g *Greenhouse) looksLikePosting(href string) bool {
	return strings.Contains(href, g.slug) && strings.Contains(href, "/jobs/")
}

// fetchDescription pulls the posting page and extracts its main text.
func (g *Greenhouse) fetchDescription(url string) string {
	html := g.client.GetText(url)
	if html == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}

	main := doc.Find(".content, .opening, .job, .application, #content").First()
	var sel *goquery.Selection
	if main.Length() > 0 {
		sel = main
	} else {
		sel = doc.Selection
	}
	sel.Find("script, style").Remove()

	return strings.Join(strings.Fields(sel.Text()), " ")
}

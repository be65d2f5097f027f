// Package cover renders per-job markdown cover letters and mines a light
// company context (about/values pages) to ground the "why this team"
// section. Everything here is best-effort: a blocked site yields an
// empty context and the letter still renders.
package cover

import (
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jobcopilot/jobcopilot/internal/job"
)

const maxPageText = 4000

// Fetcher fetches a page body, returning "" on any failure. *boards.Client
// satisfies it.
type Fetcher interface {
	GetText(url string) string
}

// Context is the text gathered from a company's public pages.
type Context struct {
	Company    string
	SiteText   string
	AboutText  string
	ValuesText string
}

// CompanyContext pulls a few thousand characters from the company root and
// the common /about and /values pages of the job's host.
func CompanyContext(f Fetcher, j *job.Job) *Context {
	ctx := &Context{Company: strings.TrimSpace(j.Company)}

	root := companyRoot(j.URL)
	if root == "" {
		return ctx
	}

	ctx.SiteText = pageText(f.GetText(root))
	ctx.AboutText = pageText(f.GetText(root + "/about"))
	ctx.ValuesText = pageText(f.GetText(root + "/values"))
	return ctx
}

// themeWhitelist is the vocabulary mined for company themes. Frequency
// counting against a fixed list keeps the miner cheap and predictable.
var themeWhitelist = []string{
	"customer", "patients", "innovation", "quality", "safety", "integrity", "ownership",
	"impact", "learning", "craft", "excellence", "inclusion", "diversity", "equity",
	"sustainability", "community", "privacy", "security", "open source", "collaboration",
	"reliability", "performance", "accessibility",
}

// Themes returns up to cap whitelist terms ranked by frequency across the
// gathered pages, ties broken alphabetically.
func (c *Context) Themes(cap int) []string {
	txt := strings.ToLower(strings.Join([]string{c.ValuesText, c.AboutText, c.SiteText}, " "))
	if strings.TrimSpace(txt) == "" || cap <= 0 {
		return nil
	}

	type scored struct {
		theme string
		count int
	}
	var hits []scored
	for _, w := range themeWhitelist {
		re := regexp.MustCompile(fmt.Sprintf(`\b%s\b`, regexp.QuoteMeta(w)))
		if n := len(re.FindAllString(txt, -1)); n > 0 {
			hits = append(hits, scored{theme: w, count: n})
		}
	}
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].count != hits[j].count {
			return hits[i].count > hits[j].count
		}
		return hits[i].theme < hits[j].theme
	})

	if len(hits) > cap {
		hits = hits[:cap]
	}
	out := make([]string, 0, len(hits))
	for _, h := range hits {
		out = append(out, h.theme)
	}
	return out
}

func companyRoot(rawURL string) string {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || u.Host == "" {
		return ""
	}
	return "https://" + u.Host
}

// pageText strips chrome and scripts from an HTML page and returns the
// whitespace-squeezed text of its main region, capped for prompt use.
func pageText(html string) string {
	if html == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}
	doc.Find("script, style, noscript, svg, img, nav, header, footer, form").Remove()

	region := doc.Find("main, article, .content, #content, .page, body").First()
	if region.Length() == 0 {
		region = doc.Selection
	}

	text := strings.Join(strings.Fields(region.Text()), " ")
	if runes := []rune(text); len(runes) > maxPageText {
		text = string(runes[:maxPageText])
	}
	return text
}

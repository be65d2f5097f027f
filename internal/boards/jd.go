package boards

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jobcopilot/jobcopilot/internal/job"
)

// Listing pages often carry only a snippet. Below this many characters
// the stored description is considered truncated and the live posting is
// fetched instead.
const minUsefulJDLen = 800

// jdSelectors are the containers job boards commonly render the posting
// body into, tried before falling back to the whole page.
const jdSelectors = ".content, .opening, .job, .application, article, main, #content"

// JDPlaintext fetches a posting page and returns its visible text.
func JDPlaintext(c *Client, url string) string {
	html := c.GetText(url)
	if html == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}
	doc.Find("script, style, noscript, nav, header, footer, form").Remove()

	region := doc.Find(jdSelectors).First()
	if region.Length() == 0 {
		region = doc.Selection
	}
	return strings.Join(strings.Fields(region.Text()), " ")
}

// PickJDText returns the best job description available: the stored one
// when it looks complete, otherwise the live page text when that is
// longer.
func PickJDText(c *Client, j *job.Job) string {
	desc := strings.TrimSpace(j.Description)
	if len(desc) >= minUsefulJDLen {
		return desc
	}
	live := JDPlaintext(c, j.URL)
	if len(live) > len(desc) {
		return live
	}
	return desc
}

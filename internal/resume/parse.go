// Package resume mines a profile draft (name, contact details, skills)
// out of an existing .docx resume. Matching against the curated term list
// is strict whole-word so "c" inside prose does not become a skill.
package resume

import (
	"fmt"
	"html"
	"regexp"
	"sort"
	"strings"

	docxfile "github.com/nguyenthenguyen/docx"

	"github.com/jobcopilot/jobcopilot/internal/textkit"
)

var (
	phoneRE = regexp.MustCompile(`(?:\+?1[-.\s]?)?\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}`)
	emailRE = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)

	wordRE = regexp.MustCompile(`[A-Za-z][A-Za-z0-9+.-]{1,}`)
)

// knownTerms is the curated skill vocabulary the parser is allowed to
// claim on the user's behalf.
var knownTerms = []string{
	// editorial / comms
	"editor", "editorial", "copyediting", "copy editing", "content editing", "proofreading",
	"ap style", "ap-style", "style guide", "publishing", "creative writing",
	// admin / office
	"microsoft office", "word", "excel", "powerpoint", "outlook", "adobe",
	"data entry", "record keeping", "scheduling",
	// general
	"customer service", "stakeholder management",
	// tech
	"python", "pytorch", "opencv", "javascript", "typescript", "react", "react native", "expo",
	"flask", "sql", "postgresql", "plpgsql", "linux", "github actions", "playwright",
	"hugging face", "pwa", "service worker", "resnet", "computer vision", "c", "c++", "java", "html", "css",
}

// Draft is the profile fragment mined from a resume. Nil-able fields stay
// empty when nothing was found; the caller only patches what is present.
type Draft struct {
	FullName string   `json:"full_name,omitempty"`
	Email    string   `json:"email,omitempty"`
	Phone    string   `json:"phone,omitempty"`
	Skills   []string `json:"skills,omitempty"`
}

// Fields returns the non-empty draft fields as a patch payload.
func (d *Draft) Fields() map[string]any {
	out := map[string]any{}
	if d.FullName != "" {
		out["full_name"] = d.FullName
	}
	if d.Email != "" {
		out["email"] = d.Email
	}
	if d.Phone != "" {
		out["phone"] = d.Phone
	}
	if len(d.Skills) > 0 {
		out["skills"] = d.Skills
	}
	return out
}

// ParseFile extracts a Draft from a .docx file.
func ParseFile(path string) (*Draft, error) {
	r, err := docxfile.ReadDocxFile(path)
	if err != nil {
		return nil, fmt.Errorf("open resume: %w", err)
	}
	defer r.Close()

	return ParseParagraphs(extractParagraphs(r.Editable().GetContent())), nil
}

// ParseParagraphs mines a Draft from the resume's paragraph texts.
func ParseParagraphs(paragraphs []string) *Draft {
	full := strings.Join(paragraphs, "\n")
	toks := tokenizeStrict(full)

	d := &Draft{
		Phone:  phoneRE.FindString(full),
		Email:  emailRE.FindString(full),
		Skills: matchKnownTerms(toks),
	}
	d.FullName = guessName(paragraphs)
	return d
}

// guessName takes the first short line of the header that is not an email
// or phone number.
func guessName(paragraphs []string) string {
	limit := 8
	if len(paragraphs) < limit {
		limit = len(paragraphs)
	}
	for _, p := range paragraphs[:limit] {
		t := strings.TrimSpace(p)
		if t == "" || len(strings.Fields(t)) > 6 {
			continue
		}
		if emailRE.MatchString(t) || phoneRE.MatchString(t) {
			continue
		}
		return t
	}
	return ""
}

func matchKnownTerms(toks textkit.Set) []string {
	var skills []string
	for _, term := range knownTerms {
		if hasAllWords(term, toks) {
			skills = append(skills, term)
		}
	}
	sort.Strings(skills)
	return skills
}

// hasAllWords requires exact whole-word presence for every word of the
// phrase.
func hasAllWords(term string, toks textkit.Set) bool {
	lower := strings.ToLower(strings.TrimSpace(term))
	if lower == "c++" {
		return toks.Has("c++")
	}
	parts := strings.Fields(lower)
	for _, p := range parts {
		if !toks.Has(p) {
			return false
		}
	}
	return len(parts) > 0
}

// tokenizeStrict keeps tokens verbatim (no synonym expansion) plus bare
// single letters, so curated single-letter terms like "c" can match.
func tokenizeStrict(text string) textkit.Set {
	out := make(textkit.Set)
	for _, w := range wordRE.FindAllString(text, -1) {
		out.Add(strings.ToLower(w))
	}
	for _, f := range strings.Fields(strings.ToLower(text)) {
		f = strings.Trim(f, ",.;:()[]")
		if len(f) == 1 && f >= "a" && f <= "z" {
			out.Add(f)
		}
	}
	return out
}

var (
	paraSplitRE = regexp.MustCompile(`</w:p>`)
	tagRE       = regexp.MustCompile(`<[^>]+>`)
)

// extractParagraphs flattens WordprocessingML into per-paragraph plain
// text.
func extractParagraphs(content string) []string {
	var out []string
	for _, chunk := range paraSplitRE.Split(content, -1) {
		text := html.UnescapeString(tagRE.ReplaceAllString(chunk, ""))
		text = strings.TrimSpace(text)
		if text != "" {
			out = append(out, text)
		}
	}
	return out
}

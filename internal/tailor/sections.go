package tailor

import (
	"sort"
	"strings"

	"github.com/jobcopilot/jobcopilot/internal/docx"
	"github.com/jobcopilot/jobcopilot/internal/textkit"
)

// Range is a half-open paragraph index range [Start, End).
type Range struct {
	Start int
	End   int
}

// FindSectionRanges locates the given headings among the paragraphs and
// returns, per normalized heading, the range from the heading to the next
// found heading (or end of document). Matching is exact on the
// whitespace-collapsed, lowercased paragraph text; the first occurrence
// of each title wins. A heading that is absent is simply missing from the
// result: callers treat that as the feature being unavailable, never as
// an error.
func FindSectionRanges(paras []*docx.Paragraph, titles []string) map[string]Range {
	wants := make(map[string]struct{}, len(titles))
	for _, t := range titles {
		wants[strings.ToLower(textkit.NormalizeWS(t))] = struct{}{}
	}

	hits := make(map[string]int)
	for i, p := range paras {
		t := strings.ToLower(textkit.NormalizeWS(p.Text()))
		if _, ok := wants[t]; !ok {
			continue
		}
		if _, seen := hits[t]; !seen {
			hits[t] = i
		}
	}

	starts := make([]int, 0, len(hits))
	for _, idx := range hits {
		starts = append(starts, idx)
	}
	sort.Ints(starts)

	ranges := make(map[string]Range, len(hits))
	for title, start := range hits {
		end := len(paras)
		for _, s := range starts {
			if s > start {
				end = s
				break
			}
		}
		ranges[title] = Range{Start: start, End: end}
	}
	return ranges
}

// bulletGlyphs are the leading characters that mark a hand-typed list
// item when no style metadata is present.
var bulletGlyphs = []string{"•", "-", "–", "—", "·"}

// IsBullet reports whether the paragraph is a list item. Resume documents
// come from many editors with inconsistent style metadata, so three
// signals are consulted: native numbering, a list-ish style name, and a
// leading glyph. Any single signal alone produces false negatives on
// real-world files.
func IsBullet(p *docx.Paragraph) bool {
	if p.HasNumbering() {
		return true
	}
	style := strings.ToLower(p.StyleName())
	if strings.Contains(style, "list") || strings.Contains(style, "bullet") || strings.Contains(style, "number") {
		return true
	}
	t := textkit.NormalizeWS(p.Text())
	for _, g := range bulletGlyphs {
		if strings.HasPrefix(t, g) {
			return true
		}
	}
	return false
}

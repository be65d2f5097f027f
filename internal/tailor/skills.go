package tailor

import (
	"strings"

	"github.com/jobcopilot/jobcopilot/internal/docx"
	"github.com/jobcopilot/jobcopilot/internal/textkit"
)

const maxPriorityAnnotation = 6

// ReorderSkills promotes keywords within the first comma-delimited skills
// line of the given range. A single-run line is rewritten in place with
// the matched items moved to the front, each keeping its original casing
// and the unmatched tail keeping its relative order. A multi-run line
// cannot be rearranged without disturbing per-item formatting, so it gets
// a "(Priority: ...)" suffix instead, capped to keep the line readable.
func ReorderSkills(paras []*docx.Paragraph, rng Range, keywords []string) InjectResult {
	if len(keywords) == 0 {
		return InjectResult{}
	}
	kwTokens := make([]textkit.Set, len(keywords))
	for i, k := range keywords {
		kwTokens[i] = textkit.Tokenize(k)
	}

	for i := rng.Start + 1; i < rng.End && i < len(paras); i++ {
		p := paras[i]
		text := textkit.NormalizeWS(p.Text())
		if text == "" || IsBullet(p) || !strings.Contains(text, ",") || len(text) >= 500 {
			continue
		}
		if runs := editableRuns(p); len(runs) == 1 {
			return reorderLine(p, runs[0], keywords, kwTokens)
		}
		return annotateLine(p, keywords, kwTokens)
	}
	return InjectResult{}
}

func reorderLine(p *docx.Paragraph, run *docx.Run, keywords []string, kwTokens []textkit.Set) InjectResult {
	before := p.Text()
	text := run.Text()

	// Split off an optional label prefix ("Skills: ...") so the reorder
	// only touches the enumeration itself.
	label := ""
	body := text
	if idx := strings.Index(text, ":"); idx >= 0 && idx < len(text)-1 && strings.Count(text[:idx], ",") == 0 {
		label = text[:idx+1]
		body = text[idx+1:]
	}

	items := strings.Split(body, ",")
	type entry struct {
		display string
		rank    int
	}
	entries := make([]entry, 0, len(items))
	for _, it := range items {
		trimmed := strings.TrimSpace(it)
		if trimmed == "" {
			continue
		}
		toks := textkit.Tokenize(trimmed)
		rank := -1
		for ki, kt := range kwTokens {
			if kt.Len() > 0 && (toks.Subset(kt) || kt.Subset(toks)) {
				rank = ki
				break
			}
		}
		entries = append(entries, entry{display: trimmed, rank: rank})
	}

	anyMatch := false
	for _, e := range entries {
		if e.rank >= 0 {
			anyMatch = true
			break
		}
	}
	if !anyMatch {
		return InjectResult{Before: before, After: before}
	}

	// Matched items go first, in keyword rank order rather than line
	// order. Ties and the unmatched tail keep their relative order.
	ordered := make([]string, 0, len(entries))
	for ki := range kwTokens {
		for _, e := range entries {
			if e.rank == ki {
				ordered = append(ordered, e.display)
			}
		}
	}
	for _, e := range entries {
		if e.rank < 0 {
			ordered = append(ordered, e.display)
		}
	}

	after := strings.Join(ordered, ", ")
	if label != "" {
		after = label + " " + after
	}
	if after == text {
		return InjectResult{Before: before, After: before}
	}
	run.SetText(after)
	return InjectResult{Changed: true, Before: before, After: p.Text()}
}

func annotateLine(p *docx.Paragraph, keywords []string, kwTokens []textkit.Set) InjectResult {
	before := p.Text()
	if strings.Contains(before, "(Priority:") {
		return InjectResult{Before: before, After: before}
	}
	lineTokens := textkit.Tokenize(before)

	var present []string
	for i, k := range keywords {
		if kwTokens[i].Len() > 0 && kwTokens[i].Subset(lineTokens) {
			present = append(present, textkit.CanonicalCasing(k))
		}
		if len(present) == maxPriorityAnnotation {
			break
		}
	}
	if len(present) == 0 {
		return InjectResult{Before: before, After: before}
	}

	inserted := " (Priority: " + strings.Join(present, ", ") + ")"
	r := p.AppendRun(inserted)
	if base := DominantRun(p); base != nil {
		r.CloneFormatFrom(base)
	}
	return InjectResult{Changed: true, Before: before, After: p.Text(), Inserted: inserted}
}

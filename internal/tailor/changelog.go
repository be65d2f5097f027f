// Package tailor implements the resume tailoring engine: locating
// sections in a document, selecting JD-aligned keywords and clauses, and
// weaving them into bullets without disturbing existing formatting. Every
// mutation is recorded in an audit-friendly change log.
package tailor

import "strings"

// Change is one recorded document mutation. Sections are never relabeled:
// AnchorSection is the fixed resume section ("Projects"), Anchor an
// optional finer-grained position ("Projects • bullet #2").
type Change struct {
	AnchorSection string `json:"anchor_section"`
	Anchor        string `json:"anchor,omitempty"`
	Original      string `json:"original_paragraph_text"`
	Modified      string `json:"modified_paragraph_text"`
	Inserted      string `json:"inserted_sentence,omitempty"`
	Reason        string `json:"reason"`
}

// ChangeLog accumulates changes in call order. Records are append-only
// and never merged or deduplicated.
type ChangeLog struct {
	items []Change
}

// Add appends one change record.
func (l *ChangeLog) Add(c Change) {
	c.AnchorSection = strings.TrimSpace(c.AnchorSection)
	c.Anchor = strings.TrimSpace(c.Anchor)
	c.Original = strings.TrimSpace(c.Original)
	c.Modified = strings.TrimSpace(c.Modified)
	c.Inserted = strings.TrimSpace(c.Inserted)
	l.items = append(l.items, c)
}

// Items returns the recorded changes in insertion order.
func (l *ChangeLog) Items() []Change {
	out := make([]Change, len(l.items))
	copy(out, l.items)
	return out
}

// Len returns the number of recorded changes.
func (l *ChangeLog) Len() int { return len(l.items) }

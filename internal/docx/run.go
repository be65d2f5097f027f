package docx

import (
	"fmt"
	"strconv"
	"strings"
)

// Run is a styled span of text. Untouched runs are re-serialized from
// their original markup; only runs created or edited by the engine are
// rebuilt, from the formatting block carried in rPr.
type Run struct {
	open      string
	rPr       string // raw run properties block
	inner     string // original inner markup (text elements, tabs)
	text      string
	hyperlink bool
	dirty     bool
}

func parseRun(raw string) (*Run, error) {
	gt := strings.IndexByte(raw, '>')
	if gt == -1 {
		return nil, fmt.Errorf("malformed run tag")
	}
	r := &Run{open: raw[:gt+1]}
	inner := raw[gt+1:]
	if end := strings.LastIndex(inner, "</w:r>"); end != -1 {
		inner = inner[:end]
	}

	if strings.HasPrefix(inner, "<w:rPr>") {
		end := matchElement(inner, 0, "w:rPr")
		if end == -1 {
			return nil, fmt.Errorf("unterminated <w:rPr>")
		}
		r.rPr = inner[:end]
		inner = inner[end:]
	} else if strings.HasPrefix(inner, "<w:rPr/>") {
		inner = inner[len("<w:rPr/>"):]
	}

	r.inner = inner
	r.text = extractText(inner)
	return r, nil
}

func (r *Run) render() string {
	if !r.dirty {
		return r.open + r.rPr + r.inner + "</w:r>"
	}
	open := r.open
	if open == "" {
		open = "<w:r>"
	}
	return open + r.rPr +
		`<w:t xml:space="preserve">` + escapeText(r.text) + `</w:t></w:r>`
}

// Text returns the run's visible text.
func (r *Run) Text() string { return r.text }

// SetText replaces the run content with a single text element. Any tabs
// or breaks the run previously contained are dropped.
func (r *Run) SetText(text string) {
	r.text = text
	r.dirty = true
}

// IsHyperlink reports whether the run lives inside a hyperlink wrapper or
// carries a hyperlink character style.
func (r *Run) IsHyperlink() bool {
	if r.hyperlink {
		return true
	}
	return strings.Contains(strings.ToLower(attrVal(r.rPr, "<w:rStyle", "w:val")), "hyperlink")
}

// CloneFormatFrom copies the full formatting block (font name and size,
// bold, italic, underline, character style) from src.
func (r *Run) CloneFormatFrom(src *Run) {
	if src == nil {
		return
	}
	r.rPr = src.rPr
	r.dirty = true
}

// Bold reports whether the run is bold.
func (r *Run) Bold() bool { return boolProp(r.rPr, "w:b") }

// Italic reports whether the run is italic.
func (r *Run) Italic() bool { return boolProp(r.rPr, "w:i") }

// Underline reports whether the run is underlined.
func (r *Run) Underline() bool {
	val := attrVal(r.rPr, "<w:u", "w:val")
	return val != "" && val != "none"
}

// FontName returns the ascii font name, if set.
func (r *Run) FontName() string {
	return attrVal(r.rPr, "<w:rFonts", "w:ascii")
}

// SizeHalfPoints returns the font size in half-points, or 0 when unset.
func (r *Run) SizeHalfPoints() int {
	v := attrVal(r.rPr, "<w:sz", "w:val")
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0
	}
	return n
}

// StyleName returns the character style identifier, if any.
func (r *Run) StyleName() string {
	return attrVal(r.rPr, "<w:rStyle", "w:val")
}

// boolProp reports a toggle property like <w:b/>. An explicit w:val of
// "0" or "false" turns the toggle off.
func boolProp(rPr, name string) bool {
	if strings.Contains(rPr, "<"+name+"/>") {
		return true
	}
	idx := strings.Index(rPr, "<"+name+" ")
	if idx == -1 {
		return false
	}
	val := attrVal(rPr[idx:], "<"+name, "w:val")
	return val != "0" && val != "false" && val != "off"
}

// RunProps describes run formatting for programmatically built documents.
type RunProps struct {
	Font          string
	SizeHalfPoint int
	Bold          bool
	Italic        bool
	Underline     bool
	Style         string
}

func (p RunProps) render() string {
	var b strings.Builder
	b.WriteString("<w:rPr>")
	if p.Style != "" {
		fmt.Fprintf(&b, `<w:rStyle w:val="%s"/>`, p.Style)
	}
	if p.Font != "" {
		fmt.Fprintf(&b, `<w:rFonts w:ascii="%s" w:hAnsi="%s"/>`, p.Font, p.Font)
	}
	if p.Bold {
		b.WriteString("<w:b/>")
	}
	if p.Italic {
		b.WriteString("<w:i/>")
	}
	if p.Underline {
		b.WriteString(`<w:u w:val="single"/>`)
	}
	if p.SizeHalfPoint > 0 {
		fmt.Fprintf(&b, `<w:sz w:val="%d"/>`, p.SizeHalfPoint)
	}
	b.WriteString("</w:rPr>")
	return b.String()
}

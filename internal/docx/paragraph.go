package docx

import (
	"fmt"
	"strings"
)

// Paragraph is one body-level paragraph. Its properties block and any
// markup the model does not understand are kept verbatim.
type Paragraph struct {
	open  string // opening <w:p ...> tag
	pPr   string // raw paragraph properties, may be empty
	items []*pItem
}

// pItem is either a run or opaque markup (hyperlink wrappers, proofing
// marks, bookmarks).
type pItem struct {
	raw       string
	run       *Run
	hyperlink bool
}

func parseParagraph(raw string) (*Paragraph, error) {
	gt := strings.IndexByte(raw, '>')
	if gt == -1 {
		return nil, fmt.Errorf("malformed paragraph tag")
	}
	p := &Paragraph{open: raw[:gt+1]}
	if strings.HasSuffix(p.open, "/>") {
		// Normalize an empty self-closed paragraph to an open/close pair.
		p.open = p.open[:len(p.open)-2] + ">"
		return p, nil
	}
	inner := raw[gt+1:]
	if end := strings.LastIndex(inner, "</w:p>"); end != -1 {
		inner = inner[:end]
	}

	if strings.HasPrefix(inner, "<w:pPr>") {
		end := matchElement(inner, 0, "w:pPr")
		if end == -1 {
			return nil, fmt.Errorf("unterminated <w:pPr>")
		}
		p.pPr = inner[:end]
		inner = inner[end:]
	} else if strings.HasPrefix(inner, "<w:pPr/>") {
		p.pPr = "<w:pPr/>"
		inner = inner[len("<w:pPr/>"):]
	}

	pos := 0
	rawStart := 0
	flush := func(to int) {
		if rawStart < to {
			p.items = append(p.items, &pItem{raw: inner[rawStart:to]})
		}
	}
	for pos < len(inner) {
		rest := inner[pos:]
		switch {
		case strings.HasPrefix(rest, "<w:r>") || strings.HasPrefix(rest, "<w:r "):
			end := matchElement(inner, pos, "w:r")
			if end == -1 {
				return nil, fmt.Errorf("unterminated <w:r>")
			}
			flush(pos)
			run, err := parseRun(inner[pos:end])
			if err != nil {
				return nil, err
			}
			p.items = append(p.items, &pItem{run: run})
			pos = end
			rawStart = pos
		case strings.HasPrefix(rest, "<w:hyperlink>") || strings.HasPrefix(rest, "<w:hyperlink "):
			end := matchElement(inner, pos, "w:hyperlink")
			if end == -1 {
				return nil, fmt.Errorf("unterminated <w:hyperlink>")
			}
			flush(pos)
			chunk := inner[pos:end]
			p.items = append(p.items, &pItem{
				raw:       chunk,
				run:       &Run{text: extractText(chunk), hyperlink: true},
				hyperlink: true,
			})
			pos = end
			rawStart = pos
		default:
			next := strings.IndexByte(rest[1:], '<')
			if next == -1 {
				pos = len(inner)
			} else {
				pos += next + 1
			}
		}
	}
	flush(len(inner))
	return p, nil
}

func (p *Paragraph) render() string {
	var b strings.Builder
	b.WriteString(p.open)
	b.WriteString(p.pPr)
	for _, it := range p.items {
		switch {
		case it.run != nil && !it.hyperlink:
			b.WriteString(it.run.render())
		default:
			b.WriteString(it.raw)
		}
	}
	b.WriteString("</w:p>")
	return b.String()
}

// Text returns the concatenated visible text of the paragraph, including
// hyperlink runs.
func (p *Paragraph) Text() string {
	var b strings.Builder
	for _, it := range p.items {
		if it.run != nil {
			b.WriteString(it.run.text)
		}
	}
	return b.String()
}

// Runs returns the paragraph's runs in order. Runs living inside a
// hyperlink wrapper are included read-only and report IsHyperlink.
func (p *Paragraph) Runs() []*Run {
	out := make([]*Run, 0, len(p.items))
	for _, it := range p.items {
		if it.run != nil {
			out = append(out, it.run)
		}
	}
	return out
}

// StyleName returns the paragraph style identifier, e.g. "ListParagraph".
func (p *Paragraph) StyleName() string {
	return attrVal(p.pPr, "<w:pStyle", "w:val")
}

// SetStyleName replaces the paragraph style, creating a properties block
// when none exists.
func (p *Paragraph) SetStyleName(style string) {
	p.pPr = fmt.Sprintf(`<w:pPr><w:pStyle w:val="%s"/></w:pPr>`, style)
}

// HasNumbering reports whether the paragraph carries native list or
// numbering metadata.
func (p *Paragraph) HasNumbering() bool {
	return strings.Contains(p.pPr, "<w:numPr>") || strings.Contains(p.pPr, "<w:numPr ")
}

// AppendRun appends an unstyled run with the given text.
func (p *Paragraph) AppendRun(text string) *Run {
	r := &Run{text: text, dirty: true}
	p.items = append(p.items, &pItem{run: r})
	return r
}

// AppendStyledRun appends a run and renders the given properties into its
// formatting block. Used when constructing documents programmatically.
func (p *Paragraph) AppendStyledRun(text string, props RunProps) *Run {
	r := p.AppendRun(text)
	r.rPr = props.render()
	return r
}

func attrVal(s, elem, attr string) string {
	idx := strings.Index(s, elem)
	if idx == -1 {
		return ""
	}
	tagEnd := strings.IndexByte(s[idx:], '>')
	if tagEnd == -1 {
		return ""
	}
	tag := s[idx : idx+tagEnd]
	marker := attr + `="`
	aIdx := strings.Index(tag, marker)
	if aIdx == -1 {
		return ""
	}
	rest := tag[aIdx+len(marker):]
	end := strings.IndexByte(rest, '"')
	if end == -1 {
		return ""
	}
	return unescapeText(rest[:end])
}

func extractText(chunk string) string {
	var b strings.Builder
	pos := 0
	for {
		idx := strings.Index(chunk[pos:], "<w:t")
		if idx == -1 {
			break
		}
		abs := pos + idx
		gt := strings.IndexByte(chunk[abs:], '>')
		if gt == -1 {
			break
		}
		// Distinguish <w:t> / <w:t attrs> from longer names like <w:tab/>.
		boundary := chunk[abs+4]
		if boundary != '>' && boundary != ' ' && boundary != '/' {
			if strings.HasPrefix(chunk[abs:], "<w:tab") {
				b.WriteString("\t")
			}
			pos = abs + gt + 1
			continue
		}
		if chunk[abs+gt-1] == '/' { // self-closing, empty text
			pos = abs + gt + 1
			continue
		}
		end := strings.Index(chunk[abs+gt:], "</w:t>")
		if end == -1 {
			break
		}
		b.WriteString(unescapeText(chunk[abs+gt+1 : abs+gt+end]))
		pos = abs + gt + end + len("</w:t>")
	}
	return b.String()
}

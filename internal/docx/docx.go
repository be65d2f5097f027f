// Package docx implements a minimal WordprocessingML document model for
// the tailoring engine: an ordered list of paragraphs with style-bearing
// runs. Mutation happens at the XML level (new runs are spliced into the
// paragraph markup), so every untouched run, hyperlink and document part
// survives a load/save round trip byte-for-byte.
package docx

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
)

const documentPath = "word/document.xml"

// Document is an in-memory .docx file. Parts other than the main document
// body are carried through untouched.
type Document struct {
	parts map[string][]byte
	order []string

	prefix string // document.xml up to and including <w:body>
	suffix string // document.xml from </w:body> on

	segments []*segment
	paras    []*Paragraph
}

// segment is a slice of the document body: either verbatim markup
// (tables, section properties, bookmarks) or a parsed paragraph.
type segment struct {
	raw  string
	para *Paragraph
}

// Open reads a .docx file from disk.
func Open(path string) (*Document, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer zr.Close()

	doc := &Document{parts: make(map[string][]byte)}
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("open part %s: %w", f.Name, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("read part %s: %w", f.Name, err)
		}
		doc.parts[f.Name] = data
		doc.order = append(doc.order, f.Name)
	}

	body, ok := doc.parts[documentPath]
	if !ok {
		return nil, fmt.Errorf("%s: missing %s", path, documentPath)
	}
	if err := doc.parseBody(string(body)); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// Save writes the document to path, re-serializing only the main body.
func (d *Document) Save(path string) error {
	d.parts[documentPath] = []byte(d.renderBody())

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, name := range d.order {
		w, err := zw.Create(name)
		if err != nil {
			return fmt.Errorf("create part %s: %w", name, err)
		}
		if _, err := w.Write(d.parts[name]); err != nil {
			return fmt.Errorf("write part %s: %w", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("finalize archive: %w", err)
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

// Paragraphs returns the body-level paragraphs in document order.
// Paragraphs inside tables are treated as opaque markup.
func (d *Document) Paragraphs() []*Paragraph {
	return d.paras
}

// AddParagraph appends an empty paragraph to the end of the body.
func (d *Document) AddParagraph() *Paragraph {
	p := &Paragraph{open: "<w:p>"}
	d.segments = append(d.segments, &segment{para: p})
	d.paras = append(d.paras, p)
	return p
}

// InsertParagraphAfter inserts a new paragraph directly after the
// paragraph at index idx. Index -1 inserts at the top of the body.
func (d *Document) InsertParagraphAfter(idx int) *Paragraph {
	p := &Paragraph{open: "<w:p>"}

	segIdx := -1
	if idx >= 0 && idx < len(d.paras) {
		target := d.paras[idx]
		for i, seg := range d.segments {
			if seg.para == target {
				segIdx = i
				break
			}
		}
	}

	seg := &segment{para: p}
	d.segments = append(d.segments, nil)
	copy(d.segments[segIdx+2:], d.segments[segIdx+1:])
	d.segments[segIdx+1] = seg

	d.paras = nil
	for _, s := range d.segments {
		if s.para != nil {
			d.paras = append(d.paras, s.para)
		}
	}
	return p
}

func (d *Document) renderBody() string {
	var b strings.Builder
	b.WriteString(d.prefix)
	for _, seg := range d.segments {
		if seg.para != nil {
			b.WriteString(seg.para.render())
			continue
		}
		b.WriteString(seg.raw)
	}
	b.WriteString(d.suffix)
	return b.String()
}

// parseBody splits document.xml into verbatim segments and paragraphs.
func (d *Document) parseBody(xml string) error {
	open := strings.Index(xml, "<w:body")
	if open == -1 {
		return fmt.Errorf("no <w:body> element")
	}
	bodyStart := strings.Index(xml[open:], ">")
	if bodyStart == -1 {
		return fmt.Errorf("malformed <w:body> element")
	}
	bodyStart += open + 1

	bodyEnd := strings.LastIndex(xml, "</w:body>")
	if bodyEnd == -1 || bodyEnd < bodyStart {
		return fmt.Errorf("no </w:body> element")
	}

	d.prefix = xml[:bodyStart]
	d.suffix = xml[bodyEnd:]
	body := xml[bodyStart:bodyEnd]

	pos := 0
	rawStart := 0
	for pos < len(body) {
		rest := body[pos:]
		switch {
		case strings.HasPrefix(rest, "<w:tbl>") || strings.HasPrefix(rest, "<w:tbl "):
			end := matchElement(body, pos, "w:tbl")
			if end == -1 {
				return fmt.Errorf("unterminated <w:tbl>")
			}
			pos = end
		case strings.HasPrefix(rest, "<w:p>") || strings.HasPrefix(rest, "<w:p "):
			if rawStart < pos {
				d.segments = append(d.segments, &segment{raw: body[rawStart:pos]})
			}
			end := matchElement(body, pos, "w:p")
			if end == -1 {
				return fmt.Errorf("unterminated <w:p>")
			}
			para, err := parseParagraph(body[pos:end])
			if err != nil {
				return err
			}
			d.segments = append(d.segments, &segment{para: para})
			d.paras = append(d.paras, para)
			pos = end
			rawStart = pos
		default:
			next := strings.IndexByte(rest[1:], '<')
			if next == -1 {
				pos = len(body)
			} else {
				pos += next + 1
			}
		}
	}
	if rawStart < len(body) {
		d.segments = append(d.segments, &segment{raw: body[rawStart:]})
	}
	return nil
}

// matchElement returns the index just past the closing tag of the element
// starting at start, accounting for nested elements of the same name and
// self-closing forms.
func matchElement(s string, start int, name string) int {
	openA := "<" + name + ">"
	openB := "<" + name + " "
	closing := "</" + name + ">"

	depth := 0
	pos := start
	for pos < len(s) {
		rest := s[pos:]
		switch {
		case strings.HasPrefix(rest, closing):
			depth--
			pos += len(closing)
			if depth == 0 {
				return pos
			}
		case strings.HasPrefix(rest, openA):
			depth++
			pos += len(openA)
		case strings.HasPrefix(rest, openB):
			gt := strings.IndexByte(rest, '>')
			if gt == -1 {
				return -1
			}
			if rest[gt-1] == '/' {
				// Self-closing: the element at start may itself be empty.
				if depth == 0 {
					return pos + gt + 1
				}
			} else {
				depth++
			}
			pos += gt + 1
		default:
			next := strings.IndexByte(rest[1:], '<')
			if next == -1 {
				return -1
			}
			pos += next + 1
		}
	}
	return -1
}

func escapeText(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	return r.Replace(s)
}

func unescapeText(s string) string {
	r := strings.NewReplacer("&lt;", "<", "&gt;", ">", "&quot;", `"`, "&apos;", "'", "&amp;", "&")
	return r.Replace(s)
}

package docx

import (
	"path/filepath"
	"strings"
	"testing"
)

const sampleXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
	`<w:p><w:pPr><w:pStyle w:val="Heading1"/></w:pPr><w:r><w:rPr><w:b/><w:sz w:val="28"/></w:rPr><w:t>Skills</w:t></w:r></w:p>` +
	`<w:p><w:r><w:t>Python, SQL &amp; more</w:t></w:r></w:p>` +
	`<w:p><w:pPr><w:pStyle w:val="ListParagraph"/><w:numPr><w:ilvl w:val="0"/></w:numPr></w:pPr>` +
	`<w:r><w:rPr><w:rFonts w:ascii="Calibri" w:hAnsi="Calibri"/><w:i/></w:rPr><w:t xml:space="preserve">Built tools </w:t></w:r>` +
	`<w:hyperlink r:id="rId7" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships"><w:r><w:rPr><w:rStyle w:val="Hyperlink"/></w:rPr><w:t>github.com/x</w:t></w:r></w:hyperlink>` +
	`</w:p>` +
	`<w:sectPr><w:pgSz w:w="12240"/></w:sectPr>` +
	`</w:body></w:document>`

func parseSample(t *testing.T) *Document {
	t.Helper()
	d := &Document{parts: map[string][]byte{}}
	if err := d.parseBody(sampleXML); err != nil {
		t.Fatalf("parse: %v", err)
	}
	return d
}

func TestParseParagraphsAndText(t *testing.T) {
	d := parseSample(t)
	paras := d.Paragraphs()
	if len(paras) != 3 {
		t.Fatalf("expected 3 paragraphs, got %d", len(paras))
	}
	if got := paras[0].Text(); got != "Skills" {
		t.Fatalf("unexpected heading text %q", got)
	}
	if got := paras[1].Text(); got != "Python, SQL & more" {
		t.Fatalf("entity not unescaped: %q", got)
	}
	if got := paras[2].Text(); got != "Built tools github.com/x" {
		t.Fatalf("hyperlink text missing: %q", got)
	}
}

func TestParagraphProperties(t *testing.T) {
	d := parseSample(t)
	paras := d.Paragraphs()
	if got := paras[0].StyleName(); got != "Heading1" {
		t.Fatalf("unexpected style %q", got)
	}
	if !paras[2].HasNumbering() {
		t.Fatalf("expected list paragraph to report numbering")
	}
	if paras[1].HasNumbering() {
		t.Fatalf("plain paragraph should not report numbering")
	}
}

func TestRunProperties(t *testing.T) {
	d := parseSample(t)
	runs := d.Paragraphs()[0].Runs()
	if len(runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(runs))
	}
	if !runs[0].Bold() {
		t.Fatalf("expected bold run")
	}
	if got := runs[0].SizeHalfPoints(); got != 28 {
		t.Fatalf("expected size 28 half-points, got %d", got)
	}

	bullet := d.Paragraphs()[2].Runs()
	if len(bullet) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(bullet))
	}
	if got := bullet[0].FontName(); got != "Calibri" {
		t.Fatalf("unexpected font %q", got)
	}
	if !bullet[0].Italic() {
		t.Fatalf("expected italic run")
	}
	if bullet[0].IsHyperlink() {
		t.Fatalf("text run misreported as hyperlink")
	}
	if !bullet[1].IsHyperlink() {
		t.Fatalf("hyperlink run not detected")
	}
}

func TestUntouchedRoundTrip(t *testing.T) {
	d := parseSample(t)
	if got := d.renderBody(); got != sampleXML {
		t.Fatalf("render is not byte-identical to source:\n%s", got)
	}
}

func TestAppendRunClonesFormat(t *testing.T) {
	d := parseSample(t)
	p := d.Paragraphs()[2]
	src := p.Runs()[0]

	r := p.AppendRun(" Using Python.")
	r.CloneFormatFrom(src)

	if got := r.FontName(); got != "Calibri" {
		t.Fatalf("cloned font %q", got)
	}
	if !r.Italic() {
		t.Fatalf("expected italic cloned onto new run")
	}
	out := d.renderBody()
	if !strings.Contains(out, `<w:t xml:space="preserve"> Using Python.</w:t>`) {
		t.Fatalf("new run not serialized: %s", out)
	}
	if !strings.Contains(out, `<w:hyperlink r:id="rId7"`) {
		t.Fatalf("hyperlink wrapper lost")
	}
}

func TestSetTextRewritesSingleRun(t *testing.T) {
	d := parseSample(t)
	p := d.Paragraphs()[1]
	p.Runs()[0].SetText("SQL, Python & more")
	if got := p.Text(); got != "SQL, Python & more" {
		t.Fatalf("unexpected text %q", got)
	}
	if !strings.Contains(d.renderBody(), "SQL, Python &amp; more") {
		t.Fatalf("ampersand not escaped on output")
	}
}

func TestInsertParagraphAfter(t *testing.T) {
	d := parseSample(t)
	p := d.InsertParagraphAfter(0)
	p.AppendRun("Targeted summary.")

	paras := d.Paragraphs()
	if len(paras) != 4 {
		t.Fatalf("expected 4 paragraphs, got %d", len(paras))
	}
	if got := paras[1].Text(); got != "Targeted summary." {
		t.Fatalf("inserted paragraph at wrong position: %q", got)
	}
}

func TestNewSaveOpenRoundTrip(t *testing.T) {
	d := New()
	d.AddTextParagraph("Summary")
	d.AddTextParagraph("Did things.")

	path := filepath.Join(t.TempDir(), "out.docx")
	if err := d.Save(path); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	paras := got.Paragraphs()
	if len(paras) != 2 {
		t.Fatalf("expected 2 paragraphs, got %d", len(paras))
	}
	if paras[0].Text() != "Summary" || paras[1].Text() != "Did things." {
		t.Fatalf("unexpected texts %q %q", paras[0].Text(), paras[1].Text())
	}
}

func TestTableIsOpaque(t *testing.T) {
	xml := `<w:document xmlns:w="ns"><w:body>` +
		`<w:tbl><w:tr><w:tc><w:p><w:r><w:t>cell</w:t></w:r></w:p></w:tc></w:tr></w:tbl>` +
		`<w:p><w:r><w:t>after</w:t></w:r></w:p>` +
		`</w:body></w:document>`
	d := &Document{parts: map[string][]byte{}}
	if err := d.parseBody(xml); err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(d.Paragraphs()) != 1 {
		t.Fatalf("table paragraphs must not surface, got %d", len(d.Paragraphs()))
	}
	if d.renderBody() != xml {
		t.Fatalf("table markup not preserved")
	}
}

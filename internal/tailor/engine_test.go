package tailor

import (
	"strings"
	"testing"

	"github.com/jobcopilot/jobcopilot/internal/docx"
	"github.com/jobcopilot/jobcopilot/internal/tailor/policy"
)

func resumeDoc(t *testing.T) *docx.Document {
	t.Helper()
	doc := docx.New()
	doc.AddTextParagraph("Jane Doe")
	doc.AddTextParagraph("Skills")
	doc.AddTextParagraph("Python, SQL, Excel")
	doc.AddTextParagraph("Experience")
	bullet := doc.AddTextParagraph("Built internal tools for the data team.")
	bullet.SetStyleName("ListParagraph")
	doc.AddTextParagraph("References available on request")
	return doc
}

func TestTailorEndToEndWeave(t *testing.T) {
	doc := resumeDoc(t)
	log := Tailor(doc, []string{"python", "sql"}, []string{"python", "sql"}, Options{})

	if log.Len() != 1 {
		t.Fatalf("expected 1 change, got %d: %+v", log.Len(), log.Items())
	}
	c := log.Items()[0]
	if c.AnchorSection != "Work Experience" {
		t.Fatalf("unexpected section: %q", c.AnchorSection)
	}
	if c.Anchor != "Work Experience • bullet #1" {
		t.Fatalf("unexpected anchor: %q", c.Anchor)
	}

	bullet := doc.Paragraphs()[4].Text()
	if !strings.Contains(strings.ToLower(bullet), "with python and sql") {
		t.Fatalf("expected woven keywords, got %q", bullet)
	}

	// Everything else stays untouched, the skills line included: both
	// keywords already lead it.
	for i, want := range []string{"Jane Doe", "Skills", "Python, SQL, Excel", "Experience"} {
		if got := doc.Paragraphs()[i].Text(); got != want {
			t.Fatalf("paragraph %d changed: %q", i, got)
		}
	}
	if got := doc.Paragraphs()[5].Text(); got != "References available on request" {
		t.Fatalf("trailing paragraph changed: %q", got)
	}
}

func TestTailorIsIdempotent(t *testing.T) {
	doc := resumeDoc(t)
	Tailor(doc, []string{"python", "sql"}, []string{"python", "sql"}, Options{})
	after := doc.Paragraphs()[4].Text()

	log := Tailor(doc, []string{"python", "sql"}, []string{"python", "sql"}, Options{})
	if log.Len() != 0 {
		t.Fatalf("second run must change nothing, got %+v", log.Items())
	}
	if doc.Paragraphs()[4].Text() != after {
		t.Fatalf("bullet changed on second run")
	}
}

func TestTailorEmptyProfile(t *testing.T) {
	doc := resumeDoc(t)
	log := Tailor(doc, nil, nil, Options{})
	if log.Len() != 0 {
		t.Fatalf("empty vocabulary must yield zero changes, got %+v", log.Items())
	}
}

func TestTailorMissingSections(t *testing.T) {
	doc := buildDoc(t, "Jane Doe", "An unstructured document", "with no headings at all")
	log := Tailor(doc, []string{"python"}, []string{"python"}, Options{})
	if log.Len() != 0 {
		t.Fatalf("document without sections must yield zero changes, got %+v", log.Items())
	}
}

func TestTailorPrefersPolicyClauseOverWeave(t *testing.T) {
	doc := resumeDoc(t)
	pol := policy.Policy{
		ID:          "py-tooling",
		JDCues:      []string{"python"},
		BulletCues:  []string{"tools"},
		RequiresAny: []string{"python"},
		Clause:      "built internal Python tooling for analytics teams",
		Source:      policy.SourceBase,
	}
	log := Tailor(doc, []string{"python", "sql"}, []string{"python", "sql"}, Options{
		Policies: []policy.Policy{pol},
	})

	if log.Len() != 1 {
		t.Fatalf("expected 1 change, got %d", log.Len())
	}
	if !strings.Contains(log.Items()[0].Reason, "clause") {
		t.Fatalf("expected a clause-based reason, got %q", log.Items()[0].Reason)
	}
}

func TestTailorRespectsRewriteCap(t *testing.T) {
	doc := docx.New()
	doc.AddTextParagraph("Experience")
	for i := 0; i < 5; i++ {
		doc.AddTextParagraph("• Shipped a feature for the commerce team.")
	}

	log := Tailor(doc, []string{"python", "sql", "terraform", "docker", "aws", "go"},
		[]string{"python", "sql", "terraform", "docker", "aws", "go"},
		Options{MaxRewritesPerSection: 2})
	if log.Len() > 2 {
		t.Fatalf("rewrite cap exceeded: %d changes", log.Len())
	}
}

func TestTailorSkillsReorderLogged(t *testing.T) {
	doc := docx.New()
	doc.AddTextParagraph("Skills")
	doc.AddTextParagraph("Excel, Python, SQL")

	log := Tailor(doc, []string{"sql"}, []string{"sql"}, Options{})
	items := log.Items()
	if len(items) == 0 || items[0].AnchorSection != "Technical Skills" {
		t.Fatalf("expected a skills reorder entry, got %+v", items)
	}
	if got := doc.Paragraphs()[1].Text(); got != "SQL, Excel, Python" {
		t.Fatalf("unexpected skills line: %q", got)
	}
}

func TestInsertSummaryUnderExistingHeading(t *testing.T) {
	doc := buildDoc(t, "Jane Doe", "Summary", "Old objective text", "Experience")
	log := &ChangeLog{}
	InsertSummary(doc, "Data engineer focused on analytics tooling.", log)

	if got := doc.Paragraphs()[2].Text(); got != "Data engineer focused on analytics tooling." {
		t.Fatalf("sentence not inserted under heading: %q", got)
	}
	if log.Len() != 1 || log.Items()[0].AnchorSection != "Summary" {
		t.Fatalf("expected a summary change entry, got %+v", log.Items())
	}
}

func TestInsertSummaryCreatesHeadingAfterName(t *testing.T) {
	doc := buildDoc(t, "Jane Doe", "Experience")
	log := &ChangeLog{}
	InsertSummary(doc, "Data engineer focused on analytics tooling.", log)

	paras := doc.Paragraphs()
	if paras[0].Text() != "Jane Doe" {
		t.Fatalf("name line must stay first, got %q", paras[0].Text())
	}
	if paras[1].Text() != "Summary" {
		t.Fatalf("expected Summary heading second, got %q", paras[1].Text())
	}
	if paras[2].Text() != "Data engineer focused on analytics tooling." {
		t.Fatalf("expected sentence third, got %q", paras[2].Text())
	}
}

func TestInsertSummaryIdempotent(t *testing.T) {
	doc := buildDoc(t, "Jane Doe", "Summary", "filler", "Experience")
	log := &ChangeLog{}
	InsertSummary(doc, "Data engineer focused on analytics tooling.", log)
	n := len(doc.Paragraphs())
	InsertSummary(doc, "Data engineer focused on analytics tooling.", log)
	if len(doc.Paragraphs()) != n {
		t.Fatalf("repeat insertion must be a no-op")
	}
	if log.Len() != 1 {
		t.Fatalf("expected a single change entry, got %d", log.Len())
	}
}

package artifacts

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jobcopilot/jobcopilot/internal/job"
	"github.com/jobcopilot/jobcopilot/internal/scoring"
	"github.com/jobcopilot/jobcopilot/internal/tailor"
)

func TestSafeName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Acme, Inc.", "AcmeInc"},
		{"Technical Editor / Writer", "TechnicalEditorWriter"},
		{"data-eng_2", "data-eng_2"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := SafeName(tc.in); got != tc.want {
			t.Fatalf("SafeName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSlug(t *testing.T) {
	if got := Slug("Acme, Inc.", "Technical Editor"); got != "AcmeInc_TechnicalEditor" {
		t.Fatalf("unexpected slug: %q", got)
	}

	long := Slug(strings.Repeat("a", 120), strings.Repeat("b", 120))
	if len(long) != 150 {
		t.Fatalf("expected slug capped at 150, got %d", len(long))
	}
}

func TestJDHash(t *testing.T) {
	h := JDHash("Edit docs.")
	if len(h) != 8 {
		t.Fatalf("expected 8 hex chars, got %q", h)
	}
	if h != JDHash("Edit docs.") {
		t.Fatalf("expected stable hash")
	}
	if h == JDHash("Edit docs!") {
		t.Fatalf("expected different inputs to differ")
	}
}

func TestStoreLayout(t *testing.T) {
	root := t.TempDir()
	store, err := NewStore(root)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, dir := range []string{"outbox", "resumes", "changes", "data"} {
		if _, err := os.Stat(filepath.Join(root, dir)); err != nil {
			t.Fatalf("expected %s dir: %v", dir, err)
		}
	}

	rel, err := store.WriteCover("Acme_Editor", "Dear Hiring Team,")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rel != filepath.Join("outbox", "Acme_Editor.md") {
		t.Fatalf("unexpected cover path: %q", rel)
	}
	data, err := os.ReadFile(filepath.Join(root, rel))
	if err != nil || string(data) != "Dear Hiring Team," {
		t.Fatalf("cover content mismatch: %q, %v", data, err)
	}

	abs, rel := store.ResumePath("Acme_Editor", "deadbeef")
	if rel != filepath.Join("resumes", "Acme_Editor_deadbeef.docx") {
		t.Fatalf("unexpected resume rel path: %q", rel)
	}
	if abs != filepath.Join(root, rel) {
		t.Fatalf("unexpected resume abs path: %q", abs)
	}

	if store.BanlistPath() != filepath.Join(root, "data", "banlist.json") {
		t.Fatalf("unexpected banlist path: %q", store.BanlistPath())
	}
}

func TestWriteJDTextCaps(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := store.WriteJDText("slug", strings.Repeat("x", maxJDLen+500)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(store.Root(), "changes", "slug.jd.txt"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(data) != maxJDLen {
		t.Fatalf("expected %d bytes, got %d", maxJDLen, len(data))
	}
}

func TestWriteChanges(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rel, err := store.WriteChanges("Acme_Editor", &Explanation{
		Company:     "Acme",
		Title:       "Editor",
		ATSKeywords: []string{"copyediting"},
		Changes: []tailor.Change{{
			AnchorSection: "Summary",
			Modified:      "Targeted for Editor.",
			Inserted:      "Targeted for Editor.",
			Reason:        "Inserted targeted summary.",
		}},
		JDHash: "deadbeef",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(store.Root(), rel))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if decoded["jd_hash"] != "deadbeef" {
		t.Fatalf("unexpected jd_hash: %v", decoded["jd_hash"])
	}
	if _, ok := decoded["llm_keywords"].([]any); !ok {
		t.Fatalf("expected llm_keywords array, got %T", decoded["llm_keywords"])
	}
	changes, ok := decoded["changes"].([]any)
	if !ok || len(changes) != 1 {
		t.Fatalf("unexpected changes: %v", decoded["changes"])
	}
}

func TestReadScoresMissingFile(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Callers decide between "run rank first" and a hard failure by
	// checking for a missing file, so the sentinel must survive wrapping.
	_, err = store.ReadScores()
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected fs.ErrNotExist, got %v", err)
	}
}

func TestScoresRoundTrip(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ranked := []*scoring.ScoredJob{{
		Job:   &job.Job{Title: "Editor", Company: "Acme", URL: "https://acme.example/jobs/1"},
		Score: 0.9,
		Parts: scoring.Parts{SkillOverlap: 1, TitleSimilarity: 1},
	}}
	if err := store.WriteScores(ranked); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := store.ReadScores()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].Title != "Editor" || got[0].Score != 0.9 {
		t.Fatalf("unexpected round trip: %+v", got)
	}
}

func TestWriteLLMInfo(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := store.WriteLLMInfo(&LLMInfo{Used: true, Model: "gemini-2.5-flash"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(store.Root(), "data", "llm_info.json"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var decoded LLMInfo
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if !decoded.Used || decoded.Model != "gemini-2.5-flash" {
		t.Fatalf("unexpected llm info: %+v", decoded)
	}
	if decoded.Jobs == nil || len(decoded.Jobs) != 0 {
		t.Fatalf("expected empty jobs array, got %v", decoded.Jobs)
	}
}

package job

import (
	"errors"
	"io/fs"
	"path/filepath"
	"testing"
)

func TestURLHashNormalizes(t *testing.T) {
	a := &Job{URL: "https://example.com/jobs/1"}
	b := &Job{URL: "  HTTPS://EXAMPLE.COM/jobs/1  "}
	if a.URLHash() != b.URLHash() {
		t.Fatalf("hash should ignore case and padding: %s vs %s", a.URLHash(), b.URLHash())
	}
	if len(a.URLHash()) != 40 {
		t.Fatalf("expected sha1 hex digest, got %q", a.URLHash())
	}
}

func TestDedupe(t *testing.T) {
	jobs := &Jobs{}
	jobs.Append(
		&Job{Title: "Editor", Company: "Acme", URL: "https://a.com/1"},
		&Job{Title: "Editor", Company: "Acme", URL: "HTTPS://A.COM/1"},
		&Job{Title: "Editor", Company: "Acme"},
		&Job{Title: "editor", Company: "ACME"},
		&Job{Title: "Writer", Company: "Acme", URL: "https://a.com/2"},
	)

	jobs.Dedupe()

	if jobs.Len() != 3 {
		t.Fatalf("expected 3 postings after dedupe, got %d", jobs.Len())
	}
	if jobs.Items[0].URL != "https://a.com/1" {
		t.Fatalf("dedupe must keep first-seen order, got %v", jobs.Items[0])
	}
}

func TestJSONLRoundTrip(t *testing.T) {
	remote := true
	jobs := &Jobs{}
	jobs.Append(
		&Job{Title: "Editor", Company: "Acme", URL: "https://a.com/1", Source: "greenhouse", Remote: &remote, PostedAt: "2025-08-01"},
		&Job{Title: "Writer", Company: "Beta", URL: "https://b.com/2", Source: "lever"},
	)

	path := filepath.Join(t.TempDir(), "jobs.jsonl")
	if err := jobs.ToJSONL(path); err != nil {
		t.Fatalf("write jsonl: %v", err)
	}

	loaded, err := FromJSONLFile(path)
	if err != nil {
		t.Fatalf("read jsonl: %v", err)
	}
	if loaded.Len() != 2 {
		t.Fatalf("expected 2 postings, got %d", loaded.Len())
	}
	first := loaded.Items[0]
	if first.Title != "Editor" || first.Source != "greenhouse" || first.PostedAt != "2025-08-01" {
		t.Fatalf("round trip mangled posting: %+v", first)
	}
	if first.Remote == nil || !*first.Remote {
		t.Fatalf("remote flag lost: %+v", first)
	}
}

func TestFromJSONLFileMissing(t *testing.T) {
	_, err := FromJSONLFile(filepath.Join(t.TempDir(), "absent.jsonl"))
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected fs.ErrNotExist, got %v", err)
	}
}

func TestFindByURL(t *testing.T) {
	jobs := &Jobs{}
	jobs.Append(&Job{Title: "Editor", URL: "https://a.com/1"})
	if got := jobs.FindByURL(" HTTPS://A.com/1 "); got == nil || got.Title != "Editor" {
		t.Fatalf("lookup should be case-insensitive, got %v", got)
	}
	if got := jobs.FindByURL("https://a.com/404"); got != nil {
		t.Fatalf("expected nil for unknown url, got %v", got)
	}
}

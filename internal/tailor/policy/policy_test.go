package policy

import (
	"os"
	"path/filepath"
	"testing"
)

const basePolicies = `
- id: py-tooling
  jd_cues: [Python, tooling]
  bullet_cues: [tools]
  requires_any: [python]
  clause: built internal Python tooling for analytics teams
- id: empty
  clause: ""
- id: dup
  clause: Shipped automated reporting pipelines
`

const runtimePolicies = `
- id: rt-dup
  jd_cues: [reporting]
  clause: shipped automated reporting pipelines
- id: rt-new
  clause: reduced manual review effort with scripted checks
`

func writePolicies(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestLoadMergesRuntimeFirst(t *testing.T) {
	dir := t.TempDir()
	writePolicies(t, dir, "policies.yaml", basePolicies)
	writePolicies(t, dir, "policies.runtime.yaml", runtimePolicies)

	got, err := Load(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 policies after dedupe, got %d", len(got))
	}
	if got[0].Source != SourceRuntime {
		t.Fatalf("runtime policies must come first, got source %q", got[0].Source)
	}

	// The duplicate clause keeps only the runtime entry.
	var dupes int
	for _, p := range got {
		if p.ID == "rt-dup" || p.ID == "dup" {
			dupes++
			if p.Source != SourceRuntime {
				t.Fatalf("dedupe must keep the runtime entry, got %q/%q", p.ID, p.Source)
			}
		}
	}
	if dupes != 1 {
		t.Fatalf("expected exactly one surviving duplicate, got %d", dupes)
	}
}

func TestLoadNormalizesCues(t *testing.T) {
	dir := t.TempDir()
	writePolicies(t, dir, "policies.yaml", basePolicies)

	got, err := Load(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got[0].JDCues[0] != "python" {
		t.Fatalf("cues must be lowercased, got %v", got[0].JDCues)
	}
}

func TestLoadDiscardsEmptyClauses(t *testing.T) {
	dir := t.TempDir()
	writePolicies(t, dir, "policies.yaml", basePolicies)

	got, err := Load(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	for _, p := range got {
		if p.Clause == "" {
			t.Fatalf("empty clause survived: %+v", p)
		}
	}
}

func TestLoadMissingFiles(t *testing.T) {
	got, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("missing files must not be an error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty store, got %d", len(got))
	}
}

func TestWriteRuntimeRoundTrip(t *testing.T) {
	dir := t.TempDir()
	in := []Policy{{
		ID:          "rt",
		JDCues:      []string{"python"},
		RequiresAny: []string{"python"},
		Clause:      "scripted repetitive checks in Python",
	}}
	if err := WriteRuntime(dir, in); err != nil {
		t.Fatalf("write runtime: %v", err)
	}

	got, err := Load(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 1 || got[0].Clause != in[0].Clause {
		t.Fatalf("round trip mismatch: %+v", got)
	}
	if got[0].Source != SourceRuntime {
		t.Fatalf("loaded runtime policy must carry the runtime source")
	}
}

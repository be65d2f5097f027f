package tailor

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSessionBanlistPersistsAcrossRuns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "banlist.json")

	first, err := NewSession(path)
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	first.MarkClause("Built internal Python tooling")
	if err := first.Persist(); err != nil {
		t.Fatalf("persist: %v", err)
	}

	second, err := NewSession(path)
	if err != nil {
		t.Fatalf("reopen session: %v", err)
	}
	if second.ClauseUsable("built internal python tooling") {
		t.Fatalf("banned clause must stay unusable in the next run")
	}
	if !second.ClauseUsable("a different clause") {
		t.Fatalf("unrelated clause should be usable")
	}
}

func TestSessionMissingBanlistFile(t *testing.T) {
	s, err := NewSession(filepath.Join(t.TempDir(), "banlist.json"))
	if err != nil {
		t.Fatalf("missing file must not be an error: %v", err)
	}
	if !s.ClauseUsable("anything at all") {
		t.Fatalf("fresh session should allow any clause")
	}
}

func TestSessionCorruptBanlistStartsFresh(t *testing.T) {
	path := filepath.Join(t.TempDir(), "banlist.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	s, err := NewSession(path)
	if err != nil {
		t.Fatalf("corrupt banlist must not be an error: %v", err)
	}
	if !s.ClauseUsable("anything at all") {
		t.Fatalf("corrupt banlist should yield an empty session")
	}
}

func TestSessionPhraseTrackingIsRunScoped(t *testing.T) {
	s := NewEphemeralSession()
	if s.PhraseUsed("python") {
		t.Fatalf("fresh session should have no used phrases")
	}
	s.MarkPhrase("python")
	if !s.PhraseUsed("python") {
		t.Fatalf("marked phrase should report used")
	}
	for _, b := range s.Banlist() {
		if b == "python" {
			t.Fatalf("woven phrases must not enter the banlist")
		}
	}
}

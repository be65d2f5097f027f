package tailor

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/jobcopilot/jobcopilot/internal/textkit"
)

// Session carries the mutable state of one tailoring run: the set of
// clauses already woven into documents and the cross-run banlist. It is
// constructed at run start and passed explicitly wherever clause
// uniqueness matters; there is no package-level state.
type Session struct {
	used    textkit.Set
	banlist textkit.Set
	path    string
}

// NewSession creates a session, seeding the banlist from the JSON file at
// path when it exists. An empty path keeps the banlist in memory only.
func NewSession(path string) (*Session, error) {
	s := &Session{
		used:    make(textkit.Set),
		banlist: make(textkit.Set),
		path:    path,
	}
	if path == "" {
		return s, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read banlist: %w", err)
	}

	var entries []string
	if err := json.Unmarshal(data, &entries); err != nil {
		// A corrupt banlist only weakens cross-run uniqueness; start fresh.
		return s, nil
	}
	for _, e := range entries {
		s.banlist.Add(textkit.NormalizeWS(e))
	}
	return s, nil
}

// NewEphemeralSession creates an in-memory session with no banlist file.
func NewEphemeralSession() *Session {
	s, _ := NewSession("")
	return s
}

// ClauseUsable reports whether the clause has been used in this run or
// banned by a previous one.
func (s *Session) ClauseUsable(clause string) bool {
	c := normClause(clause)
	return c != "" && !s.used.Has(c) && !s.banlist.Has(c)
}

// MarkClause records the clause as used, extending the ban to future runs.
func (s *Session) MarkClause(clause string) {
	c := normClause(clause)
	if c == "" {
		return
	}
	s.used.Add(c)
	s.banlist.Add(c)
}

// PhraseUsed reports whether the exact keyword phrase was already woven
// into a bullet during this run.
func (s *Session) PhraseUsed(phrase string) bool {
	return s.used.Has(normClause(phrase))
}

// MarkPhrase records a woven keyword phrase for this run only.
func (s *Session) MarkPhrase(phrase string) {
	s.used.Add(normClause(phrase))
}

// Banlist returns the accumulated banned clauses in lexical order.
func (s *Session) Banlist() []string {
	return s.banlist.Sorted()
}

// Ban adds a clause to the banlist without marking it used in this run.
func (s *Session) Ban(clause string) {
	if c := normClause(clause); c != "" {
		s.banlist.Add(c)
	}
}

// Persist writes the banlist back to disk so clause uniqueness extends
// across runs. A session without a path persists nothing.
func (s *Session) Persist() error {
	if s.path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("banlist dir: %w", err)
	}
	data, err := json.MarshalIndent(s.banlist.Sorted(), "", "  ")
	if err != nil {
		return fmt.Errorf("encode banlist: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write banlist: %w", err)
	}
	return nil
}

func normClause(s string) string {
	return textkit.NormalizeWS(strings.ToLower(s))
}

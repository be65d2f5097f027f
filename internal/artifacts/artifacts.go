// Package artifacts lays out the per-run output tree consumed by the
// review UI: cover letters under outbox/, tailored documents under
// resumes/, per-job diffs under changes/, and run-level JSON under data/.
// Paths returned to callers are root-relative so they can be stored and
// served as-is.
package artifacts

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jobcopilot/jobcopilot/internal/scoring"
	"github.com/jobcopilot/jobcopilot/internal/tailor"
)

const (
	outboxDir  = "outbox"
	resumesDir = "resumes"
	changesDir = "changes"
	dataDir    = "data"

	maxSlugLen = 150
	maxJDLen   = 20000
)

// Store writes run artifacts under a fixed root directory.
type Store struct {
	root string
}

// NewStore creates the artifact directory tree under root.
func NewStore(root string) (*Store, error) {
	for _, dir := range []string{outboxDir, resumesDir, changesDir, dataDir} {
		if err := os.MkdirAll(filepath.Join(root, dir), 0o755); err != nil {
			return nil, fmt.Errorf("artifact dir %s: %w", dir, err)
		}
	}
	return &Store{root: root}, nil
}

// Root returns the store's root directory.
func (s *Store) Root() string { return s.root }

// SafeName keeps only characters that survive in filenames across
// platforms and static hosting: letters, digits, dash, underscore.
func SafeName(s string) string {
	var sb strings.Builder
	for _, r := range s {
		if r == '-' || r == '_' ||
			(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			sb.WriteRune(r)
		}
	}
	return strings.TrimSpace(sb.String())
}

// Slug builds the per-job artifact slug from company and title.
func Slug(company, title string) string {
	slug := SafeName(company) + "_" + SafeName(title)
	if len(slug) > maxSlugLen {
		slug = slug[:maxSlugLen]
	}
	return slug
}

// JDHash fingerprints a job description; resume filenames carry it so a
// changed posting produces a fresh document instead of overwriting.
func JDHash(jd string) string {
	sum := sha1.Sum([]byte(jd))
	return hex.EncodeToString(sum[:])[:8]
}

// Explanation is the per-job diff record the review UI renders.
type Explanation struct {
	Company     string          `json:"company"`
	Title       string          `json:"title"`
	ATSKeywords []string        `json:"ats_keywords"`
	LLMKeywords []string        `json:"llm_keywords"`
	Changes     []tailor.Change `json:"changes"`
	JDHash      string          `json:"jd_hash"`
}

// LLMInfo summarizes assistant usage for one draft run.
type LLMInfo struct {
	Used  bool         `json:"used"`
	Model string       `json:"model,omitempty"`
	Jobs  []LLMJobInfo `json:"jobs"`
}

type LLMJobInfo struct {
	Slug               string `json:"slug"`
	Injected           bool   `json:"injected"`
	RuntimePolicyCount int    `json:"runtime_policy_count"`
	Changes            int    `json:"changes"`
}

// WriteCover stores the markdown cover letter and returns its relative path.
func (s *Store) WriteCover(slug, content string) (string, error) {
	rel := filepath.Join(outboxDir, slug+".md")
	if err := os.WriteFile(filepath.Join(s.root, rel), []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("write cover: %w", err)
	}
	return rel, nil
}

// ResumePath returns the absolute and relative paths for a tailored
// resume named by slug and JD hash.
func (s *Store) ResumePath(slug, hash string) (abs, rel string) {
	rel = filepath.Join(resumesDir, fmt.Sprintf("%s_%s.docx", slug, hash))
	return filepath.Join(s.root, rel), rel
}

// WriteJDText stores the job description snapshot alongside the diff, so
// reviewers can see what the tailoring reacted to. Text is capped; JD
// pages past that length are boilerplate.
func (s *Store) WriteJDText(slug, jd string) error {
	if runes := []rune(jd); len(runes) > maxJDLen {
		jd = string(runes[:maxJDLen])
	}
	path := filepath.Join(s.root, changesDir, slug+".jd.txt")
	if err := os.WriteFile(path, []byte(jd), 0o644); err != nil {
		return fmt.Errorf("write jd text: %w", err)
	}
	return nil
}

// WriteChanges stores the per-job diff record and returns its relative path.
func (s *Store) WriteChanges(slug string, e *Explanation) (string, error) {
	if e.ATSKeywords == nil {
		e.ATSKeywords = []string{}
	}
	if e.LLMKeywords == nil {
		e.LLMKeywords = []string{}
	}
	if e.Changes == nil {
		e.Changes = []tailor.Change{}
	}
	rel := filepath.Join(changesDir, slug+".json")
	if err := s.writeJSON(rel, e); err != nil {
		return "", err
	}
	return rel, nil
}

// WriteScores stores the ranked job list for the rank and draft flows.
func (s *Store) WriteScores(ranked []*scoring.ScoredJob) error {
	if ranked == nil {
		ranked = []*scoring.ScoredJob{}
	}
	return s.writeJSON(filepath.Join(dataDir, "scores.json"), ranked)
}

// ReadScores loads a previously written scores.json.
func (s *Store) ReadScores() ([]*scoring.ScoredJob, error) {
	data, err := os.ReadFile(filepath.Join(s.root, dataDir, "scores.json"))
	if err != nil {
		return nil, fmt.Errorf("read scores: %w", err)
	}
	var ranked []*scoring.ScoredJob
	if err := json.Unmarshal(data, &ranked); err != nil {
		return nil, fmt.Errorf("parse scores: %w", err)
	}
	return ranked, nil
}

// WriteLLMInfo stores the assistant usage summary.
func (s *Store) WriteLLMInfo(info *LLMInfo) error {
	if info.Jobs == nil {
		info.Jobs = []LLMJobInfo{}
	}
	return s.writeJSON(filepath.Join(dataDir, "llm_info.json"), info)
}

// BanlistPath is where the clause banlist persists between runs.
func (s *Store) BanlistPath() string {
	return filepath.Join(s.root, dataDir, "banlist.json")
}

func (s *Store) writeJSON(rel string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", rel, err)
	}
	if err := os.WriteFile(filepath.Join(s.root, rel), append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", rel, err)
	}
	return nil
}

// Package policy holds the canned-clause store: short declarative phrases
// gated by required vocabulary and JD/bullet cue tokens, merged from a
// hand-curated base file and a per-job runtime file.
package policy

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jobcopilot/jobcopilot/internal/textkit"
)

const (
	// SourceBase marks hand-authored policies.
	SourceBase = "base"
	// SourceRuntime marks policies generated per job, typically by the
	// LLM assistant. Runtime policies win dedupe conflicts and get a
	// small selection boost.
	SourceRuntime = "runtime"

	baseFile    = "policies.yaml"
	runtimeFile = "policies.runtime.yaml"
)

// Policy is one injectable clause with its eligibility gates.
type Policy struct {
	ID          string   `yaml:"id" json:"id"`
	JDCues      []string `yaml:"jd_cues" json:"jd_cues,omitempty"`
	BulletCues  []string `yaml:"bullet_cues" json:"bullet_cues,omitempty"`
	RequiresAny []string `yaml:"requires_any" json:"requires_any,omitempty"`
	Clause      string   `yaml:"clause" json:"clause"`
	Source      string   `yaml:"-" json:"-"`
}

// JDCueSet returns the normalized JD cue tokens.
func (p *Policy) JDCueSet() textkit.Set { return textkit.NewSet(p.JDCues...) }

// BulletCueSet returns the normalized bullet cue tokens.
func (p *Policy) BulletCueSet() textkit.Set { return textkit.NewSet(p.BulletCues...) }

// RequiresAnySet returns the normalized required-vocabulary tokens.
func (p *Policy) RequiresAnySet() textkit.Set { return textkit.NewSet(p.RequiresAny...) }

// Load merges the runtime and base policy files under dir. Runtime
// entries come first and win deduplication by lowercase clause text.
// Policies with an empty clause are discarded. Missing files are not an
// error; an empty directory yields an empty store.
func Load(dir string) ([]Policy, error) {
	runtime, err := readFile(filepath.Join(dir, runtimeFile), SourceRuntime)
	if err != nil {
		return nil, err
	}
	base, err := readFile(filepath.Join(dir, baseFile), SourceBase)
	if err != nil {
		return nil, err
	}

	merged := make([]Policy, 0, len(runtime)+len(base))
	seen := make(textkit.Set)
	for _, src := range [][]Policy{runtime, base} {
		for _, p := range src {
			clause := strings.ToLower(textkit.NormalizeWS(p.Clause))
			if clause == "" || seen.Has(clause) {
				continue
			}
			seen.Add(clause)
			merged = append(merged, p)
		}
	}
	return merged, nil
}

// WriteRuntime replaces the runtime policy file with the given policies.
func WriteRuntime(dir string, policies []Policy) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("policy dir: %w", err)
	}
	data, err := yaml.Marshal(policies)
	if err != nil {
		return fmt.Errorf("encode runtime policies: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, runtimeFile), data, 0o644); err != nil {
		return fmt.Errorf("write runtime policies: %w", err)
	}
	return nil
}

func readFile(path, source string) ([]Policy, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var raw []Policy
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	out := make([]Policy, 0, len(raw))
	for _, p := range raw {
		p.Source = source
		p.ID = strings.TrimSpace(p.ID)
		if p.ID == "" {
			p.ID = "policy"
		}
		p.Clause = strings.TrimSpace(p.Clause)
		p.JDCues = normList(p.JDCues)
		p.BulletCues = normList(p.BulletCues)
		p.RequiresAny = normList(p.RequiresAny)
		out = append(out, p)
	}
	return out, nil
}

func normList(xs []string) []string {
	out := make([]string, 0, len(xs))
	for _, x := range xs {
		x = strings.ToLower(strings.TrimSpace(x))
		if x != "" {
			out = append(out, x)
		}
	}
	return out
}

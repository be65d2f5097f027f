package profile

import (
	"errors"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Bullet is one achievement line from the portfolio, optionally tagged
// with the skills it evidences.
type Bullet struct {
	Text string   `yaml:"text"`
	Tags []string `yaml:"tags"`
}

// Entry is a project, employment or workshop with its bullets.
type Entry struct {
	Name    string   `yaml:"name"`
	Company string   `yaml:"company"`
	Role    string   `yaml:"role"`
	Bullets []Bullet `yaml:"bullets"`
}

// Portfolio is the user-curated evidence backing the allowed vocabulary.
type Portfolio struct {
	Projects       []Entry `yaml:"projects"`
	WorkExperience []Entry `yaml:"work_experience"`
	Workshops      []Entry `yaml:"workshops"`
}

// LoadPortfolio reads the portfolio YAML. A missing file is not an error:
// tailoring degrades to profile skills only.
func LoadPortfolio(path string) (*Portfolio, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &Portfolio{}, nil
		}
		return nil, err
	}

	var p Portfolio
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Tags collects every bullet tag across all sections, lowercased.
func (p *Portfolio) Tags() []string {
	var out []string
	seen := map[string]struct{}{}
	for _, section := range [][]Entry{p.Projects, p.WorkExperience, p.Workshops} {
		for _, entry := range section {
			for _, b := range entry.Bullets {
				for _, t := range b.Tags {
					t = strings.ToLower(strings.TrimSpace(t))
					if t == "" {
						continue
					}
					if _, ok := seen[t]; ok {
						continue
					}
					seen[t] = struct{}{}
					out = append(out, t)
				}
			}
		}
	}
	return out
}

// SectionBullets maps resume section names to the portfolio bullet texts
// that belong under them. Project bullets serve both "Side Projects" and
// "Projects" since resumes title that section either way.
func (p *Portfolio) SectionBullets() map[string][]string {
	targets := map[string][]string{}
	appendUnique := func(section, text string) {
		text = strings.TrimSpace(text)
		if text == "" {
			return
		}
		for _, existing := range targets[section] {
			if existing == text {
				return
			}
		}
		targets[section] = append(targets[section], text)
	}

	for _, entry := range p.Projects {
		for _, b := range entry.Bullets {
			appendUnique("Side Projects", b.Text)
			appendUnique("Projects", b.Text)
		}
	}
	for _, entry := range p.WorkExperience {
		for _, b := range entry.Bullets {
			appendUnique("Work Experience", b.Text)
		}
	}
	return targets
}

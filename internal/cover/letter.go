package cover

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/jobcopilot/jobcopilot/internal/job"
	"github.com/jobcopilot/jobcopilot/internal/profile"
)

var letterTemplate = template.Must(template.New("cover").Parse(`{{.Greeting}}

I'm excited to apply for the **{{.Title}}** role at **{{.Company}}**. My background maps closely to the posting: hands-on with {{.HookBits}}.

In prior roles, I delivered measurable outcomes by aligning day-to-day execution to clear priorities. I favor tight feedback loops, concise communication, and documentation that reduces rework.

I'm motivated by environments that value learning, ownership, and collaboration. That's a strong fit for {{.Company}}, especially around {{.ThemeLine}}.
{{- if .Themes}}

**Why this team**
{{- range .Themes}}
- {{.}}
{{- end}}
{{- end}}

I'd welcome the chance to dive deeper into relevant projects and how I can help the team deliver impact. Thank you for your time and consideration.

{{.Signature}}`))

type letterData struct {
	Greeting  string
	Title     string
	Company   string
	HookBits  string
	ThemeLine string
	Themes    []string
	Signature string
}

// Letter renders the deterministic markdown cover letter for a job. The
// first few JD keywords become the alignment hook; themes feed the "why
// this team" bullets.
func Letter(j *job.Job, p *profile.Profile, jdKeywords, themes []string) (string, error) {
	company := strings.TrimSpace(j.Company)

	greeting := "Dear Hiring Team,"
	if company != "" {
		greeting = fmt.Sprintf("Dear Hiring Team at %s,", company)
	}

	hookBits := strings.Join(dedupeKeepOrder(jdKeywords, 6), ", ")
	if hookBits == "" {
		hookBits = "skills the role emphasizes"
	}

	themeLine := "your team's goals"
	if len(themes) > 0 {
		line := themes
		if len(line) > 3 {
			line = line[:3]
		}
		themeLine = strings.Join(line, ", ")
	}

	bullets := themes
	if len(bullets) > 4 {
		bullets = bullets[:4]
	}
	titled := make([]string, 0, len(bullets))
	for _, b := range bullets {
		titled = append(titled, titleCase(b))
	}

	contact := make([]string, 0, 2)
	for _, x := range []string{p.Email, p.Phone} {
		if strings.TrimSpace(x) != "" {
			contact = append(contact, strings.TrimSpace(x))
		}
	}
	sigLines := make([]string, 0, 2)
	if strings.TrimSpace(p.FullName) != "" {
		sigLines = append(sigLines, strings.TrimSpace(p.FullName))
	}
	if len(contact) > 0 {
		sigLines = append(sigLines, strings.Join(contact, " | "))
	}

	var sb strings.Builder
	err := letterTemplate.Execute(&sb, letterData{
		Greeting:  greeting,
		Title:     strings.TrimSpace(j.Title),
		Company:   company,
		HookBits:  hookBits,
		ThemeLine: themeLine,
		Themes:    titled,
		Signature: strings.Join(sigLines, "\n"),
	})
	if err != nil {
		return "", fmt.Errorf("render cover letter: %w", err)
	}
	return strings.TrimSpace(sb.String()), nil
}

// Finalize appends the targeted summary and the ATS keyword footer the
// draft flow adds under the letter body.
func Finalize(letter, summarySentence string, jdKeywords []string) string {
	out := letter
	if s := strings.TrimSpace(summarySentence); s != "" {
		out += fmt.Sprintf("\n\n**Targeted Summary:** %s\n", s)
	}
	if len(jdKeywords) > 0 {
		out += "\n\n---\n**Keyword Alignment (ATS-safe):** " + strings.Join(jdKeywords, ", ") + "\n"
	}
	return out
}

func dedupeKeepOrder(xs []string, cap int) []string {
	seen := make(map[string]struct{}, len(xs))
	out := make([]string, 0, cap)
	for _, x := range xs {
		x = strings.TrimSpace(x)
		if x == "" {
			continue
		}
		if _, ok := seen[x]; ok {
			continue
		}
		seen[x] = struct{}{}
		out = append(out, x)
		if len(out) == cap {
			break
		}
	}
	return out
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

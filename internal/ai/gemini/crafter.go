package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	_ "embed"

	"go.uber.org/zap"

	"github.com/jobcopilot/jobcopilot/internal/ai"
	"github.com/jobcopilot/jobcopilot/internal/tailor/policy"
	"github.com/jobcopilot/jobcopilot/internal/util"
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// Crafter produces tailored snippets and runtime clause policies for one
// job at a time. It implements ai.Assistant.
type Crafter struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
}

//go:embed prompt_snippets.md
var snippetsTemplate string

//go:embed prompt_policies.md
var policiesTemplate string

const (
	defaultMaxLogLength = 200

	maxPromptJD       = 3000
	maxPromptVocab    = 120
	maxPromptKeywords = 30
	maxPolicies       = 5
)

func NewCrafter(generator contentGenerator, logger *zap.Logger, maxLogLength int) *Crafter {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}

	return &Crafter{
		generator: generator,
		logger:    logger,
		maxLogLen: maxLogLength,
	}
}

// CraftSnippets asks the model for a targeted summary sentence plus ATS
// keywords. The returned keywords are banlist-filtered and capped; an
// empty sentence or keyword list falls back to deterministic values so a
// successful call always yields usable snippets.
func (c *Crafter) CraftSnippets(ctx context.Context, req *ai.Request) (*ai.Snippets, error) {
	if req == nil {
		return nil, fmt.Errorf("snippet request is required")
	}

	raw, err := c.generate(ctx, snippetsTemplate, req)
	if err != nil {
		return nil, err
	}

	var data map[string]any
	if err := json.Unmarshal([]byte(extractJSON(raw)), &data); err != nil {
		return nil, fmt.Errorf("parse snippets response: %w", err)
	}

	out := &ai.Snippets{
		SummarySentence: ai.CollapseWS(coerceString(data["summary_sentence"])),
		Keywords:        ai.FilterBanned(coerceStrings(data["keywords"]), req.Banlist),
		Notes:           coerceString(data["notes"]),
	}

	fallback := ai.Fallback(req)
	if out.SummarySentence == "" {
		out.SummarySentence = fallback.SummarySentence
	}
	if len(out.Keywords) == 0 {
		out.Keywords = fallback.Keywords
	}
	if len(out.Keywords) > ai.MaxKeywords {
		out.Keywords = out.Keywords[:ai.MaxKeywords]
	}

	return out, nil
}

// SuggestPolicies asks the model for per-job clause policies. Clauses are
// deduplicated by lowercase text, banlist-enforced, and tagged as runtime
// so the clause store gives them precedence.
func (c *Crafter) SuggestPolicies(ctx context.Context, req *ai.Request) ([]policy.Policy, error) {
	if req == nil {
		return nil, fmt.Errorf("policy request is required")
	}

	raw, err := c.generate(ctx, policiesTemplate, req)
	if err != nil {
		return nil, err
	}

	var suggested []policy.Policy
	if err := json.Unmarshal([]byte(extractJSON(raw)), &suggested); err != nil {
		return nil, fmt.Errorf("parse policies response: %w", err)
	}

	banned := make(map[string]struct{}, len(req.Banlist))
	for _, b := range req.Banlist {
		if b = strings.ToLower(strings.TrimSpace(b)); b != "" {
			banned[b] = struct{}{}
		}
	}

	seen := make(map[string]struct{}, len(suggested))
	out := make([]policy.Policy, 0, len(suggested))
	for i, p := range suggested {
		clause := ai.CollapseWS(p.Clause)
		key := strings.ToLower(clause)
		if clause == "" {
			continue
		}
		if _, ok := banned[key]; ok {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}

		p.Clause = clause
		p.Source = policy.SourceRuntime
		if p.ID = strings.TrimSpace(p.ID); p.ID == "" {
			p.ID = fmt.Sprintf("llm-%d", i+1)
		}
		out = append(out, p)
		if len(out) == maxPolicies {
			break
		}
	}

	return out, nil
}

func (c *Crafter) generate(ctx context.Context, template string, req *ai.Request) (string, error) {
	payload := map[string]any{
		"job_title":       req.JobTitle,
		"job_description": trim(req.JDText, maxPromptJD),
		"allowed_vocab":   capList(req.AllowedVocab, maxPromptVocab),
		"jd_keywords":     capList(req.JDKeywords, maxPromptKeywords),
		"banlist":         lowered(req.Banlist),
	}

	requestJSON, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal assistant payload: %w", err)
	}

	prompt := strings.ReplaceAll(template, "{{REQUEST_JSON}}", string(requestJSON))

	c.logger.Debug("gemini generate content request",
		zap.String("job_title", req.JobTitle),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", util.TruncateForLog(prompt, c.maxLogLen)),
	)

	raw, err := c.generator.GenerateContent(ctx, prompt)
	if err != nil {
		return "", err
	}

	c.logger.Debug("gemini generate content response",
		zap.String("job_title", req.JobTitle),
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", util.TruncateForLog(raw, c.maxLogLen)),
	)

	return raw, nil
}

func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}

func coerceString(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case fmt.Stringer:
		return strings.TrimSpace(val.String())
	default:
		if v == nil {
			return ""
		}
		bytes, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(bytes)
	}
}

func coerceStrings(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s := coerceString(item); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func trim(s string, n int) string {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

func capList(xs []string, n int) []string {
	if len(xs) > n {
		return xs[:n]
	}
	return xs
}

func lowered(xs []string) []string {
	out := make([]string, 0, len(xs))
	for _, x := range xs {
		if x = strings.ToLower(strings.TrimSpace(x)); x != "" {
			out = append(out, x)
		}
	}
	return out
}

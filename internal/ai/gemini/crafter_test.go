package gemini

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/jobcopilot/jobcopilot/internal/ai"
	"github.com/jobcopilot/jobcopilot/internal/tailor/policy"
)

type stubGenerator struct {
	response   string
	err        error
	lastPrompt string
}

func (s *stubGenerator) GenerateContent(_ context.Context, prompt string) (string, error) {
	s.lastPrompt = prompt
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func testRequest() *ai.Request {
	return &ai.Request{
		JobTitle:     "Technical Editor",
		JDText:       "Own the style guide. Copyedit API docs.",
		AllowedVocab: []string{"ap style", "copyediting", "python"},
		JDKeywords:   []string{"copyediting", "ap style", "docs"},
		Banlist:      []string{"synergy"},
	}
}

func TestCraftSnippets(t *testing.T) {
	stub := &stubGenerator{response: `{"summary_sentence": " Editor with  AP style depth. ", "keywords": ["AP Style", "synergy", "copyediting"], "notes": "style guide angle"}`}
	crafter := NewCrafter(stub, zap.NewNop(), 0)

	got, err := crafter.CraftSnippets(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.SummarySentence != "Editor with AP style depth." {
		t.Fatalf("unexpected sentence: %q", got.SummarySentence)
	}
	if !reflect.DeepEqual(got.Keywords, []string{"AP Style", "copyediting"}) {
		t.Fatalf("expected banned keyword dropped, got %v", got.Keywords)
	}
	if got.Notes != "style guide angle" {
		t.Fatalf("unexpected notes: %q", got.Notes)
	}

	if !strings.Contains(stub.lastPrompt, `"job_title":"Technical Editor"`) {
		t.Fatalf("expected job title in prompt, got: %s", stub.lastPrompt)
	}
	if !strings.Contains(stub.lastPrompt, `"banlist":["synergy"]`) {
		t.Fatalf("expected banlist in prompt, got: %s", stub.lastPrompt)
	}
}

func TestCraftSnippetsStripsFences(t *testing.T) {
	stub := &stubGenerator{response: "```json\n{\"summary_sentence\": \"Editor.\", \"keywords\": [\"docs\"], \"notes\": \"\"}\n```"}
	crafter := NewCrafter(stub, zap.NewNop(), 0)

	got, err := crafter.CraftSnippets(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.SummarySentence != "Editor." {
		t.Fatalf("unexpected sentence: %q", got.SummarySentence)
	}
}

func TestCraftSnippetsBackstops(t *testing.T) {
	stub := &stubGenerator{response: `{"summary_sentence": "", "keywords": [], "notes": ""}`}
	crafter := NewCrafter(stub, zap.NewNop(), 0)

	req := testRequest()
	got, err := crafter.CraftSnippets(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.SummarySentence != "Targeted for Technical Editor: hands-on with copyediting, ap style, docs." {
		t.Fatalf("unexpected backstop sentence: %q", got.SummarySentence)
	}
	if !reflect.DeepEqual(got.Keywords, []string{"copyediting", "ap style", "docs"}) {
		t.Fatalf("expected jd keywords backstop, got %v", got.Keywords)
	}
}

func TestCraftSnippetsMalformedResponse(t *testing.T) {
	stub := &stubGenerator{response: "Sure! Here is your summary:"}
	crafter := NewCrafter(stub, zap.NewNop(), 0)

	if _, err := crafter.CraftSnippets(context.Background(), testRequest()); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestCraftSnippetsGeneratorError(t *testing.T) {
	stub := &stubGenerator{err: errors.New("quota exceeded")}
	crafter := NewCrafter(stub, zap.NewNop(), 0)

	if _, err := crafter.CraftSnippets(context.Background(), testRequest()); err == nil {
		t.Fatalf("expected generator error to surface")
	}
}

func TestSuggestPolicies(t *testing.T) {
	stub := &stubGenerator{response: `[
		{"id": "style-guide", "jd_cues": ["style"], "requires_any": ["ap style"], "clause": "aligned to AP style"},
		{"id": "", "clause": "aligned to  AP style"},
		{"id": "banned", "clause": "synergy"},
		{"id": "empty", "clause": "  "},
		{"id": "docs", "jd_cues": ["docs"], "clause": "with API docs"}
	]`}
	crafter := NewCrafter(stub, zap.NewNop(), 0)

	got, err := crafter.SuggestPolicies(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("expected 2 policies, got %d: %+v", len(got), got)
	}
	if got[0].ID != "style-guide" || got[0].Clause != "aligned to AP style" {
		t.Fatalf("unexpected first policy: %+v", got[0])
	}
	if got[1].Clause != "with API docs" {
		t.Fatalf("unexpected second policy: %+v", got[1])
	}
	for _, p := range got {
		if p.Source != policy.SourceRuntime {
			t.Fatalf("expected runtime source, got %q", p.Source)
		}
	}
}

func TestSuggestPoliciesCaps(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("[")
	for i := 0; i < 8; i++ {
		if i > 0 {
			sb.WriteString(",")
		}
		sb.WriteString(`{"clause": "clause `)
		sb.WriteByte(byte('a' + i))
		sb.WriteString(`"}`)
	}
	sb.WriteString("]")

	stub := &stubGenerator{response: sb.String()}
	crafter := NewCrafter(stub, zap.NewNop(), 0)

	got, err := crafter.SuggestPolicies(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != maxPolicies {
		t.Fatalf("expected %d policies, got %d", maxPolicies, len(got))
	}
	if got[2].ID != "llm-3" {
		t.Fatalf("expected generated id llm-3, got %q", got[2].ID)
	}
}

func TestSuggestPoliciesMalformedResponse(t *testing.T) {
	stub := &stubGenerator{response: `{"clause": "not an array"}`}
	crafter := NewCrafter(stub, zap.NewNop(), 0)

	if _, err := crafter.SuggestPolicies(context.Background(), testRequest()); err == nil {
		t.Fatalf("expected parse error")
	}
}

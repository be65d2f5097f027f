package gemini

import (
	"context"
	"testing"
)

func TestNewGeneratorRequiresAPIKey(t *testing.T) {
	if _, err := NewGenerator(context.Background(), "   ", ""); err == nil {
		t.Fatalf("expected error for empty api key")
	}
}

func TestNewGeneratorDefaultModel(t *testing.T) {
	gen, err := NewGenerator(context.Background(), "test-key", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gen.Model() != defaultModel {
		t.Fatalf("expected default model %q, got %q", defaultModel, gen.Model())
	}
}

func TestGenerateContentEmptyPrompt(t *testing.T) {
	gen, err := NewGenerator(context.Background(), "test-key", "custom-model")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := gen.GenerateContent(context.Background(), "   "); err == nil {
		t.Fatalf("expected error for empty prompt")
	}
}

func TestExtractJSON(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"plain", `{"a": 1}`, `{"a": 1}`},
		{"fenced", "```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"fenced no lang", "```\n[1, 2]\n```", `[1, 2]`},
		{"backticks", "`{\"a\": 1}`", `{"a": 1}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := extractJSON(tc.in); got != tc.want {
				t.Fatalf("extractJSON(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

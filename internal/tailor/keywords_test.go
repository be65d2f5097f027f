package tailor

import (
	"reflect"
	"testing"
)

func TestSelectKeywordsVocabularyContainment(t *testing.T) {
	got := SelectKeywords(KeywordRequest{
		Description: "We need Python, Kubernetes and Terraform experience.",
		Title:       "Platform Engineer",
		Allowed:     []string{"python", "terraform"},
	})

	allowed := map[string]bool{"python": true, "terraform": true}
	for _, k := range got {
		if !allowed[k] {
			t.Fatalf("keyword %q not in allowed vocabulary", k)
		}
	}
	if len(got) != 2 {
		t.Fatalf("expected both allowed terms, got %v", got)
	}
}

func TestSelectKeywordsPhraseOutranksUnigram(t *testing.T) {
	got := SelectKeywords(KeywordRequest{
		Description: "Machine learning pipelines. Machine learning at scale. Also SQL.",
		Title:       "Machine Learning Engineer",
		Allowed:     []string{"machine learning", "sql"},
	})
	want := []string{"machine learning", "sql"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestSelectKeywordsDeterministicTieBreak(t *testing.T) {
	got := SelectKeywords(KeywordRequest{
		Description: "sql and python, nothing else",
		Allowed:     []string{"sql", "python"},
	})
	want := []string{"python", "sql"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestSelectKeywordsURLBoostBreaksTies(t *testing.T) {
	got := SelectKeywords(KeywordRequest{
		Description: "sql and python, nothing else",
		URL:         "https://boards.example.com/jobs/senior-sql-analyst",
		Allowed:     []string{"sql", "python"},
	})
	if len(got) != 2 || got[0] != "sql" {
		t.Fatalf("expected sql first via URL boost, got %v", got)
	}
}

func TestSelectKeywordsStopTermsFiltered(t *testing.T) {
	got := SelectKeywords(KeywordRequest{
		Description: "Strong communication skills and years of experience with Python.",
		Allowed:     []string{"communication skills", "experience", "python"},
	})
	if len(got) != 1 || got[0] != "python" {
		t.Fatalf("stop terms must be filtered, got %v", got)
	}
}

func TestSelectKeywordsCap(t *testing.T) {
	w := DefaultWeights()
	w.Cap = 2
	got := SelectKeywords(KeywordRequest{
		Description: "python sql terraform",
		Allowed:     []string{"python", "sql", "terraform"},
		Weights:     w,
	})
	if len(got) != 2 {
		t.Fatalf("expected cap of 2, got %v", got)
	}
}

func TestSelectKeywordsEmptyVocabulary(t *testing.T) {
	got := SelectKeywords(KeywordRequest{Description: "python everywhere"})
	if len(got) != 0 {
		t.Fatalf("empty vocabulary must select nothing, got %v", got)
	}
}

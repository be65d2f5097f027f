package textkit

import (
	"regexp"
	"sort"
	"strings"
)

// canonCasing restores the conventional casing of well-known technologies
// in generated clauses. Matching stays lowercase for ATS purposes; this is
// only applied to text that ends up in the document.
var canonCasing = map[string]string{
	"c++":            "C++",
	"python":         "Python",
	"pytorch":        "PyTorch",
	"tensorflow":     "TensorFlow",
	"scikit-learn":   "scikit-learn",
	"sklearn":        "scikit-learn",
	"xgboost":        "XGBoost",
	"javascript":     "JavaScript",
	"typescript":     "TypeScript",
	"react":          "React",
	"react native":   "React Native",
	"expo":           "Expo",
	"opencv":         "OpenCV",
	"sql":            "SQL",
	"postgres":       "Postgres",
	"postgresql":     "Postgres",
	"supabase":       "Supabase",
	"github actions": "GitHub Actions",
	"terraform":      "Terraform",
	"kubernetes":     "Kubernetes",
	"docker":         "Docker",
	"aws":            "AWS",
	"ci":             "CI",
	"nlp":            "NLP",
	"ml":             "ML",
	"rag":            "RAG",
	"webassembly":    "WebAssembly",
	"wasm":           "WebAssembly",
	"go":             "Go",
	"golang":         "Go",
}

var canonKeys = func() []string {
	keys := make([]string, 0, len(canonCasing))
	for k := range canonCasing {
		keys = append(keys, k)
	}
	// Longest first so "react native" wins over "react".
	sort.Slice(keys, func(i, j int) bool { return len(keys[i]) > len(keys[j]) })
	return keys
}()

var canonPatterns = func() map[string]*regexp.Regexp {
	out := make(map[string]*regexp.Regexp, len(canonKeys))
	for _, k := range canonKeys {
		out[k] = regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(k) + `\b`)
	}
	return out
}()

// CanonicalCasing rewrites known tech terms in s to their conventional
// casing.
func CanonicalCasing(s string) string {
	for _, k := range canonKeys {
		s = canonPatterns[k].ReplaceAllString(s, canonCasing[k])
	}
	return s
}

// Stopwords are generic JD noise that never justifies a keyword match on
// its own.
var Stopwords = NewSet(
	"engineer", "engineering", "software", "developer", "develop", "team", "teams",
	"experience", "years", "year",
	"the", "and", "for", "with", "to", "of", "in", "on", "as", "by", "or", "an", "a",
	"at", "from", "using",
	"we", "you", "our", "your", "will", "work", "role", "responsibilities",
	"requirements", "preferred", "must",
	"strong", "plus", "bonus", "including", "include", "etc", "ability", "skills",
	"excellent", "communication",
)

// IsStopPhrase reports whether every word of the phrase is a stopword.
func IsStopPhrase(phrase string) bool {
	words := strings.Fields(phrase)
	if len(words) == 0 {
		return true
	}
	for _, w := range words {
		if !Stopwords.Has(strings.ToLower(w)) {
			return false
		}
	}
	return true
}

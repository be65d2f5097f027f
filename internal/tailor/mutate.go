package tailor

import (
	"regexp"
	"strings"

	"github.com/jobcopilot/jobcopilot/internal/docx"
	"github.com/jobcopilot/jobcopilot/internal/textkit"
)

// InjectOptions bound how intrusive a single injection may be.
type InjectOptions struct {
	// MaxParagraphLen skips paragraphs already longer than this many
	// characters so a single bullet never gets visually overloaded.
	MaxParagraphLen int
	// DashWordThreshold switches the mid-sentence connector from a comma
	// to an em-dash once the inserted phrase reaches this many words.
	DashWordThreshold int
}

// DefaultInjectOptions returns the shipped limits.
func DefaultInjectOptions() InjectOptions {
	return InjectOptions{MaxParagraphLen: 350, DashWordThreshold: 5}
}

// InjectResult reports what one injection did.
type InjectResult struct {
	Changed  bool
	Before   string
	After    string
	Inserted string
}

var terminalPunct = ".!?"

// leadingVerbs are editorial and engineering verbs a clause may already
// start with; such clauses append as their own sentence unchanged.
var leadingVerbs = textkit.NewSet(
	"built", "improved", "optimized", "implemented", "designed", "delivered",
	"shipped", "reduced", "increased", "created", "developed", "automated",
	"migrated", "refactored", "scaled",
	"edited", "proofread", "copyedited", "copy-edited", "fact-checked",
	"coordinated", "scheduled", "published", "wrote", "curated", "formatted",
	"produced", "managed", "monitored", "organized", "drafted",
)

// nounIng are -ing words that are nouns, not gerunds.
var nounIng = textkit.NewSet("engineering", "marketing", "pricing", "staffing", "onboarding")

// bridgeClause prefixes the phrase with a natural connector based on its
// first word: gerunds get "by", existing using/with phrases become
// "using", to/for phrases and leading verbs pass through, and plain noun
// phrases default to "with". The result starts lowercase; callers
// capitalize when starting a new sentence.
func bridgeClause(phrase string) string {
	p := strings.TrimSpace(strings.TrimRight(strings.TrimSpace(phrase), "."))
	if p == "" {
		return ""
	}
	words := strings.Fields(p)
	first := strings.ToLower(words[0])

	switch {
	case leadingVerbs.Has(first):
		return p
	case first == "using" || first == "with":
		if len(words) > 1 {
			return "using " + strings.Join(words[1:], " ")
		}
		return p
	case first == "to" || first == "for":
		return p
	case strings.HasSuffix(first, "ing") && !nounIng.Has(first):
		return "by " + p
	default:
		return "with " + p
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

var parentheticalRE = regexp.MustCompile(`\(([^()]*)\)\s*[.!?]?\s*$`)

// Inject weaves a phrase or clause into the paragraph, trying strategies
// in order of increasing intrusiveness: extend an existing delimited list
// or trailing parenthetical, else append a bridged clause as a new
// sentence or sentence continuation. New text is written into a fresh run
// cloned from the paragraph's dominant run; untouched runs, hyperlinks
// included, are never modified.
//
// Injection is idempotent: a phrase already present in the paragraph
// (case-insensitive substring) is never inserted again, so repeated runs
// of the tool on the same document produce no duplicates.
func Inject(p *docx.Paragraph, phrase string, opts InjectOptions) InjectResult {
	if opts.MaxParagraphLen == 0 {
		opts = DefaultInjectOptions()
	}

	before := p.Text()
	phrase = strings.TrimSpace(phrase)
	if phrase == "" || strings.TrimSpace(before) == "" {
		return InjectResult{Before: before, After: before}
	}
	if strings.Contains(strings.ToLower(before), strings.ToLower(strings.TrimRight(phrase, "."))) {
		return InjectResult{Before: before, After: before}
	}
	if len(before) > opts.MaxParagraphLen {
		return InjectResult{Before: before, After: before}
	}

	if res, ok := injectIntoList(p, phrase); ok {
		return res
	}
	return appendClause(p, phrase, opts)
}

// injectIntoList appends the phrase to an existing comma/semicolon list
// or trailing parenthetical, reusing its delimiter convention. Only
// single-run paragraphs qualify: splicing text mid-paragraph across
// styled runs would corrupt per-item formatting.
func injectIntoList(p *docx.Paragraph, phrase string) (InjectResult, bool) {
	runs := editableRuns(p)
	if len(runs) != 1 {
		return InjectResult{}, false
	}
	run := runs[0]
	text := run.Text()
	trimmed := strings.TrimRight(strings.TrimSpace(text), " ")
	before := p.Text()
	display := textkit.CanonicalCasing(phrase)

	if m := parentheticalRE.FindStringSubmatchIndex(trimmed); m != nil {
		inner := trimmed[m[2]:m[3]]
		delim := ", "
		if strings.Contains(inner, ";") {
			delim = "; "
		}
		sep := delim
		if strings.TrimSpace(inner) == "" {
			sep = ""
		}
		after := trimmed[:m[3]] + sep + display + trimmed[m[3]:]
		run.SetText(after)
		return InjectResult{Changed: true, Before: before, After: p.Text(), Inserted: display}, true
	}

	// A delimited enumeration with no sentence ending reads as a skills
	// or tools list; extend it in kind.
	hasTerminal := len(trimmed) > 0 && strings.ContainsRune(terminalPunct, rune(trimmed[len(trimmed)-1]))
	if hasTerminal {
		return InjectResult{}, false
	}
	switch {
	case strings.Count(trimmed, ";") >= 1:
		run.SetText(trimmed + "; " + display)
	case strings.Count(trimmed, ",") >= 2:
		run.SetText(trimmed + ", " + display)
	default:
		return InjectResult{}, false
	}
	return InjectResult{Changed: true, Before: before, After: p.Text(), Inserted: display}, true
}

// appendClause adds the bridged phrase to the end of the paragraph in a
// new run cloned from the dominant run. After terminal punctuation the
// clause starts a new sentence; otherwise it continues the existing one
// with a comma, or an em-dash when the insertion is long. A semicolon is
// never used, it reads unnaturally in resume prose.
func appendClause(p *docx.Paragraph, phrase string, opts InjectOptions) InjectResult {
	before := p.Text()
	bridged := textkit.CanonicalCasing(bridgeClause(phrase))
	if bridged == "" {
		return InjectResult{Before: before, After: before}
	}

	trimmed := strings.TrimRight(before, " ")
	hasTerminal := len(trimmed) > 0 && strings.ContainsRune(terminalPunct, rune(trimmed[len(trimmed)-1]))

	var inserted string
	if hasTerminal {
		inserted = " " + capitalize(bridged) + "."
	} else if len(strings.Fields(bridged)) >= opts.DashWordThreshold {
		inserted = " — " + bridged
	} else {
		inserted = ", " + bridged
	}

	r := p.AppendRun(inserted)
	if base := DominantRun(p); base != nil {
		r.CloneFormatFrom(base)
	}
	return InjectResult{Changed: true, Before: before, After: p.Text(), Inserted: inserted}
}

// DominantRun returns the longest non-empty, non-hyperlink run, the
// formatting template for inserted text. Falls back to the last non-empty
// run when every run is a hyperlink.
func DominantRun(p *docx.Paragraph) *docx.Run {
	var best *docx.Run
	bestLen := -1
	runs := p.Runs()
	for _, r := range runs {
		txt := strings.TrimSpace(r.Text())
		if txt == "" || r.IsHyperlink() {
			continue
		}
		if len(txt) > bestLen {
			best, bestLen = r, len(txt)
		}
	}
	if best != nil {
		return best
	}
	for i := len(runs) - 1; i >= 0; i-- {
		if strings.TrimSpace(runs[i].Text()) != "" {
			return runs[i]
		}
	}
	return nil
}

func editableRuns(p *docx.Paragraph) []*docx.Run {
	var out []*docx.Run
	for _, r := range p.Runs() {
		if r.IsHyperlink() || strings.TrimSpace(r.Text()) == "" {
			continue
		}
		out = append(out, r)
	}
	return out
}

package tailor

import (
	"fmt"
	"strings"

	"github.com/jobcopilot/jobcopilot/internal/docx"
	"github.com/jobcopilot/jobcopilot/internal/tailor/policy"
	"github.com/jobcopilot/jobcopilot/internal/textkit"
)

// Options configures one tailoring pass over a document.
type Options struct {
	Policies []policy.Policy
	Session  *Session
	// MaxRewritesPerSection caps how many bullets a single section may
	// gain text in. Zero means the default of 3.
	MaxRewritesPerSection int
	Inject                InjectOptions
}

// sectionTitles is the heading vocabulary the locator scans for. User
// templates vary, so the lists are generous; each group is tried in
// priority order.
var sectionTitles = []string{
	"Education",
	"Side Projects", "Projects", "Project Experience",
	"Work Experience", "Professional Experience", "Experience",
	"Technical Skills", "Skills", "Core Skills",
	"Workshops", "References",
}

var skillsSections = []string{"technical skills", "skills", "core skills"}
var projectSections = []string{"side projects", "projects", "project experience"}
var experienceSections = []string{"work experience", "professional experience", "experience"}

// Tailor edits the resume document in place: the first skills line is
// reordered or annotated to surface JD-matched items, and bullets under
// the projects and experience sections gain short JD-aligned sentences
// chosen from the policy store. Untouched paragraphs keep their exact
// markup. Returns the granular change log; an empty keyword list or a
// document without the expected sections yields an empty log, never an
// error.
func Tailor(doc *docx.Document, jdKeywords, allowedVocab []string, opts Options) *ChangeLog {
	log := &ChangeLog{}
	if opts.Session == nil {
		opts.Session = NewEphemeralSession()
	}
	if opts.MaxRewritesPerSection == 0 {
		opts.MaxRewritesPerSection = 3
	}
	if opts.Inject.MaxParagraphLen == 0 {
		opts.Inject = DefaultInjectOptions()
	}

	jdVocab := textkit.NewSet(jdKeywords...)
	allowed := textkit.NewSet(allowedVocab...)

	paras := doc.Paragraphs()
	ranges := FindSectionRanges(paras, sectionTitles)

	for _, key := range skillsSections {
		rng, ok := ranges[key]
		if !ok {
			continue
		}
		res := ReorderSkills(paras, rng, jdKeywords)
		if res.Changed {
			reason := "Reordered to surface JD-matching skills already present."
			if res.Inserted != "" {
				reason = "Annotated priorities without altering styling."
			}
			log.Add(Change{
				AnchorSection: "Technical Skills",
				Anchor:        "Technical Skills",
				Original:      res.Before,
				Modified:      res.After,
				Inserted:      res.Inserted,
				Reason:        reason,
			})
		}
		break
	}

	for _, key := range projectSections {
		if rng, ok := ranges[key]; ok {
			rewriteBullets(paras, rng, jdVocab, allowed, opts, "Projects", log)
		}
	}

	for _, key := range experienceSections {
		if rng, ok := ranges[key]; ok {
			rewriteBullets(paras, rng, jdVocab, allowed, opts, "Work Experience", log)
			break
		}
	}

	return log
}

// rewriteBullets appends policy clauses to bullets inside the range,
// falling back to weaving the top unused JD keywords when no policy
// clears its gates. Stops after the per-section rewrite cap.
func rewriteBullets(paras []*docx.Paragraph, rng Range, jdVocab, allowed textkit.Set, opts Options, label string, log *ChangeLog) {
	rewrites := 0
	bulletNo := 0
	for i := rng.Start; i < rng.End && i < len(paras); i++ {
		p := paras[i]
		if !IsBullet(p) {
			continue
		}
		bulletNo++
		if rewrites >= opts.MaxRewritesPerSection {
			break
		}
		before := p.Text()

		phrase := ChoosePolicy(before, jdVocab, allowed, opts.Policies, opts.Session)
		reason := ""
		if phrase != "" {
			reason = fmt.Sprintf("Aligned to JD via clause: %q", textkit.CanonicalCasing(phrase))
		} else {
			phrase = weavePhrase(jdVocab, allowed, opts.Session, before)
			if phrase == "" {
				continue
			}
			reason = fmt.Sprintf("Wove JD keywords already in your vocabulary: %s", textkit.CanonicalCasing(phrase))
		}

		res := Inject(p, phrase, opts.Inject)
		if !res.Changed {
			continue
		}
		log.Add(Change{
			AnchorSection: label,
			Anchor:        fmt.Sprintf("%s • bullet #%d", label, bulletNo),
			Original:      res.Before,
			Modified:      res.After,
			Inserted:      res.Inserted,
			Reason:        reason,
		})
		rewrites++
	}
}

// weavePhrase joins up to two unused JD keywords into one natural
// phrase ("Python and SQL"). Only vocabulary-backed keywords qualify,
// and each keyword is woven at most once per session.
func weavePhrase(jdVocab, allowed textkit.Set, session *Session, sentence string) string {
	sentenceTokens := textkit.Tokenize(sentence)
	var picked []string
	for _, k := range jdVocab.Sorted() {
		if len(picked) == 2 {
			break
		}
		if !allowed.Has(k) || session.PhraseUsed(k) {
			continue
		}
		if textkit.Tokenize(k).Subset(sentenceTokens) {
			continue
		}
		picked = append(picked, k)
	}
	if len(picked) == 0 {
		return ""
	}
	for _, k := range picked {
		session.MarkPhrase(k)
	}
	return strings.Join(picked, " and ")
}

// InsertSummary places a targeted one-line summary after an existing
// Summary heading, or creates the heading right after the first
// paragraph (the name line) when none exists. The sentence run clones
// the body formatting of the following paragraph when one is available.
func InsertSummary(doc *docx.Document, sentence string, log *ChangeLog) {
	sentence = textkit.NormalizeWS(sentence)
	if sentence == "" {
		return
	}
	paras := doc.Paragraphs()
	for _, p := range paras {
		if strings.Contains(strings.ToLower(p.Text()), strings.ToLower(sentence)) {
			return
		}
	}

	at := -1
	heading := ""
	for i, p := range paras {
		t := strings.ToLower(textkit.NormalizeWS(p.Text()))
		if t == "summary" || t == "professional summary" {
			at = i
			heading = p.Text()
			break
		}
	}

	if at >= 0 {
		np := doc.InsertParagraphAfter(at)
		np.AppendRun(sentence)
		log.Add(Change{
			AnchorSection: "Summary",
			Anchor:        heading,
			Modified:      sentence,
			Inserted:      sentence,
			Reason:        "Inserted a targeted summary under the existing heading.",
		})
		return
	}

	// No heading: keep the name line first, add the heading below it.
	insertAt := 0
	if len(paras) == 0 {
		insertAt = -1
	}
	hp := doc.InsertParagraphAfter(insertAt)
	hp.AppendStyledRun("Summary", docx.RunProps{Bold: true})
	sp := doc.InsertParagraphAfter(insertAt + 1)
	sp.AppendRun(sentence)
	log.Add(Change{
		AnchorSection: "Summary",
		Anchor:        "top of document",
		Modified:      sentence,
		Inserted:      sentence,
		Reason:        "Added a Summary heading and targeted sentence after the name line.",
	})
}

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jobcopilot/jobcopilot/internal/ai"
	"github.com/jobcopilot/jobcopilot/internal/artifacts"
	"github.com/jobcopilot/jobcopilot/internal/boards"
	"github.com/jobcopilot/jobcopilot/internal/cover"
	"github.com/jobcopilot/jobcopilot/internal/docx"
	"github.com/jobcopilot/jobcopilot/internal/job"
	"github.com/jobcopilot/jobcopilot/internal/profile"
	"github.com/jobcopilot/jobcopilot/internal/scoring"
	"github.com/jobcopilot/jobcopilot/internal/tailor"
	"github.com/jobcopilot/jobcopilot/internal/tailor/policy"
)

const (
	PromptYes        = "Yes"
	PromptNo         = "No"
	PromptJobsToFile = "Dump scored postings to file"

	maxDraftJobs = 20
)

var draftPrompt = promptui.Select{
	Label: "Draft tailored documents for these postings?",
	Items: []string{PromptYes, PromptNo, PromptJobsToFile},
}

var draftCmd = &cobra.Command{
	Use:   "draft",
	Short: "Draft tailored resumes and cover letters for the top ranked postings",
	Run: func(cmd *cobra.Command, _ []string) {
		draft(cmd)
	},
}

func init() {
	rootCmd.AddCommand(draftCmd)

	draftCmd.Flags().IntP("top", "t", 5, "how many of the top ranked postings to draft for")
	draftCmd.Flags().BoolP("auto-approve", "y", false, "do not ask for confirmation before drafting")
}

func draft(cmd *cobra.Command) {
	ctx := context.Background()
	lg := newLogger()

	config, err := getConfig()
	if err != nil {
		lg.Fatal("getting a config", zap.Error(err))
	}

	user, err := resolveUser(config)
	if err != nil {
		lg.Fatal("resolving user", zap.Error(err))
	}

	if config.Tailor == nil || config.Tailor.BaseResume == "" {
		lg.Fatal("base resume is required (set the 'tailor.base-resume' key)")
	}

	sb, err := newSupabase(ctx, config, lg)
	if err != nil {
		lg.Fatal("configuring supabase", zap.Error(err))
	}

	prof, err := sb.Profile(user)
	if err != nil {
		lg.Fatal("loading profile", zap.Error(err))
	}

	portfolio, err := profile.LoadPortfolio(config.portfolioFile())
	if err != nil {
		lg.Fatal("loading portfolio", zap.Error(err))
	}
	allowed := profile.AllowedVocab(prof, portfolio)

	store, err := artifacts.NewStore(config.outputDir())
	if err != nil {
		lg.Fatal("preparing output", zap.Error(err))
	}

	ranked, err := store.ReadScores()
	if errors.Is(err, fs.ErrNotExist) {
		lg.Info("exiting", zap.String("reason", "no ranked postings file, run the rank command first"))
		return
	}
	if err != nil {
		lg.Fatal("loading ranked postings", zap.Error(err))
	}

	top, _ := cmd.Flags().GetInt("top")
	picked := pickTop(ranked, top)
	if len(picked) == 0 {
		lg.Info("exiting", zap.String("reason", "no ranked postings to draft for"))
		return
	}

	for _, sj := range picked {
		lg.Info("selected posting",
			zap.String("title", sj.Title),
			zap.String("company", sj.Company),
			zap.Float64("score", sj.Score),
		)
	}

	autoApprove, _ := cmd.Flags().GetBool("auto-approve")
	if !confirmDraft(autoApprove, picked, lg) {
		return
	}

	session, err := tailor.NewSession(store.BanlistPath())
	if err != nil {
		lg.Fatal("loading banlist", zap.Error(err))
	}

	assistant, model, err := newAssistant(ctx, config, lg)
	if err != nil {
		lg.Fatal("configuring assistant", zap.Error(err))
	}
	if assistant == nil {
		lg.Info("assistant disabled, using deterministic snippets")
	} else {
		lg.Info("assistant enabled", zap.String("model", model))
	}

	client := boards.NewClient(ctx, lg)
	llmInfo := &artifacts.LLMInfo{Used: assistant != nil, Model: model}

	drafted := 0
	for _, sj := range picked {
		info, err := draftOne(ctx, config, client, assistant, session, store, prof, allowed, sj, lg)
		if err != nil {
			lg.Error("drafting failed",
				zap.String("title", sj.Title),
				zap.String("company", sj.Company),
				zap.Error(err),
			)
			continue
		}
		llmInfo.Jobs = append(llmInfo.Jobs, *info)
		drafted++
	}

	if err := session.Persist(); err != nil {
		lg.Error("persisting banlist", zap.Error(err))
	}
	if err := store.WriteLLMInfo(llmInfo); err != nil {
		lg.Error("writing llm info", zap.Error(err))
	}

	lg.Info("drafting finished", zap.Int("drafted", drafted), zap.Int("requested", len(picked)))
}

func draftOne(ctx context.Context, config *Config, client *boards.Client, assistant ai.Assistant, session *tailor.Session, store *artifacts.Store, prof *profile.Profile, allowed []string, sj *scoring.ScoredJob, lg *zap.Logger) (*artifacts.LLMJobInfo, error) {
	slug := artifacts.Slug(sj.Company, sj.Title)
	jobLog := lg.With(zap.String("slug", slug))

	jdText := boards.PickJDText(client, sj.Job)
	if err := store.WriteJDText(slug, jdText); err != nil {
		return nil, err
	}
	jdHash := artifacts.JDHash(jdText)

	weights := config.keywordWeights()
	jdKeywords := tailor.SelectKeywords(tailor.KeywordRequest{
		Description: jdText,
		Title:       sj.Title,
		URL:         sj.URL,
		Allowed:     allowed,
		Weights:     weights,
	})
	jobLog.Debug("selected keywords", zap.Strings("keywords", jdKeywords))

	req := &ai.Request{
		JobTitle:     sj.Title,
		JDText:       jdText,
		AllowedVocab: allowed,
		JDKeywords:   jdKeywords,
		Banlist:      session.Banlist(),
	}

	crafted := ai.Fallback(req)
	if assistant != nil {
		if got, err := assistant.CraftSnippets(ctx, req); err != nil {
			jobLog.Warn("snippet generation failed, falling back", zap.Error(err))
		} else {
			crafted = got
		}
	}

	var runtimePolicies []policy.Policy
	if assistant != nil {
		pols, err := assistant.SuggestPolicies(ctx, req)
		if err != nil {
			jobLog.Warn("policy suggestion failed", zap.Error(err))
		} else if len(pols) > 0 {
			if err := policy.WriteRuntime(config.policyDir(), pols); err != nil {
				return nil, err
			}
			runtimePolicies = pols
		}
	}

	policies, err := policy.Load(config.policyDir())
	if err != nil {
		return nil, err
	}

	// Cover letter with a best-effort company context.
	companyCtx := cover.CompanyContext(client, sj.Job)
	letter, err := cover.Letter(sj.Job, prof, jdKeywords, companyCtx.Themes(5))
	if err != nil {
		return nil, err
	}
	coverRel, err := store.WriteCover(slug, cover.Finalize(letter, crafted.SummarySentence, jdKeywords))
	if err != nil {
		return nil, err
	}
	jobLog.Info("wrote cover letter", zap.String("file", coverRel))

	// Tailored resume from the pristine base document.
	doc, err := docx.Open(config.Tailor.BaseResume)
	if err != nil {
		return nil, fmt.Errorf("open base resume: %w", err)
	}

	changeLog := tailor.Tailor(doc, jdKeywords, allowed, tailor.Options{
		Policies: policies,
		Session:  session,
	})
	tailor.InsertSummary(doc, crafted.SummarySentence, changeLog)

	resumeAbs, resumeRel := store.ResumePath(slug, jdHash)
	if err := doc.Save(resumeAbs); err != nil {
		return nil, fmt.Errorf("save tailored resume: %w", err)
	}
	jobLog.Info("wrote tailored resume", zap.String("file", resumeRel), zap.Int("changes", changeLog.Len()))

	// Runtime clauses are single-use: ban them so later postings get
	// fresh suggestions instead of recycled ones.
	for _, p := range runtimePolicies {
		session.Ban(p.Clause)
	}

	changesRel, err := store.WriteChanges(slug, &artifacts.Explanation{
		Company:     sj.Company,
		Title:       sj.Title,
		ATSKeywords: jdKeywords,
		LLMKeywords: crafted.Keywords,
		Changes:     changeLog.Items(),
		JDHash:      jdHash,
	})
	if err != nil {
		return nil, err
	}
	jobLog.Info("wrote change record", zap.String("file", changesRel))

	return &artifacts.LLMJobInfo{
		Slug:               slug,
		Injected:           crafted.SummarySentence != "",
		RuntimePolicyCount: len(runtimePolicies),
		Changes:            changeLog.Len(),
	}, nil
}

// pickTop deduplicates by URL keeping rank order and clamps the draft
// count to something a reviewer can actually read.
func pickTop(ranked []*scoring.ScoredJob, top int) []*scoring.ScoredJob {
	if top < 1 {
		top = 1
	}
	if top > maxDraftJobs {
		top = maxDraftJobs
	}

	seen := make(map[string]struct{}, len(ranked))
	out := make([]*scoring.ScoredJob, 0, top)
	for _, sj := range ranked {
		if sj == nil || sj.Job == nil {
			continue
		}
		key := sj.Key()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, sj)
		if len(out) == top {
			break
		}
	}
	return out
}

func confirmDraft(autoApprove bool, picked []*scoring.ScoredJob, lg *zap.Logger) bool {
	if autoApprove {
		return true
	}

	for {
		_, action, err := draftPrompt.Run()
		if err != nil {
			lg.Fatal("exiting", zap.Error(err))
		}

		switch action {
		case PromptYes:
			return true
		case PromptNo:
			lg.Info("exiting", zap.String("reason", "got no from prompt"))
			return false
		case PromptJobsToFile:
			jobs := &job.Jobs{}
			for _, sj := range picked {
				jobs.Append(sj.Job)
			}
			filename, err := jobs.DumpToTmpFile()
			if err != nil {
				lg.Error("dumping postings to file", zap.Error(err))
				continue
			}
			lg.Info("dumped postings to file", zap.String("filename", filename))
		}
	}
}

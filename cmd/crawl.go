package cmd

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jobcopilot/jobcopilot/internal/boards"
	"github.com/jobcopilot/jobcopilot/internal/filtering"
	"github.com/jobcopilot/jobcopilot/internal/job"
	"github.com/jobcopilot/jobcopilot/internal/profile"
	"github.com/jobcopilot/jobcopilot/internal/supabase"
	"github.com/jobcopilot/jobcopilot/internal/util"
)

// boardPause spaces out board fetches so a multi-board run does not look
// like a burst to any shared upstream.
const boardPause = 2 * time.Second

var crawlCmd = &cobra.Command{
	Use:   "crawl",
	Short: "Crawl the enabled job boards, filter postings against the profile, and store survivors",
	Run: func(cmd *cobra.Command, _ []string) {
		crawl(cmd)
	},
}

func init() {
	rootCmd.AddCommand(crawlCmd)

	crawlCmd.Flags().StringP("every", "e", "", "cron expression to keep crawling on a schedule instead of once")
	crawlCmd.Flags().Bool("no-filter", false, "store postings without profile filtering")
}

func crawl(cmd *cobra.Command) {
	ctx := context.Background()
	lg := newLogger()

	config, err := getConfig()
	if err != nil {
		lg.Error("getting a config", zap.Error(err))
		return
	}

	user, err := resolveUser(config)
	if err != nil {
		lg.Fatal("resolving user", zap.Error(err))
	}

	sb, err := newSupabase(ctx, config, lg)
	if err != nil {
		lg.Fatal("configuring supabase", zap.Error(err))
	}

	lg.Info("starting the jobcopilot crawler", zap.String("version", version), zap.String("user", user))

	every, _ := cmd.Flags().GetString("every")
	noFilter, _ := cmd.Flags().GetBool("no-filter")

	if every == "" {
		if err := crawlOnce(ctx, config, sb, user, noFilter, lg); err != nil {
			lg.Fatal("crawling", zap.Error(err))
		}
		return
	}

	schedule := cron.New()
	_, err = schedule.AddFunc(every, func() {
		if err := crawlOnce(ctx, config, sb, user, noFilter, lg); err != nil {
			lg.Error("scheduled crawl failed", zap.Error(err))
		}
	})
	if err != nil {
		lg.Fatal("parsing cron expression", zap.String("every", every), zap.Error(err))
	}

	lg.Info("crawling on a schedule", zap.String("every", every))
	schedule.Run()
}

func crawlOnce(ctx context.Context, config *Config, sb *supabase.Client, user string, noFilter bool, lg *zap.Logger) error {
	prof, err := sb.Profile(user)
	if err != nil {
		return err
	}

	boardList, err := sb.Boards()
	if err != nil {
		return err
	}
	if len(boardList) == 0 {
		lg.Info("no enabled boards configured")
		return nil
	}

	client := boards.NewClient(ctx, lg)

	all := &job.Jobs{}
	for i, b := range boardList {
		if i > 0 {
			if err := util.WaitFor(ctx, boardPause); err != nil {
				return err
			}
		}
		crawlBoard(ctx, config, sb, client, prof, b, user, noFilter, all, lg)
	}

	all.Dedupe()
	lg.Info("crawl finished", zap.Int("boards", len(boardList)), zap.Int("postings", all.Len()))

	if err := all.ToJSONL(config.jobsFile()); err != nil {
		return err
	}
	lg.Info("dumped postings", zap.String("file", config.jobsFile()))
	return nil
}

func crawlBoard(ctx context.Context, config *Config, sb *supabase.Client, client *boards.Client, prof *profile.Profile, b supabase.Board, user string, noFilter bool, all *job.Jobs, lg *zap.Logger) {
	boardLog := lg.With(zap.String("source", b.Source), zap.String("slug", b.Slug))

	src, err := boards.ForBoard(client, b.Source, b.Slug, prof)
	if err != nil {
		boardLog.Warn("skipping board", zap.Error(err))
		sb.UpdateBoardStatus(b.Source, b.Slug, "skipped", err.Error())
		return
	}

	jobs, err := src.Crawl()
	if err != nil {
		boardLog.Error("crawl failed", zap.Error(err))
		sb.UpdateBoardStatus(b.Source, b.Slug, "error", err.Error())
		return
	}
	boardLog.Info("crawled board", zap.Int("postings", jobs.Len()))

	if !noFilter {
		deps := filtering.Deps{Logger: boardLog, Profile: prof, Now: time.Now().UTC()}
		cfg := &filtering.Config{ExtraExcludes: config.extraExcludes()}
		jobs, err = filtering.Run(ctx, cfg, deps, filtering.Default(), jobs)
		if err != nil {
			boardLog.Error("filtering failed", zap.Error(err))
			sb.UpdateBoardStatus(b.Source, b.Slug, "error", err.Error())
			return
		}
	}

	if err := sb.UpsertJobs(user, jobs); err != nil {
		boardLog.Error("upsert failed", zap.Error(err))
		sb.UpdateBoardStatus(b.Source, b.Slug, "error", err.Error())
		return
	}

	sb.UpdateBoardStatus(b.Source, b.Slug, "ok", "")
	all.Append(jobs.Items...)
}

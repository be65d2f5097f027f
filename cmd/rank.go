package cmd

import (
	"context"
	"errors"
	"io/fs"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jobcopilot/jobcopilot/internal/artifacts"
	"github.com/jobcopilot/jobcopilot/internal/export"
	"github.com/jobcopilot/jobcopilot/internal/job"
	"github.com/jobcopilot/jobcopilot/internal/scoring"
)

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Score crawled postings against the profile and write the ranked list",
	Run: func(cmd *cobra.Command, _ []string) {
		rank(cmd)
	},
}

func init() {
	rootCmd.AddCommand(rankCmd)

	rankCmd.Flags().StringP("input", "i", "", "postings file to rank (default is the crawl output)")
	rankCmd.Flags().String("xlsx", "", "also export the ranking to this Excel workbook")
}

func rank(cmd *cobra.Command) {
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

	sb, err := newSupabase(ctx, config, lg)
	if err != nil {
		lg.Fatal("configuring supabase", zap.Error(err))
	}

	prof, err := sb.Profile(user)
	if err != nil {
		lg.Fatal("loading profile", zap.Error(err))
	}

	input, _ := cmd.Flags().GetString("input")
	if input == "" {
		input = config.jobsFile()
	}

	jobs, err := job.FromJSONLFile(input)
	if errors.Is(err, fs.ErrNotExist) {
		lg.Info("exiting", zap.String("reason", "no postings file, run the crawl command first"), zap.String("file", input))
		return
	}
	if err != nil {
		lg.Fatal("loading postings", zap.String("file", input), zap.Error(err))
	}
	lg.Info("loaded postings", zap.String("file", input), zap.Int("count", jobs.Len()))

	recent := scoring.FilterRecent(jobs, prof.SearchPolicy, time.Now().UTC())
	if dropped := jobs.Len() - recent.Len(); dropped > 0 {
		lg.Info("dropped stale postings", zap.Int("dropped", dropped))
	}

	ranked := scoring.Rank(recent, prof)

	store, err := artifacts.NewStore(config.outputDir())
	if err != nil {
		lg.Fatal("preparing output", zap.Error(err))
	}
	if err := store.WriteScores(ranked); err != nil {
		lg.Fatal("writing scores", zap.Error(err))
	}
	lg.Info("wrote ranked postings", zap.Int("count", len(ranked)))

	if xlsx, _ := cmd.Flags().GetString("xlsx"); xlsx != "" {
		if err := export.ToExcel(ranked, xlsx); err != nil {
			lg.Fatal("exporting workbook", zap.Error(err))
		}
		lg.Info("exported workbook", zap.String("file", xlsx))
	}
}

package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jobcopilot/jobcopilot/internal/resume"
)

var parseResumeCmd = &cobra.Command{
	Use:   "parse-resume",
	Short: "Extract contact details and known skills from a .docx resume",
	Run: func(cmd *cobra.Command, _ []string) {
		parseResume(cmd)
	},
}

func init() {
	rootCmd.AddCommand(parseResumeCmd)

	parseResumeCmd.Flags().String("docx", "", "path to the .docx resume to parse")
	parseResumeCmd.Flags().Bool("apply", false, "patch the parsed fields onto the user's profile")
	parseResumeCmd.MarkFlagRequired("docx")
}

func parseResume(cmd *cobra.Command) {
	ctx := context.Background()
	lg := newLogger()

	config, err := getConfig()
	if err != nil {
		lg.Fatal("getting a config", zap.Error(err))
	}

	path, _ := cmd.Flags().GetString("docx")
	draft, err := resume.ParseFile(path)
	if err != nil {
		lg.Fatal("parsing resume", zap.String("file", path), zap.Error(err))
	}

	pretty, _ := json.MarshalIndent(draft, "", "  ")
	fmt.Println(string(pretty))

	apply, _ := cmd.Flags().GetBool("apply")
	if !apply {
		return
	}

	fields := draft.Fields()
	if len(fields) == 0 {
		lg.Info("nothing to apply", zap.String("reason", "no fields extracted"))
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

	if err := sb.PatchProfile(user, fields); err != nil {
		lg.Fatal("updating profile", zap.Error(err))
	}
	lg.Info("updated profile", zap.String("user", user), zap.Int("fields", len(fields)))
}

package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/jobcopilot/jobcopilot/internal/ai"
	"github.com/jobcopilot/jobcopilot/internal/ai/gemini"
	"github.com/jobcopilot/jobcopilot/internal/logger"
	"github.com/jobcopilot/jobcopilot/internal/secrets"
	"github.com/jobcopilot/jobcopilot/internal/supabase"
	"github.com/jobcopilot/jobcopilot/internal/tailor"
)

const (
	app = "jobcopilot"

	defaultOutputDir = "docs"
	defaultJobsFile  = "data/jobs.jsonl"
	defaultPortfolio = "portfolio.yaml"
	defaultPolicyDir = "policies"
)

type Config struct {
	User     string          `mapstructure:"user"`
	Supabase *SupabaseConfig `mapstructure:"supabase"`
	AI       *AIConfig       `mapstructure:"ai"`
	Tailor   *TailorConfig   `mapstructure:"tailor"`
	Paths    *PathsConfig    `mapstructure:"paths"`
	Filters  *struct {
		ExtraExcludes []string `mapstructure:"extra-excludes"`
	} `mapstructure:"filters"`
}

type SupabaseConfig struct {
	URL     string `mapstructure:"url"`
	Key     string `mapstructure:"key"`
	KeyFile string `mapstructure:"key-file"`
}

type AIConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Provider string        `mapstructure:"provider"`
	Gemini   *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKey       string `mapstructure:"api-key"`
	APIKeyFile   string `mapstructure:"api-key-file"`
	Model        string `mapstructure:"model"`
	MaxLogLength int    `mapstructure:"max-log-length"`
}

type TailorConfig struct {
	BaseResume string         `mapstructure:"base-resume"`
	PolicyDir  string         `mapstructure:"policy-dir"`
	Keywords   *tailor.Weights `mapstructure:"keywords"`
}

type PathsConfig struct {
	Output    string `mapstructure:"output"`
	Jobs      string `mapstructure:"jobs"`
	Portfolio string `mapstructure:"portfolio"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "jobcopilot crawls job boards, ranks postings against your profile, and drafts tailored application documents",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	for key, env := range map[string]string{
		"supabase.url":           "SUPABASE_URL",
		"supabase.key-file":      "SUPABASE_KEY_FILE",
		"ai.gemini.api-key-file": "GEMINI_API_KEY_FILE",
	} {
		if err := viper.BindEnv(key, env); err != nil {
			log.Fatalf("binding %s environment variable: %v", env, err)
		}
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is jobcopilot.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")
	rootCmd.PersistentFlags().StringP("user", "u", "", "user id owning the profile and postings")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	viper.BindPFlag("user", rootCmd.PersistentFlags().Lookup("user"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app + ".yaml")
		viper.SetConfigType("yaml")
	}

	if err := viper.ReadInConfig(); err != nil {
		// The file is optional when everything comes from flags and env.
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return
		}
		log.Fatal(err)
	}
}

func getConfig() (*Config, error) {
	var config *Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}
	if config == nil {
		config = &Config{}
	}
	return config, nil
}

func newLogger() *zap.Logger {
	l, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}
	return l
}

func resolveUser(config *Config) (string, error) {
	user := strings.TrimSpace(viper.GetString("user"))
	if user == "" {
		user = strings.TrimSpace(config.User)
	}
	if user == "" {
		return "", errors.New("user id is required (set --user or the 'user' key in the configuration file)")
	}
	return user, nil
}

func newSupabase(ctx context.Context, config *Config, lg *zap.Logger) (*supabase.Client, error) {
	sc := config.Supabase
	if sc == nil || strings.TrimSpace(sc.URL) == "" {
		return nil, errors.New("supabase url is not configured (set SUPABASE_URL or the 'supabase.url' key)")
	}

	key, err := secrets.Load(secrets.Source{
		Name:  "supabase service key",
		Value: sc.Key,
		File:  sc.KeyFile,
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set SUPABASE_KEY_FILE or the 'supabase.key-file' key)", err)
	}

	return supabase.New(ctx, lg, sc.URL, key), nil
}

// newAssistant builds the configured assistant, or returns nil when AI is
// disabled so callers fall back to deterministic snippets.
func newAssistant(ctx context.Context, config *Config, lg *zap.Logger) (ai.Assistant, string, error) {
	cfg := config.AI
	if cfg == nil || !cfg.Enabled {
		return nil, "", nil
	}

	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider != "" && provider != "gemini" {
		return nil, "", fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}
	if cfg.Gemini == nil {
		cfg.Gemini = &GeminiConfig{}
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name:  "gemini api key",
		Value: cfg.Gemini.APIKey,
		File:  cfg.Gemini.APIKeyFile,
	})
	if err != nil {
		return nil, "", fmt.Errorf("%w (set ai.gemini.api-key-file or GEMINI_API_KEY_FILE)", err)
	}

	generator, err := gemini.NewGenerator(ctx, apiKey, cfg.Gemini.Model)
	if err != nil {
		return nil, "", err
	}

	crafterLogger := logger.WithCommonFields(lg, "gemini", generator.Model())
	return gemini.NewCrafter(generator, crafterLogger, cfg.Gemini.MaxLogLength), generator.Model(), nil
}

func (c *Config) outputDir() string {
	if c.Paths != nil && strings.TrimSpace(c.Paths.Output) != "" {
		return c.Paths.Output
	}
	return defaultOutputDir
}

func (c *Config) jobsFile() string {
	if c.Paths != nil && strings.TrimSpace(c.Paths.Jobs) != "" {
		return c.Paths.Jobs
	}
	return defaultJobsFile
}

func (c *Config) portfolioFile() string {
	if c.Paths != nil && strings.TrimSpace(c.Paths.Portfolio) != "" {
		return c.Paths.Portfolio
	}
	return defaultPortfolio
}

func (c *Config) policyDir() string {
	if c.Tailor != nil && strings.TrimSpace(c.Tailor.PolicyDir) != "" {
		return c.Tailor.PolicyDir
	}
	return defaultPolicyDir
}

func (c *Config) keywordWeights() tailor.Weights {
	if c.Tailor != nil && c.Tailor.Keywords != nil && c.Tailor.Keywords.Cap > 0 {
		return *c.Tailor.Keywords
	}
	return tailor.DefaultWeights()
}

func (c *Config) extraExcludes() []string {
	if c.Filters != nil {
		return c.Filters.ExtraExcludes
	}
	return nil
}

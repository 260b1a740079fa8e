package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/reddit-persona/internal/config"
	"github.com/jonathan/reddit-persona/internal/llm"
	"github.com/jonathan/reddit-persona/internal/pipeline"
	"github.com/jonathan/reddit-persona/internal/reddit"
	"github.com/jonathan/reddit-persona/internal/textutil"
)

var analyzeCommand = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze one Reddit profile and generate its persona artifacts",
	Long: `Fetches the profile's recent posts and comments, synthesizes a persona,
and writes a text report plus a one-page PDF to the output directory.

Configuration can be loaded from a JSON file using --config. Command-line
arguments override config file values, which override the environment.`,
	RunE: runAnalyzeCmd,
}

var (
	analyzeConfigPath string
	analyzeURL        string
	analyzeUsername   string
	analyzeOutputDir  string
	analyzeAPIKey     string
	analyzeModel      string
	analyzeModelTier  string
)

func init() {
	analyzeCommand.Flags().StringVar(&analyzeConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")
	analyzeCommand.Flags().StringVarP(&analyzeURL, "url", "u", "", "Reddit profile URL, e.g. https://www.reddit.com/user/spez/")
	analyzeCommand.Flags().StringVar(&analyzeUsername, "username", "", "Reddit username (alternative to --url)")
	analyzeCommand.Flags().StringVarP(&analyzeOutputDir, "output-dir", "o", "", "Directory for generated artifacts (default: output)")
	analyzeCommand.Flags().StringVar(&analyzeAPIKey, "api-key", "", "Gemini API Key (optional, defaults to GEMINI_API_KEY env var)")
	analyzeCommand.Flags().StringVar(&analyzeModel, "model", "", "Gemini model name overriding the selected tier's default")
	analyzeCommand.Flags().StringVar(&analyzeModelTier, "model-tier", string(llm.TierStandard), "Model tier: lite, standard, or advanced")

	rootCmd.AddCommand(analyzeCommand)
}

// resolveConfig merges flags over an optional config file over the
// environment, then validates the result.
func resolveConfig() (config.Config, error) {
	cfg := config.Config{
		GeminiAPIKey: analyzeAPIKey,
		OutputDir:    analyzeOutputDir,
		Verbose:      verbose,
	}

	if analyzeConfigPath != "" {
		fileCfg, err := config.LoadConfig(analyzeConfigPath)
		if err != nil {
			return config.Config{}, err
		}
		cfg = cfg.MergeWithDefaults(*fileCfg)
	}

	cfg = cfg.MergeWithDefaults(config.FromEnv())
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// newAnalyzer builds the pipeline from configuration. The returned cleanup
// closes the LLM client.
func newAnalyzer(ctx context.Context, cfg config.Config) (*pipeline.Analyzer, func(), error) {
	tier, err := llm.ParseTier(analyzeModelTier)
	if err != nil {
		return nil, nil, err
	}
	llmCfg := llm.DefaultConfig()
	if analyzeModel != "" {
		llmCfg = llmCfg.WithModel(tier, analyzeModel)
	}

	completer, err := llm.NewGeminiClient(ctx, llmCfg, cfg.GeminiAPIKey)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create LLM client: %w", err)
	}
	completer.UseTier(tier)

	fetcher := reddit.NewClient(cfg.RedditClientID, cfg.RedditClientSecret, cfg.RedditUserAgent, logger)
	analyzer := pipeline.NewAnalyzer(fetcher, completer, logger, cfg.OutputDir)
	cleanup := func() { _ = completer.Close() }
	return analyzer, cleanup, nil
}

// resolveUsername accepts either a bare username or a profile URL.
func resolveUsername(username, url string) (string, error) {
	if username != "" {
		return username, nil
	}
	if url == "" {
		return "", fmt.Errorf("either --url or --username is required")
	}
	extracted := textutil.ExtractUsername(url)
	if extracted == "" {
		return "", fmt.Errorf("could not extract a username from %q", url)
	}
	return extracted, nil
}

func runAnalyzeCmd(cmd *cobra.Command, args []string) error {
	username, err := resolveUsername(analyzeUsername, analyzeURL)
	if err != nil {
		return err
	}

	cfg, err := resolveConfig()
	if err != nil {
		return err
	}

	analyzer, cleanup, err := newAnalyzer(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	fmt.Printf("Analyzing u/%s...\n", username)
	result, err := analyzer.Run(cmd.Context(), username)
	if err != nil {
		logger.Error("analysis failed", zap.String("username", username), zap.Error(err))
		return fmt.Errorf("analysis failed for u/%s: %w", username, err)
	}

	printResult(result)
	return nil
}

func printResult(result *pipeline.Result) {
	fmt.Println("Analysis complete!")
	fmt.Printf("Text report: %s\n", result.TextPath)
	if result.PDFPath != "" {
		fmt.Printf("PDF persona: %s\n", result.PDFPath)
	} else {
		fmt.Println("PDF generation failed; the text report is the primary output.")
	}
	fmt.Println("\nAnalysis Summary:")
	fmt.Printf("  • Username: %s\n", result.Username)
	fmt.Printf("  • Posts analyzed: %d\n", result.Summary.TotalPosts)
	fmt.Printf("  • Comments analyzed: %d\n", result.Summary.TotalComments)
	fmt.Printf("  • Subreddits: %d\n", result.Summary.UniqueSubreddits)
	fmt.Printf("  • Account age: %d days\n", result.Summary.AccountAgeDays)
}

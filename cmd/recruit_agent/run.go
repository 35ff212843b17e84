package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jordanmv/recruitflow/internal/config"
	"github.com/jordanmv/recruitflow/internal/pipeline"
)

var runCommand = &cobra.Command{
	Use:   "run",
	Short: "Run a full recruitment round end-to-end",
	Long: `Orchestrates one recruitment round: drafting -> publishing -> collection -> ingestion -> selection -> invitations.

Configuration can be loaded from a JSON file using --config. Command-line arguments override config file values.`,
	RunE: runPipelineCmd,
}

var (
	runConfigPath      string
	runTopic           string
	runApplyURL        string
	runMaxIterations   int
	runMinDocuments    int
	runMaxRetries      int
	runWaitSeconds     int
	runCandidateTarget int
	runInterviewDate   string
	runInterviewTime   string
	runSlotMinutes     int
	runAPIKey          string
	runDatabaseURL     string
	runSkipPublish     bool
	runVerbose         bool
)

func init() {
	// Config file flag (processed first)
	runCommand.Flags().StringVar(&runConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")

	runCommand.Flags().StringVarP(&runTopic, "topic", "t", "", "Role topic to draft the job description for")
	runCommand.Flags().StringVar(&runApplyURL, "apply-url", "", "Application link included in the published post")
	runCommand.Flags().IntVar(&runMaxIterations, "max-iterations", 0, "Draft refinement iteration budget")
	runCommand.Flags().IntVar(&runMinDocuments, "min-documents", 0, "Applications needed before selection starts")
	runCommand.Flags().IntVar(&runMaxRetries, "max-retries", 0, "Re-check budget for the collection loop")
	runCommand.Flags().IntVar(&runWaitSeconds, "wait-seconds", 0, "Pause between collection checks")
	runCommand.Flags().IntVar(&runCandidateTarget, "candidates", 0, "How many candidates to select for interviews")
	runCommand.Flags().StringVar(&runInterviewDate, "interview-date", "", "Interview date (YYYY-MM-DD)")
	runCommand.Flags().StringVar(&runInterviewTime, "interview-time", "", "First interview slot (HH:MM, 24-hour)")
	runCommand.Flags().IntVar(&runSlotMinutes, "slot-minutes", 0, "Minutes per interview slot")
	runCommand.Flags().BoolVar(&runSkipPublish, "skip-publish", false, "Approve the draft without posting it")
	runCommand.Flags().BoolVarP(&runVerbose, "verbose", "v", false, "Print detailed debug information")

	// API key can be passed as a flag, or read from env var GEMINI_API_KEY
	runCommand.Flags().StringVar(&runAPIKey, "api-key", "", "Gemini API Key (optional, defaults to GEMINI_API_KEY env var)")

	// Database URL for candidate and run persistence
	runCommand.Flags().StringVar(&runDatabaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")

	rootCmd.AddCommand(runCommand)
}

// loadRunConfig merges config file, CLI overrides, environment, and defaults.
func loadRunConfig(cmd *cobra.Command) (*config.Config, error) {
	var cfg config.Config
	if runConfigPath != "" {
		loadedCfg, err := config.LoadConfig(runConfigPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		if err := loadedCfg.Validate(); err != nil {
			return nil, err
		}
		cfg = *loadedCfg
		if runVerbose {
			fmt.Printf("Loaded config from: %s\n", runConfigPath)
		}
	}

	// CLI overrides: only apply when the flag was explicitly set
	if cmd.Flags().Changed("topic") {
		cfg.Topic = runTopic
	}
	if cmd.Flags().Changed("apply-url") {
		cfg.ApplyURL = runApplyURL
	}
	if cmd.Flags().Changed("max-iterations") {
		cfg.MaxIterations = runMaxIterations
	}
	if cmd.Flags().Changed("min-documents") {
		cfg.MinDocuments = runMinDocuments
	}
	if cmd.Flags().Changed("max-retries") {
		cfg.MaxRetries = runMaxRetries
	}
	if cmd.Flags().Changed("wait-seconds") {
		cfg.WaitSeconds = runWaitSeconds
	}
	if cmd.Flags().Changed("candidates") {
		cfg.CandidateTarget = runCandidateTarget
	}
	if cmd.Flags().Changed("interview-date") {
		cfg.InterviewDate = runInterviewDate
	}
	if cmd.Flags().Changed("interview-time") {
		cfg.InterviewTime = runInterviewTime
	}
	if cmd.Flags().Changed("slot-minutes") {
		cfg.SlotMinutes = runSlotMinutes
	}
	if cmd.Flags().Changed("api-key") {
		cfg.APIKey = runAPIKey
	}
	if cmd.Flags().Changed("db-url") {
		cfg.DatabaseURL = runDatabaseURL
	}
	if cmd.Flags().Changed("skip-publish") {
		cfg.SkipPublish = runSkipPublish
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = runVerbose
	}

	cfg.FromEnv()

	cfg = cfg.MergeWithDefaults(config.Config{
		Company:         "Company-A",
		MaxIterations:   5,
		MinDocuments:    2,
		MaxRetries:      2,
		WaitSeconds:     60,
		CandidateTarget: 2,
		SlotMinutes:     30,
		SMTPPort:        587,
	})

	if cfg.Topic == "" {
		return nil, fmt.Errorf("--topic must be provided (via flag or config)")
	}
	return &cfg, nil
}

// interviewStart resolves the configured interview date and time, defaulting
// to 10:00 two days out so a round can run with no scheduling flags at all.
func interviewStart(cfg *config.Config) (time.Time, error) {
	if cfg.InterviewDate == "" && cfg.InterviewTime == "" {
		day := time.Now().AddDate(0, 0, 2)
		return time.Date(day.Year(), day.Month(), day.Day(), 10, 0, 0, 0, time.Local), nil
	}
	date := cfg.InterviewDate
	if date == "" {
		date = time.Now().AddDate(0, 0, 2).Format("2006-01-02")
	}
	clock := cfg.InterviewTime
	if clock == "" {
		clock = "10:00"
	}
	start, err := time.Parse("2006-01-02 15:04", date+" "+clock)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --interview-date or --interview-time: %w", err)
	}
	return start, nil
}

func runPipelineCmd(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg, err := loadRunConfig(cmd)
	if err != nil {
		return err
	}

	start, err := interviewStart(cfg)
	if err != nil {
		return err
	}

	collab, err := buildCollaborators(ctx, cfg)
	if err != nil {
		return err
	}
	defer collab.close()

	controller := pipeline.NewController(collab.deps)
	_, err = controller.Run(ctx, pipeline.RunOptions{
		Topic:           cfg.Topic,
		ApplyURL:        cfg.ApplyURL,
		MaxIterations:   cfg.MaxIterations,
		MinDocuments:    cfg.MinDocuments,
		MaxRetries:      cfg.MaxRetries,
		Wait:            time.Duration(cfg.WaitSeconds) * time.Second,
		CandidateTarget: cfg.CandidateTarget,
		InterviewStart:  start,
		SlotDuration:    time.Duration(cfg.SlotMinutes) * time.Minute,
		Verbose:         cfg.Verbose,
	})
	return err
}

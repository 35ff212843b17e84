package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jordanmv/recruitflow/internal/config"
	"github.com/jordanmv/recruitflow/internal/pipeline"
	"github.com/jordanmv/recruitflow/internal/server"
)

var serveCommand = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Starts the REST API server. Runs, offers, and candidate listings are
exposed over HTTP; run defaults come from the config file and environment.`,
	RunE: runServeCmd,
}

var (
	servePort       int
	serveConfigPath string
)

func init() {
	serveCommand.Flags().IntVarP(&servePort, "port", "p", 8080, "Port to listen on")
	serveCommand.Flags().StringVar(&serveConfigPath, "config", "", "Path to config.json file")

	rootCmd.AddCommand(serveCommand)
}

func runServeCmd(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	var cfg config.Config
	if serveConfigPath != "" {
		loadedCfg, err := config.LoadConfig(serveConfigPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if err := loadedCfg.Validate(); err != nil {
			return err
		}
		cfg = *loadedCfg
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

	collab, err := buildCollaborators(ctx, &cfg)
	if err != nil {
		return err
	}
	defer collab.close()

	srv, err := server.New(server.Config{
		Port: servePort,
		Defaults: server.RunDefaults{
			MaxIterations:   cfg.MaxIterations,
			MinDocuments:    cfg.MinDocuments,
			MaxRetries:      cfg.MaxRetries,
			WaitSeconds:     cfg.WaitSeconds,
			CandidateTarget: cfg.CandidateTarget,
			SlotMinutes:     cfg.SlotMinutes,
			Company:         cfg.Company,
			ApplyURL:        cfg.ApplyURL,
		},
	}, server.Deps{
		Controller: pipeline.NewController(collab.deps),
		Candidates: collab.candidates,
		Offers:     collab.offers,
		Runs:       collab.deps.DB,
		Mailer:     collab.mailer,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}

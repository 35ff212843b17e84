package main

import (
	"context"
	"fmt"

	"github.com/jordanmv/recruitflow/internal/collection"
	"github.com/jordanmv/recruitflow/internal/config"
	"github.com/jordanmv/recruitflow/internal/ingestion"
	"github.com/jordanmv/recruitflow/internal/llm"
	"github.com/jordanmv/recruitflow/internal/mail"
	"github.com/jordanmv/recruitflow/internal/pipeline"
	"github.com/jordanmv/recruitflow/internal/publish"
	"github.com/jordanmv/recruitflow/internal/schedule"
	"github.com/jordanmv/recruitflow/internal/store"
)

// collaborators bundles everything a run needs plus the stores the offer and
// serve commands reuse.
type collaborators struct {
	deps       pipeline.Deps
	candidates store.CandidateStore
	offers     store.OfferStore
	mailer     mail.Mailer
	closers    []func()
}

func (c *collaborators) close() {
	for _, fn := range c.closers {
		fn()
	}
}

// buildCollaborators wires the pipeline from configuration. Postgres backs
// the stores when DATABASE_URL is set; otherwise everything runs in memory
// and nothing survives the process.
func buildCollaborators(ctx context.Context, cfg *config.Config) (*collaborators, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable or --api-key flag is required")
	}
	client, err := llm.NewGeminiClient(ctx, llm.DefaultGeminiConfig(), cfg.APIKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}

	c := &collaborators{}
	c.closers = append(c.closers, func() { _ = client.Close() })

	if cfg.DatabaseURL != "" {
		pg, err := store.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			c.close()
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		c.closers = append(c.closers, pg.Close)
		c.candidates = pg
		c.offers = pg
		c.deps.DB = pg
	} else {
		fmt.Printf("Warning: DATABASE_URL not set, using in-memory stores\n")
		mem := store.NewMemory()
		c.candidates = mem
		c.offers = mem
	}

	if cfg.StorageURL == "" || cfg.StorageKey == "" || cfg.StorageBucket == "" {
		c.close()
		return nil, fmt.Errorf("SUPABASE_URL, SUPABASE_KEY, and SUPABASE_BUCKET are required for application collection")
	}
	documentDir := cfg.DocumentDir
	if documentDir == "" {
		documentDir = "applications"
	}

	c.deps.Client = client
	c.deps.Fetcher = collection.NewStorageFetcher(cfg.StorageURL, cfg.StorageKey, cfg.StorageBucket, documentDir)
	c.deps.Extractor = &ingestion.LLMExtractor{Client: client}
	c.deps.Candidates = c.candidates

	if cfg.PublishURL != "" {
		publisher, err := publish.NewLinkedInPublisher(publish.LinkedInConfig{
			URL:        cfg.PublishURL,
			CSRFToken:  cfg.CSRFToken,
			Cookie:     cfg.Cookie,
			CompanyURN: cfg.CompanyURN,
			QueryID:    cfg.QueryID,
		})
		if err != nil {
			c.close()
			return nil, fmt.Errorf("failed to create publisher: %w", err)
		}
		if !cfg.SkipPublish {
			c.deps.Publisher = publisher
		}
	}

	if cfg.SMTPHost != "" {
		mailer, err := mail.NewSMTPMailer(mail.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUser,
			Password: cfg.SMTPPass,
			From:     cfg.FromEmail,
		})
		if err != nil {
			c.close()
			return nil, fmt.Errorf("failed to create mailer: %w", err)
		}
		c.mailer = mailer
		c.deps.Notifier = schedule.NewNotifier(client, mailer, 0)
	} else {
		fmt.Printf("Warning: SMTP_HOST not set, invitations and offers will be skipped\n")
	}

	return c, nil
}

package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jordanmv/recruitflow/internal/config"
	"github.com/jordanmv/recruitflow/internal/mail"
	"github.com/jordanmv/recruitflow/internal/pipeline"
	"github.com/jordanmv/recruitflow/internal/store"
	"github.com/jordanmv/recruitflow/internal/types"
)

var offerCommand = &cobra.Command{
	Use:   "offer",
	Short: "Send offer letters to selected candidates",
	Long: `Records and emails an offer letter per candidate. Each offer is stored as
pending before dispatch and marked sent or failed afterwards.

Candidates are given as name=email pairs, e.g.:

  recruit_agent offer --role "Data Analyst" --salary "8 LPA" \
      --candidate "Jane Doe=jane@example.com" --candidate "Sam Roe=sam@example.com"`,
	RunE: runOfferCmd,
}

var (
	offerCandidates []string
	offerRole       string
	offerSalary     string
	offerCompany    string
	offerVerbose    bool
)

func init() {
	offerCommand.Flags().StringArrayVar(&offerCandidates, "candidate", nil, "Candidate as name=email (repeatable)")
	offerCommand.Flags().StringVar(&offerRole, "role", "", "Role the offer is for")
	offerCommand.Flags().StringVar(&offerSalary, "salary", "", "Salary quoted in the offer letter")
	offerCommand.Flags().StringVar(&offerCompany, "company", "Company-A", "Company name used in the offer letter")
	offerCommand.Flags().BoolVarP(&offerVerbose, "verbose", "v", false, "Print detailed debug information")

	rootCmd.AddCommand(offerCommand)
}

// parseCandidates turns repeated name=email flags into candidate refs.
func parseCandidates(raw []string) ([]types.CandidateRef, error) {
	refs := make([]types.CandidateRef, 0, len(raw))
	for _, entry := range raw {
		name, email, ok := strings.Cut(entry, "=")
		if !ok || strings.TrimSpace(name) == "" || strings.TrimSpace(email) == "" {
			return nil, fmt.Errorf("invalid --candidate %q, expected name=email", entry)
		}
		refs = append(refs, types.CandidateRef{
			Name:  strings.TrimSpace(name),
			Email: strings.TrimSpace(email),
		})
	}
	return refs, nil
}

func runOfferCmd(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	refs, err := parseCandidates(offerCandidates)
	if err != nil {
		return err
	}

	var cfg config.Config
	cfg.FromEnv()
	if cfg.SMTPHost == "" {
		return fmt.Errorf("SMTP_HOST environment variable is required")
	}

	mailer, err := mail.NewSMTPMailer(mail.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUser,
		Password: cfg.SMTPPass,
		From:     cfg.FromEmail,
	})
	if err != nil {
		return fmt.Errorf("failed to create mailer: %w", err)
	}

	var offers store.OfferStore
	if cfg.DatabaseURL != "" {
		pg, err := store.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer pg.Close()
		offers = pg
	} else {
		fmt.Printf("Warning: DATABASE_URL not set, offer records will not be persisted\n")
		offers = store.NewMemory()
	}

	_, err = pipeline.RunOffers(ctx, pipeline.OfferDeps{
		Mailer: mailer,
		Offers: offers,
	}, pipeline.OfferOptions{
		Candidates: refs,
		Role:       offerRole,
		Salary:     offerSalary,
		Company:    offerCompany,
		Verbose:    offerVerbose,
	})
	return err
}

package pipeline

import (
	"context"
	"fmt"
	"os"

	"github.com/jordanmv/recruitflow/internal/mail"
	"github.com/jordanmv/recruitflow/internal/observability"
	"github.com/jordanmv/recruitflow/internal/schedule"
	"github.com/jordanmv/recruitflow/internal/store"
	"github.com/jordanmv/recruitflow/internal/types"
)

// OfferOptions configures an offer batch. The candidate list is explicit:
// offers go out after interviews, typically to a subset of the candidates a
// run selected.
type OfferOptions struct {
	Candidates []types.CandidateRef
	Role       string
	Salary     string
	Company    string
	Verbose    bool
}

// OfferDeps are the collaborators an offer batch needs.
type OfferDeps struct {
	Mailer mail.Mailer
	Offers store.OfferStore
}

// RunOffers records and dispatches an offer letter per candidate. It is a
// separate workflow from Run: it does not touch the candidate store and can
// be invoked repeatedly as hiring decisions come in.
func RunOffers(ctx context.Context, deps OfferDeps, opts OfferOptions) (*schedule.DispatchReport, error) {
	if len(opts.Candidates) == 0 {
		return nil, fmt.Errorf("no candidates to send offers to")
	}
	if opts.Role == "" {
		return nil, fmt.Errorf("role is required")
	}
	if opts.Salary == "" {
		return nil, fmt.Errorf("salary is required")
	}
	if opts.Company == "" {
		opts.Company = "Company-A"
	}

	fmt.Printf("Step 1/1: Sending %d offer letters for role %q...\n", len(opts.Candidates), opts.Role)
	sender := &schedule.OfferSender{
		Mailer:  deps.Mailer,
		Offers:  deps.Offers,
		Company: opts.Company,
	}
	report, err := sender.SendOffers(ctx, opts.Candidates, opts.Role, opts.Salary)
	if err != nil {
		return report, fmt.Errorf("offer dispatch failed: %w", err)
	}

	if opts.Verbose {
		observability.NewPrinter(os.Stdout).PrintDispatchReport("OFFER LETTERS", report)
	}
	fmt.Printf("Done! %d offers sent, %d failed, %d skipped.\n", report.Sent, report.Failed, report.Skipped)
	return report, nil
}

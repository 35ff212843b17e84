package schedule

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jordanmv/recruitflow/internal/mail"
	"github.com/jordanmv/recruitflow/internal/store"
	"github.com/jordanmv/recruitflow/internal/types"
)

// StartDateLead is how far out a new hire's start date is set.
const StartDateLead = 14 * 24 * time.Hour

// OfferText renders the static offer letter template. No LLM involvement:
// offer wording is fixed and only the candidate fields vary.
func OfferText(candidateName, role, salary, startDate, company string) string {
	return fmt.Sprintf(
		"Dear %s,\n\n"+
			"We are pleased to inform you that you have been selected for the position of %s at %s.\n"+
			"Your compensation will be %s, and your start date is %s.\n\n"+
			"Please reply to this email with 'I accept' to confirm your acceptance.\n\n"+
			"Regards,\n%s HR",
		candidateName, role, company, salary, startDate, company,
	)
}

// OfferSender writes offer records and dispatches offer letters by email.
type OfferSender struct {
	Mailer  mail.Mailer
	Offers  store.OfferStore
	Company string
	Now     func() time.Time
}

// SendOffers creates and emails an offer letter for each candidate. Every
// offer is recorded as pending before dispatch and marked sent or failed
// afterwards, so the record survives even when delivery does not. Candidates
// without an email are skipped. The start date is two weeks from now.
func (s *OfferSender) SendOffers(ctx context.Context, candidates []types.CandidateRef, role, salary string) (*DispatchReport, error) {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	startDate := now().UTC().Add(StartDateLead).Format("2006-01-02")

	report := &DispatchReport{}
	for _, cand := range candidates {
		email := strings.ToLower(strings.TrimSpace(cand.Email))
		if email == "" {
			report.Skipped++
			fmt.Printf("Warning: skipping %s (no email provided)\n", cand.Name)
			continue
		}

		offerText := OfferText(cand.Name, role, salary, startDate, s.Company)
		id, err := s.Offers.CreateOffer(ctx, &store.OfferRecord{
			CandidateName:  cand.Name,
			CandidateEmail: email,
			Role:           role,
			Salary:         salary,
			OfferText:      offerText,
		})
		if err != nil {
			return report, fmt.Errorf("failed to record offer for %s: %w", email, err)
		}

		sendErr := s.Mailer.Send(ctx, mail.Message{
			To:      email,
			Subject: fmt.Sprintf("Offer Letter - %s", s.Company),
			Body:    offerText,
		})
		if sendErr != nil {
			if ctx.Err() != nil {
				return report, ctx.Err()
			}
			if err := s.Offers.MarkOfferFailed(ctx, id); err != nil {
				return report, fmt.Errorf("failed to mark offer %s failed: %w", id, err)
			}
			report.Failed++
			report.Failures = append(report.Failures, DispatchFailure{Candidate: cand, Err: sendErr.Error()})
			fmt.Printf("Warning: failed to send offer to %s: %v\n", email, sendErr)
			continue
		}
		if err := s.Offers.MarkOfferSent(ctx, id); err != nil {
			return report, fmt.Errorf("failed to mark offer %s sent: %w", id, err)
		}
		report.Sent++
	}
	return report, nil
}

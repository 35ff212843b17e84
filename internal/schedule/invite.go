package schedule

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/jordanmv/recruitflow/internal/llm"
	"github.com/jordanmv/recruitflow/internal/mail"
	"github.com/jordanmv/recruitflow/internal/types"
)

// DispatchFailure records one candidate whose notification could not be
// composed or delivered.
type DispatchFailure struct {
	Candidate types.CandidateRef `json:"candidate"`
	Err       string             `json:"error"`
}

// DispatchReport summarizes one notification batch.
type DispatchReport struct {
	Sent     int               `json:"sent"`
	Failed   int               `json:"failed"`
	Skipped  int               `json:"skipped"`
	Failures []DispatchFailure `json:"failures,omitempty"`
}

// Notifier composes personalized interview invitations and delivers them by
// email, one candidate at a time in selection order.
type Notifier struct {
	client  llm.Client
	mailer  mail.Mailer
	limiter *rate.Limiter
}

// NewNotifier creates a notifier. sendInterval paces outbound mail so the
// SMTP relay is never hammered; zero disables pacing.
func NewNotifier(client llm.Client, mailer mail.Mailer, sendInterval time.Duration) *Notifier {
	limiter := rate.NewLimiter(rate.Inf, 1)
	if sendInterval > 0 {
		limiter = rate.NewLimiter(rate.Every(sendInterval), 1)
	}
	return &Notifier{client: client, mailer: mailer, limiter: limiter}
}

// SendInvites emails each selected candidate an interview invitation with a
// calendar link for their slot.
//
// Candidates keep their selection order and the i-th unique candidate gets
// the i-th slot. A candidate with no email, or one already notified in this
// batch, is skipped and consumes no slot. A compose or send failure is
// recorded and the batch continues; the failed candidate's slot stays
// reserved so later invitations do not shift.
func (n *Notifier) SendInvites(ctx context.Context, candidates []types.CandidateRef, jobDescription string, start time.Time, slot time.Duration) (*DispatchReport, error) {
	report := &DispatchReport{}
	seen := make(map[string]bool, len(candidates))
	// Unique candidates never outnumber the input, so one slot per entry
	// always suffices.
	slots := Slots(start, len(candidates), slot)

	slotIdx := 0
	for _, cand := range candidates {
		email := strings.ToLower(strings.TrimSpace(cand.Email))
		if email == "" || seen[email] {
			report.Skipped++
			continue
		}
		seen[email] = true

		slotStart := slots[slotIdx]
		slotIdx++

		if err := n.limiter.Wait(ctx); err != nil {
			return report, err
		}

		body, err := n.composeInvite(ctx, cand.Name, jobDescription, slotStart, slot)
		if err == nil {
			err = n.mailer.Send(ctx, mail.Message{
				To:      email,
				Subject: "Interview Invitation - " + cand.Name,
				Body:    body,
			})
		}
		if err != nil {
			if ctx.Err() != nil {
				return report, ctx.Err()
			}
			report.Failed++
			report.Failures = append(report.Failures, DispatchFailure{Candidate: cand, Err: err.Error()})
			fmt.Printf("Warning: failed to notify %s: %v\n", email, err)
			continue
		}
		report.Sent++
	}
	return report, nil
}

// composeInvite asks the LLM for a short personalized invitation email that
// includes the candidate's calendar link.
func (n *Notifier) composeInvite(ctx context.Context, name, jobDescription string, slotStart time.Time, slot time.Duration) (string, error) {
	link := CalendarLink(name, slotStart, slot)
	prompt := fmt.Sprintf(`Generate a short, polite, and professional interview invitation email
for the candidate named %s. The interview is scheduled on %s at %s.
Include the following calendar link in the email for them to confirm or add the meeting:

%s

Use the job description below to customize the content.

Job Description:
%s

Return only the email body, no subject line, no markdown.`,
		name,
		slotStart.Format("2006-01-02"),
		slotStart.Format("03:04 PM"),
		link,
		jobDescription,
	)

	body, err := n.client.GenerateContent(ctx, prompt, llm.TierLite)
	if err != nil {
		return "", fmt.Errorf("failed to compose invitation for %s: %w", name, err)
	}
	body = strings.TrimSpace(body)
	if body == "" {
		return "", fmt.Errorf("failed to compose invitation for %s: empty response", name)
	}
	return body, nil
}

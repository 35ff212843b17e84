package observability

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jordanmv/recruitflow/internal/collection"
	"github.com/jordanmv/recruitflow/internal/drafting"
	"github.com/jordanmv/recruitflow/internal/index"
	"github.com/jordanmv/recruitflow/internal/schedule"
	"github.com/jordanmv/recruitflow/internal/store"
	"github.com/jordanmv/recruitflow/internal/types"
)

func TestPrintDraftResult(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintDraftResult(&drafting.Result{
		Draft:      "We are hiring a Data Analyst.",
		Verdict:    types.VerdictApproved,
		Iterations: 2,
	})
	output := buf.String()

	assert.Contains(t, output, "JOB DESCRIPTION DRAFT")
	assert.Contains(t, output, "approved")
	assert.Contains(t, output, "Iterations: 2")
	assert.Contains(t, output, "We are hiring a Data Analyst.")
}

func TestPrintDraftResult_Nil(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintDraftResult(nil)

	assert.Empty(t, buf.String())
}

func TestPrintDraftResult_BudgetExhausted(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintDraftResult(&drafting.Result{
		Draft:           "Draft",
		Verdict:         types.VerdictApproved,
		Iterations:      5,
		BudgetExhausted: true,
	})

	assert.Contains(t, buf.String(), "budget exhaustion")
}

func TestPrintCollectionResult(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintCollectionResult(&collection.Result{
		Outcome: collection.OutcomeEnough,
		Count:   12,
		Retries: 1,
	})
	output := buf.String()

	assert.Contains(t, output, "APPLICATION COLLECTION")
	assert.Contains(t, output, "Documents: 12")
	assert.Contains(t, output, "Re-checks: 1")
}

func TestPrintCandidatesTruncatesList(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	records := make([]store.CandidateRecord, 7)
	for i := range records {
		records[i] = store.CandidateRecord{Name: "Candidate", Email: "c@example.com"}
	}
	p.PrintCandidates(records)
	output := buf.String()

	assert.Contains(t, output, "CANDIDATE ROSTER")
	assert.Contains(t, output, "Total candidates: 7")
	assert.Contains(t, output, "... and 2 more")
}

func TestPrintMatches(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintMatches([]index.Match{
		{Record: store.CandidateRecord{Name: "Ada", Email: "ada@example.com"}, Score: 0.92},
	})
	output := buf.String()

	assert.Contains(t, output, "SELECTED CANDIDATES")
	assert.Contains(t, output, "Ada")
	assert.Contains(t, output, "0.92")
}

func TestPrintDispatchReport(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintDispatchReport("INTERVIEW INVITATIONS", &schedule.DispatchReport{
		Sent:   2,
		Failed: 1,
		Failures: []schedule.DispatchFailure{
			{Candidate: types.CandidateRef{Email: "x@example.com"}, Err: "relay refused"},
		},
	})
	output := buf.String()

	assert.Contains(t, output, "INTERVIEW INVITATIONS")
	assert.Contains(t, output, "Sent:    2")
	assert.Contains(t, output, "x@example.com")
}

// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jordanmv/recruitflow/internal/collection"
	"github.com/jordanmv/recruitflow/internal/drafting"
	"github.com/jordanmv/recruitflow/internal/index"
	"github.com/jordanmv/recruitflow/internal/schedule"
	"github.com/jordanmv/recruitflow/internal/store"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintDraftResult outputs the outcome of the refinement loop.
func (p *Printer) PrintDraftResult(result *drafting.Result) {
	if result == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Verdict:    %s\n", result.Verdict))
	sb.WriteString(fmt.Sprintf("Iterations: %d\n", result.Iterations))
	if result.BudgetExhausted {
		sb.WriteString("Approved on budget exhaustion\n")
	}
	sb.WriteString("\n")

	preview := result.Draft
	if len(preview) > 200 {
		preview = preview[:197] + "..."
	}
	sb.WriteString(preview)

	p.printBox("JOB DESCRIPTION DRAFT", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintCollectionResult outputs how the document collection round ended.
func (p *Printer) PrintCollectionResult(result *collection.Result) {
	if result == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Outcome:   %s\n", result.Outcome))
	sb.WriteString(fmt.Sprintf("Documents: %d\n", result.Count))
	sb.WriteString(fmt.Sprintf("Re-checks: %d", result.Retries))

	p.printBox("APPLICATION COLLECTION", sb.String())
}

// PrintCandidates outputs the stored candidate roster.
func (p *Printer) PrintCandidates(records []store.CandidateRecord) {
	if len(records) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Total candidates: %d\n\n", len(records)))

	count := min(len(records), maxItemsToShow)
	for i := 0; i < count; i++ {
		sb.WriteString(fmt.Sprintf("  • %s <%s>\n", records[i].Name, records[i].Email))
	}
	if len(records) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(records)-maxItemsToShow))
	}

	p.printBox("CANDIDATE ROSTER", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintMatches outputs the top-ranked candidates with similarity scores.
func (p *Printer) PrintMatches(matches []index.Match) {
	if len(matches) == 0 {
		return
	}

	var sb strings.Builder
	count := min(len(matches), maxItemsToShow)
	for i := 0; i < count; i++ {
		m := matches[i]
		sb.WriteString(fmt.Sprintf("#%d  %s\n", i+1, m.Record.Name))
		sb.WriteString(fmt.Sprintf("    Score: %.2f  <%s>\n", m.Score, m.Record.Email))
	}
	if len(matches) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("... and %d more\n", len(matches)-maxItemsToShow))
	}

	p.printBox("SELECTED CANDIDATES", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintDispatchReport outputs the outcome of a notification or offer batch.
func (p *Printer) PrintDispatchReport(title string, report *schedule.DispatchReport) {
	if report == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Sent:    %d\n", report.Sent))
	sb.WriteString(fmt.Sprintf("Failed:  %d\n", report.Failed))
	sb.WriteString(fmt.Sprintf("Skipped: %d", report.Skipped))
	for _, f := range report.Failures {
		sb.WriteString(fmt.Sprintf("\n  ✗ %s: %s", f.Candidate.Email, f.Err))
	}

	p.printBox(title, sb.String())
}

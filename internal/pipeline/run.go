// Package pipeline provides the high-level orchestration for a recruitment
// round: draft the job description, publish it, collect applications, select
// candidates, and send interview invitations.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jordanmv/recruitflow/internal/collection"
	"github.com/jordanmv/recruitflow/internal/drafting"
	"github.com/jordanmv/recruitflow/internal/index"
	"github.com/jordanmv/recruitflow/internal/ingestion"
	"github.com/jordanmv/recruitflow/internal/llm"
	"github.com/jordanmv/recruitflow/internal/observability"
	"github.com/jordanmv/recruitflow/internal/publish"
	"github.com/jordanmv/recruitflow/internal/schedule"
	"github.com/jordanmv/recruitflow/internal/store"
	"github.com/jordanmv/recruitflow/internal/types"
)

// ProgressEvent represents a progress update during pipeline execution
type ProgressEvent struct {
	Step     string `json:"step"`
	Category string `json:"category"`
	Message  string `json:"message"`
	RunID    string `json:"run_id,omitempty"`
	Content  any    `json:"content,omitempty"`
}

// ProgressCallback is called when pipeline progress occurs
type ProgressCallback func(event ProgressEvent)

// RunOptions holds configuration for running the pipeline
type RunOptions struct {
	Topic           string
	ApplyURL        string
	MaxIterations   int
	MinDocuments    int
	MaxRetries      int
	Wait            time.Duration
	CandidateTarget int
	InterviewStart  time.Time
	SlotDuration    time.Duration
	Workers         int
	Verbose         bool
	OnProgress      ProgressCallback
}

// Deps are the collaborators a run needs. Publisher, Notifier, and DB are
// optional: a nil Publisher skips posting, a nil Notifier skips invitations,
// and a nil DB skips run history.
type Deps struct {
	Client     llm.Client
	Fetcher    collection.Fetcher
	Extractor  ingestion.Extractor
	Candidates store.CandidateStore
	Publisher  publish.Publisher
	Notifier   *schedule.Notifier
	DB         *store.Postgres
}

// RunResult collects the outputs of a completed recruitment round. Run is
// the stage-by-stage state snapshot the stages filled in along the way.
type RunResult struct {
	RunID      uuid.UUID                `json:"run_id,omitempty"`
	Run        *types.WorkflowRun       `json:"run"`
	Draft      *drafting.Result         `json:"draft"`
	Collection *collection.Result       `json:"collection"`
	Ingestion  *ingestion.Result        `json:"ingestion"`
	Matches    []index.Match            `json:"matches"`
	Selected   []types.CandidateRef     `json:"selected"`
	Dispatch   *schedule.DispatchReport `json:"dispatch,omitempty"`
}

// Controller serializes recruitment runs. The candidate store is shared and
// reset per round, so at most one run may be active at a time.
type Controller struct {
	deps Deps
	mu   sync.Mutex
}

// NewController creates a run controller around the given collaborators.
func NewController(deps Deps) *Controller {
	return &Controller{deps: deps}
}

// emitProgress calls the progress callback if configured
func emitProgress(opts *RunOptions, step, category, message string, content any) {
	if opts.OnProgress != nil {
		opts.OnProgress(ProgressEvent{
			Step:     step,
			Category: category,
			Message:  message,
			Content:  content,
		})
	}
}

// validate rejects options the run cannot proceed without.
func (opts *RunOptions) validate() error {
	if opts.Topic == "" {
		return fmt.Errorf("topic is required")
	}
	if opts.MaxIterations < 0 {
		return fmt.Errorf("max iterations must be non-negative")
	}
	if opts.MinDocuments < 0 {
		return fmt.Errorf("min documents must be non-negative")
	}
	return nil
}

// Run executes one recruitment round end to end. A second concurrent call
// fails fast with ErrRunInProgress instead of queueing.
func (c *Controller) Run(ctx context.Context, opts RunOptions) (*RunResult, error) {
	if !c.mu.TryLock() {
		return nil, ErrRunInProgress
	}
	defer c.mu.Unlock()

	if err := opts.validate(); err != nil {
		return nil, err
	}
	if opts.CandidateTarget <= 0 {
		opts.CandidateTarget = 2
	}
	if opts.SlotDuration <= 0 {
		opts.SlotDuration = 30 * time.Minute
	}

	printer := observability.NewPrinter(os.Stdout)
	run := &types.WorkflowRun{
		Topic:                opts.Topic,
		MaxIterations:        opts.MaxIterations,
		MinDocumentsRequired: opts.MinDocuments,
		MaxCollectionRetries: opts.MaxRetries,
		WaitSeconds:          int(opts.Wait.Seconds()),
		InterviewDate:        opts.InterviewStart.Format("2006-01-02"),
		InterviewTime:        opts.InterviewStart.Format("15:04"),
		SlotMinutes:          int(opts.SlotDuration.Minutes()),
	}
	result := &RunResult{Run: run}

	var runID uuid.UUID
	if c.deps.DB != nil {
		var err error
		runID, err = c.deps.DB.CreateRun(ctx, opts.Topic)
		if err != nil {
			fmt.Printf("Warning: failed to create run record: %v\n", err)
			fmt.Printf("Continuing without run history...\n")
			runID = uuid.Nil
		} else if opts.Verbose {
			fmt.Printf("[VERBOSE] Created run record: %s\n", runID)
		}
	}
	result.RunID = runID
	run.ID = runID

	// Step 1: draft refinement loop
	fmt.Printf("Step 1/7: Drafting job description for %q...\n", opts.Topic)
	draft, err := drafting.Refine(ctx, c.deps.Client, opts.Topic, opts.MaxIterations)
	if err != nil {
		c.failRun(ctx, runID)
		return nil, fmt.Errorf("draft refinement failed: %w", err)
	}
	result.Draft = draft
	run.Draft = draft.Draft
	run.DraftHistory = draft.DraftHistory
	run.Verdict = draft.Verdict
	run.Feedback = draft.Feedback
	run.FeedbackHistory = draft.FeedbackHistory
	run.IterationCount = draft.Iterations
	if opts.Verbose {
		printer.PrintDraftResult(draft)
	}
	emitProgress(&opts, store.StepDraft, store.CategoryDrafting,
		fmt.Sprintf("Draft approved after %d iterations", draft.Iterations), draft)
	c.saveArtifact(ctx, runID, store.StepDraft, store.CategoryDrafting, draft)
	c.saveArtifact(ctx, runID, store.StepDraftHistory, store.CategoryDrafting, draft.DraftHistory)
	c.saveArtifact(ctx, runID, store.StepFeedbackHistory, store.CategoryDrafting, draft.FeedbackHistory)

	// Step 2: publish the posting. Failure is logged, not fatal: applications
	// may still arrive through other channels.
	if c.deps.Publisher != nil {
		fmt.Printf("Step 2/7: Publishing job posting...\n")
		post := draft.Draft
		if opts.ApplyURL != "" {
			if composed, err := publish.ComposePost(ctx, c.deps.Client, draft.Draft, opts.ApplyURL); err != nil {
				fmt.Printf("Warning: failed to compose announcement, publishing the draft instead: %v\n", err)
			} else {
				post = composed
			}
		}
		if err := c.deps.Publisher.Publish(ctx, post); err != nil {
			if ctx.Err() != nil {
				c.failRun(ctx, runID)
				return nil, ctx.Err()
			}
			fmt.Printf("Warning: failed to publish posting: %v\n", err)
		}
	} else {
		fmt.Printf("Step 2/7: No publisher configured, skipping posting.\n")
	}

	// Step 3: reset the candidate store so a stale roster never leaks into
	// this round.
	fmt.Printf("Step 3/7: Resetting candidate store...\n")
	if err := c.deps.Candidates.Reset(ctx); err != nil {
		c.failRun(ctx, runID)
		return nil, fmt.Errorf("failed to reset candidate store: %w", err)
	}

	// Step 4: collect application documents
	fmt.Printf("Step 4/7: Collecting applications (need %d, up to %d re-checks)...\n",
		opts.MinDocuments, opts.MaxRetries)
	collected, err := collection.Collect(ctx, c.deps.Fetcher, collection.Config{
		MinDocuments: opts.MinDocuments,
		MaxRetries:   opts.MaxRetries,
		Wait:         opts.Wait,
	})
	if err != nil {
		c.failRun(ctx, runID)
		return nil, fmt.Errorf("application collection failed: %w", err)
	}
	result.Collection = collected
	run.CollectionRetryCount = collected.Retries
	run.DocumentsFound = collected.Count
	if opts.Verbose {
		printer.PrintCollectionResult(collected)
	}
	if collected.Outcome == collection.OutcomeStopChecking {
		fmt.Printf("Collection stopped short: %d of %d documents after %d re-checks. Proceeding with what we have.\n",
			collected.Count, opts.MinDocuments, collected.Retries)
	}
	emitProgress(&opts, store.StepCollection, store.CategoryCollection,
		fmt.Sprintf("Collected %d documents", collected.Count), collected)
	c.saveArtifact(ctx, runID, store.StepCollection, store.CategoryCollection, collected)

	// Step 5: extract and deduplicate candidates
	fmt.Printf("Step 5/7: Ingesting %d documents...\n", len(collected.Paths))
	ingested, err := ingestion.IngestDocuments(ctx, collected.Paths, c.deps.Extractor, c.deps.Candidates, opts.Workers)
	if err != nil {
		c.failRun(ctx, runID)
		return nil, fmt.Errorf("ingestion failed: %w", err)
	}
	result.Ingestion = ingested
	fmt.Printf("Ingested %d new candidates (%d duplicates, %d failed).\n",
		ingested.Inserted, ingested.Duplicates, ingested.Failed)
	emitProgress(&opts, store.StepIngestion, store.CategoryCollection,
		fmt.Sprintf("Stored %d unique candidates", ingested.Inserted), ingested)
	c.saveArtifact(ctx, runID, store.StepIngestion, store.CategoryCollection, ingested)

	// Step 6: rank candidates against the approved draft
	fmt.Printf("Step 6/7: Selecting top %d candidates...\n", opts.CandidateTarget)
	records, err := c.deps.Candidates.List(ctx)
	if err != nil {
		c.failRun(ctx, runID)
		return nil, fmt.Errorf("failed to list candidates: %w", err)
	}
	if opts.Verbose {
		printer.PrintCandidates(records)
	}
	if len(records) == 0 {
		// No applicants is a valid round outcome, not an error.
		fmt.Printf("No candidates in store, nothing to select.\n")
		result.Selected = []types.CandidateRef{}
		run.SelectedCandidates = result.Selected
		run.NotificationStatus = "skipped"
		c.completeRun(ctx, runID)
		fmt.Printf("Step 7/7: No candidates to notify. Done.\n")
		return result, nil
	}

	idx, err := index.Build(ctx, c.deps.Client, records)
	if err != nil {
		c.failRun(ctx, runID)
		return nil, fmt.Errorf("failed to build candidate index: %w", err)
	}
	matches, err := idx.Query(ctx, draft.Draft, opts.CandidateTarget)
	if err != nil {
		c.failRun(ctx, runID)
		return nil, fmt.Errorf("failed to rank candidates: %w", err)
	}
	result.Matches = matches
	for _, m := range matches {
		rec := m.Record
		result.Selected = append(result.Selected, rec.Ref())
	}
	run.SelectedCandidates = result.Selected
	if opts.Verbose {
		printer.PrintMatches(matches)
	}
	emitProgress(&opts, store.StepSelectedCandidates, store.CategorySelection,
		fmt.Sprintf("Selected %d candidates", len(result.Selected)), result.Selected)
	c.saveArtifact(ctx, runID, store.StepSelectedCandidates, store.CategorySelection, result.Selected)

	// Step 7: send interview invitations
	if c.deps.Notifier != nil {
		fmt.Printf("Step 7/7: Sending interview invitations...\n")
		report, err := c.deps.Notifier.SendInvites(ctx, result.Selected, draft.Draft, opts.InterviewStart, opts.SlotDuration)
		if err != nil {
			c.failRun(ctx, runID)
			return nil, fmt.Errorf("notification dispatch failed: %w", err)
		}
		result.Dispatch = report
		run.NotificationStatus = "sent"
		if report.Failed > 0 {
			run.NotificationStatus = "partial"
		}
		if opts.Verbose {
			printer.PrintDispatchReport("INTERVIEW INVITATIONS", report)
		}
		emitProgress(&opts, store.StepNotification, store.CategoryNotification,
			fmt.Sprintf("Sent %d invitations (%d failed)", report.Sent, report.Failed), report)
		c.saveArtifact(ctx, runID, store.StepNotification, store.CategoryNotification, report)
	} else {
		fmt.Printf("Step 7/7: No notifier configured, skipping invitations.\n")
		run.NotificationStatus = "skipped"
	}

	c.completeRun(ctx, runID)
	fmt.Printf("Done! Recruitment round finished with %d selected candidates.\n", len(result.Selected))
	return result, nil
}

func (c *Controller) saveArtifact(ctx context.Context, runID uuid.UUID, step, category string, content any) {
	if c.deps.DB == nil || runID == uuid.Nil {
		return
	}
	if err := c.deps.DB.SaveArtifact(ctx, runID, step, category, content); err != nil {
		fmt.Printf("Warning: failed to save %s artifact: %v\n", step, err)
	}
}

func (c *Controller) completeRun(ctx context.Context, runID uuid.UUID) {
	if c.deps.DB == nil || runID == uuid.Nil {
		return
	}
	if err := c.deps.DB.CompleteRun(ctx, runID, "completed"); err != nil {
		fmt.Printf("Warning: failed to complete run record: %v\n", err)
	}
}

func (c *Controller) failRun(ctx context.Context, runID uuid.UUID) {
	if c.deps.DB == nil || runID == uuid.Nil {
		return
	}
	if err := c.deps.DB.CompleteRun(ctx, runID, "failed"); err != nil {
		fmt.Printf("Warning: failed to mark run failed: %v\n", err)
	}
}

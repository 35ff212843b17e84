package types

import "github.com/google/uuid"

// Verdict is the evaluator's judgment on a job-description draft.
type Verdict string

// Verdict values returned by draft evaluation.
const (
	VerdictApproved         Verdict = "approved"
	VerdictNeedsImprovement Verdict = "needs_improvement"
)

// WorkflowRun is the mutable state of one hiring pipeline execution.
// The controller owns it; each stage mutates only the fields it produces.
// Once the terminal stage completes the run is treated as read-only.
type WorkflowRun struct {
	ID    uuid.UUID `json:"id"`
	Topic string    `json:"topic"`

	// Draft refinement
	Draft           string   `json:"draft"`
	DraftHistory    []string `json:"draft_history"`
	Verdict         Verdict  `json:"verdict,omitempty"`
	Feedback        string   `json:"feedback,omitempty"`
	FeedbackHistory []string `json:"feedback_history"`
	IterationCount  int      `json:"iteration_count"`
	MaxIterations   int      `json:"max_iterations"`

	// Document collection
	CollectionRetryCount int `json:"collection_retry_count"`
	MaxCollectionRetries int `json:"max_collection_retries"`
	MinDocumentsRequired int `json:"min_documents_required"`
	WaitSeconds          int `json:"wait_seconds"`
	DocumentsFound       int `json:"documents_found"`

	// Selection and scheduling
	SelectedCandidates []CandidateRef `json:"selected_candidates"`
	InterviewDate      string         `json:"interview_date,omitempty"`
	InterviewTime      string         `json:"interview_time,omitempty"`
	SlotMinutes        int            `json:"slot_minutes,omitempty"`

	NotificationStatus string `json:"notification_status,omitempty"`
}

package drafting

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jordanmv/recruitflow/internal/llm"
	"github.com/jordanmv/recruitflow/internal/schemas"
	"github.com/jordanmv/recruitflow/internal/types"
)

// Evaluation is the evaluator's structured judgment of a draft.
type Evaluation struct {
	Verdict  types.Verdict `json:"verdict"`
	Feedback string        `json:"feedback"`
}

// Result holds the outcome of a completed refinement loop.
// The loop always terminates approved: either the evaluator approved the
// draft, or the iteration budget ran out and the last optimized draft is
// carried forward. BudgetExhausted distinguishes the two.
type Result struct {
	Draft           string        `json:"draft"`
	DraftHistory    []string      `json:"draft_history"`
	Verdict         types.Verdict `json:"verdict"`
	Feedback        string        `json:"feedback"`
	FeedbackHistory []string      `json:"feedback_history"`
	Iterations      int           `json:"iterations"`
	BudgetExhausted bool          `json:"budget_exhausted"`
}

// Generate produces the first draft of a job description for a topic.
func Generate(ctx context.Context, client llm.Client, topic string) (string, error) {
	prompt := fmt.Sprintf(`You write job postings for a hiring team.
Generate a job description for this role within 150 words. Include the company
name and location when the topic provides them.

Role topic:
%s`, topic)

	draft, err := client.GenerateContent(ctx, prompt, llm.TierStandard)
	if err != nil {
		return "", &GenerationError{Stage: "generate", Err: err}
	}
	draft = strings.TrimSpace(draft)
	if draft == "" {
		return "", &GenerationError{Stage: "generate"}
	}
	return draft, nil
}

// Evaluate judges a draft against its topic and returns verdict plus feedback.
// The model's JSON output is schema-checked before use.
func Evaluate(ctx context.Context, client llm.Client, draft, topic string) (*Evaluation, error) {
	schema := llm.EvaluationSchema()
	schema.Description = fmt.Sprintf("%s\n\nRole topic:\n%s", schema.Description, topic)
	prompt := llm.BuildExtractionPrompt(schema, draft)

	raw, err := client.GenerateJSON(ctx, prompt, llm.TierLite)
	if err != nil {
		return nil, &GenerationError{Stage: "evaluate", Err: err}
	}
	if err := schemas.ValidateBytes(schemas.DraftEvaluation, []byte(raw)); err != nil {
		return nil, &GenerationError{Stage: "evaluate", Err: err}
	}

	var eval Evaluation
	if err := json.Unmarshal([]byte(raw), &eval); err != nil {
		return nil, &GenerationError{Stage: "evaluate", Err: err}
	}
	return &eval, nil
}

// Optimize rewrites a draft according to evaluator feedback.
func Optimize(ctx context.Context, client llm.Client, draft, feedback, topic string) (string, error) {
	prompt := fmt.Sprintf(`You improve job descriptions based on reviewer feedback.

Improve the draft below using this feedback:
"%s"

Role topic: "%s"

Original draft:
%s

Rewrite it as a polished job description within 150 words. Keep every factual
detail from the original unless the feedback says otherwise.`, feedback, topic, draft)

	improved, err := client.GenerateContent(ctx, prompt, llm.TierAdvanced)
	if err != nil {
		return "", &GenerationError{Stage: "optimize", Err: err}
	}
	improved = strings.TrimSpace(improved)
	if improved == "" {
		return "", &GenerationError{Stage: "optimize"}
	}
	return improved, nil
}

// Refine runs the full refinement loop for a topic.
//
// The loop is strictly bounded: each optimize pass increments the iteration
// counter, and the counter is checked before re-entering evaluation. Running
// out of budget while the evaluator still wants changes counts as approval of
// the latest draft, so the loop always terminates in at most maxIterations
// optimize passes.
func Refine(ctx context.Context, client llm.Client, topic string, maxIterations int) (*Result, error) {
	if maxIterations < 0 {
		maxIterations = 0
	}

	draft, err := Generate(ctx, client, topic)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Draft:        draft,
		DraftHistory: []string{draft},
	}

	for {
		eval, err := Evaluate(ctx, client, result.Draft, topic)
		if err != nil {
			return nil, err
		}
		result.Verdict = eval.Verdict
		result.Feedback = eval.Feedback
		result.FeedbackHistory = append(result.FeedbackHistory, eval.Feedback)

		if eval.Verdict == types.VerdictApproved {
			return result, nil
		}
		if result.Iterations >= maxIterations {
			// Budget exhausted still means the run proceeds: the latest
			// draft is carried forward as approved.
			result.Verdict = types.VerdictApproved
			result.BudgetExhausted = true
			return result, nil
		}

		improved, err := Optimize(ctx, client, result.Draft, eval.Feedback, topic)
		if err != nil {
			return nil, err
		}
		result.Draft = improved
		result.Iterations++
		result.DraftHistory = append(result.DraftHistory, improved)
	}
}

package ingestion

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/jordanmv/recruitflow/internal/llm"
	"github.com/jordanmv/recruitflow/internal/schemas"
	"github.com/jordanmv/recruitflow/internal/types"
)

// Extractor pulls structured candidate fields out of one document.
// A failure applies to that document only and must not corrupt the batch.
type Extractor interface {
	Extract(ctx context.Context, path string, data []byte) (*types.CandidateProfile, error)
}

// LLMExtractor implements Extractor with a schema-checked LLM call.
type LLMExtractor struct {
	Client llm.Client
}

// Extract reduces the document to text, asks the model for candidate fields,
// and validates the JSON before trusting it.
func (e *LLMExtractor) Extract(ctx context.Context, path string, data []byte) (*types.CandidateProfile, error) {
	text, err := DocumentText(path, data)
	if err != nil {
		return nil, &ExtractionError{Path: path, Err: err}
	}

	prompt := llm.BuildExtractionPrompt(llm.CandidateSchema(), text)
	raw, err := e.Client.GenerateJSON(ctx, prompt, llm.TierLite)
	if err != nil {
		return nil, &ExtractionError{Path: path, Err: err}
	}
	if err := schemas.ValidateBytes(schemas.Candidate, []byte(raw)); err != nil {
		return nil, &ExtractionError{Path: path, Err: err}
	}

	var profile types.CandidateProfile
	if err := json.Unmarshal([]byte(raw), &profile); err != nil {
		return nil, &ExtractionError{Path: path, Err: err}
	}
	profile.Email = strings.ToLower(strings.TrimSpace(profile.Email))
	return &profile, nil
}

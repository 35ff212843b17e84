// Package drafting implements the generate -> evaluate -> optimize refinement
// loop that produces an approved job-description draft.
package drafting

import "fmt"

// GenerationError indicates that the text generation capability failed or
// returned unusable output. It is fatal to the run; the loop performs no
// retries of its own for transport failures.
type GenerationError struct {
	Stage string // "generate", "evaluate", or "optimize"
	Err   error
}

func (e *GenerationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("draft %s failed: %v", e.Stage, e.Err)
	}
	return fmt.Sprintf("draft %s returned empty text", e.Stage)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

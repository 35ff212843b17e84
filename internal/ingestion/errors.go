// Package ingestion turns collected application documents into deduplicated
// candidate records.
package ingestion

import "fmt"

// ExtractionError indicates one document could not be processed. It is
// isolated to that document: the batch continues and the failure is counted.
type ExtractionError struct {
	Path string
	Err  error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("failed to extract %s: %v", e.Path, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

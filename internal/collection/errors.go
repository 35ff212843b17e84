// Package collection implements the bounded polling loop that waits for
// application documents to arrive in the working area.
package collection

import "fmt"

// CollectionError indicates the bulk-download collaborator failed.
// Transport failures are fatal to the run; the loop's retry budget only
// covers the "not enough documents yet" case.
type CollectionError struct {
	Err error
}

func (e *CollectionError) Error() string {
	return fmt.Sprintf("document collection failed: %v", e.Err)
}

func (e *CollectionError) Unwrap() error {
	return e.Err
}

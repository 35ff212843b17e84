package collection

import (
	"context"
	"time"
)

// Fetcher is the bulk-download collaborator. FetchNew pulls newly submitted
// documents into the working area and reports everything available there.
// Re-invocation must not duplicate already-fetched files.
type Fetcher interface {
	FetchNew(ctx context.Context) (count int, paths []string, err error)
}

// Outcome is the terminal state of a collection round.
type Outcome string

// Collection outcomes. StopChecking means the retry budget ran out while
// still short of the target; the documents gathered so far are carried
// forward rather than failing the round.
const (
	OutcomeEnough       Outcome = "enough"
	OutcomeStopChecking Outcome = "stop_checking"
)

// Config bounds a collection round.
type Config struct {
	MinDocuments int
	MaxRetries   int
	Wait         time.Duration
}

// Result describes how a collection round ended.
type Result struct {
	Outcome Outcome  `json:"outcome"`
	Count   int      `json:"count"`
	Paths   []string `json:"paths"`
	Retries int      `json:"retries"`
}

// Collect polls the fetcher until enough documents are available or the retry
// budget runs out. The wait between polls is a non-busy sleep that honors
// context cancellation; on cancellation the partial result is returned
// alongside the context error so an operator can resume manually.
func Collect(ctx context.Context, fetcher Fetcher, cfg Config) (*Result, error) {
	retries := 0
	for {
		count, paths, err := fetcher.FetchNew(ctx)
		if err != nil {
			return nil, &CollectionError{Err: err}
		}

		result := &Result{Count: count, Paths: paths, Retries: retries}

		if count >= cfg.MinDocuments {
			result.Outcome = OutcomeEnough
			return result, nil
		}
		if retries >= cfg.MaxRetries {
			result.Outcome = OutcomeStopChecking
			return result, nil
		}

		retries++
		if err := sleep(ctx, cfg.Wait); err != nil {
			result.Retries = retries
			return result, err
		}
	}
}

// sleep blocks for d or until the context is cancelled.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

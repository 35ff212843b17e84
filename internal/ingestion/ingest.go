package ingestion

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/jordanmv/recruitflow/internal/store"
	"github.com/jordanmv/recruitflow/internal/types"
)

// Result summarizes one ingestion round. Profiles holds everything extracted
// this round, duplicates included; only unique records persist in the store.
type Result struct {
	Profiles   []*types.CandidateProfile `json:"profiles"`
	Inserted   int                       `json:"inserted"`
	Duplicates int                       `json:"duplicates"`
	Failed     int                       `json:"failed"`
}

// IngestDocuments extracts every document and stores unique candidates.
//
// Extraction runs across a bounded worker pool; store writes happen after all
// extraction finishes, in document order, so insertion order is deterministic
// and there is a single writer. A document that fails to read or extract is
// counted and skipped, never aborting the batch.
func IngestDocuments(ctx context.Context, paths []string, extractor Extractor, candidates store.CandidateStore, workers int) (*Result, error) {
	if workers <= 0 {
		workers = 4
	}

	type outcome struct {
		profile *types.CandidateProfile
		err     error
	}
	outcomes := make([]outcome, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			data, err := os.ReadFile(path)
			if err != nil {
				outcomes[i].err = &ExtractionError{Path: path, Err: err}
				return nil
			}
			profile, err := extractor.Extract(gctx, path, data)
			if err != nil {
				outcomes[i].err = err
				return nil
			}
			outcomes[i].profile = profile
			return nil
		})
	}
	// Workers swallow per-document errors, so Wait only fails on context
	// cancellation propagated through gctx.
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := &Result{}
	for i, out := range outcomes {
		if out.err != nil {
			result.Failed++
			fmt.Printf("Warning: skipping document %s: %v\n", paths[i], out.err)
			continue
		}

		result.Profiles = append(result.Profiles, out.profile)
		inserted, err := candidates.InsertIfAbsent(ctx, out.profile)
		if err != nil {
			return nil, fmt.Errorf("failed to store candidate from %s: %w", paths[i], err)
		}
		if inserted {
			result.Inserted++
		} else {
			result.Duplicates++
		}
	}
	return result, nil
}

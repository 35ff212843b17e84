package collection

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedFetcher returns one scripted count per call.
type scriptedFetcher struct {
	counts []int
	err    error
	calls  int
}

func (f *scriptedFetcher) FetchNew(_ context.Context) (int, []string, error) {
	if f.err != nil {
		return 0, nil, f.err
	}
	if f.calls >= len(f.counts) {
		return 0, nil, errors.New("no more scripted counts")
	}
	count := f.counts[f.calls]
	f.calls++
	paths := make([]string, count)
	for i := range paths {
		paths[i] = fmt.Sprintf("doc%d.pdf", i)
	}
	return count, paths, nil
}

func TestCollectEnoughOnFirstCheck(t *testing.T) {
	fetcher := &scriptedFetcher{counts: []int{3}}

	result, err := Collect(context.Background(), fetcher, Config{MinDocuments: 3, MaxRetries: 2})
	require.NoError(t, err)

	assert.Equal(t, OutcomeEnough, result.Outcome)
	assert.Equal(t, 3, result.Count)
	assert.Equal(t, 0, result.Retries)
	assert.Equal(t, 1, fetcher.calls)
}

func TestCollectRetriesThenStops(t *testing.T) {
	// First check finds 1 document, later checks find 2: still short after
	// the retry budget, so the round ends with the partial set.
	fetcher := &scriptedFetcher{counts: []int{1, 2, 2}}

	result, err := Collect(context.Background(), fetcher, Config{MinDocuments: 3, MaxRetries: 2, Wait: time.Millisecond})
	require.NoError(t, err)

	assert.Equal(t, OutcomeStopChecking, result.Outcome)
	assert.Equal(t, 2, result.Count)
	assert.Len(t, result.Paths, 2)
	assert.Equal(t, 2, result.Retries)
	assert.Equal(t, 3, fetcher.calls)
}

func TestCollectRetriesThenSucceeds(t *testing.T) {
	fetcher := &scriptedFetcher{counts: []int{1, 4}}

	result, err := Collect(context.Background(), fetcher, Config{MinDocuments: 3, MaxRetries: 3, Wait: time.Millisecond})
	require.NoError(t, err)

	assert.Equal(t, OutcomeEnough, result.Outcome)
	assert.Equal(t, 4, result.Count)
	assert.Equal(t, 1, result.Retries)
}

func TestCollectRetryCountNeverExceedsBudget(t *testing.T) {
	for _, maxRetries := range []int{0, 1, 5} {
		fetcher := &scriptedFetcher{counts: make([]int, maxRetries+1)}

		result, err := Collect(context.Background(), fetcher, Config{MinDocuments: 10, MaxRetries: maxRetries, Wait: time.Millisecond})
		require.NoError(t, err)

		assert.Equal(t, OutcomeStopChecking, result.Outcome)
		assert.LessOrEqual(t, result.Retries, maxRetries)
	}
}

func TestCollectTransportFailureIsFatal(t *testing.T) {
	fetcher := &scriptedFetcher{err: errors.New("bucket unreachable")}

	_, err := Collect(context.Background(), fetcher, Config{MinDocuments: 1, MaxRetries: 2})
	require.Error(t, err)

	var collErr *CollectionError
	assert.ErrorAs(t, err, &collErr)
}

func TestCollectWaitIsCancellable(t *testing.T) {
	fetcher := &scriptedFetcher{counts: []int{1, 1}}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	result, err := Collect(ctx, fetcher, Config{MinDocuments: 5, MaxRetries: 3, Wait: 10 * time.Second})
	elapsed := time.Since(start)

	require.ErrorIs(t, err, context.Canceled)
	assert.Less(t, elapsed, time.Second, "wait should end promptly on cancellation")
	// Partial state is preserved for manual resumption.
	require.NotNil(t, result)
	assert.Equal(t, 1, result.Count)
}

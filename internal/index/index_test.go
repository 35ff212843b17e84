package index

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jordanmv/recruitflow/internal/store"
)

// fakeEmbedder returns canned vectors keyed by input text.
type fakeEmbedder struct {
	vectors map[string][]float32
	err     error
}

func (f *fakeEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	vec, ok := f.vectors[text]
	if !ok {
		return nil, errors.New("no canned vector for: " + text)
	}
	return vec, nil
}

func record(name, email, fullText string) store.CandidateRecord {
	return store.CandidateRecord{Name: name, Email: email, FullText: fullText}
}

func TestQueryRanksByCosineSimilarity(t *testing.T) {
	embedder := &fakeEmbedder{vectors: map[string][]float32{
		"go backend": {1, 0, 0},
		"frontend":   {0, 1, 0},
		"data":       {0, 0, 1},
		"go role jd": {0.9, 0.1, 0},
	}}
	idx, err := Build(context.Background(), embedder, []store.CandidateRecord{
		record("Frida", "frida@example.com", "frontend"),
		record("Gopher", "gopher@example.com", "go backend"),
		record("Dana", "dana@example.com", "data"),
	})
	require.NoError(t, err)
	require.Equal(t, 3, idx.Len())

	matches, err := idx.Query(context.Background(), "go role jd", 2)
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, "gopher@example.com", matches[0].Record.Email)
	assert.Equal(t, "frida@example.com", matches[1].Record.Email)
	assert.Greater(t, matches[0].Score, matches[1].Score)
}

func TestQueryTiesKeepInsertionOrder(t *testing.T) {
	// Identical vectors score identically; earlier insertion wins.
	embedder := &fakeEmbedder{vectors: map[string][]float32{
		"same": {1, 1, 0},
		"jd":   {1, 1, 0},
	}}
	idx, err := Build(context.Background(), embedder, []store.CandidateRecord{
		record("First", "first@example.com", "same"),
		record("Second", "second@example.com", "same"),
		record("Third", "third@example.com", "same"),
	})
	require.NoError(t, err)

	matches, err := idx.Query(context.Background(), "jd", 3)
	require.NoError(t, err)
	require.Len(t, matches, 3)
	assert.Equal(t, "first@example.com", matches[0].Record.Email)
	assert.Equal(t, "second@example.com", matches[1].Record.Email)
	assert.Equal(t, "third@example.com", matches[2].Record.Email)
}

func TestQueryEmptyIndex(t *testing.T) {
	idx, err := Build(context.Background(), &fakeEmbedder{}, nil)
	require.NoError(t, err)
	require.Equal(t, 0, idx.Len())

	matches, err := idx.Query(context.Background(), "anything", 5)
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestQueryClampsKToIndexSize(t *testing.T) {
	embedder := &fakeEmbedder{vectors: map[string][]float32{
		"only": {1, 0},
		"jd":   {1, 0},
	}}
	idx, err := Build(context.Background(), embedder, []store.CandidateRecord{
		record("Only", "only@example.com", "only"),
	})
	require.NoError(t, err)

	matches, err := idx.Query(context.Background(), "jd", 10)
	require.NoError(t, err)
	assert.Len(t, matches, 1)
}

func TestQueryIsDeterministic(t *testing.T) {
	embedder := &fakeEmbedder{vectors: map[string][]float32{
		"a":  {0.5, 0.5},
		"b":  {0.5, 0.5},
		"c":  {1, 0},
		"jd": {1, 0.2},
	}}
	records := []store.CandidateRecord{
		record("A", "a@example.com", "a"),
		record("B", "b@example.com", "b"),
		record("C", "c@example.com", "c"),
	}
	idx, err := Build(context.Background(), embedder, records)
	require.NoError(t, err)

	first, err := idx.Query(context.Background(), "jd", 3)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := idx.Query(context.Background(), "jd", 3)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestBuildPropagatesEmbedderError(t *testing.T) {
	embedder := &fakeEmbedder{err: errors.New("quota exceeded")}
	_, err := Build(context.Background(), embedder, []store.CandidateRecord{
		record("A", "a@example.com", "a"),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "a@example.com")
}

func TestCosineSimilarityEdgeCases(t *testing.T) {
	assert.Equal(t, 0.0, cosineSimilarity([]float32{1, 0}, []float32{1, 0, 0}))
	assert.Equal(t, 0.0, cosineSimilarity([]float32{0, 0}, []float32{1, 0}))
	assert.InDelta(t, 1.0, cosineSimilarity([]float32{2, 0}, []float32{5, 0}), 1e-9)
	assert.InDelta(t, 0.0, cosineSimilarity([]float32{1, 0}, []float32{0, 1}), 1e-9)
}

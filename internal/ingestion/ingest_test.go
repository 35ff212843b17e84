package ingestion

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jordanmv/recruitflow/internal/store"
	"github.com/jordanmv/recruitflow/internal/types"
)

// fakeExtractor maps document basenames to canned profiles or errors.
type fakeExtractor struct {
	profiles map[string]*types.CandidateProfile
	failures map[string]error
}

func (f *fakeExtractor) Extract(_ context.Context, path string, _ []byte) (*types.CandidateProfile, error) {
	name := filepath.Base(path)
	if err, ok := f.failures[name]; ok {
		return nil, &ExtractionError{Path: path, Err: err}
	}
	if p, ok := f.profiles[name]; ok {
		dup := *p
		return &dup, nil
	}
	return nil, &ExtractionError{Path: path, Err: errors.New("no canned profile")}
}

func writeDocs(t *testing.T, names []string) []string {
	t.Helper()
	dir := t.TempDir()
	paths := make([]string, 0, len(names))
	for _, name := range names {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte("resume body"), 0o644))
		paths = append(paths, path)
	}
	return paths
}

func profile(name, email string) *types.CandidateProfile {
	return &types.CandidateProfile{
		Name:     name,
		Email:    email,
		Summary:  name + " summary",
		FullText: name + " full text",
	}
}

func TestIngestDocumentsStoresUniqueCandidates(t *testing.T) {
	paths := writeDocs(t, []string{"a.txt", "b.txt", "c.txt"})
	extractor := &fakeExtractor{profiles: map[string]*types.CandidateProfile{
		"a.txt": profile("Ada", "ada@example.com"),
		"b.txt": profile("Brin", "brin@example.com"),
		"c.txt": profile("Cody", "cody@example.com"),
	}}
	candidates := store.NewMemory()

	result, err := IngestDocuments(context.Background(), paths, extractor, candidates, 2)
	require.NoError(t, err)

	assert.Equal(t, 3, result.Inserted)
	assert.Equal(t, 0, result.Duplicates)
	assert.Equal(t, 0, result.Failed)

	records, err := candidates.List(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 3)
}

func TestIngestDocumentsSkipsDuplicateEmails(t *testing.T) {
	paths := writeDocs(t, []string{"a.txt", "b.txt", "a_again.txt"})
	extractor := &fakeExtractor{profiles: map[string]*types.CandidateProfile{
		"a.txt":       profile("Ada", "ada@example.com"),
		"b.txt":       profile("Brin", "brin@example.com"),
		"a_again.txt": profile("Ada Resubmitted", "ada@example.com"),
	}}
	candidates := store.NewMemory()

	result, err := IngestDocuments(context.Background(), paths, extractor, candidates, 2)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Inserted)
	assert.Equal(t, 1, result.Duplicates)
	assert.Len(t, result.Profiles, 3)

	records, err := candidates.List(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)
	// First submission wins; the resubmission does not overwrite.
	assert.Equal(t, "Ada", records[0].Name)
}

func TestIngestDocumentsIsolatesFailures(t *testing.T) {
	paths := writeDocs(t, []string{"a.txt", "bad.txt", "c.txt", "d.txt", "e.txt"})
	extractor := &fakeExtractor{
		profiles: map[string]*types.CandidateProfile{
			"a.txt": profile("Ada", "ada@example.com"),
			"c.txt": profile("Cody", "cody@example.com"),
			"d.txt": profile("Dena", "dena@example.com"),
			"e.txt": profile("Elio", "elio@example.com"),
		},
		failures: map[string]error{
			"bad.txt": errors.New("model returned garbage"),
		},
	}
	candidates := store.NewMemory()

	result, err := IngestDocuments(context.Background(), paths, extractor, candidates, 3)
	require.NoError(t, err)

	assert.Equal(t, 4, result.Inserted)
	assert.Equal(t, 1, result.Failed)

	records, err := candidates.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, records, 4)
}

func TestIngestDocumentsCountsUnreadableFiles(t *testing.T) {
	paths := writeDocs(t, []string{"a.txt"})
	paths = append(paths, filepath.Join(t.TempDir(), "missing.txt"))
	extractor := &fakeExtractor{profiles: map[string]*types.CandidateProfile{
		"a.txt": profile("Ada", "ada@example.com"),
	}}
	candidates := store.NewMemory()

	result, err := IngestDocuments(context.Background(), paths, extractor, candidates, 2)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Inserted)
	assert.Equal(t, 1, result.Failed)
}

func TestIngestDocumentsInsertionOrderIsDocumentOrder(t *testing.T) {
	names := make([]string, 0, 8)
	profiles := map[string]*types.CandidateProfile{}
	for i := 0; i < 8; i++ {
		name := fmt.Sprintf("doc%d.txt", i)
		names = append(names, name)
		profiles[name] = profile(fmt.Sprintf("Candidate %d", i), fmt.Sprintf("c%d@example.com", i))
	}
	paths := writeDocs(t, names)
	extractor := &fakeExtractor{profiles: profiles}
	candidates := store.NewMemory()

	_, err := IngestDocuments(context.Background(), paths, extractor, candidates, 4)
	require.NoError(t, err)

	records, err := candidates.List(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 8)
	for i, rec := range records {
		assert.Equal(t, fmt.Sprintf("c%d@example.com", i), rec.Email)
	}
}

func TestIngestDocumentsHonorsCancellation(t *testing.T) {
	paths := writeDocs(t, []string{"a.txt"})
	extractor := &fakeExtractor{profiles: map[string]*types.CandidateProfile{
		"a.txt": profile("Ada", "ada@example.com"),
	}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := IngestDocuments(ctx, paths, extractor, store.NewMemory(), 2)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

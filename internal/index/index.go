// Package index ranks stored candidates against a draft by embedding
// similarity.
package index

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/jordanmv/recruitflow/internal/store"
)

// Embedder turns text into a dense vector. Satisfied by llm.Client.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

type entry struct {
	record store.CandidateRecord
	vector []float32
}

// Index holds candidate embeddings in insertion order. It is built once per
// ingestion round and queried read-only afterwards.
type Index struct {
	embedder Embedder
	entries  []entry
}

// Match pairs a candidate with its similarity to the query text.
type Match struct {
	Record store.CandidateRecord `json:"record"`
	Score  float64               `json:"score"`
}

// Build embeds each candidate's full text and assembles the index. Records
// keep their given order, which later breaks ranking ties deterministically.
// An empty record set yields an empty, queryable index.
func Build(ctx context.Context, embedder Embedder, records []store.CandidateRecord) (*Index, error) {
	idx := &Index{
		embedder: embedder,
		entries:  make([]entry, 0, len(records)),
	}
	for _, rec := range records {
		vec, err := embedder.Embed(ctx, rec.FullText)
		if err != nil {
			return nil, fmt.Errorf("failed to embed candidate %s: %w", rec.Email, err)
		}
		idx.entries = append(idx.entries, entry{record: rec, vector: vec})
	}
	return idx, nil
}

// Len returns the number of indexed candidates.
func (idx *Index) Len() int {
	return len(idx.entries)
}

// Query embeds the draft text and returns the top k candidates by cosine
// similarity, highest first. Ties keep insertion order. Querying an empty
// index returns an empty slice; k larger than the index returns everything.
func (idx *Index) Query(ctx context.Context, text string, k int) ([]Match, error) {
	if len(idx.entries) == 0 || k <= 0 {
		return []Match{}, nil
	}

	queryVec, err := idx.embedder.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	matches := make([]Match, 0, len(idx.entries))
	for _, e := range idx.entries {
		matches = append(matches, Match{
			Record: e.record,
			Score:  cosineSimilarity(queryVec, e.vector),
		})
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	if k > len(matches) {
		k = len(matches)
	}
	return matches[:k], nil
}

// cosineSimilarity computes the cosine of the angle between two vectors.
// Mismatched lengths and zero vectors score 0.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

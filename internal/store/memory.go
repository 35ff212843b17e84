package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jordanmv/recruitflow/internal/types"
)

// Memory is an in-process implementation of CandidateStore and OfferStore.
// It backs tests and database-less dry runs; ordering matches insertion
// order like the Postgres implementation.
type Memory struct {
	mu         sync.Mutex
	candidates []CandidateRecord
	byEmail    map[string]int
	offers     []OfferRecord
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{byEmail: make(map[string]int)}
}

// Reset clears all candidate records.
func (m *Memory) Reset(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.candidates = nil
	m.byEmail = make(map[string]int)
	return nil
}

// InsertIfAbsent stores a profile unless its email is already known.
func (m *Memory) InsertIfAbsent(_ context.Context, profile *types.CandidateProfile) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.byEmail[profile.Email]; exists {
		return false, nil
	}

	record := CandidateRecord{
		ID:        uuid.New(),
		Name:      profile.Name,
		Phone:     profile.Phone,
		Email:     profile.Email,
		Summary:   profile.Summary,
		FullText:  profile.FullText,
		CreatedAt: time.Now().UTC(),
	}
	m.byEmail[profile.Email] = len(m.candidates)
	m.candidates = append(m.candidates, record)
	return true, nil
}

// List returns all records in insertion order.
func (m *Memory) List(_ context.Context) ([]CandidateRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]CandidateRecord, len(m.candidates))
	copy(out, m.candidates)
	return out, nil
}

// CreateOffer creates an offer row in pending state.
func (m *Memory) CreateOffer(_ context.Context, record *OfferRecord) (uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec := *record
	rec.ID = uuid.New()
	rec.Status = OfferPending
	rec.CreatedAt = time.Now().UTC()
	m.offers = append(m.offers, rec)
	return rec.ID, nil
}

// MarkOfferSent transitions an offer from pending to sent.
func (m *Memory) MarkOfferSent(_ context.Context, id uuid.UUID) error {
	return m.transition(id, OfferSent)
}

// MarkOfferFailed transitions an offer from pending to failed.
func (m *Memory) MarkOfferFailed(_ context.Context, id uuid.UUID) error {
	return m.transition(id, OfferFailed)
}

func (m *Memory) transition(id uuid.UUID, status OfferStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.offers {
		if m.offers[i].ID != id {
			continue
		}
		if m.offers[i].Status != OfferPending {
			return fmt.Errorf("offer %s is %s, cannot move to %s", id, m.offers[i].Status, status)
		}
		m.offers[i].Status = status
		if status == OfferSent {
			now := time.Now().UTC()
			m.offers[i].SentAt = &now
		}
		return nil
	}
	return fmt.Errorf("offer not found: %s", id)
}

// ListOffers returns recent offers, newest first.
func (m *Memory) ListOffers(_ context.Context, limit int) ([]OfferRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if limit <= 0 || limit > len(m.offers) {
		limit = len(m.offers)
	}
	out := make([]OfferRecord, 0, limit)
	for i := len(m.offers) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.offers[i])
	}
	return out, nil
}

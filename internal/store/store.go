// Package store provides persistent storage for candidate and offer records.
// Candidates and offers are the only state that must survive restarts; run
// counters and draft histories stay in memory with the run that owns them.
package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jordanmv/recruitflow/internal/types"
)

// CandidateRecord is one stored applicant. Email is the unique key: a second
// document with a known email is skipped, never merged or overwritten.
type CandidateRecord struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone,omitempty"`
	Email     string    `json:"email"`
	Summary   string    `json:"summary"`
	FullText  string    `json:"full_text"`
	CreatedAt time.Time `json:"created_at"`
}

// Ref returns the contact reference for a record.
func (r *CandidateRecord) Ref() types.CandidateRef {
	return types.CandidateRef{Name: r.Name, Email: r.Email, Phone: r.Phone}
}

// CandidateStore is the deduplicated applicant store for a collection round.
type CandidateStore interface {
	// Reset clears all records so a new collection round starts clean.
	Reset(ctx context.Context) error
	// InsertIfAbsent stores a profile unless its email is already known.
	// It reports whether a new record was created.
	InsertIfAbsent(ctx context.Context, profile *types.CandidateProfile) (bool, error)
	// List returns all records in insertion order.
	List(ctx context.Context) ([]CandidateRecord, error)
}

// OfferStatus tracks an offer through dispatch.
type OfferStatus string

// Offer statuses. Transitions are pending -> sent or pending -> failed,
// never backwards.
const (
	OfferPending OfferStatus = "pending"
	OfferSent    OfferStatus = "sent"
	OfferFailed  OfferStatus = "failed"
)

// OfferRecord is one offer letter for one candidate in one batch.
type OfferRecord struct {
	ID             uuid.UUID   `json:"id"`
	CandidateName  string      `json:"candidate_name"`
	CandidateEmail string      `json:"candidate_email"`
	Role           string      `json:"role"`
	Salary         string      `json:"salary"`
	OfferText      string      `json:"offer_text"`
	Status         OfferStatus `json:"status"`
	SentAt         *time.Time  `json:"sent_at,omitempty"`
	CreatedAt      time.Time   `json:"created_at"`
}

// OfferStore records offer letters and their dispatch outcomes.
type OfferStore interface {
	CreateOffer(ctx context.Context, record *OfferRecord) (uuid.UUID, error)
	MarkOfferSent(ctx context.Context, id uuid.UUID) error
	MarkOfferFailed(ctx context.Context, id uuid.UUID) error
	ListOffers(ctx context.Context, limit int) ([]OfferRecord, error)
}

package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jordanmv/recruitflow/internal/types"
)

// Postgres implements CandidateStore and OfferStore on a pgx connection pool.
// It also keeps a run-history table so finished runs can be inspected later.
type Postgres struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Postgres{pool: pool}, nil
}

// Close closes the connection pool
func (db *Postgres) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// Reset clears the candidate table at the start of a collection round.
// Stale applicants from a previous posting must not leak into a new one.
func (db *Postgres) Reset(ctx context.Context) error {
	if _, err := db.pool.Exec(ctx, `DELETE FROM candidates`); err != nil {
		return fmt.Errorf("failed to reset candidate store: %w", err)
	}
	return nil
}

// InsertIfAbsent stores a candidate unless the email already exists.
func (db *Postgres) InsertIfAbsent(ctx context.Context, profile *types.CandidateProfile) (bool, error) {
	tag, err := db.pool.Exec(ctx,
		`INSERT INTO candidates (name, phone, email, summary, full_text)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (email) DO NOTHING`,
		profile.Name, profile.Phone, profile.Email, profile.Summary, profile.FullText,
	)
	if err != nil {
		return false, fmt.Errorf("failed to insert candidate %s: %w", profile.Email, err)
	}
	return tag.RowsAffected() > 0, nil
}

// List returns all candidates in insertion order.
func (db *Postgres) List(ctx context.Context) ([]CandidateRecord, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, name, COALESCE(phone, ''), email, summary, full_text, created_at
		 FROM candidates ORDER BY created_at ASC, id ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list candidates: %w", err)
	}
	defer rows.Close()

	var records []CandidateRecord
	for rows.Next() {
		var rec CandidateRecord
		if err := rows.Scan(&rec.ID, &rec.Name, &rec.Phone, &rec.Email, &rec.Summary, &rec.FullText, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan candidate: %w", err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// CreateOffer creates an offer row in pending state and returns its ID.
func (db *Postgres) CreateOffer(ctx context.Context, record *OfferRecord) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO offers (candidate_name, candidate_email, role, salary, offer_text, status)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id`,
		record.CandidateName, record.CandidateEmail, record.Role, record.Salary, record.OfferText, OfferPending,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create offer for %s: %w", record.CandidateEmail, err)
	}
	return id, nil
}

// MarkOfferSent transitions an offer from pending to sent.
func (db *Postgres) MarkOfferSent(ctx context.Context, id uuid.UUID) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE offers SET status = $1, sent_at = NOW() WHERE id = $2 AND status = $3`,
		OfferSent, id, OfferPending,
	)
	if err != nil {
		return fmt.Errorf("failed to mark offer %s sent: %w", id, err)
	}
	return nil
}

// MarkOfferFailed transitions an offer from pending to failed.
func (db *Postgres) MarkOfferFailed(ctx context.Context, id uuid.UUID) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE offers SET status = $1 WHERE id = $2 AND status = $3`,
		OfferFailed, id, OfferPending,
	)
	if err != nil {
		return fmt.Errorf("failed to mark offer %s failed: %w", id, err)
	}
	return nil
}

// ListOffers returns recent offers, newest first.
func (db *Postgres) ListOffers(ctx context.Context, limit int) ([]OfferRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.pool.Query(ctx,
		`SELECT id, candidate_name, candidate_email, role, salary, offer_text, status, sent_at, created_at
		 FROM offers ORDER BY created_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list offers: %w", err)
	}
	defer rows.Close()

	var records []OfferRecord
	for rows.Next() {
		var rec OfferRecord
		if err := rows.Scan(&rec.ID, &rec.CandidateName, &rec.CandidateEmail, &rec.Role, &rec.Salary, &rec.OfferText, &rec.Status, &rec.SentAt, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan offer: %w", err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// CreateRun creates a new workflow run record and returns its ID
func (db *Postgres) CreateRun(ctx context.Context, topic string) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO workflow_runs (topic, status)
		 VALUES ($1, 'running')
		 RETURNING id`,
		topic,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create run: %w", err)
	}
	return id, nil
}

// CompleteRun marks a workflow run as finished with a terminal status
func (db *Postgres) CompleteRun(ctx context.Context, runID uuid.UUID, status string) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE workflow_runs SET status = $1, completed_at = NOW() WHERE id = $2`,
		status, runID,
	)
	if err != nil {
		return fmt.Errorf("failed to complete run: %w", err)
	}
	return nil
}

// SaveArtifact stores a JSON artifact for a workflow run
func (db *Postgres) SaveArtifact(ctx context.Context, runID uuid.UUID, step, category string, content any) error {
	jsonBytes, err := json.Marshal(content)
	if err != nil {
		return fmt.Errorf("failed to marshal artifact: %w", err)
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO run_artifacts (run_id, step, category, content)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (run_id, step) DO UPDATE SET category = $3, content = $4, created_at = NOW()`,
		runID, step, category, jsonBytes,
	)
	if err != nil {
		return fmt.Errorf("failed to save artifact %s: %w", step, err)
	}
	return nil
}

// GetArtifact retrieves a JSON artifact by run ID and step
func (db *Postgres) GetArtifact(ctx context.Context, runID uuid.UUID, step string) ([]byte, error) {
	var content []byte
	err := db.pool.QueryRow(ctx,
		`SELECT content FROM run_artifacts WHERE run_id = $1 AND step = $2`,
		runID, step,
	).Scan(&content)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get artifact %s: %w", step, err)
	}
	return content, nil
}

// ArtifactStep constants for known artifact types
const (
	StepDraft              = "draft"
	StepDraftHistory       = "draft_history"
	StepFeedbackHistory    = "feedback_history"
	StepCollection         = "collection"
	StepIngestion          = "ingestion"
	StepSelectedCandidates = "selected_candidates"
	StepNotification       = "notification"
)

// Artifact categories mirror the pipeline stages
const (
	CategoryDrafting     = "drafting"
	CategoryCollection   = "collection"
	CategorySelection    = "selection"
	CategoryNotification = "notification"
)

package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/jordanmv/recruitflow/internal/pipeline"
	"github.com/jordanmv/recruitflow/internal/store"
	"github.com/jordanmv/recruitflow/internal/types"
)

// RunRequest represents the request body for POST /runs
type RunRequest struct {
	Topic           string `json:"topic" validate:"required"`
	ApplyURL        string `json:"apply_url,omitempty" validate:"omitempty,url"`
	MaxIterations   int    `json:"max_iterations,omitempty" validate:"omitempty,min=0"`
	MinDocuments    int    `json:"min_documents,omitempty" validate:"omitempty,min=0"`
	MaxRetries      int    `json:"max_retries,omitempty" validate:"omitempty,min=0"`
	WaitSeconds     int    `json:"wait_seconds,omitempty" validate:"omitempty,min=0"`
	CandidateTarget int    `json:"candidate_target,omitempty" validate:"omitempty,min=1"`
	InterviewDate   string `json:"interview_date" validate:"required,datetime=2006-01-02"`
	InterviewTime   string `json:"interview_time" validate:"required,datetime=15:04"`
	SlotMinutes     int    `json:"slot_minutes,omitempty" validate:"omitempty,min=1"`
}

// OfferCandidate identifies one offer recipient.
type OfferCandidate struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
}

// OfferRequest represents the request body for POST /offers
type OfferRequest struct {
	Candidates []OfferCandidate `json:"candidates" validate:"required,min=1,dive"`
	Role       string           `json:"role" validate:"required"`
	Salary     string           `json:"salary" validate:"required"`
	Company    string           `json:"company,omitempty"`
}

// buildRunOptions merges the request with server defaults and resolves the
// interview start time.
func (s *Server) buildRunOptions(req *RunRequest) (pipeline.RunOptions, error) {
	opts := pipeline.RunOptions{
		Topic:           req.Topic,
		ApplyURL:        req.ApplyURL,
		MaxIterations:   req.MaxIterations,
		MinDocuments:    req.MinDocuments,
		MaxRetries:      req.MaxRetries,
		CandidateTarget: req.CandidateTarget,
	}
	if opts.ApplyURL == "" {
		opts.ApplyURL = s.defaults.ApplyURL
	}
	if opts.MaxIterations == 0 {
		opts.MaxIterations = s.defaults.MaxIterations
	}
	if opts.MinDocuments == 0 {
		opts.MinDocuments = s.defaults.MinDocuments
	}
	if opts.MaxRetries == 0 {
		opts.MaxRetries = s.defaults.MaxRetries
	}
	if opts.CandidateTarget == 0 {
		opts.CandidateTarget = s.defaults.CandidateTarget
	}

	waitSeconds := req.WaitSeconds
	if waitSeconds == 0 {
		waitSeconds = s.defaults.WaitSeconds
	}
	opts.Wait = time.Duration(waitSeconds) * time.Second

	slotMinutes := req.SlotMinutes
	if slotMinutes == 0 {
		slotMinutes = s.defaults.SlotMinutes
	}
	if slotMinutes == 0 {
		slotMinutes = 30
	}
	opts.SlotDuration = time.Duration(slotMinutes) * time.Minute

	start, err := time.Parse("2006-01-02 15:04", req.InterviewDate+" "+req.InterviewTime)
	if err != nil {
		return opts, &ErrValidation{Field: "interview_date", Message: "invalid date or time"}
	}
	opts.InterviewStart = start

	return opts, nil
}

// handleCreateRun starts a recruitment round and blocks until it finishes.
// A round already in flight yields 409 rather than queueing.
func (s *Server) handleCreateRun(w http.ResponseWriter, r *http.Request) {
	var req RunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := s.validator.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	opts, err := s.buildRunOptions(&req)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	result, err := s.controller.Run(r.Context(), opts)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, result)
}

// handleCreateRunStream starts a recruitment round and streams progress as
// Server-Sent Events.
func (s *Server) handleCreateRunStream(w http.ResponseWriter, r *http.Request) {
	var req RunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := s.validator.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	opts, err := s.buildRunOptions(&req)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	stream, err := newRunStream(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	opts.OnProgress = stream.progress

	result, err := s.controller.Run(r.Context(), opts)
	if err != nil {
		stream.fail(err.Error())
		return
	}
	stream.complete(result)
}

// artifactSteps are the step names a run can have artifacts stored under.
var artifactSteps = map[string]bool{
	store.StepDraft:              true,
	store.StepDraftHistory:       true,
	store.StepFeedbackHistory:    true,
	store.StepCollection:         true,
	store.StepIngestion:          true,
	store.StepSelectedCandidates: true,
	store.StepNotification:       true,
}

// handleGetRunArtifact returns one stored artifact of a finished run.
func (s *Server) handleGetRunArtifact(w http.ResponseWriter, r *http.Request) {
	if s.runs == nil {
		s.errorResponse(w, http.StatusServiceUnavailable, "run history is not configured")
		return
	}

	runID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid run id")
		return
	}
	step := r.PathValue("step")
	if !artifactSteps[step] {
		s.errorResponse(w, http.StatusBadRequest, "unknown artifact step: "+step)
		return
	}

	content, err := s.runs.GetArtifact(r.Context(), runID, step)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, fmt.Sprintf("failed to load artifact: %v", err))
		return
	}
	if content == nil {
		s.errorResponse(w, http.StatusNotFound, "artifact not found")
		return
	}
	s.jsonResponse(w, http.StatusOK, json.RawMessage(content))
}

// handleCreateOffers records and dispatches offer letters.
func (s *Server) handleCreateOffers(w http.ResponseWriter, r *http.Request) {
	if s.offers == nil || s.mailer == nil {
		s.errorResponse(w, http.StatusServiceUnavailable, "offer dispatch is not configured")
		return
	}

	var req OfferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := s.validator.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	refs := make([]types.CandidateRef, 0, len(req.Candidates))
	for _, c := range req.Candidates {
		refs = append(refs, types.CandidateRef{Name: c.Name, Email: c.Email})
	}
	company := req.Company
	if company == "" {
		company = s.defaults.Company
	}

	report, err := pipeline.RunOffers(r.Context(), pipeline.OfferDeps{
		Mailer: s.mailer,
		Offers: s.offers,
	}, pipeline.OfferOptions{
		Candidates: refs,
		Role:       req.Role,
		Salary:     req.Salary,
		Company:    company,
	})
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, report)
}

// handleListCandidates returns the current candidate roster.
func (s *Server) handleListCandidates(w http.ResponseWriter, r *http.Request) {
	records, err := s.candidates.List(r.Context())
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, fmt.Sprintf("failed to list candidates: %v", err))
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"count":      len(records),
		"candidates": records,
	})
}

// handleListOffers returns recent offers, newest first.
func (s *Server) handleListOffers(w http.ResponseWriter, r *http.Request) {
	if s.offers == nil {
		s.errorResponse(w, http.StatusServiceUnavailable, "offer store is not configured")
		return
	}

	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			s.errorResponse(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	records, err := s.offers.ListOffers(r.Context(), limit)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, fmt.Sprintf("failed to list offers: %v", err))
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"count":  len(records),
		"offers": records,
	})
}

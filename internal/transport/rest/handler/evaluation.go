package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"

	"conceptlab/internal/cache"
	"conceptlab/internal/model"

	"github.com/gorilla/mux"
)

// Evaluator runs the deterministic scoring path
type Evaluator interface {
	Evaluate(ctx context.Context, conceptID string, personaIDs []string) (*model.ConceptInsights, error)
	GetInsights(ctx context.Context, conceptID string) (*model.ConceptInsights, error)
	Ranking(ctx context.Context, limit int) ([]cache.RankingEntry, error)
}

// PanelRequest selects personas for an evaluation or run. Empty means the whole panel.
type PanelRequest struct {
	PersonaIDs []string `json:"personaIds"`
}

// EvaluationHandler handles scoring and insights endpoints
type EvaluationHandler struct {
	evaluator Evaluator
}

// NewEvaluationHandler creates a new evaluation handler
func NewEvaluationHandler(evaluator Evaluator) *EvaluationHandler {
	return &EvaluationHandler{evaluator: evaluator}
}

// Evaluate handles POST /v1/concepts/{conceptId}/evaluations
func (h *EvaluationHandler) Evaluate(w http.ResponseWriter, r *http.Request) {
	req, ok := readPanel(w, r)
	if !ok {
		return
	}

	result, err := h.evaluator.Evaluate(r.Context(), mux.Vars(r)["conceptId"], req.PersonaIDs)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// GetInsights handles GET /v1/concepts/{conceptId}/insights
func (h *EvaluationHandler) GetInsights(w http.ResponseWriter, r *http.Request) {
	result, err := h.evaluator.GetInsights(r.Context(), mux.Vars(r)["conceptId"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Ranking handles GET /v1/ranking?limit=
func (h *EvaluationHandler) Ranking(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	entries, err := h.evaluator.Ranking(r.Context(), limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if entries == nil {
		entries = []cache.RankingEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

// readPanel decodes an optional panel selection; an empty body selects everyone
func readPanel(w http.ResponseWriter, r *http.Request) (PanelRequest, bool) {
	var req PanelRequest
	if err := decodeBody(r, &req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return req, false
	}
	return req, true
}

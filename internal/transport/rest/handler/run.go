package handler

import (
	"context"
	"net/http"

	"conceptlab/internal/export"
	"conceptlab/internal/logging"
	"conceptlab/internal/model"
	"conceptlab/internal/transport/rest/middleware"

	"github.com/gorilla/mux"
)

// Runner starts two-phase runs and serves their state
type Runner interface {
	StartRun(ctx context.Context, conceptID string, personaIDs []string, analystID string) (*model.Run, error)
	GetRun(ctx context.Context, runID string) (*model.Run, error)
	ListRuns(ctx context.Context, conceptID string) ([]model.Run, error)
	GetProgress(ctx context.Context, runID string) (*model.ProgressState, error)
	GetReport(ctx context.Context, runID string) (*model.ConsolidatedReport, error)
	GetTranscripts(ctx context.Context, runID string) ([]model.InterviewTranscript, error)
}

// StreamTokenIssuer signs run-scoped WebSocket tokens
type StreamTokenIssuer interface {
	GenerateRunToken(runID, analystID string) (string, error)
}

// RunResponse is returned when a run is accepted
type RunResponse struct {
	RunID       string          `json:"runId"`
	Status      model.RunStatus `json:"status"`
	StreamToken string          `json:"streamToken"`
}

// RunHandler handles two-phase run endpoints
type RunHandler struct {
	runs   Runner
	tokens StreamTokenIssuer
}

// NewRunHandler creates a new run handler
func NewRunHandler(runs Runner, tokens StreamTokenIssuer) *RunHandler {
	return &RunHandler{runs: runs, tokens: tokens}
}

// Start handles POST /v1/concepts/{conceptId}/runs
func (h *RunHandler) Start(w http.ResponseWriter, r *http.Request) {
	req, ok := readPanel(w, r)
	if !ok {
		return
	}
	analystID := middleware.GetAnalystID(r.Context())

	run, err := h.runs.StartRun(r.Context(), mux.Vars(r)["conceptId"], req.PersonaIDs, analystID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	token, err := h.tokens.GenerateRunToken(run.ID, analystID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusAccepted, RunResponse{RunID: run.ID, Status: run.Status, StreamToken: token})
}

// List handles GET /v1/concepts/{conceptId}/runs
func (h *RunHandler) List(w http.ResponseWriter, r *http.Request) {
	runs, err := h.runs.ListRuns(r.Context(), mux.Vars(r)["conceptId"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if runs == nil {
		runs = []model.Run{}
	}
	writeJSON(w, http.StatusOK, runs)
}

// Get handles GET /v1/runs/{runId}
func (h *RunHandler) Get(w http.ResponseWriter, r *http.Request) {
	run, err := h.runs.GetRun(r.Context(), mux.Vars(r)["runId"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, run)
}

// Progress handles GET /v1/runs/{runId}/progress
func (h *RunHandler) Progress(w http.ResponseWriter, r *http.Request) {
	state, err := h.runs.GetProgress(r.Context(), mux.Vars(r)["runId"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

// Report handles GET /v1/runs/{runId}/report?format=json|text
func (h *RunHandler) Report(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format != "" && format != "json" && format != "text" {
		writeError(w, http.StatusBadRequest, "format must be json or text")
		return
	}

	report, err := h.runs.GetReport(r.Context(), mux.Vars(r)["runId"])
	if err != nil {
		writeServiceError(w, err)
		return
	}

	if format == "text" {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		if err := export.WriteText(w, report); err != nil {
			logging.For("http").WithField(logging.FieldRunID, report.RunID).WithError(err).Warn("text report not written")
		}
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// Transcripts handles GET /v1/runs/{runId}/transcripts
func (h *RunHandler) Transcripts(w http.ResponseWriter, r *http.Request) {
	transcripts, err := h.runs.GetTranscripts(r.Context(), mux.Vars(r)["runId"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, transcripts)
}

package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"conceptlab/internal/cache"
	"conceptlab/internal/model"
	"conceptlab/internal/service"
	"conceptlab/internal/transport/rest/middleware"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCatalog struct {
	personas []model.Persona
	concepts map[string]*model.Concept
	err      error
}

func (s *stubCatalog) UpsertPersonas(ctx context.Context, personas []model.Persona) (int, error) {
	if s.err != nil {
		return 0, s.err
	}
	s.personas = append(s.personas, personas...)
	return len(personas), nil
}

func (s *stubCatalog) ListPersonas(ctx context.Context) ([]model.Persona, error) {
	return s.personas, s.err
}

func (s *stubCatalog) UpsertConcept(ctx context.Context, concept *model.Concept) (*model.Concept, error) {
	if err := concept.Validate(); err != nil {
		return nil, err
	}
	concept.Version++
	return concept, nil
}

func (s *stubCatalog) ListConcepts(ctx context.Context) ([]model.Concept, error) {
	return nil, s.err
}

func (s *stubCatalog) GetConcept(ctx context.Context, id string) (*model.Concept, error) {
	c, ok := s.concepts[id]
	if !ok {
		return nil, service.ErrNotFound
	}
	return c, nil
}

type stubEvaluator struct {
	gotPanel []string
	limit    int
}

func (s *stubEvaluator) Evaluate(ctx context.Context, conceptID string, personaIDs []string) (*model.ConceptInsights, error) {
	s.gotPanel = personaIDs
	if conceptID != "concept-001" {
		return nil, service.ErrNotFound
	}
	return &model.ConceptInsights{ConceptID: conceptID, SampleSize: 3}, nil
}

func (s *stubEvaluator) GetInsights(ctx context.Context, conceptID string) (*model.ConceptInsights, error) {
	return nil, service.ErrNotFound
}

func (s *stubEvaluator) Ranking(ctx context.Context, limit int) ([]cache.RankingEntry, error) {
	s.limit = limit
	return []cache.RankingEntry{{ConceptID: "concept-001", Score: 7.4, Rank: 1}}, nil
}

type stubRunner struct {
	analystID string
	report    *model.ConsolidatedReport
	reportErr error
}

func (s *stubRunner) StartRun(ctx context.Context, conceptID string, personaIDs []string, analystID string) (*model.Run, error) {
	s.analystID = analystID
	if conceptID == "bad" {
		return nil, &model.ValidationError{Field: "description", Reason: "is required"}
	}
	return &model.Run{ID: "run-1", ConceptID: conceptID, Status: model.RunStatusPending}, nil
}

func (s *stubRunner) GetRun(ctx context.Context, runID string) (*model.Run, error) {
	if runID != "run-1" {
		return nil, service.ErrNotFound
	}
	return &model.Run{ID: runID, Status: model.RunStatusInterviewing}, nil
}

func (s *stubRunner) ListRuns(ctx context.Context, conceptID string) ([]model.Run, error) {
	return nil, nil
}

func (s *stubRunner) GetProgress(ctx context.Context, runID string) (*model.ProgressState, error) {
	return &model.ProgressState{RunID: runID, Phase: model.PhaseInterviews, Step: 2, Total: 5}, nil
}

func (s *stubRunner) GetReport(ctx context.Context, runID string) (*model.ConsolidatedReport, error) {
	return s.report, s.reportErr
}

func (s *stubRunner) GetTranscripts(ctx context.Context, runID string) ([]model.InterviewTranscript, error) {
	return nil, fmt.Errorf("mongo down")
}

type stubTokens struct{}

func (stubTokens) GenerateRunToken(runID, analystID string) (string, error) {
	return "stream-" + runID, nil
}

type stubAuth struct{}

func (stubAuth) Login(username, password string) (*model.LoginResponse, error) {
	if password != "secret" {
		return nil, service.ErrInvalidCredentials
	}
	return &model.LoginResponse{Token: "jwt", AnalystID: "analyst_1"}, nil
}

func do(t *testing.T, path, pattern, method, body string, h http.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()
	r := mux.NewRouter()
	r.HandleFunc(pattern, h).Methods(method)

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	req = req.WithContext(context.WithValue(req.Context(), middleware.AnalystIDKey, "analyst_1"))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func errorOf(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body["error"]
}

func TestLogin(t *testing.T) {
	h := NewAuthHandler(stubAuth{})

	rec := do(t, "/v1/auth/login", "/v1/auth/login", http.MethodPost, `{"username":"analyst","password":"secret"}`, h.Login)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"token":"jwt","analystId":"analyst_1"}`, rec.Body.String())

	rec = do(t, "/v1/auth/login", "/v1/auth/login", http.MethodPost, `{"username":"analyst","password":"nope"}`, h.Login)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, "/v1/auth/login", "/v1/auth/login", http.MethodPost, `{`, h.Login)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCatalogEndpoints(t *testing.T) {
	catalog := &stubCatalog{concepts: map[string]*model.Concept{
		"concept-001": {ID: "concept-001", Name: "Argan Night Repair", Description: "Overnight repair"},
	}}
	h := NewCatalogHandler(catalog)

	t.Run("upsert personas", func(t *testing.T) {
		rec := do(t, "/v1/personas", "/v1/personas", http.MethodPost, `[{"id":"p1","name":"Ana"},{"id":"p2","name":"Beatriz"}]`, h.UpsertPersonas)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"upserted":2}`, rec.Body.String())
	})

	t.Run("unknown fields rejected", func(t *testing.T) {
		rec := do(t, "/v1/personas", "/v1/personas", http.MethodPost, `[{"id":"p1","nombre":"Ana"}]`, h.UpsertPersonas)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("invalid concept", func(t *testing.T) {
		rec := do(t, "/v1/concepts", "/v1/concepts", http.MethodPost, `{"id":"c1","name":"No description"}`, h.UpsertConcept)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, errorOf(t, rec), "description")
	})

	t.Run("get concept", func(t *testing.T) {
		rec := do(t, "/v1/concepts/concept-001", "/v1/concepts/{conceptId}", http.MethodGet, "", h.GetConcept)
		require.Equal(t, http.StatusOK, rec.Code)
		var got model.Concept
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, "Argan Night Repair", got.Name)

		rec = do(t, "/v1/concepts/missing", "/v1/concepts/{conceptId}", http.MethodGet, "", h.GetConcept)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("empty list is an array", func(t *testing.T) {
		rec := do(t, "/v1/concepts", "/v1/concepts", http.MethodGet, "", h.ListConcepts)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `[]`, rec.Body.String())
	})
}

func TestEvaluationEndpoints(t *testing.T) {
	eval := &stubEvaluator{}
	h := NewEvaluationHandler(eval)

	rec := do(t, "/v1/concepts/concept-001/evaluations", "/v1/concepts/{conceptId}/evaluations", http.MethodPost, "", h.Evaluate)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, eval.gotPanel)

	rec = do(t, "/v1/concepts/concept-001/evaluations", "/v1/concepts/{conceptId}/evaluations", http.MethodPost, `{"personaIds":["p1","p2"]}`, h.Evaluate)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"p1", "p2"}, eval.gotPanel)

	rec = do(t, "/v1/concepts/x/evaluations", "/v1/concepts/{conceptId}/evaluations", http.MethodPost, "", h.Evaluate)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, "/v1/concepts/x/insights", "/v1/concepts/{conceptId}/insights", http.MethodGet, "", h.GetInsights)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, "/v1/ranking?limit=5", "/v1/ranking", http.MethodGet, "", h.Ranking)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 5, eval.limit)

	rec = do(t, "/v1/ranking?limit=abc", "/v1/ranking", http.MethodGet, "", h.Ranking)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRunEndpoints(t *testing.T) {
	report := &model.ConsolidatedReport{
		RunID:       "run-1",
		ConceptName: "Argan Night Repair",
		Source:      model.SourceGenerated,
		Decision:    model.Decision{Recommendation: model.RecommendationGo, Confidence: 80, Reasoning: "ok"},
		GeneratedAt: time.Date(2024, 5, 3, 0, 0, 0, 0, time.UTC),
	}
	runner := &stubRunner{report: report}
	h := NewRunHandler(runner, stubTokens{})

	t.Run("start is accepted", func(t *testing.T) {
		rec := do(t, "/v1/concepts/concept-001/runs", "/v1/concepts/{conceptId}/runs", http.MethodPost, `{"personaIds":["p1"]}`, h.Start)
		require.Equal(t, http.StatusAccepted, rec.Code)
		assert.JSONEq(t, `{"runId":"run-1","status":"pending","streamToken":"stream-run-1"}`, rec.Body.String())
		assert.Equal(t, "analyst_1", runner.analystID)
	})

	t.Run("invalid concept is a bad request", func(t *testing.T) {
		rec := do(t, "/v1/concepts/bad/runs", "/v1/concepts/{conceptId}/runs", http.MethodPost, "", h.Start)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("get run", func(t *testing.T) {
		rec := do(t, "/v1/runs/run-1", "/v1/runs/{runId}", http.MethodGet, "", h.Get)
		assert.Equal(t, http.StatusOK, rec.Code)
		rec = do(t, "/v1/runs/run-9", "/v1/runs/{runId}", http.MethodGet, "", h.Get)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("progress", func(t *testing.T) {
		rec := do(t, "/v1/runs/run-1/progress", "/v1/runs/{runId}/progress", http.MethodGet, "", h.Progress)
		require.Equal(t, http.StatusOK, rec.Code)
		var state model.ProgressState
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &state))
		assert.Equal(t, 2, state.Step)
	})

	t.Run("report formats", func(t *testing.T) {
		rec := do(t, "/v1/runs/run-1/report", "/v1/runs/{runId}/report", http.MethodGet, "", h.Report)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

		rec = do(t, "/v1/runs/run-1/report?format=text", "/v1/runs/{runId}/report", http.MethodGet, "", h.Report)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Header().Get("Content-Type"), "text/plain")
		assert.Contains(t, rec.Body.String(), "RECOMMENDATION: GO")

		rec = do(t, "/v1/runs/run-1/report?format=pdf", "/v1/runs/{runId}/report", http.MethodGet, "", h.Report)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("report not ready", func(t *testing.T) {
		runner.report, runner.reportErr = nil, service.ErrRunNotReady
		defer func() { runner.report, runner.reportErr = report, nil }()

		rec := do(t, "/v1/runs/run-1/report", "/v1/runs/{runId}/report", http.MethodGet, "", h.Report)
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("storage errors stay internal", func(t *testing.T) {
		rec := do(t, "/v1/runs/run-1/transcripts", "/v1/runs/{runId}/transcripts", http.MethodGet, "", h.Transcripts)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "internal error", errorOf(t, rec))
	})

	t.Run("empty run list is an array", func(t *testing.T) {
		rec := do(t, "/v1/concepts/concept-001/runs", "/v1/concepts/{conceptId}/runs", http.MethodGet, "", h.List)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `[]`, rec.Body.String())
	})
}

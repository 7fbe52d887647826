package rest

import (
	"net/http"

	"conceptlab/internal/service"
	"conceptlab/internal/transport/rest/handler"
	"conceptlab/internal/transport/rest/middleware"
	"conceptlab/internal/transport/ws"

	"github.com/gorilla/mux"
)

// Container holds all dependencies for the router
type Container struct {
	AuthService       *service.AuthService
	CatalogService    *service.CatalogService
	EvaluationService *service.EvaluationService
	RunService        *service.RunService
	WSHub             *ws.Hub
	CORSOrigin        string
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	// Initialize handlers
	authHandler := handler.NewAuthHandler(c.AuthService)
	catalogHandler := handler.NewCatalogHandler(c.CatalogService)
	evaluationHandler := handler.NewEvaluationHandler(c.EvaluationService)
	runHandler := handler.NewRunHandler(c.RunService, c.AuthService)
	wsHandler := ws.NewHandler(c.WSHub, c.AuthService, c.RunService)

	// Initialize middleware
	authMW := middleware.NewAuthMiddleware(c.AuthService)

	// CORS middleware (apply first)
	r.Use(corsMiddleware(c.CORSOrigin))

	// API v1 routes
	v1 := r.PathPrefix("/v1").Subrouter()

	// Public routes
	v1.HandleFunc("/auth/login", authHandler.Login).Methods("POST", "OPTIONS")

	// WebSocket routes (public with token in query param)
	v1.HandleFunc("/ws/runs/{runId}", wsHandler.RunWS).Methods("GET")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Analyst routes
	api := v1.NewRoute().Subrouter()
	api.Use(authMW.RequireAnalyst)

	api.HandleFunc("/personas", catalogHandler.UpsertPersonas).Methods("POST", "OPTIONS")
	api.HandleFunc("/personas", catalogHandler.ListPersonas).Methods("GET", "OPTIONS")
	api.HandleFunc("/concepts", catalogHandler.UpsertConcept).Methods("POST", "OPTIONS")
	api.HandleFunc("/concepts", catalogHandler.ListConcepts).Methods("GET", "OPTIONS")
	api.HandleFunc("/concepts/{conceptId}", catalogHandler.GetConcept).Methods("GET", "OPTIONS")

	// Deterministic path
	api.HandleFunc("/concepts/{conceptId}/evaluations", evaluationHandler.Evaluate).Methods("POST", "OPTIONS")
	api.HandleFunc("/concepts/{conceptId}/insights", evaluationHandler.GetInsights).Methods("GET", "OPTIONS")
	api.HandleFunc("/ranking", evaluationHandler.Ranking).Methods("GET", "OPTIONS")

	// Interview path
	api.HandleFunc("/concepts/{conceptId}/runs", runHandler.Start).Methods("POST", "OPTIONS")
	api.HandleFunc("/concepts/{conceptId}/runs", runHandler.List).Methods("GET", "OPTIONS")
	api.HandleFunc("/runs/{runId}", runHandler.Get).Methods("GET", "OPTIONS")
	api.HandleFunc("/runs/{runId}/progress", runHandler.Progress).Methods("GET", "OPTIONS")
	api.HandleFunc("/runs/{runId}/report", runHandler.Report).Methods("GET", "OPTIONS")
	api.HandleFunc("/runs/{runId}/transcripts", runHandler.Transcripts).Methods("GET", "OPTIONS")

	return r
}

func corsMiddleware(origin string) mux.MiddlewareFunc {
	if origin == "" {
		origin = "*"
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

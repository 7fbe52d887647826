package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"conceptlab/internal/app"
	"conceptlab/internal/config"
	"conceptlab/internal/logging"
)

// @title Concept Lab API
// @version 1.0
// @description Concept evaluation with synthetic persona panels: deterministic scoring and two-phase interview runs
// @host localhost:8080
// @BasePath /v1
func main() {
	cfg := config.Load()
	logging.Setup(cfg.LogLevel, os.Stdout)
	log := logging.For("server")

	// Log model settings
	log.Infof("AI provider: %s", cfg.AI.Provider)
	log.Infof("  Interview:     %s", cfg.AI.Models.Interview)
	log.Infof("  Consolidation: %s", cfg.AI.Models.Consolidation)
	log.Infof("  Delay:         %s", cfg.AI.InterviewDelay())

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	a, err := app.New(ctx, cfg)
	cancel()
	if err != nil {
		log.WithError(err).Fatal("startup failed")
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           a.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Infof("Server starting on :%s", cfg.Port)
		log.Info("Endpoints:")
		log.Info("  POST /v1/auth/login")
		log.Info("  POST/GET /v1/personas")
		log.Info("  POST/GET /v1/concepts")
		log.Info("  POST /v1/concepts/{conceptId}/evaluations")
		log.Info("  GET  /v1/concepts/{conceptId}/insights")
		log.Info("  POST/GET /v1/concepts/{conceptId}/runs")
		log.Info("  GET  /v1/runs/{runId}[/progress|/report|/transcripts]")
		log.Info("  WS   /v1/ws/runs/{runId}")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("ListenAndServe")
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Server forced to shutdown")
	}
	if err := a.Close(shutdownCtx); err != nil {
		log.WithError(err).Error("cleanup incomplete")
	}

	log.Info("Server exited")
}

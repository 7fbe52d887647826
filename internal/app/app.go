// Package app wires storage, caches and services for the server and the CLI.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"conceptlab/internal/cache"
	"conceptlab/internal/config"
	"conceptlab/internal/llm"
	"conceptlab/internal/logging"
	"conceptlab/internal/repository"
	"conceptlab/internal/service"
	"conceptlab/internal/transport/rest"
	"conceptlab/internal/transport/ws"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// App holds the connected stores and every service of the API
type App struct {
	Config *config.Config
	Mongo  *mongo.Client
	Redis  *redis.Client
	LLM    llm.Client // nil runs simulated interviews and fallback reports
	Hub    *ws.Hub

	Auth          *service.AuthService
	Catalog       *service.CatalogService
	Evaluations   *service.EvaluationService
	Interviews    *service.InterviewService
	Consolidation *service.ConsolidationService
	Runs          *service.RunService
}

// ConnectMongo connects and pings MongoDB
func ConnectMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return client, nil
}

// ConnectRedis connects and pings Redis
func ConnectRedis(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return rdb, nil
}

// NewLLM builds the configured provider client. A provider without credentials
// yields a nil client, which the pipeline treats as offline mode.
func NewLLM(ctx context.Context, cfg *config.AIConfig) (llm.Client, error) {
	client, err := llm.New(ctx, cfg)
	if errors.Is(err, llm.ErrNotConfigured) {
		logging.For("app").Warnf("AI provider %s has no API key, using simulated interviews", cfg.Provider)
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return client, nil
}

// NewPipeline builds the two phase services around one client and reporter
func NewPipeline(client llm.Client, ai *config.AIConfig, reporter service.ProgressReporter) (*service.InterviewService, *service.ConsolidationService) {
	interviews := service.NewInterviewService(client, ai.InterviewDelay())
	interviews.SetReporter(reporter)
	consolidation := service.NewConsolidationService(client)
	consolidation.SetReporter(reporter)
	return interviews, consolidation
}

// New connects MongoDB, Redis and the AI provider and builds every service
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	log := logging.For("app")

	mongoClient, err := ConnectMongo(ctx, cfg.MongoURI)
	if err != nil {
		return nil, err
	}
	log.Info("Connected to MongoDB")

	rdb, err := ConnectRedis(ctx, cfg)
	if err != nil {
		mongoClient.Disconnect(ctx)
		return nil, err
	}
	log.Info("Connected to Redis")

	client, err := NewLLM(ctx, cfg.AI)
	if err != nil {
		rdb.Close()
		mongoClient.Disconnect(ctx)
		return nil, err
	}

	a := &App{Config: cfg, Mongo: mongoClient, Redis: rdb, LLM: client}
	db := mongoClient.Database(cfg.MongoDB)

	// Initialize repositories
	personaRepo := repository.NewPersonaRepo(db)
	conceptRepo := repository.NewConceptRepo(db)
	evaluationRepo := repository.NewEvaluationRepo(db)
	runRepo := repository.NewRunRepo(db)
	reportRepo := repository.NewReportRepo(db)

	// Initialize caches
	insightsCache := cache.NewInsightsCache(rdb, cfg.InsightsTTL)
	rankingCache := cache.NewRankingCache(rdb)
	progressCache := cache.NewProgressCache(rdb, cfg.ProgressTTL)

	// Initialize WebSocket hub
	a.Hub = ws.NewHub()

	// Progress goes to subscribers and to the polling snapshot
	reporter := service.MultiReporter{
		service.BroadcastReporter{Broadcaster: a.Hub},
		service.CacheReporter{Cache: progressCache},
	}

	// Initialize services
	a.Auth = service.NewAuthService(cfg.AnalystUsername, cfg.AnalystPassword, cfg.JWTSecret)
	a.Catalog = service.NewCatalogService(personaRepo, conceptRepo)
	a.Evaluations = service.NewEvaluationService(a.Catalog, evaluationRepo, insightsCache, rankingCache)
	a.Interviews, a.Consolidation = NewPipeline(client, cfg.AI, reporter)
	a.Runs = service.NewRunService(a.Catalog, runRepo, reportRepo, progressCache, a.Interviews, a.Consolidation)

	// Inject broadcaster (wsHub implements service.Broadcaster)
	a.Runs.SetBroadcaster(a.Hub)

	return a, nil
}

// Router returns the HTTP API
func (a *App) Router() http.Handler {
	return rest.NewRouter(&rest.Container{
		AuthService:       a.Auth,
		CatalogService:    a.Catalog,
		EvaluationService: a.Evaluations,
		RunService:        a.Runs,
		WSHub:             a.Hub,
		CORSOrigin:        a.Config.CORSOrigin,
	})
}

// Close waits for in-flight runs, then releases the provider and both stores
func (a *App) Close(ctx context.Context) error {
	var errs []error
	if err := a.Runs.Shutdown(ctx); err != nil {
		errs = append(errs, err)
	}
	if c, ok := a.LLM.(io.Closer); ok {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := a.Redis.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := a.Mongo.Disconnect(ctx); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

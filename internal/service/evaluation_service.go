package service

import (
	"context"
	"fmt"

	"conceptlab/internal/cache"
	"conceptlab/internal/feedback"
	"conceptlab/internal/insights"
	"conceptlab/internal/logging"
	"conceptlab/internal/model"
	"conceptlab/internal/repository"
	"conceptlab/internal/textrules"

	"github.com/sirupsen/logrus"
)

// EvaluationService runs the deterministic path: score and feedback per persona,
// then the segment roll-up
type EvaluationService struct {
	catalog     *CatalogService
	evaluations repository.EvaluationRepo
	cache       cache.InsightsCache
	ranking     cache.RankingCache
	generator   *feedback.Generator
	aggregator  *insights.Aggregator
	log         *logrus.Entry
}

// NewEvaluationService creates a new evaluation service. The caches may be nil.
func NewEvaluationService(
	catalog *CatalogService,
	evaluations repository.EvaluationRepo,
	insightsCache cache.InsightsCache,
	ranking cache.RankingCache,
) *EvaluationService {
	return &EvaluationService{
		catalog:     catalog,
		evaluations: evaluations,
		cache:       insightsCache,
		ranking:     ranking,
		generator:   feedback.New(),
		aggregator:  insights.New(textrules.MetricKeywords),
		log:         logging.For("evaluation"),
	}
}

// Evaluate scores the concept against the panel (all personas when personaIDs is
// empty), stores the evaluations and refreshes the cached insights
func (s *EvaluationService) Evaluate(ctx context.Context, conceptID string, personaIDs []string) (*model.ConceptInsights, error) {
	concept, err := s.catalog.GetConcept(ctx, conceptID)
	if err != nil {
		return nil, err
	}
	personas, err := s.catalog.ResolvePanel(ctx, personaIDs)
	if err != nil {
		return nil, err
	}

	evaluations := make([]model.Evaluation, 0, len(personas))
	inputs := make([]insights.Input, 0, len(personas))
	for i := range personas {
		ev := s.generator.Evaluate(&personas[i], concept)
		evaluations = append(evaluations, ev)
		inputs = append(inputs, insights.Input{Persona: personas[i], Evaluation: ev})
	}
	if err := s.evaluations.SaveMany(ctx, evaluations); err != nil {
		return nil, fmt.Errorf("save evaluations: %w", err)
	}

	result := s.aggregator.Aggregate(concept, inputs)
	s.store(ctx, &result)
	s.log.WithField(logging.FieldConceptID, conceptID).
		Infof("[Evaluation] %d personas, overall %.1f", result.SampleSize, result.Overall.Score)
	return &result, nil
}

// GetInsights returns cached insights, rebuilding them from stored evaluations on a miss
func (s *EvaluationService) GetInsights(ctx context.Context, conceptID string) (*model.ConceptInsights, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, conceptID)
		if err != nil {
			s.log.WithError(err).Warn("[Evaluation] insights cache read failed")
		} else if cached != nil {
			return cached, nil
		}
	}

	concept, err := s.catalog.GetConcept(ctx, conceptID)
	if err != nil {
		return nil, err
	}
	stored, err := s.evaluations.GetByConcept(ctx, conceptID)
	if err != nil {
		return nil, err
	}
	if len(stored) == 0 {
		return nil, ErrNotFound
	}

	ids := make([]string, 0, len(stored))
	for _, ev := range stored {
		ids = append(ids, ev.PersonaID)
	}
	personas, err := s.catalog.personas.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]model.Persona, len(personas))
	for _, p := range personas {
		byID[p.ID] = p
	}

	inputs := make([]insights.Input, 0, len(stored))
	for _, ev := range stored {
		p, ok := byID[ev.PersonaID]
		if !ok {
			continue // persona removed from the panel since the evaluation
		}
		inputs = append(inputs, insights.Input{Persona: p, Evaluation: ev})
	}

	result := s.aggregator.Aggregate(concept, inputs)
	s.store(ctx, &result)
	return &result, nil
}

// Ranking returns the best scored concepts
func (s *EvaluationService) Ranking(ctx context.Context, limit int) ([]cache.RankingEntry, error) {
	if s.ranking == nil {
		return []cache.RankingEntry{}, nil
	}
	if limit <= 0 {
		limit = 10
	}
	return s.ranking.GetTop(ctx, limit)
}

func (s *EvaluationService) store(ctx context.Context, result *model.ConceptInsights) {
	if s.cache != nil {
		if err := s.cache.Set(ctx, result); err != nil {
			s.log.WithError(err).Warn("[Evaluation] insights not cached")
		}
	}
	if s.ranking != nil && result.SampleSize > 0 {
		if err := s.ranking.UpdateScore(ctx, result.ConceptID, result.Overall.Score); err != nil {
			s.log.WithError(err).Warn("[Evaluation] ranking not updated")
		}
	}
}

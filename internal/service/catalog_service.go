package service

import (
	"context"
	"fmt"
	"time"

	"conceptlab/internal/model"
	"conceptlab/internal/repository"
)

// CatalogService manages the persona panel and the concept library
type CatalogService struct {
	personas repository.PersonaRepo
	concepts repository.ConceptRepo
	now      func() time.Time
}

// NewCatalogService creates a new catalog service
func NewCatalogService(personas repository.PersonaRepo, concepts repository.ConceptRepo) *CatalogService {
	return &CatalogService{
		personas: personas,
		concepts: concepts,
		now:      time.Now,
	}
}

// UpsertPersonas validates the whole batch before writing any of it
func (s *CatalogService) UpsertPersonas(ctx context.Context, personas []model.Persona) (int, error) {
	if len(personas) == 0 {
		return 0, &model.ValidationError{Field: "personas", Reason: "at least one persona is required"}
	}
	seen := make(map[string]bool, len(personas))
	for i := range personas {
		if err := personas[i].Validate(); err != nil {
			return 0, err
		}
		if seen[personas[i].ID] {
			return 0, &model.ValidationError{Field: "persona.id", Reason: fmt.Sprintf("duplicate id %q", personas[i].ID)}
		}
		seen[personas[i].ID] = true
	}
	return s.personas.UpsertMany(ctx, personas)
}

func (s *CatalogService) ListPersonas(ctx context.Context) ([]model.Persona, error) {
	return s.personas.List(ctx)
}

func (s *CatalogService) GetPersona(ctx context.Context, id string) (*model.Persona, error) {
	p, err := s.personas.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrNotFound
	}
	return p, nil
}

// UpsertConcept stores a concept. Replacing an existing concept bumps its version.
func (s *CatalogService) UpsertConcept(ctx context.Context, concept *model.Concept) (*model.Concept, error) {
	if err := concept.Validate(); err != nil {
		return nil, err
	}
	existing, err := s.concepts.GetByID(ctx, concept.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		concept.Version = existing.Version + 1
		concept.CreatedAt = existing.CreatedAt
	} else {
		if concept.Version <= 0 {
			concept.Version = 1
		}
		concept.CreatedAt = s.now().UTC()
	}
	if err := s.concepts.Upsert(ctx, concept); err != nil {
		return nil, err
	}
	return concept, nil
}

func (s *CatalogService) ListConcepts(ctx context.Context) ([]model.Concept, error) {
	return s.concepts.List(ctx)
}

func (s *CatalogService) GetConcept(ctx context.Context, id string) (*model.Concept, error) {
	c, err := s.concepts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrNotFound
	}
	return c, nil
}

// ResolvePanel returns the requested personas in order, or the whole panel when ids is empty
func (s *CatalogService) ResolvePanel(ctx context.Context, ids []string) ([]model.Persona, error) {
	if len(ids) == 0 {
		personas, err := s.personas.List(ctx)
		if err != nil {
			return nil, err
		}
		if len(personas) == 0 {
			return nil, &model.ValidationError{Field: "personas", Reason: "the persona panel is empty"}
		}
		return personas, nil
	}

	personas, err := s.personas.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(personas) != len(ids) {
		found := make(map[string]bool, len(personas))
		for _, p := range personas {
			found[p.ID] = true
		}
		for _, id := range ids {
			if !found[id] {
				return nil, &model.ValidationError{Field: "personaIds", Reason: fmt.Sprintf("unknown persona %q", id)}
			}
		}
	}
	return personas, nil
}

package handler

import (
	"context"
	"net/http"

	"conceptlab/internal/model"

	"github.com/gorilla/mux"
)

// Catalog manages the persona panel and the concept library
type Catalog interface {
	UpsertPersonas(ctx context.Context, personas []model.Persona) (int, error)
	ListPersonas(ctx context.Context) ([]model.Persona, error)
	UpsertConcept(ctx context.Context, concept *model.Concept) (*model.Concept, error)
	ListConcepts(ctx context.Context) ([]model.Concept, error)
	GetConcept(ctx context.Context, id string) (*model.Concept, error)
}

// CatalogHandler handles persona and concept endpoints
type CatalogHandler struct {
	catalog Catalog
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(catalog Catalog) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// UpsertPersonas handles POST /v1/personas
func (h *CatalogHandler) UpsertPersonas(w http.ResponseWriter, r *http.Request) {
	var personas []model.Persona
	if err := decodeBody(r, &personas); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	n, err := h.catalog.UpsertPersonas(r.Context(), personas)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]int{"upserted": n})
}

// ListPersonas handles GET /v1/personas
func (h *CatalogHandler) ListPersonas(w http.ResponseWriter, r *http.Request) {
	personas, err := h.catalog.ListPersonas(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if personas == nil {
		personas = []model.Persona{}
	}
	writeJSON(w, http.StatusOK, personas)
}

// UpsertConcept handles POST /v1/concepts
func (h *CatalogHandler) UpsertConcept(w http.ResponseWriter, r *http.Request) {
	var concept model.Concept
	if err := decodeBody(r, &concept); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	saved, err := h.catalog.UpsertConcept(r.Context(), &concept)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, saved)
}

// ListConcepts handles GET /v1/concepts
func (h *CatalogHandler) ListConcepts(w http.ResponseWriter, r *http.Request) {
	concepts, err := h.catalog.ListConcepts(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if concepts == nil {
		concepts = []model.Concept{}
	}
	writeJSON(w, http.StatusOK, concepts)
}

// GetConcept handles GET /v1/concepts/{conceptId}
func (h *CatalogHandler) GetConcept(w http.ResponseWriter, r *http.Request) {
	concept, err := h.catalog.GetConcept(r.Context(), mux.Vars(r)["conceptId"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, concept)
}

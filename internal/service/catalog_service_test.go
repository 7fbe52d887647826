package service

import (
	"context"
	"testing"

	"conceptlab/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpsertPersonasValidatesWholeBatch(t *testing.T) {
	repo := newMemPersonas()
	svc := NewCatalogService(repo, newMemConcepts())

	batch := testPersonas("Ana", "Beatriz")
	batch = append(batch, model.Persona{ID: "persona-x"})
	_, err := svc.UpsertPersonas(context.Background(), batch)
	var ve *model.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Empty(t, repo.byID, "nothing is written when one persona is invalid")

	dup := testPersonas("Ana")
	dup = append(dup, dup[0])
	_, err = svc.UpsertPersonas(context.Background(), dup)
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Reason, "duplicate")

	n, err := svc.UpsertPersonas(context.Background(), testPersonas("Ana", "Beatriz"))
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestUpsertConceptBumpsVersion(t *testing.T) {
	svc := NewCatalogService(newMemPersonas(), newMemConcepts())
	ctx := context.Background()

	created, err := svc.UpsertConcept(ctx, testConcept())
	require.NoError(t, err)
	assert.Equal(t, 1, created.Version)
	assert.False(t, created.CreatedAt.IsZero())

	edit := testConcept()
	edit.Headline = "Wake up to repaired hair"
	updated, err := svc.UpsertConcept(ctx, edit)
	require.NoError(t, err)
	assert.Equal(t, 2, updated.Version)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)

	got, err := svc.GetConcept(ctx, "concept-001")
	require.NoError(t, err)
	assert.Equal(t, "Wake up to repaired hair", got.Headline)

	_, err = svc.GetConcept(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	bad := testConcept()
	bad.PriceTier = "luxury"
	_, err = svc.UpsertConcept(ctx, bad)
	var ve *model.ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestResolvePanel(t *testing.T) {
	personas := testPersonas("Ana", "Beatriz", "Carla")
	svc := NewCatalogService(newMemPersonas(personas...), newMemConcepts())
	ctx := context.Background()

	all, err := svc.ResolvePanel(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	picked, err := svc.ResolvePanel(ctx, []string{personas[2].ID, personas[0].ID})
	require.NoError(t, err)
	require.Len(t, picked, 2)
	assert.Equal(t, "Carla", picked[0].Name)
	assert.Equal(t, "Ana", picked[1].Name)

	_, err = svc.ResolvePanel(ctx, []string{personas[0].ID, "ghost"})
	var ve *model.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Reason, "ghost")

	_, err = NewCatalogService(newMemPersonas(), newMemConcepts()).ResolvePanel(ctx, nil)
	assert.ErrorAs(t, err, &ve)
}

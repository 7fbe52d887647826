package repository

import (
	"context"

	"conceptlab/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PersonaRepo stores the synthetic consumer panel
type PersonaRepo interface {
	Upsert(ctx context.Context, persona *model.Persona) error
	UpsertMany(ctx context.Context, personas []model.Persona) (int, error)
	GetByID(ctx context.Context, id string) (*model.Persona, error)
	GetByIDs(ctx context.Context, ids []string) ([]model.Persona, error)
	List(ctx context.Context) ([]model.Persona, error)
}

type personaRepo struct {
	collection *mongo.Collection
}

// NewPersonaRepo creates a persona repository
func NewPersonaRepo(db *mongo.Database) PersonaRepo {
	return &personaRepo{
		collection: db.Collection("personas"),
	}
}

func (r *personaRepo) Upsert(ctx context.Context, persona *model.Persona) error {
	opts := options.Replace().SetUpsert(true)
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": persona.ID}, persona, opts)
	return err
}

// UpsertMany writes the whole panel in one bulk call and returns the number of documents touched
func (r *personaRepo) UpsertMany(ctx context.Context, personas []model.Persona) (int, error) {
	if len(personas) == 0 {
		return 0, nil
	}
	models := make([]mongo.WriteModel, 0, len(personas))
	for i := range personas {
		models = append(models, mongo.NewReplaceOneModel().
			SetFilter(bson.M{"_id": personas[i].ID}).
			SetReplacement(personas[i]).
			SetUpsert(true))
	}
	res, err := r.collection.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(true))
	if err != nil {
		return 0, err
	}
	return int(res.UpsertedCount + res.MatchedCount), nil
}

func (r *personaRepo) GetByID(ctx context.Context, id string) (*model.Persona, error) {
	var persona model.Persona
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&persona)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &persona, nil
}

// GetByIDs returns the requested personas in the order of ids, skipping unknown ids
func (r *personaRepo) GetByIDs(ctx context.Context, ids []string) ([]model.Persona, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var found []model.Persona
	if err = cursor.All(ctx, &found); err != nil {
		return nil, err
	}
	byID := make(map[string]model.Persona, len(found))
	for _, p := range found {
		byID[p.ID] = p
	}
	personas := make([]model.Persona, 0, len(ids))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			personas = append(personas, p)
		}
	}
	return personas, nil
}

func (r *personaRepo) List(ctx context.Context) ([]model.Persona, error) {
	cursor, err := r.collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.M{"_id": 1}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	personas := []model.Persona{}
	if err = cursor.All(ctx, &personas); err != nil {
		return nil, err
	}
	return personas, nil
}

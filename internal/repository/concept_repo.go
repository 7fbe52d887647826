package repository

import (
	"context"

	"conceptlab/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ConceptRepo stores the concept library. Each concept keeps only its latest version.
type ConceptRepo interface {
	Upsert(ctx context.Context, concept *model.Concept) error
	GetByID(ctx context.Context, id string) (*model.Concept, error)
	List(ctx context.Context) ([]model.Concept, error)
}

type conceptRepo struct {
	collection *mongo.Collection
}

// NewConceptRepo creates a concept repository
func NewConceptRepo(db *mongo.Database) ConceptRepo {
	return &conceptRepo{
		collection: db.Collection("concepts"),
	}
}

func (r *conceptRepo) Upsert(ctx context.Context, concept *model.Concept) error {
	opts := options.Replace().SetUpsert(true)
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": concept.ID}, concept, opts)
	return err
}

func (r *conceptRepo) GetByID(ctx context.Context, id string) (*model.Concept, error) {
	var concept model.Concept
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&concept)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &concept, nil
}

func (r *conceptRepo) List(ctx context.Context) ([]model.Concept, error) {
	cursor, err := r.collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.M{"_id": 1}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	concepts := []model.Concept{}
	if err = cursor.All(ctx, &concepts); err != nil {
		return nil, err
	}
	return concepts, nil
}

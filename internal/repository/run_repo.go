package repository

import (
	"context"

	"conceptlab/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// RunRepo stores the lifecycle record of each two-phase run
type RunRepo interface {
	Create(ctx context.Context, run *model.Run) error
	GetByID(ctx context.Context, id string) (*model.Run, error)
	Update(ctx context.Context, run *model.Run) error
	ListByConcept(ctx context.Context, conceptID string) ([]model.Run, error)
}

type runRepo struct {
	collection *mongo.Collection
}

// NewRunRepo creates a run repository
func NewRunRepo(db *mongo.Database) RunRepo {
	return &runRepo{
		collection: db.Collection("runs"),
	}
}

func (r *runRepo) Create(ctx context.Context, run *model.Run) error {
	_, err := r.collection.InsertOne(ctx, run)
	return err
}

func (r *runRepo) GetByID(ctx context.Context, id string) (*model.Run, error) {
	var run model.Run
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&run)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &run, nil
}

func (r *runRepo) Update(ctx context.Context, run *model.Run) error {
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": run.ID}, run)
	return err
}

// ListByConcept returns the concept's runs, newest first
func (r *runRepo) ListByConcept(ctx context.Context, conceptID string) ([]model.Run, error) {
	opts := options.Find().SetSort(bson.M{"createdAt": -1})
	cursor, err := r.collection.Find(ctx, bson.M{"conceptId": conceptID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	runs := []model.Run{}
	if err = cursor.All(ctx, &runs); err != nil {
		return nil, err
	}
	return runs, nil
}

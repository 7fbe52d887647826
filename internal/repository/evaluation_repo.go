package repository

import (
	"context"
	"time"

	"conceptlab/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EvaluationRepo keeps the latest deterministic evaluation per (concept, persona)
type EvaluationRepo interface {
	SaveMany(ctx context.Context, evaluations []model.Evaluation) error
	GetByConcept(ctx context.Context, conceptID string) ([]model.Evaluation, error)
}

type evaluationDoc struct {
	ID               string `bson:"_id"`
	model.Evaluation `bson:",inline"`
	EvaluatedAt      time.Time `bson:"evaluatedAt"`
}

type evaluationRepo struct {
	collection *mongo.Collection
}

// NewEvaluationRepo creates an evaluation repository
func NewEvaluationRepo(db *mongo.Database) EvaluationRepo {
	return &evaluationRepo{
		collection: db.Collection("evaluations"),
	}
}

func evaluationKey(conceptID, personaID string) string {
	return conceptID + ":" + personaID
}

func (r *evaluationRepo) SaveMany(ctx context.Context, evaluations []model.Evaluation) error {
	if len(evaluations) == 0 {
		return nil
	}
	now := time.Now().UTC()
	models := make([]mongo.WriteModel, 0, len(evaluations))
	for _, ev := range evaluations {
		id := evaluationKey(ev.ConceptID, ev.PersonaID)
		models = append(models, mongo.NewReplaceOneModel().
			SetFilter(bson.M{"_id": id}).
			SetReplacement(evaluationDoc{ID: id, Evaluation: ev, EvaluatedAt: now}).
			SetUpsert(true))
	}
	_, err := r.collection.BulkWrite(ctx, models)
	return err
}

func (r *evaluationRepo) GetByConcept(ctx context.Context, conceptID string) ([]model.Evaluation, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"conceptId": conceptID}, options.Find().SetSort(bson.M{"personaId": 1}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []evaluationDoc
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	evaluations := make([]model.Evaluation, 0, len(docs))
	for _, d := range docs {
		evaluations = append(evaluations, d.Evaluation)
	}
	return evaluations, nil
}

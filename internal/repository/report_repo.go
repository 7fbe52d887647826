package repository

import (
	"context"
	"time"

	"conceptlab/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ReportRepo handles MongoDB operations for run outputs
type ReportRepo interface {
	SaveTranscripts(ctx context.Context, runID string, res *model.InterviewsResult) error
	GetTranscripts(ctx context.Context, runID string) ([]model.InterviewTranscript, error)
	SaveReport(ctx context.Context, report *model.ConsolidatedReport) error
	GetReport(ctx context.Context, runID string) (*model.ConsolidatedReport, error)
}

type transcriptsDoc struct {
	RunID       string                      `bson:"_id"`
	ConceptID   string                      `bson:"conceptId"`
	Transcripts []model.InterviewTranscript `bson:"transcripts"`
	ElapsedMS   int64                       `bson:"elapsedMs"`
	SavedAt     time.Time                   `bson:"savedAt"`
}

type reportRepo struct {
	transcripts *mongo.Collection
	reports     *mongo.Collection
}

// NewReportRepo creates a new report repository
func NewReportRepo(db *mongo.Database) ReportRepo {
	return &reportRepo{
		transcripts: db.Collection("interview_transcripts"),
		reports:     db.Collection("reports"),
	}
}

func (r *reportRepo) SaveTranscripts(ctx context.Context, runID string, res *model.InterviewsResult) error {
	doc := transcriptsDoc{
		RunID:       runID,
		ConceptID:   res.Concept.ID,
		Transcripts: res.Transcripts,
		ElapsedMS:   res.Elapsed.Milliseconds(),
		SavedAt:     time.Now().UTC(),
	}
	opts := options.Replace().SetUpsert(true)
	_, err := r.transcripts.ReplaceOne(ctx, bson.M{"_id": runID}, doc, opts)
	return err
}

func (r *reportRepo) GetTranscripts(ctx context.Context, runID string) ([]model.InterviewTranscript, error) {
	var doc transcriptsDoc
	err := r.transcripts.FindOne(ctx, bson.M{"_id": runID}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return doc.Transcripts, nil
}

func (r *reportRepo) SaveReport(ctx context.Context, report *model.ConsolidatedReport) error {
	opts := options.Replace().SetUpsert(true)
	_, err := r.reports.ReplaceOne(ctx, bson.M{"_id": report.RunID}, report, opts)
	return err
}

func (r *reportRepo) GetReport(ctx context.Context, runID string) (*model.ConsolidatedReport, error) {
	var report model.ConsolidatedReport
	err := r.reports.FindOne(ctx, bson.M{"_id": runID}).Decode(&report)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &report, nil
}

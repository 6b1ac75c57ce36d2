package repository

import (
	"context"
	"fmt"

	"tripplanner-service/internal/domain/entity"
	"tripplanner-service/internal/domain/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStageRunRepository implements the StageRunRepository interface
type MongoStageRunRepository struct {
	collection *mongo.Collection
}

// NewMongoStageRunRepository creates a new MongoDB stage run repository
func NewMongoStageRunRepository(db *mongo.Database) repository.StageRunRepository {
	collection := db.Collection("stage_runs")

	ctx := context.Background()

	// One document per stage of a planning call
	runStageIndex := mongo.IndexModel{
		Keys: bson.D{
			{Key: "runId", Value: 1},
			{Key: "stage", Value: 1},
		},
		Options: options.Index().SetUnique(true),
	}

	conversationIndex := mongo.IndexModel{
		Keys: bson.D{
			{Key: "conversationId", Value: 1},
			{Key: "startedAt", Value: 1},
		},
	}

	statusIndex := mongo.IndexModel{
		Keys: bson.D{
			{Key: "status", Value: 1},
			{Key: "startedAt", Value: -1},
		},
	}

	collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		runStageIndex,
		conversationIndex,
		statusIndex,
	})

	return &MongoStageRunRepository{
		collection: collection,
	}
}

// Record upserts the run of a stage, keyed by run and stage. Earlier runs of
// the same conversation are left untouched.
func (r *MongoStageRunRepository) Record(ctx context.Context, run *entity.StageRun) error {
	_, err := r.collection.UpdateOne(
		ctx,
		stageRunFilter(run),
		stageRunUpdate(run),
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to record stage run: %w", err)
	}
	return nil
}

// FindByConversationID returns the stage runs of a conversation in start order
func (r *MongoStageRunRepository) FindByConversationID(ctx context.Context, conversationID string) ([]*entity.StageRun, error) {
	cursor, err := r.collection.Find(ctx,
		bson.M{"conversationId": conversationID},
		options.Find().SetSort(bson.D{{Key: "startedAt", Value: 1}}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to find stage runs: %w", err)
	}
	defer cursor.Close(ctx)

	var runs []*entity.StageRun
	if err := cursor.All(ctx, &runs); err != nil {
		return nil, fmt.Errorf("failed to decode stage runs: %w", err)
	}
	return runs, nil
}

func stageRunFilter(run *entity.StageRun) bson.M {
	return bson.M{"runId": run.RunID, "stage": run.Stage}
}

func stageRunUpdate(run *entity.StageRun) bson.M {
	set := bson.M{
		"conversationId": run.ConversationID,
		"status":         run.Status,
		"startedAt":      run.StartedAt,
	}
	if !run.FinishedAt.IsZero() {
		set["finishedAt"] = run.FinishedAt
	}
	if run.ErrorDetail != "" {
		set["errorDetail"] = run.ErrorDetail
	}
	return bson.M{"$set": set}
}

// NopStageRunRepository drops every record. It is used when no journal
// database is configured.
type NopStageRunRepository struct{}

// NewNopStageRunRepository creates a journal that keeps nothing
func NewNopStageRunRepository() repository.StageRunRepository {
	return NopStageRunRepository{}
}

func (NopStageRunRepository) Record(ctx context.Context, run *entity.StageRun) error {
	return nil
}

func (NopStageRunRepository) FindByConversationID(ctx context.Context, conversationID string) ([]*entity.StageRun, error) {
	return nil, nil
}

// internal/repository/mongo/workout_log_repo.go
package mongo

import (
	"context"
	"errors"
	"time"

	"fitcoach/periodization-app/internal/domain"
	"fitcoach/periodization-app/internal/repository"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const workoutLogCollectionName = "workout_logs"

// mongoWorkoutLogRepository implements repository.WorkoutLogRepository.
// The exercise/set subtree is embedded, so Replace swaps the whole logged
// workout in one document write and partial-update drift cannot occur.
type mongoWorkoutLogRepository struct {
	collection *mongo.Collection
}

// NewMongoWorkoutLogRepository creates a new WorkoutDayLog repository.
func NewMongoWorkoutLogRepository(db *mongo.Database) repository.WorkoutLogRepository {
	return &mongoWorkoutLogRepository{
		collection: db.Collection(workoutLogCollectionName),
	}
}

// Create inserts a new workout log.
func (r *mongoWorkoutLogRepository) Create(ctx context.Context, log *domain.WorkoutDayLog) (primitive.ObjectID, error) {
	if log.MicrocycleID == primitive.NilObjectID || log.ClientID == primitive.NilObjectID || log.DayID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("workout log requires microcycleId, clientId, and dayId")
	}

	log.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	log.CreatedAt = now
	log.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, log)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted workout log ID")
	}
	return insertedID, nil
}

// GetByID retrieves a single workout log by its ID.
func (r *mongoWorkoutLogRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutDayLog, error) {
	var log domain.WorkoutDayLog
	filter := bson.M{"_id": id}
	err := r.collection.FindOne(ctx, filter).Decode(&log)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &log, nil
}

// GetByMicrocycleID retrieves all logs of one week ordered by completion date.
func (r *mongoWorkoutLogRepository) GetByMicrocycleID(ctx context.Context, microcycleID primitive.ObjectID) ([]domain.WorkoutDayLog, error) {
	var logs []domain.WorkoutDayLog
	filter := bson.M{"microcycleId": microcycleID}
	findOptions := options.Find().SetSort(bson.D{{Key: "completedDate", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &logs); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return logs, nil
}

// Replace overwrites an existing log with its edited version, exercise/set
// subtree included. The client filter keeps a client from touching someone
// else's log.
func (r *mongoWorkoutLogRepository) Replace(ctx context.Context, log *domain.WorkoutDayLog) error {
	if log.ID == primitive.NilObjectID {
		return errors.New("workout log ID is required for replace")
	}

	log.UpdatedAt = time.Now().UTC()
	filter := bson.M{"_id": log.ID, "clientId": log.ClientID}

	result, err := r.collection.ReplaceOne(ctx, filter, log)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes a log and, with it, its embedded exercise/set subtree.
func (r *mongoWorkoutLogRepository) Delete(ctx context.Context, id, clientID primitive.ObjectID) error {
	filter := bson.M{"_id": id, "clientId": clientID}

	result, err := r.collection.DeleteOne(ctx, filter)
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// CountByMicrocycleIDs returns per-week log counts via one aggregation, so
// the analytics engine can pick data-bearing weeks cheaply.
func (r *mongoWorkoutLogRepository) CountByMicrocycleIDs(ctx context.Context, microcycleIDs []primitive.ObjectID) (map[primitive.ObjectID]int64, error) {
	counts := make(map[primitive.ObjectID]int64, len(microcycleIDs))
	if len(microcycleIDs) == 0 {
		return counts, nil
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"microcycleId": bson.M{"$in": microcycleIDs}}}},
		{{Key: "$group", Value: bson.M{"_id": "$microcycleId", "count": bson.M{"$sum": 1}}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		ID    primitive.ObjectID `bson:"_id"`
		Count int64              `bson:"count"`
	}
	if err = cursor.All(ctx, &rows); err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.ID] = row.Count
	}
	return counts, nil
}

// EnsureWorkoutLogIndexes creates necessary indexes. Call during startup.
func EnsureWorkoutLogIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "microcycleId", Value: 1}, {Key: "completedDate", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "clientId", Value: 1}},
			Options: options.Index(),
		},
	}
	// Non-fatal; see EnsureUserIndexes.
	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		log.WithError(err).Warn("failed to create workout log indexes")
	}
}

// internal/repository/mongo/mesocycle_repo.go
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

const mesocycleCollectionName = "mesocycles"

// mongoMesocycleRepository implements repository.MesocycleRepository.
// The forked day tree is embedded in the mesocycle document, so the fork
// flip (store days + set isForked + clear templateId) is one atomic
// single-document update.
type mongoMesocycleRepository struct {
	collection *mongo.Collection
}

// NewMongoMesocycleRepository creates a new Mesocycle repository.
func NewMongoMesocycleRepository(db *mongo.Database) repository.MesocycleRepository {
	return &mongoMesocycleRepository{
		collection: db.Collection(mesocycleCollectionName),
	}
}

// Create inserts a new mesocycle.
func (r *mongoMesocycleRepository) Create(ctx context.Context, mesocycle *domain.Mesocycle) (primitive.ObjectID, error) {
	if mesocycle.ClientID == primitive.NilObjectID || mesocycle.TrainerID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("mesocycle requires clientId and trainerId")
	}
	if mesocycle.DurationWeeks <= 0 {
		return primitive.NilObjectID, errors.New("mesocycle requires a positive durationWeeks")
	}

	mesocycle.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	mesocycle.CreatedAt = now
	mesocycle.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, mesocycle)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted mesocycle ID")
	}
	return insertedID, nil
}

// GetByID retrieves a single mesocycle by its ID.
func (r *mongoMesocycleRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Mesocycle, error) {
	var mesocycle domain.Mesocycle
	filter := bson.M{"_id": id}
	err := r.collection.FindOne(ctx, filter).Decode(&mesocycle)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &mesocycle, nil
}

// GetActiveByClientID retrieves the client's single active mesocycle.
func (r *mongoMesocycleRepository) GetActiveByClientID(ctx context.Context, clientID primitive.ObjectID) (*domain.Mesocycle, error) {
	var mesocycle domain.Mesocycle
	filter := bson.M{"clientId": clientID, "isActive": true}
	err := r.collection.FindOne(ctx, filter).Decode(&mesocycle)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &mesocycle, nil
}

// DeactivateActiveForClient completes any currently active mesocycle of the
// client. Matching zero documents is fine: a first-ever assignment has
// nothing to deactivate.
func (r *mongoMesocycleRepository) DeactivateActiveForClient(ctx context.Context, clientID primitive.ObjectID) error {
	now := time.Now().UTC()
	filter := bson.M{"clientId": clientID, "isActive": true}
	update := bson.M{
		"$set": bson.M{
			"isActive":    false,
			"isCompleted": true,
			"completedAt": now,
			"updatedAt":   now,
		},
	}
	_, err := r.collection.UpdateMany(ctx, filter, update)
	return err
}

// MarkForked stores the private day tree and flips the mesocycle into its
// forked state. The filter doubles as a compare-and-swap on isForked=false:
// of two concurrent forks exactly one matches, the other gets
// ErrAlreadyForked and can no-op.
func (r *mongoMesocycleRepository) MarkForked(ctx context.Context, id primitive.ObjectID, planTitle string, days []domain.ClientDay) error {
	filter := bson.M{"_id": id, "isForked": false}
	update := bson.M{
		"$set": bson.M{
			"isForked":  true,
			"planTitle": planTitle,
			"days":      days,
			"updatedAt": time.Now().UTC(),
		},
		"$unset": bson.M{"templateId": ""},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		// Either the mesocycle is gone or it is already forked. Distinguish
		// so the service can treat the latter as idempotent success.
		existing, getErr := r.GetByID(ctx, id)
		if getErr != nil {
			return getErr
		}
		if existing.IsForked {
			return repository.ErrAlreadyForked
		}
		return repository.ErrUpdateFailed
	}
	return nil
}

// UpdateClientExercise replaces one exercise inside a forked mesocycle's day
// tree using positional array filters.
func (r *mongoMesocycleRepository) UpdateClientExercise(ctx context.Context, mesocycleID, dayID primitive.ObjectID, exercise domain.ClientExercise) error {
	filter := bson.M{"_id": mesocycleID, "isForked": true, "days._id": dayID}
	update := bson.M{
		"$set": bson.M{
			"days.$.exercises.$[ex]": exercise,
			"updatedAt":              time.Now().UTC(),
		},
	}
	arrayFilters := options.Update().SetArrayFilters(options.ArrayFilters{
		Filters: []interface{}{bson.M{"ex._id": exercise.ID}},
	})

	result, err := r.collection.UpdateOne(ctx, filter, update, arrayFilters)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureMesocycleIndexes creates necessary indexes. Call during startup.
func EnsureMesocycleIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			// The exactly-one-active invariant's main query path.
			Keys:    bson.D{{Key: "clientId", Value: 1}, {Key: "isActive", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "trainerId", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "templateId", Value: 1}},
			Options: options.Index().SetSparse(true),
		},
	}
	// Non-fatal; see EnsureUserIndexes.
	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		log.WithError(err).Warn("failed to create mesocycle indexes")
	}
}

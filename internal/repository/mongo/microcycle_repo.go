// internal/repository/mongo/microcycle_repo.go
package mongo

import (
	"context"
	"errors"

	"fitcoach/periodization-app/internal/domain"
	"fitcoach/periodization-app/internal/repository"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const microcycleCollectionName = "microcycles"

// mongoMicrocycleRepository implements repository.MicrocycleRepository.
type mongoMicrocycleRepository struct {
	collection *mongo.Collection
}

// NewMongoMicrocycleRepository creates a new Microcycle repository.
func NewMongoMicrocycleRepository(db *mongo.Database) repository.MicrocycleRepository {
	return &mongoMicrocycleRepository{
		collection: db.Collection(microcycleCollectionName),
	}
}

// CreateMany inserts all week rows of a mesocycle in one call. Runs inside
// the assign transaction; ids are minted by BuildMicrocycles.
func (r *mongoMicrocycleRepository) CreateMany(ctx context.Context, cycles []domain.Microcycle) error {
	if len(cycles) == 0 {
		return errors.New("no microcycles to insert")
	}
	docs := make([]interface{}, len(cycles))
	for i := range cycles {
		docs[i] = cycles[i]
	}
	_, err := r.collection.InsertMany(ctx, docs)
	return err
}

// GetByID retrieves one microcycle by its ID.
func (r *mongoMicrocycleRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Microcycle, error) {
	var cycle domain.Microcycle
	filter := bson.M{"_id": id}
	err := r.collection.FindOne(ctx, filter).Decode(&cycle)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &cycle, nil
}

// GetByMesocycleID retrieves all weeks of a mesocycle ordered by week number.
func (r *mongoMicrocycleRepository) GetByMesocycleID(ctx context.Context, mesocycleID primitive.ObjectID) ([]domain.Microcycle, error) {
	var cycles []domain.Microcycle
	filter := bson.M{"mesocycleId": mesocycleID}
	findOptions := options.Find().SetSort(bson.D{{Key: "weekNumber", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &cycles); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return cycles, nil
}

// GetByMesocycleAndWeek retrieves one specific week.
func (r *mongoMicrocycleRepository) GetByMesocycleAndWeek(ctx context.Context, mesocycleID primitive.ObjectID, weekNumber int) (*domain.Microcycle, error) {
	var cycle domain.Microcycle
	filter := bson.M{"mesocycleId": mesocycleID, "weekNumber": weekNumber}
	err := r.collection.FindOne(ctx, filter).Decode(&cycle)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &cycle, nil
}

// EnsureMicrocycleIndexes creates necessary indexes. Call during startup.
func EnsureMicrocycleIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "mesocycleId", Value: 1}, {Key: "weekNumber", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	// Non-fatal; see EnsureUserIndexes.
	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		log.WithError(err).Warn("failed to create microcycle indexes")
	}
}

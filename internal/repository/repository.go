package repository

import (
	"context"

	"fitcoach/periodization-app/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for the repository layer
var (
	ErrNotFound     = RepositoryError("not found")
	ErrUpdateFailed = RepositoryError("update failed")
	ErrDeleteFailed = RepositoryError("delete failed")
	// ErrAlreadyForked is returned by MarkForked when the mesocycle's
	// compare-and-swap on isForked=false matched nothing because a
	// concurrent fork already won.
	ErrAlreadyForked = RepositoryError("mesocycle already forked")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// TxRunner executes fn inside one atomic unit of work. Every write issued
// through the fn's context commits or rolls back together. Fork and Assign
// run under this; analytics reads do not need it.
type TxRunner interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	AddClientIDToTrainer(ctx context.Context, trainerID, clientID primitive.ObjectID) error
	GetClientsByTrainerID(ctx context.Context, trainerID primitive.ObjectID) ([]domain.User, error)
	SetTrainerForClient(ctx context.Context, clientID, trainerID primitive.ObjectID) error
}

// TemplateRepository defines the interface for interacting with the shared,
// trainer-owned plan templates. Templates are read-mostly; the fork path
// only ever reads them.
type TemplateRepository interface {
	Create(ctx context.Context, template *domain.Template) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Template, error)
	GetByTrainerID(ctx context.Context, trainerID primitive.ObjectID) ([]domain.Template, error)
	Update(ctx context.Context, template *domain.Template) error
	Archive(ctx context.Context, id, trainerID primitive.ObjectID) error
}

// MesocycleRepository defines the interface for interacting with client
// periodization instances, including the copy-on-write fork transition.
type MesocycleRepository interface {
	Create(ctx context.Context, mesocycle *domain.Mesocycle) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Mesocycle, error)
	GetActiveByClientID(ctx context.Context, clientID primitive.ObjectID) (*domain.Mesocycle, error)
	// DeactivateActiveForClient flips any isActive mesocycle of the client to
	// inactive+completed with completedAt=now. No-op when none is active.
	DeactivateActiveForClient(ctx context.Context, clientID primitive.ObjectID) error
	// MarkForked atomically stores the private day tree plus plan title
	// snapshot, sets isForked=true and clears templateId, but only if the
	// mesocycle is still unforked. Returns ErrAlreadyForked when a concurrent
	// fork got there first.
	MarkForked(ctx context.Context, id primitive.ObjectID, planTitle string, days []domain.ClientDay) error
	// UpdateClientExercise replaces one exercise inside a forked mesocycle's
	// private day tree.
	UpdateClientExercise(ctx context.Context, mesocycleID, dayID primitive.ObjectID, exercise domain.ClientExercise) error
}

// MicrocycleRepository defines the interface for interacting with week rows.
type MicrocycleRepository interface {
	CreateMany(ctx context.Context, cycles []domain.Microcycle) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Microcycle, error)
	GetByMesocycleID(ctx context.Context, mesocycleID primitive.ObjectID) ([]domain.Microcycle, error)
	GetByMesocycleAndWeek(ctx context.Context, mesocycleID primitive.ObjectID, weekNumber int) (*domain.Microcycle, error)
}

// WorkoutLogRepository defines the interface for interacting with logged
// workouts. Replace swaps the whole exercise/set subtree in one write;
// individual sets are never patched.
type WorkoutLogRepository interface {
	Create(ctx context.Context, log *domain.WorkoutDayLog) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutDayLog, error)
	GetByMicrocycleID(ctx context.Context, microcycleID primitive.ObjectID) ([]domain.WorkoutDayLog, error)
	Replace(ctx context.Context, log *domain.WorkoutDayLog) error
	Delete(ctx context.Context, id, clientID primitive.ObjectID) error
	// CountByMicrocycleIDs returns log counts keyed by microcycle id, used to
	// find the data-bearing weeks without loading every log.
	CountByMicrocycleIDs(ctx context.Context, microcycleIDs []primitive.ObjectID) (map[primitive.ObjectID]int64, error)
}

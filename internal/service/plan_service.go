// internal/service/plan_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fitcoach/periodization-app/internal/domain"
	"fitcoach/periodization-app/internal/repository"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrMesocycleNotFound     = errors.New("mesocycle not found")
	ErrMesocycleAccessDenied = errors.New("access denied to this mesocycle")
	// ErrInvariantViolation marks internal consistency failures, such as an
	// unforked mesocycle with no template reference. Never silently "fixed";
	// logged and surfaced as a server error.
	ErrInvariantViolation = errors.New("mesocycle state invariant violated")
)

// Assignment duration bounds, in weeks.
const (
	MinDurationWeeks = 1
	MaxDurationWeeks = 52
)

// PlanService is the periodization scheduler and the copy-on-write fork
// engine: it assigns templates to clients as mesocycles and detaches a
// client's plan into a private copy on first edit.
type PlanService interface {
	// AssignPlan creates a mesocycle for the client over the given template,
	// deactivating any previously active one, and lays out its week windows.
	// The whole operation is one transaction.
	AssignPlan(ctx context.Context, trainerID, clientID, templateID primitive.ObjectID, startDate time.Time, durationWeeks int, trainerNotes string) (*domain.Mesocycle, []domain.Microcycle, error)

	// Fork materializes the mesocycle's private plan copy. Idempotent: a
	// second call returns the existing forked state without writing.
	Fork(ctx context.Context, trainerID, mesocycleID primitive.ObjectID) (*domain.Mesocycle, error)

	// UpdateClientExercise edits one exercise of the client's plan, forking
	// the template first if this is the first edit.
	UpdateClientExercise(ctx context.Context, trainerID, mesocycleID, dayID primitive.ObjectID, exercise domain.ClientExercise) (*domain.Mesocycle, error)

	// GetMesocycle fetches a mesocycle with its week windows, for either the
	// owning trainer or the owning client.
	GetMesocycle(ctx context.Context, callerID, mesocycleID primitive.ObjectID) (*domain.Mesocycle, []domain.Microcycle, error)

	// PlanSourceFor resolves the mesocycle's plan into its tagged-union read
	// surface, loading the template when the plan is not forked.
	PlanSourceFor(ctx context.Context, mesocycle *domain.Mesocycle) (domain.PlanSource, error)
}

// planService implements the PlanService interface.
type planService struct {
	userRepo       repository.UserRepository
	templateRepo   repository.TemplateRepository
	mesocycleRepo  repository.MesocycleRepository
	microcycleRepo repository.MicrocycleRepository
	tx             repository.TxRunner
}

// NewPlanService creates a new instance of planService.
func NewPlanService(
	userRepo repository.UserRepository,
	templateRepo repository.TemplateRepository,
	mesocycleRepo repository.MesocycleRepository,
	microcycleRepo repository.MicrocycleRepository,
	tx repository.TxRunner,
) PlanService {
	return &planService{
		userRepo:       userRepo,
		templateRepo:   templateRepo,
		mesocycleRepo:  mesocycleRepo,
		microcycleRepo: microcycleRepo,
		tx:             tx,
	}
}

// === Periodization Scheduler ===

// AssignPlan validates the request, then atomically: deactivates the
// client's current active mesocycle, creates the new one bound to the
// template, and creates exactly durationWeeks microcycles with contiguous
// non-overlapping 7-day windows.
func (s *planService) AssignPlan(ctx context.Context, trainerID, clientID, templateID primitive.ObjectID, startDate time.Time, durationWeeks int, trainerNotes string) (*domain.Mesocycle, []domain.Microcycle, error) {
	if trainerID == primitive.NilObjectID || clientID == primitive.NilObjectID || templateID == primitive.NilObjectID {
		return nil, nil, errors.New("trainer ID, client ID, and template ID are required")
	}
	if durationWeeks < MinDurationWeeks || durationWeeks > MaxDurationWeeks {
		return nil, nil, fmt.Errorf("%w: durationWeeks must be between %d and %d, got %d",
			ErrValidationFailed, MinDurationWeeks, MaxDurationWeeks, durationWeeks)
	}

	client, err := s.userRepo.GetByID(ctx, clientID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, ErrClientNotFound
		}
		return nil, nil, err
	}
	if client.TrainerID == nil || *client.TrainerID != trainerID {
		return nil, nil, ErrClientNotManaged
	}

	template, err := s.templateRepo.GetByID(ctx, templateID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, ErrTemplateNotFound
		}
		return nil, nil, err
	}
	if template.TrainerID != trainerID {
		return nil, nil, ErrTemplateAccessDenied
	}

	mesocycle := &domain.Mesocycle{
		ClientID:      clientID,
		TrainerID:     trainerID,
		StartDate:     startDate,
		DurationWeeks: durationWeeks,
		EndDate:       startDate.AddDate(0, 0, durationWeeks*7-1),
		IsActive:      true,
		IsForked:      false,
		TemplateID:    &templateID,
		TrainerNotes:  trainerNotes,
	}

	var cycles []domain.Microcycle
	err = s.tx.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.mesocycleRepo.DeactivateActiveForClient(txCtx, clientID); err != nil {
			return err
		}
		mesocycleID, err := s.mesocycleRepo.Create(txCtx, mesocycle)
		if err != nil {
			return err
		}
		mesocycle.ID = mesocycleID
		cycles = domain.BuildMicrocycles(mesocycleID, startDate, durationWeeks, time.Now().UTC())
		return s.microcycleRepo.CreateMany(txCtx, cycles)
	})
	if err != nil {
		return nil, nil, err
	}

	log.WithFields(log.Fields{
		"mesocycleId": mesocycle.ID.Hex(),
		"clientId":    clientID.Hex(),
		"weeks":       durationWeeks,
	}).Info("plan assigned")

	return mesocycle, cycles, nil
}

// === Fork Engine ===

// Fork performs the copy-on-write transition. The template's whole
// day/exercise/set tree is duplicated into rows owned by this mesocycle,
// then the mesocycle flips to isForked=true with its template reference
// cleared. The flip is a compare-and-swap on isForked=false, so concurrent
// forks cannot double-copy: the loser observes the winner's completed state
// and returns it unchanged.
func (s *planService) Fork(ctx context.Context, trainerID, mesocycleID primitive.ObjectID) (*domain.Mesocycle, error) {
	mesocycle, err := s.ownedMesocycle(ctx, trainerID, mesocycleID)
	if err != nil {
		return nil, err
	}

	// Idempotent success: already forked means nothing to do.
	if mesocycle.IsForked {
		return mesocycle, nil
	}

	if mesocycle.TemplateID == nil {
		log.WithField("mesocycleId", mesocycleID.Hex()).
			Error("unforked mesocycle has no template reference")
		return nil, ErrInvariantViolation
	}

	template, err := s.templateRepo.GetByID(ctx, *mesocycle.TemplateID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			log.WithField("mesocycleId", mesocycleID.Hex()).
				Error("mesocycle references a template that no longer exists")
			return nil, ErrInvariantViolation
		}
		return nil, err
	}

	days := domain.ForkDays(template)

	err = s.tx.WithTransaction(ctx, func(txCtx context.Context) error {
		return s.mesocycleRepo.MarkForked(txCtx, mesocycleID, template.Title, days)
	})
	if err != nil {
		if errors.Is(err, repository.ErrAlreadyForked) {
			// A concurrent fork won the compare-and-swap. Return its result.
			return s.mesocycleRepo.GetByID(ctx, mesocycleID)
		}
		return nil, err
	}

	log.WithFields(log.Fields{
		"mesocycleId": mesocycleID.Hex(),
		"days":        len(days),
	}).Info("mesocycle forked from template")

	mesocycle.IsForked = true
	mesocycle.TemplateID = nil
	mesocycle.PlanTitle = template.Title
	mesocycle.Days = days
	return mesocycle, nil
}

// UpdateClientExercise is the copy-on-write edit path: the first edit of a
// client's plan forks it, every edit lands only on the private copy.
func (s *planService) UpdateClientExercise(ctx context.Context, trainerID, mesocycleID, dayID primitive.ObjectID, exercise domain.ClientExercise) (*domain.Mesocycle, error) {
	if !exercise.MuscleGroup.IsValid() {
		return nil, fmt.Errorf("%w: unknown muscle group %q", ErrValidationFailed, exercise.MuscleGroup)
	}

	mesocycle, err := s.Fork(ctx, trainerID, mesocycleID)
	if err != nil {
		return nil, err
	}

	if err := s.mesocycleRepo.UpdateClientExercise(ctx, mesocycle.ID, dayID, exercise); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: day or exercise not found in plan", ErrMesocycleNotFound)
		}
		return nil, err
	}

	return s.mesocycleRepo.GetByID(ctx, mesocycle.ID)
}

// GetMesocycle fetches a mesocycle and its weeks for an owning caller.
func (s *planService) GetMesocycle(ctx context.Context, callerID, mesocycleID primitive.ObjectID) (*domain.Mesocycle, []domain.Microcycle, error) {
	mesocycle, err := s.mesocycleRepo.GetByID(ctx, mesocycleID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, ErrMesocycleNotFound
		}
		return nil, nil, err
	}
	if mesocycle.TrainerID != callerID && mesocycle.ClientID != callerID {
		return nil, nil, ErrMesocycleAccessDenied
	}

	cycles, err := s.microcycleRepo.GetByMesocycleID(ctx, mesocycleID)
	if err != nil {
		return nil, nil, err
	}
	return mesocycle, cycles, nil
}

// PlanSourceFor resolves the tagged union over the mesocycle's plan shape.
func (s *planService) PlanSourceFor(ctx context.Context, mesocycle *domain.Mesocycle) (domain.PlanSource, error) {
	if mesocycle.IsForked {
		return domain.ForkedPlan{PlanTitle: mesocycle.PlanTitle, ClientDays: mesocycle.Days}, nil
	}

	if mesocycle.TemplateID == nil {
		log.WithField("mesocycleId", mesocycle.ID.Hex()).
			Error("unforked mesocycle has no template reference")
		return nil, ErrInvariantViolation
	}
	template, err := s.templateRepo.GetByID(ctx, *mesocycle.TemplateID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvariantViolation
		}
		return nil, err
	}
	return domain.TemplateBasedPlan{Template: template}, nil
}

// ownedMesocycle loads a mesocycle and checks trainer ownership.
func (s *planService) ownedMesocycle(ctx context.Context, trainerID, mesocycleID primitive.ObjectID) (*domain.Mesocycle, error) {
	if trainerID == primitive.NilObjectID || mesocycleID == primitive.NilObjectID {
		return nil, errors.New("trainer ID and mesocycle ID are required")
	}
	mesocycle, err := s.mesocycleRepo.GetByID(ctx, mesocycleID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrMesocycleNotFound
		}
		return nil, err
	}
	if mesocycle.TrainerID != trainerID {
		return nil, ErrMesocycleAccessDenied
	}
	return mesocycle, nil
}

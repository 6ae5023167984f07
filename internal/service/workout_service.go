// internal/service/workout_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fitcoach/periodization-app/internal/domain"
	"fitcoach/periodization-app/internal/repository"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrMicrocycleNotFound  = errors.New("microcycle not found")
	ErrWorkoutLogNotFound  = errors.New("workout log not found")
	ErrWorkoutAccessDenied = errors.New("access denied to this workout log")
	ErrDayNotInPlan        = errors.New("day definition not found in the client's plan")
	ErrExerciseNotInDay    = errors.New("exercise definition not found in the logged day")
)

// RPE/fatigue scale bounds.
const (
	MinEffortScale = 1
	MaxEffortScale = 10
	MinRIR         = 0
	MaxRIR         = 10
)

// LoggedSetInput is one performed set as submitted by the client.
type LoggedSetInput struct {
	SetNumber int
	Reps      int
	Weight    float64
	RIR       *int
	Notes     string
}

// LoggedExerciseInput groups the submitted sets of one exercise.
type LoggedExerciseInput struct {
	ExerciseID primitive.ObjectID
	Sets       []LoggedSetInput
}

// WorkoutLogInput is the full submission for one trained day.
type WorkoutLogInput struct {
	MicrocycleID    primitive.ObjectID
	DayID           primitive.ObjectID
	CompletedDate   time.Time
	DurationMinutes int
	RPE             *int
	Fatigue         *int
	EmotionalState  string
	ClientNotes     string
	Exercises       []LoggedExerciseInput
	SubmissionID    string
}

// WorkoutService is the write/read surface over logged workouts. Edits
// replace the whole exercise/set subtree of a log; sets are never patched
// one by one, so a half-applied edit can't drift.
type WorkoutService interface {
	LogWorkout(ctx context.Context, clientID primitive.ObjectID, input WorkoutLogInput) (*domain.WorkoutDayLog, error)
	UpdateWorkout(ctx context.Context, clientID, logID primitive.ObjectID, input WorkoutLogInput) (*domain.WorkoutDayLog, error)
	DeleteWorkout(ctx context.Context, clientID, logID primitive.ObjectID) error
	GetWeekLogs(ctx context.Context, clientID, microcycleID primitive.ObjectID) ([]domain.WorkoutDayLog, error)
}

// workoutService implements the WorkoutService interface.
type workoutService struct {
	mesocycleRepo  repository.MesocycleRepository
	microcycleRepo repository.MicrocycleRepository
	templateRepo   repository.TemplateRepository
	workoutLogRepo repository.WorkoutLogRepository
}

// NewWorkoutService creates a new instance of workoutService.
func NewWorkoutService(
	mesocycleRepo repository.MesocycleRepository,
	microcycleRepo repository.MicrocycleRepository,
	templateRepo repository.TemplateRepository,
	workoutLogRepo repository.WorkoutLogRepository,
) WorkoutService {
	return &workoutService{
		mesocycleRepo:  mesocycleRepo,
		microcycleRepo: microcycleRepo,
		templateRepo:   templateRepo,
		workoutLogRepo: workoutLogRepo,
	}
}

// LogWorkout validates and stores a new workout log for the client.
func (s *workoutService) LogWorkout(ctx context.Context, clientID primitive.ObjectID, input WorkoutLogInput) (*domain.WorkoutDayLog, error) {
	logEntry, err := s.buildLog(ctx, clientID, input)
	if err != nil {
		return nil, err
	}
	if logEntry.SubmissionID == "" {
		logEntry.SubmissionID = uuid.NewString()
	}

	logID, err := s.workoutLogRepo.Create(ctx, logEntry)
	if err != nil {
		return nil, err
	}
	logEntry.ID = logID

	log.WithFields(log.Fields{
		"logId":        logID.Hex(),
		"microcycleId": input.MicrocycleID.Hex(),
	}).Debug("workout logged")

	return logEntry, nil
}

// UpdateWorkout edits an existing log by rebuilding and replacing its whole
// exercise/set subtree.
func (s *workoutService) UpdateWorkout(ctx context.Context, clientID, logID primitive.ObjectID, input WorkoutLogInput) (*domain.WorkoutDayLog, error) {
	existing, err := s.ownedLog(ctx, clientID, logID)
	if err != nil {
		return nil, err
	}

	// A log stays attached to the week and day it was created against.
	input.MicrocycleID = existing.MicrocycleID
	input.DayID = existing.DayID

	rebuilt, err := s.buildLog(ctx, clientID, input)
	if err != nil {
		return nil, err
	}
	rebuilt.ID = existing.ID
	rebuilt.SubmissionID = existing.SubmissionID
	rebuilt.CreatedAt = existing.CreatedAt

	if err := s.workoutLogRepo.Replace(ctx, rebuilt); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrWorkoutLogNotFound
		}
		return nil, err
	}
	return rebuilt, nil
}

// DeleteWorkout removes a log, cascading its embedded exercise/set subtree.
func (s *workoutService) DeleteWorkout(ctx context.Context, clientID, logID primitive.ObjectID) error {
	err := s.workoutLogRepo.Delete(ctx, logID, clientID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrWorkoutLogNotFound
	}
	return err
}

// GetWeekLogs lists the client's logs for one microcycle.
func (s *workoutService) GetWeekLogs(ctx context.Context, clientID, microcycleID primitive.ObjectID) ([]domain.WorkoutDayLog, error) {
	if _, _, err := s.weekForClient(ctx, clientID, microcycleID); err != nil {
		return nil, err
	}
	return s.workoutLogRepo.GetByMicrocycleID(ctx, microcycleID)
}

// buildLog validates a submission and assembles the domain log, resolving
// the day and exercise definitions through whichever plan shape the
// mesocycle currently has.
func (s *workoutService) buildLog(ctx context.Context, clientID primitive.ObjectID, input WorkoutLogInput) (*domain.WorkoutDayLog, error) {
	if err := validateEffortScale("rpe", input.RPE); err != nil {
		return nil, err
	}
	if err := validateEffortScale("fatigue", input.Fatigue); err != nil {
		return nil, err
	}

	_, mesocycle, err := s.weekForClient(ctx, clientID, input.MicrocycleID)
	if err != nil {
		return nil, err
	}

	day, err := s.resolveDay(ctx, mesocycle, input.DayID)
	if err != nil {
		return nil, err
	}

	exerciseByID := make(map[primitive.ObjectID]domain.ClientExercise, len(day.Exercises))
	for _, ex := range day.Exercises {
		exerciseByID[ex.ID] = ex
	}

	exercises := make([]domain.ExerciseLog, 0, len(input.Exercises))
	for _, exInput := range input.Exercises {
		def, ok := exerciseByID[exInput.ExerciseID]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrExerciseNotInDay, exInput.ExerciseID.Hex())
		}
		sets := make([]domain.SetLog, 0, len(exInput.Sets))
		for _, setInput := range exInput.Sets {
			if setInput.Reps < 0 {
				return nil, fmt.Errorf("%w: reps must be >= 0", ErrValidationFailed)
			}
			if setInput.Weight < 0 {
				return nil, fmt.Errorf("%w: weight must be >= 0", ErrValidationFailed)
			}
			if setInput.RIR != nil && (*setInput.RIR < MinRIR || *setInput.RIR > MaxRIR) {
				return nil, fmt.Errorf("%w: rir must be between %d and %d", ErrValidationFailed, MinRIR, MaxRIR)
			}
			sets = append(sets, domain.SetLog{
				SetNumber: setInput.SetNumber,
				Reps:      setInput.Reps,
				Weight:    setInput.Weight,
				RIR:       setInput.RIR,
				Notes:     setInput.Notes,
			})
		}
		exercises = append(exercises, domain.ExerciseLog{
			ExerciseID:   def.ID,
			ExerciseName: def.Name,
			MuscleGroup:  def.MuscleGroup,
			Sets:         sets,
		})
	}

	return &domain.WorkoutDayLog{
		MicrocycleID:    input.MicrocycleID,
		ClientID:        clientID,
		DayID:           day.ID,
		DayName:         day.Name,
		CompletedDate:   input.CompletedDate,
		DurationMinutes: input.DurationMinutes,
		RPE:             input.RPE,
		Fatigue:         input.Fatigue,
		EmotionalState:  input.EmotionalState,
		ClientNotes:     input.ClientNotes,
		Exercises:       exercises,
		SubmissionID:    input.SubmissionID,
	}, nil
}

// ownedLog loads a workout log and verifies the client owns it.
func (s *workoutService) ownedLog(ctx context.Context, clientID, logID primitive.ObjectID) (*domain.WorkoutDayLog, error) {
	existing, err := s.workoutLogRepo.GetByID(ctx, logID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrWorkoutLogNotFound
		}
		return nil, err
	}
	if existing.ClientID != clientID {
		return nil, ErrWorkoutAccessDenied
	}
	return existing, nil
}

// weekForClient loads a microcycle and verifies it belongs to a mesocycle
// owned by the client.
func (s *workoutService) weekForClient(ctx context.Context, clientID, microcycleID primitive.ObjectID) (*domain.Microcycle, *domain.Mesocycle, error) {
	cycle, err := s.microcycleRepo.GetByID(ctx, microcycleID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, ErrMicrocycleNotFound
		}
		return nil, nil, err
	}

	mesocycle, err := s.mesocycleRepo.GetByID(ctx, cycle.MesocycleID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, ErrMesocycleNotFound
		}
		return nil, nil, err
	}
	if mesocycle.ClientID != clientID {
		return nil, nil, ErrWorkoutAccessDenied
	}
	return cycle, mesocycle, nil
}

// resolveDay finds the day definition in either plan shape, projected into
// its client-owned form.
func (s *workoutService) resolveDay(ctx context.Context, mesocycle *domain.Mesocycle, dayID primitive.ObjectID) (*domain.ClientDay, error) {
	var source domain.PlanSource
	if mesocycle.IsForked {
		source = domain.ForkedPlan{PlanTitle: mesocycle.PlanTitle, ClientDays: mesocycle.Days}
	} else {
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
		source = domain.TemplateBasedPlan{Template: template}
	}

	for _, day := range source.Days() {
		if day.ID == dayID {
			return &day, nil
		}
	}
	return nil, ErrDayNotInPlan
}

// validateEffortScale checks an optional 1-10 scale value.
func validateEffortScale(field string, value *int) error {
	if value == nil {
		return nil
	}
	if *value < MinEffortScale || *value > MaxEffortScale {
		return fmt.Errorf("%w: %s must be between %d and %d", ErrValidationFailed, field, MinEffortScale, MaxEffortScale)
	}
	return nil
}

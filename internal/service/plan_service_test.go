// internal/service/plan_service_test.go
package service

import (
	"context"
	"testing"
	"time"

	"fitcoach/periodization-app/internal/domain"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type planFixture struct {
	users       *fakeUserRepo
	templates   *fakeTemplateRepo
	mesocycles  *fakeMesocycleRepo
	microcycles *fakeMicrocycleRepo
	tx          *fakeTxRunner
	svc         PlanService
	trainerID   primitive.ObjectID
	clientID    primitive.ObjectID
	template    *domain.Template
}

func newPlanFixture(t *testing.T) *planFixture {
	t.Helper()
	f := &planFixture{
		users:       newFakeUserRepo(),
		templates:   newFakeTemplateRepo(),
		mesocycles:  newFakeMesocycleRepo(),
		microcycles: newFakeMicrocycleRepo(),
		tx:          &fakeTxRunner{},
	}
	f.svc = NewPlanService(f.users, f.templates, f.mesocycles, f.microcycles, f.tx)

	ctx := context.Background()
	trainerID, err := f.users.Create(ctx, &domain.User{
		Name:  gofakeit.Name(),
		Email: gofakeit.Email(),
		Role:  domain.RoleTrainer,
	})
	require.NoError(t, err)
	f.trainerID = trainerID

	clientID, err := f.users.Create(ctx, &domain.User{
		Name:      gofakeit.Name(),
		Email:     gofakeit.Email(),
		Role:      domain.RoleClient,
		TrainerID: &trainerID,
	})
	require.NoError(t, err)
	f.clientID = clientID

	template := sampleTemplate(trainerID)
	_, err = f.templates.Create(ctx, template)
	require.NoError(t, err)
	f.template = template

	return f
}

func sampleTemplate(trainerID primitive.ObjectID) *domain.Template {
	return &domain.Template{
		TrainerID:    trainerID,
		Title:        "Upper/Lower Split",
		NumberOfDays: 2,
		Days: []domain.TemplateDay{
			{
				DayNumber: 1,
				Name:      "Day 1: Upper Body",
				Order:     1,
				Exercises: []domain.TemplateExercise{
					{
						Name:        "Bench Press",
						MuscleGroup: domain.MuscleGroupUpperBody,
						Order:       1,
						Sets: []domain.TemplateSet{
							{SetNumber: 1, MinReps: 5, MaxReps: 8, RestSeconds: 180},
							{SetNumber: 2, MinReps: 5, MaxReps: 8, RestSeconds: 180},
						},
					},
				},
			},
			{
				DayNumber: 2,
				Name:      "Day 2: Lower Body",
				Order:     2,
				Exercises: []domain.TemplateExercise{
					{
						Name:        "Back Squat",
						MuscleGroup: domain.MuscleGroupLowerBody,
						Order:       1,
						Sets: []domain.TemplateSet{
							{SetNumber: 1, MinReps: 5, MaxReps: 5, RestSeconds: 240},
						},
					},
				},
			},
		},
	}
}

func (f *planFixture) assign(t *testing.T, weeks int) (*domain.Mesocycle, []domain.Microcycle) {
	t.Helper()
	start := time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)
	mesocycle, cycles, err := f.svc.AssignPlan(context.Background(), f.trainerID, f.clientID, f.template.ID, start, weeks, "")
	require.NoError(t, err)
	return mesocycle, cycles
}

func TestAssignPlan_CreatesContiguousWeeks(t *testing.T) {
	f := newPlanFixture(t)
	mesocycle, cycles := f.assign(t, 4)

	assert.True(t, mesocycle.IsActive)
	assert.False(t, mesocycle.IsForked)
	require.NotNil(t, mesocycle.TemplateID)
	assert.Equal(t, f.template.ID, *mesocycle.TemplateID)
	assert.Equal(t, mesocycle.StartDate.AddDate(0, 0, 27), mesocycle.EndDate)

	require.Len(t, cycles, 4)
	for i, c := range cycles {
		assert.Equal(t, i+1, c.WeekNumber)
		assert.Equal(t, c.StartDate.AddDate(0, 0, 6), c.EndDate)
		if i > 0 {
			// Each week starts the day after the previous one ends.
			assert.Equal(t, cycles[i-1].EndDate.AddDate(0, 0, 1), c.StartDate)
		}
	}
	assert.Equal(t, 1, f.tx.calls)
}

func TestAssignPlan_DeactivatesPreviousActive(t *testing.T) {
	f := newPlanFixture(t)
	first, _ := f.assign(t, 4)
	second, _ := f.assign(t, 6)

	stored, err := f.mesocycles.GetByID(context.Background(), first.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsActive)
	assert.True(t, stored.IsCompleted)
	require.NotNil(t, stored.CompletedAt)

	active, err := f.mesocycles.GetActiveByClientID(context.Background(), f.clientID)
	require.NoError(t, err)
	assert.Equal(t, second.ID, active.ID)
}

func TestAssignPlan_DurationBounds(t *testing.T) {
	f := newPlanFixture(t)
	start := time.Now().UTC()

	_, _, err := f.svc.AssignPlan(context.Background(), f.trainerID, f.clientID, f.template.ID, start, 0, "")
	assert.ErrorIs(t, err, ErrValidationFailed)

	_, _, err = f.svc.AssignPlan(context.Background(), f.trainerID, f.clientID, f.template.ID, start, 53, "")
	assert.ErrorIs(t, err, ErrValidationFailed)
}

func TestAssignPlan_RequiresManagedClient(t *testing.T) {
	f := newPlanFixture(t)
	strangerID, err := f.users.Create(context.Background(), &domain.User{
		Name:  gofakeit.Name(),
		Email: gofakeit.Email(),
		Role:  domain.RoleClient,
	})
	require.NoError(t, err)

	_, _, err = f.svc.AssignPlan(context.Background(), f.trainerID, strangerID, f.template.ID, time.Now().UTC(), 4, "")
	assert.ErrorIs(t, err, ErrClientNotManaged)
}

func TestAssignPlan_RequiresOwnedTemplate(t *testing.T) {
	f := newPlanFixture(t)
	otherTrainerID := primitive.NewObjectID()
	foreign := sampleTemplate(otherTrainerID)
	_, err := f.templates.Create(context.Background(), foreign)
	require.NoError(t, err)

	_, _, err = f.svc.AssignPlan(context.Background(), f.trainerID, f.clientID, foreign.ID, time.Now().UTC(), 4, "")
	assert.ErrorIs(t, err, ErrTemplateAccessDenied)
}

func TestFork_CopiesTemplateTree(t *testing.T) {
	f := newPlanFixture(t)
	mesocycle, _ := f.assign(t, 4)

	forked, err := f.svc.Fork(context.Background(), f.trainerID, mesocycle.ID)
	require.NoError(t, err)

	assert.True(t, forked.IsForked)
	assert.Nil(t, forked.TemplateID)
	assert.Equal(t, f.template.Title, forked.PlanTitle)
	require.Len(t, forked.Days, 2)

	// Identity carries over: a workout logged before the fork must still
	// match the same exercise after it.
	assert.Equal(t, f.template.Days[0].ID, forked.Days[0].ID)
	assert.Equal(t, f.template.Days[0].Exercises[0].ID, forked.Days[0].Exercises[0].ID)
	assert.Equal(t, "Bench Press", forked.Days[0].Exercises[0].Name)
}

func TestFork_Idempotent(t *testing.T) {
	f := newPlanFixture(t)
	mesocycle, _ := f.assign(t, 4)

	first, err := f.svc.Fork(context.Background(), f.trainerID, mesocycle.ID)
	require.NoError(t, err)
	second, err := f.svc.Fork(context.Background(), f.trainerID, mesocycle.ID)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.True(t, second.IsForked)
	assert.Equal(t, 1, f.mesocycles.markForkedCalls, "second fork must not write")
}

func TestFork_ConcurrentLoserReturnsWinnerState(t *testing.T) {
	f := newPlanFixture(t)
	mesocycle, _ := f.assign(t, 4)

	// A rival fork commits between our read and our compare-and-swap.
	f.mesocycles.beforeMarkForked = func() {
		stored := f.mesocycles.mesocycles[mesocycle.ID]
		stored.IsForked = true
		stored.TemplateID = nil
		stored.PlanTitle = f.template.Title
		stored.Days = domain.ForkDays(f.template)
	}

	forked, err := f.svc.Fork(context.Background(), f.trainerID, mesocycle.ID)
	require.NoError(t, err)
	assert.True(t, forked.IsForked)
	assert.Len(t, forked.Days, 2)
	assert.Equal(t, 1, f.mesocycles.markForkedCalls)
}

func TestFork_EditDoesNotTouchTemplate(t *testing.T) {
	f := newPlanFixture(t)
	mesocycle, _ := f.assign(t, 4)

	forked, err := f.svc.Fork(context.Background(), f.trainerID, mesocycle.ID)
	require.NoError(t, err)

	edited := forked.Days[0].Exercises[0]
	edited.Name = "Incline Bench Press"
	edited.Sets = []domain.ClientExerciseSet{{SetNumber: 1, MinReps: 10, MaxReps: 12, RestSeconds: 90}}

	_, err = f.svc.UpdateClientExercise(context.Background(), f.trainerID, mesocycle.ID, forked.Days[0].ID, edited)
	require.NoError(t, err)

	template, err := f.templates.GetByID(context.Background(), f.template.ID)
	require.NoError(t, err)
	assert.Equal(t, "Bench Press", template.Days[0].Exercises[0].Name)
	assert.Len(t, template.Days[0].Exercises[0].Sets, 2)
}

func TestFork_MissingTemplateReference(t *testing.T) {
	f := newPlanFixture(t)
	mesocycle, _ := f.assign(t, 4)

	// Corrupt the row: unforked but no template reference.
	f.mesocycles.mesocycles[mesocycle.ID].TemplateID = nil

	_, err := f.svc.Fork(context.Background(), f.trainerID, mesocycle.ID)
	assert.ErrorIs(t, err, ErrInvariantViolation)
}

func TestFork_DeniedForOtherTrainer(t *testing.T) {
	f := newPlanFixture(t)
	mesocycle, _ := f.assign(t, 4)

	_, err := f.svc.Fork(context.Background(), primitive.NewObjectID(), mesocycle.ID)
	assert.ErrorIs(t, err, ErrMesocycleAccessDenied)
}

func TestUpdateClientExercise_AutoForks(t *testing.T) {
	f := newPlanFixture(t)
	mesocycle, _ := f.assign(t, 4)
	require.False(t, mesocycle.IsForked)

	dayID := f.template.Days[1].ID
	edited := domain.ClientExercise{
		ID:          f.template.Days[1].Exercises[0].ID,
		Name:        "Front Squat",
		MuscleGroup: domain.MuscleGroupLowerBody,
		Order:       1,
		Sets:        []domain.ClientExerciseSet{{SetNumber: 1, MinReps: 8, MaxReps: 10, RestSeconds: 180}},
	}

	updated, err := f.svc.UpdateClientExercise(context.Background(), f.trainerID, mesocycle.ID, dayID, edited)
	require.NoError(t, err)

	assert.True(t, updated.IsForked)
	assert.Nil(t, updated.TemplateID)
	assert.Equal(t, "Front Squat", updated.Days[1].Exercises[0].Name)
	// The untouched day still mirrors the template.
	assert.Equal(t, "Bench Press", updated.Days[0].Exercises[0].Name)
}

func TestUpdateClientExercise_RejectsUnknownMuscleGroup(t *testing.T) {
	f := newPlanFixture(t)
	mesocycle, _ := f.assign(t, 4)

	_, err := f.svc.UpdateClientExercise(context.Background(), f.trainerID, mesocycle.ID, f.template.Days[0].ID, domain.ClientExercise{
		ID:          f.template.Days[0].Exercises[0].ID,
		Name:        "Bench Press",
		MuscleGroup: domain.MuscleGroup("ARMS"),
	})
	assert.ErrorIs(t, err, ErrValidationFailed)
}

func TestGetMesocycle_AllowsOwningClientAndTrainer(t *testing.T) {
	f := newPlanFixture(t)
	mesocycle, _ := f.assign(t, 3)

	_, cycles, err := f.svc.GetMesocycle(context.Background(), f.trainerID, mesocycle.ID)
	require.NoError(t, err)
	assert.Len(t, cycles, 3)

	_, _, err = f.svc.GetMesocycle(context.Background(), f.clientID, mesocycle.ID)
	require.NoError(t, err)

	_, _, err = f.svc.GetMesocycle(context.Background(), primitive.NewObjectID(), mesocycle.ID)
	assert.ErrorIs(t, err, ErrMesocycleAccessDenied)
}

func TestPlanSourceFor_ResolvesBothShapes(t *testing.T) {
	f := newPlanFixture(t)
	mesocycle, _ := f.assign(t, 4)

	source, err := f.svc.PlanSourceFor(context.Background(), mesocycle)
	require.NoError(t, err)
	assert.False(t, source.Forked())
	assert.Equal(t, f.template.Title, source.Title())
	assert.Equal(t, 2, source.DayCount())

	forked, err := f.svc.Fork(context.Background(), f.trainerID, mesocycle.ID)
	require.NoError(t, err)

	source, err = f.svc.PlanSourceFor(context.Background(), forked)
	require.NoError(t, err)
	assert.True(t, source.Forked())
	assert.Equal(t, f.template.Title, source.Title())
	assert.Len(t, source.Days(), 2)
}

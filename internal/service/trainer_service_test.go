// internal/service/trainer_service_test.go
package service

import (
	"context"
	"testing"

	"fitcoach/periodization-app/internal/domain"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newTrainerFixture(t *testing.T) (TrainerService, *fakeUserRepo, *fakeTemplateRepo, primitive.ObjectID) {
	t.Helper()
	users := newFakeUserRepo()
	templates := newFakeTemplateRepo()
	svc := NewTrainerService(users, templates)

	trainerID, err := users.Create(context.Background(), &domain.User{
		Name:  gofakeit.Name(),
		Email: gofakeit.Email(),
		Role:  domain.RoleTrainer,
	})
	require.NoError(t, err)
	return svc, users, templates, trainerID
}

func TestAddClientByEmail_LinksBothDirections(t *testing.T) {
	svc, users, _, trainerID := newTrainerFixture(t)
	email := gofakeit.Email()
	clientID, err := users.Create(context.Background(), &domain.User{
		Name:  gofakeit.Name(),
		Email: email,
		Role:  domain.RoleClient,
	})
	require.NoError(t, err)

	client, err := svc.AddClientByEmail(context.Background(), trainerID, email)
	require.NoError(t, err)
	require.NotNil(t, client.TrainerID)
	assert.Equal(t, trainerID, *client.TrainerID)

	trainer, err := users.GetByID(context.Background(), trainerID)
	require.NoError(t, err)
	assert.Contains(t, trainer.ClientIDs, clientID)
}

func TestAddClientByEmail_AlreadyMineIsIdempotent(t *testing.T) {
	svc, users, _, trainerID := newTrainerFixture(t)
	email := gofakeit.Email()
	_, err := users.Create(context.Background(), &domain.User{
		Name:      gofakeit.Name(),
		Email:     email,
		Role:      domain.RoleClient,
		TrainerID: &trainerID,
	})
	require.NoError(t, err)

	client, err := svc.AddClientByEmail(context.Background(), trainerID, email)
	require.NoError(t, err)
	assert.Equal(t, trainerID, *client.TrainerID)
}

func TestAddClientByEmail_Failures(t *testing.T) {
	svc, users, _, trainerID := newTrainerFixture(t)
	ctx := context.Background()

	_, err := svc.AddClientByEmail(ctx, trainerID, "nobody@example.com")
	assert.ErrorIs(t, err, ErrClientNotFound)

	trainerEmail := gofakeit.Email()
	_, err = users.Create(ctx, &domain.User{Name: gofakeit.Name(), Email: trainerEmail, Role: domain.RoleTrainer})
	require.NoError(t, err)
	_, err = svc.AddClientByEmail(ctx, trainerID, trainerEmail)
	assert.ErrorIs(t, err, ErrClientNotRole)

	otherTrainer := primitive.NewObjectID()
	takenEmail := gofakeit.Email()
	_, err = users.Create(ctx, &domain.User{Name: gofakeit.Name(), Email: takenEmail, Role: domain.RoleClient, TrainerID: &otherTrainer})
	require.NoError(t, err)
	_, err = svc.AddClientByEmail(ctx, trainerID, takenEmail)
	assert.ErrorIs(t, err, ErrClientAlreadyAssigned)
}

func TestCreateTemplate_Validation(t *testing.T) {
	svc, _, _, trainerID := newTrainerFixture(t)
	ctx := context.Background()

	_, err := svc.CreateTemplate(ctx, trainerID, "", sampleTemplate(trainerID).Days)
	assert.ErrorIs(t, err, ErrValidationFailed)

	_, err = svc.CreateTemplate(ctx, trainerID, "Empty", nil)
	assert.ErrorIs(t, err, ErrValidationFailed)

	days := sampleTemplate(trainerID).Days
	days[0].Exercises[0].MuscleGroup = domain.MuscleGroup("NECK")
	_, err = svc.CreateTemplate(ctx, trainerID, "Bad Group", days)
	assert.ErrorIs(t, err, ErrValidationFailed)
}

func TestCreateTemplate_SetsDerivedFields(t *testing.T) {
	svc, _, _, trainerID := newTrainerFixture(t)

	template, err := svc.CreateTemplate(context.Background(), trainerID, "Upper/Lower Split", sampleTemplate(trainerID).Days)
	require.NoError(t, err)
	assert.False(t, template.ID.IsZero())
	assert.Equal(t, 2, template.NumberOfDays)
	assert.Equal(t, trainerID, template.TrainerID)
}

func TestUpdateTemplate_OwnershipAndNotFound(t *testing.T) {
	svc, _, templates, trainerID := newTrainerFixture(t)
	ctx := context.Background()

	template, err := svc.CreateTemplate(ctx, trainerID, "Upper/Lower Split", sampleTemplate(trainerID).Days)
	require.NoError(t, err)

	_, err = svc.UpdateTemplate(ctx, primitive.NewObjectID(), template)
	assert.ErrorIs(t, err, ErrTemplateAccessDenied)

	missing := *template
	missing.ID = primitive.NewObjectID()
	_, err = svc.UpdateTemplate(ctx, trainerID, &missing)
	assert.ErrorIs(t, err, ErrTemplateNotFound)

	template.Title = "Renamed Split"
	updated, err := svc.UpdateTemplate(ctx, trainerID, template)
	require.NoError(t, err)
	assert.Equal(t, "Renamed Split", updated.Title)

	stored, err := templates.GetByID(ctx, template.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed Split", stored.Title)
}

func TestArchiveTemplate_HidesFromLibrary(t *testing.T) {
	svc, _, _, trainerID := newTrainerFixture(t)
	ctx := context.Background()

	template, err := svc.CreateTemplate(ctx, trainerID, "Upper/Lower Split", sampleTemplate(trainerID).Days)
	require.NoError(t, err)

	require.NoError(t, svc.ArchiveTemplate(ctx, trainerID, template.ID))

	listed, err := svc.GetTemplates(ctx, trainerID)
	require.NoError(t, err)
	assert.Empty(t, listed)

	assert.ErrorIs(t, svc.ArchiveTemplate(ctx, trainerID, primitive.NewObjectID()), ErrTemplateNotFound)
}

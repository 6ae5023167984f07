package service

import (
	"context"
	"errors"
	"fmt"

	"fitcoach/periodization-app/internal/domain"
	"fitcoach/periodization-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrClientNotFound        = errors.New("client user not found")
	ErrClientNotRole         = errors.New("user found but is not a client")
	ErrClientAlreadyAssigned = errors.New("client is already assigned to a trainer")
	ErrClientNotManaged      = errors.New("client is not managed by this trainer")
	ErrTemplateNotFound      = errors.New("template not found")
	ErrTemplateAccessDenied  = errors.New("access denied to this template")
	ErrValidationFailed      = errors.New("validation failed")
)

// TrainerService covers the trainer's roster and template library: linking
// clients and authoring the shared plan structures that mesocycles are
// assigned from.
type TrainerService interface {
	// Client Management
	AddClientByEmail(ctx context.Context, trainerID primitive.ObjectID, clientEmail string) (*domain.User, error)
	GetManagedClients(ctx context.Context, trainerID primitive.ObjectID) ([]domain.User, error)

	// Template Library
	CreateTemplate(ctx context.Context, trainerID primitive.ObjectID, title string, days []domain.TemplateDay) (*domain.Template, error)
	GetTemplates(ctx context.Context, trainerID primitive.ObjectID) ([]domain.Template, error)
	UpdateTemplate(ctx context.Context, trainerID primitive.ObjectID, template *domain.Template) (*domain.Template, error)
	ArchiveTemplate(ctx context.Context, trainerID, templateID primitive.ObjectID) error
}

// trainerService implements the TrainerService interface.
type trainerService struct {
	userRepo     repository.UserRepository
	templateRepo repository.TemplateRepository
}

// NewTrainerService creates a new instance of trainerService.
func NewTrainerService(
	userRepo repository.UserRepository,
	templateRepo repository.TemplateRepository,
) TrainerService {
	return &trainerService{
		userRepo:     userRepo,
		templateRepo: templateRepo,
	}
}

// === Client Management ===

// AddClientByEmail finds a client by email and links them to the trainer.
func (s *trainerService) AddClientByEmail(ctx context.Context, trainerID primitive.ObjectID, clientEmail string) (*domain.User, error) {
	if trainerID == primitive.NilObjectID || clientEmail == "" {
		return nil, errors.New("trainer ID and client email are required")
	}

	client, err := s.userRepo.GetByEmail(ctx, clientEmail)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}

	if client.Role != domain.RoleClient {
		return nil, ErrClientNotRole
	}

	if client.TrainerID != nil && *client.TrainerID != primitive.NilObjectID {
		if *client.TrainerID == trainerID {
			// Already coached by this trainer; treat as success.
			return client, nil
		}
		return nil, ErrClientAlreadyAssigned
	}

	// Link both directions: client id onto the trainer's roster, trainer id
	// onto the client record.
	if err := s.userRepo.AddClientIDToTrainer(ctx, trainerID, client.ID); err != nil {
		return nil, err
	}
	if err := s.userRepo.SetTrainerForClient(ctx, client.ID, trainerID); err != nil {
		return nil, err
	}

	client.TrainerID = &trainerID
	return client, nil
}

// GetManagedClients retrieves the list of clients coached by the trainer.
func (s *trainerService) GetManagedClients(ctx context.Context, trainerID primitive.ObjectID) ([]domain.User, error) {
	if trainerID == primitive.NilObjectID {
		return nil, errors.New("trainer ID is required")
	}
	clients, err := s.userRepo.GetClientsByTrainerID(ctx, trainerID)
	if err != nil {
		return nil, err
	}
	// Clear password hashes before returning
	for i := range clients {
		clients[i].PasswordHash = ""
	}
	return clients, nil
}

// === Template Library ===

// CreateTemplate stores a new reusable plan structure for the trainer.
func (s *trainerService) CreateTemplate(ctx context.Context, trainerID primitive.ObjectID, title string, days []domain.TemplateDay) (*domain.Template, error) {
	if trainerID == primitive.NilObjectID {
		return nil, errors.New("trainer ID is required")
	}
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrValidationFailed)
	}
	if len(days) == 0 {
		return nil, fmt.Errorf("%w: a template needs at least one day", ErrValidationFailed)
	}
	for _, day := range days {
		for _, ex := range day.Exercises {
			if !ex.MuscleGroup.IsValid() {
				return nil, fmt.Errorf("%w: unknown muscle group %q on exercise %q", ErrValidationFailed, ex.MuscleGroup, ex.Name)
			}
		}
	}

	template := &domain.Template{
		TrainerID:    trainerID,
		Title:        title,
		NumberOfDays: len(days),
		Days:         days,
	}

	templateID, err := s.templateRepo.Create(ctx, template)
	if err != nil {
		return nil, err
	}
	template.ID = templateID
	return template, nil
}

// GetTemplates retrieves the trainer's non-archived templates.
func (s *trainerService) GetTemplates(ctx context.Context, trainerID primitive.ObjectID) ([]domain.Template, error) {
	if trainerID == primitive.NilObjectID {
		return nil, errors.New("trainer ID is required")
	}
	return s.templateRepo.GetByTrainerID(ctx, trainerID)
}

// UpdateTemplate replaces the mutable parts of a template the trainer owns.
// Mesocycles still referencing the template see the new structure; forked
// ones are untouched by definition.
func (s *trainerService) UpdateTemplate(ctx context.Context, trainerID primitive.ObjectID, template *domain.Template) (*domain.Template, error) {
	existing, err := s.templateRepo.GetByID(ctx, template.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTemplateNotFound
		}
		return nil, err
	}
	if existing.TrainerID != trainerID {
		return nil, ErrTemplateAccessDenied
	}

	template.TrainerID = trainerID
	template.NumberOfDays = len(template.Days)
	if err := s.templateRepo.Update(ctx, template); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTemplateNotFound
		}
		return nil, err
	}
	return template, nil
}

// ArchiveTemplate soft-deletes a template from the trainer's library.
func (s *trainerService) ArchiveTemplate(ctx context.Context, trainerID, templateID primitive.ObjectID) error {
	err := s.templateRepo.Archive(ctx, templateID, trainerID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrTemplateNotFound
	}
	return err
}

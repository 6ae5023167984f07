// internal/api/trainer_handler.go
package api

import (
	"errors"
	"net/http"
	"time"

	"fitcoach/periodization-app/internal/domain"
	"fitcoach/periodization-app/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TrainerHandler holds the trainer service dependency.
type TrainerHandler struct {
	trainerService service.TrainerService
}

// NewTrainerHandler creates a new TrainerHandler.
func NewTrainerHandler(trainerService service.TrainerService) *TrainerHandler {
	return &TrainerHandler{trainerService: trainerService}
}

// --- DTOs ---

type AddClientRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type TemplateSetRequest struct {
	SetNumber   int `json:"setNumber" binding:"required,min=1"`
	MinReps     int `json:"minReps" binding:"required,min=1"`
	MaxReps     int `json:"maxReps" binding:"required,min=1"`
	RestSeconds int `json:"restSeconds" binding:"min=0"`
}

type TemplateExerciseRequest struct {
	Name           string               `json:"name" binding:"required"`
	Description    string               `json:"description"`
	VideoURL       string               `json:"videoUrl" binding:"omitempty,url"`
	TrainerComment string               `json:"trainerComment"`
	MuscleGroup    string               `json:"muscleGroup" binding:"required"`
	Order          int                  `json:"order"`
	Sets           []TemplateSetRequest `json:"sets" binding:"required,min=1,dive"`
}

type TemplateDayRequest struct {
	DayNumber   int                       `json:"dayNumber" binding:"required,min=1"`
	Name        string                    `json:"name" binding:"required"`
	Description string                    `json:"description"`
	Order       int                       `json:"order"`
	Exercises   []TemplateExerciseRequest `json:"exercises" binding:"required,min=1,dive"`
}

type CreateTemplateRequest struct {
	Title string               `json:"title" binding:"required"`
	Days  []TemplateDayRequest `json:"days" binding:"required,min=1,dive"`
}

type UpdateTemplateRequest struct {
	Title string               `json:"title" binding:"required"`
	Days  []TemplateDayRequest `json:"days" binding:"required,min=1,dive"`
}

// TemplateResponse is the DTO for returning a full template tree.
type TemplateResponse struct {
	ID           string               `json:"id"`
	TrainerID    string               `json:"trainerId"`
	Title        string               `json:"title"`
	NumberOfDays int                  `json:"numberOfDays"`
	Archived     bool                 `json:"archived"`
	Days         []domain.TemplateDay `json:"days"`
	CreatedAt    time.Time            `json:"createdAt"`
	UpdatedAt    time.Time            `json:"updatedAt"`
}

// MapTemplateToResponse converts a domain.Template to its DTO.
func MapTemplateToResponse(t *domain.Template) TemplateResponse {
	if t == nil {
		return TemplateResponse{}
	}
	return TemplateResponse{
		ID:           t.ID.Hex(),
		TrainerID:    t.TrainerID.Hex(),
		Title:        t.Title,
		NumberOfDays: t.NumberOfDays,
		Archived:     t.Archived,
		Days:         t.Days,
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
	}
}

func mapTemplateDaysFromRequest(reqDays []TemplateDayRequest) []domain.TemplateDay {
	days := make([]domain.TemplateDay, 0, len(reqDays))
	for _, d := range reqDays {
		day := domain.TemplateDay{
			DayNumber:   d.DayNumber,
			Name:        d.Name,
			Description: d.Description,
			Order:       d.Order,
			Exercises:   make([]domain.TemplateExercise, 0, len(d.Exercises)),
		}
		for _, e := range d.Exercises {
			ex := domain.TemplateExercise{
				Name:           e.Name,
				Description:    e.Description,
				VideoURL:       e.VideoURL,
				TrainerComment: e.TrainerComment,
				MuscleGroup:    domain.MuscleGroup(e.MuscleGroup),
				Order:          e.Order,
				Sets:           make([]domain.TemplateSet, 0, len(e.Sets)),
			}
			for _, s := range e.Sets {
				ex.Sets = append(ex.Sets, domain.TemplateSet{
					SetNumber:   s.SetNumber,
					MinReps:     s.MinReps,
					MaxReps:     s.MaxReps,
					RestSeconds: s.RestSeconds,
				})
			}
			day.Exercises = append(day.Exercises, ex)
		}
		days = append(days, day)
	}
	return days
}

// --- Handler Methods ---

// AddClientByEmail links an existing client account to the trainer.
func (h *TrainerHandler) AddClientByEmail(c *gin.Context) {
	var req AddClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	trainerID, err := getCallerObjectID(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify trainer from token.")
		return
	}

	client, err := h.trainerService.AddClientByEmail(c.Request.Context(), trainerID, req.Email)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrClientNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrClientNotRole), errors.Is(err, service.ErrClientAlreadyAssigned):
			abortWithError(c, http.StatusConflict, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to add client.")
		}
		return
	}

	c.JSON(http.StatusOK, MapUserToResponse(client))
}

// GetManagedClients lists the trainer's clients.
func (h *TrainerHandler) GetManagedClients(c *gin.Context) {
	trainerID, err := getCallerObjectID(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify trainer from token.")
		return
	}

	clients, err := h.trainerService.GetManagedClients(c.Request.Context(), trainerID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve clients.")
		return
	}

	responses := make([]UserResponse, len(clients))
	for i := range clients {
		responses[i] = MapUserToResponse(&clients[i])
	}
	c.JSON(http.StatusOK, responses)
}

// CreateTemplate stores a new reusable plan template.
func (h *TrainerHandler) CreateTemplate(c *gin.Context) {
	var req CreateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	trainerID, err := getCallerObjectID(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify trainer from token.")
		return
	}

	template, err := h.trainerService.CreateTemplate(c.Request.Context(), trainerID, req.Title, mapTemplateDaysFromRequest(req.Days))
	if err != nil {
		if errors.Is(err, service.ErrValidationFailed) {
			abortWithError(c, http.StatusBadRequest, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to create template.")
		}
		return
	}

	c.JSON(http.StatusCreated, MapTemplateToResponse(template))
}

// GetTemplates lists the trainer's non-archived templates.
func (h *TrainerHandler) GetTemplates(c *gin.Context) {
	trainerID, err := getCallerObjectID(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify trainer from token.")
		return
	}

	templates, err := h.trainerService.GetTemplates(c.Request.Context(), trainerID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve templates.")
		return
	}

	responses := make([]TemplateResponse, len(templates))
	for i := range templates {
		responses[i] = MapTemplateToResponse(&templates[i])
	}
	c.JSON(http.StatusOK, responses)
}

// UpdateTemplate replaces a template's structure.
func (h *TrainerHandler) UpdateTemplate(c *gin.Context) {
	templateID, err := primitive.ObjectIDFromHex(c.Param("templateId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid template ID format.")
		return
	}

	var req UpdateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	trainerID, err := getCallerObjectID(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify trainer from token.")
		return
	}

	template := &domain.Template{
		ID:    templateID,
		Title: req.Title,
		Days:  mapTemplateDaysFromRequest(req.Days),
	}
	updated, err := h.trainerService.UpdateTemplate(c.Request.Context(), trainerID, template)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTemplateNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrTemplateAccessDenied):
			abortWithError(c, http.StatusForbidden, err.Error())
		case errors.Is(err, service.ErrValidationFailed):
			abortWithError(c, http.StatusBadRequest, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to update template.")
		}
		return
	}

	c.JSON(http.StatusOK, MapTemplateToResponse(updated))
}

// ArchiveTemplate soft-deletes a template.
func (h *TrainerHandler) ArchiveTemplate(c *gin.Context) {
	templateID, err := primitive.ObjectIDFromHex(c.Param("templateId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid template ID format.")
		return
	}

	trainerID, err := getCallerObjectID(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify trainer from token.")
		return
	}

	if err := h.trainerService.ArchiveTemplate(c.Request.Context(), trainerID, templateID); err != nil {
		if errors.Is(err, service.ErrTemplateNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to archive template.")
		}
		return
	}

	c.Status(http.StatusNoContent)
}

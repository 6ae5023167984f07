// internal/api/plan_handler.go
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

// PlanHandler holds the plan service dependency.
type PlanHandler struct {
	planService service.PlanService
}

// NewPlanHandler creates a new PlanHandler.
func NewPlanHandler(planService service.PlanService) *PlanHandler {
	return &PlanHandler{planService: planService}
}

// --- DTOs ---

type AssignPlanRequest struct {
	ClientID      string    `json:"clientId" binding:"required"`
	TemplateID    string    `json:"templateId" binding:"required"`
	StartDate     time.Time `json:"startDate" binding:"required"`
	DurationWeeks int       `json:"durationWeeks" binding:"required"`
	TrainerNotes  string    `json:"trainerNotes"`
}

type UpdateClientSetRequest struct {
	SetNumber   int `json:"setNumber" binding:"required,min=1"`
	MinReps     int `json:"minReps" binding:"required,min=1"`
	MaxReps     int `json:"maxReps" binding:"required,min=1"`
	RestSeconds int `json:"restSeconds" binding:"min=0"`
}

type UpdateClientExerciseRequest struct {
	Name           string                   `json:"name" binding:"required"`
	Description    string                   `json:"description"`
	VideoURL       string                   `json:"videoUrl" binding:"omitempty,url"`
	TrainerComment string                   `json:"trainerComment"`
	MuscleGroup    string                   `json:"muscleGroup" binding:"required"`
	Order          int                      `json:"order"`
	Sets           []UpdateClientSetRequest `json:"sets" binding:"required,min=1,dive"`
}

// MicrocycleResponse is one week window of a mesocycle.
type MicrocycleResponse struct {
	ID         string    `json:"id"`
	WeekNumber int       `json:"weekNumber"`
	StartDate  time.Time `json:"startDate"`
	EndDate    time.Time `json:"endDate"`
}

// PlanResponse is the resolved plan the mesocycle trains against: either a
// projection of the shared template or the mesocycle's private forked copy.
type PlanResponse struct {
	Title    string             `json:"title"`
	Forked   bool               `json:"forked"`
	DayCount int                `json:"dayCount"`
	Days     []domain.ClientDay `json:"days"`
}

// MesocycleResponse is the DTO for returning a mesocycle with its weeks.
type MesocycleResponse struct {
	ID            string               `json:"id"`
	ClientID      string               `json:"clientId"`
	TrainerID     string               `json:"trainerId"`
	TemplateID    *string              `json:"templateId,omitempty"`
	StartDate     time.Time            `json:"startDate"`
	EndDate       time.Time            `json:"endDate"`
	DurationWeeks int                  `json:"durationWeeks"`
	IsActive      bool                 `json:"isActive"`
	IsCompleted   bool                 `json:"isCompleted"`
	IsForked      bool                 `json:"isForked"`
	TrainerNotes  string               `json:"trainerNotes,omitempty"`
	Plan          *PlanResponse        `json:"plan,omitempty"`
	Microcycles   []MicrocycleResponse `json:"microcycles,omitempty"`
	CreatedAt     time.Time            `json:"createdAt"`
	UpdatedAt     time.Time            `json:"updatedAt"`
}

// MapMesocycleToResponse converts a mesocycle plus its weeks and resolved
// plan source into the response DTO.
func MapMesocycleToResponse(m *domain.Mesocycle, cycles []domain.Microcycle, source domain.PlanSource) MesocycleResponse {
	if m == nil {
		return MesocycleResponse{}
	}

	resp := MesocycleResponse{
		ID:            m.ID.Hex(),
		ClientID:      m.ClientID.Hex(),
		TrainerID:     m.TrainerID.Hex(),
		StartDate:     m.StartDate,
		EndDate:       m.EndDate,
		DurationWeeks: m.DurationWeeks,
		IsActive:      m.IsActive,
		IsCompleted:   m.IsCompleted,
		IsForked:      m.IsForked,
		TrainerNotes:  m.TrainerNotes,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
	if m.TemplateID != nil {
		hex := m.TemplateID.Hex()
		resp.TemplateID = &hex
	}
	if source != nil {
		resp.Plan = &PlanResponse{
			Title:    source.Title(),
			Forked:   source.Forked(),
			DayCount: source.DayCount(),
			Days:     source.Days(),
		}
	}
	if len(cycles) > 0 {
		resp.Microcycles = make([]MicrocycleResponse, len(cycles))
		for i, c := range cycles {
			resp.Microcycles[i] = MicrocycleResponse{
				ID:         c.ID.Hex(),
				WeekNumber: c.WeekNumber,
				StartDate:  c.StartDate,
				EndDate:    c.EndDate,
			}
		}
	}
	return resp
}

// --- Handler Methods ---

// AssignPlan starts a client on a template-backed mesocycle.
func (h *PlanHandler) AssignPlan(c *gin.Context) {
	var req AssignPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	clientID, err := primitive.ObjectIDFromHex(req.ClientID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid client ID format.")
		return
	}
	templateID, err := primitive.ObjectIDFromHex(req.TemplateID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid template ID format.")
		return
	}

	trainerID, err := getCallerObjectID(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify trainer from token.")
		return
	}

	mesocycle, cycles, err := h.planService.AssignPlan(c.Request.Context(), trainerID, clientID, templateID, req.StartDate, req.DurationWeeks, req.TrainerNotes)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrClientNotFound), errors.Is(err, service.ErrTemplateNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrClientNotManaged), errors.Is(err, service.ErrTemplateAccessDenied):
			abortWithError(c, http.StatusForbidden, err.Error())
		case errors.Is(err, service.ErrValidationFailed):
			abortWithError(c, http.StatusBadRequest, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to assign plan.")
		}
		return
	}

	c.JSON(http.StatusCreated, MapMesocycleToResponse(mesocycle, cycles, nil))
}

// GetMesocycle returns a mesocycle with its weeks and resolved plan. Served
// to both the owning trainer and the owning client.
func (h *PlanHandler) GetMesocycle(c *gin.Context) {
	mesocycleID, err := primitive.ObjectIDFromHex(c.Param("mesocycleId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid mesocycle ID format.")
		return
	}

	callerID, err := getCallerObjectID(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify caller from token.")
		return
	}

	mesocycle, cycles, err := h.planService.GetMesocycle(c.Request.Context(), callerID, mesocycleID)
	if err != nil {
		h.handlePlanError(c, err, "Failed to retrieve mesocycle.")
		return
	}

	source, err := h.planService.PlanSourceFor(c.Request.Context(), mesocycle)
	if err != nil {
		h.handlePlanError(c, err, "Failed to resolve plan.")
		return
	}

	c.JSON(http.StatusOK, MapMesocycleToResponse(mesocycle, cycles, source))
}

// ForkPlan detaches the mesocycle's plan into a private copy. Safe to call
// twice; the second call returns the already-forked state.
func (h *PlanHandler) ForkPlan(c *gin.Context) {
	mesocycleID, err := primitive.ObjectIDFromHex(c.Param("mesocycleId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid mesocycle ID format.")
		return
	}

	trainerID, err := getCallerObjectID(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify trainer from token.")
		return
	}

	mesocycle, err := h.planService.Fork(c.Request.Context(), trainerID, mesocycleID)
	if err != nil {
		h.handlePlanError(c, err, "Failed to fork plan.")
		return
	}

	c.JSON(http.StatusOK, MapMesocycleToResponse(mesocycle, nil, domain.ForkedPlan{
		PlanTitle:  mesocycle.PlanTitle,
		ClientDays: mesocycle.Days,
	}))
}

// UpdateClientExercise edits one exercise of the client's plan, forking it
// first when the plan is still template-backed.
func (h *PlanHandler) UpdateClientExercise(c *gin.Context) {
	mesocycleID, err := primitive.ObjectIDFromHex(c.Param("mesocycleId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid mesocycle ID format.")
		return
	}
	dayID, err := primitive.ObjectIDFromHex(c.Param("dayId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid day ID format.")
		return
	}
	exerciseID, err := primitive.ObjectIDFromHex(c.Param("exerciseId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid exercise ID format.")
		return
	}

	var req UpdateClientExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	trainerID, err := getCallerObjectID(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify trainer from token.")
		return
	}

	exercise := domain.ClientExercise{
		ID:             exerciseID,
		Name:           req.Name,
		Description:    req.Description,
		VideoURL:       req.VideoURL,
		TrainerComment: req.TrainerComment,
		MuscleGroup:    domain.MuscleGroup(req.MuscleGroup),
		Order:          req.Order,
		Sets:           make([]domain.ClientExerciseSet, 0, len(req.Sets)),
	}
	for _, s := range req.Sets {
		exercise.Sets = append(exercise.Sets, domain.ClientExerciseSet{
			SetNumber:   s.SetNumber,
			MinReps:     s.MinReps,
			MaxReps:     s.MaxReps,
			RestSeconds: s.RestSeconds,
		})
	}

	mesocycle, err := h.planService.UpdateClientExercise(c.Request.Context(), trainerID, mesocycleID, dayID, exercise)
	if err != nil {
		h.handlePlanError(c, err, "Failed to update exercise.")
		return
	}

	c.JSON(http.StatusOK, MapMesocycleToResponse(mesocycle, nil, domain.ForkedPlan{
		PlanTitle:  mesocycle.PlanTitle,
		ClientDays: mesocycle.Days,
	}))
}

// handlePlanError maps plan service errors onto HTTP status codes.
func (h *PlanHandler) handlePlanError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrMesocycleNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrMesocycleAccessDenied):
		abortWithError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrValidationFailed):
		abortWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrInvariantViolation):
		abortWithError(c, http.StatusInternalServerError, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, fallback)
	}
}

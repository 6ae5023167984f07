// internal/api/workout_handler.go
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

// WorkoutHandler holds the workout service dependency.
type WorkoutHandler struct {
	workoutService service.WorkoutService
}

// NewWorkoutHandler creates a new WorkoutHandler.
func NewWorkoutHandler(workoutService service.WorkoutService) *WorkoutHandler {
	return &WorkoutHandler{workoutService: workoutService}
}

// --- DTOs ---

type LogSetRequest struct {
	SetNumber int     `json:"setNumber" binding:"required,min=1"`
	Reps      int     `json:"reps" binding:"min=0"`
	Weight    float64 `json:"weight" binding:"min=0"`
	RIR       *int    `json:"rir"`
	Notes     string  `json:"notes"`
}

type LogExerciseRequest struct {
	ExerciseID string          `json:"exerciseId" binding:"required"`
	Sets       []LogSetRequest `json:"sets" binding:"required,min=1,dive"`
}

type LogWorkoutRequest struct {
	MicrocycleID    string               `json:"microcycleId" binding:"required"`
	DayID           string               `json:"dayId" binding:"required"`
	CompletedDate   time.Time            `json:"completedDate" binding:"required"`
	DurationMinutes int                  `json:"durationMinutes" binding:"min=0"`
	RPE             *int                 `json:"rpe"`
	Fatigue         *int                 `json:"fatigue"`
	EmotionalState  string               `json:"emotionalState"`
	ClientNotes     string               `json:"clientNotes"`
	Exercises       []LogExerciseRequest `json:"exercises" binding:"required,min=1,dive"`
	SubmissionID    string               `json:"submissionId"`
}

// UpdateWorkoutRequest edits an existing log. The week and day binding of the
// log is fixed at creation, so they are not part of the edit payload.
type UpdateWorkoutRequest struct {
	CompletedDate   time.Time            `json:"completedDate" binding:"required"`
	DurationMinutes int                  `json:"durationMinutes" binding:"min=0"`
	RPE             *int                 `json:"rpe"`
	Fatigue         *int                 `json:"fatigue"`
	EmotionalState  string               `json:"emotionalState"`
	ClientNotes     string               `json:"clientNotes"`
	Exercises       []LogExerciseRequest `json:"exercises" binding:"required,min=1,dive"`
}

// WorkoutLogResponse is the DTO for returning a full workout log.
type WorkoutLogResponse struct {
	ID              string               `json:"id"`
	MicrocycleID    string               `json:"microcycleId"`
	ClientID        string               `json:"clientId"`
	DayID           string               `json:"dayId"`
	DayName         string               `json:"dayName"`
	CompletedDate   time.Time            `json:"completedDate"`
	DurationMinutes int                  `json:"durationMinutes,omitempty"`
	RPE             *int                 `json:"rpe,omitempty"`
	Fatigue         *int                 `json:"fatigue,omitempty"`
	EmotionalState  string               `json:"emotionalState,omitempty"`
	ClientNotes     string               `json:"clientNotes,omitempty"`
	Exercises       []domain.ExerciseLog `json:"exercises"`
	SubmissionID    string               `json:"submissionId,omitempty"`
	CreatedAt       time.Time            `json:"createdAt"`
	UpdatedAt       time.Time            `json:"updatedAt"`
}

// MapWorkoutLogToResponse converts a domain log to its DTO.
func MapWorkoutLogToResponse(l *domain.WorkoutDayLog) WorkoutLogResponse {
	if l == nil {
		return WorkoutLogResponse{}
	}
	return WorkoutLogResponse{
		ID:              l.ID.Hex(),
		MicrocycleID:    l.MicrocycleID.Hex(),
		ClientID:        l.ClientID.Hex(),
		DayID:           l.DayID.Hex(),
		DayName:         l.DayName,
		CompletedDate:   l.CompletedDate,
		DurationMinutes: l.DurationMinutes,
		RPE:             l.RPE,
		Fatigue:         l.Fatigue,
		EmotionalState:  l.EmotionalState,
		ClientNotes:     l.ClientNotes,
		Exercises:       l.Exercises,
		SubmissionID:    l.SubmissionID,
		CreatedAt:       l.CreatedAt,
		UpdatedAt:       l.UpdatedAt,
	}
}

func mapLoggedExercises(reqExercises []LogExerciseRequest) ([]service.LoggedExerciseInput, error) {
	exercises := make([]service.LoggedExerciseInput, 0, len(reqExercises))
	for _, e := range reqExercises {
		exerciseID, err := primitive.ObjectIDFromHex(e.ExerciseID)
		if err != nil {
			return nil, errors.New("invalid exercise ID format: " + e.ExerciseID)
		}
		input := service.LoggedExerciseInput{
			ExerciseID: exerciseID,
			Sets:       make([]service.LoggedSetInput, 0, len(e.Sets)),
		}
		for _, s := range e.Sets {
			input.Sets = append(input.Sets, service.LoggedSetInput{
				SetNumber: s.SetNumber,
				Reps:      s.Reps,
				Weight:    s.Weight,
				RIR:       s.RIR,
				Notes:     s.Notes,
			})
		}
		exercises = append(exercises, input)
	}
	return exercises, nil
}

// --- Handler Methods ---

// LogWorkout records what the client performed on one training day.
func (h *WorkoutHandler) LogWorkout(c *gin.Context) {
	var req LogWorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	microcycleID, err := primitive.ObjectIDFromHex(req.MicrocycleID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid microcycle ID format.")
		return
	}
	dayID, err := primitive.ObjectIDFromHex(req.DayID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid day ID format.")
		return
	}

	clientID, err := getCallerObjectID(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify client from token.")
		return
	}

	exercises, err := mapLoggedExercises(req.Exercises)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	logEntry, err := h.workoutService.LogWorkout(c.Request.Context(), clientID, service.WorkoutLogInput{
		MicrocycleID:    microcycleID,
		DayID:           dayID,
		CompletedDate:   req.CompletedDate,
		DurationMinutes: req.DurationMinutes,
		RPE:             req.RPE,
		Fatigue:         req.Fatigue,
		EmotionalState:  req.EmotionalState,
		ClientNotes:     req.ClientNotes,
		Exercises:       exercises,
		SubmissionID:    req.SubmissionID,
	})
	if err != nil {
		h.handleWorkoutError(c, err, "Failed to log workout.")
		return
	}

	c.JSON(http.StatusCreated, MapWorkoutLogToResponse(logEntry))
}

// UpdateWorkout replaces the exercise/set subtree of an existing log.
func (h *WorkoutHandler) UpdateWorkout(c *gin.Context) {
	logID, err := primitive.ObjectIDFromHex(c.Param("logId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid log ID format.")
		return
	}

	var req UpdateWorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	clientID, err := getCallerObjectID(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify client from token.")
		return
	}

	exercises, err := mapLoggedExercises(req.Exercises)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	logEntry, err := h.workoutService.UpdateWorkout(c.Request.Context(), clientID, logID, service.WorkoutLogInput{
		CompletedDate:   req.CompletedDate,
		DurationMinutes: req.DurationMinutes,
		RPE:             req.RPE,
		Fatigue:         req.Fatigue,
		EmotionalState:  req.EmotionalState,
		ClientNotes:     req.ClientNotes,
		Exercises:       exercises,
	})
	if err != nil {
		h.handleWorkoutError(c, err, "Failed to update workout.")
		return
	}

	c.JSON(http.StatusOK, MapWorkoutLogToResponse(logEntry))
}

// DeleteWorkout removes a log and its embedded exercise/set subtree.
func (h *WorkoutHandler) DeleteWorkout(c *gin.Context) {
	logID, err := primitive.ObjectIDFromHex(c.Param("logId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid log ID format.")
		return
	}

	clientID, err := getCallerObjectID(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify client from token.")
		return
	}

	if err := h.workoutService.DeleteWorkout(c.Request.Context(), clientID, logID); err != nil {
		h.handleWorkoutError(c, err, "Failed to delete workout.")
		return
	}

	c.Status(http.StatusNoContent)
}

// GetWeekLogs lists the client's logs for one microcycle.
func (h *WorkoutHandler) GetWeekLogs(c *gin.Context) {
	microcycleID, err := primitive.ObjectIDFromHex(c.Param("microcycleId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid microcycle ID format.")
		return
	}

	clientID, err := getCallerObjectID(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify client from token.")
		return
	}

	logs, err := h.workoutService.GetWeekLogs(c.Request.Context(), clientID, microcycleID)
	if err != nil {
		h.handleWorkoutError(c, err, "Failed to retrieve workouts.")
		return
	}

	responses := make([]WorkoutLogResponse, len(logs))
	for i := range logs {
		responses[i] = MapWorkoutLogToResponse(&logs[i])
	}
	c.JSON(http.StatusOK, responses)
}

// handleWorkoutError maps workout service errors onto HTTP status codes.
func (h *WorkoutHandler) handleWorkoutError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrMicrocycleNotFound),
		errors.Is(err, service.ErrWorkoutLogNotFound),
		errors.Is(err, service.ErrMesocycleNotFound),
		errors.Is(err, service.ErrDayNotInPlan),
		errors.Is(err, service.ErrExerciseNotInDay):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrWorkoutAccessDenied):
		abortWithError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrValidationFailed):
		abortWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrInvariantViolation):
		abortWithError(c, http.StatusInternalServerError, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, fallback)
	}
}

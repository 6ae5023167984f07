// internal/api/progress_handler.go
package api

import (
	"errors"
	"net/http"
	"strconv"

	"fitcoach/periodization-app/internal/domain"
	"fitcoach/periodization-app/internal/service"

	"github.com/gin-gonic/gin"
)

// ProgressHandler holds the progress service dependency.
type ProgressHandler struct {
	progressService service.ProgressService
}

// NewProgressHandler creates a new ProgressHandler.
func NewProgressHandler(progressService service.ProgressService) *ProgressHandler {
	return &ProgressHandler{progressService: progressService}
}

// --- Handler Methods ---

// CompareProgress compares two weeks of the caller's active mesocycle.
// Query params: currentWeek and previousWeek (both or neither), criterion
// (defaults to balanced).
func (h *ProgressHandler) CompareProgress(c *gin.Context) {
	clientID, err := getCallerObjectID(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify client from token.")
		return
	}

	currentWeek, err := optionalIntQuery(c, "currentWeek")
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}
	previousWeek, err := optionalIntQuery(c, "previousWeek")
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}
	criterion := criterionQuery(c)

	report, err := h.progressService.CompareProgress(c.Request.Context(), clientID, currentWeek, previousWeek, criterion)
	if err != nil {
		h.handleProgressError(c, err, "Failed to compute progress.")
		return
	}

	c.JSON(http.StatusOK, report)
}

// ProgressHistory returns one report per consecutive pair of data-bearing
// weeks in the caller's active mesocycle, oldest first.
func (h *ProgressHandler) ProgressHistory(c *gin.Context) {
	clientID, err := getCallerObjectID(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify client from token.")
		return
	}
	criterion := criterionQuery(c)

	reports, err := h.progressService.ProgressHistory(c.Request.Context(), clientID, criterion)
	if err != nil {
		h.handleProgressError(c, err, "Failed to compute progress history.")
		return
	}

	c.JSON(http.StatusOK, reports)
}

// handleProgressError maps progress service errors onto HTTP status codes.
// Insufficient data is a 404: the resource "a comparable week pair" does not
// exist yet.
func (h *ProgressHandler) handleProgressError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrNoActiveMesocycle), errors.Is(err, service.ErrInsufficientData):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrMicrocycleNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrValidationFailed):
		abortWithError(c, http.StatusBadRequest, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, fallback)
	}
}

// optionalIntQuery parses an optional integer query parameter.
func optionalIntQuery(c *gin.Context, name string) (*int, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return nil, errors.New("query parameter " + name + " must be an integer")
	}
	return &value, nil
}

// criterionQuery reads the weighting criterion, defaulting to balanced. An
// unknown value is passed through so the service rejects it uniformly.
func criterionQuery(c *gin.Context) domain.Criterion {
	raw := c.Query("criterion")
	if raw == "" {
		return domain.CriterionBalanced
	}
	return domain.Criterion(raw)
}

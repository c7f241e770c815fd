package api

import (
	"coachhub/coaching-app/internal/domain"
	"coachhub/coaching-app/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WorkoutLogHandler serves the adherence log routes.
type WorkoutLogHandler struct {
	logService service.WorkoutLogService
}

// NewWorkoutLogHandler creates a new WorkoutLogHandler.
func NewWorkoutLogHandler(logService service.WorkoutLogService) *WorkoutLogHandler {
	return &WorkoutLogHandler{logService: logService}
}

type CreateLogRequest struct {
	ScheduleID string `json:"scheduleId" binding:"required"`
	WeekDay    string `json:"weekDay" binding:"required"`
	Comment    string `json:"comment"`
}

// CreateLog appends a completion record; client-only.
func (h *WorkoutLogHandler) CreateLog(c *gin.Context) {
	identity, err := identityFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify caller from token")
		return
	}

	var req CreateLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithCode(c, http.StatusBadRequest, CodeValidation, "Validation error: "+err.Error())
		return
	}

	scheduleID, err := primitive.ObjectIDFromHex(req.ScheduleID)
	if err != nil {
		abortWithCode(c, http.StatusBadRequest, CodeValidation, "Invalid schedule id format")
		return
	}
	day, err := domain.ParseWeekday(req.WeekDay)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	logEntry, serr := h.logService.CreateLog(c.Request.Context(), identity, scheduleID, day, req.Comment)
	if serr != nil {
		respondServiceError(c, serr)
		return
	}
	c.JSON(http.StatusCreated, logEntry)
}

// ListLogs returns the caller's visible logs: a client sees their own, a
// coach sees all owned clients'. A coach may narrow to one client with
// ?clientId=.
func (h *WorkoutLogHandler) ListLogs(c *gin.Context) {
	identity, coachID, ok := actorID(c)
	if !ok {
		return
	}

	if clientIDStr := c.Query("clientId"); clientIDStr != "" && identity.Role == domain.RoleCoach {
		clientID, err := primitive.ObjectIDFromHex(clientIDStr)
		if err != nil {
			abortWithCode(c, http.StatusBadRequest, CodeValidation, "Invalid clientId format")
			return
		}
		logs, serr := h.logService.ListLogsForClient(c.Request.Context(), coachID, clientID)
		if serr != nil {
			respondServiceError(c, serr)
			return
		}
		c.JSON(http.StatusOK, logs)
		return
	}

	logs, err := h.logService.ListLogs(c.Request.Context(), identity)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, logs)
}

// DeleteLog removes one record; coach-only.
func (h *WorkoutLogHandler) DeleteLog(c *gin.Context) {
	_, coachID, ok := actorID(c)
	if !ok {
		return
	}
	logID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.logService.DeleteLog(c.Request.Context(), coachID, logID); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

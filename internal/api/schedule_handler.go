package api

import (
	"coachhub/coaching-app/internal/domain"
	"coachhub/coaching-app/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ScheduleHandler serves one schedule domain. It is instantiated twice, for
// the workout and nutrition routes; the request contract is identical.
type ScheduleHandler[T domain.ScheduleItem] struct {
	scheduleService service.ScheduleService[T]
}

// NewScheduleHandler creates a schedule handler over the given service.
func NewScheduleHandler[T domain.ScheduleItem](scheduleService service.ScheduleService[T]) *ScheduleHandler[T] {
	return &ScheduleHandler[T]{scheduleService: scheduleService}
}

// PatchScheduleRequest is the PATCH body. With WeekDay/Operation set it is a
// day-scoped edit; otherwise Days replaces the whole document (the bulk-save
// escape hatch, unvalidated by design).
type PatchScheduleRequest[T domain.ScheduleItem] struct {
	WeekDay   string `json:"weekDay"`
	Operation string `json:"operation"`
	Items     []T    `json:"items"`

	Days map[domain.Weekday][]T `json:"days"`
}

// GetSchedule returns a schedule to its owning coach or client.
func (h *ScheduleHandler[T]) GetSchedule(c *gin.Context) {
	identity, err := identityFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify caller from token")
		return
	}
	scheduleID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	schedule, serr := h.scheduleService.Get(c.Request.Context(), identity, scheduleID)
	if serr != nil {
		respondServiceError(c, serr)
		return
	}
	c.JSON(http.StatusOK, schedule)
}

// PatchSchedule applies a day-scoped operation, or falls back to replacing
// the whole document when no operation is given.
func (h *ScheduleHandler[T]) PatchSchedule(c *gin.Context) {
	identity, err := identityFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify caller from token")
		return
	}
	scheduleID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req PatchScheduleRequest[T]
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithCode(c, http.StatusBadRequest, CodeValidation, "Validation error: "+err.Error())
		return
	}

	// Day-scoped edit when an operation is present.
	if req.Operation != "" || req.WeekDay != "" {
		day, derr := domain.ParseWeekday(req.WeekDay)
		if derr != nil {
			respondServiceError(c, derr)
			return
		}
		op, oerr := domain.ParseDayOperation(req.Operation)
		if oerr != nil {
			respondServiceError(c, oerr)
			return
		}

		schedule, serr := h.scheduleService.ApplyDayOperation(c.Request.Context(), identity, scheduleID, day, op, req.Items)
		if serr != nil {
			respondServiceError(c, serr)
			return
		}
		c.JSON(http.StatusOK, schedule)
		return
	}

	if req.Days == nil {
		abortWithCode(c, http.StatusBadRequest, CodeValidation, "Either weekDay/operation/items or days must be provided")
		return
	}

	schedule, serr := h.scheduleService.ReplaceDays(c.Request.Context(), identity, scheduleID, req.Days)
	if serr != nil {
		respondServiceError(c, serr)
		return
	}
	c.JSON(http.StatusOK, schedule)
}

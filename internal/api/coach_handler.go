package api

import (
	"coachhub/coaching-app/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CoachHandler serves the coach profile routes. All routes are self-only:
// the path id must match the authenticated coach.
type CoachHandler struct {
	coachService service.CoachService
}

// NewCoachHandler creates a new CoachHandler.
func NewCoachHandler(coachService service.CoachService) *CoachHandler {
	return &CoachHandler{coachService: coachService}
}

type UpdateCoachRequest struct {
	Name  string   `json:"name"`
	Phone string   `json:"phone"`
	Plans []string `json:"plans"`
}

type ImageUploadRequest struct {
	ContentType string `json:"contentType" binding:"required"`
}

// GetCoach returns the authenticated coach's profile.
func (h *CoachHandler) GetCoach(c *gin.Context) {
	_, coachID, ok := h.selfScoped(c)
	if !ok {
		return
	}

	coach, err := h.coachService.GetCoach(c.Request.Context(), coachID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapCoachToResponse(coach))
}

// UpdateCoach edits the coach profile and plan labels.
func (h *CoachHandler) UpdateCoach(c *gin.Context) {
	_, coachID, ok := h.selfScoped(c)
	if !ok {
		return
	}

	var req UpdateCoachRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithCode(c, http.StatusBadRequest, CodeValidation, "Validation error: "+err.Error())
		return
	}

	coach, err := h.coachService.UpdateCoach(c.Request.Context(), coachID, service.UpdateCoachInput{
		Name:  req.Name,
		Phone: req.Phone,
		Plans: req.Plans,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapCoachToResponse(coach))
}

// DeleteCoach removes the coach account, cancelling any active external
// subscription first.
func (h *CoachHandler) DeleteCoach(c *gin.Context) {
	_, coachID, ok := h.selfScoped(c)
	if !ok {
		return
	}

	if err := h.coachService.DeleteCoach(c.Request.Context(), coachID); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// NewImageUploadURL mints a presigned PUT slot for an exercise image.
func (h *CoachHandler) NewImageUploadURL(c *gin.Context) {
	_, coachID, ok := actorID(c)
	if !ok {
		return
	}

	var req ImageUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithCode(c, http.StatusBadRequest, CodeValidation, "Validation error: "+err.Error())
		return
	}

	upload, err := h.coachService.NewImageUploadURL(c.Request.Context(), coachID, req.ContentType)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, upload)
}

// selfScoped resolves the authenticated coach and enforces that the path id
// is their own.
func (h *CoachHandler) selfScoped(c *gin.Context) (service.Identity, primitive.ObjectID, bool) {
	identity, coachID, ok := actorID(c)
	if !ok {
		return service.Identity{}, primitive.NilObjectID, false
	}
	pathID, ok := parseIDParam(c, "id")
	if !ok {
		return service.Identity{}, primitive.NilObjectID, false
	}
	if pathID != coachID {
		abortWithCode(c, http.StatusForbidden, CodeForbidden, "Coaches may only access their own profile")
		return service.Identity{}, primitive.NilObjectID, false
	}
	return identity, coachID, true
}

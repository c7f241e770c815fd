package api

import (
	"coachhub/coaching-app/internal/billing"
	"coachhub/coaching-app/internal/domain"
	"coachhub/coaching-app/internal/service"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Machine-readable error codes returned alongside the message. UIs branch on
// the code, in particular to distinguish "offer checkout" from "hard cap".
const (
	CodeValidation       = "validation_error"
	CodeUnauthorized     = "unauthorized"
	CodeForbidden        = "forbidden"
	CodeNotFound         = "not_found"
	CodeUpgradeRequired  = "upgrade_required"
	CodePlanLimitReached = "plan_limit_reached"
	CodePlanInUse        = "plan_in_use"
	CodeDependency       = "dependency_failure"
)

// abortWithError returns a JSON error response and aborts the request.
func abortWithError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"error": message})
}

// abortWithCode additionally carries a machine-readable code.
func abortWithCode(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, gin.H{"error": message, "code": code})
}

// respondServiceError maps a service-layer sentinel onto its HTTP shape.
// This is the single place the error taxonomy meets status codes.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrValidation),
		errors.Is(err, domain.ErrInvalidWeekday),
		errors.Is(err, domain.ErrInvalidDayOperation):
		abortWithCode(c, http.StatusBadRequest, CodeValidation, err.Error())
	case errors.Is(err, service.ErrAuthenticationFailed):
		abortWithCode(c, http.StatusUnauthorized, CodeUnauthorized, err.Error())
	case errors.Is(err, service.ErrAccessDenied):
		abortWithCode(c, http.StatusForbidden, CodeForbidden, err.Error())
	case errors.Is(err, service.ErrUpgradeRequired):
		abortWithCode(c, http.StatusForbidden, CodeUpgradeRequired, err.Error())
	case errors.Is(err, service.ErrPlanLimitReached):
		abortWithCode(c, http.StatusForbidden, CodePlanLimitReached, err.Error())
	case errors.Is(err, service.ErrPlanInUse):
		abortWithCode(c, http.StatusConflict, CodePlanInUse, err.Error())
	case errors.Is(err, service.ErrCoachHasClients):
		abortWithCode(c, http.StatusConflict, CodeValidation, err.Error())
	case errors.Is(err, service.ErrUserAlreadyExists):
		abortWithCode(c, http.StatusConflict, CodeValidation, err.Error())
	case errors.Is(err, service.ErrPlanNotFound):
		abortWithCode(c, http.StatusBadRequest, CodeValidation, err.Error())
	case errors.Is(err, service.ErrCoachNotFound),
		errors.Is(err, service.ErrClientNotFound),
		errors.Is(err, service.ErrScheduleNotFound),
		errors.Is(err, service.ErrLogNotFound):
		abortWithCode(c, http.StatusNotFound, CodeNotFound, err.Error())
	case errors.Is(err, billing.ErrProviderUnavailable):
		abortWithCode(c, http.StatusInternalServerError, CodeDependency, "billing provider call failed")
	default:
		log.Printf("ERROR: unhandled service error: %v", err)
		abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred")
	}
}

// parseIDParam parses an ObjectID path parameter.
func parseIDParam(c *gin.Context, name string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(name))
	if err != nil {
		abortWithCode(c, http.StatusBadRequest, CodeValidation, "Invalid id format")
		return primitive.NilObjectID, false
	}
	return id, true
}

// actorID parses the authenticated identity's id as an ObjectID.
func actorID(c *gin.Context) (service.Identity, primitive.ObjectID, bool) {
	identity, err := identityFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify caller from token")
		return service.Identity{}, primitive.NilObjectID, false
	}
	id, err := primitive.ObjectIDFromHex(identity.ID)
	if err != nil {
		abortWithCode(c, http.StatusBadRequest, CodeValidation, "Invalid id in token")
		return service.Identity{}, primitive.NilObjectID, false
	}
	return identity, id, true
}

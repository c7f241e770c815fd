package api

import (
	"coachhub/coaching-app/internal/domain"
	"coachhub/coaching-app/internal/service"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// AuthHandler holds the authentication service dependency.
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// --- Request/Response Structs ---

type RegisterCoachRequest struct {
	Name     string   `json:"name" binding:"required"`
	Email    string   `json:"email" binding:"required,email"`
	Password string   `json:"password" binding:"required,min=8"`
	Plans    []string `json:"plans"`
}

// CoachResponse excludes sensitive fields.
type CoachResponse struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Email            string    `json:"email"`
	Phone            string    `json:"phone,omitempty"`
	Plans            []string  `json:"plans"`
	ClientCount      int       `json:"clientCount"`
	IsSubscribed     bool      `json:"isSubscribed"`
	SubscriptionPlan string    `json:"subscriptionPlan,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token string      `json:"token"`
	ID    string      `json:"id"`
	Email string      `json:"email"`
	Role  domain.Role `json:"role"`
}

// MapCoachToResponse converts a domain coach to its API shape.
func MapCoachToResponse(coach *domain.Coach) CoachResponse {
	plans := coach.Plans
	if plans == nil {
		plans = []string{}
	}
	return CoachResponse{
		ID:               coach.ID.Hex(),
		Name:             coach.Name,
		Email:            coach.Email,
		Phone:            coach.Phone,
		Plans:            plans,
		ClientCount:      coach.ClientCount,
		IsSubscribed:     coach.IsSubscribed,
		SubscriptionPlan: coach.SubscriptionPlan,
		CreatedAt:        coach.CreatedAt,
	}
}

// --- Handler Methods ---

// RegisterCoach creates a new coach account.
func (h *AuthHandler) RegisterCoach(c *gin.Context) {
	var req RegisterCoachRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithCode(c, http.StatusBadRequest, CodeValidation, "Validation error: "+err.Error())
		return
	}

	coach, err := h.authService.RegisterCoach(c.Request.Context(), req.Name, req.Email, req.Password, req.Plans)
	if err != nil {
		if errors.Is(err, service.ErrHashingFailed) {
			abortWithError(c, http.StatusInternalServerError, "Could not process registration")
			return
		}
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, MapCoachToResponse(coach))
}

// Login authenticates a coach or client and returns a JWT.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithCode(c, http.StatusBadRequest, CodeValidation, "Validation error: "+err.Error())
		return
	}

	token, identity, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		Token: token,
		ID:    identity.ID,
		Email: identity.Email,
		Role:  identity.Role,
	})
}

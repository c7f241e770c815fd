package api

import (
	"coachhub/coaching-app/internal/domain"
	"coachhub/coaching-app/internal/service"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// ClientHandler serves the client lifecycle routes.
type ClientHandler struct {
	clientService service.ClientService
}

// NewClientHandler creates a new ClientHandler.
func NewClientHandler(clientService service.ClientService) *ClientHandler {
	return &ClientHandler{clientService: clientService}
}

// --- Request/Response Structs ---

type CreateClientRequest struct {
	Name          string     `json:"name" binding:"required"`
	Email         string     `json:"email" binding:"required,email"`
	Password      string     `json:"password" binding:"required,min=8"`
	Phone         string     `json:"phone" binding:"required"`
	Gender        string     `json:"gender" binding:"required"`
	Goal          string     `json:"goal" binding:"required"`
	CurrentWeight float64    `json:"currentWeight" binding:"required,gt=0"`
	PlanAssigned  string     `json:"planAssigned" binding:"required"`
	PlanExpiry    *time.Time `json:"planExpiry"`

	// Optional seed content for the paired schedules; omitted days start
	// empty.
	WorkoutDays   map[domain.Weekday][]domain.WorkoutItem `json:"workoutDays"`
	NutritionDays map[domain.Weekday][]domain.Meal        `json:"nutritionDays"`
}

type UpdateClientRequest struct {
	Name          string     `json:"name"`
	Phone         string     `json:"phone"`
	Gender        string     `json:"gender"`
	Goal          string     `json:"goal"`
	CurrentWeight float64    `json:"currentWeight"`
	PlanAssigned  string     `json:"planAssigned"`
	PlanExpiry    *time.Time `json:"planExpiry"`
}

// ClientResponse excludes the password hash.
type ClientResponse struct {
	ID                  string     `json:"id"`
	CoachID             string     `json:"coachId"`
	Name                string     `json:"name"`
	Email               string     `json:"email"`
	Phone               string     `json:"phone"`
	Gender              string     `json:"gender"`
	Goal                string     `json:"goal"`
	CurrentWeight       float64    `json:"currentWeight"`
	PlanAssigned        string     `json:"planAssigned"`
	PlanExpiry          *time.Time `json:"planExpiry,omitempty"`
	WorkoutScheduleID   string     `json:"workoutScheduleId"`
	NutritionScheduleID string     `json:"nutritionScheduleId"`
	CreatedAt           time.Time  `json:"createdAt"`
}

// MapClientToResponse converts a domain client to its API shape.
func MapClientToResponse(client *domain.Client) ClientResponse {
	return ClientResponse{
		ID:                  client.ID.Hex(),
		CoachID:             client.CoachID.Hex(),
		Name:                client.Name,
		Email:               client.Email,
		Phone:               client.Phone,
		Gender:              client.Gender,
		Goal:                client.Goal,
		CurrentWeight:       client.CurrentWeight,
		PlanAssigned:        client.PlanAssigned,
		PlanExpiry:          client.PlanExpiry,
		WorkoutScheduleID:   client.WorkoutScheduleID.Hex(),
		NutritionScheduleID: client.NutritionScheduleID.Hex(),
		CreatedAt:           client.CreatedAt,
	}
}

// --- Handler Methods ---

// CreateClient provisions a client with its paired schedules for the
// authenticated coach.
func (h *ClientHandler) CreateClient(c *gin.Context) {
	_, coachID, ok := actorID(c)
	if !ok {
		return
	}

	var req CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithCode(c, http.StatusBadRequest, CodeValidation, "Validation error: "+err.Error())
		return
	}

	client, err := h.clientService.CreateClient(c.Request.Context(), coachID, service.CreateClientInput{
		Name:                 req.Name,
		Email:                req.Email,
		Password:             req.Password,
		Phone:                req.Phone,
		Gender:               req.Gender,
		Goal:                 req.Goal,
		CurrentWeight:        req.CurrentWeight,
		PlanAssigned:         req.PlanAssigned,
		PlanExpiry:           req.PlanExpiry,
		InitialWorkoutDays:   req.WorkoutDays,
		InitialNutritionDays: req.NutritionDays,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, MapClientToResponse(client))
}

// ListClients returns the authenticated coach's clients.
func (h *ClientHandler) ListClients(c *gin.Context) {
	_, coachID, ok := actorID(c)
	if !ok {
		return
	}

	clients, err := h.clientService.ListClients(c.Request.Context(), coachID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	responses := make([]ClientResponse, 0, len(clients))
	for i := range clients {
		responses = append(responses, MapClientToResponse(&clients[i]))
	}
	c.JSON(http.StatusOK, responses)
}

// GetClient returns one client: their coach, or the client themselves.
func (h *ClientHandler) GetClient(c *gin.Context) {
	identity, err := identityFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify caller from token")
		return
	}
	clientID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	client, serr := h.clientService.GetClient(c.Request.Context(), identity, clientID)
	if serr != nil {
		respondServiceError(c, serr)
		return
	}
	c.JSON(http.StatusOK, MapClientToResponse(client))
}

// UpdateClient edits a client's profile; coach-only.
func (h *ClientHandler) UpdateClient(c *gin.Context) {
	_, coachID, ok := actorID(c)
	if !ok {
		return
	}
	clientID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithCode(c, http.StatusBadRequest, CodeValidation, "Validation error: "+err.Error())
		return
	}

	client, err := h.clientService.UpdateClient(c.Request.Context(), coachID, clientID, service.UpdateClientInput{
		Name:          req.Name,
		Phone:         req.Phone,
		Gender:        req.Gender,
		Goal:          req.Goal,
		CurrentWeight: req.CurrentWeight,
		PlanAssigned:  req.PlanAssigned,
		PlanExpiry:    req.PlanExpiry,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapClientToResponse(client))
}

// DeleteClient removes a client and cascades to its schedules and logs.
func (h *ClientHandler) DeleteClient(c *gin.Context) {
	_, coachID, ok := actorID(c)
	if !ok {
		return
	}
	clientID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.clientService.DeleteClient(c.Request.Context(), coachID, clientID); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

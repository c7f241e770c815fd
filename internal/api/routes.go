package api

import (
	"coachhub/coaching-app/internal/domain"
	"coachhub/coaching-app/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
)

// SetupRoutes wires every handler onto the router. The role allow-list per
// route group below is the whole authorization policy table; finer
// ownership checks live in the services.
func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	webhookSecret string,
	authService service.AuthService,
	coachService service.CoachService,
	clientService service.ClientService,
	workoutScheduleService service.ScheduleService[domain.WorkoutItem],
	nutritionScheduleService service.ScheduleService[domain.Meal],
	logService service.WorkoutLogService,
	billingEvents service.BillingEventService,
) {
	authHandler := NewAuthHandler(authService)
	coachHandler := NewCoachHandler(coachService)
	clientHandler := NewClientHandler(clientService)
	workoutHandler := NewScheduleHandler(workoutScheduleService)
	nutritionHandler := NewScheduleHandler(nutritionScheduleService)
	logHandler := NewWorkoutLogHandler(logService)
	webhookHandler := NewWebhookHandler(billingEvents, webhookSecret)

	authMiddleware := AuthMiddleware(jwtSecret)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")

	// Unauthenticated surface: signup, login, and the signature-verified
	// billing event intake.
	apiV1.POST("/coaches", authHandler.RegisterCoach)
	apiV1.POST("/auth/login", authHandler.Login)
	apiV1.POST("/billing/webhook", webhookHandler.HandleBillingWebhook)

	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", func(c *gin.Context) {
			identity, err := identityFromContext(c)
			if err != nil {
				abortWithError(c, http.StatusInternalServerError, "Failed to get identity from token")
				return
			}
			c.JSON(http.StatusOK, gin.H{"id": identity.ID, "email": identity.Email, "role": identity.Role})
		})

		// --- Coach profile ---
		coachGroup := protected.Group("/coaches")
		coachGroup.Use(RoleMiddleware(domain.RoleCoach))
		{
			coachGroup.GET("/:id", coachHandler.GetCoach)
			coachGroup.PATCH("/:id", coachHandler.UpdateCoach)
			coachGroup.DELETE("/:id", coachHandler.DeleteCoach)
		}

		// --- Client lifecycle ---
		clientGroup := protected.Group("/clients")
		{
			clientGroup.POST("", RoleMiddleware(domain.RoleCoach), clientHandler.CreateClient)
			clientGroup.GET("", RoleMiddleware(domain.RoleCoach), clientHandler.ListClients)
			// A client may fetch their own record, so no role restriction.
			clientGroup.GET("/:id", clientHandler.GetClient)
			clientGroup.PATCH("/:id", RoleMiddleware(domain.RoleCoach), clientHandler.UpdateClient)
			clientGroup.DELETE("/:id", RoleMiddleware(domain.RoleCoach), clientHandler.DeleteClient)
		}

		// --- Schedules; reads open to both roles, edits coach-only inside
		// the service ---
		workoutGroup := protected.Group("/workout-schedules")
		{
			workoutGroup.GET("/:id", workoutHandler.GetSchedule)
			workoutGroup.PATCH("/:id", RoleMiddleware(domain.RoleCoach), workoutHandler.PatchSchedule)
		}
		nutritionGroup := protected.Group("/nutrition-schedules")
		{
			nutritionGroup.GET("/:id", nutritionHandler.GetSchedule)
			nutritionGroup.PATCH("/:id", RoleMiddleware(domain.RoleCoach), nutritionHandler.PatchSchedule)
		}

		// --- Adherence logs ---
		logGroup := protected.Group("/workout-logs")
		{
			logGroup.POST("", RoleMiddleware(domain.RoleClient), logHandler.CreateLog)
			logGroup.GET("", logHandler.ListLogs)
			logGroup.DELETE("/:id", RoleMiddleware(domain.RoleCoach), logHandler.DeleteLog)
		}

		// --- Media upload slots for exercise images ---
		protected.POST("/media/upload-url", RoleMiddleware(domain.RoleCoach), coachHandler.NewImageUploadURL)
	}
}

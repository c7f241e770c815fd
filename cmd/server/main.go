package main

import (
	"coachhub/coaching-app/internal/api"
	"coachhub/coaching-app/internal/billing"
	"coachhub/coaching-app/internal/config"
	"coachhub/coaching-app/internal/mailer"
	"coachhub/coaching-app/internal/repository/mongo"
	"coachhub/coaching-app/internal/service"
	"coachhub/coaching-app/internal/storage"
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
)

func main() {
	log.Println("Starting Coaching App Server...")

	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("FATAL: Could not load config: %v", err)
	}
	log.Println("Configuration loaded.")

	// --- Database Connection ---
	dbClient, err := mongo.ConnectDB(cfg.Database.URI)
	if err != nil {
		log.Fatalf("FATAL: Could not connect to MongoDB: %v", err)
	}
	defer func() {
		log.Println("Disconnecting MongoDB...")
		if err := mongo.DisconnectDB(dbClient); err != nil {
			log.Printf("ERROR: Failed to disconnect MongoDB: %v", err)
		}
	}()
	appDB := dbClient.Database(cfg.Database.Name)
	log.Println("Database connection established.")

	// --- Ensure Indexes ---
	log.Println("Ensuring database indexes...")
	go func() { // Run index creation concurrently/in background
		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
		defer cancel()
		mongo.EnsureCoachIndexes(ctx, appDB.Collection("coaches"))
		mongo.EnsureClientIndexes(ctx, appDB.Collection("clients"))
		mongo.EnsureScheduleIndexes(ctx, appDB.Collection("workout_schedules"))
		mongo.EnsureScheduleIndexes(ctx, appDB.Collection("nutrition_schedules"))
		mongo.EnsureWorkoutLogIndexes(ctx, appDB.Collection("workout_logs"))
		log.Println("Index creation process completed.")
	}()

	// --- Initialize Storage ---
	// Media storage is optional; without it workout items simply carry no
	// presigned image URLs.
	var mediaStorage storage.MediaStorage
	if cfg.S3.Endpoint != "" {
		log.Println("Initializing media storage service...")
		mediaStorage, err = storage.NewS3Storage(cfg.S3)
		if err != nil {
			log.Fatalf("FATAL: Failed to initialize S3 storage: %v", err)
		}
	} else {
		log.Println("No S3 endpoint configured; media storage disabled.")
	}

	// --- Initialize Mailer ---
	var mail mailer.Mailer
	if cfg.Mailer.ResendAPIKey != "" {
		mail = mailer.NewResendMailer(cfg.Mailer.ResendAPIKey, cfg.Mailer.From)
	} else {
		log.Println("No Resend API key configured; outbound mail disabled.")
		mail = mailer.Noop{}
	}

	// --- Initialize Billing Provider ---
	billingProvider := billing.NewHTTPProvider(cfg.Billing.BaseURL, cfg.Billing.APIKey)

	// --- Initialize Repositories ---
	log.Println("Initializing repositories...")
	coachRepo := mongo.NewMongoCoachRepository(appDB)
	clientRepo := mongo.NewMongoClientRepository(appDB)
	workoutScheduleRepo := mongo.NewMongoWorkoutScheduleRepository(appDB)
	nutritionScheduleRepo := mongo.NewMongoNutritionScheduleRepository(appDB)
	logRepo := mongo.NewMongoWorkoutLogRepository(appDB)

	// --- Initialize Services ---
	log.Println("Initializing services...")
	authService := service.NewAuthService(coachRepo, clientRepo, cfg.JWT.Secret, cfg.JWT.Expiration)
	coachService := service.NewCoachService(coachRepo, clientRepo, billingProvider, mediaStorage)
	clientService := service.NewClientService(
		coachRepo,
		clientRepo,
		workoutScheduleRepo,
		nutritionScheduleRepo,
		logRepo,
		billingProvider,
		mail,
		mediaStorage,
		cfg.Limits.FreeClients,
		cfg.Limits.PaidClients,
	)
	workoutScheduleService := service.NewWorkoutScheduleService(workoutScheduleRepo, mediaStorage)
	nutritionScheduleService := service.NewNutritionScheduleService(nutritionScheduleRepo)
	logService := service.NewWorkoutLogService(logRepo, clientRepo, workoutScheduleRepo)
	billingEvents := service.NewBillingEventService(coachRepo, mail)

	// --- Initialize Gin Engine ---
	// gin.SetMode(gin.ReleaseMode) // Uncomment for production
	router := gin.Default() // Includes Logger and Recovery middleware

	// --- Setup Routes ---
	log.Println("Setting up API routes...")
	api.SetupRoutes(
		router,
		cfg.JWT.Secret,
		cfg.Billing.WebhookSecret,
		authService,
		coachService,
		clientService,
		workoutScheduleService,
		nutritionScheduleService,
		logService,
		billingEvents,
	)

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	log.Printf("Server starting on %s", cfg.Server.Address)

	// --- Graceful Shutdown ---
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("FATAL: ListenAndServe Error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Fatalf("FATAL: Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting.")
}

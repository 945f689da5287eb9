package main

import (
	"alcyxob/fitness-records/internal/api"
	"alcyxob/fitness-records/internal/config"
	"alcyxob/fitness-records/internal/repository/mongo"
	"alcyxob/fitness-records/internal/service"
	"alcyxob/fitness-records/internal/storage"
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

// @title Fitness Records API
// @version 1.0
// @description Workout completions, personal bests and exercise history.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	log.Println("Starting Fitness Records Server...")

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
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
		defer cancel()
		mongo.EnsureIndexes(ctx, appDB)
		log.Println("Index creation process completed.")
	}()

	// --- Initialize Storage ---
	initCtx, initCancel := context.WithTimeout(context.Background(), 10*time.Second)
	fileStorage, err := storage.NewS3Storage(initCtx, cfg.S3)
	initCancel()
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize S3 storage: %v", err)
	}

	// --- Initialize Repositories ---
	userRepo := mongo.NewMongoUserRepository(appDB)
	workoutRepo := mongo.NewMongoWorkoutRepository(appDB)
	exerciseRepo := mongo.NewMongoExerciseRepository(appDB)
	pbRepo := mongo.NewMongoPersonalBestRepository(appDB)
	archiveRepo := mongo.NewMongoArchiveRepository(appDB)

	// --- Initialize Services ---
	pbService := service.NewPersonalBestService(exerciseRepo, pbRepo)
	services := api.Services{
		Completion:   service.NewCompletionService(workoutRepo, userRepo, pbService),
		PersonalBest: pbService,
		History:      service.NewHistoryService(userRepo, workoutRepo, exerciseRepo, pbRepo, archiveRepo, fileStorage, cfg.S3.PresignExpiry),
		Exercise:     service.NewExerciseService(exerciseRepo),
		Trainer:      service.NewTrainerService(userRepo),
	}

	// --- Initialize Gin Engine ---
	router := gin.Default() // Includes Logger and Recovery middleware
	api.SetupRoutes(router, cfg.JWT.Secret, services)

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second, // history export uploads to S3 within the request
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Printf("Server starting on %s", cfg.Server.Address)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("FATAL: ListenAndServe Error: %v", err)
		}
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Printf("ERROR: Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting.")
}

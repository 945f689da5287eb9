package api

import (
	"alcyxob/fitness-records/internal/domain" // Needed for RoleMiddleware
	"alcyxob/fitness-records/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Services bundles what the HTTP layer depends on.
type Services struct {
	Completion   service.CompletionService
	PersonalBest service.PersonalBestService
	History      service.HistoryService
	Exercise     service.ExerciseService
	Trainer      service.TrainerService
}

func SetupRoutes(router *gin.Engine, jwtSecret string, services Services) {
	workoutHandler := NewWorkoutHandler(services.Completion)
	historyHandler := NewHistoryHandler(services.History, services.PersonalBest, services.Trainer)
	exerciseHandler := NewExerciseHandler(services.Exercise)

	router.Use(RequestIDMiddleware())

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	protected := router.Group("/api/v1")
	protected.Use(AuthMiddleware(jwtSecret))
	{
		// --- Client Routes ---
		clientGroup := protected.Group("/client")
		clientGroup.Use(RoleMiddleware(domain.RoleClient))
		{
			// POST/DELETE /api/v1/client/workouts/{workoutId}/exercises/{index}/complete
			clientGroup.POST("/workouts/:workoutId/exercises/:index/complete", workoutHandler.CompleteExercise)
			clientGroup.DELETE("/workouts/:workoutId/exercises/:index/complete", workoutHandler.UncompleteExercise)

			// GET /api/v1/client/exercises/history?name=
			clientGroup.GET("/exercises/history", historyHandler.GetMyExerciseHistory)
			clientGroup.POST("/exercises/history/export", historyHandler.ExportMyExerciseHistory)
			clientGroup.GET("/exercises/history/exports", historyHandler.GetMyExports)

			clientGroup.GET("/personal-bests", historyHandler.GetMyPersonalBests)
		}

		// --- Trainer Routes ---
		trainerGroup := protected.Group("/trainer")
		trainerGroup.Use(RoleMiddleware(domain.RoleTrainer))
		{
			// GET /api/v1/trainer/clients/{clientId}/exercises/history?name=
			trainerGroup.GET("/clients/:clientId/exercises/history", historyHandler.GetClientExerciseHistory)
			trainerGroup.GET("/clients/:clientId/personal-bests", historyHandler.GetClientPersonalBests)

			trainerGroup.GET("/exercises", exerciseHandler.GetTrainerExercises)
		}
	}
}

package api

import (
	"alcyxob/fitness-records/internal/domain"
	"alcyxob/fitness-records/internal/service"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// ExerciseHandler holds the exercise service dependency.
type ExerciseHandler struct {
	exerciseService service.ExerciseService
}

// NewExerciseHandler creates a new ExerciseHandler.
func NewExerciseHandler(exerciseService service.ExerciseService) *ExerciseHandler {
	return &ExerciseHandler{exerciseService: exerciseService}
}

// --- DTOs for API (Data Transfer Objects) ---

// ExerciseResponse is the DTO for returning canonical exercise details.
type ExerciseResponse struct {
	ID            string    `json:"id"`
	TrainerID     string    `json:"trainerId,omitempty"`
	Name          string    `json:"name"`
	DisplayName   string    `json:"display_name"`
	ExerciseType  string    `json:"exercise_type"`
	DefaultSets   string    `json:"default_sets,omitempty"`
	DefaultReps   string    `json:"default_reps,omitempty"`
	DefaultWeight string    `json:"default_weight,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// MapExerciseToResponse converts a domain.Exercise to ExerciseResponse DTO.
func MapExerciseToResponse(ex *domain.Exercise) ExerciseResponse {
	if ex == nil {
		return ExerciseResponse{}
	}
	resp := ExerciseResponse{
		ID:            ex.ID.Hex(),
		Name:          ex.Name,
		DisplayName:   ex.DisplayName,
		ExerciseType:  string(ex.ExerciseType),
		DefaultSets:   ex.DefaultSets,
		DefaultReps:   ex.DefaultReps,
		DefaultWeight: ex.DefaultWeight,
		CreatedAt:     ex.CreatedAt,
		UpdatedAt:     ex.UpdatedAt,
	}
	if !ex.IsLegacyGlobal() {
		resp.TrainerID = ex.TrainerID.Hex()
	}
	return resp
}

// MapExercisesToResponse converts a slice of domain.Exercise to a slice of ExerciseResponse DTO.
func MapExercisesToResponse(exercises []domain.Exercise) []ExerciseResponse {
	responses := make([]ExerciseResponse, len(exercises))
	for i := range exercises {
		responses[i] = MapExerciseToResponse(&exercises[i])
	}
	return responses
}

// --- Handler Methods ---

// GetTrainerExercises godoc
// @Summary Get the canonical exercises of the authenticated trainer
// @Description Lists exercises created for the trainer's clients by personal best tracking.
// @Tags Trainer
// @Produce json
// @Security BearerAuth
// @Success 200 {array} ExerciseResponse "List of exercises"
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 403 {object} gin.H "Forbidden (not a trainer)"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /trainer/exercises [get]
func (h *ExerciseHandler) GetTrainerExercises(c *gin.Context) {
	trainerID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify trainer from token.")
		return
	}

	exercises, err := h.exerciseService.GetExercisesByTrainer(c.Request.Context(), trainerID)
	if err != nil {
		respondWithServiceError(c, err, "Failed to retrieve exercises.")
		return
	}

	c.JSON(http.StatusOK, MapExercisesToResponse(exercises))
}

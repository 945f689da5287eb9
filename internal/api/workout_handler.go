package api

import (
	"alcyxob/fitness-records/internal/domain"
	"alcyxob/fitness-records/internal/service"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WorkoutHandler serves the client's completion actions on a workout.
type WorkoutHandler struct {
	completionService service.CompletionService
}

// NewWorkoutHandler creates a new WorkoutHandler.
func NewWorkoutHandler(completionService service.CompletionService) *WorkoutHandler {
	return &WorkoutHandler{completionService: completionService}
}

// --- DTOs ---

// BestSetDTO carries the values a client logs for its best set. All fields are
// free text as typed in the app ("8", "62.5kg", "30").
type BestSetDTO struct {
	Reps            string `json:"reps,omitempty"`
	Weight          string `json:"weight,omitempty"`
	Seconds         string `json:"seconds,omitempty"`
	DurationMinutes string `json:"duration_minutes,omitempty"`
	DistanceKm      string `json:"distance_km,omitempty"`
	Intensity       string `json:"intensity,omitempty"`
}

func (b *BestSetDTO) toDomain() *domain.BestSet {
	if b == nil {
		return nil
	}
	return &domain.BestSet{
		Reps:            b.Reps,
		Weight:          b.Weight,
		Seconds:         b.Seconds,
		DurationMinutes: b.DurationMinutes,
		DistanceKm:      b.DistanceKm,
		Intensity:       b.Intensity,
	}
}

func mapBestSetToDTO(b *domain.BestSet) *BestSetDTO {
	if b == nil {
		return nil
	}
	return &BestSetDTO{
		Reps:            b.Reps,
		Weight:          b.Weight,
		Seconds:         b.Seconds,
		DurationMinutes: b.DurationMinutes,
		DistanceKm:      b.DistanceKm,
		Intensity:       b.Intensity,
	}
}

// CompleteExerciseRequest is the body of the complete endpoint.
type CompleteExerciseRequest struct {
	Rating  string      `json:"rating" binding:"required"` // easy, good, hard, too_hard
	BestSet *BestSetDTO `json:"bestSet,omitempty"`
}

type ExerciseCompletionResponse struct {
	ExerciseIndex int         `json:"exerciseIndex"`
	Completed     bool        `json:"completed"`
	Rating        string      `json:"rating"`
	CompletedAt   time.Time   `json:"completed_at"`
	BestSet       *BestSetDTO `json:"bestSet,omitempty"`
}

type WorkoutResponse struct {
	ID                  string                       `json:"id"`
	ClientID            string                       `json:"clientId"`
	TrainerID           string                       `json:"trainerId"`
	Title               string                       `json:"title"`
	Date                time.Time                    `json:"date"`
	Exercises           []string                     `json:"exercises"`
	ExerciseCompletions []ExerciseCompletionResponse `json:"exercise_completions"`
	UpdatedAt           time.Time                    `json:"updatedAt"`
}

// MapWorkoutToResponse converts domain.Workout to DTO
func MapWorkoutToResponse(w *domain.Workout) WorkoutResponse {
	if w == nil {
		return WorkoutResponse{}
	}
	completions := make([]ExerciseCompletionResponse, len(w.ExerciseCompletions))
	for i, c := range w.ExerciseCompletions {
		completions[i] = ExerciseCompletionResponse{
			ExerciseIndex: c.ExerciseIndex,
			Completed:     c.Completed,
			Rating:        string(c.Rating),
			CompletedAt:   c.CompletedAt,
			BestSet:       mapBestSetToDTO(c.BestSet),
		}
	}
	exercises := w.Exercises
	if exercises == nil {
		exercises = []string{}
	}
	return WorkoutResponse{
		ID:                  w.ID.Hex(),
		ClientID:            w.ClientID.Hex(),
		TrainerID:           w.TrainerID.Hex(),
		Title:               w.Title,
		Date:                w.Date,
		Exercises:           exercises,
		ExerciseCompletions: completions,
		UpdatedAt:           w.UpdatedAt,
	}
}

// --- Handler Methods ---

// CompleteExercise godoc
// @Summary Mark an exercise of my workout as completed
// @Description Stores rating and optional best set for the exercise at the given index. Replaces an earlier completion of the same index.
// @Tags Client
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param workoutId path string true "Workout's ObjectID Hex"
// @Param index path int true "Zero-based position of the exercise in the workout"
// @Param completion body CompleteExerciseRequest true "Rating and best set"
// @Success 200 {object} WorkoutResponse "Updated workout"
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 404 {object} gin.H "Workout not found"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /client/workouts/{workoutId}/exercises/{index}/complete [post]
func (h *WorkoutHandler) CompleteExercise(c *gin.Context) {
	clientID, workoutID, index, ok := parseCompletionTarget(c)
	if !ok {
		return
	}

	var req CompleteExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	workout, err := h.completionService.CompleteExercise(c.Request.Context(), clientID, workoutID, index, domain.Rating(req.Rating), req.BestSet.toDomain())
	if err != nil {
		respondWithServiceError(c, err, "Failed to complete exercise.")
		return
	}
	c.JSON(http.StatusOK, MapWorkoutToResponse(workout))
}

// UncompleteExercise godoc
// @Summary Remove the completion of an exercise
// @Description Deletes the completion record for the given index. Personal bests are left untouched.
// @Tags Client
// @Produce json
// @Security BearerAuth
// @Param workoutId path string true "Workout's ObjectID Hex"
// @Param index path int true "Zero-based position of the exercise in the workout"
// @Success 200 {object} WorkoutResponse "Updated workout"
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 404 {object} gin.H "Workout not found"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /client/workouts/{workoutId}/exercises/{index}/complete [delete]
func (h *WorkoutHandler) UncompleteExercise(c *gin.Context) {
	clientID, workoutID, index, ok := parseCompletionTarget(c)
	if !ok {
		return
	}

	workout, err := h.completionService.UncompleteExercise(c.Request.Context(), clientID, workoutID, index)
	if err != nil {
		respondWithServiceError(c, err, "Failed to uncomplete exercise.")
		return
	}
	c.JSON(http.StatusOK, MapWorkoutToResponse(workout))
}

// parseCompletionTarget reads the client from the token and the workout and
// exercise index from the path. It aborts the request on failure.
func parseCompletionTarget(c *gin.Context) (clientID, workoutID primitive.ObjectID, index int, ok bool) {
	clientID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify client.")
		return
	}
	workoutID, err = primitive.ObjectIDFromHex(c.Param("workoutId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid workout ID format.")
		return
	}
	index, err = strconv.Atoi(c.Param("index"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Exercise index must be an integer.")
		return
	}
	return clientID, workoutID, index, true
}

package api

import (
	"alcyxob/fitness-records/internal/domain"
	"alcyxob/fitness-records/internal/parser"
	"alcyxob/fitness-records/internal/service"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// HistoryHandler serves personal bests and replayed exercise history to the
// client and to the client's trainer.
type HistoryHandler struct {
	historyService      service.HistoryService
	personalBestService service.PersonalBestService
	trainerService      service.TrainerService
}

// NewHistoryHandler creates a new HistoryHandler.
func NewHistoryHandler(historyService service.HistoryService, personalBestService service.PersonalBestService, trainerService service.TrainerService) *HistoryHandler {
	return &HistoryHandler{
		historyService:      historyService,
		personalBestService: personalBestService,
		trainerService:      trainerService,
	}
}

// --- DTOs ---

type PersonalBestResponse struct {
	ID           string      `json:"id"`
	ExerciseID   string      `json:"exercise_id,omitempty"`
	ExerciseName string      `json:"exercise_name"`
	BestSet      *BestSetDTO `json:"bestSet"`
	WorkoutID    string      `json:"workout_id"`
	WorkoutDate  time.Time   `json:"workout_date"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}

func MapPersonalBestToResponse(pb *domain.ExercisePB) *PersonalBestResponse {
	if pb == nil {
		return nil
	}
	resp := &PersonalBestResponse{
		ID:           pb.ID.Hex(),
		ExerciseName: pb.ExerciseName,
		BestSet:      mapBestSetToDTO(&pb.BestSet),
		WorkoutID:    pb.WorkoutID.Hex(),
		WorkoutDate:  pb.WorkoutDate,
		UpdatedAt:    pb.UpdatedAt,
	}
	if pb.ExerciseID != nil {
		resp.ExerciseID = pb.ExerciseID.Hex()
	}
	return resp
}

func MapPersonalBestsToResponse(pbs []domain.ExercisePB) []PersonalBestResponse {
	responses := make([]PersonalBestResponse, len(pbs))
	for i := range pbs {
		responses[i] = *MapPersonalBestToResponse(&pbs[i])
	}
	return responses
}

type HistoryEntryResponse struct {
	WorkoutID     string                `json:"workout_id"`
	WorkoutTitle  string                `json:"workout_title"`
	WorkoutDate   time.Time             `json:"workout_date"`
	ExerciseIndex int                   `json:"exercise_index"`
	Exercise      string                `json:"exercise"`
	Parsed        parser.ParsedExercise `json:"parsed"`
	Completed     bool                  `json:"completed"`
	Rating        string                `json:"rating,omitempty"`
	CompletedAt   *time.Time            `json:"completed_at,omitempty"`
	BestSet       *BestSetDTO           `json:"bestSet,omitempty"`
}

type ExerciseHistoryResponse struct {
	ExerciseName   string                 `json:"exercise_name"`
	DisplayName    string                 `json:"display_name,omitempty"`
	ExerciseType   string                 `json:"exercise_type,omitempty"`
	PB             *PersonalBestResponse  `json:"pb"`
	History        []HistoryEntryResponse `json:"history"`
	WorkoutHistory []HistoryEntryResponse `json:"workoutHistory"`
}

func mapHistoryEntries(entries []service.HistoryEntry) []HistoryEntryResponse {
	responses := make([]HistoryEntryResponse, len(entries))
	for i, e := range entries {
		responses[i] = HistoryEntryResponse{
			WorkoutID:     e.WorkoutID.Hex(),
			WorkoutTitle:  e.WorkoutTitle,
			WorkoutDate:   e.WorkoutDate,
			ExerciseIndex: e.ExerciseIndex,
			Exercise:      e.Exercise,
			Parsed:        e.Parsed,
			Completed:     e.Completed,
			Rating:        string(e.Rating),
			CompletedAt:   e.CompletedAt,
			BestSet:       mapBestSetToDTO(e.BestSet),
		}
	}
	return responses
}

// MapExerciseHistoryToResponse converts service.ExerciseHistory to DTO
func MapExerciseHistoryToResponse(h *service.ExerciseHistory) ExerciseHistoryResponse {
	resp := ExerciseHistoryResponse{
		ExerciseName:   h.ExerciseName,
		PB:             MapPersonalBestToResponse(h.CurrentPB),
		History:        mapHistoryEntries(h.PBHistory),
		WorkoutHistory: mapHistoryEntries(h.WorkoutHistory),
	}
	if h.Exercise != nil {
		resp.DisplayName = h.Exercise.DisplayName
		resp.ExerciseType = string(h.Exercise.ExerciseType)
	}
	// No canonical exercise yet (nothing recorded, or only legacy PB rows).
	if resp.DisplayName == "" {
		resp.DisplayName = cases.Title(language.English).String(h.ExerciseName)
	}
	return resp
}

// ExportHistoryRequest names the exercise to archive.
type ExportHistoryRequest struct {
	Name string `json:"name" binding:"required"`
}

// --- Client Handler Methods ---

// GetMyExerciseHistory godoc
// @Summary Get my history for one exercise
// @Description Rebuilds the personal best and workout history of an exercise from all of my workouts.
// @Tags Client
// @Produce json
// @Security BearerAuth
// @Param name query string true "Exercise name (case and surrounding spaces are ignored)"
// @Success 200 {object} ExerciseHistoryResponse
// @Failure 400 {object} gin.H "Missing exercise name"
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /client/exercises/history [get]
func (h *HistoryHandler) GetMyExerciseHistory(c *gin.Context) {
	clientID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify client.")
		return
	}
	h.respondWithHistory(c, clientID)
}

// ExportMyExerciseHistory godoc
// @Summary Archive my history for one exercise
// @Description Stores the rebuilt history as JSON in object storage and returns a temporary download link.
// @Tags Client
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param export body ExportHistoryRequest true "Exercise to export"
// @Success 201 {object} service.HistoryExport
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /client/exercises/history/export [post]
func (h *HistoryHandler) ExportMyExerciseHistory(c *gin.Context) {
	clientID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify client.")
		return
	}

	var req ExportHistoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	export, err := h.historyService.ExportHistory(c.Request.Context(), clientID, req.Name)
	if err != nil {
		respondWithServiceError(c, err, "Failed to export exercise history.")
		return
	}
	c.JSON(http.StatusCreated, export)
}

// GetMyExports godoc
// @Summary List my exported histories
// @Tags Client
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.HistoryArchive
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /client/exercises/history/exports [get]
func (h *HistoryHandler) GetMyExports(c *gin.Context) {
	clientID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify client.")
		return
	}

	archives, err := h.historyService.ListExports(c.Request.Context(), clientID)
	if err != nil {
		respondWithServiceError(c, err, "Failed to retrieve exports.")
		return
	}
	if archives == nil {
		archives = []domain.HistoryArchive{}
	}
	c.JSON(http.StatusOK, archives)
}

// GetMyPersonalBests godoc
// @Summary List my personal bests
// @Tags Client
// @Produce json
// @Security BearerAuth
// @Success 200 {array} PersonalBestResponse
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /client/personal-bests [get]
func (h *HistoryHandler) GetMyPersonalBests(c *gin.Context) {
	clientID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify client.")
		return
	}
	h.respondWithPersonalBests(c, clientID)
}

// --- Trainer Handler Methods ---

// GetClientExerciseHistory godoc
// @Summary Get a managed client's history for one exercise
// @Tags Trainer
// @Produce json
// @Security BearerAuth
// @Param clientId path string true "Client's ObjectID Hex"
// @Param name query string true "Exercise name"
// @Success 200 {object} ExerciseHistoryResponse
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 403 {object} gin.H "Forbidden (not a trainer)"
// @Failure 404 {object} gin.H "Client not found or not managed by this trainer"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /trainer/clients/{clientId}/exercises/history [get]
func (h *HistoryHandler) GetClientExerciseHistory(c *gin.Context) {
	clientID, ok := h.managedClientFromPath(c)
	if !ok {
		return
	}
	h.respondWithHistory(c, clientID)
}

// GetClientPersonalBests godoc
// @Summary List a managed client's personal bests
// @Tags Trainer
// @Produce json
// @Security BearerAuth
// @Param clientId path string true "Client's ObjectID Hex"
// @Success 200 {array} PersonalBestResponse
// @Failure 400 {object} gin.H "Invalid client ID"
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 403 {object} gin.H "Forbidden (not a trainer)"
// @Failure 404 {object} gin.H "Client not found or not managed by this trainer"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /trainer/clients/{clientId}/personal-bests [get]
func (h *HistoryHandler) GetClientPersonalBests(c *gin.Context) {
	clientID, ok := h.managedClientFromPath(c)
	if !ok {
		return
	}
	h.respondWithPersonalBests(c, clientID)
}

func (h *HistoryHandler) managedClientFromPath(c *gin.Context) (primitive.ObjectID, bool) {
	trainerID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify trainer from token.")
		return primitive.NilObjectID, false
	}
	clientID, err := primitive.ObjectIDFromHex(c.Param("clientId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid client ID format.")
		return primitive.NilObjectID, false
	}
	if _, err := h.trainerService.GetManagedClient(c.Request.Context(), trainerID, clientID); err != nil {
		respondWithServiceError(c, err, "Failed to verify client.")
		return primitive.NilObjectID, false
	}
	return clientID, true
}

func (h *HistoryHandler) respondWithHistory(c *gin.Context, clientID primitive.ObjectID) {
	history, err := h.historyService.BuildHistory(c.Request.Context(), clientID, c.Query("name"))
	if err != nil {
		respondWithServiceError(c, err, "Failed to retrieve exercise history.")
		return
	}
	c.JSON(http.StatusOK, MapExerciseHistoryToResponse(history))
}

func (h *HistoryHandler) respondWithPersonalBests(c *gin.Context, clientID primitive.ObjectID) {
	pbs, err := h.personalBestService.ListPersonalBests(c.Request.Context(), clientID)
	if err != nil {
		respondWithServiceError(c, err, "Failed to retrieve personal bests.")
		return
	}
	c.JSON(http.StatusOK, MapPersonalBestsToResponse(pbs))
}

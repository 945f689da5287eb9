package api

import (
	"alcyxob/fitness-records/internal/domain"
	"alcyxob/fitness-records/internal/service"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const testSecret = "test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

type stubCompletionService struct {
	gotIndex   int
	gotRating  domain.Rating
	gotBestSet *domain.BestSet
	err        error
}

func (s *stubCompletionService) CompleteExercise(ctx context.Context, customerID, workoutID primitive.ObjectID, exerciseIndex int, rating domain.Rating, bestSet *domain.BestSet) (*domain.Workout, error) {
	s.gotIndex, s.gotRating, s.gotBestSet = exerciseIndex, rating, bestSet
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Workout{
		ID:        workoutID,
		ClientID:  customerID,
		Exercises: []string{"Squats 4x8"},
		ExerciseCompletions: []domain.ExerciseCompletion{
			{ExerciseIndex: exerciseIndex, Completed: true, Rating: rating, BestSet: bestSet},
		},
	}, nil
}

func (s *stubCompletionService) UncompleteExercise(ctx context.Context, customerID, workoutID primitive.ObjectID, exerciseIndex int) (*domain.Workout, error) {
	s.gotIndex = exerciseIndex
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Workout{ID: workoutID, ClientID: customerID}, nil
}

type stubHistoryService struct {
	gotCustomer primitive.ObjectID
	gotName     string
	history     *service.ExerciseHistory
	export      *service.HistoryExport
	err         error
}

func (s *stubHistoryService) BuildHistory(ctx context.Context, customerID primitive.ObjectID, exerciseName string) (*service.ExerciseHistory, error) {
	s.gotCustomer, s.gotName = customerID, exerciseName
	return s.history, s.err
}

func (s *stubHistoryService) ExportHistory(ctx context.Context, customerID primitive.ObjectID, exerciseName string) (*service.HistoryExport, error) {
	s.gotCustomer, s.gotName = customerID, exerciseName
	return s.export, s.err
}

func (s *stubHistoryService) ListExports(ctx context.Context, customerID primitive.ObjectID) ([]domain.HistoryArchive, error) {
	s.gotCustomer = customerID
	return nil, s.err
}

type stubPersonalBestService struct {
	pbs []domain.ExercisePB
	err error
}

func (s *stubPersonalBestService) Reconcile(ctx context.Context, in service.ReconcileInput) (bool, error) {
	return false, errors.New("not used by handlers")
}

func (s *stubPersonalBestService) ListPersonalBests(ctx context.Context, customerID primitive.ObjectID) ([]domain.ExercisePB, error) {
	return s.pbs, s.err
}

type stubTrainerService struct {
	managed map[primitive.ObjectID]primitive.ObjectID // client -> trainer
}

func (s *stubTrainerService) GetManagedClient(ctx context.Context, trainerID, clientID primitive.ObjectID) (*domain.User, error) {
	if s.managed[clientID] != trainerID {
		return nil, service.ErrClientNotManaged
	}
	return &domain.User{ID: clientID, Role: domain.RoleClient, TrainerID: &trainerID}, nil
}

type stubExerciseService struct {
	exercises []domain.Exercise
}

func (s *stubExerciseService) GetExercisesByTrainer(ctx context.Context, trainerID primitive.ObjectID) ([]domain.Exercise, error) {
	return s.exercises, nil
}

type testServer struct {
	router     *gin.Engine
	completion *stubCompletionService
	history    *stubHistoryService
	pbs        *stubPersonalBestService
	trainer    *stubTrainerService
	exercises  *stubExerciseService
}

func newTestServer() *testServer {
	ts := &testServer{
		router:     gin.New(),
		completion: &stubCompletionService{},
		history:    &stubHistoryService{},
		pbs:        &stubPersonalBestService{},
		trainer:    &stubTrainerService{managed: map[primitive.ObjectID]primitive.ObjectID{}},
		exercises:  &stubExerciseService{},
	}
	SetupRoutes(ts.router, testSecret, Services{
		Completion:   ts.completion,
		PersonalBest: ts.pbs,
		History:      ts.history,
		Exercise:     ts.exercises,
		Trainer:      ts.trainer,
	})
	return ts
}

func signToken(t *testing.T, userID primitive.ObjectID, role domain.Role, expiresIn time.Duration) string {
	t.Helper()
	claims := jwtClaims{
		UserID: userID.Hex(),
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func (ts *testServer) do(method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	return w
}

func TestPing(t *testing.T) {
	ts := newTestServer()
	w := ts.do(http.MethodGet, "/ping", "", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if w.Header().Get(RequestIDHeader) == "" {
		t.Error("missing request id header")
	}
}

func TestRequestIDIsEchoed(t *testing.T) {
	ts := newTestServer()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	if got := w.Header().Get(RequestIDHeader); got != "abc-123" {
		t.Errorf("request id = %q, want abc-123", got)
	}
}

func TestAuthMiddleware(t *testing.T) {
	ts := newTestServer()
	clientID := primitive.NewObjectID()
	wrongKey, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwtClaims{
		UserID: clientID.Hex(), Role: domain.RoleClient,
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}).SignedString([]byte("other-secret"))

	tests := []struct {
		name  string
		token string
		want  int
	}{
		{"missing token", "", http.StatusUnauthorized},
		{"expired", signToken(t, clientID, domain.RoleClient, -time.Minute), http.StatusUnauthorized},
		{"wrong key", wrongKey, http.StatusUnauthorized},
		{"trainer on client route", signToken(t, clientID, domain.RoleTrainer, time.Hour), http.StatusForbidden},
		{"client", signToken(t, clientID, domain.RoleClient, time.Hour), http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := ts.do(http.MethodGet, "/api/v1/client/personal-bests", tt.token, "")
			if w.Code != tt.want {
				t.Errorf("status = %d, want %d (%s)", w.Code, tt.want, w.Body.String())
			}
		})
	}
}

func TestCompleteExerciseHandler(t *testing.T) {
	ts := newTestServer()
	clientID, workoutID := primitive.NewObjectID(), primitive.NewObjectID()
	token := signToken(t, clientID, domain.RoleClient, time.Hour)
	path := "/api/v1/client/workouts/" + workoutID.Hex() + "/exercises/0/complete"

	w := ts.do(http.MethodPost, path, token, `{"rating":"hard","bestSet":{"reps":"8","weight":"60kg"}}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if ts.completion.gotRating != domain.RatingHard || ts.completion.gotIndex != 0 {
		t.Errorf("service got rating %q index %d", ts.completion.gotRating, ts.completion.gotIndex)
	}
	if ts.completion.gotBestSet == nil || ts.completion.gotBestSet.Weight != "60kg" {
		t.Errorf("service got best set %+v", ts.completion.gotBestSet)
	}

	var resp WorkoutResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.ID != workoutID.Hex() || len(resp.ExerciseCompletions) != 1 || resp.ExerciseCompletions[0].BestSet.Reps != "8" {
		t.Errorf("response = %+v", resp)
	}
}

func TestCompleteExerciseHandler_Errors(t *testing.T) {
	clientID, workoutID := primitive.NewObjectID(), primitive.NewObjectID()
	token := signToken(t, clientID, domain.RoleClient, time.Hour)
	base := "/api/v1/client/workouts/"

	tests := []struct {
		name       string
		path       string
		body       string
		serviceErr error
		want       int
	}{
		{"bad workout id", base + "nope/exercises/0/complete", `{"rating":"good"}`, nil, http.StatusBadRequest},
		{"bad index", base + workoutID.Hex() + "/exercises/first/complete", `{"rating":"good"}`, nil, http.StatusBadRequest},
		{"missing rating", base + workoutID.Hex() + "/exercises/0/complete", `{}`, nil, http.StatusBadRequest},
		{"invalid rating", base + workoutID.Hex() + "/exercises/0/complete", `{"rating":"meh"}`, service.ErrInvalidRating, http.StatusBadRequest},
		{"not found", base + workoutID.Hex() + "/exercises/0/complete", `{"rating":"good"}`, service.ErrWorkoutNotFound, http.StatusNotFound},
		{"storage failure", base + workoutID.Hex() + "/exercises/0/complete", `{"rating":"good"}`, errors.New("socket closed"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer()
			ts.completion.err = tt.serviceErr
			w := ts.do(http.MethodPost, tt.path, token, tt.body)
			if w.Code != tt.want {
				t.Errorf("status = %d, want %d (%s)", w.Code, tt.want, w.Body.String())
			}
		})
	}
}

func TestUncompleteExerciseHandler(t *testing.T) {
	ts := newTestServer()
	clientID, workoutID := primitive.NewObjectID(), primitive.NewObjectID()
	token := signToken(t, clientID, domain.RoleClient, time.Hour)

	w := ts.do(http.MethodDelete, "/api/v1/client/workouts/"+workoutID.Hex()+"/exercises/4/complete", token, "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if ts.completion.gotIndex != 4 {
		t.Errorf("index = %d, want 4", ts.completion.gotIndex)
	}
	var resp WorkoutResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.ExerciseCompletions == nil || resp.Exercises == nil {
		t.Errorf("lists must encode as [] not null: %s", w.Body.String())
	}
}

func TestClientHistoryHandler(t *testing.T) {
	ts := newTestServer()
	clientID := primitive.NewObjectID()
	completedAt := time.Date(2026, 5, 2, 10, 0, 0, 0, time.UTC)
	ts.history.history = &service.ExerciseHistory{
		ExerciseName: "squats",
		Exercise:     &domain.Exercise{DisplayName: "Squats", ExerciseType: domain.ExerciseTypeSets},
		CurrentPB:    &domain.ExercisePB{ExerciseName: "squats", BestSet: domain.BestSet{Reps: "8", Weight: "60kg"}},
		PBHistory: []service.HistoryEntry{
			{Exercise: "Squats 4x8 @ 60kg", Completed: true, CompletedAt: &completedAt, BestSet: &domain.BestSet{Reps: "8"}},
		},
		WorkoutHistory: []service.HistoryEntry{
			{Exercise: "Squats 4x8 @ 60kg", Completed: true, CompletedAt: &completedAt, BestSet: &domain.BestSet{Reps: "8"}},
			{Exercise: "Squats 5x5"},
		},
	}

	w := ts.do(http.MethodGet, "/api/v1/client/exercises/history?name=Squats", signToken(t, clientID, domain.RoleClient, time.Hour), "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if ts.history.gotCustomer != clientID || ts.history.gotName != "Squats" {
		t.Errorf("service called with %v %q", ts.history.gotCustomer, ts.history.gotName)
	}

	var resp ExerciseHistoryResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.DisplayName != "Squats" || resp.PB == nil || resp.PB.BestSet.Weight != "60kg" {
		t.Errorf("response = %+v", resp)
	}
	if len(resp.History) != 1 || len(resp.WorkoutHistory) != 2 {
		t.Errorf("history = %d, workoutHistory = %d", len(resp.History), len(resp.WorkoutHistory))
	}
}

func TestMapExerciseHistoryToResponse_DisplayName(t *testing.T) {
	tests := []struct {
		name    string
		history *service.ExerciseHistory
		want    string
	}{
		{"canonical exercise", &service.ExerciseHistory{ExerciseName: "bench press", Exercise: &domain.Exercise{DisplayName: "Bench press"}}, "Bench press"},
		{"no canonical exercise", &service.ExerciseHistory{ExerciseName: "romanian deadlift"}, "Romanian Deadlift"},
		{"canonical exercise without display name", &service.ExerciseHistory{ExerciseName: "face pull", Exercise: &domain.Exercise{}}, "Face Pull"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MapExerciseHistoryToResponse(tt.history).DisplayName; got != tt.want {
				t.Errorf("display name = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestClientHistoryHandler_MissingName(t *testing.T) {
	ts := newTestServer()
	ts.history.err = service.ErrMissingExerciseName
	w := ts.do(http.MethodGet, "/api/v1/client/exercises/history", signToken(t, primitive.NewObjectID(), domain.RoleClient, time.Hour), "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestExportHistoryHandler(t *testing.T) {
	ts := newTestServer()
	ts.history.export = &service.HistoryExport{ObjectKey: "exports/x/squats/1.json", DownloadURL: "https://example.com/1"}
	token := signToken(t, primitive.NewObjectID(), domain.RoleClient, time.Hour)

	w := ts.do(http.MethodPost, "/api/v1/client/exercises/history/export", token, `{"name":"squats"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"downloadUrl":"https://example.com/1"`) {
		t.Errorf("body = %s", w.Body.String())
	}

	if w := ts.do(http.MethodPost, "/api/v1/client/exercises/history/export", token, `{}`); w.Code != http.StatusBadRequest {
		t.Errorf("missing name status = %d, want 400", w.Code)
	}

	ts.history.err = service.ErrHistoryExportFailed
	if w := ts.do(http.MethodPost, "/api/v1/client/exercises/history/export", token, `{"name":"squats"}`); w.Code != http.StatusInternalServerError {
		t.Errorf("export failure status = %d, want 500", w.Code)
	}
}

func TestListExportsHandler(t *testing.T) {
	ts := newTestServer()
	w := ts.do(http.MethodGet, "/api/v1/client/exercises/history/exports", signToken(t, primitive.NewObjectID(), domain.RoleClient, time.Hour), "")
	if w.Code != http.StatusOK || strings.TrimSpace(w.Body.String()) != "[]" {
		t.Errorf("status = %d, body = %s", w.Code, w.Body.String())
	}
}

func TestTrainerRoutes(t *testing.T) {
	ts := newTestServer()
	trainerID, clientID, strangerID := primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID()
	ts.trainer.managed[clientID] = trainerID
	exerciseID := primitive.NewObjectID()
	ts.pbs.pbs = []domain.ExercisePB{{ID: primitive.NewObjectID(), ExerciseID: &exerciseID, ExerciseName: "squats", BestSet: domain.BestSet{Reps: "10"}}}
	ts.history.history = &service.ExerciseHistory{ExerciseName: "squats"}
	token := signToken(t, trainerID, domain.RoleTrainer, time.Hour)

	w := ts.do(http.MethodGet, "/api/v1/trainer/clients/"+clientID.Hex()+"/personal-bests", token, "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var pbs []PersonalBestResponse
	if err := json.Unmarshal(w.Body.Bytes(), &pbs); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(pbs) != 1 || pbs[0].ExerciseID != exerciseID.Hex() || pbs[0].BestSet.Reps != "10" {
		t.Errorf("pbs = %+v", pbs)
	}

	w = ts.do(http.MethodGet, "/api/v1/trainer/clients/"+clientID.Hex()+"/exercises/history?name=squats", token, "")
	if w.Code != http.StatusOK || ts.history.gotCustomer != clientID {
		t.Errorf("history status = %d, customer = %v", w.Code, ts.history.gotCustomer)
	}

	w = ts.do(http.MethodGet, "/api/v1/trainer/clients/"+strangerID.Hex()+"/personal-bests", token, "")
	if w.Code != http.StatusNotFound {
		t.Errorf("unmanaged client status = %d, want 404", w.Code)
	}

	w = ts.do(http.MethodGet, "/api/v1/trainer/clients/zzz/personal-bests", token, "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("invalid client id status = %d, want 400", w.Code)
	}

	w = ts.do(http.MethodGet, "/api/v1/trainer/clients/"+clientID.Hex()+"/personal-bests", signToken(t, clientID, domain.RoleClient, time.Hour), "")
	if w.Code != http.StatusForbidden {
		t.Errorf("client on trainer route status = %d, want 403", w.Code)
	}
}

func TestTrainerExercisesHandler(t *testing.T) {
	ts := newTestServer()
	trainerID := primitive.NewObjectID()
	ts.exercises.exercises = []domain.Exercise{
		{ID: primitive.NewObjectID(), TrainerID: &trainerID, Name: "squats", DisplayName: "Squats", ExerciseType: domain.ExerciseTypeSets},
	}

	w := ts.do(http.MethodGet, "/api/v1/trainer/exercises", signToken(t, trainerID, domain.RoleTrainer, time.Hour), "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var exercises []ExerciseResponse
	if err := json.Unmarshal(w.Body.Bytes(), &exercises); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(exercises) != 1 || exercises[0].TrainerID != trainerID.Hex() || exercises[0].DisplayName != "Squats" {
		t.Errorf("exercises = %+v", exercises)
	}
}

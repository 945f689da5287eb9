package service

import (
	"alcyxob/fitness-records/internal/domain"
	"alcyxob/fitness-records/internal/repository"
	"context"
	"errors"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CompletionService records which exercises of a workout a client finished.
type CompletionService interface {
	// CompleteExercise stores the latest attempt at the exercise at exerciseIndex,
	// replacing any earlier completion for that index. A non-empty best set is
	// then offered to PB reconciliation, whose failures are logged only.
	CompleteExercise(ctx context.Context, customerID, workoutID primitive.ObjectID, exerciseIndex int, rating domain.Rating, bestSet *domain.BestSet) (*domain.Workout, error)
	// UncompleteExercise deletes the completion for exerciseIndex. PBs are not rolled back.
	UncompleteExercise(ctx context.Context, customerID, workoutID primitive.ObjectID, exerciseIndex int) (*domain.Workout, error)
}

// completionService implements the CompletionService interface.
type completionService struct {
	workoutRepo repository.WorkoutRepository
	userRepo    repository.UserRepository
	pbService   PersonalBestService
	now         func() time.Time
}

// NewCompletionService creates a new instance of completionService.
func NewCompletionService(workoutRepo repository.WorkoutRepository, userRepo repository.UserRepository, pbService PersonalBestService) CompletionService {
	return &completionService{
		workoutRepo: workoutRepo,
		userRepo:    userRepo,
		pbService:   pbService,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func (s *completionService) CompleteExercise(ctx context.Context, customerID, workoutID primitive.ObjectID, exerciseIndex int, rating domain.Rating, bestSet *domain.BestSet) (*domain.Workout, error) {
	if !rating.Valid() {
		return nil, ErrInvalidRating
	}
	if customerID == primitive.NilObjectID || workoutID == primitive.NilObjectID {
		return nil, ErrMissingIdentifier
	}

	workout, err := s.getWorkout(ctx, customerID, workoutID)
	if err != nil {
		return nil, err
	}
	if !workout.HasExerciseIndex(exerciseIndex) {
		return nil, ErrInvalidExerciseIndex
	}

	completion := domain.ExerciseCompletion{
		ExerciseIndex: exerciseIndex,
		Completed:     true,
		Rating:        rating,
		CompletedAt:   s.now(),
	}
	if bestSet.IsPresent() {
		stored := *bestSet
		completion.BestSet = &stored
	}

	completions := make([]domain.ExerciseCompletion, 0, len(workout.ExerciseCompletions)+1)
	replaced := false
	for _, c := range workout.ExerciseCompletions {
		if c.ExerciseIndex == exerciseIndex {
			completions = append(completions, completion)
			replaced = true
			continue
		}
		completions = append(completions, c)
	}
	if !replaced {
		completions = append(completions, completion)
	}

	updated, err := s.saveCompletions(ctx, workoutID, completions)
	if err != nil {
		return nil, err
	}

	if completion.BestSet != nil {
		s.recordPersonalBest(ctx, workout, exerciseIndex, *completion.BestSet)
	}
	return updated, nil
}

func (s *completionService) UncompleteExercise(ctx context.Context, customerID, workoutID primitive.ObjectID, exerciseIndex int) (*domain.Workout, error) {
	if customerID == primitive.NilObjectID || workoutID == primitive.NilObjectID {
		return nil, ErrMissingIdentifier
	}
	// Not bounded by len(Exercises): a completion can outlive an edit of the exercise list.
	if exerciseIndex < 0 {
		return nil, ErrInvalidExerciseIndex
	}

	workout, err := s.getWorkout(ctx, customerID, workoutID)
	if err != nil {
		return nil, err
	}

	completions := make([]domain.ExerciseCompletion, 0, len(workout.ExerciseCompletions))
	for _, c := range workout.ExerciseCompletions {
		if c.ExerciseIndex != exerciseIndex {
			completions = append(completions, c)
		}
	}

	return s.saveCompletions(ctx, workoutID, completions)
}

func (s *completionService) getWorkout(ctx context.Context, customerID, workoutID primitive.ObjectID) (*domain.Workout, error) {
	workout, err := s.workoutRepo.GetByIDForClient(ctx, workoutID, customerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrWorkoutNotFound
		}
		return nil, err
	}
	return workout, nil
}

func (s *completionService) saveCompletions(ctx context.Context, workoutID primitive.ObjectID, completions []domain.ExerciseCompletion) (*domain.Workout, error) {
	updated, err := s.workoutRepo.UpdateCompletions(ctx, workoutID, completions, s.now())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrWorkoutNotFound
		}
		return nil, err
	}
	return updated, nil
}

// recordPersonalBest runs PB reconciliation after the workout write has
// succeeded. Errors stop here.
func (s *completionService) recordPersonalBest(ctx context.Context, workout *domain.Workout, exerciseIndex int, bestSet domain.BestSet) {
	// The tenant comes from the client's user record, the same source history reads use.
	customer, err := s.userRepo.GetByID(ctx, workout.ClientID)
	if err != nil {
		log.Printf("WARN: Personal best bookkeeping skipped for workout %s exercise %d: load client: %v", workout.ID.Hex(), exerciseIndex, err)
		return
	}
	if customer.TrainerID != nil && workout.TrainerID != primitive.NilObjectID && *customer.TrainerID != workout.TrainerID {
		log.Printf("WARN: Workout %s trainer %s differs from client trainer %s; using the client's", workout.ID.Hex(), workout.TrainerID.Hex(), customer.TrainerID.Hex())
	}

	updated, err := s.pbService.Reconcile(ctx, ReconcileInput{
		CustomerID:  workout.ClientID,
		TrainerID:   customer.TrainerID,
		WorkoutID:   workout.ID,
		WorkoutDate: workout.Date,
		ExerciseRaw: workout.Exercises[exerciseIndex],
		BestSet:     bestSet,
	})
	if err != nil {
		log.Printf("WARN: Personal best bookkeeping failed for workout %s exercise %d: %v", workout.ID.Hex(), exerciseIndex, err)
		return
	}
	if updated {
		log.Printf("INFO: Personal best updated for client %s from workout %s exercise %d", workout.ClientID.Hex(), workout.ID.Hex(), exerciseIndex)
	}
}

package service

import (
	"alcyxob/fitness-records/internal/domain"
	"alcyxob/fitness-records/internal/parser"
	"alcyxob/fitness-records/internal/repository"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ReconcileInput describes a freshly recorded best set and where it came from.
type ReconcileInput struct {
	CustomerID  primitive.ObjectID
	TrainerID   *primitive.ObjectID // Tenant; required
	WorkoutID   primitive.ObjectID
	WorkoutDate time.Time
	ExerciseRaw string
	BestSet     domain.BestSet
}

type PersonalBestService interface {
	// Reconcile stores the best set as the customer's PB when it beats the
	// current one. It reports whether the PB changed.
	Reconcile(ctx context.Context, in ReconcileInput) (bool, error)
	ListPersonalBests(ctx context.Context, customerID primitive.ObjectID) ([]domain.ExercisePB, error)
}

// personalBestService implements the PersonalBestService interface.
type personalBestService struct {
	exerciseRepo repository.ExerciseRepository
	pbRepo       repository.PersonalBestRepository
}

// NewPersonalBestService creates a new instance of personalBestService.
func NewPersonalBestService(exerciseRepo repository.ExerciseRepository, pbRepo repository.PersonalBestRepository) PersonalBestService {
	return &personalBestService{
		exerciseRepo: exerciseRepo,
		pbRepo:       pbRepo,
	}
}

func (s *personalBestService) Reconcile(ctx context.Context, in ReconcileInput) (bool, error) {
	name := parser.ExtractAndNormalize(in.ExerciseRaw)
	if name == "" || !in.BestSet.IsPresent() {
		return false, nil
	}
	// New exercises are always tenant scoped; trainerId null rows are legacy only.
	if in.TrainerID == nil || *in.TrainerID == primitive.NilObjectID {
		return false, ErrTenantUnresolved
	}

	exercise, err := s.resolveExercise(ctx, name, in.ExerciseRaw, in.TrainerID)
	if err != nil {
		return false, fmt.Errorf("resolve exercise %q: %w", name, err)
	}

	existing, err := findPersonalBest(ctx, s.pbRepo, in.CustomerID, exercise, name)
	if err != nil {
		return false, fmt.Errorf("find personal best for %q: %w", name, err)
	}
	if !IsSuperior(existing, in.BestSet) {
		return false, nil
	}

	pb := &domain.ExercisePB{
		CustomerID:   in.CustomerID,
		ExerciseID:   &exercise.ID,
		ExerciseName: name,
		BestSet:      in.BestSet,
		WorkoutID:    in.WorkoutID,
		WorkoutDate:  in.WorkoutDate,
	}

	if existing != nil {
		pb.ID = existing.ID
		if err := s.pbRepo.Update(ctx, pb); err != nil {
			return false, fmt.Errorf("update personal best %s: %w", existing.ID.Hex(), err)
		}
		return true, nil
	}

	id, err := s.pbRepo.Create(ctx, pb)
	if errors.Is(err, repository.ErrDuplicate) {
		// Another request created the row between our lookup and insert.
		winner, findErr := s.pbRepo.FindByExerciseID(ctx, in.CustomerID, exercise.ID)
		if findErr != nil {
			return false, fmt.Errorf("find personal best after duplicate insert: %w", findErr)
		}
		pb.ID = winner.ID
		if err := s.pbRepo.Update(ctx, pb); err != nil {
			return false, fmt.Errorf("update personal best after duplicate insert: %w", err)
		}
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("create personal best: %w", err)
	}
	pb.ID = id
	return true, nil
}

// resolveExercise finds the canonical exercise for a normalized name or
// creates it for the tenant.
func (s *personalBestService) resolveExercise(ctx context.Context, name, raw string, trainerID *primitive.ObjectID) (*domain.Exercise, error) {
	exercise, err := s.exerciseRepo.FindByName(ctx, name, trainerID)
	if err == nil {
		return exercise, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	parsed := parser.Parse(raw)
	exercise = &domain.Exercise{
		TrainerID:     trainerID,
		Name:          name,
		DisplayName:   parser.ExtractName(raw),
		ExerciseType:  parsed.ExerciseType,
		DefaultSets:   parsed.Sets,
		DefaultReps:   parsed.Reps,
		DefaultWeight: parsed.Weight,
	}

	id, err := s.exerciseRepo.Create(ctx, exercise)
	if errors.Is(err, repository.ErrDuplicate) {
		return s.exerciseRepo.FindByName(ctx, name, trainerID)
	}
	if err != nil {
		return nil, err
	}
	exercise.ID = id
	return exercise, nil
}

// ListPersonalBests returns all PB rows of a customer.
func (s *personalBestService) ListPersonalBests(ctx context.Context, customerID primitive.ObjectID) ([]domain.ExercisePB, error) {
	if customerID == primitive.NilObjectID {
		return nil, ErrMissingIdentifier
	}
	return s.pbRepo.ListByCustomer(ctx, customerID)
}

// findPersonalBest looks the PB up by canonical exercise first and falls back
// to the normalized name used by legacy rows. A missing PB is (nil, nil).
func findPersonalBest(ctx context.Context, repo repository.PersonalBestRepository, customerID primitive.ObjectID, exercise *domain.Exercise, name string) (*domain.ExercisePB, error) {
	if exercise != nil {
		pb, err := repo.FindByExerciseID(ctx, customerID, exercise.ID)
		if err == nil {
			return pb, nil
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
	}

	pb, err := repo.FindByExerciseName(ctx, customerID, name)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	return pb, err
}

// IsSuperior decides whether candidate replaces the stored PB.
//
// Reps are compared first; heavier weight only breaks a tie on reps, and a
// missing weight counts as zero there. When reps are missing on either side,
// weight decides alone. A best set with no
// comparable numbers (cardio, timed holds) always replaces the stored one.
func IsSuperior(existing *domain.ExercisePB, candidate domain.BestSet) bool {
	if existing == nil {
		return true
	}
	current := existing.BestSet

	hasReps := present(current.Reps) && present(candidate.Reps)
	hasWeight := present(current.Weight) && present(candidate.Weight)

	switch {
	case hasReps:
		newReps, oldReps := repsValue(candidate.Reps), repsValue(current.Reps)
		if newReps != oldReps {
			return newReps > oldReps
		}
		if present(current.Weight) || present(candidate.Weight) {
			return weightValue(candidate.Weight) > weightValue(current.Weight)
		}
		return false
	case hasWeight:
		return weightValue(candidate.Weight) > weightValue(current.Weight)
	default:
		return true
	}
}

func present(s string) bool {
	return strings.TrimSpace(s) != ""
}

// repsValue reads the leading integer, so "8-10" counts as 8.
func repsValue(s string) int {
	s = strings.TrimSpace(s)
	end := strings.IndexFunc(s, func(r rune) bool { return !unicode.IsDigit(r) })
	if end >= 0 {
		s = s[:end]
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

// weightValue drops units and anything else that is not part of a number: "62.5kg" is 62.5.
func weightValue(s string) float64 {
	digits := strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) || r == '.' {
			return r
		}
		return -1
	}, s)
	f, err := strconv.ParseFloat(digits, 64)
	if err != nil {
		return 0
	}
	return f
}

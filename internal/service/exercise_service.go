package service

import (
	"alcyxob/fitness-records/internal/domain"
	"alcyxob/fitness-records/internal/repository"
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ExerciseService exposes the canonical exercise catalogue of a tenant.
// Entries are created by PB reconciliation, never directly.
type ExerciseService interface {
	GetExercisesByTrainer(ctx context.Context, trainerID primitive.ObjectID) ([]domain.Exercise, error)
}

// exerciseService implements the ExerciseService interface.
type exerciseService struct {
	exerciseRepo repository.ExerciseRepository
}

// NewExerciseService creates a new instance of exerciseService.
func NewExerciseService(exerciseRepo repository.ExerciseRepository) ExerciseService {
	return &exerciseService{
		exerciseRepo: exerciseRepo,
	}
}

// GetExercisesByTrainer retrieves all canonical exercises for a specific trainer.
func (s *exerciseService) GetExercisesByTrainer(ctx context.Context, trainerID primitive.ObjectID) ([]domain.Exercise, error) {
	if trainerID == primitive.NilObjectID {
		return nil, ErrMissingIdentifier
	}
	// An empty catalogue is an empty slice, not ErrNotFound.
	return s.exerciseRepo.GetByTrainerID(ctx, trainerID)
}

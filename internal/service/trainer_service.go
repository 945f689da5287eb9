package service

import (
	"alcyxob/fitness-records/internal/domain"
	"alcyxob/fitness-records/internal/repository"
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TrainerService answers tenant questions for trainer-facing routes.
type TrainerService interface {
	// GetManagedClient returns the client only if the trainer manages them.
	// Anything else, including a missing client, is reported as not found.
	GetManagedClient(ctx context.Context, trainerID, clientID primitive.ObjectID) (*domain.User, error)
}

// trainerService implements the TrainerService interface.
type trainerService struct {
	userRepo repository.UserRepository
}

// NewTrainerService creates a new instance of trainerService.
func NewTrainerService(userRepo repository.UserRepository) TrainerService {
	return &trainerService{
		userRepo: userRepo,
	}
}

func (s *trainerService) GetManagedClient(ctx context.Context, trainerID, clientID primitive.ObjectID) (*domain.User, error) {
	if trainerID == primitive.NilObjectID || clientID == primitive.NilObjectID {
		return nil, ErrMissingIdentifier
	}

	client, err := s.userRepo.GetByID(ctx, clientID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}

	if !client.IsClient() || !client.IsManagedBy(trainerID) {
		return nil, ErrClientNotManaged
	}
	return client, nil
}

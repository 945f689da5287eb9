package repository

import (
	"alcyxob/fitness-records/internal/domain"
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for repository layer
var (
	ErrNotFound  = RepositoryError("not found")
	ErrDuplicate = RepositoryError("duplicate key")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository gives read access to accounts managed by the auth service.
type UserRepository interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
}

// WorkoutRepository defines the interface for interacting with workout data.
type WorkoutRepository interface {
	// GetByIDForClient returns ErrNotFound when the workout does not exist or belongs to another client.
	GetByIDForClient(ctx context.Context, id, clientID primitive.ObjectID) (*domain.Workout, error)
	// UpdateCompletions replaces the whole completion sequence and returns the stored workout.
	UpdateCompletions(ctx context.Context, id primitive.ObjectID, completions []domain.ExerciseCompletion, updatedAt time.Time) (*domain.Workout, error)
	// ListByClient returns every workout of the client, newest date first.
	ListByClient(ctx context.Context, clientID primitive.ObjectID) ([]domain.Workout, error)
}

// ExerciseRepository defines the interface for the canonical exercise catalogue.
type ExerciseRepository interface {
	// FindByName looks up a normalized name within the tenant, falling back to
	// legacy rows that have no tenant. trainerID may be nil.
	FindByName(ctx context.Context, name string, trainerID *primitive.ObjectID) (*domain.Exercise, error)
	// Create returns ErrDuplicate if the tenant already has the name.
	Create(ctx context.Context, exercise *domain.Exercise) (primitive.ObjectID, error)
	GetByTrainerID(ctx context.Context, trainerID primitive.ObjectID) ([]domain.Exercise, error)
}

// PersonalBestRepository defines the interface for interacting with PB rows.
type PersonalBestRepository interface {
	FindByExerciseID(ctx context.Context, customerID, exerciseID primitive.ObjectID) (*domain.ExercisePB, error)
	FindByExerciseName(ctx context.Context, customerID primitive.ObjectID, exerciseName string) (*domain.ExercisePB, error)
	// Create returns ErrDuplicate if a row for (customer, exercise) already exists.
	Create(ctx context.Context, pb *domain.ExercisePB) (primitive.ObjectID, error)
	// Update overwrites the stored row matched by pb.ID.
	Update(ctx context.Context, pb *domain.ExercisePB) error
	ListByCustomer(ctx context.Context, customerID primitive.ObjectID) ([]domain.ExercisePB, error)
}

// ArchiveRepository keeps metadata about exported history documents.
type ArchiveRepository interface {
	Create(ctx context.Context, archive *domain.HistoryArchive) (primitive.ObjectID, error)
	// ListByClient returns archives newest first.
	ListByClient(ctx context.Context, clientID primitive.ObjectID) ([]domain.HistoryArchive, error)
}

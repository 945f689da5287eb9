// internal/repository/mongo/workout_repo.go
package mongo

import (
	"alcyxob/fitness-records/internal/domain"
	"alcyxob/fitness-records/internal/repository"
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const workoutCollectionName = "workouts"

// mongoWorkoutRepository implements repository.WorkoutRepository
type mongoWorkoutRepository struct {
	collection *mongo.Collection
}

// NewMongoWorkoutRepository creates a new Workout repository.
func NewMongoWorkoutRepository(db *mongo.Database) repository.WorkoutRepository {
	return &mongoWorkoutRepository{
		collection: db.Collection(workoutCollectionName),
	}
}

// GetByIDForClient retrieves a workout only if it belongs to the given client.
func (r *mongoWorkoutRepository) GetByIDForClient(ctx context.Context, id, clientID primitive.ObjectID) (*domain.Workout, error) {
	var workout domain.Workout
	filter := bson.M{"_id": id, "clientId": clientID}
	err := r.collection.FindOne(ctx, filter).Decode(&workout)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &workout, nil
}

// UpdateCompletions writes the full completion sequence back onto the workout.
// Concurrent writers race; the last one wins.
func (r *mongoWorkoutRepository) UpdateCompletions(ctx context.Context, id primitive.ObjectID, completions []domain.ExerciseCompletion, updatedAt time.Time) (*domain.Workout, error) {
	if id == primitive.NilObjectID {
		return nil, errors.New("workout ID is required for update")
	}
	if completions == nil {
		// Store an empty array rather than null so readers never see a missing field.
		completions = []domain.ExerciseCompletion{}
	}

	filter := bson.M{"_id": id}
	update := bson.M{
		"$set": bson.M{
			"exercise_completions": completions,
			"updatedAt":            updatedAt.UTC(),
		},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var workout domain.Workout
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&workout)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &workout, nil
}

// ListByClient retrieves all workouts of a client, newest first.
func (r *mongoWorkoutRepository) ListByClient(ctx context.Context, clientID primitive.ObjectID) ([]domain.Workout, error) {
	var workouts []domain.Workout
	filter := bson.M{"clientId": clientID}
	findOptions := options.Find().SetSort(bson.D{{Key: "date", Value: -1}, {Key: "_id", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &workouts); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return workouts, nil
}

// EnsureWorkoutIndexes creates necessary indexes. Call during startup.
func EnsureWorkoutIndexes(ctx context.Context, collection *mongo.Collection) {
	createIndexes(ctx, collection, []mongo.IndexModel{
		{
			// History replay lists a client's workouts by date
			Keys:    bson.D{{Key: "clientId", Value: 1}, {Key: "date", Value: -1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "trainerId", Value: 1}},
			Options: options.Index(),
		},
	})
}

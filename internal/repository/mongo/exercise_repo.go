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

const exerciseCollectionName = "exercises"

// mongoExerciseRepository implements repository.ExerciseRepository
type mongoExerciseRepository struct {
	collection *mongo.Collection
}

// NewMongoExerciseRepository creates a new Exercise repository backed by MongoDB.
func NewMongoExerciseRepository(db *mongo.Database) repository.ExerciseRepository {
	return &mongoExerciseRepository{
		collection: db.Collection(exerciseCollectionName),
	}
}

// FindByName returns the tenant's exercise for a normalized name, or the
// legacy global one when the tenant has none.
func (r *mongoExerciseRepository) FindByName(ctx context.Context, name string, trainerID *primitive.ObjectID) (*domain.Exercise, error) {
	owners := bson.A{nil}
	if trainerID != nil {
		owners = append(owners, *trainerID)
	}
	filter := bson.M{
		"name":      name,
		"trainerId": bson.M{"$in": owners},
	}
	// null sorts before any ObjectID, so descending puts the tenant row first
	findOptions := options.FindOne().SetSort(bson.D{{Key: "trainerId", Value: -1}})

	var exercise domain.Exercise
	err := r.collection.FindOne(ctx, filter, findOptions).Decode(&exercise)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &exercise, nil
}

// Create inserts a new canonical exercise.
func (r *mongoExerciseRepository) Create(ctx context.Context, exercise *domain.Exercise) (primitive.ObjectID, error) {
	if exercise.Name == "" {
		return primitive.NilObjectID, errors.New("exercise name is required")
	}

	exercise.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	exercise.CreatedAt = now
	exercise.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, exercise)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}
	return insertedID, nil
}

// GetByTrainerID retrieves all canonical exercises of a tenant, by name.
func (r *mongoExerciseRepository) GetByTrainerID(ctx context.Context, trainerID primitive.ObjectID) ([]domain.Exercise, error) {
	var exercises []domain.Exercise
	filter := bson.M{"trainerId": trainerID}
	findOptions := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &exercises); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return exercises, nil
}

// EnsureExerciseIndexes creates necessary indexes for the exercises collection.
func EnsureExerciseIndexes(ctx context.Context, collection *mongo.Collection) {
	createIndexes(ctx, collection, []mongo.IndexModel{
		{
			// One canonical row per normalized name and tenant
			Keys:    bson.D{{Key: "name", Value: 1}, {Key: "trainerId", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("exercise_name_tenant"),
		},
		{
			Keys:    bson.D{{Key: "trainerId", Value: 1}},
			Options: options.Index(),
		},
	})
}

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

const personalBestCollectionName = "exercise_pbs"

// mongoPersonalBestRepository implements repository.PersonalBestRepository
type mongoPersonalBestRepository struct {
	collection *mongo.Collection
}

// NewMongoPersonalBestRepository creates a new PB repository backed by MongoDB.
func NewMongoPersonalBestRepository(db *mongo.Database) repository.PersonalBestRepository {
	return &mongoPersonalBestRepository{
		collection: db.Collection(personalBestCollectionName),
	}
}

// FindByExerciseID retrieves the PB row linked to a canonical exercise.
func (r *mongoPersonalBestRepository) FindByExerciseID(ctx context.Context, customerID, exerciseID primitive.ObjectID) (*domain.ExercisePB, error) {
	return r.findOne(ctx, bson.M{"customerId": customerID, "exercise_id": exerciseID})
}

// FindByExerciseName retrieves a PB row by its normalized exercise name.
// Used for rows written before canonical exercises existed.
func (r *mongoPersonalBestRepository) FindByExerciseName(ctx context.Context, customerID primitive.ObjectID, exerciseName string) (*domain.ExercisePB, error) {
	return r.findOne(ctx, bson.M{"customerId": customerID, "exercise_name": exerciseName})
}

func (r *mongoPersonalBestRepository) findOne(ctx context.Context, filter bson.M) (*domain.ExercisePB, error) {
	var pb domain.ExercisePB
	err := r.collection.FindOne(ctx, filter).Decode(&pb)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &pb, nil
}

// Create inserts a new PB row.
func (r *mongoPersonalBestRepository) Create(ctx context.Context, pb *domain.ExercisePB) (primitive.ObjectID, error) {
	if pb.CustomerID == primitive.NilObjectID || pb.ExerciseName == "" {
		return primitive.NilObjectID, errors.New("customer ID and exercise name are required")
	}

	pb.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	pb.CreatedAt = now
	pb.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, pb)
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

// Update overwrites the performance fields of an existing PB row in place.
// The whole best set is replaced, so stale fields from an older PB do not survive.
func (r *mongoPersonalBestRepository) Update(ctx context.Context, pb *domain.ExercisePB) error {
	if pb.ID == primitive.NilObjectID {
		return errors.New("personal best ID is required for update")
	}

	pb.UpdatedAt = time.Now().UTC()
	set := bson.M{
		"exercise_name":    pb.ExerciseName,
		"reps":             pb.Reps,
		"weight":           pb.Weight,
		"seconds":          pb.Seconds,
		"duration_minutes": pb.DurationMinutes,
		"distance_km":      pb.DistanceKm,
		"intensity":        pb.Intensity,
		"workout_id":       pb.WorkoutID,
		"workout_date":     pb.WorkoutDate,
		"updatedAt":        pb.UpdatedAt,
	}
	if pb.ExerciseID != nil {
		set["exercise_id"] = *pb.ExerciseID
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": pb.ID}, bson.M{"$set": set})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrDuplicate
		}
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// ListByCustomer retrieves every PB row of a customer ordered by exercise name.
func (r *mongoPersonalBestRepository) ListByCustomer(ctx context.Context, customerID primitive.ObjectID) ([]domain.ExercisePB, error) {
	var pbs []domain.ExercisePB
	findOptions := options.Find().SetSort(bson.D{{Key: "exercise_name", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{"customerId": customerID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &pbs); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return pbs, nil
}

// EnsurePersonalBestIndexes creates necessary indexes for the exercise_pbs collection.
func EnsurePersonalBestIndexes(ctx context.Context, collection *mongo.Collection) {
	createIndexes(ctx, collection, []mongo.IndexModel{
		{
			// One row per customer and canonical exercise; legacy rows without
			// an exercise_id are left out of the constraint.
			Keys: bson.D{{Key: "customerId", Value: 1}, {Key: "exercise_id", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetName("pb_customer_exercise").
				SetPartialFilterExpression(bson.M{"exercise_id": bson.M{"$exists": true}}),
		},
		{
			Keys:    bson.D{{Key: "customerId", Value: 1}, {Key: "exercise_name", Value: 1}},
			Options: options.Index(),
		},
	})
}

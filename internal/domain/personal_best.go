package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ExercisePB is a client's personal best for one exercise.
// Rows written before canonical exercises existed have no ExerciseID and are
// found through ExerciseName instead.
type ExercisePB struct {
	ID           primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	CustomerID   primitive.ObjectID  `bson:"customerId" json:"customerId"`
	ExerciseID   *primitive.ObjectID `bson:"exercise_id,omitempty" json:"exercise_id,omitempty"`
	ExerciseName string              `bson:"exercise_name" json:"exercise_name"`

	BestSet `bson:",inline"`

	WorkoutID   primitive.ObjectID `bson:"workout_id" json:"workout_id"`
	WorkoutDate time.Time          `bson:"workout_date" json:"workout_date"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

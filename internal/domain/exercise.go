// internal/domain/exercise.go
package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ExerciseType distinguishes strength-style exercises from cardio.
type ExerciseType string

const (
	ExerciseTypeSets   ExerciseType = "sets"
	ExerciseTypeCardio ExerciseType = "cardio"
)

// Exercise is the canonical, deduplicated entity behind the free-text names
// trainers type into workouts. It is created lazily the first time a best set
// is recorded for a name the tenant has not seen before.
type Exercise struct {
	ID           primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	TrainerID    *primitive.ObjectID `bson:"trainerId" json:"trainerId,omitempty"` // nil for legacy rows shared by all tenants
	Name         string              `bson:"name" json:"name"`                     // Normalized lookup key
	DisplayName  string              `bson:"display_name" json:"display_name"`
	ExerciseType ExerciseType        `bson:"exercise_type" json:"exercise_type"`

	DefaultSets   string `bson:"default_sets,omitempty" json:"default_sets,omitempty"`
	DefaultReps   string `bson:"default_reps,omitempty" json:"default_reps,omitempty"`
	DefaultWeight string `bson:"default_weight,omitempty" json:"default_weight,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// IsLegacyGlobal reports whether the exercise predates tenant scoping.
func (e *Exercise) IsLegacyGlobal() bool {
	return e.TrainerID == nil
}

package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Workout is a single dated session assigned to a client.
// Exercises are free-text descriptions addressed only by their position,
// so completions point at an index into Exercises rather than at a value.
type Workout struct {
	ID                  primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	ClientID            primitive.ObjectID   `bson:"clientId" json:"clientId"`
	TrainerID           primitive.ObjectID   `bson:"trainerId" json:"trainerId"` // Tenant that owns the client
	Title               string               `bson:"title" json:"title"`
	Date                time.Time            `bson:"date" json:"date"`
	Exercises           []string             `bson:"exercises" json:"exercises"`
	ExerciseCompletions []ExerciseCompletion `bson:"exercise_completions" json:"exercise_completions"`
	CreatedAt           time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt           time.Time            `bson:"updatedAt" json:"updatedAt"`
}

// HasExerciseIndex reports whether idx addresses an entry of Exercises.
func (w *Workout) HasExerciseIndex(idx int) bool {
	return idx >= 0 && idx < len(w.Exercises)
}

// CompletionFor returns the completion recorded for the exercise at idx, if any.
func (w *Workout) CompletionFor(idx int) *ExerciseCompletion {
	for i := range w.ExerciseCompletions {
		if w.ExerciseCompletions[i].ExerciseIndex == idx {
			return &w.ExerciseCompletions[i]
		}
	}
	return nil
}

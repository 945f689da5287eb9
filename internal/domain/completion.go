package domain

import (
	"strings"
	"time"
)

// Rating is the client's perceived difficulty of a completed exercise.
type Rating string

const (
	RatingEasy    Rating = "easy"
	RatingGood    Rating = "good"
	RatingHard    Rating = "hard"
	RatingTooHard Rating = "too_hard"
)

// Valid reports whether r is one of the known ratings.
func (r Rating) Valid() bool {
	switch r {
	case RatingEasy, RatingGood, RatingHard, RatingTooHard:
		return true
	}
	return false
}

// ExerciseCompletion is embedded in a Workout and records the latest attempt
// at the exercise found at ExerciseIndex.
type ExerciseCompletion struct {
	ExerciseIndex int       `bson:"exerciseIndex" json:"exerciseIndex"`
	Completed     bool      `bson:"completed" json:"completed"`
	Rating        Rating    `bson:"rating" json:"rating"`
	CompletedAt   time.Time `bson:"completed_at" json:"completed_at"`
	BestSet       *BestSet  `bson:"bestSet,omitempty" json:"bestSet,omitempty"`
}

// BestSet is the single best set a client logs for an exercise.
// Sets exercises fill Reps/Weight/Seconds, cardio exercises fill
// DurationMinutes/DistanceKm/Intensity. Every field is optional.
type BestSet struct {
	Reps            string `bson:"reps,omitempty" json:"reps,omitempty"`
	Weight          string `bson:"weight,omitempty" json:"weight,omitempty"`
	Seconds         string `bson:"seconds,omitempty" json:"seconds,omitempty"`
	DurationMinutes string `bson:"duration_minutes,omitempty" json:"duration_minutes,omitempty"`
	DistanceKm      string `bson:"distance_km,omitempty" json:"distance_km,omitempty"`
	Intensity       string `bson:"intensity,omitempty" json:"intensity,omitempty"`
}

// IsPresent reports whether at least one field carries a value.
func (b *BestSet) IsPresent() bool {
	if b == nil {
		return false
	}
	for _, v := range []string{b.Reps, b.Weight, b.Seconds, b.DurationMinutes, b.DistanceKm, b.Intensity} {
		if strings.TrimSpace(v) != "" {
			return true
		}
	}
	return false
}

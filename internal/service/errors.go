package service

import (
	"errors"
	"fmt"
)

// Error categories surfaced to callers. Handlers map them with errors.Is.
var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrNotFound        = errors.New("not found")
)

// --- Error Definitions ---
var (
	ErrInvalidRating        = fmt.Errorf("%w: rating must be one of easy, good, hard, too_hard", ErrInvalidArgument)
	ErrInvalidExerciseIndex = fmt.Errorf("%w: exercise index is out of range", ErrInvalidArgument)
	ErrMissingIdentifier    = fmt.Errorf("%w: required identifier is missing", ErrInvalidArgument)
	ErrMissingExerciseName  = fmt.Errorf("%w: exercise name is required", ErrInvalidArgument)
	ErrTenantUnresolved     = fmt.Errorf("%w: client has no trainer to scope exercises to", ErrInvalidArgument)

	ErrWorkoutNotFound  = fmt.Errorf("workout %w", ErrNotFound)
	ErrClientNotFound   = fmt.Errorf("client %w", ErrNotFound)
	ErrClientNotManaged = fmt.Errorf("client is not managed by this trainer: %w", ErrNotFound)
)

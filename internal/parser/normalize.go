// Package parser turns the free-text exercise descriptions stored on workouts
// into structured values and canonical lookup keys.
package parser

import "strings"

// Normalize returns the equality key for an exercise name: surrounding
// whitespace removed and lower-cased.
func Normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// ExtractAndNormalize derives the canonical lookup key for a raw exercise string.
func ExtractAndNormalize(raw string) string {
	return Normalize(ExtractName(raw))
}

package parser

import (
	"regexp"
	"strings"

	"alcyxob/fitness-records/internal/domain"
)

// Three authoring formats exist in stored workouts. They are tried in this
// order and the first one that matches wins:
//
//	[CARDIO] Running | 30min | 5km | Moderate - easy pace
//	Rowing - Duration: 20min, Distance: 4.0km, Intensity: Hard
//	Squats 4x8-10 @ 60kg - felt heavy
const (
	cardioPrefix     = "[CARDIO]"
	segmentSeparator = " - "
	fieldSeparator   = " | "
)

// RepType tells whether the reps of a sets exercise count repetitions or seconds.
type RepType string

const (
	RepTypeReps    RepType = "reps"
	RepTypeSeconds RepType = "seconds"
)

var (
	weightPattern  = regexp.MustCompile(`@\s*([^-]+?)(?:\s*-\s*|$)`)
	setsRepPattern = regexp.MustCompile(`(\d+)x([\d-]+)(s)?`)

	durationPattern  = regexp.MustCompile(`(?i)Duration:\s*(\d+)\s*min`)
	distancePattern  = regexp.MustCompile(`(?i)Distance:\s*([\d.]+)\s*km`)
	intensityPattern = regexp.MustCompile(`(?i)Intensity:\s*([^,]+)`)

	legacyCardioKeywords = []string{"Duration:", "Distance:", "Intensity:"}
)

// ParsedExercise is the structured form of one exercise string. ExerciseType
// selects which group of fields is meaningful; fields that did not match are
// left empty.
type ParsedExercise struct {
	ExerciseType domain.ExerciseType `json:"exercise_type"`

	Sets   string  `json:"sets,omitempty"`
	Reps   string  `json:"reps,omitempty"`
	Type   RepType `json:"type,omitempty"`
	Weight string  `json:"weight,omitempty"`

	DurationMinutes string `json:"duration_minutes,omitempty"`
	DistanceKm      string `json:"distance_km,omitempty"`
	Intensity       string `json:"intensity,omitempty"`

	Notes string `json:"notes,omitempty"`
}

// IsCardio reports whether the string was parsed as a cardio exercise.
func (p ParsedExercise) IsCardio() bool {
	return p.ExerciseType == domain.ExerciseTypeCardio
}

// Parse never fails: input that fits no format yields an empty sets result.
func Parse(raw string) ParsedExercise {
	switch {
	case strings.HasPrefix(raw, cardioPrefix):
		return parseCardio(raw)
	case hasLegacyCardioKeyword(raw):
		return parseLegacyCardio(raw)
	default:
		return parseSets(raw)
	}
}

func parseCardio(raw string) ParsedExercise {
	out := ParsedExercise{ExerciseType: domain.ExerciseTypeCardio}

	mainPart, notes, _ := strings.Cut(strings.TrimPrefix(raw, cardioPrefix), segmentSeparator)
	out.Notes = strings.TrimSpace(notes)

	fields := strings.Split(mainPart, fieldSeparator)
	// fields[0] is the label; ExtractName deals with it.
	for _, f := range fields[1:] {
		switch {
		case strings.HasSuffix(f, "min"):
			out.DurationMinutes = strings.TrimSpace(strings.TrimSuffix(f, "min"))
		case strings.HasSuffix(f, "km"):
			out.DistanceKm = strings.TrimSpace(strings.TrimSuffix(f, "km"))
		default:
			out.Intensity = strings.TrimSpace(f)
		}
	}
	return out
}

func parseLegacyCardio(raw string) ParsedExercise {
	out := ParsedExercise{ExerciseType: domain.ExerciseTypeCardio}

	segments := strings.Split(raw, segmentSeparator)
	if last := segments[len(segments)-1]; len(segments) > 1 && !hasLegacyCardioKeyword(last) {
		out.Notes = strings.TrimSpace(last)
		segments = segments[:len(segments)-1]
	}
	data := strings.Join(segments, segmentSeparator)

	if m := durationPattern.FindStringSubmatch(data); m != nil {
		out.DurationMinutes = m[1]
	}
	if m := distancePattern.FindStringSubmatch(data); m != nil {
		out.DistanceKm = m[1]
	}
	if m := intensityPattern.FindStringSubmatch(data); m != nil {
		out.Intensity = strings.TrimSpace(m[1])
	}
	return out
}

func parseSets(raw string) ParsedExercise {
	out := ParsedExercise{ExerciseType: domain.ExerciseTypeSets}

	segments := strings.Split(raw, segmentSeparator)
	mainPart := segments[0]
	if len(segments) > 1 {
		out.Notes = strings.TrimSpace(segments[1])
	}

	if m := weightPattern.FindStringSubmatchIndex(mainPart); m != nil {
		out.Weight = strings.TrimSpace(mainPart[m[2]:m[3]])
		mainPart = mainPart[:m[0]] + mainPart[m[1]:]
	}
	if m := setsRepPattern.FindStringSubmatch(mainPart); m != nil {
		out.Sets = m[1]
		out.Reps = m[2]
		out.Type = RepTypeReps
		if m[3] != "" {
			out.Type = RepTypeSeconds
		}
	}
	return out
}

func hasLegacyCardioKeyword(s string) bool {
	for _, kw := range legacyCardioKeywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

package parser

import "strings"

// ExtractName returns the human-readable exercise name from a raw string.
// For sets-style and legacy cardio strings that is the first " - " segment
// with the weight and sets/reps tokens removed. For [CARDIO] strings it is the
// label before the first " | ".
func ExtractName(raw string) string {
	if strings.HasPrefix(raw, cardioPrefix) {
		mainPart, _, _ := strings.Cut(strings.TrimPrefix(raw, cardioPrefix), segmentSeparator)
		label, _, _ := strings.Cut(mainPart, fieldSeparator)
		return strings.TrimSpace(label)
	}

	name, _, _ := strings.Cut(raw, segmentSeparator)
	if loc := weightPattern.FindStringIndex(name); loc != nil {
		name = name[:loc[0]] + name[loc[1]:]
	}
	if loc := setsRepPattern.FindStringIndex(name); loc != nil {
		name = name[:loc[0]] + name[loc[1]:]
	}
	return strings.TrimSpace(name)
}

package domain

import (
	"fmt"
	"strings"
)

// DurationCategory is the coarse length bucket a request asks for.
type DurationCategory string

// Known duration categories
const (
	DurationShort  DurationCategory = "short"
	DurationMedium DurationCategory = "medium"
	DurationLong   DurationCategory = "long"
)

// ScriptTargets is the guidance handed to the script generator. The generator
// is not required to hit these numbers exactly.
type ScriptTargets struct {
	MinWords  int
	MaxWords  int // zero means open-ended
	MinScenes int
	MaxScenes int
}

// WordCount renders the word target as prompt text, e.g. "150-200 words".
func (t ScriptTargets) WordCount() string {
	if t.MaxWords == 0 {
		return fmt.Sprintf("%d+ words", t.MinWords)
	}
	return fmt.Sprintf("%d-%d words", t.MinWords, t.MaxWords)
}

// SceneCount renders the scene target as prompt text, e.g. "3-5 scenes".
func (t ScriptTargets) SceneCount() string {
	return fmt.Sprintf("%d-%d scenes", t.MinScenes, t.MaxScenes)
}

// ~150 spoken words per minute
var durationTargets = map[DurationCategory]ScriptTargets{
	DurationShort:  {MinWords: 150, MaxWords: 200, MinScenes: 3, MaxScenes: 5},
	DurationMedium: {MinWords: 600, MaxWords: 900, MinScenes: 10, MaxScenes: 15},
	DurationLong:   {MinWords: 1200, MinScenes: 20, MaxScenes: 30},
}

// ParseDurationCategory resolves a free-text duration hint. Matching is a
// case-insensitive substring test, "medium" before "long"; anything else is short.
func ParseDurationCategory(hint string) DurationCategory {
	lower := strings.ToLower(hint)
	switch {
	case strings.Contains(lower, string(DurationMedium)):
		return DurationMedium
	case strings.Contains(lower, string(DurationLong)):
		return DurationLong
	default:
		return DurationShort
	}
}

// Targets returns the word and scene guidance for the category.
func (c DurationCategory) Targets() ScriptTargets {
	if t, ok := durationTargets[c]; ok {
		return t
	}
	return durationTargets[DurationShort]
}

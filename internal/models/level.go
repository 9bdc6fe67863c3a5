package models

import (
	"encoding/json"
	"strings"
)

// Level selects the tone and complexity of generated study material.
type Level int

const (
	LevelUnknown Level = iota
	LevelBeginner
	LevelIntermediate
	LevelAdvanced
)

var levelNames = map[Level]string{
	LevelUnknown:      "unknown",
	LevelBeginner:     "beginner",
	LevelIntermediate: "intermediate",
	LevelAdvanced:     "advanced",
}

var levelStyles = map[Level]string{
	LevelBeginner:     "super simple language like you're teaching someone new to the topic",
	LevelIntermediate: "clear language suitable for college students who know the basics",
	LevelAdvanced:     "technical and detailed language suitable for professionals or advanced learners",
	LevelUnknown:      "clear language for general learners",
}

// ParseLevel is case-insensitive. Unrecognized input maps to LevelUnknown.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "beginner":
		return LevelBeginner
	case "intermediate":
		return LevelIntermediate
	case "advanced":
		return LevelAdvanced
	default:
		return LevelUnknown
	}
}

func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return levelNames[LevelUnknown]
}

// Style returns the natural-language descriptor injected into prompts.
func (l Level) Style() string {
	if style, ok := levelStyles[l]; ok {
		return style
	}
	return levelStyles[LevelUnknown]
}

func (l Level) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.String())
}

func (l *Level) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*l = ParseLevel(s)
	return nil
}

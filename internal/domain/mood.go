package domain

import "time"

const (
	MoodVerySad   = 1
	MoodSad       = 2
	MoodNeutral   = 3
	MoodHappy     = 4
	MoodVeryHappy = 5
)

var moodLabels = map[int]string{
	MoodVerySad:   "Very Sad",
	MoodSad:       "Sad",
	MoodNeutral:   "Neutral",
	MoodHappy:     "Happy",
	MoodVeryHappy: "Very Happy",
}

// MoodLabel devuelve la etiqueta del nivel o "" si esta fuera de rango.
func MoodLabel(level int) string {
	return moodLabels[level]
}

// ValidMoodLevel indica si el nivel esta en 1..5.
func ValidMoodLevel(level int) bool {
	return level >= MoodVerySad && level <= MoodVeryHappy
}

type MoodEntry struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id,omitempty"`
	ConversationID string    `json:"conversation_id,omitempty"`
	SessionID      string    `json:"session_id,omitempty"`
	MoodLevel      int       `json:"mood_level"`
	MoodLabel      string    `json:"mood_label"`
	Notes          string    `json:"notes,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

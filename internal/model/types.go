package model

import "time"

// TemporalTag marks whether a reflected emotion felt new or familiar to the
// caller. Any other upstream value is dropped rather than stored verbatim.
type TemporalTag string

const (
	TemporalNew      TemporalTag = "new"
	TemporalFamiliar TemporalTag = "familiar"
)

// Valid reports whether the tag is one of the two allowed values.
func (t TemporalTag) Valid() bool {
	return t == TemporalNew || t == TemporalFamiliar
}

// EmotionalData is the structured annotation extracted from a call's
// analysis payload. Every field is optional; absent or wrong-typed upstream
// fields default to the zero value instead of failing extraction.
type EmotionalData struct {
	BodyLocation     string      `json:"body_location"`
	SceneTitle       string      `json:"scene_title"`
	Shape            string      `json:"shape"`
	TemporalTag      TemporalTag `json:"temporal_tag,omitempty"`
	ColorPalette     []string    `json:"color_palette"`
	Motion           string      `json:"motion"`
	CognitiveLoad    string      `json:"cognitive_load"`
	GroundEmotion    string      `json:"ground_emotion"`
	MetaphorPrompt   string      `json:"metaphor_prompt"`
	Temperature      string      `json:"temperature"`
	SceneDescription string      `json:"scene_description"`
	Texture          string      `json:"texture"`
}

// CallRecord is one completed voice session, created exactly once at webhook
// ingestion. Date is the ingestion time, not necessarily the call's own time.
type CallRecord struct {
	ID                string         `json:"id"`
	UserID            string         `json:"userId"`
	Date              time.Time      `json:"date"`
	Transcript        string         `json:"transcript,omitempty"`
	Summary           string         `json:"summary,omitempty"`
	EmotionalData     *EmotionalData `json:"emotionalData,omitempty"`
	GeneratedImageURL string         `json:"generatedImageUrl,omitempty"`
}

// MoodEntry is a daily mood check-in used for streak and XP accounting.
type MoodEntry struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Mood      string    `json:"mood"`
	Intensity int       `json:"intensity"`
	Note      string    `json:"note,omitempty"`
	Date      time.Time `json:"date"`
}

// Contact is one member of a user's safety network.
type Contact struct {
	ID           string `json:"id"`
	UserID       string `json:"userId"`
	Name         string `json:"name"`
	Relationship string `json:"relationship,omitempty"`
	Phone        string `json:"phone"`
	Priority     int    `json:"priority"`
}

// WellnessStats is computed from stored records, never persisted.
type WellnessStats struct {
	UserID        string `json:"userId"`
	CurrentStreak int    `json:"currentStreak"`
	XP            int    `json:"xp"`
	CallCount     int    `json:"callCount"`
	MoodCount     int    `json:"moodCount"`
}

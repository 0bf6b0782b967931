package coach

import "time"

// Sender identifies who authored a chat turn.
type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// MessageType distinguishes ordinary chat turns from coaching output.
type MessageType string

const (
	MessageNormal   MessageType = "normal"
	MessageCoaching MessageType = "coaching"
	MessageNudge    MessageType = "nudge"
)

// Message is one chat turn. Immutable once appended to the log.
type Message struct {
	ID              string      `json:"id"`
	Sender          Sender      `json:"sender"`
	Content         string      `json:"content"`
	At              time.Time   `json:"at"`
	ConfidenceScore float64     `json:"confidence_score,omitempty"` // 0..1, optional
	Type            MessageType `json:"type,omitempty"`
}

// Mood labels, ordered from most negative to most positive.
type Mood string

const (
	MoodFrustrated Mood = "frustrated"
	MoodAlert      Mood = "alert"
	MoodSupportive Mood = "supportive" // supportive-needed: user could use a hand
	MoodNeutral    Mood = "neutral"
	MoodFocused    Mood = "focused"
	MoodConfident  Mood = "confident"
)

// EmotionalState is an immutable snapshot of the user's running mood.
// Superseded, never merged: Transition derives a new snapshot from the
// previous one plus fresh evidence.
type EmotionalState struct {
	MoodLabel   Mood      `json:"mood_label"`
	Momentum    float64   `json:"momentum"`
	Stability   float64   `json:"stability"`  // 0..1
	Confidence  float64   `json:"confidence"` // 0..1
	LastUpdated time.Time `json:"last_updated,omitempty"`
}

// PerformanceEvidence carries one scalar performance/interaction signal.
// Score is roughly -1..1; positive supports a positive mood shift.
type PerformanceEvidence struct {
	Score  float64   `json:"score"`
	Source string    `json:"source,omitempty"` // e.g. "trade_result", "self_report"
	At     time.Time `json:"at,omitempty"`
}

// Nudge is the coaching intervention handed to the registered observer.
// Transient: the engine does not retain it after dispatch.
type Nudge struct {
	Message    string    `json:"message"`
	TriggerTag string    `json:"trigger_tag"`
	At         time.Time `json:"at"`
}

// Snapshot is the serializable session state for the persistence
// boundary: messages, emotional state and fired tags travel together.
type Snapshot struct {
	Messages  []Message      `json:"messages"`
	State     EmotionalState `json:"emotional_state"`
	FiredTags []string       `json:"fired_tags"`
}

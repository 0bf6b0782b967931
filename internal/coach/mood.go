package coach

import (
	"math"
	"time"
)

// Mood transition tuning. ResistanceFactor scales stability into the
// threshold fresh evidence must clear; StabilityFloor is where
// stability lands after a successful transition.
const (
	ResistanceFactor = 0.7
	MomentumCarry    = 0.7
	MomentumNorm     = 1.7
	StabilityFloor   = 0.1
	StabilityStep    = 0.1
)

// Transition derives the next emotional state from the current one plus
// one piece of evidence. Pure: all history lives in current. Order of
// evidence matters; feeding A then B differs from B then A.
//
// The evidence magnitude must clear resistance (stability * 0.7) before
// momentum is allowed to shift. When it does, momentum blends new
// evidence with prior momentum and stability resets low, leaving the
// state volatile. Unconvincing evidence holds momentum and hardens
// stability by 0.1 per update, capped at 1.
func Transition(current EmotionalState, ev PerformanceEvidence) EmotionalState {
	next := current
	resistance := current.Stability * ResistanceFactor

	if math.Abs(ev.Score) > resistance {
		next.Momentum = (ev.Score + current.Momentum*MomentumCarry) / MomentumNorm
		next.Stability = StabilityFloor
	} else {
		next.Stability = math.Min(1, current.Stability+StabilityStep)
	}

	next.MoodLabel = MoodFromMomentum(next.Momentum)
	next.Confidence = clamp01((1 + next.Momentum) / 2)
	if !ev.At.IsZero() {
		next.LastUpdated = ev.At
	} else {
		next.LastUpdated = time.Now()
	}
	return next
}

// MoodFromMomentum maps momentum to a label. Monotonic and total:
// higher momentum always maps to an equal-or-more-positive label, and
// every real value maps to exactly one label.
func MoodFromMomentum(m float64) Mood {
	switch {
	case m < -0.6:
		return MoodFrustrated
	case m < -0.3:
		return MoodAlert
	case m < -0.05:
		return MoodSupportive
	case m < 0.25:
		return MoodNeutral
	case m < 0.6:
		return MoodFocused
	default:
		return MoodConfident
	}
}

// NeedsAttention reports whether a mood should pull a coaching
// intervention on its own, independent of message content.
func NeedsAttention(m Mood) bool {
	return m == MoodFrustrated || m == MoodAlert
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

// Package journal records dispatched nudges and mood snapshots in a
// local SQLite database so the recap feature can show what the coach
// said and how the session's mood moved. It subscribes to the engine
// through the nudge observer; the engine itself has no dependency on
// this package.
package journal

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/edgebot/edgecoach/internal/coach"
)

// Journal is a SQLite-backed store of nudges and mood history.
type Journal struct {
	db *sql.DB
}

// Entry is one recorded nudge.
type Entry struct {
	ID         int64
	TriggerTag string
	Message    string
	At         time.Time
}

// Trend summarizes recent mood movement.
type Trend string

const (
	TrendUp     Trend = "up"
	TrendDown   Trend = "down"
	TrendSteady Trend = "steady"
)

// Open opens (or creates) the journal database at path and ensures the
// schema exists. Use ":memory:" for tests.
func Open(path string) (*Journal, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("journal: open %s: %w", path, err)
	}
	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Journal{db: db}, nil
}

func (j *Journal) Close() error {
	return j.db.Close()
}

// RecordNudge appends a dispatched nudge. Usable directly as the
// session's nudge observer.
func (j *Journal) RecordNudge(n coach.Nudge) error {
	if j == nil || j.db == nil {
		return fmt.Errorf("record nudge: journal is nil")
	}
	at := n.At
	if at.IsZero() {
		at = time.Now()
	}
	_, err := j.db.Exec(
		`INSERT INTO nudges (trigger_tag, message, at) VALUES (?, ?, ?)`,
		n.TriggerTag, n.Message, at.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("record nudge: insert: %w", err)
	}
	return nil
}

// RecordMood appends one mood history row.
func (j *Journal) RecordMood(state coach.EmotionalState) error {
	if j == nil || j.db == nil {
		return fmt.Errorf("record mood: journal is nil")
	}
	at := state.LastUpdated
	if at.IsZero() {
		at = time.Now()
	}
	_, err := j.db.Exec(
		`INSERT INTO mood_history (mood_label, momentum, stability, confidence, at) VALUES (?, ?, ?, ?, ?)`,
		string(state.MoodLabel), state.Momentum, state.Stability, state.Confidence,
		at.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("record mood: insert: %w", err)
	}
	return nil
}

// RecentNudges returns the last limit nudges, newest first.
func (j *Journal) RecentNudges(limit int) ([]Entry, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("recent nudges: limit must be > 0")
	}
	rows, err := j.db.Query(
		`SELECT id, trigger_tag, message, at FROM nudges ORDER BY id DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("recent nudges: query: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		var atStr string
		if err := rows.Scan(&e.ID, &e.TriggerTag, &e.Message, &atStr); err != nil {
			return nil, fmt.Errorf("recent nudges: scan: %w", err)
		}
		e.At, err = time.Parse(time.RFC3339Nano, atStr)
		if err != nil {
			return nil, fmt.Errorf("recent nudges: parse at: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("recent nudges: rows: %w", err)
	}
	return out, nil
}

// MoodTrend looks at the last window mood rows and reports whether the
// session is trending up, down or steady, by comparing positive versus
// negative momentum counts.
func (j *Journal) MoodTrend(window int) (Trend, error) {
	if window <= 0 {
		window = 5
	}
	rows, err := j.db.Query(
		`SELECT momentum FROM mood_history ORDER BY id DESC LIMIT ?`, window,
	)
	if err != nil {
		return TrendSteady, fmt.Errorf("mood trend: query: %w", err)
	}
	defer rows.Close()

	var up, down int
	for rows.Next() {
		var momentum float64
		if err := rows.Scan(&momentum); err != nil {
			return TrendSteady, fmt.Errorf("mood trend: scan: %w", err)
		}
		switch {
		case momentum > 0:
			up++
		case momentum < 0:
			down++
		}
	}
	if err := rows.Err(); err != nil {
		return TrendSteady, fmt.Errorf("mood trend: rows: %w", err)
	}
	switch {
	case up > down:
		return TrendUp, nil
	case down > up:
		return TrendDown, nil
	default:
		return TrendSteady, nil
	}
}

// LastMood returns the most recent mood row, or false when the history
// is empty.
func (j *Journal) LastMood() (coach.EmotionalState, bool, error) {
	var state coach.EmotionalState
	var label, atStr string
	err := j.db.QueryRow(
		`SELECT mood_label, momentum, stability, confidence, at FROM mood_history ORDER BY id DESC LIMIT 1`,
	).Scan(&label, &state.Momentum, &state.Stability, &state.Confidence, &atStr)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return coach.EmotionalState{}, false, nil
		}
		return coach.EmotionalState{}, false, fmt.Errorf("last mood: %w", err)
	}
	state.MoodLabel = coach.Mood(label)
	state.LastUpdated, err = time.Parse(time.RFC3339Nano, atStr)
	if err != nil {
		return coach.EmotionalState{}, false, fmt.Errorf("last mood: parse at: %w", err)
	}
	return state, true, nil
}

package coach

import "time"

// Ledger tracks trigger tags already dispatched this session so a rule
// does not re-fire and spam the user. Grows within a session; cleared
// only together with the message log on session reset.
//
// Re-fire policy: an entry is released once its rule's condition is
// observed false on a later pass. The rule becomes eligible again the
// next time its condition turns true, so e.g. the silence rule can fire
// again after the bot has replied in between.
type Ledger struct {
	fired map[string]time.Time
}

// NewLedger returns an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{fired: make(map[string]time.Time)}
}

// Fired reports whether tag has been dispatched and not re-armed.
func (l *Ledger) Fired(tag string) bool {
	_, ok := l.fired[tag]
	return ok
}

// Commit records tag as dispatched. The caller commits only after the
// nudge observer accepted the hand-off, so a failed dispatch stays
// retryable.
func (l *Ledger) Commit(tag string) {
	l.fired[tag] = time.Now()
}

// Release re-arms tag after its condition went false.
func (l *Ledger) Release(tag string) {
	delete(l.fired, tag)
}

// Tags returns the fired tags, for snapshots.
func (l *Ledger) Tags() []string {
	out := make([]string, 0, len(l.fired))
	for tag := range l.fired {
		out = append(out, tag)
	}
	return out
}

// Reset clears the ledger. Only the Session calls this, together with
// the message log.
func (l *Ledger) Reset() {
	l.fired = make(map[string]time.Time)
}

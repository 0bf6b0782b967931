package coach

import (
	"fmt"
	"log"
	"sync"
	"time"
)

// Options configures a Session. Zero values get sane defaults.
type Options struct {
	Rules       []TriggerRule // nil = DefaultRules(DefaultRuleConfig())
	OnNudge     NudgeObserver
	OnIdle      func()
	IdleTimeout time.Duration
	Picker      TextPicker
	Faults      FaultObserver
	Now         func() time.Time
}

// Session owns one user's engine state: message log, emotional state,
// fired-trigger ledger, rule table and idle watcher. All operations run
// to completion under one mutex, so there is never an interleaving of
// two evaluation passes.
type Session struct {
	mu         sync.Mutex
	log        *MessageLog
	state      EmotionalState
	prev       EmotionalState
	ledger     *Ledger
	rules      []TriggerRule
	dispatcher *Dispatcher
	idle       *IdleWatcher
	faults     FaultObserver
	now        func() time.Time
	generation int
}

// NewSession creates a session with a fresh log, neutral state and an
// empty ledger.
func NewSession(opts Options) *Session {
	if opts.Rules == nil {
		opts.Rules = DefaultRules(DefaultRuleConfig())
	}
	if opts.Faults == nil {
		opts.Faults = LogFaults{}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	s := &Session{
		log:        NewMessageLog(),
		state:      InitialState(),
		prev:       InitialState(),
		ledger:     NewLedger(),
		rules:      opts.Rules,
		dispatcher: NewDispatcher(opts.OnNudge, opts.Picker, opts.Now),
		faults:     opts.Faults,
		now:        opts.Now,
	}
	s.idle = NewIdleWatcher(opts.IdleTimeout, opts.OnIdle)
	return s
}

// InitialState is the neutral starting snapshot for a new session.
func InitialState() EmotionalState {
	return EmotionalState{
		MoodLabel:  MoodNeutral,
		Momentum:   0,
		Stability:  0.5,
		Confidence: 0.5,
	}
}

// AppendMessage appends a chat turn and runs one evaluation pass. This
// is the engine's single synchronization point: append, evaluate and
// dispatch happen as one logical step. At most one nudge is emitted.
func (s *Session) AppendMessage(m Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m.At.IsZero() {
		m.At = s.now()
	}
	if err := s.log.Append(m); err != nil {
		return fmt.Errorf("session: %w", err)
	}
	if m.Sender == SenderUser {
		s.idle.Touch()
	}
	s.evaluatePass()
	return nil
}

// RecordEvidence feeds one performance signal through the mood
// transition function and runs one evaluation pass.
func (s *Session) RecordEvidence(ev PerformanceEvidence) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prev = s.state
	s.state = Transition(s.state, ev)
	s.idle.Touch()
	s.evaluatePass()
}

// State returns the current emotional state snapshot.
func (s *Session) State() EmotionalState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Messages returns a copy of the full message log, oldest first.
func (s *Session) Messages() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.log.All()
}

// Touch records a tracked user interaction without appending anything,
// resetting the idle watcher.
func (s *Session) Touch() {
	s.idle.Touch()
}

// Generation returns the session generation token. Asynchronous
// collaborators capture it before a slow request and compare on
// arrival; Reset bumps it, so late replies from a previous session can
// be discarded.
func (s *Session) Generation() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation
}

// Reset clears the message log and the fired-trigger ledger together
// (they are never independently resettable) and returns the state to
// neutral. Bumps the generation token.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.log.Clear()
	s.ledger.Reset()
	s.state = InitialState()
	s.prev = InitialState()
	s.generation++
	log.Printf("[COACH] session reset (generation %d)", s.generation)
}

// Close stops the idle watcher.
func (s *Session) Close() {
	s.idle.Stop()
}

// Snapshot captures messages, emotional state and fired tags for the
// persistence boundary.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		Messages:  s.log.All(),
		State:     s.state,
		FiredTags: s.ledger.Tags(),
	}
}

// Restore rebuilds the session from a prior snapshot. Malformed
// messages in the snapshot are skipped rather than failing the resume.
func (s *Session) Restore(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.log.Clear()
	s.ledger.Reset()
	for _, m := range snap.Messages {
		if err := s.log.Append(m); err != nil {
			log.Printf("[COACH] restore: skipping message: %v", err)
		}
	}
	s.state = snap.State
	s.prev = snap.State
	for _, tag := range snap.FiredTags {
		s.ledger.Commit(tag)
	}
}

// evaluatePass re-arms stale ledger entries, evaluates the rule table
// and dispatches at most one nudge. The tag is committed only after the
// observer accepted the hand-off. Callers hold s.mu.
func (s *Session) evaluatePass() {
	ctx := EvalContext{Log: s.log, State: s.state, Prev: s.prev}
	s.rearm(ctx)
	rule := Evaluate(s.rules, ctx, s.ledger, s.faults)
	if rule == nil {
		return
	}
	if _, err := s.dispatcher.Dispatch(rule, ctx); err != nil {
		s.faults.DispatchFault(rule.Tag, err)
		return
	}
	s.ledger.Commit(rule.Tag)
}

// rearm releases fired tags whose condition is currently false, so a
// rule may fire again once its condition freshly re-occurs. A condition
// that panics here leaves its entry untouched.
func (s *Session) rearm(ctx EvalContext) {
	for _, tag := range s.ledger.Tags() {
		rule := s.findRule(tag)
		if rule == nil {
			continue
		}
		ok, err := safeCondition(rule, ctx)
		if err != nil {
			s.faults.EvaluationFault(tag, err)
			continue
		}
		if !ok {
			s.ledger.Release(tag)
		}
	}
}

func (s *Session) findRule(tag string) *TriggerRule {
	for i := range s.rules {
		if s.rules[i].Tag == tag {
			return &s.rules[i]
		}
	}
	return nil
}

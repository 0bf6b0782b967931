package coach

import (
	"fmt"
	"time"
)

// TextPicker supplies nudge text for rules that carry no fixed
// intervention. Implemented by the nudges catalog; injectable so tests
// can pin the selection.
type TextPicker interface {
	Pick(tag string) string
}

// NudgeObserver receives dispatched nudges (presentation, journaling).
// A returned error means the hand-off failed and the trigger stays
// retryable.
type NudgeObserver func(Nudge) error

// Dispatcher builds Nudge values and hands them to the registered
// observer. It holds no UI or storage dependency itself.
type Dispatcher struct {
	observer NudgeObserver
	picker   TextPicker
	now      func() time.Time
}

// NewDispatcher wires an observer and an optional picker. now may be
// nil and defaults to time.Now.
func NewDispatcher(observer NudgeObserver, picker TextPicker, now func() time.Time) *Dispatcher {
	if now == nil {
		now = time.Now
	}
	return &Dispatcher{observer: observer, picker: picker, now: now}
}

// Dispatch constructs the nudge for rule and hands it off. The caller
// commits the tag to the ledger only when the returned error is nil.
func (d *Dispatcher) Dispatch(rule *TriggerRule, ctx EvalContext) (Nudge, error) {
	msg := rule.Intervention
	if msg == "" && d.picker != nil {
		key := rule.Tag
		if rule.PickKey != nil {
			key = rule.PickKey(ctx)
		}
		msg = d.picker.Pick(key)
	}
	n := Nudge{
		Message:    msg,
		TriggerTag: rule.Tag,
		At:         d.now(),
	}
	if d.observer == nil {
		return n, nil
	}
	if err := d.observer(n); err != nil {
		return Nudge{}, fmt.Errorf("dispatch %s: %w", rule.Tag, err)
	}
	return n, nil
}

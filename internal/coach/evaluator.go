package coach

import (
	"fmt"
	"log"
)

// FaultObserver receives non-fatal engine faults. Nothing reported here
// ever halts a pass; failures degrade to "no nudge this pass".
type FaultObserver interface {
	EvaluationFault(tag string, err error)
	DispatchFault(tag string, err error)
}

// LogFaults reports faults to the standard logger.
type LogFaults struct{}

func (LogFaults) EvaluationFault(tag string, err error) {
	log.Printf("[COACH] rule %s condition failed: %v", tag, err)
}

func (LogFaults) DispatchFault(tag string, err error) {
	log.Printf("[COACH] nudge hand-off failed for %s: %v", tag, err)
}

// Evaluate applies the rule table to the current context and returns
// the first eligible, not-yet-fired rule, or nil. Deterministic and
// side-effect-free: the ledger is only read, never mutated here; the
// caller commits the tag after a successful dispatch.
//
// A condition that panics counts as non-matching for this pass; the
// fault is reported and evaluation continues with the next rule.
func Evaluate(rules []TriggerRule, ctx EvalContext, ledger *Ledger, faults FaultObserver) *TriggerRule {
	for i := range rules {
		rule := &rules[i]
		if ledger.Fired(rule.Tag) {
			continue
		}
		ok, err := safeCondition(rule, ctx)
		if err != nil {
			if faults != nil {
				faults.EvaluationFault(rule.Tag, err)
			}
			continue
		}
		if ok {
			return rule
		}
	}
	return nil
}

// safeCondition evaluates a rule condition, converting a panic into an
// error so one bad rule cannot take down the pass.
func safeCondition(rule *TriggerRule, ctx EvalContext) (matched bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			matched = false
			err = fmt.Errorf("condition panic: %v", r)
		}
	}()
	if rule.Condition == nil {
		return false, nil
	}
	return rule.Condition(ctx), nil
}

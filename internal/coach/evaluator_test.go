package coach

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type recordingFaults struct {
	evaluation []string
	dispatch   []string
}

func (r *recordingFaults) EvaluationFault(tag string, err error) {
	r.evaluation = append(r.evaluation, tag)
}

func (r *recordingFaults) DispatchFault(tag string, err error) {
	r.dispatch = append(r.dispatch, tag)
}

func alwaysTrue(EvalContext) bool  { return true }
func alwaysFalse(EvalContext) bool { return false }

func TestEvaluateReturnsFirstEligibleInDeclarationOrder(t *testing.T) {
	rules := []TriggerRule{
		{Tag: "r1", Condition: alwaysTrue},
		{Tag: "r2", Condition: alwaysTrue},
	}
	ctx := EvalContext{Log: NewMessageLog()}

	got := Evaluate(rules, ctx, NewLedger(), nil)
	require.NotNil(t, got)
	require.Equal(t, "r1", got.Tag)
}

func TestEvaluateIsIdempotent(t *testing.T) {
	rules := []TriggerRule{
		{Tag: "r1", Condition: alwaysFalse},
		{Tag: "r2", Condition: alwaysTrue},
	}
	ctx := EvalContext{Log: NewMessageLog()}
	ledger := NewLedger()

	first := Evaluate(rules, ctx, ledger, nil)
	second := Evaluate(rules, ctx, ledger, nil)
	require.Equal(t, first, second)
	require.Equal(t, "r2", first.Tag)
	require.False(t, ledger.Fired("r2"), "evaluate must not mutate the ledger")
}

func TestEvaluateSkipsFiredTags(t *testing.T) {
	rules := []TriggerRule{
		{Tag: "r1", Condition: alwaysTrue},
		{Tag: "r2", Condition: alwaysTrue},
	}
	ledger := NewLedger()
	ledger.Commit("r1")

	got := Evaluate(rules, EvalContext{Log: NewMessageLog()}, ledger, nil)
	require.Equal(t, "r2", got.Tag)

	ledger.Commit("r2")
	require.Nil(t, Evaluate(rules, EvalContext{Log: NewMessageLog()}, ledger, nil))
}

func TestEvaluatePanickingConditionIsSkipped(t *testing.T) {
	faults := &recordingFaults{}
	rules := []TriggerRule{
		{Tag: "bad", Condition: func(EvalContext) bool { panic("boom") }},
		{Tag: "good", Condition: alwaysTrue},
	}

	got := Evaluate(rules, EvalContext{Log: NewMessageLog()}, NewLedger(), faults)
	require.NotNil(t, got)
	require.Equal(t, "good", got.Tag)
	require.Equal(t, []string{"bad"}, faults.evaluation)
}

func TestEvaluateNilConditionNeverMatches(t *testing.T) {
	rules := []TriggerRule{{Tag: "empty"}}
	require.Nil(t, Evaluate(rules, EvalContext{Log: NewMessageLog()}, NewLedger(), nil))
}

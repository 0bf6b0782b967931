package coach

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

type nudgeSink struct {
	nudges []Nudge
	fail   int // fail the next n hand-offs
}

func (s *nudgeSink) observe(n Nudge) error {
	if s.fail > 0 {
		s.fail--
		return errors.New("renderer unavailable")
	}
	s.nudges = append(s.nudges, n)
	return nil
}

func (s *nudgeSink) tags() []string {
	out := make([]string, 0, len(s.nudges))
	for _, n := range s.nudges {
		out = append(out, n.TriggerTag)
	}
	return out
}

func userMsg(id, content string) Message {
	return Message{ID: id, Sender: SenderUser, Content: content}
}

func botMsg(id, content string) Message {
	return Message{ID: id, Sender: SenderBot, Content: content}
}

func TestAppendRejectsMalformedMessages(t *testing.T) {
	sink := &nudgeSink{}
	s := NewSession(Options{OnNudge: sink.observe})
	defer s.Close()

	err := s.AppendMessage(Message{Sender: SenderUser, Content: "no id"})
	require.ErrorIs(t, err, ErrEmptyMessageID)

	err = s.AppendMessage(Message{ID: "m1", Sender: "system", Content: "bad sender"})
	require.ErrorIs(t, err, ErrBadSender)

	require.Empty(t, s.Messages(), "log must be unchanged after rejected appends")
	require.Empty(t, sink.nudges)
}

func TestSingleNervousMessageFiresNothing(t *testing.T) {
	sink := &nudgeSink{}
	s := NewSession(Options{OnNudge: sink.observe})
	defer s.Close()

	require.NoError(t, s.AppendMessage(userMsg("m1", "feeling nervous about this trade")))
	require.Empty(t, sink.nudges, "repetition threshold is 2; one message must not fire")
}

func TestDrawdownRepetitionFiresExactlyOnce(t *testing.T) {
	sink := &nudgeSink{}
	s := NewSession(Options{OnNudge: sink.observe})
	defer s.Close()

	require.NoError(t, s.AppendMessage(userMsg("m1", "we hit a Drawdown today")))
	require.Empty(t, sink.nudges)

	require.NoError(t, s.AppendMessage(userMsg("m2", "the drawdown keeps getting worse")))
	require.Equal(t, []string{TagDrawdownPattern}, sink.tags())

	require.NoError(t, s.AppendMessage(userMsg("m3", "drawdown again")))
	require.Len(t, sink.nudges, 1, "a still-true fired trigger must not re-fire")
}

func TestSilenceRuleRearmsAfterBotReply(t *testing.T) {
	sink := &nudgeSink{}
	s := NewSession(Options{OnNudge: sink.observe})
	defer s.Close()

	for i := 1; i <= 4; i++ {
		require.NoError(t, s.AppendMessage(userMsg(fmt.Sprintf("u%d", i), "still waiting")))
	}
	require.Equal(t, []string{TagNoBotResponse}, sink.tags())

	// bot reply makes the silence condition false, re-arming the tag
	require.NoError(t, s.AppendMessage(botMsg("b1", "here is some insight")))

	for i := 5; i <= 8; i++ {
		require.NoError(t, s.AppendMessage(userMsg(fmt.Sprintf("u%d", i), "more thoughts")))
	}
	// at 8 total messages the overload rule fires first; the 4th
	// consecutive user message then re-fires the silence rule
	require.Equal(t, []string{TagNoBotResponse, TagInputOverload, TagNoBotResponse}, sink.tags())
}

func TestAtMostOneNudgePerEventThenNextEligible(t *testing.T) {
	sink := &nudgeSink{}
	rules := []TriggerRule{
		{Tag: "r1", Condition: alwaysTrue, Intervention: "one"},
		{Tag: "r2", Condition: alwaysTrue, Intervention: "two"},
	}
	s := NewSession(Options{Rules: rules, OnNudge: sink.observe})
	defer s.Close()

	require.NoError(t, s.AppendMessage(userMsg("m1", "hello")))
	require.Equal(t, []string{"r1"}, sink.tags())

	require.NoError(t, s.AppendMessage(userMsg("m2", "hello again")))
	require.Equal(t, []string{"r1", "r2"}, sink.tags())
}

func TestFailedDispatchIsRetriedOnNextPass(t *testing.T) {
	sink := &nudgeSink{fail: 1}
	faults := &recordingFaults{}
	rules := []TriggerRule{{Tag: "sticky", Condition: alwaysTrue, Intervention: "hi"}}
	s := NewSession(Options{Rules: rules, OnNudge: sink.observe, Faults: faults})
	defer s.Close()

	require.NoError(t, s.AppendMessage(userMsg("m1", "first")))
	require.Empty(t, sink.nudges, "failed hand-off must not deliver")
	require.Equal(t, []string{"sticky"}, faults.dispatch)

	require.NoError(t, s.AppendMessage(userMsg("m2", "second")))
	require.Equal(t, []string{"sticky"}, sink.tags(), "tag was not burned by the failed dispatch")
}

func TestMoodDropThenMoodState(t *testing.T) {
	sink := &nudgeSink{}
	s := NewSession(Options{OnNudge: sink.observe})
	defer s.Close()

	// sharp negative swing: confidence 0.50 -> 0.24, a -26 point drop
	s.RecordEvidence(PerformanceEvidence{Score: -0.9})
	require.Equal(t, []string{TagMoodDrop}, sink.tags())
	require.Equal(t, MoodAlert, s.State().MoodLabel)

	// second hit pushes the label to frustrated; the drop rule re-armed
	// on an intermediate pass is not eligible (delta too small), the
	// mood-state rule is
	s.RecordEvidence(PerformanceEvidence{Score: -0.9})
	require.Equal(t, []string{TagMoodDrop, TagMoodState}, sink.tags())
	require.Equal(t, MoodFrustrated, s.State().MoodLabel)
}

type recordingPicker struct {
	keys []string
}

func (p *recordingPicker) Pick(tag string) string {
	p.keys = append(p.keys, tag)
	return "picked " + tag
}

func TestMoodStateNudgeTextKeyedByMoodLabel(t *testing.T) {
	sink := &nudgeSink{}
	picker := &recordingPicker{}
	s := NewSession(Options{OnNudge: sink.observe, Picker: picker})
	defer s.Close()

	s.RecordEvidence(PerformanceEvidence{Score: -0.9})
	s.RecordEvidence(PerformanceEvidence{Score: -0.9})

	require.Equal(t, []string{TagMoodDrop, TagMoodState}, sink.tags())
	// the drop rule picks by its tag; the mood-state rule picks by the
	// current label, so a frustrated user gets frustration coaching
	require.Equal(t, []string{TagMoodDrop, string(MoodFrustrated)}, picker.keys)
	require.Equal(t, "picked frustrated", sink.nudges[1].Message)
}

func TestRestoreSkipsMalformedMessages(t *testing.T) {
	s := NewSession(Options{})
	defer s.Close()

	snap := Snapshot{
		Messages: []Message{
			userMsg("m1", "good"),
			{Sender: SenderUser, Content: "no id"},
			{ID: "m3", Sender: "system", Content: "bad sender"},
			botMsg("m4", "also good"),
		},
		State: EmotionalState{MoodLabel: MoodFocused, Momentum: 0.4, Stability: 0.3, Confidence: 0.7},
	}
	s.Restore(snap)

	msgs := s.Messages()
	require.Len(t, msgs, 2, "malformed entries are dropped, not fatal")
	require.Equal(t, "m1", msgs[0].ID)
	require.Equal(t, "m4", msgs[1].ID)
	require.Equal(t, snap.State, s.State())
}

func TestSnapshotRestoreRoundTrip(t *testing.T) {
	sink := &nudgeSink{}
	rules := []TriggerRule{{Tag: "sticky", Condition: alwaysTrue, Intervention: "hi"}}
	s := NewSession(Options{Rules: rules, OnNudge: sink.observe})
	require.NoError(t, s.AppendMessage(userMsg("m1", "hello")))
	s.RecordEvidence(PerformanceEvidence{Score: 0.9})
	snap := s.Snapshot()
	s.Close()

	require.Len(t, snap.Messages, 1)
	require.Equal(t, []string{"sticky"}, snap.FiredTags)
	require.InDelta(t, 0.9/1.7, snap.State.Momentum, 1e-9)

	sink2 := &nudgeSink{}
	restored := NewSession(Options{Rules: rules, OnNudge: sink2.observe})
	defer restored.Close()
	restored.Restore(snap)

	require.Equal(t, snap.Messages, restored.Messages())
	require.Equal(t, snap.State, restored.State())

	// the restored ledger still suppresses the fired trigger
	require.NoError(t, restored.AppendMessage(userMsg("m2", "back again")))
	require.Empty(t, sink2.nudges)
}

func TestResetClearsLogAndLedgerTogether(t *testing.T) {
	sink := &nudgeSink{}
	s := NewSession(Options{OnNudge: sink.observe})
	defer s.Close()

	require.NoError(t, s.AppendMessage(userMsg("m1", "drawdown")))
	require.NoError(t, s.AppendMessage(userMsg("m2", "drawdown")))
	require.Equal(t, []string{TagDrawdownPattern}, sink.tags())

	gen := s.Generation()
	s.Reset()
	require.Empty(t, s.Messages())
	require.Equal(t, gen+1, s.Generation())
	require.Equal(t, InitialState(), s.State())

	// a fresh log must not be suppressed by stale fired tags
	require.NoError(t, s.AppendMessage(userMsg("m3", "drawdown")))
	require.NoError(t, s.AppendMessage(userMsg("m4", "drawdown")))
	require.Equal(t, []string{TagDrawdownPattern, TagDrawdownPattern}, sink.tags())
}

func TestMessageLogTailAndAll(t *testing.T) {
	l := NewMessageLog()
	require.NoError(t, l.Append(userMsg("a", "one")))
	require.NoError(t, l.Append(botMsg("b", "two")))
	require.NoError(t, l.Append(userMsg("c", "three")))

	tail := l.Tail(2)
	require.Len(t, tail, 2)
	require.Equal(t, "b", tail[0].ID)
	require.Equal(t, "c", tail[1].ID)
	require.Len(t, l.Tail(10), 3)
	require.Nil(t, l.Tail(0))

	all := l.All()
	require.Len(t, all, 3)
	all[0].Content = "mutated"
	require.Equal(t, "one", l.All()[0].Content, "All must return a copy")
}

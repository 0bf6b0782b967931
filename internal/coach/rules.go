package coach

// EvalContext is the read-only view a rule condition gets. Prev is the
// emotional state before the most recent transition, so delta rules can
// compare snapshots without keeping hidden state of their own.
type EvalContext struct {
	Log   *MessageLog
	State EmotionalState
	Prev  EmotionalState
}

// TriggerRule is one entry of the declarative rule table. Condition
// must only read the context, never mutate it. Intervention may be
// empty, in which case the dispatcher draws text from the nudge
// catalog, keyed by PickKey when set and by Tag otherwise.
type TriggerRule struct {
	Tag          string
	Condition    func(EvalContext) bool
	Intervention string
	PickKey      func(EvalContext) string
}

// RuleConfig holds the thresholds for the default rule set.
type RuleConfig struct {
	RepetitionKeyword   string
	RepetitionThreshold int
	OverloadMinTotal    int
	OverloadTailLen     int
	SilenceTailLen      int
	MoodDropDelta       float64 // on the 0..100 confidence scale, negative
}

// DefaultRuleConfig returns the thresholds the dashboard shipped with.
func DefaultRuleConfig() RuleConfig {
	return RuleConfig{
		RepetitionKeyword:   "drawdown",
		RepetitionThreshold: 2,
		OverloadMinTotal:    8,
		OverloadTailLen:     3,
		SilenceTailLen:      4,
		MoodDropDelta:       -25,
	}
}

// Rule tags. Declaration order in DefaultRules is the tie-break when
// several rules are eligible on the same pass.
const (
	TagDrawdownPattern = "drawdownPattern"
	TagInputOverload   = "inputOverload"
	TagNoBotResponse   = "noBotResponse"
	TagMoodDrop        = "mood_drop"
	TagMoodState       = "mood_state"
)

// DefaultRules builds the ordered rule table: message-based rules
// first, mood-based rules after, matching the order the dashboard
// evaluated them in.
func DefaultRules(cfg RuleConfig) []TriggerRule {
	return []TriggerRule{
		{
			Tag: TagDrawdownPattern,
			Condition: func(ctx EvalContext) bool {
				return ctx.Log.CountUserContains(cfg.RepetitionKeyword) >= cfg.RepetitionThreshold
			},
			Intervention: "Noticing repeated drawdown mentions. Want to reset your focus or review strategy?",
		},
		{
			Tag: TagInputOverload,
			Condition: func(ctx EvalContext) bool {
				return ctx.Log.Len() >= cfg.OverloadMinTotal && ctx.Log.TailAllFromUser(cfg.OverloadTailLen)
			},
			Intervention: "You've been input-heavy. Want a quick summary or strategy clarification?",
		},
		{
			Tag: TagNoBotResponse,
			Condition: func(ctx EvalContext) bool {
				return ctx.Log.TailAllFromUser(cfg.SilenceTailLen)
			},
			Intervention: "Haven't responded in a bit. Want to prompt EdgeBot for insight?",
		},
		{
			Tag: TagMoodDrop,
			Condition: func(ctx EvalContext) bool {
				delta := (ctx.State.Confidence - ctx.Prev.Confidence) * 100
				return delta < cfg.MoodDropDelta
			},
			// text picked from the drawdown pool by tag
		},
		{
			Tag: TagMoodState,
			Condition: func(ctx EvalContext) bool {
				return NeedsAttention(ctx.State.MoodLabel)
			},
			// text keyed by the mood itself, so a frustrated user
			// gets different coaching than an alert one
			PickKey: func(ctx EvalContext) string {
				return string(ctx.State.MoodLabel)
			},
		},
	}
}

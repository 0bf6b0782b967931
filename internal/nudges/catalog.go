// Package nudges holds the coaching text pools and the random picker
// used when a trigger rule carries no fixed intervention text.
package nudges

import (
	"math/rand"
)

// Trigger types with text pools. Mood-state triggers map onto these via
// Aliases below.
const (
	TypeLosingStreak = "losing_streak"
	TypeDrawdown     = "drawdown"
	TypeHesitation   = "hesitation"
	TypeRevenge      = "revenge"
	TypeConfidence   = "confidence"
	TypeIdle         = "idle"
	TypeBurnout      = "burnout"
	TypeJournaling   = "journaling"
)

var pools = map[string][]string{
	TypeLosingStreak: {
		"Every champion has rough patches. This streak doesn't define your skills, it's just teaching you something new.",
		"I'm seeing the discipline in how you're handling these losses. That composure is what separates pros from amateurs.",
		"Losing streaks test character, not ability. You're still the same trader who had those winning days.",
		"Your risk management is keeping these losses manageable. That's exactly how you weather storms like this.",
		"This streak is data. Let's learn from it, not fear it.",
	},
	TypeDrawdown: {
		"Drawdowns hurt, but they're not permanent. Stay calm and recalibrate.",
		"Managing your emotions during a drawdown is what builds real skill.",
		"You're in the storm, but you're not lost. Follow your rules.",
		"Your next trade doesn't need to make it all back. It just needs to be your best decision.",
		"Deep breath. Refocus. The only way out is forward.",
	},
	TypeHesitation: {
		"I notice you're thinking hard about this one. Sometimes your gut knows before your brain catches up.",
		"Analysis is powerful, but paralysis is expensive. What would you do if you had to decide in the next 30 seconds?",
		"All that thinking shows you care about making good decisions. Trust that preparation.",
		"Your caution might be wisdom in disguise. If something feels off, that's valuable information too.",
	},
	TypeRevenge: {
		"I'm sensing some fire after that last trade. Let's channel it into a really solid setup instead of rushing.",
		"The urge to get even is so human, but the market doesn't owe us anything.",
		"Your best revenge is patient, disciplined trading that builds long-term wealth.",
		"That aggressive feeling? Maybe dial down the position size until we're thinking clearly again.",
	},
	TypeConfidence: {
		"That execution was beautiful! I love seeing your patience and discipline pay off like this.",
		"You're in a great flow state right now. This is what happens when preparation meets opportunity.",
		"Winning feels good, but I'm more impressed by how you're staying level-headed.",
		"That read on the market was spot-on. Your instincts are getting sharper with every session.",
	},
	TypeIdle: {
		"Taking your time out there? Sometimes the best action is no action. Patience is a trading skill too.",
		"Market's been quiet, or are you just being selective? Either way, I appreciate the discipline.",
		"Waiting for the right setup shows real maturity. Quality over quantity always wins in the long run.",
		"Use this pause to reset, not retreat.",
		"When nothing is happening, preparation is everything.",
	},
	TypeBurnout: {
		"I hear the exhaustion in your words. Maybe it's time to step back and remember why you started.",
		"Burnout is your mind's way of saying you need to recharge. Even the best traders take breaks.",
		"This game is a marathon, not a sprint. Take care of your mental energy today.",
		"Sometimes the best trading decision is to not trade at all.",
	},
	TypeJournaling: {
		"Great session! Want to capture your insights in a journal entry?",
		"Your future self will thank you for this journal entry.",
		"Don't skip reflection. It's key to growth.",
		"Want to capture today's insight while it's fresh?",
	},
}

// Aliases maps engine trigger tags and mood labels onto text pools.
var Aliases = map[string]string{
	"mood_drop":  TypeDrawdown,
	"mood_state": TypeBurnout,
	"frustrated": TypeRevenge,
	"alert":      TypeDrawdown,
	"supportive": TypeLosingStreak,
	"confident":  TypeConfidence,
}

const fallback = "Let's make today count."

// Picker selects nudge text from the pools. The random source is
// injected so tests can pin the selection.
type Picker struct {
	rnd *rand.Rand
}

// NewPicker returns a picker over rnd. rnd may be nil, in which case
// selection uses the shared global source.
func NewPicker(rnd *rand.Rand) *Picker {
	return &Picker{rnd: rnd}
}

// Pick returns one nudge text for the given trigger tag or mood label.
// Unknown tags get a neutral fallback line.
func (p *Picker) Pick(tag string) string {
	pool, ok := pools[tag]
	if !ok {
		if alias, aliased := Aliases[tag]; aliased {
			pool = pools[alias]
			ok = true
		}
	}
	if !ok || len(pool) == 0 {
		return fallback
	}
	return pool[p.intn(len(pool))]
}

// Pools returns the known pool names, for configuration validation.
func Pools() []string {
	out := make([]string, 0, len(pools))
	for name := range pools {
		out = append(out, name)
	}
	return out
}

func (p *Picker) intn(n int) int {
	if p.rnd != nil {
		return p.rnd.Intn(n)
	}
	return rand.Intn(n)
}

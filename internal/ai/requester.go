package ai

import (
	"log"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/edgebot/edgecoach/internal/coach"
)

// SummaryPrompt instructs the model to condense the session. No
// personality, just the recap.
const SummaryPrompt = `You are a trading coach assistant. Summarize the following chat session in 2-3 short sentences: what the trader worked on, how their mood moved, and one concrete suggestion. Output ONLY the summary text, no preamble.`

const summaryTailLen = 20

// Requester runs fire-and-forget AI requests for the session. Replies
// arrive asynchronously and are appended to the session as bot
// messages; the engine core itself stays synchronous. Requests are
// rate limited, and a reply whose generation token no longer matches
// the session (the session was reset meanwhile) is discarded.
type Requester struct {
	provider Provider
	session  *coach.Session
	limiter  *rate.Limiter
	newID    func() string
}

// NewRequester wires a provider to a session. perMinute and burst cap
// outbound requests.
func NewRequester(provider Provider, session *coach.Session, perMinute float64, burst int) *Requester {
	if burst < 1 {
		burst = 1
	}
	return &Requester{
		provider: provider,
		session:  session,
		limiter:  rate.NewLimiter(rate.Limit(perMinute/60), burst),
		newID:    uuid.NewString,
	}
}

// RequestReply sends one prompt and appends the reply as a bot message
// on arrival. Returns false when the rate limiter rejected the request.
func (r *Requester) RequestReply(system, user string) bool {
	if !r.limiter.Allow() {
		log.Printf("[AI] request dropped: rate limit")
		return false
	}
	gen := r.session.Generation()
	go func() {
		reply, err := r.provider.Generate([]Message{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		})
		if err != nil {
			log.Printf("[AI] generate failed: %v", err)
			return
		}
		if r.session.Generation() != gen {
			log.Printf("[AI] discarding late reply from a previous session")
			return
		}
		err = r.session.AppendMessage(coach.Message{
			ID:      r.newID(),
			Sender:  coach.SenderBot,
			Content: reply,
			Type:    coach.MessageCoaching,
		})
		if err != nil {
			log.Printf("[AI] append reply failed: %v", err)
		}
	}()
	return true
}

// RequestSummary asks for a recap of the recent conversation.
func (r *Requester) RequestSummary() bool {
	msgs := r.session.Messages()
	if len(msgs) == 0 {
		return false
	}
	if len(msgs) > summaryTailLen {
		msgs = msgs[len(msgs)-summaryTailLen:]
	}
	var transcript strings.Builder
	for _, m := range msgs {
		if m.Sender == coach.SenderUser {
			transcript.WriteString("Trader: ")
		} else {
			transcript.WriteString("EdgeBot: ")
		}
		transcript.WriteString(m.Content)
		transcript.WriteString("\n")
	}
	return r.RequestReply(SummaryPrompt, transcript.String())
}

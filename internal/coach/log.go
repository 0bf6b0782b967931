package coach

import (
	"errors"
	"fmt"
	"strings"
)

// Append validation errors (MalformedInput taxonomy).
var (
	ErrEmptyMessageID = errors.New("message id is empty")
	ErrBadSender      = errors.New("unknown sender")
)

// MessageLog is the append-only, time-ordered record of chat turns.
// Not safe for concurrent use on its own; the owning Session serializes
// all access on its single event thread.
type MessageLog struct {
	msgs []Message
}

// NewMessageLog returns an empty log.
func NewMessageLog() *MessageLog {
	return &MessageLog{}
}

// Append adds a message to the log. The message must be well-formed:
// non-empty id and a known sender. On error the log is unchanged.
func (l *MessageLog) Append(m Message) error {
	if m.ID == "" {
		return fmt.Errorf("append: %w", ErrEmptyMessageID)
	}
	if m.Sender != SenderUser && m.Sender != SenderBot {
		return fmt.Errorf("append: %w: %q", ErrBadSender, m.Sender)
	}
	l.msgs = append(l.msgs, m)
	return nil
}

// All returns a copy of the full ordered sequence, oldest first.
func (l *MessageLog) All() []Message {
	out := make([]Message, len(l.msgs))
	copy(out, l.msgs)
	return out
}

// Tail returns a copy of the last n messages, oldest first.
func (l *MessageLog) Tail(n int) []Message {
	if n <= 0 {
		return nil
	}
	if n > len(l.msgs) {
		n = len(l.msgs)
	}
	out := make([]Message, n)
	copy(out, l.msgs[len(l.msgs)-n:])
	return out
}

// Len returns the number of messages in the log.
func (l *MessageLog) Len() int {
	return len(l.msgs)
}

// Clear empties the log. Only the Session calls this, and only together
// with the fired-trigger ledger, so the two never drift apart.
func (l *MessageLog) Clear() {
	l.msgs = nil
}

// CountUserContains counts user messages whose content contains keyword,
// case-insensitive.
func (l *MessageLog) CountUserContains(keyword string) int {
	kw := strings.ToLower(keyword)
	n := 0
	for _, m := range l.msgs {
		if m.Sender == SenderUser && strings.Contains(strings.ToLower(m.Content), kw) {
			n++
		}
	}
	return n
}

// TailAllFromUser reports whether the last k messages exist and are all
// user-authored, with no bot message among them.
func (l *MessageLog) TailAllFromUser(k int) bool {
	if k <= 0 || len(l.msgs) < k {
		return false
	}
	for _, m := range l.msgs[len(l.msgs)-k:] {
		if m.Sender != SenderUser {
			return false
		}
	}
	return true
}

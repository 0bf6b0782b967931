package ai

import (
	"regexp"
	"strings"
)

// Coaching replies render in a narrow dashboard chat panel; one or two
// short paragraphs is the useful maximum. Longer output is cut at a
// sentence boundary.
const maxReplyLen = 700

var thinkBlocks = regexp.MustCompile(`(?s)<think>.*?</think>`)

// isUnusableReply flags output that is not coaching text: proxy error
// pages, provider refusals, or fragments too short to tell a trader
// anything.
func isUnusableReply(s string) bool {
	l := strings.ToLower(strings.TrimSpace(s))
	if len(l) < 5 {
		return true
	}
	for _, marker := range []string{"<html", "not allowed", "rate limit exceeded"} {
		if strings.Contains(l, marker) {
			return true
		}
	}
	return false
}

// snippet shortens a raw response body for error messages.
func snippet(b []byte) string {
	const n = 160
	if len(b) > n {
		return string(b[:n]) + "..."
	}
	return string(b)
}

// tidyReply normalizes a model reply for the chat log: reasoning
// blocks and wrapping quotes stripped, length capped at a sentence
// boundary so the panel never shows a wall of text.
func tidyReply(reply string) string {
	reply = strings.TrimSpace(thinkBlocks.ReplaceAllString(reply, ""))
	reply = stripWrappingQuotes(reply)
	if len(reply) <= maxReplyLen {
		return reply
	}
	cut := reply[:maxReplyLen]
	if i := strings.LastIndexAny(cut, ".!?"); i > maxReplyLen/2 {
		return strings.TrimSpace(cut[:i+1])
	}
	if i := strings.LastIndex(cut, " "); i > 0 {
		cut = cut[:i]
	}
	return strings.TrimSpace(cut) + "..."
}

func stripWrappingQuotes(s string) string {
	pairs := []struct{ open, close string }{
		{`"`, `"`}, {"'", "'"}, {"“", "”"}, {"‘", "’"},
	}
	for _, p := range pairs {
		if len(s) > len(p.open)+len(p.close) && strings.HasPrefix(s, p.open) && strings.HasSuffix(s, p.close) {
			return strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(s, p.open), p.close))
		}
	}
	return s
}

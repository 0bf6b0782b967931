package ai

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTidyReplyStripsReasoningAndQuotes(t *testing.T) {
	in := `<think>the trader lost twice, keep it gentle</think>
"Slow down and review your last two entries."`
	require.Equal(t, "Slow down and review your last two entries.", tidyReply(in))
}

func TestTidyReplyCapsAtSentenceBoundary(t *testing.T) {
	long := strings.Repeat("Stick to the plan you wrote this morning. ", 40)
	got := tidyReply(long)

	require.LessOrEqual(t, len(got), maxReplyLen)
	require.True(t, strings.HasSuffix(got, "."), "cut must land on a sentence boundary, got %q tail", got[len(got)-20:])
}

func TestTidyReplyCapsAtWordBoundaryWithoutSentences(t *testing.T) {
	long := strings.Repeat("breathe ", 200)
	got := tidyReply(long)

	require.LessOrEqual(t, len(got), maxReplyLen+len("..."))
	require.True(t, strings.HasSuffix(got, "breathe..."), "cut must not split a word, got %q tail", got[len(got)-15:])
}

func TestTidyReplyShortReplyUntouched(t *testing.T) {
	require.Equal(t, "Nice discipline on that exit.", tidyReply("  Nice discipline on that exit.  "))
}

func TestIsUnusableReply(t *testing.T) {
	cases := []struct {
		reply string
		bad   bool
	}{
		{"Take a short break before the next setup.", false},
		{"Breathe.", false},
		{"", true},
		{"ok", true},
		{"<html><body>502</body></html>", true},
		{"This request is not allowed", true},
		{"Rate limit exceeded, try later", true},
	}
	for _, c := range cases {
		require.Equal(t, c.bad, isUnusableReply(c.reply), "reply %q", c.reply)
	}
}

// Package transcript serializes a prefix of a conversation's turns into
// a portable markdown transcript and wraps it with a localized
// continuation preamble for seeding a new branch.
package transcript

import (
	"strings"

	"github.com/kokistudios/forkline/internal/turnid"
)

// Turn is one user-message/assistant-response exchange, as produced by
// the chat-pair extractor. Turns are positionally indexed from 0.
type Turn struct {
	TurnID    string `json:"turnId"`
	User      string `json:"user"`
	Assistant string `json:"assistant,omitempty"`
}

// TruncateAtTurn returns the prefix of turns ending at the fork-point
// turn, so a file covering the whole conversation never leaks turns
// past the fork into the composed transcript. The fork turn is located
// by normalized id; when no turn carries a matching id, the position
// encoded in the id is used instead. A fork point beyond the known
// turns leaves the input unchanged.
func TruncateAtTurn(turns []Turn, turnID string) []Turn {
	want := turnid.Normalize(turnID)
	for i, t := range turns {
		if t.TurnID != "" && turnid.Normalize(t.TurnID) == want {
			return turns[:i+1]
		}
	}
	if idx, ok := turnid.Index(want); ok && idx < len(turns) {
		return turns[:idx+1]
	}
	return turns
}

const defaultTitle = "Untitled"

// BuildMarkdown renders turns into a transcript document: a title
// heading, then a "User" section per turn followed by an "Assistant"
// section when the assistant text is non-blank after trimming.
//
// dropLastAssistant clears the final turn's assistant text before
// rendering. That is the default fork-point behavior: the new branch
// should continue reasoning from the user's last message rather than
// restate the prior answer.
//
// Empty turns yield an empty string, signalling there is nothing to
// fork.
func BuildMarkdown(title string, turns []Turn, dropLastAssistant bool) string {
	if len(turns) == 0 {
		return ""
	}
	if strings.TrimSpace(title) == "" {
		title = defaultTitle
	}

	var b strings.Builder
	b.WriteString("# ")
	b.WriteString(strings.TrimSpace(title))
	b.WriteString("\n")

	for i, turn := range turns {
		b.WriteString("\n## User\n\n")
		b.WriteString(strings.TrimSpace(turn.User))
		b.WriteString("\n")

		assistant := turn.Assistant
		if dropLastAssistant && i == len(turns)-1 {
			assistant = ""
		}
		if strings.TrimSpace(assistant) != "" {
			b.WriteString("\n## Assistant\n\n")
			b.WriteString(strings.TrimSpace(assistant))
			b.WriteString("\n")
		}
	}
	return b.String()
}

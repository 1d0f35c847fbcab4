package prompt

import (
	"strings"

	"mcp-gateway/internal/memory"
)

// Context block markers. Stored history is replayed between them so the
// model can distinguish prior turns from the current question.
const (
	contextOpen     = "=== PREVIOUS CONVERSATION ==="
	contextClose    = "=== END CONTEXT ==="
	currentQuestion = "CURRENT QUESTION: "

	labelUser      = "USER: "
	labelAssistant = "ASSISTANT: "
)

// historySource is the read-only slice of the conversation store the
// composer needs.
type historySource interface {
	Context(userID string) []memory.Message
}

// Composer assembles the outbound query text from stored history, an
// optional system prompt, and the current user prompt. It never mutates
// the store.
type Composer struct {
	history historySource
	files   *Loader
}

// NewComposer creates a composer over the given history source and prompt
// file loader.
func NewComposer(history historySource, files *Loader) *Composer {
	return &Composer{history: history, files: files}
}

// Result is the composed query plus observability flags.
type Result struct {
	Text            string
	ContextUsed     bool
	ContextMessages int
}

// Build composes the final query text. When useContext is set and the user
// has stored history, prior turns are rendered in a delimited block ahead of
// the current prompt; otherwise the prompt passes through unchanged. A
// resolved system prompt prefixes the whole text.
func (c *Composer) Build(userID, prompt string, useContext bool, systemPrompt, promptFile string) Result {
	res := Result{Text: prompt}

	if useContext {
		msgs := c.history.Context(userID)
		if len(msgs) > 0 {
			res.Text = renderContext(msgs, prompt)
			res.ContextUsed = true
			res.ContextMessages = len(msgs)
		}
	}

	if sys := c.ResolveSystemPrompt(systemPrompt, promptFile); sys != "" {
		res.Text = "System: " + sys + "\n\nUser: " + res.Text
	}

	return res
}

// ResolveSystemPrompt picks the effective system prompt: an inline prompt
// wins, then a named prompt file, then the "default" prompt file, then none.
// A named file that is missing falls through to the default file.
func (c *Composer) ResolveSystemPrompt(inline, promptFile string) string {
	if inline != "" {
		return inline
	}
	if promptFile != "" {
		if text, ok := c.files.Load(promptFile); ok {
			return text
		}
	}
	if text, ok := c.files.Load(DefaultPromptName); ok {
		return text
	}
	return ""
}

// renderContext renders stored messages between markers, followed by the
// current prompt under its own label.
func renderContext(msgs []memory.Message, prompt string) string {
	var b strings.Builder
	b.WriteString(contextOpen)
	b.WriteByte('\n')
	for _, m := range msgs {
		if m.Role == memory.RoleAssistant {
			b.WriteString(labelAssistant)
		} else {
			b.WriteString(labelUser)
		}
		b.WriteString(m.Content)
		b.WriteByte('\n')
	}
	b.WriteString(contextClose)
	b.WriteString("\n\n")
	b.WriteString(currentQuestion)
	b.WriteString(prompt)
	return b.String()
}

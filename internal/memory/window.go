package memory

import "strings"

// number of user/assistant exchanges kept by default
const DefaultExchanges = 5

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is a single utterance in a conversation.
type Turn struct {
	Role Role
	Text string
}

// Window is a bounded FIFO of conversation turns. Capacity is two turns per
// exchange; appending past capacity evicts the oldest pair. Not safe for
// concurrent use - the owning session serializes access.
type Window struct {
	turns    []Turn
	capacity int
}

// creates a window holding the last `exchanges` user/assistant pairs
func NewWindow(exchanges int) *Window {
	if exchanges <= 0 {
		exchanges = DefaultExchanges
	}

	return &Window{
		turns:    make([]Turn, 0, exchanges*2),
		capacity: exchanges * 2,
	}
}

// returns the retained turns, oldest first
func (w *Window) Turns() []Turn {
	out := make([]Turn, len(w.turns))
	copy(out, w.turns)

	return out
}

// returns the number of retained turns
func (w *Window) Len() int {
	return len(w.turns)
}

// Append records one completed exchange: a user turn followed by an assistant
// turn. Oldest pairs are evicted until the window fits its capacity.
func (w *Window) Append(userText, assistantText string) {
	w.turns = append(w.turns,
		Turn{Role: RoleUser, Text: userText},
		Turn{Role: RoleAssistant, Text: assistantText},
	)

	for len(w.turns) > w.capacity {
		w.turns = w.turns[2:]
	}
}

// empties the window (explicit user reset)
func (w *Window) Clear() {
	w.turns = w.turns[:0]
}

// RenderHistory flattens turns into a prompt-ready string, one line per turn.
// Pure function of its input; kept separate from the window so alternate
// renderings are a drop-in substitution.
func RenderHistory(turns []Turn) string {
	if len(turns) == 0 {
		return ""
	}

	var builder strings.Builder

	for _, turn := range turns {
		builder.WriteString(roleLabel(turn.Role))
		builder.WriteString(": ")
		builder.WriteString(turn.Text)
		builder.WriteString("\n")
	}

	return builder.String()
}

func roleLabel(r Role) string {
	if r == RoleAssistant {
		return "Assistant"
	}

	return "User"
}

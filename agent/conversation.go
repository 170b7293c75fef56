package agent

import (
	"github.com/google/uuid"
)

// Role tags a transcript entry.
type Role string

// RoleUser is the only role the agent writes. User queries, tool
// observations and intermediate model replies are all sent as user turns.
const RoleUser Role = "user"

// Entry is one transcript message.
type Entry struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Conversation is the ordered transcript replayed to the model on every call.
// Entries are only ever appended. It is not safe for concurrent use.
type Conversation struct {
	id      string
	entries []Entry
}

// NewConversation starts an empty transcript with a random ID.
func NewConversation() *Conversation {
	return &Conversation{
		id:      uuid.NewString(),
		entries: make([]Entry, 0, 16),
	}
}

// ID identifies the conversation in logs.
func (c *Conversation) ID() string {
	return c.id
}

// Append adds a raw entry.
func (c *Conversation) Append(role Role, content string) {
	c.entries = append(c.entries, Entry{Role: role, Content: content})
}

// AppendStep adds the JSON form of step as a user entry.
func (c *Conversation) AppendStep(step Step) {
	c.Append(RoleUser, step.String())
}

// Entries returns a copy of the transcript.
func (c *Conversation) Entries() []Entry {
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

func (c *Conversation) Len() int {
	return len(c.entries)
}

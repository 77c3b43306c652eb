package conversation

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// #region roles
// Role identifies the author of a message.
type Role string

const (
	RoleAgent    Role = "agent"
	RoleCustomer Role = "customer"
	RoleSystem   Role = "system"
)

// #endregion roles

// #region message
// Message is one utterance in a conversation. Append-only: never mutated
// after creation.
type Message struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// #endregion message

// #region conversation
// Conversation is a completed or in-progress transcript between the scripted
// agent and a simulated customer. Messages are in chronological order.
type Conversation struct {
	ID            string    `json:"conversation_id"`
	ScriptVersion string    `json:"script_version"`
	PersonaID     string    `json:"persona_id"`
	PersonaName   string    `json:"persona_name"`
	Messages      []Message `json:"messages"`
	StartTime     time.Time `json:"start_time"`
	EndTime       time.Time `json:"end_time,omitempty"`
}

// New starts an empty conversation for the given script version and persona.
func New(scriptVersion, personaID, personaName string) *Conversation {
	return &Conversation{
		ID:            uuid.New().String(),
		ScriptVersion: scriptVersion,
		PersonaID:     personaID,
		PersonaName:   personaName,
		StartTime:     time.Now().UTC(),
	}
}

// Add appends a message stamped with the current time.
func (c *Conversation) Add(role Role, content string) {
	c.Messages = append(c.Messages, Message{
		Role:      role,
		Content:   content,
		Timestamp: time.Now().UTC(),
	})
}

// Finish records the end time. Set at most once; later calls are no-ops.
func (c *Conversation) Finish() {
	if c.EndTime.IsZero() {
		c.EndTime = time.Now().UTC()
	}
}

// Finished reports whether the conversation has terminated.
func (c *Conversation) Finished() bool {
	return !c.EndTime.IsZero()
}

// AgentMessages returns the content of all agent-authored messages in order.
func (c *Conversation) AgentMessages() []string {
	return c.byRole(RoleAgent)
}

// CustomerMessages returns the content of all customer messages in order.
func (c *Conversation) CustomerMessages() []string {
	return c.byRole(RoleCustomer)
}

func (c *Conversation) byRole(role Role) []string {
	var out []string
	for _, m := range c.Messages {
		if m.Role == role {
			out = append(out, m.Content)
		}
	}
	return out
}

// Transcript renders the conversation as "ROLE: content" lines.
func (c *Conversation) Transcript() string {
	var b strings.Builder
	for _, m := range c.Messages {
		fmt.Fprintf(&b, "%s: %s\n", strings.ToUpper(string(m.Role)), m.Content)
	}
	return b.String()
}

// #endregion conversation

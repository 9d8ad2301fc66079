// Package dialogue decides how the duck should probe next: which kind of
// question to ask, whether the learner has contradicted themselves, and how
// to phrase a question locally when no text generator is available.
package dialogue

// Role is the author of a conversation message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleAssistant Role = "assistant"
	RoleUser      Role = "user"
)

// Message is one entry of a teaching conversation.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// UserMessages returns the content of every user message, oldest first.
func UserMessages(history []Message) []string {
	var out []string
	for _, m := range history {
		if m.Role == RoleUser {
			out = append(out, m.Content)
		}
	}
	return out
}

package domain

// ConversationState is the durable per-thread state the orchestrator
// operates on: the ordered message history, the task registry, and an
// optional marker for the tool most recently in play. A thread's state is
// created lazily on first reference and is never deleted by this core.
type ConversationState struct {
	Messages []Message `json:"messages"`
	Tasks    Registry  `json:"tasks"`
	Tool     string    `json:"tool,omitempty"`
}

// NewConversationState returns the empty state a previously unseen thread
// starts from.
func NewConversationState() ConversationState {
	return ConversationState{
		Messages: []Message{},
		Tasks:    Registry{},
	}
}

// Clone returns a deep copy. Orchestration cycles work on a clone and
// write back through the store, never on the committed state directly.
func (s ConversationState) Clone() ConversationState {
	out := ConversationState{
		Messages: make([]Message, len(s.Messages)),
		Tasks:    s.Tasks.Clone(),
		Tool:     s.Tool,
	}
	copy(out.Messages, s.Messages)
	return out
}

// Append adds messages to the history, preserving insertion order.
func (s *ConversationState) Append(msgs ...Message) {
	s.Messages = append(s.Messages, msgs...)
}

// LastMessage returns the most recent message, or false when the history
// is empty.
func (s ConversationState) LastMessage() (Message, bool) {
	if len(s.Messages) == 0 {
		return Message{}, false
	}
	return s.Messages[len(s.Messages)-1], true
}

package domain

import "errors"

// Role identifies who produced a conversation message.
type Role string

// Possible message roles. The wire shape mirrors standard chat-completion
// message objects, so tool-result messages use the "tool" role.
const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// Common validation errors for Message.
var (
	ErrInvalidRole         = errors.New("invalid message role")
	ErrMissingToolCallID   = errors.New("tool message missing tool call ID")
	ErrEmptyToolCallName   = errors.New("tool call name cannot be empty")
	ErrMissingToolCallGUID = errors.New("tool call ID cannot be empty")
)

// ToolCall is a single tool invocation requested by the model in an
// assistant turn. Arguments hold the raw parameter map as produced by the
// model; validation against the tool's schema happens at dispatch time.
type ToolCall struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

// Validate checks that the tool call carries the fields dispatch depends on.
func (tc ToolCall) Validate() error {
	if tc.ID == "" {
		return ErrMissingToolCallGUID
	}
	if tc.Name == "" {
		return ErrEmptyToolCallName
	}
	return nil
}

// Message is one turn of a conversation. Messages are immutable once
// appended to a thread; their insertion order is the full context the model
// sees on every turn.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`

	// ToolCalls is set on assistant messages that request tool invocations.
	ToolCalls []ToolCall `json:"tool_calls,omitempty"`

	// ToolCallID and Name correlate a tool-result message with the
	// invocation that produced it.
	ToolCallID string `json:"tool_call_id,omitempty"`
	Name       string `json:"name,omitempty"`
}

// NewUserMessage builds a user-authored message.
func NewUserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

// NewAssistantMessage builds an assistant message with no tool calls.
func NewAssistantMessage(content string) Message {
	return Message{Role: RoleAssistant, Content: content}
}

// NewToolResultMessage builds a tool-result message correlated with the
// given tool call.
func NewToolResultMessage(toolCallID, toolName, content string) Message {
	return Message{
		Role:       RoleTool,
		Content:    content,
		ToolCallID: toolCallID,
		Name:       toolName,
	}
}

// Validate checks structural consistency of the message.
func (m Message) Validate() error {
	switch m.Role {
	case RoleSystem, RoleUser, RoleAssistant, RoleTool:
	default:
		return ErrInvalidRole
	}

	if m.Role == RoleTool && m.ToolCallID == "" {
		return ErrMissingToolCallID
	}

	for _, tc := range m.ToolCalls {
		if err := tc.Validate(); err != nil {
			return err
		}
	}

	return nil
}

// HasToolCalls reports whether this message requests any tool invocations.
func (m Message) HasToolCalls() bool {
	return len(m.ToolCalls) > 0
}

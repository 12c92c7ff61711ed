package api

import (
	"github.com/promoterhq/promoter-api/internal/domain"
	"github.com/promoterhq/promoter-api/internal/platform/postgres"
)

// ChatRequest is the body of POST /chat. Query may be empty, in which case
// the request is a pure read of the thread's current state. Timeout bounds
// connection acquisition in seconds; zero means the server default.
type ChatRequest struct {
	Query    string  `json:"query"`
	ThreadID string  `json:"thread_id" validate:"required"`
	Timeout  float64 `json:"timeout"    validate:"gte=0"`
}

// UpdateStateRequest is the body of POST /update_state. Query, when present,
// is injected as an assistant-authored message; Tasks is merged into the
// thread's task registry. With neither the request is a pure read.
type UpdateStateRequest struct {
	Query    string                      `json:"query"`
	Tasks    map[string]domain.TaskPatch `json:"tasks"`
	ThreadID string                      `json:"thread_id" validate:"required"`
	Timeout  float64                     `json:"timeout"    validate:"gte=0"`
}

// ConversationResponse is the body returned by /chat and /update_state: the
// thread's full message history and task registry after the operation.
type ConversationResponse struct {
	Messages []domain.Message `json:"messages"`
	Tasks    domain.Registry  `json:"tasks"`
}

// NewConversationResponse converts a conversation state into a response
// body. Nil collections become empty ones so clients always see [] and {}.
func NewConversationResponse(state domain.ConversationState) ConversationResponse {
	resp := ConversationResponse{
		Messages: state.Messages,
		Tasks:    state.Tasks,
	}
	if resp.Messages == nil {
		resp.Messages = []domain.Message{}
	}
	if resp.Tasks == nil {
		resp.Tasks = domain.Registry{}
	}
	return resp
}

// HealthResponse is the body of GET /health/db.
type HealthResponse struct {
	Status    string             `json:"status"`
	PoolStats postgres.PoolStats `json:"pool_stats"`
	Error     string             `json:"error,omitempty"`
}

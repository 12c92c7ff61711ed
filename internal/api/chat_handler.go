package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/promoterhq/promoter-api/internal/api/shared"
	"github.com/promoterhq/promoter-api/internal/domain"
)

// ConversationService is the gateway's view of the conversation layer.
type ConversationService interface {
	// Converse runs one orchestration cycle for the thread, or returns the
	// current state unchanged when query is empty.
	Converse(ctx context.Context, threadID, query string) (domain.ConversationState, error)

	// PatchState injects an assistant message and/or merges a task patch
	// without running a cycle.
	PatchState(
		ctx context.Context,
		threadID, query string,
		tasks map[string]domain.TaskPatch,
	) (domain.ConversationState, error)
}

// ChatHandler serves POST /chat and POST /update_state.
type ChatHandler struct {
	service        ConversationService
	defaultTimeout time.Duration
	logger         *slog.Logger
}

// NewChatHandler creates a handler. defaultTimeout bounds requests that do
// not carry their own timeout; zero leaves the request unbounded and defers
// to the pool's acquire timeout.
func NewChatHandler(
	service ConversationService,
	defaultTimeout time.Duration,
	logger *slog.Logger,
) *ChatHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ChatHandler{
		service:        service,
		defaultTimeout: defaultTimeout,
		logger:         logger,
	}
}

// Chat handles POST /chat.
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	ctx, cancel := h.requestContext(r.Context(), req.Timeout)
	defer cancel()

	log := h.logger.With(
		slog.String("trace_id", shared.GetTraceID(r.Context())),
		slog.String("thread_id", req.ThreadID))

	state, err := h.service.Converse(ctx, req.ThreadID, req.Query)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("chat request handled",
		slog.Int("messages", len(state.Messages)),
		slog.Int("tasks", len(state.Tasks)),
		slog.Bool("read_only", req.Query == ""))

	shared.RespondWithJSON(w, r, http.StatusOK, NewConversationResponse(state))
}

// UpdateState handles POST /update_state.
func (h *ChatHandler) UpdateState(w http.ResponseWriter, r *http.Request) {
	var req UpdateStateRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	ctx, cancel := h.requestContext(r.Context(), req.Timeout)
	defer cancel()

	log := h.logger.With(
		slog.String("trace_id", shared.GetTraceID(r.Context())),
		slog.String("thread_id", req.ThreadID))

	state, err := h.service.PatchState(ctx, req.ThreadID, req.Query, req.Tasks)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("state update handled",
		slog.Int("patched_tasks", len(req.Tasks)),
		slog.Bool("message_injected", req.Query != ""))

	shared.RespondWithJSON(w, r, http.StatusOK, NewConversationResponse(state))
}

// requestContext derives the handler context. A client-supplied timeout wins;
// otherwise the configured default applies, and zero means no deadline here
// (the pool still enforces its own acquire timeout).
func (h *ChatHandler) requestContext(
	parent context.Context,
	timeoutSecs float64,
) (context.Context, context.CancelFunc) {
	timeout := h.defaultTimeout
	if timeoutSecs > 0 {
		timeout = time.Duration(timeoutSecs * float64(time.Second))
	}
	if timeout <= 0 {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, timeout)
}

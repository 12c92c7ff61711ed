package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/promoterhq/promoter-api/internal/domain"
	"github.com/promoterhq/promoter-api/internal/orchestrator"
	"github.com/promoterhq/promoter-api/internal/store"
)

// ConversationService is the stateless gateway façade over the store and
// the orchestrator. One instance serves all threads; per-thread ordering is
// the store's job.
type ConversationService struct {
	store  store.ConversationStore
	orch   *orchestrator.Orchestrator
	logger *slog.Logger
}

// NewConversationService wires the gateway's dependencies.
func NewConversationService(
	st store.ConversationStore,
	orch *orchestrator.Orchestrator,
	logger *slog.Logger,
) (*ConversationService, error) {
	if st == nil {
		return nil, fmt.Errorf("conversation store cannot be nil")
	}
	if orch == nil {
		return nil, fmt.Errorf("orchestrator cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ConversationService{store: st, orch: orch, logger: logger}, nil
}

// Converse runs one orchestration cycle for the thread when query is
// non-empty, or returns the current state unchanged when it is empty. The
// cycle executes under the thread's serialization lock, so a concurrent
// Converse for the same thread observes this call's appended messages.
// Nothing is persisted when the cycle fails.
func (s *ConversationService) Converse(
	ctx context.Context,
	threadID, query string,
) (domain.ConversationState, error) {
	if threadID == "" {
		return domain.ConversationState{}, store.ErrEmptyThreadID
	}

	if query == "" {
		return s.store.Get(ctx, threadID)
	}

	return s.store.Update(ctx, threadID,
		func(ctx context.Context, state domain.ConversationState) (domain.ConversationState, error) {
			state.Append(domain.NewUserMessage(query))
			return s.orch.RunCycle(ctx, state)
		})
}

// PatchState applies an external update: an optional assistant-authored
// message and/or a task patch merged into the registry, without running an
// orchestration cycle. With neither present it is a pure read.
func (s *ConversationService) PatchState(
	ctx context.Context,
	threadID, query string,
	tasks map[string]domain.TaskPatch,
) (domain.ConversationState, error) {
	if threadID == "" {
		return domain.ConversationState{}, store.ErrEmptyThreadID
	}

	var msg *domain.Message
	if query != "" {
		m := domain.NewAssistantMessage(query)
		msg = &m
	}

	if msg == nil && len(tasks) == 0 {
		return s.store.Get(ctx, threadID)
	}

	return s.store.ExternalUpdate(ctx, threadID, msg, tasks)
}

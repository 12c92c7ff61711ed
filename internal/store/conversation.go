package store

import (
	"context"

	"github.com/promoterhq/promoter-api/internal/domain"
)

// UpdateFn transforms a thread's committed state into its next state. It
// runs under the thread's serialization lock: no other update for the same
// thread can interleave, and the state it receives is the most recently
// committed one. Returning an error rolls the update back entirely.
type UpdateFn func(ctx context.Context, state domain.ConversationState) (domain.ConversationState, error)

// ConversationStore persists per-thread conversation state.
// Version: 1.0
type ConversationStore interface {
	// Get returns the committed state for the thread, or the empty default
	// state if the thread has never been seen. Pure read; never creates
	// the thread.
	Get(ctx context.Context, threadID string) (domain.ConversationState, error)

	// Update applies fn to the thread's state under the per-thread lock
	// and persists the result atomically. Updates to the same thread are
	// totally ordered; updates to distinct threads proceed concurrently.
	// The thread row is created lazily on first update.
	Update(ctx context.Context, threadID string, fn UpdateFn) (domain.ConversationState, error)

	// Append is the normal post-cycle write: it extends the message
	// history and inserts newly dispatched tasks, atomic with respect to
	// the read the cycle was based on.
	Append(
		ctx context.Context,
		threadID string,
		msgs []domain.Message,
		tasks domain.Registry,
	) (domain.ConversationState, error)

	// ExternalUpdate injects an assistant message and/or merges a task
	// patch without running an orchestration cycle. This is the channel
	// the out-of-scope worker reports results through.
	ExternalUpdate(
		ctx context.Context,
		threadID string,
		msg *domain.Message,
		patch map[string]domain.TaskPatch,
	) (domain.ConversationState, error)
}

// AppendFn builds the UpdateFn behind ConversationStore.Append. Messages
// are appended in order; tasks are inserted into the registry.
func AppendFn(msgs []domain.Message, tasks domain.Registry) UpdateFn {
	return func(_ context.Context, state domain.ConversationState) (domain.ConversationState, error) {
		state.Append(msgs...)
		for _, t := range tasks {
			if err := state.Tasks.Insert(t); err != nil {
				return domain.ConversationState{}, err
			}
		}
		return state, nil
	}
}

// ExternalUpdateFn builds the UpdateFn behind ConversationStore.ExternalUpdate.
func ExternalUpdateFn(msg *domain.Message, patch map[string]domain.TaskPatch) UpdateFn {
	return func(_ context.Context, state domain.ConversationState) (domain.ConversationState, error) {
		if msg != nil {
			state.Append(*msg)
		}
		if len(patch) > 0 {
			if err := state.Tasks.Merge(patch); err != nil {
				return domain.ConversationState{}, err
			}
		}
		return state, nil
	}
}

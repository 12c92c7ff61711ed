package mocks

import (
	"context"
	"sync"

	"github.com/promoterhq/promoter-api/internal/domain"
	"github.com/promoterhq/promoter-api/internal/store"
)

// MemoryConversationStore implements store.ConversationStore in memory with
// the same concurrency contract as the durable implementation: updates to
// one thread are serialized, distinct threads proceed independently.
type MemoryConversationStore struct {
	mu      sync.Mutex
	threads map[string]*memoryThread

	// GetErr and UpdateErr, when set, are returned by the corresponding
	// operations to exercise failure paths.
	GetErr    error
	UpdateErr error
}

type memoryThread struct {
	mu    sync.Mutex
	state domain.ConversationState
}

// NewMemoryConversationStore creates an empty in-memory store.
func NewMemoryConversationStore() *MemoryConversationStore {
	return &MemoryConversationStore{threads: make(map[string]*memoryThread)}
}

func (s *MemoryConversationStore) thread(threadID string) *memoryThread {
	s.mu.Lock()
	defer s.mu.Unlock()
	th, ok := s.threads[threadID]
	if !ok {
		th = &memoryThread{state: domain.NewConversationState()}
		s.threads[threadID] = th
	}
	return th
}

// Get returns the committed state, or the empty default for unseen threads.
func (s *MemoryConversationStore) Get(
	_ context.Context,
	threadID string,
) (domain.ConversationState, error) {
	if s.GetErr != nil {
		return domain.ConversationState{}, s.GetErr
	}
	if threadID == "" {
		return domain.ConversationState{}, store.ErrEmptyThreadID
	}

	s.mu.Lock()
	th, ok := s.threads[threadID]
	s.mu.Unlock()
	if !ok {
		return domain.NewConversationState(), nil
	}

	th.mu.Lock()
	defer th.mu.Unlock()
	return th.state.Clone(), nil
}

// Update applies fn under the thread's lock, mirroring the row-lock
// serialization of the durable store.
func (s *MemoryConversationStore) Update(
	ctx context.Context,
	threadID string,
	fn store.UpdateFn,
) (domain.ConversationState, error) {
	if s.UpdateErr != nil {
		return domain.ConversationState{}, s.UpdateErr
	}
	if threadID == "" {
		return domain.ConversationState{}, store.ErrEmptyThreadID
	}

	th := s.thread(threadID)
	th.mu.Lock()
	defer th.mu.Unlock()

	next, err := fn(ctx, th.state.Clone())
	if err != nil {
		return domain.ConversationState{}, err
	}
	th.state = next
	return next.Clone(), nil
}

// Append extends the message history and inserts new tasks atomically.
func (s *MemoryConversationStore) Append(
	ctx context.Context,
	threadID string,
	msgs []domain.Message,
	tasks domain.Registry,
) (domain.ConversationState, error) {
	return s.Update(ctx, threadID, store.AppendFn(msgs, tasks))
}

// ExternalUpdate injects a message and/or merges a task patch.
func (s *MemoryConversationStore) ExternalUpdate(
	ctx context.Context,
	threadID string,
	msg *domain.Message,
	patch map[string]domain.TaskPatch,
) (domain.ConversationState, error) {
	return s.Update(ctx, threadID, store.ExternalUpdateFn(msg, patch))
}

var _ store.ConversationStore = (*MemoryConversationStore)(nil)

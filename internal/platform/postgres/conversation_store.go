package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/promoterhq/promoter-api/internal/domain"
	"github.com/promoterhq/promoter-api/internal/store"
)

// ConversationStore implements store.ConversationStore on top of the
// bounded pool. Each thread is one row; the row lock taken inside Update's
// transaction is what serializes a thread's updates, including the model
// turns that run inside the update function.
type ConversationStore struct {
	pool   *Pool
	logger *slog.Logger
}

// NewConversationStore creates a ConversationStore.
func NewConversationStore(pool *Pool, logger *slog.Logger) *ConversationStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &ConversationStore{pool: pool, logger: logger}
}

// Get returns the committed state for the thread. Threads that have never
// been written return the empty default state; Get never creates rows.
func (s *ConversationStore) Get(
	ctx context.Context,
	threadID string,
) (domain.ConversationState, error) {
	if threadID == "" {
		return domain.ConversationState{}, store.ErrEmptyThreadID
	}

	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return domain.ConversationState{}, err
	}
	defer conn.Release()

	var raw []byte
	err = conn.Pgx().QueryRow(ctx,
		`SELECT state FROM conversations WHERE thread_id = $1`, threadID,
	).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.NewConversationState(), nil
	}
	if err != nil {
		return domain.ConversationState{}, MapError(err)
	}

	return decodeState(raw)
}

// Update applies fn under the thread's row lock and persists the result.
// The row is created lazily on first update. On any error nothing is
// committed, so callers can retry safely.
func (s *ConversationStore) Update(
	ctx context.Context,
	threadID string,
	fn store.UpdateFn,
) (domain.ConversationState, error) {
	if threadID == "" {
		return domain.ConversationState{}, store.ErrEmptyThreadID
	}
	if fn == nil {
		return domain.ConversationState{}, fmt.Errorf("update function cannot be nil")
	}

	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return domain.ConversationState{}, err
	}
	defer conn.Release()

	tx, err := conn.Pgx().Begin(ctx)
	if err != nil {
		return domain.ConversationState{}, fmt.Errorf("%w: begin: %v", store.ErrTransactionFailed, err)
	}
	defer func() {
		// Rollback is a no-op after a successful commit.
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			s.logger.ErrorContext(ctx, "failed to roll back conversation update",
				"thread_id", threadID,
				"error", rbErr)
		}
	}()

	state, err := lockThread(ctx, tx, threadID)
	if err != nil {
		return domain.ConversationState{}, err
	}

	next, err := fn(ctx, state)
	if err != nil {
		return domain.ConversationState{}, err
	}

	raw, err := json.Marshal(next)
	if err != nil {
		return domain.ConversationState{}, fmt.Errorf("%w: encode: %v", store.ErrInvalidState, err)
	}

	if _, err := tx.Exec(ctx,
		`UPDATE conversations SET state = $2, updated_at = $3 WHERE thread_id = $1`,
		threadID, raw, time.Now().UTC(),
	); err != nil {
		return domain.ConversationState{}, MapError(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.ConversationState{}, fmt.Errorf("%w: commit: %v", store.ErrTransactionFailed, err)
	}

	return next, nil
}

// Append is the normal post-cycle write.
func (s *ConversationStore) Append(
	ctx context.Context,
	threadID string,
	msgs []domain.Message,
	tasks domain.Registry,
) (domain.ConversationState, error) {
	return s.Update(ctx, threadID, store.AppendFn(msgs, tasks))
}

// ExternalUpdate injects an assistant message and/or merges a task patch.
func (s *ConversationStore) ExternalUpdate(
	ctx context.Context,
	threadID string,
	msg *domain.Message,
	patch map[string]domain.TaskPatch,
) (domain.ConversationState, error) {
	return s.Update(ctx, threadID, store.ExternalUpdateFn(msg, patch))
}

// lockThread creates the thread row if needed and takes its row lock,
// returning the committed state. The insert-then-lock order means two
// concurrent first updates for one thread still serialize: one inserts,
// both contend on the same row lock.
func lockThread(ctx context.Context, tx pgx.Tx, threadID string) (domain.ConversationState, error) {
	empty, err := json.Marshal(domain.NewConversationState())
	if err != nil {
		return domain.ConversationState{}, fmt.Errorf("%w: encode empty state: %v", store.ErrInvalidState, err)
	}

	now := time.Now().UTC()
	if _, err := tx.Exec(ctx,
		`INSERT INTO conversations (thread_id, state, created_at, updated_at)
		 VALUES ($1, $2, $3, $3)
		 ON CONFLICT (thread_id) DO NOTHING`,
		threadID, empty, now,
	); err != nil {
		return domain.ConversationState{}, MapError(err)
	}

	var raw []byte
	if err := tx.QueryRow(ctx,
		`SELECT state FROM conversations WHERE thread_id = $1 FOR UPDATE`, threadID,
	).Scan(&raw); err != nil {
		return domain.ConversationState{}, MapError(err)
	}

	return decodeState(raw)
}

func decodeState(raw []byte) (domain.ConversationState, error) {
	var state domain.ConversationState
	if err := json.Unmarshal(raw, &state); err != nil {
		return domain.ConversationState{}, fmt.Errorf("%w: decode: %v", store.ErrInvalidState, err)
	}
	if state.Messages == nil {
		state.Messages = []domain.Message{}
	}
	if state.Tasks == nil {
		state.Tasks = domain.Registry{}
	}
	return state, nil
}

var _ store.ConversationStore = (*ConversationStore)(nil)

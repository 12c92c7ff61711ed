package postgres

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promoterhq/promoter-api/internal/domain"
	"github.com/promoterhq/promoter-api/internal/store"
	"github.com/promoterhq/promoter-api/internal/testdb"
)

func setupIntegrationStore(t *testing.T) *ConversationStore {
	t.Helper()
	testdb.SkipIfNoDatabase(t)

	db := testdb.Open(t)
	testdb.CreateSchema(t, db)
	testdb.ResetConversations(t, db)

	ctx, cancel := context.WithTimeout(context.Background(), testdb.Timeout)
	defer cancel()

	pool, err := NewPool(ctx, testdb.URL(), DefaultPoolConfig())
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	return NewConversationStore(pool, nil)
}

func TestIntegrationGetUnknownThread(t *testing.T) {
	st := setupIntegrationStore(t)

	state, err := st.Get(context.Background(), "never-seen")
	require.NoError(t, err)
	assert.Empty(t, state.Messages)
	assert.Empty(t, state.Tasks)
}

func TestIntegrationUpdateRoundTrip(t *testing.T) {
	st := setupIntegrationStore(t)
	ctx := context.Background()

	updated, err := st.Update(ctx, "thread-1",
		func(_ context.Context, state domain.ConversationState) (domain.ConversationState, error) {
			state.Append(
				domain.NewUserMessage("run a linkedin campaign"),
				domain.NewAssistantMessage("Task created."),
			)
			task, err := domain.NewTask("2026-01-02 10:00:00.000000-1", "linkedin_growth", nil)
			if err != nil {
				return domain.ConversationState{}, err
			}
			if err := state.Tasks.Insert(task); err != nil {
				return domain.ConversationState{}, err
			}
			return state, nil
		})
	require.NoError(t, err)
	require.Len(t, updated.Messages, 2)

	// Reading back returns the committed state, not the in-memory copy.
	got, err := st.Get(ctx, "thread-1")
	require.NoError(t, err)
	assert.Equal(t, updated.Messages, got.Messages)
	require.Contains(t, got.Tasks, "2026-01-02 10:00:00.000000-1")
	assert.Equal(t, domain.TaskStatusProcessing, got.Tasks["2026-01-02 10:00:00.000000-1"].Status)
}

func TestIntegrationUpdateRollsBackOnError(t *testing.T) {
	st := setupIntegrationStore(t)
	ctx := context.Background()

	_, err := st.Update(ctx, "thread-rb", store.AppendFn(
		[]domain.Message{domain.NewUserMessage("first")}, nil))
	require.NoError(t, err)

	_, err = st.Update(ctx, "thread-rb",
		func(_ context.Context, state domain.ConversationState) (domain.ConversationState, error) {
			state.Append(domain.NewUserMessage("second"))
			return domain.ConversationState{}, assert.AnError
		})
	require.Error(t, err)

	got, err := st.Get(ctx, "thread-rb")
	require.NoError(t, err)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "first", got.Messages[0].Content)
}

func TestIntegrationConcurrentUpdatesSerialize(t *testing.T) {
	st := setupIntegrationStore(t)
	ctx := context.Background()

	const writers = 8
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, err := st.Update(ctx, "thread-conc",
				func(_ context.Context, state domain.ConversationState) (domain.ConversationState, error) {
					// Each writer appends exactly one message based on what
					// it observed under the lock.
					state.Append(domain.NewUserMessage(
						fmt.Sprintf("message %d after %d", n, len(state.Messages))))
					time.Sleep(10 * time.Millisecond)
					return state, nil
				})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	got, err := st.Get(ctx, "thread-conc")
	require.NoError(t, err)
	require.Len(t, got.Messages, writers)

	// Every writer saw the fully committed history of its predecessors.
	seen := make(map[string]bool)
	for i, msg := range got.Messages {
		assert.Contains(t, msg.Content, fmt.Sprintf("after %d", i))
		assert.False(t, seen[msg.Content], "duplicate message: %s", msg.Content)
		seen[msg.Content] = true
	}
}

func TestIntegrationExternalUpdate(t *testing.T) {
	st := setupIntegrationStore(t)
	ctx := context.Background()

	task, err := domain.NewTask("2026-01-02 11:00:00.000000-1", "SEO_content_generator", nil)
	require.NoError(t, err)
	_, err = st.Update(ctx, "thread-ext",
		func(_ context.Context, state domain.ConversationState) (domain.ConversationState, error) {
			if err := state.Tasks.Insert(task); err != nil {
				return domain.ConversationState{}, err
			}
			return state, nil
		})
	require.NoError(t, err)

	msg := domain.NewAssistantMessage("Your SEO report is ready.")
	got, err := st.ExternalUpdate(ctx, "thread-ext", &msg, map[string]domain.TaskPatch{
		task.ID: {
			Status: domain.TaskStatusCompleted,
			Results: []domain.Result{
				{ID: "r1", Title: "SEO report", Body: "All pages indexed."},
			},
		},
	})
	require.NoError(t, err)

	require.Len(t, got.Messages, 1)
	assert.Equal(t, domain.RoleAssistant, got.Messages[0].Role)
	require.Contains(t, got.Tasks, task.ID)
	assert.Equal(t, domain.TaskStatusCompleted, got.Tasks[task.ID].Status)
	require.Len(t, got.Tasks[task.ID].Results, 1)
	assert.Equal(t, "SEO report", got.Tasks[task.ID].Results[0].Title)
}

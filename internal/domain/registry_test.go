package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryInsert(t *testing.T) {
	t.Parallel()

	t.Run("registers new task", func(t *testing.T) {
		t.Parallel()

		r := Registry{}
		task, err := NewTask("id-1", "linkedin_growth", nil)
		require.NoError(t, err)

		require.NoError(t, r.Insert(task))
		assert.Equal(t, task, r["id-1"])
	})

	t.Run("rejects duplicate ID", func(t *testing.T) {
		t.Parallel()

		r := Registry{}
		task, err := NewTask("id-1", "linkedin_growth", nil)
		require.NoError(t, err)
		require.NoError(t, r.Insert(task))

		err = r.Insert(task)
		assert.ErrorIs(t, err, ErrTaskAlreadyRegistered)
	})
}

func TestRegistryMerge(t *testing.T) {
	t.Parallel()

	t.Run("patches one task without touching others", func(t *testing.T) {
		t.Parallel()

		r := Registry{}
		first, err := NewTask("id-1", "linkedin_growth", map[string]any{"a": "b"})
		require.NoError(t, err)
		second, err := NewTask("id-2", "SEO_content_generator", nil)
		require.NoError(t, err)
		require.NoError(t, r.Insert(first))
		require.NoError(t, r.Insert(second))

		results := []Result{{ID: "id-1_0", Title: "Our New Product", Body: "..."}}
		err = r.Merge(map[string]TaskPatch{
			"id-1": {Status: TaskStatusCompleted, Results: results},
		})
		require.NoError(t, err)

		assert.Equal(t, TaskStatusCompleted, r["id-1"].Status)
		assert.Equal(t, results, r["id-1"].Results)
		assert.Equal(t, map[string]any{"a": "b"}, r["id-1"].Args)
		// Sibling task untouched.
		assert.Equal(t, second, r["id-2"])
	})

	t.Run("inserts unknown ID as new record", func(t *testing.T) {
		t.Parallel()

		r := Registry{}
		err := r.Merge(map[string]TaskPatch{
			"id-9": {Type: "miscellaneous_task", Args: map[string]any{"task_type": "newsletter"}},
		})
		require.NoError(t, err)

		assert.Equal(t, TaskStatusProcessing, r["id-9"].Status)
		assert.Equal(t, "miscellaneous_task", r["id-9"].Type)
	})

	t.Run("rejects insert without type", func(t *testing.T) {
		t.Parallel()

		r := Registry{}
		err := r.Merge(map[string]TaskPatch{"id-9": {Status: TaskStatusCompleted}})
		assert.ErrorIs(t, err, ErrEmptyTaskType)
	})
}

func TestRegistryClone(t *testing.T) {
	t.Parallel()

	r := Registry{}
	task, err := NewTask("id-1", "linkedin_growth", map[string]any{"a": "b"})
	require.NoError(t, err)
	require.NoError(t, r.Insert(task))

	clone := r.Clone()
	mutated := clone["id-1"]
	mutated.Status = TaskStatusFailed
	clone["id-1"] = mutated
	clone["id-1"].Args["a"] = "mutated"

	assert.Equal(t, TaskStatusProcessing, r["id-1"].Status)
	assert.Equal(t, "b", r["id-1"].Args["a"])
}

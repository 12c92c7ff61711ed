package tool

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCatalog(t *testing.T) *Registry {
	t.Helper()

	catalog, err := NewCatalog(NewIDGenerator())
	require.NoError(t, err)
	return catalog
}

func TestCatalogDispatch(t *testing.T) {
	t.Parallel()

	t.Run("valid arguments create a task acknowledgement", func(t *testing.T) {
		t.Parallel()

		catalog := newTestCatalog(t)
		ack, taskID, err := catalog.Dispatch("linkedin_growth", map[string]any{
			"linkedin_page_url":       "https://linkedin.com/company/acme",
			"company_website_url":     "https://acme.com",
			"content_preference":      "announce the new product",
			"target_audience_profile": "software engineers",
		})
		require.NoError(t, err)

		assert.NotEmpty(t, taskID)
		assert.Contains(t, ack, "task id: "+taskID)
		assert.Contains(t, ack, "under processing state")
	})

	t.Run("missing required argument fails validation", func(t *testing.T) {
		t.Parallel()

		catalog := newTestCatalog(t)
		_, _, err := catalog.Dispatch("linkedin_growth", map[string]any{
			"linkedin_page_url": "https://linkedin.com/company/acme",
		})
		assert.ErrorIs(t, err, ErrInvalidArguments)
	})

	t.Run("wrong argument type fails validation", func(t *testing.T) {
		t.Parallel()

		catalog := newTestCatalog(t)
		_, _, err := catalog.Dispatch(MiscellaneousTaskName, map[string]any{
			"task_type":       "newsletter",
			"task_inputs":     "not an object",
			"expected_output": "a newsletter draft",
		})
		assert.ErrorIs(t, err, ErrInvalidArguments)
	})

	t.Run("unknown tool is a distinct error", func(t *testing.T) {
		t.Parallel()

		catalog := newTestCatalog(t)
		_, _, err := catalog.Dispatch("twitter_threads", nil)
		assert.ErrorIs(t, err, ErrUnknownTool)
	})

	t.Run("catch-all accepts a free-form input map", func(t *testing.T) {
		t.Parallel()

		catalog := newTestCatalog(t)
		_, taskID, err := catalog.Dispatch(MiscellaneousTaskName, map[string]any{
			"task_type":       "newsletter",
			"task_inputs":     map[string]any{"audience": "customers", "cadence": "weekly"},
			"expected_output": "a newsletter draft",
		})
		require.NoError(t, err)
		assert.NotEmpty(t, taskID)
	})
}

func TestCatalogShape(t *testing.T) {
	t.Parallel()

	catalog := newTestCatalog(t)

	assert.Equal(t, []string{
		"instagram_marketing",
		"facebook_content_creator",
		"linkedin_growth",
		"SEO_content_generator",
		"miscellaneous_task",
	}, catalog.Names())

	for _, tl := range catalog.List() {
		assert.NotEmpty(t, tl.Description, "tool %s needs a description for the model", tl.Name)
		assert.NotEmpty(t, tl.Parameters.Required, "tool %s declares no required parameters", tl.Name)
	}
}

func TestIDGeneratorUniqueness(t *testing.T) {
	t.Parallel()

	gen := NewIDGenerator()
	// Freeze the clock so uniqueness can only come from the counter.
	frozen := time.Date(2024, 12, 12, 2, 40, 53, 292651000, time.UTC)
	gen.now = func() time.Time { return frozen }

	const n = 64
	ids := make(chan string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ids <- gen.Next()
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[string]bool, n)
	for id := range ids {
		assert.False(t, seen[id], "duplicate task ID %s", id)
		seen[id] = true
		assert.True(t, strings.HasPrefix(id, "2024-12-12 02:40:53.292651-"))
	}
}

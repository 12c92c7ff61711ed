package shared

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondWithJSON(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/health/db", nil)
	RespondWithJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
}

func TestRespondWithErrorIncludesTraceID(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	r := httptest.NewRequest("POST", "/chat", nil)
	r = r.WithContext(SetTraceID(r.Context()))
	RespondWithError(w, r, http.StatusBadRequest, "Invalid request")

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Invalid request", body.Error)
	assert.NotEmpty(t, body.TraceID)
	assert.Equal(t, GetTraceID(r.Context()), body.TraceID)
}

func TestRespondWithErrorNoTraceID(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	r := httptest.NewRequest("POST", "/chat", nil)
	RespondWithError(w, r, http.StatusInternalServerError, "An unexpected error occurred")

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Empty(t, body.TraceID)
}

func TestRespondWithErrorAndLogNeverLeaksRawError(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	r := httptest.NewRequest("POST", "/chat", nil)
	raw := errors.New("connect to postgres://app:secret@db:5432 failed")
	RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "An unexpected error occurred", raw)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "secret")
	assert.Contains(t, w.Body.String(), "An unexpected error occurred")
}

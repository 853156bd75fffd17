package research

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError + 4}))
}

func newTestSink(t *testing.T, handler http.HandlerFunc) (*Logger, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	l, err := New(testLogger(),
		WithBaseURL(srv.URL),
		WithCredentials("secret-token", "db-123"),
		WithHTTPClient(srv.Client()))
	require.NoError(t, err)
	return l, srv
}

func TestNew_MissingCredentials(t *testing.T) {
	t.Setenv(EnvToken, "")
	t.Setenv(EnvDatabaseID, "")

	_, err := New(testLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), EnvToken)

	t.Setenv(EnvToken, "tok")
	_, err = New(testLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), EnvDatabaseID)
}

func TestLogSimulation(t *testing.T) {
	var got map[string]any
	l, _ := newTestSink(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/pages", r.URL.Path)
		assert.Equal(t, "Bearer secret-token", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	})

	err := l.LogSimulation(context.Background(), Record{
		GroundMotion:     "RSN953_Northridge",
		MaxDrift:         0.0234,
		PeakAcceleration: 0.82,
		NumStories:       5,
	})
	require.NoError(t, err)

	parent := got["parent"].(map[string]any)
	assert.Equal(t, "db-123", parent["database_id"])

	props := got["properties"].(map[string]any)
	assert.Contains(t, props, "Ground Motion")
	assert.Contains(t, props, "Max Drift")
	// Defaults are applied when the caller leaves them empty.
	status := props["Status"].(map[string]any)["select"].(map[string]any)
	assert.Equal(t, "Converged", status["name"])
	// Source is omitted when not provided.
	assert.NotContains(t, props, "Source")
}

func TestLogSimulation_TruncatesNotes(t *testing.T) {
	var got map[string]any
	l, _ := newTestSink(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	})

	err := l.LogSimulation(context.Background(), Record{
		GroundMotion: "gm",
		Notes:        strings.Repeat("x", 3000),
	})
	require.NoError(t, err)

	notes := got["properties"].(map[string]any)["Notes"].(map[string]any)
	content := notes["rich_text"].([]any)[0].(map[string]any)["text"].(map[string]any)["content"].(string)
	assert.Len(t, content, 2000)
}

func TestLogSimulation_ServerError(t *testing.T) {
	l, _ := newTestSink(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	})

	err := l.LogSimulation(context.Background(), Record{GroundMotion: "gm"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestLogBatch_RecordsPerItemFailures(t *testing.T) {
	var calls int
	l, _ := newTestSink(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 2 {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	results := l.LogBatch(context.Background(), []Record{
		{GroundMotion: "gm1"},
		{GroundMotion: "gm2"},
		{GroundMotion: "gm3"},
	})

	// The failing middle item never aborts the batch.
	require.Len(t, results, 3)
	assert.NoError(t, results[0].Err)
	assert.Error(t, results[1].Err)
	assert.NoError(t, results[2].Err)
	assert.Equal(t, 3, calls)
}

func TestUpdateStatus(t *testing.T) {
	l, _ := newTestSink(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/pages/page-9", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	})

	require.NoError(t, l.UpdateStatus(context.Background(), "page-9", "Diverged"))
}

func TestQuery_StatusFilter(t *testing.T) {
	l, _ := newTestSink(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/databases/db-123/query", r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		filter := body["filter"].(map[string]any)
		assert.Equal(t, "Status", filter["property"])

		_ = json.NewEncoder(w).Encode(map[string]any{
			"results": []map[string]any{{"id": "a"}, {"id": "b"}},
		})
	})

	results, err := l.Query(context.Background(), "Converged")
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

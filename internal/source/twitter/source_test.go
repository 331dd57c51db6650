package twitter

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestServer(t *testing.T, tweetsBody string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/2/users/by/username/xcorp", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"data":{"id":"123","name":"X Corp","username":"xcorp"}}`))
	})
	mux.HandleFunc("/2/users/123/tweets", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(tweetsBody))
	})
	return httptest.NewServer(mux)
}

func TestFetch_TransformsTweets(t *testing.T) {
	server := newTestServer(t, `{"data":[
		{"id": "900", "text": "X launches Y", "created_at": "2025-06-01T12:30:00.000Z"}
	]}`)
	defer server.Close()

	source := New(Config{BaseURL: server.URL, BearerToken: "test-token"}, testLogger())

	posts, err := source.Fetch(context.Background(), "xcorp")

	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "X launches Y", posts[0].Content)
	assert.Equal(t, "X Corp", posts[0].PosterName)
	assert.Equal(t, "https://twitter.com/xcorp", posts[0].PosterURL)
	assert.Equal(t, "https://twitter.com/xcorp/status/900", posts[0].URL)
	assert.Equal(t, time.Date(2025, 6, 1, 12, 30, 0, 0, time.UTC), posts[0].PublishedAt.UTC())
}

func TestFetch_NoTweetsYieldsEmptySlice(t *testing.T) {
	server := newTestServer(t, `{"data":[]}`)
	defer server.Close()

	source := New(Config{BaseURL: server.URL, BearerToken: "test-token"}, testLogger())

	posts, err := source.Fetch(context.Background(), "xcorp")

	require.NoError(t, err)
	assert.Empty(t, posts)
}

func TestFetch_UnknownUserFails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	source := New(Config{BaseURL: server.URL, BearerToken: "test-token"}, testLogger())

	_, err := source.Fetch(context.Background(), "xcorp")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "user not found")
}

func TestFetch_HTTPErrorPropagates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	source := New(Config{BaseURL: server.URL, BearerToken: "test-token"}, testLogger())

	_, err := source.Fetch(context.Background(), "xcorp")

	assert.Error(t, err)
}

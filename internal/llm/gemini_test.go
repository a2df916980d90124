package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcliao/prompt-canvas/internal/config"
)

func testConfig(url string) config.LLMConfig {
	return config.LLMConfig{
		APIURL:  url,
		APIKey:  "secret",
		Timeout: 5 * time.Second,
	}
}

func TestCompleteSendsUserTurn(t *testing.T) {
	var got generateRequest
	var key string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key = r.URL.Query().Get("key")
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"[]"},{"text":"ignored"}]}}]}`))
	}))
	defer srv.Close()

	text, err := New(testConfig(srv.URL), nil).Complete(context.Background(), "draw a cat")
	require.NoError(t, err)
	assert.Equal(t, "[]", text)
	assert.Equal(t, "secret", key)
	require.Len(t, got.Contents, 1)
	assert.Equal(t, "user", got.Contents[0].Role)
	assert.Equal(t, "draw a cat", got.Contents[0].Parts[0].Text)
}

func TestCompleteNoCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates":[]}`))
	}))
	defer srv.Close()

	text, err := New(testConfig(srv.URL), nil).Complete(context.Background(), "x")
	require.NoError(t, err)
	assert.Empty(t, text)
}

func TestCompleteNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := New(testConfig(srv.URL), nil).Complete(context.Background(), "x")
	assert.ErrorIs(t, err, ErrStatus)
	assert.Contains(t, err.Error(), "429")
}

func TestCompleteBadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	_, err := New(testConfig(srv.URL), nil).Complete(context.Background(), "x")
	assert.Error(t, err)
}

func TestBreakerOpensAfterFailures(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.CircuitBreaker = config.CircuitBreakerConfig{Enabled: true, MaxFailures: 2, Timeout: time.Minute}
	c := New(cfg, nil)

	for i := 0; i < 2; i++ {
		_, err := c.Complete(context.Background(), "x")
		assert.ErrorIs(t, err, ErrStatus)
	}
	_, err := c.Complete(context.Background(), "x")
	assert.True(t, errors.Is(err, gobreaker.ErrOpenState))
	assert.Equal(t, int32(2), hits.Load())
}

func TestEndpointWithoutKey(t *testing.T) {
	c := New(config.LLMConfig{APIURL: "http://example.test/gen?alt=json", Timeout: time.Second}, nil)
	u, err := c.endpoint()
	require.NoError(t, err)
	assert.Equal(t, "http://example.test/gen?alt=json", u)
}

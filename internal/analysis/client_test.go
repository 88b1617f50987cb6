package analysis

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/intelligent-content-api/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/intelligent-content-api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, timeout time.Duration, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	return NewClient(&config.Config{
		GeminiAPIURL: srv.URL + "/v1beta/",
		GeminiModel:  "gemini-test",
		GeminiAPIKey: "test-key",
		AITimeout:    timeout,
	})
}

func answer(w http.ResponseWriter, text string) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"candidates": []any{
			map[string]any{"content": map[string]any{"parts": []any{map[string]any{"text": text}}}},
		},
	})
}

func TestAnalyze_Success(t *testing.T) {
	c := newTestClient(t, time.Second, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1beta/models/gemini-test:generateContent", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))

		var req generateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Contents, 1)
		assert.Contains(t, req.Contents[0].Parts[0].Text, "I love this")

		answer(w, "```json\n{\"summary\": \"The author loves it.\", \"sentiment\": \"Positive\"}\n```")
	})

	res, err := c.Analyze(context.Background(), "I love this")
	require.NoError(t, err)
	assert.Equal(t, Result{Summary: "The author loves it.", Sentiment: "Positive"}, res)
}

func TestAnalyze_ProviderFailures(t *testing.T) {
	tests := []struct {
		name   string
		code   int
		body   string
		want   *apperr.Error
		status int
	}{
		{"quota by code", 429, `{"error":{"code":429,"message":"quota","status":"RESOURCE_EXHAUSTED"}}`, ErrRateLimited, 429},
		{"quota by status", 400, `{"error":{"code":400,"status":"RESOURCE_EXHAUSTED"}}`, ErrRateLimited, 429},
		{"upstream deadline", 504, `{"error":{"code":504,"status":"DEADLINE_EXCEEDED"}}`, ErrTimeout, 504},
		{"bad key", 403, `{"error":{"code":403,"status":"PERMISSION_DENIED"}}`, ErrProvider, 500},
		{"server error without body", 500, ``, ErrProvider, 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, time.Second, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.code)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := c.Analyze(context.Background(), "text")
			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, tt.status, apperr.StatusOf(err))
			assert.Equal(t, tt.want.Detail, apperr.DetailOf(err))
		})
	}
}

func TestAnalyze_Timeout(t *testing.T) {
	c := newTestClient(t, 50*time.Millisecond, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	})

	_, err := c.Analyze(context.Background(), "text")
	assert.ErrorIs(t, err, ErrTimeout)
	assert.Equal(t, 504, apperr.StatusOf(err))
}

func TestAnalyze_Unparseable(t *testing.T) {
	c := newTestClient(t, time.Second, func(w http.ResponseWriter, r *http.Request) {
		answer(w, "I cannot help with that.")
	})

	_, err := c.Analyze(context.Background(), "text")
	assert.ErrorIs(t, err, ErrAnalysis)
	assert.Equal(t, "Internal server error during text analysis", apperr.DetailOf(err))
}

func TestAnalyze_NoCandidates(t *testing.T) {
	c := newTestClient(t, time.Second, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"candidates":[]}`))
	})

	_, err := c.Analyze(context.Background(), "text")
	assert.ErrorIs(t, err, ErrAnalysis)
}

func TestAnalyze_UnreachableProvider(t *testing.T) {
	c := NewClient(&config.Config{
		GeminiAPIURL: "http://127.0.0.1:1",
		GeminiModel:  "m",
		AITimeout:    time.Second,
	})

	_, err := c.Analyze(context.Background(), "text")
	assert.ErrorIs(t, err, ErrProvider)
}

func TestParseResult(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Result
	}{
		{"plain", `{"summary":"s","sentiment":"Negative"}`, Result{"s", "Negative"}},
		{"surrounded by prose", `Sure! {"summary":"s","sentiment":"Neutral"} Hope this helps.`, Result{"s", "Neutral"}},
		{"missing summary", `{"sentiment":"Positive"}`, Result{"", "Positive"}},
		{"missing sentiment", `{"summary":"s"}`, Result{"s", "Neutral"}},
		{"lowercase sentiment", `{"summary":"s","sentiment":" positive "}`, Result{"s", "Positive"}},
		{"unknown sentiment", `{"summary":"s","sentiment":"Mixed"}`, Result{"s", "Neutral"}},
		{"nested braces", `{"summary":"a {b} c","sentiment":"Negative"}`, Result{"a {b} c", "Negative"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseResult(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseResult_Invalid(t *testing.T) {
	for _, raw := range []string{"", "no json here", "} backwards {", `{"summary": }`, strings.Repeat("{", 3)} {
		_, err := ParseResult(raw)
		assert.ErrorIs(t, err, ErrAnalysis, "raw %q", raw)
	}
}

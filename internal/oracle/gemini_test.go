// internal/oracle/gemini_test.go
package oracle

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xkilldash9x/webscout-cli/api/schemas"
	"github.com/xkilldash9x/webscout-cli/internal/config"
)

func newTestJudge(t *testing.T, handler http.HandlerFunc) *GeminiJudge {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	j, err := NewGeminiJudge(config.OracleConfig{
		APIKey:     "test-key",
		Endpoint:   server.URL,
		APITimeout: 5 * time.Second,
	}, zap.NewNop())
	require.NoError(t, err)
	j.maxElapsed = 200 * time.Millisecond
	return j
}

func geminiReply(text string) string {
	payload := map[string]any{
		"candidates": []map[string]any{
			{"content": map[string]any{"parts": []map[string]string{{"text": text}}}},
		},
	}
	b, _ := json.Marshal(payload)
	return string(b)
}

func TestNewGeminiJudgeRequiresKey(t *testing.T) {
	_, err := NewGeminiJudge(config.OracleConfig{}, zap.NewNop())
	assert.Error(t, err)
}

func TestJudgeParsesLabel(t *testing.T) {
	j := newTestJudge(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))
		w.Write([]byte(geminiReply(`{"purpose": "login", "confidence": 0.85}`)))
	})

	judgment, err := j.Judge(context.Background(), "classify this form")
	require.NoError(t, err)
	assert.Equal(t, "login", judgment.Purpose)
	assert.Equal(t, 0.85, judgment.Confidence)
}

func TestJudgeStripsCodeFences(t *testing.T) {
	j := newTestJudge(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(geminiReply("```json\n{\"purpose\": \"contact\", \"confidence\": 0.6}\n```")))
	})

	judgment, err := j.Judge(context.Background(), "classify")
	require.NoError(t, err)
	assert.Equal(t, "contact", judgment.Purpose)
}

func TestJudgeMalformedReplyIsEmptyNotError(t *testing.T) {
	j := newTestJudge(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(geminiReply("I think this is probably a login form.")))
	})

	judgment, err := j.Judge(context.Background(), "classify")
	require.NoError(t, err)
	assert.Empty(t, judgment.Purpose)
	assert.Zero(t, judgment.Confidence)
}

func TestJudgePermanentAPIError(t *testing.T) {
	calls := 0
	j := newTestJudge(t, func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadRequest)
	})

	_, err := j.Judge(context.Background(), "classify")
	assert.Error(t, err)
	assert.Equal(t, 1, calls, "4xx must not be retried")
}

func TestJudgeRetriesTransientErrors(t *testing.T) {
	calls := 0
	j := newTestJudge(t, func(w http.ResponseWriter, _ *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(geminiReply(`{"purpose": "search", "confidence": 0.5}`)))
	})

	judgment, err := j.Judge(context.Background(), "classify")
	require.NoError(t, err)
	assert.Equal(t, "search", judgment.Purpose)
	assert.Equal(t, 2, calls)
}

func TestAnalyzePageTextFallback(t *testing.T) {
	j := newTestJudge(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(geminiReply("The page is a storefront with a prominent signup banner.")))
	})

	analysis, err := j.AnalyzePage(context.Background(), &schemas.PageSnapshot{URL: "https://site.test"})
	require.NoError(t, err)
	assert.Equal(t, "text", analysis["format"])
	assert.Contains(t, analysis["analysis"], "storefront")
}

func TestAnalyzePageStructured(t *testing.T) {
	j := newTestJudge(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(geminiReply(`{"key_features": ["signup"], "interaction_points": []}`)))
	})

	analysis, err := j.AnalyzePage(context.Background(), &schemas.PageSnapshot{})
	require.NoError(t, err)
	assert.Contains(t, analysis, "key_features")
	assert.NotContains(t, analysis, "format")
}

func TestNopJudge(t *testing.T) {
	var j schemas.Judge = NopJudge{}
	judgment, err := j.Judge(context.Background(), "anything")
	require.NoError(t, err)
	assert.Empty(t, judgment.Purpose)

	analysis, err := j.AnalyzePage(context.Background(), &schemas.PageSnapshot{})
	require.NoError(t, err)
	assert.Empty(t, analysis)
}

// internal/observability/logger_test.go
package observability

import (
	"bytes"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/xkilldash9x/webscout-cli/internal/config"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) Sync() error { return nil }

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestInitializeWritesToConsole(t *testing.T) {
	ResetForTest()
	t.Cleanup(ResetForTest)

	out := &syncBuffer{}
	Initialize(config.LoggerConfig{
		Level:       "debug",
		Format:      "console",
		ServiceName: "webscout-test",
	}, zapcore.Lock(out))

	GetLogger().Info("hello from the test")
	require.Contains(t, out.String(), "hello from the test")
	assert.Contains(t, out.String(), "webscout-test")
}

func TestInitializeRunsOnce(t *testing.T) {
	ResetForTest()
	t.Cleanup(ResetForTest)

	first := &syncBuffer{}
	second := &syncBuffer{}
	Initialize(config.LoggerConfig{Level: "info", Format: "console"}, zapcore.Lock(first))
	Initialize(config.LoggerConfig{Level: "info", Format: "console"}, zapcore.Lock(second))

	GetLogger().Info("only once")
	assert.Contains(t, first.String(), "only once")
	assert.Empty(t, second.String())
}

func TestLevelFiltering(t *testing.T) {
	ResetForTest()
	t.Cleanup(ResetForTest)

	out := &syncBuffer{}
	Initialize(config.LoggerConfig{Level: "warn", Format: "json"}, zapcore.Lock(out))

	GetLogger().Info("filtered out")
	GetLogger().Warn("kept")

	assert.NotContains(t, out.String(), "filtered out")
	assert.Contains(t, out.String(), "kept")
}

func TestInvalidLevelFallsBackToInfo(t *testing.T) {
	ResetForTest()
	t.Cleanup(ResetForTest)

	out := &syncBuffer{}
	Initialize(config.LoggerConfig{Level: "shouting", Format: "json"}, zapcore.Lock(out))

	GetLogger().Debug("too quiet")
	GetLogger().Info("audible")

	assert.NotContains(t, out.String(), "too quiet")
	assert.Contains(t, out.String(), "audible")
}

func TestGetLoggerBeforeInitReturnsFallback(t *testing.T) {
	ResetForTest()
	t.Cleanup(ResetForTest)

	logger := GetLogger()
	require.NotNil(t, logger)
	assert.True(t, strings.Contains(logger.Name(), "fallback"))
}

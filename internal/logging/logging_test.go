package logging

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLevelByName(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, LevelByName("debug"))
	assert.Equal(t, zapcore.ErrorLevel, LevelByName("error"))
	assert.Equal(t, zapcore.InfoLevel, LevelByName("loud"))
}

func TestHelpersWriteThroughInstalledLogger(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	prev := L()
	Set(zap.New(core).Sugar())
	t.Cleanup(func() { Set(prev) })

	Debugf("hidden %d", 1)
	Warnf("dropped chunk %d", 2)

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "dropped chunk 2", entries[0].Message)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
}

func TestHelpersReportTheirCaller(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	prev := L()
	Set(zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1)).Sugar())
	t.Cleanup(func() { Set(prev) })

	Debugw("request", "id", "abc")
	Infof("hello")

	entries := logs.All()
	require.Len(t, entries, 2)
	for _, e := range entries {
		assert.Equal(t, "logging_test.go", filepath.Base(e.Caller.File))
	}
	assert.Equal(t, "abc", entries[0].ContextMap()["id"])
}

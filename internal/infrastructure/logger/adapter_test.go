package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestWithFields(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	log := FromZap(zap.New(core))

	log.WithField("session", "abc").
		WithFields(map[string]any{"records": 3}).
		Info("DOM extracted", "nextCounter", 4)

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "DOM extracted", entries[0].Message)
	ctx := entries[0].ContextMap()
	assert.Equal(t, "abc", ctx["session"])
	assert.EqualValues(t, 3, ctx["records"])
	assert.EqualValues(t, 4, ctx["nextCounter"])
}

func TestLevelFiltering(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	log := FromZap(zap.New(core))

	log.Debug("skip")
	log.Info("skip")
	log.Warn("keep")
	log.Error("keep")

	assert.Equal(t, 2, logs.Len())
}

func TestNewLoggerAdapter_File(t *testing.T) {
	dir := t.TempDir()
	log, err := NewLoggerAdapter(Config{Env: "prod", Level: "debug", Dir: dir, Name: "run: one"})
	require.NoError(t, err)

	log.Debug("hello", "k", "v")
	_ = log.Close()

	files, err := filepath.Glob(filepath.Join(dir, "*_run__one.log"))
	require.NoError(t, err)
	require.Len(t, files, 1)

	data, err := os.ReadFile(files[0])
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"hello"`)
	assert.Contains(t, string(data), `"k":"v"`)
}

func TestSanitize(t *testing.T) {
	assert.Equal(t, "snapshot", sanitize("///"))
	assert.Equal(t, "a_b", sanitize("a b"))
}

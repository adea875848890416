package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/abhisek/quizdoc/internal/config"
)

func TestNew_WritesJSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "quizdoc.log")
	var console bytes.Buffer

	logger, err := New(config.LogConfig{File: path, Level: "debug", MaxSizeMB: 1}, Options{Console: true, Stderr: &console})
	require.NoError(t, err)

	logger.Info("quiz generated", zap.Int("questions", 5))
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"quiz generated"`)
	assert.Contains(t, string(data), `"questions":5`)
	assert.True(t, strings.Contains(console.String(), "quiz generated"))
}

func TestNew_RespectsLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quizdoc.log")
	logger, err := New(config.LogConfig{File: path, Level: "warn"}, Options{})
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Warn("shown")
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "hidden")
	assert.Contains(t, string(data), "shown")
}

func TestNew_BadLevel(t *testing.T) {
	_, err := New(config.LogConfig{File: filepath.Join(t.TempDir(), "x.log"), Level: "loud"}, Options{})
	assert.Error(t, err)
}

func TestDefaultLogPath(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", "/state")
	p, err := DefaultLogPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/state", "quizdoc", "quizdoc.log"), p)
}

func TestOrNop(t *testing.T) {
	assert.NotNil(t, OrNop(nil))
	l := zap.NewExample()
	assert.Same(t, l, OrNop(l))
}

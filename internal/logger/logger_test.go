package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_JSONFormat(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l, err := New("debug", "json", &buf)
	require.NoError(t, err)
	assert.Equal(t, logrus.DebugLevel, l.GetLevel())

	l.WithField("asset_id", "AQID").Info("media ready")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "media ready", entry["msg"])
	assert.Equal(t, "AQID", entry["asset_id"])
	assert.Equal(t, "info", entry["level"])
}

func TestNew_TextDefaultsToInfo(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l, err := New("", "", &buf)
	require.NoError(t, err)
	l.Debug("hidden")
	l.Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "level=warning")
	assert.Contains(t, buf.String(), `msg=shown`)
}

func TestNew_RejectsBadInput(t *testing.T) {
	t.Parallel()

	_, err := New("loud", "text", &bytes.Buffer{})
	assert.Error(t, err)
	_, err = New("info", "xml", &bytes.Buffer{})
	assert.Error(t, err)
}

func TestInit_AppendsToFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "state", "chirp.log")
	l, closer, err := Init("info", "text", path)
	require.NoError(t, err)
	l.Info("first")
	require.NoError(t, closer.Close())

	l, closer, err = Init("info", "text", path)
	require.NoError(t, err)
	l.Info("second")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "msg=first")
	assert.Contains(t, string(data), "msg=second")
}

func TestInit_EmptyPathDiscards(t *testing.T) {
	t.Parallel()

	l, closer, err := Init("info", "text", "")
	require.NoError(t, err)
	l.Info("nowhere")
	assert.NoError(t, closer.Close())
}

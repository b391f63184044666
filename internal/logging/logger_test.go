package logging_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/Ohyesabhi28/Screenshot-Organizer/internal/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewWithWriter_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.NewWithWriter("info", "json", &buf)
	require.NoError(t, err)

	logger.Debug("hidden")
	logger.Info("upload stored", zap.Int64("screenshot_id", 3))
	require.NoError(t, logger.Sync())

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1, "debug is below the configured level")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "upload stored", entry["msg"])
	assert.Equal(t, float64(3), entry["screenshot_id"])
	assert.Contains(t, entry, "ts")
}

func TestNewWithWriter_Console(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.NewWithWriter("debug", "console", &buf)
	require.NoError(t, err)

	logger.Debug("ocr finished")
	assert.Contains(t, buf.String(), "ocr finished")
}

func TestNew_InvalidLevel(t *testing.T) {
	_, err := logging.New("chatty", "json")
	assert.Error(t, err)
}

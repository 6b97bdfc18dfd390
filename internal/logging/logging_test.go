package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tony-montemuro/webserver/internal/config"
)

func TestNew_json(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&buf, "info", config.FormatJSON)
	require.NoError(t, err)

	logger.Debug().Msg("hidden")
	logger.Info().Str("request_id", "abc").Int("status", 200).Msg("served")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	require.Equal(t, "info", entry["level"])
	require.Equal(t, "abc", entry["request_id"])
	require.Equal(t, float64(200), entry["status"])
	require.Equal(t, "served", entry["message"])
	require.Contains(t, entry, "time")
}

func TestNew_console(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&buf, "debug", config.FormatConsole)
	require.NoError(t, err)

	logger.Debug().Str("path", "/test").Msg("routed")

	out := buf.String()
	require.Contains(t, out, "routed")
	require.Contains(t, out, "path=/test")
}

func TestNew_emptyLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&buf, "", config.FormatJSON)
	require.NoError(t, err)

	logger.Debug().Msg("hidden")
	require.Zero(t, buf.Len())

	logger.Info().Msg("shown")
	require.NotZero(t, buf.Len())
}

func TestNew_invalidLevel(t *testing.T) {
	_, err := New(&bytes.Buffer{}, "loud", config.FormatJSON)
	require.Error(t, err)
}

package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJSONWithComponent(t *testing.T) {
	t.Setenv("APP_ENV", "")
	var buf bytes.Buffer
	l := Component(New("warn", "json", &buf), "optimize")
	l.Info().Msg("dropped")
	l.Warn().Str("request_id", "r1").Msg("kept")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "optimize", line["component"])
	assert.Equal(t, "r1", line["request_id"])
	assert.Equal(t, "warn", line["level"])
}

func TestNewConsoleAndBadLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New("nonsense", "console", &buf)
	l.Info().Msg("hello")
	assert.Contains(t, buf.String(), "hello")
	assert.False(t, json.Valid(buf.Bytes()))
}

package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestProductionLoggerWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter("production", &buf)
	l.Debug().Msg("hidden")
	l.Info().Str("collection", "donations").Msg("listed")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	require.Equal(t, "listed", line["message"])
	require.Equal(t, "trust-manager", line["service"])
	require.Equal(t, "donations", line["collection"])
	require.Contains(t, line, "time")
}

func TestDevelopmentLoggerIsVerbose(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter("development", &buf)
	l.Debug().Msg("cursor decoded")
	require.Contains(t, buf.String(), "cursor decoded")
	require.NotContains(t, buf.String(), `"message"`)
}

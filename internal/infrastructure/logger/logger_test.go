package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.InfoLevel, parseLevel(""))
	assert.Equal(t, zerolog.DebugLevel, parseLevel("DEBUG"))
	assert.Equal(t, zerolog.WarnLevel, parseLevel(" warn "))
	assert.Equal(t, zerolog.InfoLevel, parseLevel("loud"))
}

func TestInitWithWriterJSON(t *testing.T) {
	defer InitWithWriter(&bytes.Buffer{}, "info", "json")

	var buf bytes.Buffer
	InitWithWriter(&buf, "info", "json")

	log.Debug().Msg("hidden")
	log.Info().Str("url", "https://example.com").Msg("fetched")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	assert.Equal(t, "fetched", entry["message"])
	assert.Equal(t, "https://example.com", entry["url"])
	assert.Equal(t, "searxng-tools", entry["service"])
}

func TestInitWithWriterConsole(t *testing.T) {
	defer InitWithWriter(&bytes.Buffer{}, "info", "json")

	var buf bytes.Buffer
	InitWithWriter(&buf, "debug", "console")
	log.Debug().Msg("visible")

	assert.Contains(t, buf.String(), "visible")
	assert.False(t, json.Valid(bytes.TrimSpace(buf.Bytes())))
}

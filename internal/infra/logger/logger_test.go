package logger

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"DEBUG", zerolog.DebugLevel},
		{"", zerolog.InfoLevel},
		{"info", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"verbose", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestNew_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, zerolog.InfoLevel, false)

	l.Debug().Msg("hidden")
	l.Info().Str("track_id", "abc").Msg("track added")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "track added", entry[zerolog.MessageFieldName])
	assert.Equal(t, "abc", entry["track_id"])
	assert.NotContains(t, buf.String(), "hidden")
}

func TestNew_ConsoleOutput(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, zerolog.InfoLevel, true)

	l.Info().Msg("server started")

	assert.Contains(t, buf.String(), "server started")
}

func TestIsConsole(t *testing.T) {
	assert.True(t, isConsole(""))
	assert.True(t, isConsole("stdout"))
	assert.True(t, isConsole("STDERR"))
	assert.False(t, isConsole("file"))
	assert.False(t, isConsole("/var/log/tunedeck.log"))
}

func TestOpenWriter_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tunedeck.log")

	w, closer, err := openWriter(Config{Output: "file", File: path})
	require.NoError(t, err)
	defer closer.Close()

	_, err = w.Write([]byte("line\n"))
	assert.NoError(t, err)
	assert.FileExists(t, path)
}

func TestOpenWriter_BadPath(t *testing.T) {
	_, _, err := openWriter(Config{Output: "file", File: filepath.Join(t.TempDir(), "missing", "x.log")})
	assert.Error(t, err)
}

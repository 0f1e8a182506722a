package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    zerolog.Level
		wantErr bool
	}{
		{"", zerolog.InfoLevel, false},
		{"debug", zerolog.DebugLevel, false},
		{" WARN ", zerolog.WarnLevel, false},
		{"nope", zerolog.NoLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLevel(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestComponentJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Init(Config{Level: "debug", Format: "json", Output: &buf}))
	t.Cleanup(func() { _ = Init(Config{Level: "warn", Format: "json", Output: &bytes.Buffer{}}) })

	logger := Component("controller")
	logger.Debug().Str("stage", "pca").Msg("stage entered")

	out := buf.String()
	assert.Contains(t, out, `"component":"controller"`)
	assert.Contains(t, out, `"stage":"pca"`)
	assert.Contains(t, out, "stage entered")
}

func TestConsoleWriterWithoutTTYHasNoColor(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Init(Config{Level: "info", Output: &buf}))
	t.Cleanup(func() { _ = Init(Config{Level: "warn", Format: "json", Output: &bytes.Buffer{}}) })

	logger := Component("cli")
	logger.Info().Msg("hello")

	assert.Contains(t, buf.String(), "hello")
	assert.False(t, strings.Contains(buf.String(), "\x1b["), "expected no ANSI escapes")
}

func TestInitRejectsBadLevel(t *testing.T) {
	err := Init(Config{Level: "loud"})
	assert.Error(t, err)
}

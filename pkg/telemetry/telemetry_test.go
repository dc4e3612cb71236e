package telemetry

import (
	"bytes"
	"testing"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithWriter_ComponentLogger(t *testing.T) {
	t.Setenv("REACTOR_LOG_LEVEL", "debug")
	t.Setenv("REACTOR_LOG_FORMAT", "json")

	var buf bytes.Buffer
	tel, err := NewWithWriter(&buf, Options{ServiceName: "reactor"})
	require.NoError(t, err)

	logger := tel.GetLogger("world")
	logger.Debug().Int("indices", 3).Msg("reconciled")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "reactor.world", line["component"])
	assert.Equal(t, "debug", line["level"])
	assert.InDelta(t, 3, line["indices"], 0)
}

func TestNewWithWriter_LevelFilters(t *testing.T) {
	t.Setenv("REACTOR_LOG_LEVEL", "warn")
	t.Setenv("REACTOR_LOG_FORMAT", "json")

	var buf bytes.Buffer
	tel, err := NewWithWriter(&buf, Options{ServiceName: "reactor"})
	require.NoError(t, err)

	tel.Logger.Info().Msg("dropped")
	assert.Empty(t, buf.String())
}

func TestNewWithWriter_Pretty(t *testing.T) {
	t.Setenv("REACTOR_LOG_FORMAT", "json")

	var buf bytes.Buffer
	tel, err := NewWithWriter(&buf, Options{ServiceName: "reactor", LogLevel: "INFO", LogFormat: LogFormatPretty})
	require.NoError(t, err)

	tel.GetLogger("demo").Info().Msg("hello")
	assert.Contains(t, buf.String(), "hello")
	assert.NotContains(t, buf.String(), "{", "options override the environment format")
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		level  string
		format string
	}{
		{name: "bad level", level: "loud", format: "json"},
		{name: "bad format", level: "info", format: "xml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("REACTOR_LOG_LEVEL", tt.level)
			t.Setenv("REACTOR_LOG_FORMAT", tt.format)

			_, err := loadConfig()
			require.Error(t, err)
		})
	}
}

func TestOptions_Resolve(t *testing.T) {
	t.Parallel()

	base := Config{LogLevel: zerolog.InfoLevel, LogFormat: LogFormatJSON}

	_, err := Options{}.resolve(base)
	require.Error(t, err, "service name is required")

	_, err = Options{ServiceName: "svc", LogLevel: "loud"}.resolve(base)
	require.Error(t, err)

	cfg, err := Options{ServiceName: "svc"}.resolve(base)
	require.NoError(t, err)
	assert.Equal(t, base, cfg)

	cfg, err = Options{ServiceName: "svc", LogLevel: "Trace", LogFormat: LogFormatPretty}.resolve(base)
	require.NoError(t, err)
	assert.Equal(t, zerolog.TraceLevel, cfg.LogLevel)
	assert.Equal(t, LogFormatPretty, cfg.LogFormat)
}

func TestLogFormat(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "pretty", LogFormatPretty.String())
	assert.Equal(t, "undefined", LogFormat(42).String())
	assert.Equal(t, LogFormatJSON, ParseLogFormat("JSON"))
	assert.Equal(t, LogFormatUndefined, ParseLogFormat("yaml"))
	assert.Equal(t, LogFormatUndefined, ParseLogFormat("undefined"))

	var f LogFormat
	require.NoError(t, f.UnmarshalText([]byte("pretty")))
	assert.Equal(t, LogFormatPretty, f)
	require.Error(t, f.UnmarshalText([]byte("xml")))
}

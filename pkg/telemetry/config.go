package telemetry

import (
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
)

// Config is the logging configuration read from the environment.
type Config struct {
	LogLevel  zerolog.Level `env:"REACTOR_LOG_LEVEL" envDefault:"info"`
	LogFormat LogFormat     `env:"REACTOR_LOG_FORMAT" envDefault:"json"`
}

func loadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return cfg, eris.Wrap(err, "failed to parse telemetry config")
	}
	return cfg, nil
}

// Options are passed by the program and take precedence over Config.
type Options struct {
	// Name of the service. Required, prefixed to every component field.
	ServiceName string

	// Overrides REACTOR_LOG_LEVEL when set.
	LogLevel string

	// Overrides REACTOR_LOG_FORMAT when set.
	LogFormat LogFormat
}

// resolve overlays opt on cfg.
func (opt Options) resolve(cfg Config) (Config, error) {
	if opt.ServiceName == "" {
		return cfg, eris.New("service name cannot be empty")
	}
	if opt.LogLevel != "" {
		level, err := zerolog.ParseLevel(strings.ToLower(opt.LogLevel))
		if err != nil {
			return cfg, eris.Wrapf(err, "invalid log level %q", opt.LogLevel)
		}
		cfg.LogLevel = level
	}
	if opt.LogFormat != LogFormatUndefined {
		cfg.LogFormat = opt.LogFormat
	}
	return cfg, nil
}

// LogFormat represents the log output format.
type LogFormat uint8

const (
	LogFormatUndefined LogFormat = iota
	LogFormatJSON                // Structured JSON lines
	LogFormatPretty              // Human-readable console output
)

var logFormatNames = map[LogFormat]string{
	LogFormatUndefined: "undefined",
	LogFormatJSON:      "json",
	LogFormatPretty:    "pretty",
}

func (f LogFormat) String() string {
	if name, ok := logFormatNames[f]; ok {
		return name
	}
	return logFormatNames[LogFormatUndefined]
}

// ParseLogFormat converts a case-insensitive name into a LogFormat. Unknown names yield
// LogFormatUndefined.
func ParseLogFormat(s string) LogFormat {
	s = strings.ToLower(s)
	for f, name := range logFormatNames {
		if f != LogFormatUndefined && name == s {
			return f
		}
	}
	return LogFormatUndefined
}

// UnmarshalText lets LogFormat be parsed straight from the environment.
func (f *LogFormat) UnmarshalText(text []byte) error {
	parsed := ParseLogFormat(string(text))
	if parsed == LogFormatUndefined {
		return eris.Errorf("invalid log format %q, must be json or pretty", text)
	}
	*f = parsed
	return nil
}

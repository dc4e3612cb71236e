// Package telemetry builds the zerolog loggers shared by the reactor commands.
package telemetry

import (
	"io"
	"os"
	"time"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
)

type Telemetry struct {
	Logger      zerolog.Logger
	serviceName string
}

// New builds telemetry from environment config overridden by opts. Logs go to stdout.
func New(opts Options) (Telemetry, error) {
	return NewWithWriter(os.Stdout, opts)
}

// NewWithWriter is New with an explicit log destination.
func NewWithWriter(out io.Writer, opts Options) (Telemetry, error) {
	cfg, err := loadConfig()
	if err != nil {
		return Telemetry{}, err
	}
	if cfg, err = opts.resolve(cfg); err != nil {
		return Telemetry{}, eris.Wrap(err, "invalid telemetry options")
	}

	if cfg.LogFormat == LogFormatPretty {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}
	return Telemetry{
		Logger:      zerolog.New(out).Level(cfg.LogLevel).With().Timestamp().Logger(),
		serviceName: opts.ServiceName,
	}, nil
}

// GetLogger returns a component-specific logger.
func (t *Telemetry) GetLogger(component string) zerolog.Logger {
	return t.Logger.With().Str("component", t.serviceName+"."+component).Logger()
}

package engine

import (
	"io"
	"log"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/louisbranch/embedhost/internal/engine"

type options struct {
	stdout         io.Writer
	logger         *log.Logger
	tracerProvider trace.TracerProvider
}

func defaultOptions() options {
	return options{
		stdout:         os.Stdout,
		logger:         log.New(io.Discard, "", 0),
		tracerProvider: otel.GetTracerProvider(),
	}
}

// Option configures Initialize.
type Option func(*options)

// WithStdout sets where script calls to print and io.write go. Defaults to
// os.Stdout. Writes through the io.stdout file handle or io.output() still
// reach the process stdout.
func WithStdout(w io.Writer) Option {
	return func(o *options) {
		if w != nil {
			o.stdout = w
		}
	}
}

// WithLogger sets the logger for engine lifecycle diagnostics. Defaults to a
// discarding logger.
func WithLogger(logger *log.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithTracerProvider sets the provider for execution spans. Defaults to the
// global provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *options) {
		if tp != nil {
			o.tracerProvider = tp
		}
	}
}

package host

import (
	"context"
	"io"
	"log"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/louisbranch/embedhost/internal/engine"
	"github.com/louisbranch/embedhost/internal/script"
)

const tracerName = "github.com/louisbranch/embedhost/internal/host"

// Config controls a single host run.
type Config struct {
	// ScriptPath defaults to script.DefaultPath.
	ScriptPath string
	// Args are forwarded unmodified to engine initialization.
	Args []string
	// Engine defaults to LuaEngine bound to Stdout and Logger.
	Engine Engine
	// Stdout receives the failure diagnostic and whatever the script writes
	// with print or io.write. Writes through io.stdout bypass it.
	Stdout io.Writer
	// Logger receives lifecycle diagnostics. Defaults to discarding.
	Logger *log.Logger
}

// Run executes the full lifecycle once. Shutdown is deferred as soon as
// the engine is acquired so it runs on every path out of execution.
//
// A script failure is reported on Stdout and returned in the result, not as
// an error. Run returns an error only when the engine cannot be acquired or
// the lifecycle is violated.
func Run(ctx context.Context, cfg Config) (result engine.Result, err error) {
	out := cfg.Stdout
	if out == nil {
		out = os.Stdout
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	path := cfg.ScriptPath
	if path == "" {
		path = script.DefaultPath
	}
	eng := cfg.Engine
	if eng == nil {
		eng = LuaEngine{Options: []engine.Option{
			engine.WithStdout(out),
			engine.WithLogger(logger),
		}}
	}

	ctx, span := otel.Tracer(tracerName).Start(ctx, "host.run")
	defer span.End()

	h := New(eng, out, logger)
	if err := h.Initialize(cfg.Args); err != nil {
		span.RecordError(err)
		return engine.Result{Status: engine.Failure}, err
	}
	defer func() {
		if shutdownErr := h.Shutdown(); shutdownErr != nil && err == nil {
			err = shutdownErr
		}
	}()

	if err := h.Load(path); err != nil {
		return engine.Result{Status: engine.Failure}, err
	}
	result, err = h.Execute(ctx)
	if err != nil {
		return result, err
	}
	span.SetAttributes(attribute.String("script.status", result.Status.String()))
	if err := h.ReportFailure(); err != nil {
		return result, err
	}
	return result, nil
}

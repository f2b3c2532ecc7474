// Package host drives the embedded script lifecycle: initialize the engine,
// load the script, execute it, report failure, shut the engine down.
package host

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/louisbranch/embedhost/internal/engine"
	apperrors "github.com/louisbranch/embedhost/internal/platform/errors"
	"github.com/louisbranch/embedhost/internal/script"
)

// FailureDiagnostic is the single line printed to stdout when the engine
// could not run the script to completion.
const FailureDiagnostic = "Failed to execute Lua script."

// Engine acquires an embedded runtime.
type Engine interface {
	Initialize(args []string) (EngineContext, error)
}

// EngineContext is a live embedded runtime owned by a Host.
type EngineContext interface {
	Execute(ctx context.Context, h *script.Handle) engine.Result
	Shutdown() error
}

// LuaEngine adapts package engine to Engine.
type LuaEngine struct {
	Options []engine.Option
}

// Initialize implements Engine.
func (e LuaEngine) Initialize(args []string) (EngineContext, error) {
	c, err := engine.Initialize(args, e.Options...)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Host owns one engine context for one script run. Methods must be called
// in lifecycle order; anything else returns CodeHostInvalidTransition.
type Host struct {
	engine Engine
	out    io.Writer
	logger *log.Logger

	phase    Phase
	ctx      EngineContext
	handle   *script.Handle
	result   engine.Result
	reported bool
}

// New builds a Host in the Uninitialized phase. out receives the failure
// diagnostic; logger receives lifecycle diagnostics.
func New(eng Engine, out io.Writer, logger *log.Logger) *Host {
	if out == nil {
		out = io.Discard
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Host{engine: eng, out: out, logger: logger}
}

// Phase returns the current lifecycle phase.
func (h *Host) Phase() Phase {
	return h.phase
}

// Result returns the execution result once the host has executed.
func (h *Host) Result() engine.Result {
	return h.result
}

// Initialize acquires the engine, forwarding args unmodified.
func (h *Host) Initialize(args []string) error {
	if err := h.expect(PhaseInitialized, PhaseUninitialized); err != nil {
		return err
	}
	if h.engine == nil {
		return apperrors.New(apperrors.CodeEngineInit, "engine is required")
	}
	ctx, err := h.engine.Initialize(args)
	if err != nil {
		return fmt.Errorf("initialize engine: %w", err)
	}
	h.ctx = ctx
	h.phase = PhaseInitialized
	h.logger.Printf("host initialized")
	return nil
}

// Load binds the script path. It does not check that the file exists.
func (h *Host) Load(path string) error {
	if err := h.expect(PhaseLoaded, PhaseInitialized); err != nil {
		return err
	}
	h.handle = script.Load(path)
	h.phase = PhaseLoaded
	h.logger.Printf("host loaded %s", path)
	return nil
}

// Execute runs the loaded script and records the result.
func (h *Host) Execute(ctx context.Context) (engine.Result, error) {
	if err := h.expect(PhaseExecuted, PhaseLoaded); err != nil {
		return engine.Result{}, err
	}
	h.result = h.ctx.Execute(ctx, h.handle)
	h.phase = PhaseExecuted
	h.logger.Printf("host executed %s: %s", h.handle.Path(), h.result.Status)
	return h.result, nil
}

// ReportFailure prints FailureDiagnostic when the recorded result failed and
// nothing otherwise. It may be called once per run.
func (h *Host) ReportFailure() error {
	if err := h.expect(PhaseExecuted, PhaseExecuted); err != nil {
		return err
	}
	if h.reported {
		return transitionError(h.phase, h.phase, "failure already reported")
	}
	h.reported = true
	if !h.result.Failed() {
		return nil
	}
	if h.result.Err != nil {
		h.logger.Printf("script failed: %v", h.result.Err)
	}
	if _, err := fmt.Fprintln(h.out, FailureDiagnostic); err != nil {
		h.logger.Printf("write failure diagnostic: %v", err)
	}
	return nil
}

// Shutdown releases the engine context. It is valid from any phase after a
// successful Initialize and moves the host to the terminal ShutDown phase.
func (h *Host) Shutdown() error {
	if err := h.expect(PhaseShutDown, PhaseInitialized, PhaseLoaded, PhaseExecuted); err != nil {
		return err
	}
	h.phase = PhaseShutDown
	err := h.ctx.Shutdown()
	h.ctx = nil
	if err != nil {
		return fmt.Errorf("shutdown engine: %w", err)
	}
	h.logger.Printf("host shut down")
	return nil
}

func (h *Host) expect(to Phase, from ...Phase) error {
	for _, p := range from {
		if h.phase == p {
			return nil
		}
	}
	return transitionError(h.phase, to, "invalid lifecycle transition")
}

func transitionError(from, to Phase, message string) error {
	return apperrors.WithMetadata(apperrors.CodeHostInvalidTransition,
		fmt.Sprintf("%s: %s -> %s", message, from, to),
		map[string]string{"from": from.String(), "to": to.String()},
	)
}

package engine

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	apperrors "github.com/louisbranch/embedhost/internal/platform/errors"
	"github.com/louisbranch/embedhost/internal/script"
)

// Execute runs the script referenced by h to completion inside c and
// consumes h. It returns Failure when the script cannot be opened, fails to
// compile, or raises an error; Success otherwise. A call to os.exit ends
// the chunk early with Success for status 0 or true and Failure for anything
// else. The process keeps running either way.
//
// Execute blocks for as long as the script runs. ctx carries trace context
// only; the engine cannot be interrupted.
func (c *Context) Execute(ctx context.Context, h *script.Handle) Result {
	if c.Closed() {
		return failure(apperrors.New(apperrors.CodeEngineContextClosed, "execute on closed engine context"))
	}

	_, span := c.tracer.Start(ctx, "engine.execute",
		trace.WithAttributes(attribute.String("script.path", h.Path())),
	)
	defer span.End()

	result := c.run(h)
	span.SetAttributes(attribute.String("script.status", result.Status.String()))
	if result.Err != nil {
		span.RecordError(result.Err)
		span.SetStatus(codes.Error, "script execution failed")
		c.logger.Printf("engine: %s: %v", h.Path(), result.Err)
	}
	return result
}

func (c *Context) run(h *script.Handle) Result {
	r, err := h.Open()
	if err != nil {
		return failure(err)
	}
	defer r.Close()

	meta := map[string]string{"path": h.Path()}
	src, err := skipPreamble(bufio.NewReader(r))
	if err != nil {
		return failure(apperrors.WrapWithMetadata(apperrors.CodeScriptExecution, "read script", meta, err))
	}
	if err := c.state.Load(src, h.ChunkName(), ""); err != nil {
		return failure(apperrors.WrapWithMetadata(apperrors.CodeScriptExecution, "load script", meta, c.popError(err)))
	}
	err = c.state.ProtectedCall(0, 0, 0)
	if exited, ok := c.exit.take(h.Path()); ok {
		c.state.SetTop(0)
		return exited
	}
	if err != nil {
		return failure(apperrors.WrapWithMetadata(apperrors.CodeScriptExecution, "run script", meta, c.popError(err)))
	}
	c.state.SetTop(0)
	return Result{Status: Success}
}

// skipPreamble drops a UTF-8 byte order mark and a first line starting with
// '#', the same way lua.LoadFile does. A skipped line is replaced by a bare
// newline so error positions keep their line numbers.
func skipPreamble(r *bufio.Reader) (io.Reader, error) {
	const bom = "\xEF\xBB\xBF"
	if b, err := r.Peek(len(bom)); err != nil && err != io.EOF {
		return nil, err
	} else if string(b) == bom {
		if _, err := r.Discard(len(bom)); err != nil {
			return nil, err
		}
	}
	b, err := r.Peek(1)
	if err == io.EOF {
		return r, nil
	}
	if err != nil {
		return nil, err
	}
	if b[0] != '#' {
		return r, nil
	}
	if _, err := r.ReadBytes('\n'); err != nil && err != io.EOF {
		return nil, err
	}
	return io.MultiReader(strings.NewReader("\n"), r), nil
}

// popError prefers the message the engine left on the stack over the
// sentinel error it returned, then clears the stack.
func (c *Context) popError(err error) error {
	defer c.state.SetTop(0)
	if c.state.Top() == 0 {
		return err
	}
	if msg, ok := c.state.ToString(-1); ok && msg != "" {
		return errors.New(msg)
	}
	return err
}

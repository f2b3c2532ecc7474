package engine

import (
	"fmt"
	"log"
	"sync"

	"github.com/Shopify/go-lua"
	"go.opentelemetry.io/otel/trace"

	apperrors "github.com/louisbranch/embedhost/internal/platform/errors"
)

var (
	liveMu sync.Mutex
	live   bool
)

// Live reports whether a Context currently exists in this process.
func Live() bool {
	liveMu.Lock()
	defer liveMu.Unlock()
	return live
}

func acquire() error {
	liveMu.Lock()
	defer liveMu.Unlock()
	if live {
		return apperrors.New(apperrors.CodeEngineContextLive, "engine context already live")
	}
	live = true
	return nil
}

func release() {
	liveMu.Lock()
	live = false
	liveMu.Unlock()
}

// Context is the live engine runtime: one Lua state with the standard
// libraries opened, print and io.write bound to the configured stdout, and
// the process arguments published as the global arg table.
type Context struct {
	state  *lua.State
	exit   *exitRequest
	logger *log.Logger
	tracer trace.Tracer
}

// Initialize acquires the engine runtime and forwards args to it unmodified.
// args[0] is exposed to scripts as arg[0] and the rest as arg[1..n].
//
// Failure to initialize is not recoverable; callers should stop the process.
func Initialize(args []string, opts ...Option) (*Context, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	if err := acquire(); err != nil {
		return nil, err
	}

	exit := &exitRequest{}
	state, err := newState(args, exit, o)
	if err != nil {
		release()
		return nil, apperrors.Wrap(apperrors.CodeEngineInit, "initialize engine", err)
	}

	o.logger.Printf("engine initialized (%d args)", len(args))
	return &Context{
		state:  state,
		exit:   exit,
		logger: o.logger,
		tracer: o.tracerProvider.Tracer(tracerName),
	}, nil
}

func newState(args []string, exit *exitRequest, o options) (state *lua.State, err error) {
	// go-lua raises errors outside a protected call as panics.
	defer func() {
		if r := recover(); r != nil {
			state = nil
			err = fmt.Errorf("engine panic: %v", r)
		}
	}()

	state = lua.NewState()
	lua.OpenLibraries(state)
	bindStdout(state, o.stdout)
	bindExit(state, exit)
	publishArgs(state, args)
	return state, nil
}

// Shutdown releases the Lua state and frees the process-wide slot. It must
// be called exactly once per successful Initialize.
func (c *Context) Shutdown() error {
	if c == nil || c.state == nil {
		return apperrors.New(apperrors.CodeEngineContextClosed, "engine context already shut down")
	}
	c.state = nil
	release()
	c.logger.Printf("engine shut down")
	return nil
}

// Closed reports whether Shutdown has been called.
func (c *Context) Closed() bool {
	return c == nil || c.state == nil
}

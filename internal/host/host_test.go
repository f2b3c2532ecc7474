package host

import (
	"bytes"
	"context"
	"errors"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/louisbranch/embedhost/internal/engine"
	apperrors "github.com/louisbranch/embedhost/internal/platform/errors"
	"github.com/louisbranch/embedhost/internal/script"
)

// countingEngine records acquire/release pairs and returns a fixed result.
type countingEngine struct {
	result   engine.Result
	initErr  error
	args     []string
	inits    int
	shutdown int
	executed []string
}

func (e *countingEngine) Initialize(args []string) (EngineContext, error) {
	e.inits++
	e.args = args
	if e.initErr != nil {
		return nil, e.initErr
	}
	return &countingContext{engine: e}, nil
}

type countingContext struct {
	engine *countingEngine
}

func (c *countingContext) Execute(_ context.Context, h *script.Handle) engine.Result {
	c.engine.executed = append(c.engine.executed, h.Path())
	return c.engine.result
}

func (c *countingContext) Shutdown() error {
	c.engine.shutdown++
	return nil
}

func writeScript(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), script.DefaultPath)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write script: %v", err)
	}
	return path
}

func TestRunScenarios(t *testing.T) {
	tests := []struct {
		name   string
		path   func(t *testing.T) string
		status engine.Status
		stdout string
	}{
		{
			name:   "hello prints only script output",
			path:   func(t *testing.T) string { return writeScript(t, `print("hello")`) },
			status: engine.Success,
			stdout: "hello\n",
		},
		{
			name:   "undefined operation prints diagnostic",
			path:   func(t *testing.T) string { return writeScript(t, `undefined_operation()`) },
			status: engine.Failure,
			stdout: FailureDiagnostic + "\n",
		},
		{
			name:   "missing script takes the same diagnostic path",
			path:   func(t *testing.T) string { return filepath.Join(t.TempDir(), "missing.lua") },
			status: engine.Failure,
			stdout: FailureDiagnostic + "\n",
		},
		{
			name:   "os.exit zero is a success",
			path:   func(t *testing.T) string { return writeScript(t, `print("hello") os.exit(0) print("late")`) },
			status: engine.Success,
			stdout: "hello\n",
		},
		{
			name:   "os.exit non-zero prints diagnostic",
			path:   func(t *testing.T) string { return writeScript(t, `os.exit(3)`) },
			status: engine.Failure,
			stdout: FailureDiagnostic + "\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			res, err := Run(context.Background(), Config{
				ScriptPath: tt.path(t),
				Args:       []string{"embedhost"},
				Stdout:     &out,
			})
			if err != nil {
				t.Fatalf("run: %v", err)
			}
			if res.Status != tt.status {
				t.Fatalf("expected %s, got %s (%v)", tt.status, res.Status, res.Err)
			}
			if out.String() != tt.stdout {
				t.Fatalf("expected stdout %q, got %q", tt.stdout, out.String())
			}
			if engine.Live() {
				t.Fatal("expected engine context to be released")
			}
		})
	}
}

func TestRunShutsDownExactlyOnce(t *testing.T) {
	for _, status := range []engine.Status{engine.Success, engine.Failure} {
		t.Run(status.String(), func(t *testing.T) {
			eng := &countingEngine{result: engine.Result{Status: status}}
			var out bytes.Buffer

			res, err := Run(context.Background(), Config{Engine: eng, Stdout: &out})
			if err != nil {
				t.Fatalf("run: %v", err)
			}
			if res.Status != status {
				t.Fatalf("expected %s, got %s", status, res.Status)
			}
			if eng.inits != 1 || eng.shutdown != 1 {
				t.Fatalf("expected 1 init and 1 shutdown, got %d and %d", eng.inits, eng.shutdown)
			}
			wantOut := ""
			if status == engine.Failure {
				wantOut = FailureDiagnostic + "\n"
			}
			if out.String() != wantOut {
				t.Fatalf("expected stdout %q, got %q", wantOut, out.String())
			}
		})
	}
}

func TestRunUsesDefaultScriptPath(t *testing.T) {
	eng := &countingEngine{result: engine.Result{Status: engine.Success}}
	if _, err := Run(context.Background(), Config{Engine: eng, Stdout: &bytes.Buffer{}}); err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(eng.executed) != 1 || eng.executed[0] != "embed.lua" {
		t.Fatalf("expected default script embed.lua, got %v", eng.executed)
	}
}

func TestRunForwardsArgsUnmodified(t *testing.T) {
	eng := &countingEngine{result: engine.Result{Status: engine.Success}}
	args := []string{"embedhost", "-d", "memory_limit=1G", "--", "x"}
	if _, err := Run(context.Background(), Config{Engine: eng, Args: args, Stdout: &bytes.Buffer{}}); err != nil {
		t.Fatalf("run: %v", err)
	}
	if strings.Join(eng.args, " ") != strings.Join(args, " ") {
		t.Fatalf("expected args %v, got %v", args, eng.args)
	}
}

func TestRunInitializeFailureIsFatalAndSkipsShutdown(t *testing.T) {
	initErr := apperrors.New(apperrors.CodeEngineInit, "no memory")
	eng := &countingEngine{initErr: initErr}
	var out bytes.Buffer

	_, err := Run(context.Background(), Config{Engine: eng, Stdout: &out})
	if !errors.Is(err, initErr) {
		t.Fatalf("expected init error, got %v", err)
	}
	if !apperrors.GetCode(err).Fatal() {
		t.Fatalf("expected fatal code, got %s", apperrors.GetCode(err))
	}
	if eng.shutdown != 0 {
		t.Fatalf("expected no shutdown without a context, got %d", eng.shutdown)
	}
	if len(eng.executed) != 0 {
		t.Fatal("expected no execution after failed initialize")
	}
	if out.Len() != 0 {
		t.Fatalf("expected no stdout, got %q", out.String())
	}
}

func TestRunLogsEngineErrorOnlyToLogger(t *testing.T) {
	var out, logs bytes.Buffer
	res, err := Run(context.Background(), Config{
		ScriptPath: writeScript(t, `error("boom")`),
		Stdout:     &out,
		Logger:     log.New(&logs, "", 0),
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.Status != engine.Failure {
		t.Fatalf("expected failure, got %s", res.Status)
	}
	if out.String() != FailureDiagnostic+"\n" {
		t.Fatalf("expected only the diagnostic on stdout, got %q", out.String())
	}
	if !strings.Contains(logs.String(), "boom") {
		t.Fatalf("expected engine error in logs, got %q", logs.String())
	}
}

func TestHostPhases(t *testing.T) {
	eng := &countingEngine{result: engine.Result{Status: engine.Success}}
	h := New(eng, &bytes.Buffer{}, nil)

	steps := []struct {
		run  func() error
		want Phase
	}{
		{func() error { return h.Initialize(nil) }, PhaseInitialized},
		{func() error { return h.Load("embed.lua") }, PhaseLoaded},
		{func() error { _, err := h.Execute(context.Background()); return err }, PhaseExecuted},
		{h.ReportFailure, PhaseExecuted},
		{h.Shutdown, PhaseShutDown},
	}
	if h.Phase() != PhaseUninitialized {
		t.Fatalf("expected uninitialized, got %s", h.Phase())
	}
	for i, step := range steps {
		if err := step.run(); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		if h.Phase() != step.want {
			t.Fatalf("step %d: expected %s, got %s", i, step.want, h.Phase())
		}
	}
	if h.Result().Status != engine.Success {
		t.Fatalf("expected recorded success, got %s", h.Result().Status)
	}
}

func TestHostRejectsOutOfOrderTransitions(t *testing.T) {
	eng := &countingEngine{result: engine.Result{Status: engine.Failure}}
	h := New(eng, &bytes.Buffer{}, nil)

	assertTransition := func(name string, err error) {
		t.Helper()
		if !apperrors.IsCode(err, apperrors.CodeHostInvalidTransition) {
			t.Fatalf("%s: expected invalid transition, got %v", name, err)
		}
	}

	assertTransition("load before init", h.Load("embed.lua"))
	_, err := h.Execute(context.Background())
	assertTransition("execute before init", err)
	assertTransition("shutdown before init", h.Shutdown())

	if err := h.Initialize(nil); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	assertTransition("initialize twice", h.Initialize(nil))
	_, err = h.Execute(context.Background())
	assertTransition("execute before load", err)
	assertTransition("report before execute", h.ReportFailure())

	if err := h.Load("embed.lua"); err != nil {
		t.Fatalf("load: %v", err)
	}
	if _, err := h.Execute(context.Background()); err != nil {
		t.Fatalf("execute: %v", err)
	}
	_, err = h.Execute(context.Background())
	assertTransition("execute twice", err)
	if err := h.ReportFailure(); err != nil {
		t.Fatalf("report: %v", err)
	}
	assertTransition("report twice", h.ReportFailure())

	if err := h.Shutdown(); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
	assertTransition("shutdown twice", h.Shutdown())
	assertTransition("initialize after shutdown", h.Initialize(nil))
	if eng.shutdown != 1 {
		t.Fatalf("expected exactly one shutdown, got %d", eng.shutdown)
	}
}

func TestShutdownFromLoadedPhase(t *testing.T) {
	eng := &countingEngine{}
	h := New(eng, nil, nil)
	if err := h.Initialize(nil); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	if err := h.Load("embed.lua"); err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := h.Shutdown(); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
	if eng.shutdown != 1 || len(eng.executed) != 0 {
		t.Fatalf("expected shutdown without execution, got %d shutdowns and %v", eng.shutdown, eng.executed)
	}
}

func TestInitializeRequiresEngine(t *testing.T) {
	h := New(nil, nil, nil)
	if err := h.Initialize(nil); !apperrors.IsCode(err, apperrors.CodeEngineInit) {
		t.Fatalf("expected engine init error, got %v", err)
	}
	if h.Phase() != PhaseUninitialized {
		t.Fatalf("expected to stay uninitialized, got %s", h.Phase())
	}
}

func TestLuaEngineRejectsSecondContext(t *testing.T) {
	first, err := LuaEngine{}.Initialize(nil)
	if err != nil {
		t.Fatalf("initialize: %v", err)
	}
	defer first.Shutdown()

	second, err := LuaEngine{}.Initialize(nil)
	if !apperrors.IsCode(err, apperrors.CodeEngineContextLive) {
		t.Fatalf("expected live context error, got %v", err)
	}
	if second != nil {
		t.Fatal("expected nil context on error")
	}
}

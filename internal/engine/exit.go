package engine

import (
	"strconv"

	"github.com/Shopify/go-lua"

	apperrors "github.com/louisbranch/embedhost/internal/platform/errors"
)

// exitRequest records a script's call to os.exit. The stock os.exit ends the
// process directly, which would skip Shutdown and the host's exit status.
type exitRequest struct {
	requested bool
	status    int
}

// bindExit replaces os.exit with a function that records the requested
// status and unwinds the running chunk with an error.
func bindExit(l *lua.State, req *exitRequest) {
	l.Global("os")
	l.PushGoFunction(func(l *lua.State) int {
		status := 0
		if l.IsBoolean(1) {
			if !l.ToBoolean(1) {
				status = 1
			}
		} else {
			status = lua.OptInteger(l, 1, status)
		}
		req.requested = true
		req.status = status
		lua.Errorf(l, "os.exit(%d)", status)
		return 0
	})
	l.SetField(-2, "exit")
	l.Pop(1)
}

// take returns the recorded request as a Result and clears it. A script
// that catches the exit error with pcall still ends with the status it
// asked for.
func (r *exitRequest) take(path string) (Result, bool) {
	if !r.requested {
		return Result{}, false
	}
	status := r.status
	*r = exitRequest{}
	if status == 0 {
		return Result{Status: Success}, true
	}
	return failure(apperrors.WithMetadata(apperrors.CodeScriptExecution, "script exited with non-zero status",
		map[string]string{"path": path, "status": strconv.Itoa(status)})), true
}

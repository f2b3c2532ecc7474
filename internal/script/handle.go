// Package script defines the reference to the single script source a host
// executes.
package script

import (
	"fmt"
	"io"
	"os"
	"sync"

	apperrors "github.com/louisbranch/embedhost/internal/platform/errors"
)

// DefaultPath is the script the host runs when no override is configured.
// It is resolved relative to the working directory.
const DefaultPath = "embed.lua"

// Handle binds a script path to a stream that is opened on first use.
//
// A Handle is consumed by the first Open call; later calls fail with
// CodeScriptHandleConsumed.
type Handle struct {
	path string
	open func(string) (io.ReadCloser, error)

	mu       sync.Mutex
	consumed bool
}

// Load binds path to a Handle. It does not check that the file exists or is
// readable; such failures surface when the handle is opened for execution.
func Load(path string) *Handle {
	return &Handle{path: path, open: openFile}
}

// Path returns the bound script path.
func (h *Handle) Path() string {
	if h == nil {
		return ""
	}
	return h.path
}

// ChunkName returns the engine chunk name for the script, following the Lua
// convention of prefixing file sources with '@'.
func (h *Handle) ChunkName() string {
	return "@" + h.Path()
}

// Consumed reports whether the handle has been opened.
func (h *Handle) Consumed() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.consumed
}

// Open consumes the handle and returns its stream. The caller closes it.
func (h *Handle) Open() (io.ReadCloser, error) {
	if h == nil {
		return nil, apperrors.New(apperrors.CodeScriptExecution, "script handle is required")
	}
	h.mu.Lock()
	if h.consumed {
		h.mu.Unlock()
		return nil, apperrors.WithMetadata(apperrors.CodeScriptHandleConsumed, "script handle already consumed", map[string]string{"path": h.path})
	}
	h.consumed = true
	h.mu.Unlock()

	r, err := h.open(h.path)
	if err != nil {
		return nil, apperrors.WrapWithMetadata(apperrors.CodeScriptExecution, "open script", map[string]string{"path": h.path}, err)
	}
	return r, nil
}

func openFile(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return f, nil
}

// Package embedsmoke checks a built embed host binary by running it against
// the bundled sample script and comparing its output.
package embedsmoke

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/louisbranch/embedhost/internal/platform/errors"
	"github.com/louisbranch/embedhost/internal/platform/timeouts"
	"github.com/louisbranch/embedhost/internal/script"
)

//go:embed sample/embed.lua
var sampleScript []byte

// ExpectedOutput is what the sample script prints.
const ExpectedOutput = "hello"

// Config controls a smoke run.
type Config struct {
	// Binary is the embed host executable under test.
	Binary string
	// Dir is the work dir the sample script is written to. A temporary
	// directory is used and removed when empty.
	Dir string
	// Timeout bounds the host run. Defaults to timeouts.SmokeRun.
	Timeout time.Duration
	// Env is appended to the current environment for the host process.
	Env    []string
	Logger *log.Logger
}

// Run writes the sample script into the work dir, runs the binary there, and
// returns a CodeSmokeValidation error unless it exits 0 with stdout "hello".
func Run(ctx context.Context, cfg Config) error {
	if strings.TrimSpace(cfg.Binary) == "" {
		return errors.New("host binary is required")
	}
	binary, err := filepath.Abs(cfg.Binary)
	if err != nil {
		return fmt.Errorf("resolve binary: %w", err)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(os.Stderr, "", 0)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = timeouts.SmokeRun
	}

	dir := cfg.Dir
	if dir == "" {
		dir, err = os.MkdirTemp("", "embed-test-")
		if err != nil {
			return fmt.Errorf("create work dir: %w", err)
		}
		defer os.RemoveAll(dir)
	} else if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create work dir: %w", err)
	}

	if err := os.WriteFile(filepath.Join(dir, script.DefaultPath), sampleScript, 0o644); err != nil {
		return fmt.Errorf("write sample script: %w", err)
	}

	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	logger.Printf("running embed smoke test: %s in %s", binary, dir)
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(runCtx, binary)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), cfg.Env...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	ret := 0
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return fmt.Errorf("run host binary: %w", err)
		}
		ret = exitErr.ExitCode()
	}

	out := strings.TrimSpace(stdout.String())
	if ret != 0 || out != ExpectedOutput {
		return apperrors.WithMetadata(apperrors.CodeSmokeValidation,
			"embed failed to run. Error message: "+out,
			map[string]string{
				"binary": binary,
				"ret":    strconv.Itoa(ret),
				"stdout": out,
				"stderr": strings.TrimSpace(stderr.String()),
			},
		)
	}
	logger.Printf("embed smoke test passed")
	return nil
}

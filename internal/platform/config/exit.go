package config

import (
	"fmt"
	"io"
	"os"
)

// Exit statuses for the embed host commands. A host run whose script failed
// still exits with ExitSuccess.
const (
	ExitSuccess = 0
	ExitFatal   = 1
)

var (
	exit             = os.Exit
	stderr io.Writer = os.Stderr
)

// Exitf writes a formatted error message to stderr and exits with ExitFatal.
// Only conditions that keep the host from running reach it.
func Exitf(format string, args ...any) {
	fmt.Fprintf(stderr, format+"\n", args...)
	exit(ExitFatal)
}

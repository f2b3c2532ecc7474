// Package errors provides coded domain errors for the embed host.
package errors

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Engine errors
	CodeEngineInit          Code = "ENGINE_INIT_FAILED"
	CodeEngineContextLive   Code = "ENGINE_CONTEXT_LIVE"
	CodeEngineContextClosed Code = "ENGINE_CONTEXT_CLOSED"

	// Script errors
	CodeScriptHandleConsumed Code = "SCRIPT_HANDLE_CONSUMED"
	CodeScriptExecution      Code = "SCRIPT_EXECUTION_FAILED"

	// Host lifecycle errors
	CodeHostInvalidTransition Code = "HOST_INVALID_TRANSITION"

	// Smoke test errors
	CodeSmokeValidation Code = "SMOKE_VALIDATION_FAILED"
)

// Fatal reports whether errors with this code stop the process.
// Script execution failures are reported and swallowed by the host; engine
// acquisition and lifecycle misuse are not recoverable.
func (c Code) Fatal() bool {
	switch c {
	case CodeScriptExecution,
		CodeScriptHandleConsumed:
		return false
	default:
		return true
	}
}

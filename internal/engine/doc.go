// Package engine hosts the embedded Lua runtime.
//
// A Context owns one Lua state for the lifetime of a host run. At most one
// Context is live per process; Initialize refuses to create a second one
// until the first is shut down. Scripts are executed inside a protected call
// so that syntax errors, runtime errors, and unreadable sources all come back
// as a Failure result instead of unwinding the host.
package engine

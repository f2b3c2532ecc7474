// Package timeouts defines shared timeout constants used across commands.
// Centralizing these values prevents drift between the host and its tooling
// and makes the durations discoverable.
package timeouts

import "time"

// TelemetryShutdown limits how long a command waits for pending spans to
// flush before exiting.
const TelemetryShutdown = 5 * time.Second

// SmokeRun caps a single embed host run during a smoke test.
const SmokeRun = 30 * time.Second

package model

import "time"

// Shared defaults used by both the server and TUI binaries.
const (
	// ExpiryWindow is how long an overlay stays visible after its most recent add.
	ExpiryWindow = 30 * 24 * time.Hour

	DefaultBasePath       = "/tracking-progress/v1"
	DefaultAPIPort        = 8000
	DefaultQueryTimeout   = 10 * time.Second
	DefaultRequestTimeout = 10 * time.Second
)

// WindowStart returns the oldest marked-at time still inside the expiry window.
func WindowStart(now time.Time) time.Time {
	return now.Add(-ExpiryWindow)
}

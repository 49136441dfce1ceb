// Package metadata captures foreground-application context for a file event.
// Capture is best-effort: on non-macOS platforms, on permission denial, or
// when the automation call fails, the result is simply nil. Absence is a
// first-class case for every consumer, never an error.
package metadata

import (
	"context"
	"time"
)

// Screenshot describes the foreground application and (for browsers) the
// active page at the moment a file appeared.
type Screenshot struct {
	AppName     string    `json:"appName"`
	WindowTitle string    `json:"windowTitle"`
	Timestamp   time.Time `json:"timestamp"`
	Domain      string    `json:"domain,omitempty"`
	URL         string    `json:"url,omitempty"`
}

// Capturer produces Screenshot metadata, or nil when unavailable.
type Capturer interface {
	Capture(ctx context.Context) *Screenshot
}

// None is a Capturer that never produces metadata.
type None struct{}

func (None) Capture(context.Context) *Screenshot { return nil }

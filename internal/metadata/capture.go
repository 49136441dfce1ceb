package metadata

import (
	"context"
	"net/url"
	"os/exec"
	"runtime"
	"strings"
	"time"
)

// OSACapturer shells out to osascript to read the frontmost application and,
// for known browsers, the active tab URL. Anything other than a clean run
// yields nil.
type OSACapturer struct{}

var browserTabScripts = map[string]string{
	"Safari":         `tell application "Safari" to get URL of current tab of front window`,
	"Google Chrome":  `tell application "Google Chrome" to get URL of active tab of front window`,
	"Arc":            `tell application "Arc" to get URL of active tab of front window`,
	"Microsoft Edge": `tell application "Microsoft Edge" to get URL of active tab of front window`,
}

func (OSACapturer) Capture(ctx context.Context) *Screenshot {
	if runtime.GOOS != "darwin" {
		return nil
	}

	app := osascript(ctx, `tell application "System Events" to get name of first application process whose frontmost is true`)
	if app == "" {
		return nil
	}
	meta := &Screenshot{
		AppName:   app,
		Timestamp: time.Now(),
	}
	meta.WindowTitle = osascript(ctx,
		`tell application "System Events" to get name of front window of first application process whose frontmost is true`)

	if script, ok := browserTabScripts[app]; ok {
		if raw := osascript(ctx, script); raw != "" {
			meta.URL = raw
			if u, err := url.Parse(raw); err == nil {
				meta.Domain = strings.TrimPrefix(u.Hostname(), "www.")
			}
		}
	}
	return meta
}

func osascript(ctx context.Context, script string) string {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	out, err := exec.CommandContext(ctx, "osascript", "-e", script).Output()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(out))
}

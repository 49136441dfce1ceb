// Package template substitutes {name} placeholders in destination and rename
// templates: configured path values, sanitized screenshot metadata, a
// keyword-derived PDF category, and wall-clock date/time components.
package template

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/Roelanb/organize/internal/metadata"
)

const (
	defaultApp    = "Unknown"
	defaultDomain = "General"
)

// Expander expands placeholder templates. Now overrides the clock for
// pattern date/time placeholders; nil means time.Now.
type Expander struct {
	Now func() time.Time
}

func (e Expander) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

// Destination expands a destination template: path placeholders, then
// metadata, then {category} derived from the source file name. Stages apply
// in order and the output of one stage is not re-scanned by earlier stages.
func (e Expander) Destination(tmpl string, paths map[string]string, meta *metadata.Screenshot, sourceName string) string {
	out := expandPaths(tmpl, paths)
	out = expandMetadata(out, meta)
	out = strings.ReplaceAll(out, "{category}", Category(sourceName))
	return out
}

// Pattern expands a rename pattern template: path placeholders, metadata,
// then date/time components plus {filename} (source stem) and {ext}
// (source extension without the dot). Date/time values reflect the moment
// of the call, so each action invocation gets a fresh clock reading.
func (e Expander) Pattern(tmpl string, paths map[string]string, meta *metadata.Screenshot, sourceName string) string {
	out := expandPaths(tmpl, paths)
	out = expandMetadata(out, meta)

	now := e.now()
	ext := strings.TrimPrefix(filepath.Ext(sourceName), ".")
	stem := strings.TrimSuffix(sourceName, filepath.Ext(sourceName))

	r := strings.NewReplacer(
		"{YYYY}", fmt.Sprintf("%04d", now.Year()),
		"{MM}", fmt.Sprintf("%02d", int(now.Month())),
		"{Month}", now.Month().String(),
		"{DD}", fmt.Sprintf("%02d", now.Day()),
		"{HH}", fmt.Sprintf("%02d", now.Hour()),
		"{mm}", fmt.Sprintf("%02d", now.Minute()),
		"{ss}", fmt.Sprintf("%02d", now.Second()),
		"{filename}", stem,
		"{ext}", ext,
	)
	return r.Replace(out)
}

// expandPaths replaces every configured {key} with its path value. All keys
// are substituted, not just path-flavored ones.
func expandPaths(tmpl string, paths map[string]string) string {
	out := tmpl
	for key, value := range paths {
		out = strings.ReplaceAll(out, "{"+key+"}", value)
	}
	return out
}

func expandMetadata(tmpl string, meta *metadata.Screenshot) string {
	app, domain := defaultApp, defaultDomain
	if meta != nil {
		if s := Sanitize(meta.AppName); s != "" {
			app = s
		}
		if s := Sanitize(meta.Domain); s != "" {
			domain = s
		}
	}
	out := strings.ReplaceAll(tmpl, "{app}", app)
	return strings.ReplaceAll(out, "{domain}", domain)
}

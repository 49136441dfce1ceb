package actions

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Roelanb/organize/internal/metadata"
	"github.com/Roelanb/organize/internal/rules"
	"github.com/Roelanb/organize/internal/template"
)

// Resolver turns an action's raw configuration into a concrete, collision-free
// filesystem path. Templates are re-expanded on every call so date/time
// placeholders and configured path values reflect the moment the action runs.
type Resolver struct {
	Expander template.Expander
}

// Resolve expands the action's destination, applies the rename pattern,
// creates the destination directory tree unless createDirs is explicitly
// false, and resolves name collisions. In dry-run mode no directories are
// created and the collision probe is skipped, since nothing will be written.
// The only error is a directory-creation failure for a reason other than
// pre-existence.
func (r Resolver) Resolve(a rules.Action, sourcePath string, paths map[string]string, meta *metadata.Screenshot, dryRun bool) (string, error) {
	sourceName := filepath.Base(sourcePath)
	dest := r.Expander.Destination(a.Destination, paths, meta, sourceName)

	// An extension-less destination with no pattern is a directory; the
	// source keeps its name inside it.
	if filepath.Ext(dest) == "" && a.Pattern == "" {
		dest = filepath.Join(dest, sourceName)
	}

	if a.Pattern != "" {
		dir := dest
		if namesFile(dest) {
			dir = filepath.Dir(dest)
		}
		name := r.Expander.Pattern(a.Pattern, paths, meta, sourceName)
		if ext := filepath.Ext(sourceName); ext != "" &&
			!strings.HasSuffix(strings.ToLower(name), strings.ToLower(ext)) {
			name += ext
		}
		dest = filepath.Join(dir, name)
	}

	if a.ShouldCreateDirs() && !dryRun {
		if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
			return "", fmt.Errorf("resolve: mkdir dest: %w", err)
		}
	}

	if dryRun {
		return dest, nil
	}
	return ResolveCollision(dest), nil
}

// namesFile reports whether an expanded destination denotes an exact file:
// a single extension-bearing path segment. Multi-segment destinations are
// directories even when the last segment carries dots — "{app}/{domain}"
// with a domain of site.example.com is a folder, not a file.
func namesFile(dest string) bool {
	cleaned := filepath.Clean(dest)
	if strings.ContainsRune(cleaned, filepath.Separator) {
		return false
	}
	return filepath.Ext(cleaned) != ""
}

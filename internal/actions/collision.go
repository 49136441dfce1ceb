package actions

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ResolveCollision returns path unchanged when nothing occupies it, otherwise
// the first unoccupied variant with "-1", "-2", … inserted before the
// extension. The probe hits the filesystem on every call because a prior run
// may already have placed a file at the candidate path; it is deterministic
// but not safe against a second process racing on the same destination.
func ResolveCollision(path string) string {
	if !occupied(path) {
		return path
	}
	dir := filepath.Dir(path)
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	for i := 1; ; i++ {
		candidate := filepath.Join(dir, fmt.Sprintf("%s-%d%s", stem, i, ext))
		if !occupied(candidate) {
			return candidate
		}
	}
}

// occupied treats any stat error as "free": a genuinely unreachable path
// will surface its real error from the rename/copy that follows.
func occupied(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

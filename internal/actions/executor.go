package actions

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/Roelanb/organize/internal/metadata"
	"github.com/Roelanb/organize/internal/rules"
)

// ActionResult is the outcome of one executed action, in chain order.
type ActionResult struct {
	Action  rules.ActionType `json:"action"`
	Success bool             `json:"success"`
	Path    string           `json:"path,omitempty"`
	Error   string           `json:"error,omitempty"`
}

// PathSource supplies configured path placeholder values. It is invoked per
// action execution rather than once per chain, so configuration edits made
// mid-run take effect on the next action.
type PathSource func() map[string]string

// Executor runs a rule's action chain. Actions execute strictly in declared
// order; the path produced by a successful action becomes the input to the
// next one. A failed action records its error and the chain continues using
// the last successfully produced path, not abort-on-first-failure.
type Executor struct {
	Resolver   Resolver
	Compressor Compressor
	Paths      PathSource
}

// Execute runs the chain against sourcePath and returns one result per
// action. In dry-run mode the full resolution pipeline still runs but no
// filesystem mutation occurs: no rename, no copy, no process spawn.
func (e Executor) Execute(ctx context.Context, acts []rules.Action, sourcePath string, meta *metadata.Screenshot, dryRun bool) []ActionResult {
	results := make([]ActionResult, 0, len(acts))
	current := sourcePath

	for _, a := range acts {
		paths := e.Paths()
		dest, err := e.Resolver.Resolve(a, current, paths, meta, dryRun)
		if err != nil {
			results = append(results, failure(a.Type, err))
			continue
		}

		if dryRun {
			results = append(results, success(a.Type, dest))
			current = dest
			continue
		}

		switch a.Type {
		case rules.ActionMove, rules.ActionRename:
			err = Move(current, dest)
		case rules.ActionCopy:
			err = Copy(current, dest)
		case rules.ActionCompress:
			err = e.compress(ctx, a, current, dest)
		default:
			err = fmt.Errorf("unsupported action type %q", a.Type)
		}

		if err != nil {
			results = append(results, failure(a.Type, err))
			continue
		}
		results = append(results, success(a.Type, dest))
		current = dest
	}
	return results
}

func (e Executor) compress(ctx context.Context, a rules.Action, src, dest string) error {
	quality := QualityMedium
	if a.Compress != nil && a.Compress.Quality != "" {
		quality = Quality(a.Compress.Quality)
	}
	if err := e.Compressor.Compress(ctx, src, dest, quality); err != nil {
		return err
	}
	if a.Compress != nil && a.Compress.ArchiveOriginal && src != dest {
		dir := archiveDir(src)
		if err := ensureDir(dir); err != nil {
			return fmt.Errorf("archive original: %w", err)
		}
		target := ResolveCollision(filepath.Join(dir, filepath.Base(src)))
		if err := Move(src, target); err != nil {
			return fmt.Errorf("archive original: %w", err)
		}
	}
	return nil
}

func success(t rules.ActionType, path string) ActionResult {
	return ActionResult{Action: t, Success: true, Path: path}
}

func failure(t rules.ActionType, err error) ActionResult {
	return ActionResult{Action: t, Error: err.Error()}
}

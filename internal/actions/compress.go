package actions

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

const defaultGhostscript = "gs"

// Quality selects the Ghostscript preset: low favors size, high fidelity.
type Quality string

const (
	QualityLow    Quality = "low"
	QualityMedium Quality = "medium"
	QualityHigh   Quality = "high"
)

func (q Quality) preset() string {
	switch q {
	case QualityLow:
		return "/screen"
	case QualityHigh:
		return "/prepress"
	default:
		return "/ebook"
	}
}

// ErrToolNotFound distinguishes a missing Ghostscript install from a
// compression run that failed on its input.
var ErrToolNotFound = errors.New("ghostscript (gs) not found; install ghostscript to use compress actions")

// Compressor shells out to Ghostscript to rewrite a PDF at the requested
// quality. The run is synchronous and has no timeout; a hung tool blocks
// the calling chain.
type Compressor struct {
	Binary string // defaults to "gs"
}

// Compress writes a compressed copy of src at dest. It fails fast when src
// does not exist, wraps a non-zero exit with the captured stderr, and
// returns ErrToolNotFound when the process cannot be spawned at all.
func (c Compressor) Compress(ctx context.Context, src, dest string, q Quality) error {
	if _, err := os.Stat(src); err != nil {
		return fmt.Errorf("compress: source not found: %s", src)
	}

	bin := c.Binary
	if bin == "" {
		bin = defaultGhostscript
	}
	args := []string{
		"-sDEVICE=pdfwrite",
		"-dCompatibilityLevel=1.4",
		"-dPDFSETTINGS=" + q.preset(),
		"-dNOPAUSE",
		"-dQUIET",
		"-dBATCH",
		"-sOutputFile=" + dest,
		src,
	}

	cmd := exec.CommandContext(ctx, bin, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		var execErr *exec.Error
		if errors.As(err, &execErr) {
			return fmt.Errorf("compress: %w", ErrToolNotFound)
		}
		diag := strings.TrimSpace(stderr.String())
		return fmt.Errorf("compress: %s failed: %w: %s", bin, err, diag)
	}
	return nil
}

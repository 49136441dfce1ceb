package dispatch

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestInflightSuppressesDuplicates(t *testing.T) {
	f := newInflight()

	assert.True(t, f.tryAcquire("/watch/a.pdf"))
	// A second notification for the same path within the settling window
	// must collapse into the first execution.
	assert.False(t, f.tryAcquire("/watch/a.pdf"))
	// Normalization: a differently spelled path to the same file is busy too.
	assert.False(t, f.tryAcquire("/watch/./a.pdf"))

	// Distinct paths are independent.
	assert.True(t, f.tryAcquire("/watch/b.pdf"))
	assert.Equal(t, 2, f.active())
}

func TestInflightReleaseAfterDelay(t *testing.T) {
	f := newInflight()

	assert.True(t, f.tryAcquire("/watch/a.pdf"))
	f.releaseAfter("/watch/a.pdf", 20*time.Millisecond)

	// Still held until the settle delay elapses.
	assert.False(t, f.tryAcquire("/watch/a.pdf"))

	assert.Eventually(t, func() bool {
		return f.tryAcquire("/watch/a.pdf")
	}, time.Second, 5*time.Millisecond)
}

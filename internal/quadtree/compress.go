package quadtree

import (
	"math"

	"github.com/aukilabs/go-tooling/pkg/errors"
)

// SquaredErrorCeiling bounds the squared error of any region: every channel of
// every pixel is at most 255 away from the mean.
const SquaredErrorCeiling = 3 * 255 * 255

// Compress decomposes the buffer until every leaf's squared error is below
// threshold (or the leaf cannot be split further) and renders each leaf as
// its mean color. In outline mode each leaf also gets a border in the
// outline color.
//
// Splitting rules, per region that fails the threshold:
//   - 1x2 and 2x1 regions split into their two pixels, which stop there
//   - 1x1 regions stop
//   - one-pixel-thin regions are halved along their long axis
//   - everything else is split into quadrants
//
// Any previous decomposition is discarded.
func (t *Tree) Compress(threshold float64, outline bool) {
	t.reset()
	t.compress(t.root, threshold, outline, true)
}

// Partition builds the same decomposition as Compress at threshold but
// leaves the buffer untouched. The leaves are available from Root.
func (t *Tree) Partition(threshold float64) {
	t.reset()
	t.compress(t.root, threshold, false, false)
}

func (t *Tree) compress(r *Region, threshold float64, outline, render bool) {
	stop := func(n *Region) {
		if render {
			t.paint(n, n.MeanColor(t.buf), outline)
		}
	}

	if r.SquaredError(t.buf) < threshold {
		stop(r)
		return
	}

	switch {
	case r.Area() == 2:
		for _, c := range t.splitStrip(r) {
			stop(c)
		}
	case r.Area() == 1:
		stop(r)
	default:
		children := t.split(r)
		t.descend(r, children, func(c *Region) {
			t.compress(c, threshold, outline, render)
		})
	}
}

// CountLeaves returns the leaf count Compress would produce at threshold,
// without touching the buffer or this tree's regions.
func (t *Tree) CountLeaves(threshold float64) int {
	dry := &Tree{buf: t.buf, cfg: t.cfg}
	dry.reset()
	dry.compress(dry.root, threshold, false, false)
	return dry.LeafCount()
}

// CompressToRatio compresses with the smallest threshold whose leaf count is
// at most ratio times the number of pixels, and returns that threshold.
// The leaf budget is never below 1, so a tiny ratio flattens the whole
// buffer to its mean color.
func (t *Tree) CompressToRatio(ratio float64, outline bool) (float64, error) {
	if ratio <= 0 || math.IsNaN(ratio) {
		return 0, errors.Newf("compression ratio %v must be positive", ratio).
			WithType(ErrTypeInvalidConfig)
	}

	budget := int(math.Floor(ratio * float64(t.buf.Area())))
	if budget < 1 {
		budget = 1
	}

	threshold := t.searchThreshold(budget)
	t.Compress(threshold, outline)
	return threshold, nil
}

// searchThreshold bisects for the smallest threshold whose leaf count fits
// budget. Leaf count never grows as the threshold grows.
func (t *Tree) searchThreshold(budget int) float64 {
	if t.CountLeaves(0) <= budget {
		return 0
	}

	lo, hi := 0.0, float64(SquaredErrorCeiling+1)
	for i := 0; i < 48 && hi-lo > 1e-3; i++ {
		mid := (lo + hi) / 2
		if t.CountLeaves(mid) <= budget {
			hi = mid
		} else {
			lo = mid
		}
	}
	return hi
}

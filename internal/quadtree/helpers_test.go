package quadtree

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

var (
	red   = Pixel{255, 0, 0}
	green = Pixel{0, 255, 0}
	blue  = Pixel{0, 0, 255}
)

// quadrantBuffer colors each quadrant differently: red top-left, green
// top-right, blue bottom-left, white bottom-right.
func quadrantBuffer(width, height int) *Buffer {
	b := NewBuffer(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			switch {
			case x < width/2 && y < height/2:
				b.Set(x, y, red)
			case x >= width/2 && y < height/2:
				b.Set(x, y, green)
			case x < width/2:
				b.Set(x, y, blue)
			default:
				b.Set(x, y, White)
			}
		}
	}
	return b
}

// noiseBuffer fills a buffer with reproducible random colors.
func noiseBuffer(width, height int, seed int64) *Buffer {
	rng := rand.New(rand.NewSource(seed))
	b := NewBuffer(width, height)
	for i := range b.Pix {
		b.Pix[i] = Pixel{uint8(rng.Intn(256)), uint8(rng.Intn(256)), uint8(rng.Intn(256))}
	}
	return b
}

// halfBuffer is black on the left half and white on the right half.
func halfBuffer(width, height int) *Buffer {
	b := NewBuffer(width, height)
	for y := 0; y < height; y++ {
		for x := width / 2; x < width; x++ {
			b.Set(x, y, White)
		}
	}
	return b
}

func newTree(t *testing.T, buf *Buffer, cfg Config) *Tree {
	t.Helper()
	tree, err := NewTree(buf, cfg)
	require.NoError(t, err)
	return tree
}

// requireLeafFormula checks the leaf count against the split counters and
// against the regions actually present in the tree.
func requireLeafFormula(t *testing.T, tree *Tree) {
	t.Helper()
	s := tree.Stats()
	require.Equal(t, 1+3*s.QuadSplits+s.StripSplits+s.Bisections, s.Leaves)
	require.Equal(t, s.Leaves, tree.LeafCount())
	require.Len(t, tree.Root().Leaves(), s.Leaves)
}

// requireTiling checks that every split region is exactly covered by its
// children and that no region is empty.
func requireTiling(t *testing.T, root *Region) {
	t.Helper()
	root.Walk(func(r *Region) {
		require.Positive(t, r.Area(), "region %s", r)
		if r.IsLeaf() {
			return
		}
		sum := 0
		for _, c := range r.Children() {
			require.GreaterOrEqual(t, c.XTop, r.XTop)
			require.GreaterOrEqual(t, c.YTop, r.YTop)
			require.LessOrEqual(t, c.XBot, r.XBot)
			require.LessOrEqual(t, c.YBot, r.YBot)
			sum += c.Area()
		}
		require.Equal(t, r.Area(), sum, "children of %s", r)
	})
}

package quadtree

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegionDimensions(t *testing.T) {
	r := NewRegion(2, 3, 7, 5)
	require.Equal(t, 5, r.Width())
	require.Equal(t, 2, r.Height())
	require.Equal(t, 10, r.Area())
	require.Equal(t, "(2,3)-(7,5)", r.String())
}

func TestRegionMeanColor(t *testing.T) {
	b := quadrantBuffer(4, 4)

	require.Equal(t, red, NewRegion(0, 0, 2, 2).MeanColor(b))
	require.Equal(t, White, NewRegion(2, 2, 4, 4).MeanColor(b))

	// red and green halves average to (127,127,0) with integer division.
	require.Equal(t, Pixel{127, 127, 0}, NewRegion(0, 0, 4, 2).MeanColor(b))
}

func TestRegionMeanColor_LargeRegionDoesNotOverflow(t *testing.T) {
	b := Filled(1024, 1024, White)
	require.Equal(t, White, b.Bounds().MeanColor(b))
}

func TestRegionSquaredError(t *testing.T) {
	t.Run("uniform", func(t *testing.T) {
		b := Filled(8, 8, Pixel{12, 34, 56})
		require.Zero(t, b.Bounds().SquaredError(b))
	})

	t.Run("black and white pair", func(t *testing.T) {
		b := NewBuffer(1, 2)
		b.Set(0, 1, White)
		// mean 127; (3*127² + 3*128²) / 2
		require.InDelta(t, 48769.5, b.Bounds().SquaredError(b), 1e-9)
	})

	t.Run("single pixel", func(t *testing.T) {
		b := noiseBuffer(3, 3, 7)
		require.Zero(t, NewRegion(1, 1, 2, 2).SquaredError(b))
	})

	t.Run("never above ceiling", func(t *testing.T) {
		b := noiseBuffer(16, 16, 3)
		require.LessOrEqual(t, b.Bounds().SquaredError(b), float64(SquaredErrorCeiling))
	})
}

func TestGradient(t *testing.T) {
	t.Run("uniform is zero", func(t *testing.T) {
		b := Filled(5, 5, Pixel{90, 90, 90})
		for y := 0; y < 5; y++ {
			for x := 0; x < 5; x++ {
				require.Zero(t, Gradient(b, x, y, LaplacianKernel))
			}
		}
	})

	t.Run("isolated bright pixel", func(t *testing.T) {
		b := NewBuffer(3, 3)
		b.Set(1, 1, White)
		require.InDelta(t, 8*255*math.Sqrt(3), Gradient(b, 1, 1, LaplacianKernel), 1e-9)
		// a neighbor sees one bright pixel with weight -1
		require.InDelta(t, 255*math.Sqrt(3), Gradient(b, 0, 0, LaplacianKernel), 1e-9)
	})

	t.Run("straight step clears the default threshold", func(t *testing.T) {
		b := halfBuffer(8, 8)
		step := 3 * 255 * math.Sqrt(3)
		for _, x := range []int{3, 4} {
			g := Gradient(b, x, 4, LaplacianKernel)
			require.InDelta(t, step, g, 1e-9)
			require.GreaterOrEqual(t, g, DefaultGradientThreshold)
		}
		require.Zero(t, Gradient(b, 1, 4, LaplacianKernel))
	})

	t.Run("single pixel buffer clamps every sample", func(t *testing.T) {
		b := Filled(1, 1, Pixel{10, 0, 0})
		require.Zero(t, Gradient(b, 0, 0, LaplacianKernel))
		require.InDelta(t, 160.0, Gradient(b, 0, 0, NegativeKernel), 1e-9)
	})

	t.Run("corners stay in bounds", func(t *testing.T) {
		b := noiseBuffer(2, 3, 11)
		for _, p := range [][2]int{{0, 0}, {1, 0}, {0, 2}, {1, 2}} {
			require.NotPanics(t, func() { Gradient(b, p[0], p[1], LaplacianKernel) })
		}
	})
}

func TestClamp(t *testing.T) {
	tests := []struct {
		val, min, max, want int
	}{
		{5, 0, 10, 5},
		{-1, 0, 10, 0},
		{15, 0, 10, 10},
		{0, 0, 10, 0},
		{10, 0, 10, 10},
		{-1, 0, 0, 0},
		{1, 0, 0, 0},
	}

	for _, tt := range tests {
		got := clamp(tt.val, tt.min, tt.max)
		if got != tt.want {
			t.Errorf("clamp(%d, %d, %d): got %d, want %d",
				tt.val, tt.min, tt.max, got, tt.want)
		}
	}
}

func TestRegionWalkAndLeaves(t *testing.T) {
	root := NewRegion(0, 0, 4, 4)
	root.NW = NewRegion(0, 0, 2, 2)
	root.NE = NewRegion(2, 0, 4, 2)
	root.SW = NewRegion(0, 2, 2, 4)
	root.SE = NewRegion(2, 2, 4, 4)
	root.SE.NW = NewRegion(2, 2, 3, 4)
	root.SE.NE = NewRegion(3, 2, 4, 4)

	var visited int
	root.Walk(func(*Region) { visited++ })
	require.Equal(t, 7, visited)

	leaves := root.Leaves()
	require.Len(t, leaves, 5)
	require.Equal(t, root.NE, root.Children()[0])
	require.Len(t, root.SE.Children(), 2)
	requireTiling(t, root)
}

package quadtree

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewTree(t *testing.T) {
	b := NewBuffer(7, 3)
	tree := newTree(t, b, DefaultConfig())

	require.Same(t, b, tree.Buffer())
	require.Equal(t, 1, tree.LeafCount())
	require.Equal(t, Stats{Leaves: 1}, tree.Stats())
	require.Equal(t, NewRegion(0, 0, 7, 3), tree.Root())
	require.Equal(t, DefaultConfig(), tree.Config())
}

func TestNewTree_Invalid(t *testing.T) {
	tests := []struct {
		name string
		buf  *Buffer
		cfg  func(*Config)
	}{
		{"nil buffer", nil, nil},
		{"empty buffer", &Buffer{}, nil},
		{"short pixel slice", &Buffer{Width: 2, Height: 2, Pix: make([]Pixel, 3)}, nil},
		{"zero leaf area", NewBuffer(2, 2), func(c *Config) { c.MaxLeafArea = 0 }},
		{"zero border", NewBuffer(2, 2), func(c *Config) { c.BorderWidth = 0 }},
		{"negative gradient threshold", NewBuffer(2, 2), func(c *Config) { c.GradientThreshold = -1 }},
		{"tiny parallel area", NewBuffer(2, 2), func(c *Config) {
			c.Parallel = true
			c.ParallelMinArea = 1
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			if tt.cfg != nil {
				tt.cfg(&cfg)
			}
			_, err := NewTree(tt.buf, cfg)
			require.Error(t, err)
		})
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	require.Equal(t, LaplacianKernel, cfg.Kernel)
	require.Equal(t, Gray, cfg.OutlineColor)
	require.Equal(t, 128, cfg.MaxLeafArea)
	require.False(t, cfg.Parallel)
}

func TestLaplacianKernelSumsToZero(t *testing.T) {
	sum := 0
	for _, row := range LaplacianKernel {
		for _, w := range row {
			sum += w
		}
	}
	require.Zero(t, sum)
}

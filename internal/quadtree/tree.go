package quadtree

import (
	"sync"
	"sync/atomic"

	"github.com/aukilabs/go-tooling/pkg/errors"
)

// Stats counts the splits made by the last pass.
//
// Leaves always equals 1 + 3*QuadSplits + StripSplits + Bisections.
type Stats struct {
	Leaves      int `json:"leaves"`
	QuadSplits  int `json:"quad_splits"`
	StripSplits int `json:"strip_splits"`
	Bisections  int `json:"bisections"`
}

// Tree is a decomposition of a buffer into regions. It borrows the buffer:
// passes write into it in place and the caller keeps ownership.
//
// A tree is not safe for concurrent use. Run one pass at a time; each pass
// starts over from an unsplit root.
type Tree struct {
	buf  *Buffer
	cfg  Config
	root *Region

	leaves      atomic.Int64
	quadSplits  atomic.Int64
	stripSplits atomic.Int64
	bisections  atomic.Int64
}

// NewTree returns an unsplit tree over buf.
func NewTree(buf *Buffer, cfg Config) (*Tree, error) {
	if buf == nil || buf.Width < 1 || buf.Height < 1 {
		return nil, errors.New("buffer must be at least 1x1").
			WithType(ErrTypeInvalidConfig)
	}
	if len(buf.Pix) != buf.Width*buf.Height {
		return nil, errors.Newf("buffer holds %d pixels, want %d", len(buf.Pix), buf.Width*buf.Height).
			WithType(ErrTypeInvalidConfig)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	t := &Tree{buf: buf, cfg: cfg}
	t.reset()
	return t, nil
}

// Root returns the region spanning the whole buffer.
func (t *Tree) Root() *Region { return t.root }

// Buffer returns the buffer the tree writes into.
func (t *Tree) Buffer() *Buffer { return t.buf }

// Config returns the pass parameters.
func (t *Tree) Config() Config { return t.cfg }

// LeafCount returns the number of leaves after the last pass.
func (t *Tree) LeafCount() int { return int(t.leaves.Load()) }

// Stats returns the split counters of the last pass.
func (t *Tree) Stats() Stats {
	return Stats{
		Leaves:      int(t.leaves.Load()),
		QuadSplits:  int(t.quadSplits.Load()),
		StripSplits: int(t.stripSplits.Load()),
		Bisections:  int(t.bisections.Load()),
	}
}

func (t *Tree) reset() {
	t.root = t.buf.Bounds()
	t.leaves.Store(1)
	t.quadSplits.Store(0)
	t.stripSplits.Store(0)
	t.bisections.Store(0)
}

// split divides r, whose area must be at least 2, into quadrants, or into
// halves along its long axis when it is a single pixel thin.
func (t *Tree) split(r *Region) []*Region {
	if r.Width() == 1 || r.Height() == 1 {
		t.bisections.Add(1)
		t.leaves.Add(1)
		return halve(r)
	}

	xMid := r.XTop + r.Width()/2
	yMid := r.YTop + r.Height()/2
	r.NW = NewRegion(r.XTop, r.YTop, xMid, yMid)
	r.NE = NewRegion(xMid, r.YTop, r.XBot, yMid)
	r.SW = NewRegion(r.XTop, yMid, xMid, r.YBot)
	r.SE = NewRegion(xMid, yMid, r.XBot, r.YBot)
	t.quadSplits.Add(1)
	t.leaves.Add(3)
	return r.Children()
}

// splitStrip divides a 1x2 or 2x1 region into its two pixels.
func (t *Tree) splitStrip(r *Region) []*Region {
	t.stripSplits.Add(1)
	t.leaves.Add(1)
	return halve(r)
}

func halve(r *Region) []*Region {
	if r.Width() == 1 {
		yMid := r.YTop + r.Height()/2
		r.NW = NewRegion(r.XTop, r.YTop, r.XBot, yMid)
		r.SW = NewRegion(r.XTop, yMid, r.XBot, r.YBot)
	} else {
		xMid := r.XTop + r.Width()/2
		r.NW = NewRegion(r.XTop, r.YTop, xMid, r.YBot)
		r.NE = NewRegion(xMid, r.YTop, r.XBot, r.YBot)
	}
	return r.Children()
}

// descend runs fn on each child. Children cover disjoint pixels, so large
// regions may fan out to goroutines when the config allows it.
func (t *Tree) descend(r *Region, children []*Region, fn func(*Region)) {
	if !t.cfg.Parallel || r.Area() < t.cfg.ParallelMinArea {
		for _, c := range children {
			fn(c)
		}
		return
	}

	var wg sync.WaitGroup
	for _, c := range children {
		wg.Add(1)
		go func(c *Region) {
			defer wg.Done()
			fn(c)
		}(c)
	}
	wg.Wait()
}

package quadtree

// DetectEdges decomposes the buffer and turns it into a black and white edge
// map:
//
//  1. Regions of at most MaxLeafArea pixels are classified pixel by pixel:
//     a gradient magnitude at or above GradientThreshold renders black,
//     anything below renders white.
//  2. Larger regions whose squared error is below MaxSquaredError render
//     solid black.
//  3. Everything else is split into quadrants (or halved, when a single
//     pixel thin) and recursed into.
//
// In outline mode every stopped region gets a border in the outline color
// and only its interior is classified or filled.
//
// Gradients and errors are read from a copy of the buffer taken when the pass
// starts, so the output does not depend on the order quadrants are visited.
func (t *Tree) DetectEdges(outline bool) {
	t.reset()
	src := t.buf.Clone()
	t.detect(t.root, src, outline)
}

func (t *Tree) detect(r *Region, src *Buffer, outline bool) {
	if r.Area() <= t.cfg.MaxLeafArea {
		t.classify(r, src, outline)
		return
	}

	if r.SquaredError(src) < t.cfg.MaxSquaredError {
		t.paint(r, Black, outline)
		return
	}

	children := t.split(r)
	t.descend(r, children, func(c *Region) {
		t.detect(c, src, outline)
	})
}

func (t *Tree) classify(r *Region, src *Buffer, outline bool) {
	x0, y0, x1, y1 := r.XTop, r.YTop, r.XBot, r.YBot
	if outline {
		x0, y0, x1, y1 = t.border(r)
	}

	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			if Gradient(src, x, y, t.cfg.Kernel) >= t.cfg.GradientThreshold {
				t.buf.Set(x, y, Black)
			} else {
				t.buf.Set(x, y, White)
			}
		}
	}
}

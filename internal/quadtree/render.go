package quadtree

// paint renders a stopped region: fill everywhere, or, in outline mode, the
// outline color on the border and fill on the interior.
func (t *Tree) paint(r *Region, fill Pixel, outline bool) {
	if !outline {
		fillRect(t.buf, r.XTop, r.YTop, r.XBot, r.YBot, fill)
		return
	}
	x0, y0, x1, y1 := t.border(r)
	fillRect(t.buf, x0, y0, x1, y1, fill)
}

// border paints the outline of r and returns its interior rectangle. The
// interior is empty (x0 >= x1 or y0 >= y1) when r is too thin to have one.
func (t *Tree) border(r *Region) (x0, y0, x1, y1 int) {
	bw := t.cfg.BorderWidth
	x0, y0 = r.XTop+bw, r.YTop+bw
	x1, y1 = r.XBot-bw, r.YBot-bw
	if x0 > r.XBot {
		x0 = r.XBot
	}
	if y0 > r.YBot {
		y0 = r.YBot
	}
	if x1 < r.XTop {
		x1 = r.XTop
	}
	if y1 < r.YTop {
		y1 = r.YTop
	}

	c := t.cfg.OutlineColor
	for y := r.YTop; y < r.YBot; y++ {
		if y < y0 || y >= y1 {
			fillRect(t.buf, r.XTop, y, r.XBot, y+1, c)
			continue
		}
		fillRect(t.buf, r.XTop, y, x0, y+1, c)
		fillRect(t.buf, x1, y, r.XBot, y+1, c)
	}
	return x0, y0, x1, y1
}

func fillRect(buf *Buffer, x0, y0, x1, y1 int, p Pixel) {
	for y := y0; y < y1; y++ {
		row := buf.Pix[y*buf.Width : (y+1)*buf.Width]
		for x := x0; x < x1; x++ {
			row[x] = p
		}
	}
}

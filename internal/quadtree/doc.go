// Package quadtree recursively partitions an RGB pixel buffer into
// rectangular regions and uses the partition to either compress the image
// into flat blocks or classify its pixels as edge or non-edge.
//
// # Regions
//
// A Region covers the half-open rectangle [XTop,XBot) × [YTop,YBot). The
// root covers the whole buffer. A region that is split gets up to four
// children (NW, NE, SW, SE) that tile it exactly; a region with no children
// is a leaf. Regions never have zero area.
//
// # Passes
//
// Tree.Compress splits regions whose squared color error is at or above a
// threshold and paints each remaining leaf with its mean color.
// Tree.CompressToRatio searches for the threshold that fits a leaf budget.
//
// Tree.DetectEdges splits regions until they are small enough to classify
// per pixel with a 3x3 kernel, painting color-uniform regions black on the
// way down.
//
// Both passes write into the buffer in place and can draw region outlines to
// show the decomposition.
//
// # Concurrency
//
// Passes run on the calling goroutine unless Config.Parallel is set, in which
// case the quadrants of large regions are processed concurrently. Sibling
// regions never share pixels, so the output and leaf count are the same
// either way. The buffer must not be touched by anyone else during a pass.
package quadtree

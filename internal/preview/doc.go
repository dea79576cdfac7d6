// Package preview renders pixel grids into common image formats so the
// output of a pass can be looked at with ordinary viewers.
//
// PNG, JPEG, GIF, BMP and TIFF go through github.com/disintegration/imaging,
// WebP through github.com/gen2brain/webp and QOI through
// github.com/xfmoulet/qoi.
//
// A Grid can be drawn over a preview to read leaf coordinates off by eye.
// Its spacing is in source pixels; lines may thin out when a preview is
// shrunk.
package preview

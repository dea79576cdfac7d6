// Package ppm reads and writes the plain-text RGB pixel grid format consumed
// and produced by the quadtree passes.
//
// A grid starts with the "P3" tag, then the column and row counts, then the
// maximum sample value, then one red, green and blue sample per pixel in
// row-major order. Lines starting with "#" are comments. Written grids always
// use a maximum of 255 and put each image row on its own line, so writing and
// reading a buffer back reproduces it exactly.
//
// Files whose name ends in ".zst" are transparently zstd compressed.
//
// Every error caused by the file itself (missing, truncated, non-numeric,
// out of range) carries the go-tooling error type "malformed-input".
package ppm

// Package pipeline drives the quadtree passes over a file the way the
// command line asks for: read the input once, run every compression level
// and the edge detection pass on private copies, and write one pixel grid
// (plus an optional preview) per pass.
//
// Every run gets a random run ID that tags all of its log entries.
package pipeline

package ppm

import (
	"os"
	"sync"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/ironsheep/quadtree-tools/internal/quadtree"
)

// BufferCache provides thread-safe caching of decoded pixel grids to avoid
// re-parsing the same file.
//
// Cached buffers are shared between callers. Passes mutate their buffer in
// place, so always Clone a cached buffer before running a pass on it.
//
// # Memory Management
//
// Cached buffers remain in memory until explicitly removed via Evict() or
// Clear(). A 1000x1000 grid takes about 3 MB.
type BufferCache struct {
	mu      sync.RWMutex
	buffers map[string]*quadtree.Buffer
}

// NewBufferCache creates an empty cache.
func NewBufferCache() *BufferCache {
	return &BufferCache{
		buffers: make(map[string]*quadtree.Buffer),
	}
}

// Load returns the cached buffer for path, reading it from disk on a miss.
//
// The buffer is cached under the exact path string provided, so relative and
// absolute paths to the same file get separate entries.
func (c *BufferCache) Load(path string) (*quadtree.Buffer, error) {
	c.mu.RLock()
	if buf, ok := c.buffers[path]; ok {
		c.mu.RUnlock()
		return buf, nil
	}
	c.mu.RUnlock()

	buf, err := ReadFile(path)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.buffers[path] = buf
	c.mu.Unlock()

	return buf, nil
}

// LoadCopy returns a private copy of the buffer for path, safe to mutate.
func (c *BufferCache) LoadCopy(path string) (*quadtree.Buffer, error) {
	buf, err := c.Load(path)
	if err != nil {
		return nil, err
	}
	return buf.Clone(), nil
}

// Len returns the number of cached buffers.
func (c *BufferCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.buffers)
}

// Clear removes every buffer from the cache.
func (c *BufferCache) Clear() {
	c.mu.Lock()
	c.buffers = make(map[string]*quadtree.Buffer)
	c.mu.Unlock()
}

// Evict removes the buffer cached for path, if any.
func (c *BufferCache) Evict(path string) {
	c.mu.Lock()
	delete(c.buffers, path)
	c.mu.Unlock()
}

// Info describes a pixel grid file.
type Info struct {
	// Width is the number of columns.
	Width int `json:"width"`

	// Height is the number of rows.
	Height int `json:"height"`

	// Format is "ppm" or "ppm+zstd".
	Format string `json:"format"`

	// FileSizeBytes is the size of the file on disk.
	FileSizeBytes int64 `json:"file_size_bytes"`

	// MeanColor is the mean color of the whole grid as "#rrggbb".
	MeanColor string `json:"mean_color"`

	// SquaredError is the color variance measure of the whole grid.
	SquaredError float64 `json:"squared_error"`
}

// LoadInfo loads path through the cache and describes it.
func LoadInfo(cache *BufferCache, path string) (*Info, error) {
	buf, err := cache.Load(path)
	if err != nil {
		return nil, err
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, errors.New("failed to stat file").
			WithTag("path", path).
			Wrap(err)
	}

	format := "ppm"
	if IsCompressed(path) {
		format = "ppm+zstd"
	}

	root := buf.Bounds()
	return &Info{
		Width:         buf.Width,
		Height:        buf.Height,
		Format:        format,
		FileSizeBytes: stat.Size(),
		MeanColor:     root.MeanColor(buf).Hex(),
		SquaredError:  root.SquaredError(buf),
	}, nil
}

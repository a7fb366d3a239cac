package margin

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"sync"

	"rtvoxel/pkg/geometry"
	"rtvoxel/pkg/structure"
)

// Cache remembers built working grids so repeated margin previews over the
// same contour set skip the voxelization step. The key is a content hash
// over every contour point, slice position, the margin, and the grid
// parameters, so two different contour sets of equal length can never
// collide. The cache is owned by whoever constructs the engine; it is
// safe for concurrent use.
type Cache struct {
	mu      sync.Mutex
	entries map[string]*structure.Mask
}

// NewCache returns an empty grid cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]*structure.Mask)}
}

// cacheKey hashes everything the working grid depends on, plus the margin
// distance so a changed margin never reuses a stale entry.
func cacheKey(contours []geometry.Contour, marginMM float64, spacing [3]float64, paddingMM float64, gapFill int) string {
	h := sha256.New()
	var buf [8]byte
	writeF := func(v float64) {
		binary.LittleEndian.PutUint64(buf[:], uint64(int64(v*1e6)))
		h.Write(buf[:])
	}
	writeF(marginMM)
	writeF(paddingMM)
	writeF(float64(gapFill))
	for _, s := range spacing {
		writeF(s)
	}
	for _, c := range contours {
		writeF(c.SlicePosition)
		for _, p := range c.Points {
			writeF(p)
		}
	}
	return hex.EncodeToString(h.Sum(nil))
}

// get returns a clone of the cached grid, so callers can mutate the result
// without poisoning the cache.
func (c *Cache) get(key string) (*structure.Mask, bool) {
	if c == nil {
		return nil, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	m, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	return m.Clone(), true
}

func (c *Cache) put(key string, m *structure.Mask) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = m.Clone()
}

// Invalidate drops the entry for a specific contour set and margin, if
// present.
func (c *Cache) Invalidate(contours []geometry.Contour, marginMM float64, spacing [3]float64, paddingMM float64, gapFill int) {
	if c == nil {
		return
	}
	key := cacheKey(contours, marginMM, spacing, paddingMM, gapFill)
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// Clear drops every cached grid.
func (c *Cache) Clear() {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*structure.Mask)
}

// Len reports the number of cached grids.
func (c *Cache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Package preview renders image previews using the adapters a terminal
// supports, falling back to unicode half blocks when none apply.
package preview

import (
	"container/list"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"image"
	"strings"
	"sync"
	"sync/atomic"

	"gitlab.com/tinyland/lab/termbrand/pkg/terminal"
)

// cacheKey identifies a rendered preview by the adapter chain tried, target
// cell size and image hash.
type cacheKey struct {
	chain string
	cols  int
	rows  int
	hash  [32]byte
}

func makeCacheKey(adapters []terminal.Adapter, cols, rows int, hash [32]byte) cacheKey {
	names := make([]string, len(adapters))
	for i, a := range adapters {
		names[i] = a.String()
	}
	return cacheKey{chain: strings.Join(names, ","), cols: cols, rows: rows, hash: hash}
}

func (k cacheKey) String() string {
	return fmt.Sprintf("[%s]:%dx%d:%x", k.chain, k.cols, k.rows, k.hash[:8])
}

// CacheStats reports hit/miss counts for observability.
type CacheStats struct {
	Hits      uint64
	Misses    uint64
	Evictions uint64
	Entries   int
	SizeBytes int64
}

type cacheEntry struct {
	key    cacheKey
	result Result
	size   int64
}

// Cache is a thread-safe LRU cache of rendered previews bounded by the
// total size of the encoded output.
type Cache struct {
	mu        sync.Mutex
	items     map[cacheKey]*list.Element
	order     *list.List // front = most recent
	maxBytes  int64
	usedBytes int64

	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64
}

// NewCache creates a cache holding up to maxMB megabytes. If maxMB is <= 0,
// a default of 32 MB is used.
func NewCache(maxMB int) *Cache {
	if maxMB <= 0 {
		maxMB = 32
	}
	return &Cache{
		items:    make(map[cacheKey]*list.Element),
		order:    list.New(),
		maxBytes: int64(maxMB) << 20,
	}
}

func (c *Cache) get(key cacheKey) (Result, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.items[key]
	if !ok {
		c.misses.Add(1)
		return Result{}, false
	}
	c.order.MoveToFront(elem)
	c.hits.Add(1)
	return elem.Value.(*cacheEntry).result, true
}

func (c *Cache) put(key cacheKey, r Result) {
	size := int64(len(r.Output))

	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		old := elem.Value.(*cacheEntry)
		c.usedBytes += size - old.size
		old.result, old.size = r, size
		c.order.MoveToFront(elem)
		c.evictLocked()
		return
	}

	for c.usedBytes+size > c.maxBytes && c.order.Len() > 0 {
		c.evictBackLocked()
	}
	c.items[key] = c.order.PushFront(&cacheEntry{key: key, result: r, size: size})
	c.usedBytes += size
}

// Invalidate clears all entries.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[cacheKey]*list.Element)
	c.order.Init()
	c.usedBytes = 0
}

// Stats returns current cache statistics.
func (c *Cache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	return CacheStats{
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Evictions: c.evictions.Load(),
		Entries:   c.order.Len(),
		SizeBytes: c.usedBytes,
	}
}

// evictLocked evicts from the back until under maxBytes.
// Caller must hold c.mu.
func (c *Cache) evictLocked() {
	for c.usedBytes > c.maxBytes && c.order.Len() > 0 {
		c.evictBackLocked()
	}
}

// evictBackLocked removes the least recently used entry.
// Caller must hold c.mu.
func (c *Cache) evictBackLocked() {
	back := c.order.Back()
	if back == nil {
		return
	}
	e := c.order.Remove(back).(*cacheEntry)
	delete(c.items, e.key)
	c.usedBytes -= e.size
	c.evictions.Add(1)
}

// hashImage hashes an image's dimensions and every pixel.
func hashImage(img image.Image) [32]byte {
	nrgba := toNRGBA(img)
	w, h := nrgba.Bounds().Dx(), nrgba.Bounds().Dy()

	hasher := sha256.New()
	var dim [8]byte
	binary.LittleEndian.PutUint32(dim[:4], uint32(w))
	binary.LittleEndian.PutUint32(dim[4:], uint32(h))
	hasher.Write(dim[:])

	for y := 0; y < h; y++ {
		off := y * nrgba.Stride
		hasher.Write(nrgba.Pix[off : off+4*w])
	}

	var sum [32]byte
	copy(sum[:], hasher.Sum(nil))
	return sum
}

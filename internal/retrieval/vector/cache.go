package vector

import (
	"crypto/sha256"
	"sync"

	"github.com/prodexhq/prodex/internal/domain"
)

// IndexCache tracks which item ids already have an embedding upserted into
// the vector collection, so repeated retrieval calls do not re-embed the
// whole catalog. Process-lifetime only; entries are never evicted.
//
// Concurrent retrieval calls mutate the cache, so access is mutex-guarded.
// Two callers racing to index the same item both upsert; the store makes
// that safe (last-write-wins by id).
type IndexCache struct {
	mu      sync.RWMutex
	entries map[int]cacheEntry
}

type cacheEntry struct {
	vector   []float32
	textHash [sha256.Size]byte
}

// NewIndexCache creates an empty cache.
func NewIndexCache() *IndexCache {
	return &IndexCache{entries: make(map[int]cacheEntry)}
}

// Has reports whether the item id was already indexed this process lifetime.
func (c *IndexCache) Has(id int) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.entries[id]
	return ok
}

// Record marks an item as indexed, remembering the embedding and a hash of
// the text it was computed from.
func (c *IndexCache) Record(id int, vec []float32, indexedText string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[id] = cacheEntry{vector: vec, textHash: sha256.Sum256([]byte(indexedText))}
}

// Vector returns the cached embedding for an id, if present.
func (c *IndexCache) Vector(id int) ([]float32, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[id]
	return e.vector, ok
}

// Len returns the number of indexed ids.
func (c *IndexCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Stale returns the ids of items whose current index text no longer matches
// what was embedded. The query path never refreshes these (the cache is
// deliberately forever); operators can feed the result to ReindexStale.
func (c *IndexCache) Stale(items []domain.Item) []int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var stale []int
	for _, it := range items {
		e, ok := c.entries[it.ID]
		if !ok {
			continue
		}
		if e.textHash != sha256.Sum256([]byte(it.IndexText())) {
			stale = append(stale, it.ID)
		}
	}
	return stale
}

// Forget drops ids from the cache so the next retrieval re-indexes them.
func (c *IndexCache) Forget(ids []int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, id := range ids {
		delete(c.entries, id)
	}
}

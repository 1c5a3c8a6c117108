package embedding

import (
	"container/list"
	"sync"
)

// EmbeddingCache is an LRU cache of embeddings keyed by text. Safe for
// concurrent use.
type EmbeddingCache struct {
	capacity int

	mu      sync.Mutex
	entries map[string]*list.Element
	order   *list.List
}

type lruEntry struct {
	text   string
	vector []float32
}

// NewEmbeddingCache creates a cache holding at most capacity embeddings.
func NewEmbeddingCache(capacity int) *EmbeddingCache {
	return &EmbeddingCache{
		capacity: capacity,
		entries:  make(map[string]*list.Element),
		order:    list.New(),
	}
}

// Get returns the cached embedding for text if present and marks it as
// recently used. The recency bump mutates the list, so Get holds the write
// lock.
func (c *EmbeddingCache) Get(text string) ([]float32, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.entries[text]
	if !ok {
		return nil, false
	}
	c.order.MoveToFront(elem)
	return elem.Value.(*lruEntry).vector, true
}

// Set stores the embedding for text, evicting the least recently used entry
// when the cache is full.
func (c *EmbeddingCache) Set(text string, vector []float32) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.entries[text]; ok {
		c.order.MoveToFront(elem)
		elem.Value.(*lruEntry).vector = vector
		return
	}

	c.entries[text] = c.order.PushFront(&lruEntry{text: text, vector: vector})
	if c.order.Len() > c.capacity {
		c.evictOldest()
	}
}

// Len returns the number of cached embeddings.
func (c *EmbeddingCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

func (c *EmbeddingCache) evictOldest() {
	oldest := c.order.Back()
	if oldest == nil {
		return
	}
	c.order.Remove(oldest)
	delete(c.entries, oldest.Value.(*lruEntry).text)
}

package cas

import (
	"container/list"
	"sync"
)

// LRUCache keeps the most recently read snapshots in front of another CAS.
// Reads of replay history tend to cluster around the current cursor.
type LRUCache struct {
	mu         sync.Mutex
	underlying CAS
	cache      map[Hash]*list.Element
	evictList  *list.List
	maxSize    int
}

const DefaultCacheSize = 1000

type cacheEntry struct {
	hash  Hash
	value []byte
}

// NewLRUCache wraps underlying. A non-positive maxSize selects
// DefaultCacheSize.
func NewLRUCache(underlying CAS, maxSize int) *LRUCache {
	if maxSize <= 0 {
		maxSize = DefaultCacheSize
	}
	return &LRUCache{
		underlying: underlying,
		cache:      make(map[Hash]*list.Element),
		evictList:  list.New(),
		maxSize:    maxSize,
	}
}

func (l *LRUCache) Put(item Hashable) (Hash, error) {
	return l.underlying.Put(item)
}

func (l *LRUCache) Has(hash Hash) bool {
	return l.underlying.Has(hash)
}

func (l *LRUCache) Len() int {
	return l.underlying.Len()
}

// getValue serves from the cache, falling back to the underlying store.
func (l *LRUCache) getValue(h Hash) (bool, []byte, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	// Check cache first
	if elem, ok := l.cache[h]; ok {
		l.evictList.MoveToFront(elem)
		entry := elem.Value.(*cacheEntry)
		return true, entry.value, nil
	}

	underlying, ok := l.underlying.(directStore)
	if !ok {
		return false, nil, nil
	}

	has, data, err := underlying.getValue(h)
	if err != nil {
		return false, nil, err
	}
	if !has {
		return false, nil, nil
	}

	l.addToCache(h, data)

	return true, data, nil
}

func (l *LRUCache) addToCache(hash Hash, value []byte) {
	if elem, ok := l.cache[hash]; ok {
		l.evictList.MoveToFront(elem)
		elem.Value.(*cacheEntry).value = value
		return
	}

	entry := &cacheEntry{
		hash:  hash,
		value: value,
	}
	elem := l.evictList.PushFront(entry)
	l.cache[hash] = elem

	if l.evictList.Len() > l.maxSize {
		l.evictOldest()
	}
}

func (l *LRUCache) evictOldest() {
	elem := l.evictList.Back()
	if elem != nil {
		l.evictList.Remove(elem)
		entry := elem.Value.(*cacheEntry)
		delete(l.cache, entry.hash)
	}
}

type CacheStats struct {
	Size    int
	MaxSize int
}

func (l *LRUCache) Stats() CacheStats {
	l.mu.Lock()
	defer l.mu.Unlock()
	return CacheStats{
		Size:    len(l.cache),
		MaxSize: l.maxSize,
	}
}

package main

import "sync"

// searchKey identifies a minimax subcomputation: zobrist hash of the board
// plus side to move, remaining search depth, and whose turn the node
// maximizes for. Two states with identical cell contents produce the same
// hash, so key equality is board equality, never object identity.
type searchKey struct {
	Hash       uint64
	Depth      int
	Maximizing bool
}

type ttEntry struct {
	Key   searchKey
	Score int
	Valid bool
}

// TranspositionTable is a fixed-capacity set-associative cache with striped
// RW locks, safe for concurrent probe and store from the root workers.
type TranspositionTable struct {
	mask        uint64
	buckets     int
	entries     []ttEntry
	stripeLocks []sync.RWMutex
	stripeMask  uint64
}

func NewTranspositionTable(size uint64, buckets int) *TranspositionTable {
	if buckets <= 0 {
		buckets = 2
	}
	if size < 1 {
		size = 1
	}
	if (size & (size - 1)) != 0 {
		size = nextPowerOfTwo(size)
	}
	maxStripes := 64
	if int(size) < maxStripes {
		maxStripes = int(size)
	}
	stripes := 1
	for stripes*2 <= maxStripes {
		stripes *= 2
	}
	return &TranspositionTable{
		mask:        size - 1,
		buckets:     buckets,
		entries:     make([]ttEntry, int(size)*buckets),
		stripeLocks: make([]sync.RWMutex, stripes),
		stripeMask:  uint64(stripes - 1),
	}
}

func (tt *TranspositionTable) Clear() {
	tt.lockAllStripes()
	defer tt.unlockAllStripes()
	for i := range tt.entries {
		tt.entries[i] = ttEntry{}
	}
}

func (tt *TranspositionTable) Probe(key searchKey) (int, bool) {
	slot := mixKey(key)
	stripe := tt.stripeIndex(slot)
	tt.stripeLocks[stripe].RLock()
	defer tt.stripeLocks[stripe].RUnlock()
	start := tt.bucketIndex(slot)
	for i := 0; i < tt.buckets; i++ {
		entry := tt.entries[start+i]
		if entry.Valid && entry.Key == key {
			return entry.Score, true
		}
	}
	return 0, false
}

// Store writes the score for a key. Rewriting the same key keeps the table
// idempotent; when a bucket is full the shallowest entry is evicted so
// deeper results survive.
func (tt *TranspositionTable) Store(key searchKey, score int) {
	slot := mixKey(key)
	stripe := tt.stripeIndex(slot)
	tt.stripeLocks[stripe].Lock()
	defer tt.stripeLocks[stripe].Unlock()
	start := tt.bucketIndex(slot)
	for i := 0; i < tt.buckets; i++ {
		idx := start + i
		if tt.entries[idx].Valid && tt.entries[idx].Key == key {
			tt.entries[idx].Score = score
			return
		}
	}
	for i := 0; i < tt.buckets; i++ {
		idx := start + i
		if !tt.entries[idx].Valid {
			tt.entries[idx] = ttEntry{Key: key, Score: score, Valid: true}
			return
		}
	}
	victim := start
	for i := 1; i < tt.buckets; i++ {
		idx := start + i
		if tt.entries[idx].Key.Depth < tt.entries[victim].Key.Depth {
			victim = idx
		}
	}
	if tt.entries[victim].Key.Depth > key.Depth {
		return
	}
	tt.entries[victim] = ttEntry{Key: key, Score: score, Valid: true}
}

func (tt *TranspositionTable) Count() int {
	tt.lockAllStripesRead()
	defer tt.unlockAllStripesRead()
	count := 0
	for i := range tt.entries {
		if tt.entries[i].Valid {
			count++
		}
	}
	return count
}

func (tt *TranspositionTable) Capacity() int {
	if tt == nil {
		return 0
	}
	return len(tt.entries)
}

func (tt *TranspositionTable) bucketIndex(slot uint64) int {
	return int(slot&tt.mask) * tt.buckets
}

func (tt *TranspositionTable) stripeIndex(slot uint64) int {
	return int((slot & tt.mask) & tt.stripeMask)
}

func (tt *TranspositionTable) lockAllStripes() {
	for i := range tt.stripeLocks {
		tt.stripeLocks[i].Lock()
	}
}

func (tt *TranspositionTable) unlockAllStripes() {
	for i := len(tt.stripeLocks) - 1; i >= 0; i-- {
		tt.stripeLocks[i].Unlock()
	}
}

func (tt *TranspositionTable) lockAllStripesRead() {
	for i := range tt.stripeLocks {
		tt.stripeLocks[i].RLock()
	}
}

func (tt *TranspositionTable) unlockAllStripesRead() {
	for i := len(tt.stripeLocks) - 1; i >= 0; i-- {
		tt.stripeLocks[i].RUnlock()
	}
}

// mixKey folds depth and the maximizing flag into the board hash so keys
// differing only in depth or side land in different slots.
func mixKey(key searchKey) uint64 {
	mixed := key.Hash ^ (uint64(uint32(key.Depth)) * 0x9e3779b97f4a7c15)
	if key.Maximizing {
		mixed ^= 0xbf58476d1ce4e5b9
	}
	mixed ^= mixed >> 29
	mixed *= 0x94d049bb133111eb
	mixed ^= mixed >> 32
	return mixed
}

func nextPowerOfTwo(v uint64) uint64 {
	v--
	v |= v >> 1
	v |= v >> 2
	v |= v >> 4
	v |= v >> 8
	v |= v >> 16
	v |= v >> 32
	v++
	return v
}

type searchCacheStore struct {
	mu      sync.Mutex
	tt      *TranspositionTable
	size    int
	buckets int
}

var sharedSearchCache = &searchCacheStore{}

// SharedSearchCache returns the process-wide transposition table, rebuilding
// it when the configured sizing changed.
func SharedSearchCache(config Config) *TranspositionTable {
	sharedSearchCache.mu.Lock()
	defer sharedSearchCache.mu.Unlock()
	size := config.AiTtSize
	if size <= 0 {
		size = 1 << 16
	}
	buckets := config.AiTtBuckets
	if buckets <= 0 {
		buckets = 2
	}
	if sharedSearchCache.tt == nil || sharedSearchCache.size != size || sharedSearchCache.buckets != buckets {
		sharedSearchCache.tt = NewTranspositionTable(uint64(size), buckets)
		sharedSearchCache.size = size
		sharedSearchCache.buckets = buckets
	}
	return sharedSearchCache.tt
}

func FlushSearchCache() {
	sharedSearchCache.mu.Lock()
	tt := sharedSearchCache.tt
	sharedSearchCache.mu.Unlock()
	if tt != nil {
		tt.Clear()
	}
}

func TranspositionSize() int {
	sharedSearchCache.mu.Lock()
	tt := sharedSearchCache.tt
	sharedSearchCache.mu.Unlock()
	if tt == nil {
		return 0
	}
	return tt.Count()
}

package cache

import (
	"hash/maphash"
)

const numShards = 16

// ShardedLRU distributes string-keyed entries over independent LRU shards.
type ShardedLRU[V any] struct {
	shards [numShards]*LRU[string, V]
	seed   maphash.Seed
}

// NewShardedLRU creates a cache holding roughly capacity entries in total.
func NewShardedLRU[V any](capacity int) *ShardedLRU[V] {
	perShard := max(capacity/numShards, 1)

	s := &ShardedLRU[V]{seed: maphash.MakeSeed()}
	for i := range numShards {
		s.shards[i] = NewLRU[string, V](perShard)
	}
	return s
}

func (s *ShardedLRU[V]) shard(key string) *LRU[string, V] {
	return s.shards[maphash.String(s.seed, key)%numShards]
}

// Get returns a cached value.
func (s *ShardedLRU[V]) Get(key string) (V, bool) {
	return s.shard(key).Get(key)
}

// Set stores a value.
func (s *ShardedLRU[V]) Set(key string, value V) {
	s.shard(key).Set(key, value)
}

// Purge drops every entry.
func (s *ShardedLRU[V]) Purge() {
	for _, sh := range s.shards {
		sh.Purge()
	}
}

// Len returns the number of cached entries.
func (s *ShardedLRU[V]) Len() int {
	n := 0
	for _, sh := range s.shards {
		n += sh.Len()
	}
	return n
}

// Stats aggregates hit and miss counters across shards.
func (s *ShardedLRU[V]) Stats() (hits, misses int64) {
	for _, sh := range s.shards {
		h, m := sh.Stats()
		hits += h
		misses += m
	}
	return hits, misses
}

// Package cache provides a sharded, size-bounded LRU cache.
//
// Entries are spread across shards by a maphash of the key so that concurrent
// readers rarely contend on the same mutex.
package cache

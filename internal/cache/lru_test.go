package cache

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLRU_Eviction(t *testing.T) {
	c := NewLRU[string, int](2)
	c.Set("a", 1)
	c.Set("b", 2)

	_, ok := c.Get("a")
	assert.True(t, ok)

	c.Set("c", 3)
	_, ok = c.Get("b")
	assert.False(t, ok, "b was least recently used")

	v, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)
	assert.Equal(t, 2, c.Len())

	hits, misses := c.Stats()
	assert.Equal(t, int64(2), hits)
	assert.Equal(t, int64(1), misses)
}

func TestLRU_Update(t *testing.T) {
	c := NewLRU[string, int](1)
	c.Set("a", 1)
	c.Set("a", 2)

	v, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 2, v)
	assert.Equal(t, 1, c.Len())

	c.Purge()
	assert.Zero(t, c.Len())
}

func TestShardedLRU(t *testing.T) {
	c := NewShardedLRU[int](1024)

	var wg sync.WaitGroup
	for w := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range 50 {
				key := fmt.Sprintf("k%d", i)
				c.Set(key, i)
				v, ok := c.Get(key)
				if ok {
					assert.Equal(t, i, v, "worker %d", w)
				}
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, c.Len())
	hits, misses := c.Stats()
	assert.Equal(t, int64(400), hits+misses)

	c.Purge()
	assert.Zero(t, c.Len())
}

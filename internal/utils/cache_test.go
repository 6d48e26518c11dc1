package utils

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_BasicOperations(t *testing.T) {
	cache := NewCache[string, int]()

	cache.Set("key1", 42)
	value, exists := cache.Get("key1")
	assert.True(t, exists)
	assert.Equal(t, 42, value)

	_, exists = cache.Get("nonexistent")
	assert.False(t, exists)

	cache.Delete("key1")
	_, exists = cache.Get("key1")
	assert.False(t, exists)

	stats := cache.GetStats()
	assert.Equal(t, 1, stats.Hits)
	assert.Equal(t, 2, stats.Misses)
}

func TestCache_Clear(t *testing.T) {
	cache := NewCache[string, string]()
	cache.Set("key1", "value1")
	cache.Set("key2", "value2")
	_, _ = cache.Get("key1")
	require.Equal(t, 2, cache.Size())

	cache.Clear()

	assert.Equal(t, CacheStats{}, cache.GetStats())
}

func TestCache_FileValidation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Box.rdecl")
	require.NoError(t, os.WriteFile(path, []byte("class Box {}"), 0644))

	cache := NewCache[string, string]()
	require.NoError(t, cache.SetWithFileInfo(path, "cached", path))

	value, ok := cache.GetWithFileValidation(path, path)
	require.True(t, ok)
	assert.Equal(t, "cached", value)

	later := time.Now().Add(time.Second)
	require.NoError(t, os.WriteFile(path, []byte("class Box<T> {}"), 0644))
	require.NoError(t, os.Chtimes(path, later, later))

	_, ok = cache.GetWithFileValidation(path, path)
	assert.False(t, ok)
	assert.Equal(t, 0, cache.Size(), "stale entries are dropped")
}

func TestCache_SetWithFileInfoMissingFile(t *testing.T) {
	cache := NewCache[string, string]()
	err := cache.SetWithFileInfo("missing", "value", filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
	assert.Equal(t, 0, cache.Size())
}

func TestCache_ConcurrentAccess(t *testing.T) {
	cache := NewCache[int, int]()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			cache.Set(i, i*i)
			_, _ = cache.Get(i)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 50, cache.Size())
	v, ok := cache.Get(7)
	assert.True(t, ok)
	assert.Equal(t, 49, v)
}

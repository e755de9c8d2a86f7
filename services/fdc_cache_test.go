package services

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shivtchandra/food-analysis/models"
)

func tempCache(t *testing.T) *FDCCache {
	t.Helper()
	return NewFDCCache(filepath.Join(t.TempDir(), "fdc_cache.json"))
}

func TestCacheMissThenHit(t *testing.T) {
	c := tempCache(t)

	_, ok := c.Get("apple")
	assert.False(t, ok)

	entry := models.CacheEntry{
		Nutrients:  models.NutrientVector{models.KeyCalories: 52},
		Provenance: models.Provenance{Source: models.SourceFDC, FdcID: 123},
		Timestamp:  1700000000,
	}
	require.NoError(t, c.Put("apple", entry))

	got, ok := c.Get("apple")
	require.True(t, ok)
	assert.Equal(t, entry, got)
}

func TestCachePersistsAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fdc_cache.json")

	c1 := NewFDCCache(path)
	entry := models.CacheEntry{
		Nutrients:  models.NutrientVector{models.KeySodium: 2300},
		Provenance: models.Provenance{Source: models.SourceFDC},
		Timestamp:  1700000001,
	}
	require.NoError(t, c1.Put("instant noodles", entry))

	c2 := NewFDCCache(path)
	got, ok := c2.Get("instant noodles")
	require.True(t, ok)
	assert.Equal(t, entry, got)
}

func TestCacheWriteOnce(t *testing.T) {
	c := tempCache(t)

	first := models.CacheEntry{
		Nutrients: models.NutrientVector{models.KeyCalories: 100},
		Timestamp: 1,
	}
	second := models.CacheEntry{
		Nutrients: models.NutrientVector{models.KeyCalories: 999},
		Timestamp: 2,
	}
	require.NoError(t, c.Put("rice", first))
	require.NoError(t, c.Put("rice", second))

	got, ok := c.Get("rice")
	require.True(t, ok)
	assert.Equal(t, first, got)
}

func TestCacheStoresEmptyVectors(t *testing.T) {
	c := tempCache(t)

	require.NoError(t, c.Put("nonsense query", models.CacheEntry{
		Nutrients:  models.NutrientVector{},
		Provenance: models.Provenance{Source: models.SourceNoResults},
	}))

	got, ok := c.Get("nonsense query")
	require.True(t, ok)
	assert.Empty(t, got.Nutrients)
	assert.Equal(t, models.SourceNoResults, got.Provenance.Source)
}

func TestCacheConcurrentAccess(t *testing.T) {
	c := tempCache(t)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			key := string(rune('a' + n%4))
			_ = c.Put(key, models.CacheEntry{
				Nutrients: models.NutrientVector{models.KeyCalories: float64(n)},
				Timestamp: int64(n),
			})
			_, _ = c.Get(key)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 4, c.Len())
}

func TestCacheIgnoresCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fdc_cache.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	c := NewFDCCache(path)
	_, ok := c.Get("anything")
	assert.False(t, ok)

	require.NoError(t, c.Put("anything", models.CacheEntry{Timestamp: 5}))
	_, ok = c.Get("anything")
	assert.True(t, ok)
}

package tiles

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"profview/internal/domain"
	"profview/internal/store"
)

func testRow(t *testing.T) *store.Row {
	t.Helper()
	lane := []string{"n0", "cpu", "c0"}
	st, _ := store.Ingest([]domain.Record{
		{Lane: lane, Start: 0, Stop: 10, Color: "1"},
		{Lane: lane, Start: 5, Stop: 40},
		{Lane: lane, Start: 20, Stop: 30},
		{Lane: lane, Start: 33, Stop: 33},
		{Lane: lane, Start: 70, Stop: 90},
	}, store.IngestOptions{KindLevel: 1})
	require.Len(t, st.Rows(), 1)
	return st.Rows()[0]
}

func TestBucketWidth(t *testing.T) {
	assert.Equal(t, domain.Timestamp(1), BucketWidth(0.01, 64))
	assert.Equal(t, domain.Timestamp(64), BucketWidth(1, 64))
	assert.Equal(t, domain.Timestamp(128), BucketWidth(1.5, 64))
	assert.Equal(t, BucketWidth(1.2, 64), BucketWidth(1.9, 64), "small zoom steps keep the width")
}

func TestBucketMath(t *testing.T) {
	assert.Equal(t, int64(-1), BucketOf(-1, 16))
	assert.Equal(t, int64(0), BucketOf(15, 16))
	assert.Equal(t, int64(1), BucketOf(16, 16))
	assert.Equal(t, domain.NewInterval(-16, 0), BucketSpan(-1, 16))

	first, last := BucketRange(domain.NewInterval(10, 32), 16)
	assert.Equal(t, int64(0), first)
	assert.Equal(t, int64(1), last, "stop is exclusive")
}

func TestBuildClipsToBucket(t *testing.T) {
	row := testRow(t)
	tile := Build(row, 1, 16)

	assert.Equal(t, domain.NewInterval(16, 32), tile.Span)
	require.Len(t, tile.Rects, 2)
	assert.Equal(t, domain.Timestamp(16), tile.Rects[0].Start)
	assert.Equal(t, domain.Timestamp(32), tile.Rects[0].Stop)
	assert.Equal(t, 1, tile.Rects[0].SubRow)
	assert.Equal(t, domain.Timestamp(20), tile.Rects[1].Start)
	assert.Equal(t, domain.Timestamp(30), tile.Rects[1].Stop)

	point := Build(row, 2, 16)
	var zero []Rect
	for _, rect := range point.Rects {
		if rect.Start == rect.Stop {
			zero = append(zero, rect)
		}
	}
	require.Len(t, zero, 1)
	assert.Equal(t, domain.Timestamp(33), zero[0].Start)
}

func TestGetOrBuildCachesAndIsDeterministic(t *testing.T) {
	row := testRow(t)
	cache := NewCache(8, nil)

	first := cache.GetOrBuild(row, 0, 16)
	again := cache.GetOrBuild(row, 0, 16)
	assert.Same(t, first, again)
	assert.Equal(t, int64(1), cache.Stats().Hits)
	assert.Equal(t, int64(1), cache.Stats().Misses)

	cache.Purge()
	rebuilt := cache.GetOrBuild(row, 0, 16)
	assert.NotSame(t, first, rebuilt)
	assert.Equal(t, first, rebuilt)
}

func TestEmptyBucketIsCached(t *testing.T) {
	row := testRow(t)
	cache := NewCache(8, nil)
	tile := cache.GetOrBuild(row, 50, 16)
	assert.True(t, tile.Empty())
	cache.GetOrBuild(row, 50, 16)
	assert.Equal(t, int64(1), cache.Stats().Misses)
}

func TestLRUCeiling(t *testing.T) {
	row := testRow(t)
	cache := NewCache(3, nil)
	for bucket := int64(0); bucket < 3; bucket++ {
		cache.GetOrBuild(row, bucket, 16)
	}
	cache.GetOrBuild(row, 0, 16)
	cache.GetOrBuild(row, 3, 16)

	assert.Equal(t, 3, cache.Len())
	_, ok := cache.Peek(Key{Row: row.ID, Bucket: 1, Width: 16})
	assert.False(t, ok, "least recently used tile is evicted")
	_, ok = cache.Peek(Key{Row: row.ID, Bucket: 0, Width: 16})
	assert.True(t, ok)
	assert.Equal(t, int64(1), cache.Stats().Evictions)
}

func TestPruneKeepsNeighboursAndOtherWidths(t *testing.T) {
	row := testRow(t)
	cache := NewCache(64, nil)
	for bucket := int64(0); bucket < 10; bucket++ {
		cache.GetOrBuild(row, bucket, 16)
	}
	cache.GetOrBuild(row, 0, 32)

	removed := cache.Prune(domain.NewInterval(64, 96), 16)
	// visible buckets 4..5, neighbours 3 and 6 stay
	assert.Equal(t, 6, removed)
	for bucket := int64(3); bucket <= 6; bucket++ {
		_, ok := cache.Peek(Key{Row: row.ID, Bucket: bucket, Width: 16})
		assert.True(t, ok, "bucket %d", bucket)
	}
	_, ok := cache.Peek(Key{Row: row.ID, Bucket: 0, Width: 32})
	assert.True(t, ok)
}

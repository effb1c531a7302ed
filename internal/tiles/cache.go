// Package tiles caches drawable geometry per (row, time bucket, bucket width).
// Geometry is kept in time and sub-row coordinates so it survives panning and
// vertical scrolling; only a change of bucket width makes a tile unreachable.
package tiles

import (
	"container/list"

	"go.uber.org/zap"

	"profview/internal/domain"
	"profview/internal/store"
)

const DefaultMaxTiles = 4096

type Key struct {
	Row    store.RowID
	Bucket int64
	Width  domain.Timestamp
}

// Rect is one interval clipped to its tile. Item indexes the owning row.
type Rect struct {
	Start  domain.Timestamp
	Stop   domain.Timestamp
	SubRow int
	Item   int
	Color  domain.ColorTag
}

type Tile struct {
	Key   Key
	Span  domain.Interval
	Rects []Rect
}

func (tile *Tile) Empty() bool {
	return len(tile.Rects) == 0
}

type Stats struct {
	Hits      int64
	Misses    int64
	Evictions int64
	Tiles     int
}

// Cache is an LRU of tiles bounded by a tile-count ceiling. It is driven from
// the frame loop and is not safe for concurrent use.
type Cache struct {
	items    map[Key]*list.Element
	lruList  *list.List
	maxTiles int

	hits      int64
	misses    int64
	evictions int64

	logger *zap.Logger
}

func NewCache(maxTiles int, logger *zap.Logger) *Cache {
	if maxTiles <= 0 {
		maxTiles = DefaultMaxTiles
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cache{
		items:    make(map[Key]*list.Element),
		lruList:  list.New(),
		maxTiles: maxTiles,
		logger:   logger,
	}
}

// GetOrBuild returns the cached tile for the key or builds it from the row.
// A bucket with no intervals is cached as an empty tile and never retried.
func (c *Cache) GetOrBuild(row *store.Row, bucket int64, width domain.Timestamp) *Tile {
	key := Key{Row: row.ID, Bucket: bucket, Width: width}
	if element, ok := c.items[key]; ok {
		c.lruList.MoveToFront(element)
		c.hits++
		return element.Value.(*Tile)
	}
	c.misses++
	tile := Build(row, bucket, width)
	c.items[key] = c.lruList.PushFront(tile)
	for c.lruList.Len() > c.maxTiles {
		c.removeElement(c.lruList.Back())
		c.evictions++
	}
	return tile
}

// Build derives the geometry of one bucket. It is pure: the same row, bucket
// and width always produce equal tiles.
func Build(row *store.Row, bucket int64, width domain.Timestamp) *Tile {
	span := BucketSpan(bucket, width)
	tile := &Tile{Key: Key{Row: row.ID, Bucket: bucket, Width: width}, Span: span}
	layout := row.Layout()
	for index, item := range row.QueryIndex(span.Start, span.Stop) {
		clipped := item.Interval.Intersection(span)
		if item.Start == item.Stop {
			clipped = item.Interval
		}
		tile.Rects = append(tile.Rects, Rect{
			Start:  clipped.Start,
			Stop:   clipped.Stop,
			SubRow: layout.SubRowOf[index],
			Item:   index,
			Color:  item.Color,
		})
	}
	return tile
}

func (c *Cache) Peek(key Key) (*Tile, bool) {
	element, ok := c.items[key]
	if !ok {
		return nil, false
	}
	return element.Value.(*Tile), true
}

// Prune drops tiles of the active width lying more than one bucket outside
// the view. Tiles of other widths are left to the LRU ceiling.
func (c *Cache) Prune(view domain.Interval, width domain.Timestamp) int {
	first, last := BucketRange(view, width)
	var stale []*list.Element
	for key, element := range c.items {
		if key.Width != width {
			continue
		}
		if key.Bucket < first-1 || key.Bucket > last+1 {
			stale = append(stale, element)
		}
	}
	for _, element := range stale {
		c.removeElement(element)
	}
	c.evictions += int64(len(stale))
	if len(stale) > 0 {
		c.logger.Debug("Pruned off-screen tiles",
			zap.Int("count", len(stale)),
			zap.Int64("width_ns", int64(width)),
			zap.Int("remaining", c.lruList.Len()),
		)
	}
	return len(stale)
}

// Purge drops every tile, used when a profile is reloaded.
func (c *Cache) Purge() {
	c.items = make(map[Key]*list.Element)
	c.lruList.Init()
}

func (c *Cache) Len() int {
	return c.lruList.Len()
}

func (c *Cache) Stats() Stats {
	return Stats{Hits: c.hits, Misses: c.misses, Evictions: c.evictions, Tiles: c.lruList.Len()}
}

func (c *Cache) removeElement(element *list.Element) {
	if element == nil {
		return
	}
	tile := element.Value.(*Tile)
	c.lruList.Remove(element)
	delete(c.items, tile.Key)
}

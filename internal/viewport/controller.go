// Package viewport owns the visible time range, zoom and vertical scroll of
// one profile and composes vertical culling from the node tree with
// horizontal culling over the tile cache.
package viewport

import (
	"profview/internal/domain"
	"profview/internal/tiles"
	"profview/internal/tree"
)

type Options struct {
	// TileColumns is the approximate pixel width of one tile bucket.
	TileColumns int
	// MinNsPerPixel bounds zooming in.
	MinNsPerPixel float64
}

func DefaultOptions() Options {
	return Options{TileColumns: 64, MinNsPerPixel: 1}
}

type Controller struct {
	vp     Viewport
	bounds domain.Interval
	tree   *tree.Tree
	tiles  *tiles.Cache
	opts   Options
}

// FrameTile is a cached tile paired with the layout entry it belongs to.
type FrameTile struct {
	Entry int
	Tile  *tiles.Tile
}

type Frame struct {
	Viewport    Viewport
	BucketWidth domain.Timestamp
	Entries     []tree.VisibleRow
	Tiles       []FrameTile
}

func NewController(tr *tree.Tree, cache *tiles.Cache, bounds domain.Interval, opts Options) *Controller {
	if opts.TileColumns <= 0 {
		opts.TileColumns = DefaultOptions().TileColumns
	}
	if opts.MinNsPerPixel <= 0 {
		opts.MinNsPerPixel = DefaultOptions().MinNsPerPixel
	}
	if bounds.Stop <= bounds.Start {
		bounds.Stop = bounds.Start + 1
	}
	controller := &Controller{tree: tr, tiles: cache, bounds: bounds, opts: opts}
	controller.Fit()
	return controller
}

func (c *Controller) Viewport() Viewport {
	return c.vp
}

func (c *Controller) Bounds() domain.Interval {
	return c.bounds
}

func (c *Controller) Tree() *tree.Tree {
	return c.tree
}

func (c *Controller) Tiles() *tiles.Cache {
	return c.tiles
}

// Fit shows the whole dataset.
func (c *Controller) Fit() {
	c.vp.Start = float64(c.bounds.Start)
	c.vp.Stop = float64(c.bounds.Stop)
}

// Resize keeps the visible time range and adapts the pixel mapping.
func (c *Controller) Resize(width, height int) {
	c.vp.Width = max(width, 1)
	c.vp.Height = max(height, 0)
	if c.vp.Duration() < c.minDuration() {
		c.Zoom(domain.Timestamp(c.vp.Start), 1)
	}
	c.clampScroll()
}

func (c *Controller) minDuration() float64 {
	return float64(max(c.vp.Width, 1)) * c.opts.MinNsPerPixel
}

func (c *Controller) maxDuration() float64 {
	return max(float64(c.bounds.Duration()), c.minDuration())
}

// Zoom rescales the view by factor (>1 zooms in) keeping focus at the same
// pixel column. Out-of-range factors are clamped; the return value reports
// whether clamping happened.
func (c *Controller) Zoom(focus domain.Timestamp, factor float64) bool {
	return c.zoomAround(float64(focus), factor)
}

// ZoomAt zooms around the time under pixel column x.
func (c *Controller) ZoomAt(x float64, factor float64) bool {
	return c.zoomAround(c.vp.TimeAtFloat(x), factor)
}

func (c *Controller) zoomAround(focus float64, factor float64) bool {
	if factor <= 0 {
		return true
	}
	duration := c.vp.Duration()
	wanted := duration / factor
	clamped := min(max(wanted, c.minDuration()), c.maxDuration())
	fraction := 0.0
	if duration > 0 {
		fraction = (focus - c.vp.Start) / duration
	}
	c.vp.Start = focus - fraction*clamped
	c.vp.Stop = c.vp.Start + clamped
	return clamped != wanted
}

// Pan shifts the view by dx pixels, keeping its centre inside the dataset.
func (c *Controller) Pan(dx float64) {
	shift := dx * c.vp.NsPerPixel()
	duration := c.vp.Duration()
	center := c.vp.Start + duration/2 + shift
	center = min(max(center, float64(c.bounds.Start)), float64(c.bounds.Stop))
	c.vp.Start = center - duration/2
	c.vp.Stop = c.vp.Start + duration
}

func (c *Controller) ScrollBy(dy int) {
	c.vp.ScrollY += dy
	c.clampScroll()
}

func (c *Controller) clampScroll() {
	limit := max(c.tree.TotalHeight()-c.vp.Height, 0)
	c.vp.ScrollY = min(max(c.vp.ScrollY, 0), limit)
}

func (c *Controller) BucketWidth() domain.Timestamp {
	return tiles.BucketWidth(c.vp.NsPerPixel(), c.opts.TileColumns)
}

// FrameLayout resolves the current frame: visible layout entries and, for
// every visible row entry, the tiles whose bucket intersects the view.
// Tiles far outside the view are pruned afterwards.
func (c *Controller) FrameLayout() Frame {
	c.clampScroll()
	vp := c.vp
	width := c.BucketWidth()
	frame := Frame{
		Viewport:    vp,
		BucketWidth: width,
		Entries:     c.tree.VisibleRows(vp.ScrollY, vp.ScrollY+vp.Height),
	}
	visible := vp.Visible()
	first, last := tiles.BucketRange(visible, width)
	for index, entry := range frame.Entries {
		if entry.Kind != tree.EntryRow {
			continue
		}
		for bucket := first; bucket <= last; bucket++ {
			frame.Tiles = append(frame.Tiles, FrameTile{
				Entry: index,
				Tile:  c.tiles.GetOrBuild(entry.Row, bucket, width),
			})
		}
	}
	c.tiles.Prune(visible, width)
	return frame
}

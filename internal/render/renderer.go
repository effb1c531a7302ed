package render

import (
	"math"
	"strings"

	"github.com/muesli/reflow/truncate"

	"profview/internal/domain"
	"profview/internal/interact"
	"profview/internal/tiles"
	"profview/internal/tree"
	"profview/internal/viewport"
)

const (
	expandedMarker  = "▾ "
	collapsedMarker = "▸ "
	leafMarker      = "  "
)

type Options struct {
	LabelWidth  int
	AxisHeight  int
	TickSpacing int
	AxisColor   domain.ColorTag
	CursorColor domain.ColorTag
	HoverColor  domain.ColorTag
}

func DefaultOptions() Options {
	return Options{
		LabelWidth:  24,
		AxisHeight:  1,
		TickSpacing: 16,
		AxisColor:   "244",
		CursorColor: "15",
		HoverColor:  "231",
	}
}

// Renderer emits the primitives for one frame. The timeline starts at column
// LabelWidth and the lane area at row AxisHeight.
type Renderer struct {
	opts   Options
	styles *domain.StyleTable
	util   *interact.Utilization
}

func New(opts Options, styles *domain.StyleTable, util *interact.Utilization) *Renderer {
	if styles == nil {
		styles = domain.DefaultStyleTable()
	}
	if opts.TickSpacing <= 0 {
		opts.TickSpacing = DefaultOptions().TickSpacing
	}
	return &Renderer{opts: opts, styles: styles, util: util}
}

// WithUtilization returns a renderer drawing summaries from util.
func (r *Renderer) WithUtilization(util *interact.Utilization) *Renderer {
	copied := *r
	copied.util = util
	return &copied
}

func (r *Renderer) Options() Options {
	return r.opts
}

// Frame draws axis, labels, interval rectangles, summary plots, the hovered
// interval and finally the cursor, in that order.
func (r *Renderer) Frame(backend Backend, frame viewport.Frame, cursor interact.Cursor, hover *interact.Hit) {
	r.axis(backend, frame.Viewport)
	for _, entry := range frame.Entries {
		r.label(backend, frame.Viewport, entry)
		switch entry.Kind {
		case tree.EntrySummary, tree.EntryCollapsed:
			r.utilization(backend, frame.Viewport, entry)
		}
	}
	for _, ft := range frame.Tiles {
		r.tile(backend, frame.Viewport, frame.Entries[ft.Entry], ft.Tile)
	}
	if hover != nil && hover.Found() {
		r.hover(backend, frame.Viewport, *hover)
	}
	if at, ok := cursor.Time(); ok {
		r.cursor(backend, frame.Viewport, at)
	}
}

func (r *Renderer) axis(backend Backend, vp viewport.Viewport) {
	if r.opts.AxisHeight <= 0 {
		return
	}
	next := 0
	for _, tick := range Ticks(vp, r.opts.TickSpacing) {
		if tick.X < next {
			continue
		}
		label := "|" + tick.Time.String()
		backend.DrawText(Text{X: r.opts.LabelWidth + tick.X, Y: 0, Text: label, Color: r.opts.AxisColor})
		next = tick.X + len([]rune(label)) + 1
	}
}

func (r *Renderer) label(backend Backend, vp viewport.Viewport, entry tree.VisibleRow) {
	// An entry partly scrolled off the top keeps its label on the first row.
	y := r.opts.AxisHeight + max(entry.Y-vp.ScrollY, 0)
	if r.opts.LabelWidth <= 0 {
		return
	}
	node := entry.Node
	marker := collapsedMarker
	name := node.Name
	switch {
	case entry.Kind == tree.EntryRow && len(node.Rows) > 0 && entry.Row != node.Rows[0]:
		marker = leafMarker
		name = entry.Row.Lane[len(entry.Row.Lane)-1]
	case node.Expanded:
		marker = expandedMarker
	}
	text := strings.Repeat(" ", max(node.Depth-1, 0)) + marker + name
	backend.DrawText(Text{
		X:     0,
		Y:     y,
		Text:  truncate.StringWithTail(text, uint(r.opts.LabelWidth-1), "…"),
		Color: r.styles.Lookup(node.Kind).Color,
		Bold:  entry.Kind != tree.EntryRow,
	})
}

// span converts a time range to clipped timeline columns, at least one wide.
func span(vp viewport.Viewport, iv domain.Interval) (int, int, bool) {
	x0 := int(math.Floor(vp.XOf(iv.Start)))
	x1 := int(math.Ceil(vp.XOf(iv.Stop)))
	if x1 <= x0 {
		x1 = x0 + 1
	}
	x0 = max(x0, 0)
	x1 = min(x1, vp.Width)
	return x0, x1, x1 > x0
}

// rows clips an entry-relative row band to the lane area.
func (r *Renderer) rows(vp viewport.Viewport, top, height int) (int, int, bool) {
	y0 := max(top-vp.ScrollY, 0)
	y1 := min(top+height-vp.ScrollY, vp.Height)
	return y0 + r.opts.AxisHeight, y1 - y0, y1 > y0
}

func (r *Renderer) tile(backend Backend, vp viewport.Viewport, entry tree.VisibleRow, tile *tiles.Tile) {
	rowHeight := max(entry.Height/max(entry.Row.SubRowCount(), 1), 1)
	for _, rect := range tile.Rects {
		x0, x1, ok := span(vp, domain.NewInterval(rect.Start, rect.Stop))
		if !ok {
			continue
		}
		y, h, ok := r.rows(vp, entry.Y+rect.SubRow*rowHeight, rowHeight)
		if !ok {
			continue
		}
		backend.FillRect(Rect{
			X:     r.opts.LabelWidth + x0,
			Y:     y,
			W:     x1 - x0,
			H:     h,
			Color: r.styles.ColorFor(entry.Row.Kind, rect.Color),
			Fill:  1,
		})
	}
}

func (r *Renderer) utilization(backend Backend, vp viewport.Viewport, entry tree.VisibleRow) {
	if r.util == nil {
		return
	}
	y, h, ok := r.rows(vp, entry.Y, entry.Height)
	if !ok {
		return
	}
	width := tiles.BucketWidth(vp.NsPerPixel(), 1)
	color := r.styles.Lookup(entry.Node.Kind).Color
	for _, sample := range r.util.Curve(entry.Node.ID, width, vp.Visible()) {
		if sample.Fraction <= 0 {
			continue
		}
		x0, x1, ok := span(vp, sample.Span)
		if !ok {
			continue
		}
		backend.FillRect(Rect{X: r.opts.LabelWidth + x0, Y: y, W: x1 - x0, H: h, Color: color, Fill: sample.Fraction})
	}
}

func (r *Renderer) hover(backend Backend, vp viewport.Viewport, hit interact.Hit) {
	x0, x1, ok := span(vp, hit.Item.Interval)
	if !ok {
		return
	}
	rowHeight := max(hit.Entry.Height/max(hit.Entry.Row.SubRowCount(), 1), 1)
	y, h, ok := r.rows(vp, hit.Entry.Y+hit.SubRow*rowHeight, rowHeight)
	if !ok {
		return
	}
	backend.FillRect(Rect{X: r.opts.LabelWidth + x0, Y: y, W: x1 - x0, H: h, Color: r.opts.HoverColor, Fill: 1})
}

func (r *Renderer) cursor(backend Backend, vp viewport.Viewport, at domain.Timestamp) {
	x := int(math.Floor(vp.XOf(at)))
	if x < 0 || x >= vp.Width {
		return
	}
	backend.FillRect(Rect{X: r.opts.LabelWidth + x, Y: r.opts.AxisHeight, W: 1, H: vp.Height, Color: r.opts.CursorColor, Fill: 1})
	label := at.String()
	labelX := x + 1
	if labelX+len(label) > vp.Width {
		labelX = x - len(label)
	}
	backend.DrawText(Text{X: r.opts.LabelWidth + max(labelX, 0), Y: r.opts.AxisHeight, Text: label, Color: r.opts.CursorColor, Bold: true})
}

// Package interact answers pointer queries against the current frame:
// hit-testing, cursor tracking and utilization curves for summaries.
package interact

import (
	"math"

	"profview/internal/domain"
	"profview/internal/tree"
	"profview/internal/viewport"
)

// Hit is the result of a pointer query. Index is -1 when the pointer is over
// an entry but not over any interval.
type Hit struct {
	Entry  tree.VisibleRow
	SubRow int
	Index  int
	Item   domain.Item
	Time   domain.Timestamp
}

func (hit Hit) Found() bool {
	return hit.Index >= 0
}

// HitLabel returns the layout entry under lane-area row y.
func HitLabel(frame viewport.Frame, y int) (tree.VisibleRow, bool) {
	absolute := frame.Viewport.ScrollY + y
	for _, entry := range frame.Entries {
		if entry.Contains(absolute) {
			return entry, true
		}
	}
	return tree.VisibleRow{}, false
}

// HitTest maps pixel column x and lane-area row y to the interval under the
// pointer. Only the sub-row under the pointer is searched. An interval whose
// half-open range holds the pointer time wins over one that merely shares
// the pixel.
func HitTest(frame viewport.Frame, x, y int) (Hit, bool) {
	entry, ok := HitLabel(frame, y)
	if !ok {
		return Hit{}, false
	}
	vp := frame.Viewport
	hit := Hit{
		Entry: entry,
		Index: -1,
		Time:  domain.Timestamp(math.Floor(vp.TimeAtFloat(float64(x) + 0.5))),
	}
	if entry.Kind != tree.EntryRow || x < 0 || x >= vp.Width {
		return hit, true
	}
	row := entry.Row
	rowHeight := max(entry.Height/max(row.SubRowCount(), 1), 1)
	hit.SubRow = (frame.Viewport.ScrollY + y - entry.Y) / rowHeight

	best := -1
	for _, index := range row.SubRowItems(hit.SubRow, hit.Time, hit.Time) {
		if row.Item(index).Intersects(hit.Time, hit.Time+1) {
			best = better(row.Item, best, index)
		}
	}
	if best < 0 {
		span := vp.PixelSpan(x)
		for _, index := range row.SubRowItems(hit.SubRow, span.Start, span.Stop) {
			if row.Item(index).Intersects(span.Start, span.Stop) {
				best = better(row.Item, best, index)
			}
		}
	}
	if best >= 0 {
		hit.Index = best
		hit.Item = row.Item(best)
	}
	return hit, true
}

func better(item func(int) domain.Item, current, candidate int) int {
	if current < 0 {
		return candidate
	}
	a, b := item(current), item(candidate)
	switch {
	case b.Duration() != a.Duration():
		if b.Duration() < a.Duration() {
			return candidate
		}
	case b.Start < a.Start:
		return candidate
	}
	return current
}

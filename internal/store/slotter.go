package store

import (
	"container/heap"
	"sort"

	"profview/internal/domain"
)

// Layout assigns every interval of a row to a sub-row so that intervals in
// the same sub-row never overlap.
type Layout struct {
	SubRows  [][]int
	SubRowOf []int
}

type freeSlot struct {
	next  domain.Timestamp
	index int
}

type slotHeap []freeSlot

func (h slotHeap) Len() int { return len(h) }

func (h slotHeap) Less(i, j int) bool {
	if h[i].next != h[j].next {
		return h[i].next < h[j].next
	}
	return h[i].index < h[j].index
}

func (h slotHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *slotHeap) Push(x any) { *h = append(*h, x.(freeSlot)) }

func (h *slotHeap) Pop() any {
	old := *h
	last := old[len(old)-1]
	*h = old[:len(old)-1]
	return last
}

// Slot runs greedy earliest-available-first assignment over items in start
// order. Back-to-back intervals (stop == next start) share a sub-row.
func Slot(items []domain.Item) *Layout {
	layout := &Layout{SubRowOf: make([]int, len(items))}
	free := &slotHeap{}
	for i, item := range items {
		if free.Len() > 0 && (*free)[0].next <= item.Start {
			slot := heap.Pop(free).(freeSlot)
			layout.SubRowOf[i] = slot.index
			layout.SubRows[slot.index] = append(layout.SubRows[slot.index], i)
			heap.Push(free, freeSlot{next: item.Stop, index: slot.index})
			continue
		}
		index := len(layout.SubRows)
		layout.SubRows = append(layout.SubRows, []int{i})
		layout.SubRowOf[i] = index
		heap.Push(free, freeSlot{next: item.Stop, index: index})
	}
	return layout
}

// Layout computes the row's sub-row assignment on first use and caches it.
func (row *Row) Layout() *Layout {
	if row.layout == nil {
		row.layout = Slot(row.items)
	}
	return row.layout
}

func (row *Row) SubRowCount() int {
	return len(row.Layout().SubRows)
}

// SubRowItems returns indices of items in sub-row sub whose closed extent
// touches [lo, hi]. Intervals in a sub-row are disjoint, so stops are sorted
// and a binary search locates the first candidate.
func (row *Row) SubRowItems(sub int, lo, hi domain.Timestamp) []int {
	layout := row.Layout()
	if sub < 0 || sub >= len(layout.SubRows) {
		return nil
	}
	indices := layout.SubRows[sub]
	first := sort.Search(len(indices), func(i int) bool {
		return row.items[indices[i]].Stop >= lo
	})
	var out []int
	for _, index := range indices[first:] {
		if row.items[index].Start > hi {
			break
		}
		out = append(out, index)
	}
	return out
}

// Package store holds ingested intervals grouped into rows, one row per
// logical lane, and the sub-row slotting derived from them.
package store

import (
	"iter"
	"slices"
	"sort"
	"strings"

	"profview/internal/domain"
)

const maxReportedProblems = 32

type RowID int

// Row is the sorted, immutable interval sequence of one lane.
type Row struct {
	ID      RowID
	Lane    []string
	Kind    domain.KindTag
	items   []domain.Item
	maxStop []domain.Timestamp
	span    domain.Interval
	layout  *Layout
}

type Store struct {
	rows   []*Row
	byLane map[string]*Row
	span   domain.Interval
}

type IngestOptions struct {
	// KindLevel is the lane path depth that names the lane kind when a
	// record does not carry one.
	KindLevel int
}

type LoadSummary struct {
	Records  int
	Accepted int
	Dropped  int
	Rows     int
	Span     domain.Interval
	Problems []error
}

func (summary LoadSummary) Empty() bool {
	return summary.Accepted == 0
}

// Ingest groups records by lane path and sorts every row by start, then stop,
// then insertion order. Records with start after stop are dropped and
// reported in the summary.
func Ingest(records []domain.Record, opts IngestOptions) (*Store, LoadSummary) {
	st := &Store{byLane: make(map[string]*Row)}
	summary := LoadSummary{Records: len(records)}

	for index, record := range records {
		lane := record.Lane
		if len(lane) == 0 {
			lane = []string{"unassigned"}
		}
		if record.Start > record.Stop {
			summary.Dropped++
			if len(summary.Problems) < maxReportedProblems {
				summary.Problems = append(summary.Problems, &MalformedIntervalError{
					Lane:  append([]string{}, lane...),
					Index: index,
					Start: record.Start,
					Stop:  record.Stop,
				})
			}
			continue
		}
		key := laneKey(lane)
		row, ok := st.byLane[key]
		if !ok {
			row = &Row{
				ID:   RowID(len(st.rows)),
				Lane: append([]string{}, lane...),
				Kind: ResolveKind(record, lane, opts.KindLevel),
			}
			st.byLane[key] = row
			st.rows = append(st.rows, row)
		}
		row.items = append(row.items, domain.Item{
			Interval: domain.NewInterval(record.Start, record.Stop),
			Label:    record.Label,
			Color:    record.Color,
			Fields:   record.Fields,
			Seq:      index,
		})
		summary.Accepted++
	}

	for i, row := range st.rows {
		row.seal()
		if i == 0 {
			st.span = row.span
		} else {
			st.span = st.span.Union(row.span)
		}
	}
	summary.Rows = len(st.rows)
	summary.Span = st.span
	return st, summary
}

// ResolveKind picks the record's explicit kind or derives it from the lane path.
func ResolveKind(record domain.Record, lane []string, kindLevel int) domain.KindTag {
	if record.Kind != "" {
		return domain.NormalizeKind(string(record.Kind))
	}
	if kindLevel >= 0 && kindLevel < len(lane) {
		return domain.NormalizeKind(lane[kindLevel])
	}
	return domain.KindDefault
}

func laneKey(lane []string) string {
	return strings.Join(lane, "\x1f")
}

func (row *Row) seal() {
	slices.SortStableFunc(row.items, func(a, b domain.Item) int {
		switch {
		case a.Start != b.Start:
			return compareTimestamp(a.Start, b.Start)
		case a.Stop != b.Stop:
			return compareTimestamp(a.Stop, b.Stop)
		default:
			return a.Seq - b.Seq
		}
	})
	row.maxStop = make([]domain.Timestamp, len(row.items))
	for i, item := range row.items {
		row.maxStop[i] = item.Stop
		if i > 0 && row.maxStop[i-1] > item.Stop {
			row.maxStop[i] = row.maxStop[i-1]
		}
	}
	if len(row.items) > 0 {
		row.span = domain.NewInterval(row.items[0].Start, row.maxStop[len(row.maxStop)-1])
	}
}

func compareTimestamp(a, b domain.Timestamp) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func (st *Store) Rows() []*Row {
	return st.rows
}

func (st *Store) Row(id RowID) (*Row, bool) {
	if id < 0 || int(id) >= len(st.rows) {
		return nil, false
	}
	return st.rows[id], true
}

func (st *Store) RowByLane(lane []string) (*Row, bool) {
	row, ok := st.byLane[laneKey(lane)]
	return row, ok
}

func (st *Store) Span() domain.Interval {
	return st.span
}

func (row *Row) Len() int {
	return len(row.items)
}

func (row *Row) Span() domain.Interval {
	return row.span
}

func (row *Row) Item(index int) domain.Item {
	return row.items[index]
}

func (row *Row) Items() []domain.Item {
	return row.items
}

func (row *Row) Name() string {
	if len(row.Lane) == 0 {
		return ""
	}
	return row.Lane[len(row.Lane)-1]
}

// Query yields, in sorted order, the intervals intersecting [lo, hi).
func (row *Row) Query(lo, hi domain.Timestamp) iter.Seq[domain.Item] {
	return func(yield func(domain.Item) bool) {
		for _, item := range row.QueryIndex(lo, hi) {
			if !yield(item) {
				return
			}
		}
	}
}

// QueryIndex is Query with the position of each interval within the row.
//
// The running maximum of stop times is monotone, so a binary search finds the
// first interval that can still reach lo, including long intervals starting
// well before the range. The forward scan ends at the first start >= hi.
func (row *Row) QueryIndex(lo, hi domain.Timestamp) iter.Seq2[int, domain.Item] {
	return func(yield func(int, domain.Item) bool) {
		if hi <= lo {
			return
		}
		first := sort.Search(len(row.items), func(i int) bool {
			return row.maxStop[i] >= lo
		})
		for i := first; i < len(row.items); i++ {
			item := row.items[i]
			if item.Start >= hi {
				return
			}
			if !item.Intersects(lo, hi) {
				continue
			}
			if !yield(i, item) {
				return
			}
		}
	}
}

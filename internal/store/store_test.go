package store

import (
	"errors"
	"math/rand"
	"slices"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"profview/internal/domain"
)

func record(lane []string, start, stop int64) domain.Record {
	return domain.Record{Lane: lane, Start: domain.Timestamp(start), Stop: domain.Timestamp(stop)}
}

func spans(row *Row, indices []int) [][2]int64 {
	out := make([][2]int64, 0, len(indices))
	for _, index := range indices {
		item := row.Item(index)
		out = append(out, [2]int64{int64(item.Start), int64(item.Stop)})
	}
	return out
}

func TestIngestSortsRowsAndSplitsLanes(t *testing.T) {
	cpu := []string{"n0", "cpu", "c0"}
	gpu := []string{"n0", "gpu", "g0"}
	st, summary := Ingest([]domain.Record{
		record(cpu, 20, 30),
		record(gpu, 5, 6),
		record(cpu, 0, 10),
		record(cpu, 0, 5),
	}, IngestOptions{KindLevel: 1})

	assert.Equal(t, 4, summary.Accepted)
	assert.Equal(t, 2, summary.Rows)
	assert.Equal(t, domain.NewInterval(0, 30), st.Span())

	row, ok := st.RowByLane(cpu)
	require.True(t, ok)
	assert.Equal(t, domain.KindTag("cpu"), row.Kind)
	assert.Equal(t, "c0", row.Name())
	assert.Equal(t, [][2]int64{{0, 5}, {0, 10}, {20, 30}}, spans(row, []int{0, 1, 2}))

	gpuRow, ok := st.RowByLane(gpu)
	require.True(t, ok)
	assert.Equal(t, domain.KindTag("gpu"), gpuRow.Kind)
}

func TestIngestTieBreaksByInsertionOrder(t *testing.T) {
	lane := []string{"n0"}
	records := []domain.Record{record(lane, 0, 10), record(lane, 0, 10)}
	records[0].Label = "first"
	records[1].Label = "second"

	st, _ := Ingest(records, IngestOptions{})
	row := st.Rows()[0]
	assert.Equal(t, "first", row.Item(0).Label)
	assert.Equal(t, "second", row.Item(1).Label)
}

func TestIngestDropsMalformedIntervals(t *testing.T) {
	lane := []string{"n0", "cpu", "c0"}
	st, summary := Ingest([]domain.Record{
		record(lane, 0, 10),
		record(lane, 50, 40),
		record(lane, 12, 14),
	}, IngestOptions{KindLevel: 1})

	assert.Equal(t, 3, summary.Records)
	assert.Equal(t, 2, summary.Accepted)
	assert.Equal(t, 1, summary.Dropped)
	require.Len(t, summary.Problems, 1)
	assert.True(t, errors.Is(summary.Problems[0], ErrMalformedInterval))

	var malformed *MalformedIntervalError
	require.True(t, errors.As(summary.Problems[0], &malformed))
	assert.Equal(t, 1, malformed.Index)
	assert.Equal(t, 2, st.Rows()[0].Len())
}

func TestIngestEmpty(t *testing.T) {
	st, summary := Ingest(nil, IngestOptions{})
	assert.True(t, summary.Empty())
	assert.Empty(t, st.Rows())
}

func TestQueryFindsIntervalsStartingBeforeRange(t *testing.T) {
	lane := []string{"n0"}
	st, _ := Ingest([]domain.Record{
		record(lane, 0, 100),
		record(lane, 10, 12),
		record(lane, 40, 45),
		record(lane, 60, 70),
		record(lane, 70, 70),
		record(lane, 200, 210),
	}, IngestOptions{})
	row := st.Rows()[0]

	var got [][2]int64
	for item := range row.Query(50, 71) {
		got = append(got, [2]int64{int64(item.Start), int64(item.Stop)})
	}
	assert.Equal(t, [][2]int64{{0, 100}, {60, 70}, {70, 70}}, got)

	got = nil
	for item := range row.Query(100, 200) {
		got = append(got, [2]int64{int64(item.Start), int64(item.Stop)})
	}
	assert.Empty(t, got, "half-open range excludes intervals ending at lo and starting at hi")

	count := 0
	for range row.Query(30, 30) {
		count++
	}
	assert.Zero(t, count)
}

func TestQueryMatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	lane := []string{"n0"}
	records := make([]domain.Record, 0, 400)
	for i := 0; i < 400; i++ {
		start := rng.Int63n(10_000)
		records = append(records, record(lane, start, start+rng.Int63n(800)))
	}
	st, _ := Ingest(records, IngestOptions{})
	row := st.Rows()[0]

	for trial := 0; trial < 50; trial++ {
		lo := domain.Timestamp(rng.Int63n(11_000))
		hi := lo + domain.Timestamp(rng.Int63n(2_000)+1)
		var want []int
		for i, item := range row.Items() {
			if item.Intersects(lo, hi) {
				want = append(want, i)
			}
		}
		var got []int
		for index := range row.QueryIndex(lo, hi) {
			got = append(got, index)
		}
		assert.Equal(t, want, got, "range [%d,%d)", lo, hi)
	}
}

func TestSlotExample(t *testing.T) {
	lane := []string{"n0"}
	st, _ := Ingest([]domain.Record{
		record(lane, 0, 10),
		record(lane, 5, 15),
		record(lane, 20, 30),
	}, IngestOptions{})
	row := st.Rows()[0]
	layout := row.Layout()

	require.Len(t, layout.SubRows, 2)
	assert.Equal(t, [][2]int64{{0, 10}, {20, 30}}, spans(row, layout.SubRows[0]))
	assert.Equal(t, [][2]int64{{5, 15}}, spans(row, layout.SubRows[1]))
	assert.Same(t, layout, row.Layout(), "layout is cached")
}

func TestSlotBackToBackSharesSubRow(t *testing.T) {
	lane := []string{"n0"}
	st, _ := Ingest([]domain.Record{
		record(lane, 0, 10),
		record(lane, 10, 20),
		record(lane, 20, 20),
		record(lane, 20, 25),
	}, IngestOptions{})
	assert.Equal(t, 1, st.Rows()[0].SubRowCount())
}

func TestSlotEarliestAvailableFirst(t *testing.T) {
	lane := []string{"n0"}
	st, _ := Ingest([]domain.Record{
		record(lane, 0, 8),
		record(lane, 1, 4),
		record(lane, 9, 12),
	}, IngestOptions{})
	row := st.Rows()[0]
	layout := row.Layout()
	// sub-row 1 frees at 4, sub-row 0 at 8: the earliest free wins.
	assert.Equal(t, 1, layout.SubRowOf[2])
}

func maxConcurrency(items []domain.Item) int {
	type edge struct {
		at    domain.Timestamp
		delta int
	}
	edges := make([]edge, 0, len(items)*2)
	for _, item := range items {
		edges = append(edges, edge{item.Start, 1}, edge{item.Stop, -1})
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].at != edges[j].at {
			return edges[i].at < edges[j].at
		}
		return edges[i].delta < edges[j].delta
	})
	best, current := 0, 0
	for _, e := range edges {
		current += e.delta
		best = max(best, current)
	}
	return best
}

func TestSlotNoOverlapAndMinimal(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for trial := 0; trial < 25; trial++ {
		lane := []string{"n0"}
		records := make([]domain.Record, 0, 200)
		for i := 0; i < 200; i++ {
			start := rng.Int63n(5_000)
			records = append(records, record(lane, start, start+1+rng.Int63n(400)))
		}
		st, _ := Ingest(records, IngestOptions{})
		row := st.Rows()[0]
		layout := row.Layout()

		seen := 0
		for _, sub := range layout.SubRows {
			seen += len(sub)
			for i := 1; i < len(sub); i++ {
				prev, next := row.Item(sub[i-1]), row.Item(sub[i])
				require.False(t, prev.Overlaps(next.Interval), "sub-row overlap %v %v", prev.Interval, next.Interval)
			}
		}
		assert.Equal(t, row.Len(), seen)
		assert.Equal(t, maxConcurrency(row.Items()), len(layout.SubRows))
	}
}

func TestSubRowItems(t *testing.T) {
	lane := []string{"n0"}
	st, _ := Ingest([]domain.Record{
		record(lane, 0, 10),
		record(lane, 10, 20),
		record(lane, 30, 40),
	}, IngestOptions{})
	row := st.Rows()[0]

	assert.Equal(t, []int{0, 1}, row.SubRowItems(0, 10, 10))
	assert.Equal(t, []int{2}, row.SubRowItems(0, 35, 35))
	assert.Empty(t, row.SubRowItems(0, 22, 25))
	assert.Nil(t, row.SubRowItems(3, 0, 100))
	assert.True(t, slices.Equal([]int{0, 1, 2}, row.SubRowItems(0, -5, 100)))
}

package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"profview/internal/domain"
	"profview/internal/interact"
	"profview/internal/store"
	"profview/internal/tiles"
	"profview/internal/tree"
	"profview/internal/viewport"
)

func testScene(t *testing.T) (*viewport.Controller, *Renderer) {
	t.Helper()
	lane := []string{"n0", "cpu", "0"}
	st, _ := store.Ingest([]domain.Record{
		{Lane: lane, Start: 0, Stop: 100, Color: "9"},
		{Lane: lane, Start: 150, Stop: 150},
		{Lane: lane, Start: 199, Stop: 200},
	}, store.IngestOptions{KindLevel: 1})
	tr := tree.Build(st, tree.BuildOptions{KindLevel: 1, Metrics: tree.DefaultMetrics()})
	for id := tree.NodeID(1); int(id) < tr.Len(); id++ {
		tr.SetExpanded(id, true)
	}
	controller := viewport.NewController(tr, tiles.NewCache(0, nil), st.Span(), viewport.DefaultOptions())
	controller.Resize(100, 20)
	opts := DefaultOptions()
	opts.LabelWidth = 10
	return controller, New(opts, nil, interact.NewUtilization(tr, nil))
}

func TestTicks(t *testing.T) {
	ticks := Ticks(viewport.Viewport{Start: 0, Stop: 200, Width: 100}, 16)
	assert.Equal(t, []Tick{{X: 0, Time: 0}, {X: 25, Time: 50}, {X: 50, Time: 100}, {X: 75, Time: 150}}, ticks)
	assert.Equal(t, 1.0, niceStep(0.3))
	assert.Equal(t, 200.0, niceStep(101))
}

func TestFrameEmitsLabelsAndIntervals(t *testing.T) {
	controller, renderer := testScene(t)
	frame := controller.FrameLayout()
	var recorder Recorder
	renderer.Frame(&recorder, frame, interact.Cursor{}, nil)

	var labels []string
	for _, text := range recorder.Texts() {
		if text.X == 0 {
			labels = append(labels, text.Text)
		}
	}
	assert.Equal(t, []string{"▾ n0", " ▾ cpu", "  ▾ 0"}, labels)

	var rowRects, summaryRects []Rect
	for _, rect := range recorder.Rects() {
		switch rect.Y {
		case 1 + 2:
			rowRects = append(rowRects, rect)
		case 1 + 1:
			summaryRects = append(summaryRects, rect)
		}
	}
	require.Len(t, rowRects, 3)
	assert.Equal(t, Rect{X: 10, Y: 3, W: 50, H: 1, Color: "9", Fill: 1}, rowRects[0])
	assert.Equal(t, 10+75, rowRects[1].X)
	assert.Equal(t, 1, rowRects[1].W, "instants keep a visible width")
	assert.Equal(t, 10+99, rowRects[2].X)
	assert.Equal(t, 1, rowRects[2].W)

	require.NotEmpty(t, summaryRects)
	for _, rect := range summaryRects {
		assert.Greater(t, rect.Fill, 0.0)
		assert.LessOrEqual(t, rect.Fill, 1.0)
		assert.GreaterOrEqual(t, rect.X, 10)
	}
}

func TestLabelOfPartlyScrolledEntry(t *testing.T) {
	lane := []string{"n0", "cpu", "0"}
	st, _ := store.Ingest([]domain.Record{
		{Lane: lane, Start: 0, Stop: 30},
		{Lane: lane, Start: 10, Stop: 40},
		{Lane: lane, Start: 20, Stop: 50},
	}, store.IngestOptions{KindLevel: 1})
	tr := tree.Build(st, tree.BuildOptions{KindLevel: 1, Metrics: tree.DefaultMetrics()})
	for id := tree.NodeID(1); int(id) < tr.Len(); id++ {
		tr.SetExpanded(id, true)
	}
	// header at 0, summary at 1, three sub-rows at 2..4
	frame := viewport.Frame{
		Viewport: viewport.Viewport{Start: 0, Stop: 100, Width: 50, Height: 5, ScrollY: 3},
		Entries:  tr.VisibleRows(3, 8),
	}
	require.Len(t, frame.Entries, 1)
	require.Equal(t, 2, frame.Entries[0].Y)

	opts := DefaultOptions()
	opts.LabelWidth = 10
	var recorder Recorder
	New(opts, nil, nil).Frame(&recorder, frame, interact.Cursor{}, nil)

	var labels []Text
	for _, text := range recorder.Texts() {
		if text.X == 0 {
			labels = append(labels, text)
		}
	}
	require.Len(t, labels, 1)
	assert.Equal(t, "  ▾ 0", labels[0].Text)
	assert.Equal(t, opts.AxisHeight, labels[0].Y)
}

func TestCursorAndHoverDrawnLast(t *testing.T) {
	controller, renderer := testScene(t)
	frame := controller.FrameLayout()
	var cursor interact.Cursor
	cursor.Set(frame.Viewport, 20)
	hit, ok := interact.HitTest(frame, 10, 2)
	require.True(t, ok)
	require.True(t, hit.Found())

	var recorder Recorder
	renderer.Frame(&recorder, frame, cursor, &hit)

	ops := recorder.Ops
	require.GreaterOrEqual(t, len(ops), 3)
	hover := ops[len(ops)-3].Rect
	require.NotNil(t, hover)
	assert.Equal(t, domain.ColorTag("231"), hover.Color)
	assert.Equal(t, 10, hover.X)

	line := ops[len(ops)-2].Rect
	require.NotNil(t, line)
	assert.Equal(t, Rect{X: 30, Y: 1, W: 1, H: 20, Color: "15", Fill: 1}, *line)

	label := ops[len(ops)-1].Text
	require.NotNil(t, label)
	assert.Equal(t, "41 ns", label.Text)
	assert.Equal(t, 31, label.X)
}

func TestReplay(t *testing.T) {
	var first, second Recorder
	first.FillRect(Rect{X: 1, W: 1, H: 1})
	first.DrawText(Text{Text: "a"})
	first.Replay(&second)
	assert.Equal(t, first.Ops, second.Ops)
}

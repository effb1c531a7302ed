// Package render turns a resolved frame into backend-neutral draw
// primitives: axis-aligned rectangles and positioned text.
package render

import "profview/internal/domain"

// Rect covers columns [X, X+W) and rows [Y, Y+H). Fill below 1 draws a
// partial bar, used by utilization plots.
type Rect struct {
	X, Y  int
	W, H  int
	Color domain.ColorTag
	Fill  float64
}

type Text struct {
	X, Y  int
	Text  string
	Color domain.ColorTag
	Bold  bool
}

type Backend interface {
	FillRect(rect Rect)
	DrawText(text Text)
}

// Op is one recorded primitive; exactly one field is set.
type Op struct {
	Rect *Rect
	Text *Text
}

// Recorder keeps primitives in draw order so a frame can be inspected or
// replayed onto another backend.
type Recorder struct {
	Ops []Op
}

func (recorder *Recorder) FillRect(rect Rect) {
	recorder.Ops = append(recorder.Ops, Op{Rect: &rect})
}

func (recorder *Recorder) DrawText(text Text) {
	recorder.Ops = append(recorder.Ops, Op{Text: &text})
}

func (recorder *Recorder) Rects() []Rect {
	var out []Rect
	for _, op := range recorder.Ops {
		if op.Rect != nil {
			out = append(out, *op.Rect)
		}
	}
	return out
}

func (recorder *Recorder) Texts() []Text {
	var out []Text
	for _, op := range recorder.Ops {
		if op.Text != nil {
			out = append(out, *op.Text)
		}
	}
	return out
}

func (recorder *Recorder) Replay(backend Backend) {
	for _, op := range recorder.Ops {
		switch {
		case op.Rect != nil:
			backend.FillRect(*op.Rect)
		case op.Text != nil:
			backend.DrawText(*op.Text)
		}
	}
}

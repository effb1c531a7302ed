package interact

import (
	"profview/internal/domain"
	"profview/internal/viewport"
)

// Cursor tracks the time under the pointer while it is over the timeline.
type Cursor struct {
	time domain.Timestamp
	set  bool
}

func (cursor *Cursor) Set(vp viewport.Viewport, x int) {
	cursor.time = vp.TimeAt(float64(x) + 0.5)
	cursor.set = true
}

func (cursor *Cursor) Clear() {
	cursor.set = false
}

func (cursor Cursor) Time() (domain.Timestamp, bool) {
	return cursor.time, cursor.set
}

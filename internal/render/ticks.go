package render

import (
	"math"

	"profview/internal/domain"
	"profview/internal/viewport"
)

type Tick struct {
	X    int
	Time domain.Timestamp
}

// Ticks places axis marks on round time values at least spacing columns
// apart.
func Ticks(vp viewport.Viewport, spacing int) []Tick {
	if vp.Width <= 0 || vp.Duration() <= 0 {
		return nil
	}
	step := niceStep(vp.NsPerPixel() * float64(max(spacing, 1)))
	first := math.Ceil(vp.Start/step) * step
	var ticks []Tick
	for t := first; t < vp.Stop; t += step {
		x := int(math.Floor(vp.XOf(domain.Timestamp(t))))
		if x >= 0 && x < vp.Width {
			ticks = append(ticks, Tick{X: x, Time: domain.Timestamp(t)})
		}
	}
	return ticks
}

// niceStep rounds up to 1, 2 or 5 times a power of ten, never below 1ns.
func niceStep(minimum float64) float64 {
	if minimum <= 1 {
		return 1
	}
	magnitude := math.Pow(10, math.Floor(math.Log10(minimum)))
	for _, factor := range []float64{1, 2, 5, 10} {
		if factor*magnitude >= minimum {
			return factor * magnitude
		}
	}
	return 10 * magnitude
}

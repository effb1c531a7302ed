package viewport

import (
	"math"

	"profview/internal/domain"
)

// Viewport maps the visible half-open time range [Start, Stop) onto Width
// pixel columns. Times are kept as float nanoseconds so repeated zooming does
// not accumulate rounding drift.
type Viewport struct {
	Start   float64
	Stop    float64
	Width   int
	Height  int
	ScrollY int
}

func (vp Viewport) Duration() float64 {
	return vp.Stop - vp.Start
}

func (vp Viewport) NsPerPixel() float64 {
	if vp.Width <= 0 {
		return vp.Duration()
	}
	return vp.Duration() / float64(vp.Width)
}

func (vp Viewport) PixelsPerNs() float64 {
	duration := vp.Duration()
	if duration <= 0 {
		return 0
	}
	return float64(vp.Width) / duration
}

// TimeAt maps a pixel column (fractional allowed) to time.
func (vp Viewport) TimeAt(x float64) domain.Timestamp {
	return domain.Timestamp(math.Floor(vp.TimeAtFloat(x)))
}

func (vp Viewport) TimeAtFloat(x float64) float64 {
	return vp.Start + x*vp.NsPerPixel()
}

// XOf maps time to a fractional pixel column.
func (vp Viewport) XOf(t domain.Timestamp) float64 {
	return (float64(t) - vp.Start) * vp.PixelsPerNs()
}

// Visible is the smallest integer interval covering the view.
func (vp Viewport) Visible() domain.Interval {
	return domain.NewInterval(domain.Timestamp(math.Floor(vp.Start)), domain.Timestamp(math.Ceil(vp.Stop)))
}

// PixelSpan is the time range covered by pixel column x.
func (vp Viewport) PixelSpan(x int) domain.Interval {
	lo := vp.TimeAtFloat(float64(x))
	hi := vp.TimeAtFloat(float64(x + 1))
	return domain.NewInterval(domain.Timestamp(math.Floor(lo)), domain.Timestamp(math.Ceil(hi)))
}

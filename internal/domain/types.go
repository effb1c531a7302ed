package domain

import (
	"fmt"
	"math"
)

// Timestamp is a point in time measured in nanoseconds.
type Timestamp int64

const (
	nsPerUs = 1_000
	nsPerMs = 1_000_000
	nsPerS  = 1_000_000_000
)

func (ts Timestamp) String() string {
	divisor, unit := unitFor(int64(ts))
	if divisor == 1 {
		return fmt.Sprintf("%d %s", int64(ts), unit)
	}
	return formatUnits(int64(ts), divisor) + " " + unit
}

func unitFor(ns int64) (int64, string) {
	abs := ns
	if abs < 0 {
		abs = -abs
	}
	switch {
	case abs >= nsPerS:
		return nsPerS, "s"
	case abs >= nsPerMs:
		return nsPerMs, "ms"
	case abs >= nsPerUs:
		return nsPerUs, "us"
	default:
		return 1, "ns"
	}
}

func formatUnits(ns, divisor int64) string {
	sign := ""
	if ns < 0 {
		sign = "-"
		ns = -ns
	}
	units := ns / divisor
	remainder := (ns % divisor) / (divisor / 1_000)
	return fmt.Sprintf("%s%d.%03d", sign, units, remainder)
}

type Interval struct {
	Start Timestamp
	Stop  Timestamp
}

func NewInterval(start, stop Timestamp) Interval {
	return Interval{Start: start, Stop: stop}
}

func (iv Interval) String() string {
	divisor, unit := unitFor(int64(iv.Stop))
	duration := Timestamp(iv.Duration())
	if divisor == 1 {
		return fmt.Sprintf("from %d to %d %s (duration: %s)", int64(iv.Start), int64(iv.Stop), unit, duration)
	}
	return fmt.Sprintf("from %s to %s %s (duration: %s)",
		formatUnits(int64(iv.Start), divisor), formatUnits(int64(iv.Stop), divisor), unit, duration)
}

func (iv Interval) Duration() int64 {
	return int64(iv.Stop - iv.Start)
}

func (iv Interval) Valid() bool {
	return iv.Start <= iv.Stop
}

// Contains reports whether point lies in the closed interval.
func (iv Interval) Contains(point Timestamp) bool {
	return point >= iv.Start && point <= iv.Stop
}

// Overlaps is strict: intervals that only touch at an endpoint do not overlap.
func (iv Interval) Overlaps(other Interval) bool {
	return iv.Start < other.Stop && other.Start < iv.Stop
}

// Intersects reports whether the interval shares time with the half-open
// range [lo, hi). Zero-length intervals intersect when lo <= Start < hi.
func (iv Interval) Intersects(lo, hi Timestamp) bool {
	if iv.Start == iv.Stop {
		return iv.Start >= lo && iv.Start < hi
	}
	return iv.Start < hi && iv.Stop > lo
}

func (iv Interval) Intersection(other Interval) Interval {
	return Interval{Start: maxTimestamp(iv.Start, other.Start), Stop: minTimestamp(iv.Stop, other.Stop)}
}

func (iv Interval) Union(other Interval) Interval {
	return Interval{Start: minTimestamp(iv.Start, other.Start), Stop: maxTimestamp(iv.Stop, other.Stop)}
}

// Unlerp maps time into [0,1] relative space.
func (iv Interval) Unlerp(time Timestamp) float64 {
	duration := iv.Duration()
	if duration == 0 {
		return 0
	}
	return float64(time-iv.Start) / float64(duration)
}

// Lerp maps [0,1] relative space back to time.
func (iv Interval) Lerp(value float64) Timestamp {
	return Timestamp(math.Round(value*float64(iv.Duration()))) + iv.Start
}

func minTimestamp(a, b Timestamp) Timestamp {
	if a < b {
		return a
	}
	return b
}

func maxTimestamp(a, b Timestamp) Timestamp {
	if a > b {
		return a
	}
	return b
}

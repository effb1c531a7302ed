package tiles

import (
	"math"

	"profview/internal/domain"
)

// BucketWidth picks the time width of one tile: the smallest power of two
// nanoseconds covering columns pixels at the given zoom. Zooming by less than
// a factor of two usually keeps the same width and therefore the same tiles.
func BucketWidth(nsPerPixel float64, columns int) domain.Timestamp {
	if columns <= 0 {
		columns = 1
	}
	target := nsPerPixel * float64(columns)
	if target <= 1 || math.IsNaN(target) {
		return 1
	}
	if target >= float64(math.MaxInt64/2) {
		return domain.Timestamp(int64(1) << 62)
	}
	return domain.Timestamp(int64(1) << uint(math.Ceil(math.Log2(target))))
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// BucketOf returns the bucket holding time t.
func BucketOf(t, width domain.Timestamp) int64 {
	return floorDiv(int64(t), int64(width))
}

// BucketSpan is the half-open time range [b*w, (b+1)*w) of bucket b.
func BucketSpan(bucket int64, width domain.Timestamp) domain.Interval {
	start := domain.Timestamp(bucket * int64(width))
	return domain.NewInterval(start, start+width)
}

// BucketRange returns the first and last buckets intersecting the half-open
// view [Start, Stop).
func BucketRange(view domain.Interval, width domain.Timestamp) (int64, int64) {
	first := BucketOf(view.Start, width)
	stop := view.Stop
	if stop > view.Start {
		stop--
	}
	return first, BucketOf(stop, width)
}

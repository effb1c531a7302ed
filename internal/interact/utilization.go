package interact

import (
	"slices"
	"sort"

	"go.uber.org/zap"

	"profview/internal/domain"
	"profview/internal/tiles"
	"profview/internal/tree"
)

// Sample is the busy fraction of one time bucket.
type Sample struct {
	Span     domain.Interval
	Fraction float64
}

type curveKey struct {
	node  tree.NodeID
	width domain.Timestamp
}

// Utilization computes how much of each time bucket is covered by any
// interval under a node. Merged busy spans are cached per node and bucket
// fractions per (node, bucket width); a node keeps samples for its most
// recent width only.
type Utilization struct {
	tree   *tree.Tree
	busy   map[tree.NodeID][]domain.Interval
	curves map[curveKey]map[int64]float64
	widths map[tree.NodeID]domain.Timestamp
	logger *zap.Logger
}

func NewUtilization(tr *tree.Tree, logger *zap.Logger) *Utilization {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Utilization{
		tree:   tr,
		busy:   make(map[tree.NodeID][]domain.Interval),
		curves: make(map[curveKey]map[int64]float64),
		widths: make(map[tree.NodeID]domain.Timestamp),
		logger: logger,
	}
}

// Busy returns the disjoint, sorted union of all intervals under the node.
func (u *Utilization) Busy(id tree.NodeID) []domain.Interval {
	if spans, ok := u.busy[id]; ok {
		return spans
	}
	var all []domain.Interval
	for _, row := range u.tree.RowsUnder(id) {
		for _, item := range row.Items() {
			if item.Duration() > 0 {
				all = append(all, item.Interval)
			}
		}
	}
	slices.SortFunc(all, func(a, b domain.Interval) int {
		switch {
		case a.Start < b.Start:
			return -1
		case a.Start > b.Start:
			return 1
		}
		return 0
	})
	var merged []domain.Interval
	for _, span := range all {
		last := len(merged) - 1
		if last >= 0 && span.Start <= merged[last].Stop {
			merged[last].Stop = max(merged[last].Stop, span.Stop)
			continue
		}
		merged = append(merged, span)
	}
	u.busy[id] = merged
	u.logger.Debug("utilization union built",
		zap.Int("node", int(id)),
		zap.Int("intervals", len(all)),
		zap.Int("spans", len(merged)),
	)
	return merged
}

// Fraction is the share of [lo, hi) covered by the node's busy spans.
func (u *Utilization) Fraction(id tree.NodeID, lo, hi domain.Timestamp) float64 {
	if hi <= lo {
		return 0
	}
	spans := u.Busy(id)
	first := sort.Search(len(spans), func(i int) bool {
		return spans[i].Stop > lo
	})
	var covered int64
	for _, span := range spans[first:] {
		if span.Start >= hi {
			break
		}
		covered += int64(min(span.Stop, hi) - max(span.Start, lo))
	}
	return float64(covered) / float64(hi-lo)
}

// Curve returns samples for every bucket of the given width intersecting
// view, in time order.
func (u *Utilization) Curve(id tree.NodeID, width domain.Timestamp, view domain.Interval) []Sample {
	if width <= 0 || view.Duration() <= 0 {
		return nil
	}
	if previous, ok := u.widths[id]; ok && previous != width {
		delete(u.curves, curveKey{node: id, width: previous})
	}
	u.widths[id] = width
	key := curveKey{node: id, width: width}
	cached, ok := u.curves[key]
	if !ok {
		cached = make(map[int64]float64)
		u.curves[key] = cached
	}
	first, last := tiles.BucketRange(view, width)
	samples := make([]Sample, 0, last-first+1)
	for bucket := first; bucket <= last; bucket++ {
		span := tiles.BucketSpan(bucket, width)
		fraction, ok := cached[bucket]
		if !ok {
			fraction = u.Fraction(id, span.Start, span.Stop)
			cached[bucket] = fraction
		}
		samples = append(samples, Sample{Span: span, Fraction: fraction})
	}
	return samples
}

// Average is the busy fraction of the node over the whole window.
func (u *Utilization) Average(id tree.NodeID, window domain.Interval) float64 {
	return u.Fraction(id, window.Start, window.Stop)
}

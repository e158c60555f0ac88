package tip

import "gonum.org/v1/gonum/spatial/r3"

// Locate finds the crack tip for one query. It is a pure function of its
// inputs: no state is kept between calls, nothing is mutated, and
// degenerate inputs come back as Found=false with a Reason rather than an
// error or panic, since parameter tuning is expected to produce them.
//
// A point is classified as crack surface when its phase value is at or
// below CriticalValue (phase field = 1 in intact material, decays toward
// 0 inside the crack; flip the field before querying if a simulation uses
// the opposite convention). Among crack-surface points inside the region,
// the tip is the one farthest from PreviousTip. This encodes incremental
// growth outward from the last known tip; the region filter is what keeps
// other cracks, and the trailing surface of this one, out of the running.
//
// Farthest-point selection is known to mis-identify the tip when a
// branched or strongly curved crack's trailing surface extends farther
// from PreviousTip than the advancing front does. That behavior is kept
// as-is; callers mitigate it by tightening the region.
func Locate(q Query) Result {
	if len(q.Points) == 0 {
		return Result{Reason: EmptyInput}
	}
	if q.Region != nil && q.Region.Degenerate() {
		return Result{Reason: DegenerateRegion}
	}

	best := Result{Reason: NoCandidates}
	bestDistSq := -1.0
	for i, s := range q.Points {
		if q.Region != nil && !q.Region.Contains(s.Position) {
			continue
		}
		if s.Phase > q.CriticalValue {
			continue
		}
		// Strict > keeps the lowest-index point on exact ties, so
		// repeated runs over the same input pick the same tip.
		if d := r3.Norm2(r3.Sub(s.Position, q.PreviousTip)); d > bestDistSq {
			bestDistSq = d
			best = Result{
				Tip:    s.Position,
				Index:  i,
				Found:  true,
				Reason: ReasonNone,
			}
		}
	}
	if best.Found {
		best.Distance = r3.Norm(r3.Sub(best.Tip, q.PreviousTip))
	}
	return best
}

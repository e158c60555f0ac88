// Package tip locates the tip of a propagating crack in a phase-field
// fracture simulation. The phase field is sampled at mesh vertices and
// follows the usual convention: 1 in intact material, decaying toward 0
// inside the crack. The tip is taken to be the crack-surface point
// farthest from the previously known tip location, optionally restricted
// to an axis-aligned region so that multiple cracks in one dataset can be
// tracked independently.
package tip

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// PointSample is one mesh vertex: its position and the phase-field value
// sampled there. Samples are immutable inputs owned by the caller for the
// duration of one Locate call.
type PointSample struct {
	Position r3.Vec
	Phase    float64
}

// Region is an axis-aligned bounding box used to isolate one crack's
// neighborhood. Bounds are inclusive on every axis.
type Region struct {
	Min r3.Vec
	Max r3.Vec
}

// Unbounded returns a region spanning the full float64 range, matching
// the behavior of an unset region bound.
func Unbounded() Region {
	return Region{
		Min: r3.Vec{X: -math.MaxFloat64, Y: -math.MaxFloat64, Z: -math.MaxFloat64},
		Max: r3.Vec{X: math.MaxFloat64, Y: math.MaxFloat64, Z: math.MaxFloat64},
	}
}

// Contains reports whether p lies within the region, inclusive of the
// boundary on every axis.
func (r Region) Contains(p r3.Vec) bool {
	return r.Min.X <= p.X && p.X <= r.Max.X &&
		r.Min.Y <= p.Y && p.Y <= r.Max.Y &&
		r.Min.Z <= p.Z && p.Z <= r.Max.Z
}

// Degenerate reports whether Min exceeds Max on any axis. A degenerate
// region contains no points and is reported as a diagnostic rather than
// silently reordered.
func (r Region) Degenerate() bool {
	return r.Min.X > r.Max.X || r.Min.Y > r.Max.Y || r.Min.Z > r.Max.Z
}

// Query is one tip-location request.
type Query struct {
	// Points is the vertex sample sequence. Order matters: ties between
	// equally distant candidates resolve to the lowest index.
	Points []PointSample

	// CriticalValue separates cracked from intact material. Values are
	// nominally in [0,1]; values outside that range are accepted and
	// simply produce all-or-nothing classification.
	CriticalValue float64

	// PreviousTip is the tip location from the prior timestep, or the
	// initial tip location on the first call. Continuity across timesteps
	// is the caller's responsibility.
	PreviousTip r3.Vec

	// Region, when non-nil, restricts candidates to the box. Nil means no
	// restriction.
	Region *Region
}

// Reason classifies why a query produced no tip.
type Reason int

const (
	// ReasonNone means a tip was found.
	ReasonNone Reason = iota
	// EmptyInput means the query carried no points at all.
	EmptyInput
	// NoCandidates means region filtering and phase classification
	// eliminated every point.
	NoCandidates
	// DegenerateRegion means the region's Min exceeded its Max on some
	// axis. Treated like NoCandidates but reported distinctly so the
	// caller can fix its configuration.
	DegenerateRegion
)

func (r Reason) String() string {
	switch r {
	case ReasonNone:
		return "none"
	case EmptyInput:
		return "empty input"
	case NoCandidates:
		return "no candidates"
	case DegenerateRegion:
		return "degenerate region"
	default:
		return "unknown"
	}
}

// Result is the outcome of one Locate call. When Found is false, Tip,
// Index and Distance are unset and must not be used; Reason says why.
type Result struct {
	Tip      r3.Vec
	Index    int     // index into Query.Points of the selected sample
	Distance float64 // Euclidean distance from Query.PreviousTip
	Found    bool
	Reason   Reason
}

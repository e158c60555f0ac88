// Package mesh holds the point-set side of crack-tip tracking: vertex
// coordinates from an unstructured grid together with named point-data
// scalar arrays, one of which carries the phase field. Cell connectivity
// is deliberately absent; tip location only ever looks at vertices.
package mesh

import (
	"fmt"
	"sort"

	"github.com/pfmech/cracktip/tip"
	"gonum.org/v1/gonum/spatial/r3"
)

// PointSet is a collection of mesh vertices with zero or more named
// scalar arrays sampled at those vertices. Arrays always have exactly one
// value per point.
type PointSet struct {
	Points  []r3.Vec
	scalars map[string][]float64
}

// NewPointSet wraps a coordinate slice. The slice is retained, not
// copied.
func NewPointSet(points []r3.Vec) *PointSet {
	return &PointSet{
		Points:  points,
		scalars: make(map[string][]float64),
	}
}

// NumPoints returns the vertex count.
func (ps *PointSet) NumPoints() int { return len(ps.Points) }

// AddScalar attaches a named point-data array. The value count must match
// the point count; an existing array of the same name is replaced.
func (ps *PointSet) AddScalar(name string, values []float64) error {
	if name == "" {
		return fmt.Errorf("scalar array needs a name")
	}
	if len(values) != len(ps.Points) {
		return fmt.Errorf("scalar %q has %d values for %d points",
			name, len(values), len(ps.Points))
	}
	ps.scalars[name] = values
	return nil
}

// Scalar resolves a configured array name to its values. Unknown names
// are a configuration error and fail here, before any tip query is built.
func (ps *PointSet) Scalar(name string) ([]float64, error) {
	values, ok := ps.scalars[name]
	if !ok {
		return nil, fmt.Errorf("scalar array %q not found (have %v)",
			name, ps.ScalarNames())
	}
	return values, nil
}

// ScalarNames lists the attached array names in sorted order, for array
// discovery by a configuration surface.
func (ps *PointSet) ScalarNames() []string {
	names := make([]string, 0, len(ps.scalars))
	for name := range ps.scalars {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Append merges another point set into this one, the way multiblock
// datasets are flattened before processing. Both sets must carry the same
// scalar array names.
func (ps *PointSet) Append(other *PointSet) error {
	if len(ps.scalars) != len(other.scalars) {
		return fmt.Errorf("cannot merge: arrays %v vs %v",
			ps.ScalarNames(), other.ScalarNames())
	}
	for name := range ps.scalars {
		if _, ok := other.scalars[name]; !ok {
			return fmt.Errorf("cannot merge: arrays %v vs %v",
				ps.ScalarNames(), other.ScalarNames())
		}
	}
	ps.Points = append(ps.Points, other.Points...)
	for name := range ps.scalars {
		ps.scalars[name] = append(ps.scalars[name], other.scalars[name]...)
	}
	return nil
}

// Bounds returns the tight axis-aligned bounding box of the points. ok is
// false for an empty set.
func (ps *PointSet) Bounds() (box tip.Region, ok bool) {
	if len(ps.Points) == 0 {
		return tip.Region{}, false
	}
	box.Min = ps.Points[0]
	box.Max = ps.Points[0]
	for _, p := range ps.Points[1:] {
		if p.X < box.Min.X {
			box.Min.X = p.X
		}
		if p.Y < box.Min.Y {
			box.Min.Y = p.Y
		}
		if p.Z < box.Min.Z {
			box.Min.Z = p.Z
		}
		if p.X > box.Max.X {
			box.Max.X = p.X
		}
		if p.Y > box.Max.Y {
			box.Max.Y = p.Y
		}
		if p.Z > box.Max.Z {
			box.Max.Z = p.Z
		}
	}
	return box, true
}

// Samples pairs each vertex with its value from the named array, in point
// order, producing the input a tip query consumes.
func (ps *PointSet) Samples(name string) ([]tip.PointSample, error) {
	values, err := ps.Scalar(name)
	if err != nil {
		return nil, err
	}
	samples := make([]tip.PointSample, len(ps.Points))
	for i, p := range ps.Points {
		samples[i] = tip.PointSample{Position: p, Phase: values[i]}
	}
	return samples, nil
}

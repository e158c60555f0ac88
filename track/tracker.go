// Package track follows crack tips across simulation timesteps. Each
// crack is tracked independently: one fixed origin, one optional region
// of interest, one tip.Locate call per timestep. The tracker adds the
// derived quantities a single query cannot produce — propagation
// direction and speed — and hands records to an optional store.
package track

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/pfmech/cracktip/mesh"
	"github.com/pfmech/cracktip/tip"
	"gonum.org/v1/gonum/spatial/r3"
)

// Crack is one tracked crack.
//
// Origin is the fixed reference the farthest-point ranking measures from,
// normally the notch or seed the crack grows out of. Keeping it fixed is
// what makes the ranking monotone for a growing crack: measured from the
// last tip instead, the stationary trailing surface would be as far away
// as the advancing front. Tip holds the most recently located tip (Origin
// until the first hit) and only feeds the derived quantities.
type Crack struct {
	ID     string
	Label  string
	Origin r3.Vec
	Tip    r3.Vec
	Region *tip.Region
	Found  bool // whether Tip comes from a located result yet
}

// Record is one crack's outcome at one timestep.
type Record struct {
	CrackID string
	Step    int
	Time    float64
	Tip     r3.Vec
	Found   bool
	Reason  tip.Reason
	// Direction is the unit vector from the prior tip to this one; zero
	// when the tip was not found or did not move.
	Direction r3.Vec
	// Speed is tip displacement divided by elapsed time since the last
	// step; zero on the first step or when time does not advance.
	Speed float64
}

// Tracker locates tips for a set of registered cracks, one timestep at a
// time. It is not safe for concurrent use; callers wanting parallelism
// run one Tracker per crack instead, which the stateless core permits.
type Tracker struct {
	// ArrayName selects which point-data scalar carries the phase field.
	ArrayName string
	// CriticalValue is the phase threshold separating cracked from
	// intact material.
	CriticalValue float64

	cracks   []*Crack
	lastTime float64
	stepped  bool
}

// NewTracker configures a tracker for the named phase-field array.
func NewTracker(arrayName string, criticalValue float64) *Tracker {
	return &Tracker{ArrayName: arrayName, CriticalValue: criticalValue}
}

// Register adds a crack seeded at the given origin with an optional
// region. An empty label gets a generated identifier.
func (tr *Tracker) Register(label string, origin r3.Vec, region *tip.Region) *Crack {
	id := label
	if id == "" {
		id = uuid.NewString()
	}
	c := &Crack{ID: id, Label: label, Origin: origin, Tip: origin, Region: region}
	tr.cracks = append(tr.cracks, c)
	return c
}

// Cracks returns the registered cracks in registration order.
func (tr *Tracker) Cracks() []*Crack { return tr.cracks }

// Advance locates every registered crack's tip in the given point set and
// returns one record per crack, in registration order. A crack whose tip
// is not found keeps its previous tip for the next step; the record
// carries the reason. The only error is a missing phase-field array,
// which is a configuration problem and aborts the step for all cracks.
func (tr *Tracker) Advance(step int, t float64, ps *mesh.PointSet) ([]Record, error) {
	if len(tr.cracks) == 0 {
		return nil, fmt.Errorf("no cracks registered")
	}
	samples, err := ps.Samples(tr.ArrayName)
	if err != nil {
		return nil, err
	}

	dt := t - tr.lastTime
	records := make([]Record, 0, len(tr.cracks))
	for _, c := range tr.cracks {
		res := tip.Locate(tip.Query{
			Points:        samples,
			CriticalValue: tr.CriticalValue,
			PreviousTip:   c.Origin,
			Region:        c.Region,
		})

		rec := Record{
			CrackID: c.ID,
			Step:    step,
			Time:    t,
			Found:   res.Found,
			Reason:  res.Reason,
		}
		if res.Found {
			rec.Tip = res.Tip
			if disp := r3.Norm(r3.Sub(res.Tip, c.Tip)); disp > 0 {
				rec.Direction = r3.Unit(r3.Sub(res.Tip, c.Tip))
				if tr.stepped && dt > 0 {
					rec.Speed = disp / dt
				}
			}
			c.Tip = res.Tip
			c.Found = true
		}
		records = append(records, rec)
	}
	tr.lastTime = t
	tr.stepped = true
	return records, nil
}

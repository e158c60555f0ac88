package track

import (
	"testing"

	"github.com/pfmech/cracktip/mesh"
	"github.com/pfmech/cracktip/tip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

// Two cracks growing from the origin: one along +x, one along +y. The
// first four points are the x row, the last three the y column.
func crackPoints() []r3.Vec {
	return []r3.Vec{
		{X: 0}, {X: 1}, {X: 2}, {X: 3},
		{Y: 1}, {Y: 2}, {Y: 3},
	}
}

func stepSet(t *testing.T, d []float64) *mesh.PointSet {
	t.Helper()
	ps := mesh.NewPointSet(crackPoints())
	require.NoError(t, ps.AddScalar("d", d))
	return ps
}

func regions() (x, y tip.Region) {
	x = tip.Region{
		Min: r3.Vec{X: -0.5, Y: -0.5, Z: -0.5},
		Max: r3.Vec{X: 10, Y: 0.5, Z: 0.5},
	}
	y = tip.Region{
		Min: r3.Vec{X: -0.5, Y: 0.5, Z: -0.5},
		Max: r3.Vec{X: 0.5, Y: 10, Z: 0.5},
	}
	return x, y
}

func TestAdvanceTracksTwoCracks(t *testing.T) {
	xRegion, yRegion := regions()
	tr := NewTracker("d", 0.3)
	a := tr.Register("a", r3.Vec{}, &xRegion)
	b := tr.Register("b", r3.Vec{}, &yRegion)

	// Step 1: x crack reaches x=1, y crack reaches y=1.
	recs, err := tr.Advance(1, 1.0, stepSet(t,
		[]float64{0.1, 0.1, 0.9, 0.9, 0.1, 0.9, 0.9}))
	require.NoError(t, err)
	require.Len(t, recs, 2)

	require.True(t, recs[0].Found)
	assert.Equal(t, "a", recs[0].CrackID)
	assert.Equal(t, r3.Vec{X: 1}, recs[0].Tip)
	assert.Equal(t, r3.Vec{X: 1}, recs[0].Direction)
	assert.Equal(t, 0.0, recs[0].Speed, "no prior step to measure against")

	require.True(t, recs[1].Found)
	assert.Equal(t, r3.Vec{Y: 1}, recs[1].Tip)
	assert.Equal(t, r3.Vec{Y: 1}, recs[1].Direction)

	// Step 2: both advance one unit over one time unit.
	recs, err = tr.Advance(2, 2.0, stepSet(t,
		[]float64{0.1, 0.1, 0.1, 0.9, 0.1, 0.1, 0.9}))
	require.NoError(t, err)

	assert.Equal(t, r3.Vec{X: 2}, recs[0].Tip)
	assert.InDelta(t, 1.0, recs[0].Speed, 1e-12)
	assert.Equal(t, r3.Vec{Y: 2}, recs[1].Tip)
	assert.InDelta(t, 1.0, recs[1].Speed, 1e-12)

	// Registered cracks carry the advanced tips.
	assert.Equal(t, r3.Vec{X: 2}, a.Tip)
	assert.Equal(t, r3.Vec{Y: 2}, b.Tip)
}

func TestAdvanceNotFoundKeepsPreviousTip(t *testing.T) {
	xRegion, _ := regions()
	tr := NewTracker("d", 0.3)
	c := tr.Register("a", r3.Vec{}, &xRegion)

	recs, err := tr.Advance(1, 1.0, stepSet(t,
		[]float64{0.1, 0.1, 0.9, 0.9, 0.9, 0.9, 0.9}))
	require.NoError(t, err)
	require.True(t, recs[0].Found)
	require.Equal(t, r3.Vec{X: 1}, c.Tip)

	// Field heals completely (threshold tuning): nothing classifies.
	recs, err = tr.Advance(2, 2.0, stepSet(t,
		[]float64{0.9, 0.9, 0.9, 0.9, 0.9, 0.9, 0.9}))
	require.NoError(t, err)
	assert.False(t, recs[0].Found)
	assert.Equal(t, tip.NoCandidates, recs[0].Reason)
	assert.Equal(t, r3.Vec{X: 1}, c.Tip, "previous tip survives a miss")

	// The crack recovers at the next step using the kept tip.
	recs, err = tr.Advance(3, 3.0, stepSet(t,
		[]float64{0.1, 0.1, 0.1, 0.9, 0.9, 0.9, 0.9}))
	require.NoError(t, err)
	require.True(t, recs[0].Found)
	assert.Equal(t, r3.Vec{X: 2}, recs[0].Tip)
}

func TestAdvanceMissingArrayFailsFast(t *testing.T) {
	tr := NewTracker("phi", 0.3)
	tr.Register("a", r3.Vec{}, nil)
	_, err := tr.Advance(1, 1.0, stepSet(t,
		[]float64{0.1, 0.1, 0.9, 0.9, 0.9, 0.9, 0.9}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"phi"`)
}

func TestAdvanceNoCracks(t *testing.T) {
	tr := NewTracker("d", 0.3)
	_, err := tr.Advance(1, 1.0, stepSet(t,
		[]float64{0.1, 0.1, 0.9, 0.9, 0.9, 0.9, 0.9}))
	assert.Error(t, err)
}

func TestRegisterGeneratesID(t *testing.T) {
	tr := NewTracker("d", 0.3)
	a := tr.Register("", r3.Vec{}, nil)
	b := tr.Register("", r3.Vec{}, nil)
	assert.NotEmpty(t, a.ID)
	assert.NotEmpty(t, b.ID)
	assert.NotEqual(t, a.ID, b.ID)

	named := tr.Register("left-notch", r3.Vec{}, nil)
	assert.Equal(t, "left-notch", named.ID)
	assert.Len(t, tr.Cracks(), 3)
}

func TestAdvanceStationaryTipHasZeroDirection(t *testing.T) {
	tr := NewTracker("d", 0.3)
	tr.Register("a", r3.Vec{X: 1}, nil)

	// Only the previous tip itself classifies: distance 0, no direction.
	ps := mesh.NewPointSet([]r3.Vec{{X: 1}})
	require.NoError(t, ps.AddScalar("d", []float64{0.1}))

	recs, err := tr.Advance(1, 1.0, ps)
	require.NoError(t, err)
	require.True(t, recs[0].Found)
	assert.Equal(t, r3.Vec{}, recs[0].Direction)
	assert.Equal(t, 0.0, recs[0].Speed)
}

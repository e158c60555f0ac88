package mesh

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func twoPointSet(t *testing.T) *PointSet {
	t.Helper()
	ps := NewPointSet([]r3.Vec{{X: 0}, {X: 1, Y: 2, Z: -1}})
	require.NoError(t, ps.AddScalar("d", []float64{1.0, 0.1}))
	return ps
}

func TestAddScalarLengthMismatch(t *testing.T) {
	ps := NewPointSet([]r3.Vec{{}, {}})
	err := ps.AddScalar("d", []float64{0.5})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 values for 2 points")

	assert.Error(t, ps.AddScalar("", []float64{0, 0}))
}

func TestScalarUnknownNameFailsFast(t *testing.T) {
	ps := twoPointSet(t)
	_, err := ps.Scalar("phi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"phi"`)
	assert.Contains(t, err.Error(), "d", "error names the available arrays")
}

func TestScalarNamesSorted(t *testing.T) {
	ps := NewPointSet([]r3.Vec{{}})
	require.NoError(t, ps.AddScalar("sigma", []float64{0}))
	require.NoError(t, ps.AddScalar("d", []float64{0}))
	require.NoError(t, ps.AddScalar("history", []float64{0}))
	assert.Equal(t, []string{"d", "history", "sigma"}, ps.ScalarNames())
}

func TestAppendMergesBlocks(t *testing.T) {
	a := twoPointSet(t)
	b := NewPointSet([]r3.Vec{{X: 5}})
	require.NoError(t, b.AddScalar("d", []float64{0.7}))

	require.NoError(t, a.Append(b))
	assert.Equal(t, 3, a.NumPoints())
	d, err := a.Scalar("d")
	require.NoError(t, err)
	assert.Equal(t, []float64{1.0, 0.1, 0.7}, d)
}

func TestAppendRejectsMismatchedArrays(t *testing.T) {
	a := twoPointSet(t)
	b := NewPointSet([]r3.Vec{{X: 5}})
	require.NoError(t, b.AddScalar("phi", []float64{0.7}))
	assert.Error(t, a.Append(b))

	c := NewPointSet([]r3.Vec{{X: 5}})
	assert.Error(t, a.Append(c))
}

func TestBounds(t *testing.T) {
	ps := NewPointSet([]r3.Vec{
		{X: 1, Y: -2, Z: 3},
		{X: -1, Y: 4, Z: 0},
		{X: 0, Y: 0, Z: -5},
	})
	box, ok := ps.Bounds()
	require.True(t, ok)
	assert.Equal(t, r3.Vec{X: -1, Y: -2, Z: -5}, box.Min)
	assert.Equal(t, r3.Vec{X: 1, Y: 4, Z: 3}, box.Max)

	_, ok = NewPointSet(nil).Bounds()
	assert.False(t, ok)
}

func TestSamples(t *testing.T) {
	ps := twoPointSet(t)
	samples, err := ps.Samples("d")
	require.NoError(t, err)
	require.Len(t, samples, 2)
	assert.Equal(t, r3.Vec{X: 1, Y: 2, Z: -1}, samples[1].Position)
	assert.Equal(t, 0.1, samples[1].Phase)

	_, err = ps.Samples("missing")
	assert.Error(t, err)
}

package nn

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

// TestLinearForward checks y = x @ W.T + b against hand-computed values.
func TestLinearForward(t *testing.T) {
	l := NewLinear(2, 2)
	l.Reset()
	// Unit-major layout: [w00, w01, b0, w10, w11, b1].
	l.SetParameters(mat.NewVecDense(6, []float64{1, 2, 0.5, -1, 0, 1}))

	input := mat.NewDense(2, 2, []float64{
		1, 1,
		2, -3,
	})
	output := l.Forward(input)

	// Row 0: [1*1 + 2*1 + 0.5, -1*1 + 0*1 + 1] = [3.5, 0]
	// Row 1: [1*2 + 2*(-3) + 0.5, -1*2 + 0*(-3) + 1] = [-3.5, -1]
	assert.InDelta(t, 3.5, output.At(0, 0), 1e-12)
	assert.InDelta(t, 0.0, output.At(0, 1), 1e-12)
	assert.InDelta(t, -3.5, output.At(1, 0), 1e-12)
	assert.InDelta(t, -1.0, output.At(1, 1), 1e-12)
}

// TestLinearBackward checks dx = upstream @ W.
func TestLinearBackward(t *testing.T) {
	l := NewLinearNoBias(3, 2)
	l.Reset()
	l.SetParameters(mat.NewVecDense(6, []float64{
		1, 2, 3, // unit 0
		4, 5, 6, // unit 1
	}))

	input := mat.NewDense(1, 3, []float64{0, 0, 0}) // not read by Linear backward
	upstream := mat.NewDense(1, 2, []float64{1, -1})
	delta := l.Backward(input, upstream)

	// dx = [1*1 - 1*4, 1*2 - 1*5, 1*3 - 1*6] = [-3, -3, -3]
	for j := 0; j < 3; j++ {
		assert.InDelta(t, -3.0, delta.At(0, j), 1e-12)
	}
}

// TestLinearGradient checks dW = err.T @ x and db = column sums of err, in
// the unit-major flat layout.
func TestLinearGradient(t *testing.T) {
	l := NewLinear(2, 1)
	l.Reset()

	input := mat.NewDense(2, 2, []float64{
		1, 2,
		3, 4,
	})
	errSignal := mat.NewDense(2, 1, []float64{1, 10})
	grad := l.Gradient(input, errSignal)

	require.Equal(t, 3, grad.Len())
	assert.InDelta(t, 31.0, grad.AtVec(0), 1e-12) // 1*1 + 10*3
	assert.InDelta(t, 42.0, grad.AtVec(1), 1e-12) // 1*2 + 10*4
	assert.InDelta(t, 11.0, grad.AtVec(2), 1e-12) // 1 + 10
}

// TestLinearShapePanics checks the fail-fast behavior on mismatched shapes
// and missing Reset.
func TestLinearShapePanics(t *testing.T) {
	l := NewLinear(3, 2)

	require.Panics(t, func() { l.Forward(mat.NewDense(1, 3, nil)) }, "Forward before Reset")

	l.Reset()
	require.Panics(t, func() { l.Forward(mat.NewDense(1, 4, nil)) })
	require.Panics(t, func() { l.Backward(mat.NewDense(1, 3, nil), mat.NewDense(1, 3, nil)) })
	require.Panics(t, func() { l.SetParameters(mat.NewVecDense(2, nil)) })
}

// TestLinearStateDict checks the export/import round trip.
func TestLinearStateDict(t *testing.T) {
	l := NewLinear(3, 2)
	l.Reset()

	sd := l.StateDict()
	require.Contains(t, sd, "weight")
	require.Contains(t, sd, "bias")

	restored := NewLinear(3, 2)
	require.NoError(t, restored.LoadStateDict(sd))

	assert.InDeltaSlice(t,
		l.Parameters().RawVector().Data,
		restored.Parameters().RawVector().Data, 1e-12)

	// Missing entries are reported.
	require.Error(t, NewLinear(3, 2).LoadStateDict(map[string]*mat.Dense{}))
}

// TestLinearSizes checks the reported sizing metadata.
func TestLinearSizes(t *testing.T) {
	withBias := NewLinear(5, 3)
	assert.Equal(t, 18, withBias.WeightSize())
	assert.Equal(t, 3, withBias.OutputSize())

	noBias := NewLinearNoBias(5, 3)
	assert.Equal(t, 15, noBias.WeightSize())
}

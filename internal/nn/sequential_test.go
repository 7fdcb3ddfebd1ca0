package nn

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

// TestSequentialForwardChains checks that each layer sees the previous
// layer's output.
func TestSequentialForwardChains(t *testing.T) {
	l1 := NewLinearNoBias(2, 1)
	model := NewSequential(l1, NewInverseQuadratic())
	model.Reset()
	l1.SetParameters(mat.NewVecDense(2, []float64{1, 1}))

	output := model.Forward(mat.NewDense(1, 2, []float64{1, 0}))

	// Linear produces 1, inverse quadratic maps it to 1/(1+1) = 0.5.
	require.Equal(t, 1, output.RawMatrix().Cols)
	assert.InDelta(t, 0.5, output.At(0, 0), 1e-12)
	assert.Same(t, model.OutputParameter(), output)
}

// TestSequentialBackwardGradient checks the cached (input, upstream) pairs
// against a single-layer baseline.
func TestSequentialBackwardGradient(t *testing.T) {
	params := mat.NewVecDense(3, []float64{2, -1, 0.5})
	input := mat.NewDense(2, 2, []float64{1, 2, 3, 4})
	upstream := mat.NewDense(2, 1, []float64{1, -1})

	baseline := NewLinear(2, 1)
	baseline.Reset()
	baseline.SetParameters(params)
	baseline.Forward(input)
	wantDelta := mat.DenseCopyOf(baseline.Backward(input, upstream))
	wantGrad := mat.VecDenseCopyOf(baseline.Gradient(input, upstream))

	inner := NewLinear(2, 1)
	model := NewSequential(inner)
	model.Reset()
	inner.SetParameters(params)
	model.Forward(input)
	delta := model.Backward(input, upstream)
	model.Gradient(input, upstream)

	assert.InDeltaSlice(t, wantDelta.RawMatrix().Data, delta.RawMatrix().Data, 1e-12)
	assert.InDeltaSlice(t, wantGrad.RawVector().Data, inner.Grad().RawVector().Data, 1e-12)
}

// TestSequentialPhaseOrder checks that Backward and Gradient fail fast when
// called out of order.
func TestSequentialPhaseOrder(t *testing.T) {
	model := NewSequential(NewTanh())
	model.Reset()

	input := mat.NewDense(1, 2, []float64{1, 2})
	require.Panics(t, func() { model.Backward(input, input) })
	require.Panics(t, func() { model.Gradient(input, input) })

	model.Forward(input)
	require.Panics(t, func() { model.Gradient(input, input) }, "Gradient before Backward")

	require.Panics(t, func() { NewSequential().Forward(input) })
	require.Panics(t, func() { model.Add(nil) })
}

// TestSequentialMetadata checks sizing, Model transparency, and the nil
// parameter contract of the container.
func TestSequentialMetadata(t *testing.T) {
	l1 := NewLinear(3, 4)
	l2 := NewLinear(4, 2)
	model := NewSequential(l1, NewTanh(), l2)

	assert.Equal(t, 3, model.Len())
	assert.Equal(t, l1.WeightSize()+l2.WeightSize(), model.WeightSize())
	assert.Equal(t, 2, model.OutputSize())
	assert.Nil(t, model.Parameters())
	assert.Nil(t, model.Grad())
	require.Panics(t, func() { model.SetParameters(mat.NewVecDense(1, nil)) })

	children := model.Model()
	require.Len(t, children, 3)
	assert.Same(t, l1, children[0])
	assert.Same(t, l2, children[2])
}

// TestSequentialStateDict checks the position-prefixed export/import round
// trip across a container with a wrapped layer.
func TestSequentialStateDict(t *testing.T) {
	model := NewSequential(
		WrapWeightNorm(NewLinear(2, 3)),
		NewTanh(),
		NewLinear(3, 1),
	)
	model.Reset()

	sd := model.StateDict()
	require.Contains(t, sd, "0.direction")
	require.Contains(t, sd, "0.magnitude")
	require.Contains(t, sd, "0.layer.weight")
	require.Contains(t, sd, "2.weight")
	require.Contains(t, sd, "2.bias")
	require.NotContains(t, sd, "1.weight", "activation exports nothing")

	restored := NewSequential(
		WrapWeightNorm(NewLinear(2, 3)),
		NewTanh(),
		NewLinear(3, 1),
	)
	restored.Reset()
	require.NoError(t, restored.LoadStateDict(sd))

	input := mat.NewDense(1, 2, []float64{0.3, -1.2})
	want := model.Forward(input)
	got := restored.Forward(input)
	assert.InDeltaSlice(t, want.RawMatrix().Data, got.RawMatrix().Data, 1e-12)

	err := restored.LoadStateDict(map[string]*mat.Dense{
		"9.weight":    mat.NewDense(1, 1, nil),
		"bogus":       mat.NewDense(1, 1, nil),
		"0.direction": sd["0.direction"],
	})
	require.Error(t, err)
}

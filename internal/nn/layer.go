// Package nn implements neural network layers for the Anvil ML library.
//
// This package provides building blocks for constructing networks trained
// with explicit backpropagation:
//   - Layer interface: the contract every layer satisfies
//   - Linear: fully connected layer
//   - Activation: elementwise activation layers (Sigmoid, Tanh, ReLU,
//     InverseQuadratic)
//   - WeightNorm: weight normalization wrapper around any layer
//   - Sequential: container for stacking layers
//
// Layers operate on gonum dense matrices with rows as samples and columns as
// features. Each layer owns its output, delta and gradient buffers and hands
// them back from Forward, Backward and Gradient; callers must treat the
// returned values as views that the next call to the same method overwrites.
package nn

import (
	"gonum.org/v1/gonum/mat"
)

// Layer is the base interface for all neural network layers.
//
// A training step drives a layer through three phases, always in this order:
//
//	output := layer.Forward(input)
//	downstream := layer.Backward(input, upstream)
//	grad := layer.Gradient(input, errSignal)
//
// Forward computes activations, Backward propagates the error signal towards
// the input, and Gradient produces the derivative of the loss with respect to
// the layer's own flat parameter buffer. Calls are synchronous and never
// concurrent on the same layer.
//
// Calling Forward, Backward or Gradient before Reset, or with an input whose
// column count does not match the layer, is a programming error and panics.
type Layer interface {
	// Reset (re)allocates the layer's parameter and gradient buffers and
	// initializes its weights. It must be called once after construction,
	// before the first Forward.
	Reset()

	// Forward computes the layer output for input [n, in] and returns the
	// layer's output buffer [n, out].
	Forward(input *mat.Dense) *mat.Dense

	// Backward propagates upstream [n, out] through the layer and returns
	// the layer's delta buffer [n, in], the gradient of the loss with
	// respect to the layer input. It reads the weights installed by the
	// most recent Forward.
	Backward(input, upstream *mat.Dense) *mat.Dense

	// Gradient computes the derivative of the loss with respect to the
	// layer's parameters from input [n, in] and the error signal
	// errSignal [n, out], and returns the layer's flat gradient buffer.
	// The buffer layout matches Parameters element for element.
	Gradient(input, errSignal *mat.Dense) *mat.VecDense

	// Parameters returns the layer's flat parameter buffer, or nil for a
	// layer without trainable parameters. Optimizers mutate it in place.
	Parameters() *mat.VecDense

	// SetParameters copies w into the layer's parameter buffer. It panics
	// if the length does not match WeightSize.
	SetParameters(w *mat.VecDense)

	// WeightSize returns the number of elements in the parameter buffer.
	WeightSize() int

	// OutputSize returns the number of output units of the layer, or 0 if
	// the layer does not fix its output width (e.g. activations).
	OutputSize() int

	// Grad returns the flat gradient buffer filled by the last Gradient
	// call, or nil for a layer without trainable parameters.
	Grad() *mat.VecDense

	// Delta returns the buffer filled by the last Backward call.
	Delta() *mat.Dense

	// OutputParameter returns the buffer filled by the last Forward call.
	OutputParameter() *mat.Dense

	// Model returns the child layers exposed for graph walkers, or nil
	// if the layer hides (or has) no children.
	Model() []Layer

	// StateDict returns a map of tensor names to values for serialization.
	// Nested layers contribute entries under a dotted prefix.
	StateDict() map[string]*mat.Dense

	// LoadStateDict restores the layer from a state dictionary produced by
	// StateDict. Returns an error if an entry is missing or misshaped.
	LoadStateDict(stateDict map[string]*mat.Dense) error
}

// resize makes m an r-by-c matrix, reusing the backing array when the shape
// already matches. Contents are unspecified after a reallocation.
func resize(m *mat.Dense, r, c int) *mat.Dense {
	if m.IsEmpty() {
		*m = *mat.NewDense(r, c, nil)
		return m
	}
	cr, cc := m.Dims()
	if cr != r || cc != c {
		*m = *mat.NewDense(r, c, nil)
	}
	return m
}

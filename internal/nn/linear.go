package nn

import (
	"fmt"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Linear implements a fully connected (dense) layer.
//
// Performs the transformation: y = x @ W.T + b
// where:
//   - x is the input matrix with shape [batch_size, in_features]
//   - W is the weight matrix with shape [out_features, in_features]
//   - b is the bias vector with shape [out_features]
//   - y is the output matrix with shape [batch_size, out_features]
//
// Parameters are stored unit-major in one flat buffer: each output unit
// contributes its incoming weights followed by its bias, so the buffer is
// out_features contiguous groups of in_features+1 elements (in_features when
// the layer has no bias). Wrappers that reparametrize per output unit, such
// as WeightNorm, rely on this grouping.
//
// Weights are initialized with Xavier/Glorot uniform distribution, biases
// with zeros.
//
// Example:
//
//	layer := nn.NewLinear(784, 128)
//	layer.Reset()
//	output := layer.Forward(input) // [32, 784] -> [32, 128]
type Linear struct {
	inSize  int
	outSize int
	hasBias bool

	weights *mat.VecDense // flat unit-major parameters
	grad    *mat.VecDense // flat gradient, same layout
	delta   mat.Dense
	output  mat.Dense
}

// NewLinear creates a new Linear layer with a bias term.
//
// Parameters:
//   - inSize: Number of input features
//   - outSize: Number of output features
//
// Reset must be called before the first Forward.
func NewLinear(inSize, outSize int) *Linear {
	if inSize <= 0 || outSize <= 0 {
		panic(fmt.Sprintf("Linear: invalid dimensions %dx%d", inSize, outSize))
	}
	return &Linear{inSize: inSize, outSize: outSize, hasBias: true}
}

// NewLinearNoBias creates a new Linear layer without a bias term.
func NewLinearNoBias(inSize, outSize int) *Linear {
	l := NewLinear(inSize, outSize)
	l.hasBias = false
	return l
}

// stride is the flat-buffer group length per output unit.
func (l *Linear) stride() int {
	if l.hasBias {
		return l.inSize + 1
	}
	return l.inSize
}

// weightView returns the [out_features, in_features] weight matrix aliasing
// the flat parameter buffer.
func (l *Linear) weightView() *mat.Dense {
	full := mat.NewDense(l.outSize, l.stride(), l.weights.RawVector().Data)
	if !l.hasBias {
		return full
	}
	return full.Slice(0, l.outSize, 0, l.inSize).(*mat.Dense)
}

// gradView returns the weight-gradient matrix aliasing the flat gradient
// buffer, same shape as weightView.
func (l *Linear) gradView() *mat.Dense {
	full := mat.NewDense(l.outSize, l.stride(), l.grad.RawVector().Data)
	if !l.hasBias {
		return full
	}
	return full.Slice(0, l.outSize, 0, l.inSize).(*mat.Dense)
}

// Reset allocates the parameter and gradient buffers and initializes the
// weights (Xavier uniform) and biases (zero).
func (l *Linear) Reset() {
	l.weights = mat.NewVecDense(l.outSize*l.stride(), nil)
	l.grad = mat.NewVecDense(l.outSize*l.stride(), nil)

	data := l.weights.RawVector().Data
	for i := 0; i < l.outSize; i++ {
		base := i * l.stride()
		Xavier(data[base:base+l.inSize], l.inSize, l.outSize)
	}
}

// Forward computes y = x @ W.T + b.
//
// Input shape: [batch_size, in_features]
// Returns the layer's output buffer with shape [batch_size, out_features].
func (l *Linear) Forward(input *mat.Dense) *mat.Dense {
	l.checkReady("Forward")
	n, c := input.Dims()
	if c != l.inSize {
		panic(fmt.Sprintf("Linear.Forward: expected input with %d features, got %d", l.inSize, c))
	}

	out := resize(&l.output, n, l.outSize)
	out.Mul(input, l.weightView().T())

	if l.hasBias {
		data := l.weights.RawVector().Data
		for i := 0; i < n; i++ {
			for j := 0; j < l.outSize; j++ {
				out.Set(i, j, out.At(i, j)+data[j*l.stride()+l.inSize])
			}
		}
	}
	return out
}

// Backward computes the gradient of the loss with respect to the input:
// dx = upstream @ W.
//
// Shapes: input [batch, in], upstream [batch, out].
// Returns the layer's delta buffer with shape [batch, in].
func (l *Linear) Backward(input, upstream *mat.Dense) *mat.Dense {
	l.checkReady("Backward")
	n, c := upstream.Dims()
	if c != l.outSize {
		panic(fmt.Sprintf("Linear.Backward: expected upstream with %d columns, got %d", l.outSize, c))
	}

	delta := resize(&l.delta, n, l.inSize)
	delta.Mul(upstream, l.weightView())
	return delta
}

// Gradient computes the gradient of the loss with respect to the flat
// parameter buffer: dW = errSignal.T @ input and db = column sums of
// errSignal. Returns the layer's gradient buffer.
func (l *Linear) Gradient(input, errSignal *mat.Dense) *mat.VecDense {
	l.checkReady("Gradient")
	n, c := errSignal.Dims()
	if c != l.outSize {
		panic(fmt.Sprintf("Linear.Gradient: expected error with %d columns, got %d", l.outSize, c))
	}
	if in, _ := input.Dims(); in != n {
		panic(fmt.Sprintf("Linear.Gradient: input has %d rows, error has %d", in, n))
	}

	l.gradView().Mul(errSignal.T(), input)

	if l.hasBias {
		data := l.grad.RawVector().Data
		for j := 0; j < l.outSize; j++ {
			sum := 0.0
			for i := 0; i < n; i++ {
				sum += errSignal.At(i, j)
			}
			data[j*l.stride()+l.inSize] = sum
		}
	}
	return l.grad
}

// Parameters returns the flat parameter buffer, or nil before Reset.
func (l *Linear) Parameters() *mat.VecDense { return l.weights }

// SetParameters copies w into the flat parameter buffer.
func (l *Linear) SetParameters(w *mat.VecDense) {
	l.checkReady("SetParameters")
	if w.Len() != l.weights.Len() {
		panic(fmt.Sprintf("Linear.SetParameters: expected %d elements, got %d", l.weights.Len(), w.Len()))
	}
	l.weights.CopyVec(w)
}

// WeightSize returns the number of elements in the parameter buffer.
func (l *Linear) WeightSize() int { return l.outSize * l.stride() }

// OutputSize returns the number of output units.
func (l *Linear) OutputSize() int { return l.outSize }

// Grad returns the flat gradient buffer, or nil before Reset.
func (l *Linear) Grad() *mat.VecDense { return l.grad }

// Delta returns the buffer filled by the last Backward call.
func (l *Linear) Delta() *mat.Dense { return &l.delta }

// OutputParameter returns the buffer filled by the last Forward call.
func (l *Linear) OutputParameter() *mat.Dense { return &l.output }

// Model returns nil; Linear has no child layers.
func (l *Linear) Model() []Layer { return nil }

// StateDict exports the weight matrix and bias vector.
func (l *Linear) StateDict() map[string]*mat.Dense {
	l.checkReady("StateDict")
	sd := map[string]*mat.Dense{
		"weight": mat.DenseCopyOf(l.weightView()),
	}
	if l.hasBias {
		bias := mat.NewDense(l.outSize, 1, nil)
		data := l.weights.RawVector().Data
		for i := 0; i < l.outSize; i++ {
			bias.Set(i, 0, data[i*l.stride()+l.inSize])
		}
		sd["bias"] = bias
	}
	return sd
}

// LoadStateDict restores the weight matrix and bias vector.
func (l *Linear) LoadStateDict(stateDict map[string]*mat.Dense) error {
	if l.weights == nil {
		l.Reset()
	}

	weight, ok := stateDict["weight"]
	if !ok {
		return errors.New(`linear: state dict missing "weight"`)
	}
	if r, c := weight.Dims(); r != l.outSize || c != l.inSize {
		return errors.Errorf("linear: weight shape [%d, %d] does not match layer %dx%d", r, c, l.outSize, l.inSize)
	}
	l.weightView().Copy(weight)

	if !l.hasBias {
		return nil
	}
	bias, ok := stateDict["bias"]
	if !ok {
		return errors.New(`linear: state dict missing "bias"`)
	}
	if r, c := bias.Dims(); r != l.outSize || c != 1 {
		return errors.Errorf("linear: bias shape [%d, %d] does not match layer with %d units", r, c, l.outSize)
	}
	data := l.weights.RawVector().Data
	for i := 0; i < l.outSize; i++ {
		data[i*l.stride()+l.inSize] = bias.At(i, 0)
	}
	return nil
}

func (l *Linear) checkReady(op string) {
	if l.weights == nil {
		panic("Linear." + op + ": Reset has not been called")
	}
}

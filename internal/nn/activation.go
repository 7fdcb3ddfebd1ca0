package nn

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Function is an elementwise activation transform with a forward form and a
// derivative form. Deriv takes the pre-activation input x, not the output.
type Function interface {
	// Fn computes f(x).
	Fn(x float64) float64
	// Deriv computes f'(x).
	Deriv(x float64) float64
}

// InverseQuadratic implements the inverse quadratic function:
//
//	f(x)  = 1 / (1 + x^2)
//	f'(x) = -2x / (1 + x^2)^2
type InverseQuadratic struct{}

// Fn computes the inverse quadratic function.
func (InverseQuadratic) Fn(x float64) float64 {
	return 1 / (1 + x*x)
}

// Deriv computes the first derivative of the inverse quadratic function.
func (InverseQuadratic) Deriv(x float64) float64 {
	d := 1 + x*x
	return -2 * x / (d * d)
}

// Sigmoid implements the logistic function: f(x) = 1 / (1 + exp(-x)).
type Sigmoid struct{}

// Fn computes the logistic function.
func (Sigmoid) Fn(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

// Deriv computes f'(x) = f(x) * (1 - f(x)).
func (Sigmoid) Deriv(x float64) float64 {
	s := 1 / (1 + math.Exp(-x))
	return s * (1 - s)
}

// Tanh implements the hyperbolic tangent activation.
type Tanh struct{}

// Fn computes tanh(x).
func (Tanh) Fn(x float64) float64 {
	return math.Tanh(x)
}

// Deriv computes f'(x) = 1 - tanh(x)^2.
func (Tanh) Deriv(x float64) float64 {
	t := math.Tanh(x)
	return 1 - t*t
}

// ReLU implements the rectified linear unit: f(x) = max(0, x).
type ReLU struct{}

// Fn computes max(0, x).
func (ReLU) Fn(x float64) float64 {
	if x > 0 {
		return x
	}
	return 0
}

// Deriv computes the subgradient: 1 for x > 0, else 0.
func (ReLU) Deriv(x float64) float64 {
	if x > 0 {
		return 1
	}
	return 0
}

// Activation is a stateless layer applying an elementwise Function.
//
// Forward applies fn to every element; Backward multiplies the upstream
// gradient by fn's derivative at the input. Activation layers own no
// trainable parameters.
//
// Example:
//
//	act := nn.NewInverseQuadratic()
//	output := act.Forward(input) // same shape as input
type Activation struct {
	fn Function

	delta  mat.Dense
	output mat.Dense
}

// NewActivation creates an activation layer applying fn.
func NewActivation(fn Function) *Activation {
	if fn == nil {
		panic("Activation: nil function")
	}
	return &Activation{fn: fn}
}

// NewSigmoid creates a Sigmoid activation layer.
func NewSigmoid() *Activation { return NewActivation(Sigmoid{}) }

// NewTanh creates a Tanh activation layer.
func NewTanh() *Activation { return NewActivation(Tanh{}) }

// NewReLU creates a ReLU activation layer.
func NewReLU() *Activation { return NewActivation(ReLU{}) }

// NewInverseQuadratic creates an inverse quadratic activation layer.
func NewInverseQuadratic() *Activation { return NewActivation(InverseQuadratic{}) }

// Reset is a no-op; activation layers have no buffers to initialize.
func (a *Activation) Reset() {}

// Forward applies the activation function elementwise.
func (a *Activation) Forward(input *mat.Dense) *mat.Dense {
	r, c := input.Dims()
	out := resize(&a.output, r, c)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			out.Set(i, j, a.fn.Fn(input.At(i, j)))
		}
	}
	return out
}

// Backward computes downstream = upstream * f'(input) elementwise.
func (a *Activation) Backward(input, upstream *mat.Dense) *mat.Dense {
	r, c := input.Dims()
	if ur, uc := upstream.Dims(); ur != r || uc != c {
		panic("Activation.Backward: input and upstream shapes differ")
	}
	delta := resize(&a.delta, r, c)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			delta.Set(i, j, upstream.At(i, j)*a.fn.Deriv(input.At(i, j)))
		}
	}
	return delta
}

// Gradient is a no-op; activation layers have no parameters.
func (a *Activation) Gradient(input, errSignal *mat.Dense) *mat.VecDense { return nil }

// Parameters returns nil; activation layers have no parameters.
func (a *Activation) Parameters() *mat.VecDense { return nil }

// SetParameters panics; activation layers have no parameters.
func (a *Activation) SetParameters(w *mat.VecDense) {
	panic("Activation.SetParameters: activation layers have no parameters")
}

// WeightSize returns 0.
func (a *Activation) WeightSize() int { return 0 }

// OutputSize returns 0; the output width follows the input.
func (a *Activation) OutputSize() int { return 0 }

// Grad returns nil; activation layers have no parameters.
func (a *Activation) Grad() *mat.VecDense { return nil }

// Delta returns the buffer filled by the last Backward call.
func (a *Activation) Delta() *mat.Dense { return &a.delta }

// OutputParameter returns the buffer filled by the last Forward call.
func (a *Activation) OutputParameter() *mat.Dense { return &a.output }

// Model returns nil; activation layers have no children.
func (a *Activation) Model() []Layer { return nil }

// StateDict returns an empty map.
func (a *Activation) StateDict() map[string]*mat.Dense { return map[string]*mat.Dense{} }

// LoadStateDict is a no-op.
func (a *Activation) LoadStateDict(stateDict map[string]*mat.Dense) error { return nil }

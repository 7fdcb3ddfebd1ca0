package nn

import (
	"fmt"
	"math"
	"strings"

	"go.uber.org/multierr"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// normEpsilon is the floor applied to per-unit direction norms before any
// division. An all-zero direction group therefore yields zero effective
// weights and finite gradients instead of NaN.
const normEpsilon = 1e-8

// WeightNorm is a wrapper layer implementing weight normalization.
//
// The wrapper reparametrizes the wrapped layer's flat parameter buffer into a
// direction vector v and a per-unit magnitude vector g, decoupling the length
// of each unit's weight group from its direction:
//
//	w_i = g_i * v_i / ||v_i||
//
// where i ranges over the wrapped layer's output units and v_i is the
// contiguous group of the direction vector belonging to unit i. The effective
// weights w are recomputed from (v, g) and installed into the wrapped layer
// at the start of every Forward, so v and g are the source of truth and the
// wrapped layer's parameter buffer is a derived cache.
//
// The wrapper's own flat parameter buffer stores the direction vector first
// and the magnitude vector immediately after it; Grad uses the same layout.
//
// For details see Salimans & Kingma, "Weight Normalization: A Simple
// Reparameterization to Accelerate Training of Deep Neural Networks",
// NeurIPS 2016.
//
// Example:
//
//	wn := nn.NewWeightNorm()
//	wn.Add(nn.NewLinear(2, 1))
//	wn.Reset()
//	output := wn.Forward(input)
type WeightNorm struct {
	network Layer // the single wrapped layer
	model   bool  // expose the wrapped layer via Model()

	// Sizing cached at Reset. The wrapped layer's parameter count must not
	// change afterwards.
	weightSize int
	groups     int
	groupLen   int

	weights *mat.VecDense // [direction | magnitude]
	vector  *mat.VecDense // direction view into weights
	scalar  *mat.VecDense // magnitude view into weights
	grad    *mat.VecDense // [dL/dv | dL/dg], same offsets as weights

	effective *mat.VecDense // scratch buffer for reconstructed weights
}

// NewWeightNorm creates an empty WeightNorm wrapper. Exactly one layer must
// be attached with Add, followed by one Reset, before any Forward, Backward
// or Gradient call. The wrapped layer is hidden from Model() by default.
func NewWeightNorm() *WeightNorm {
	return &WeightNorm{}
}

// WrapWeightNorm is a convenience constructor that attaches layer
// immediately. Reset must still be called before use.
func WrapWeightNorm(layer Layer) *WeightNorm {
	wn := NewWeightNorm()
	wn.Add(layer)
	return wn
}

// Add attaches the wrapped layer. It panics if a layer is already attached
// or if layer is nil; the first attached layer is never silently replaced.
func (wn *WeightNorm) Add(layer Layer) {
	if layer == nil {
		panic("WeightNorm.Add: nil layer")
	}
	if wn.network != nil {
		panic("WeightNorm.Add: a wrapped layer is already attached")
	}
	wn.network = layer
}

// SetModelExposed controls whether Model() reveals the wrapped layer to
// graph walkers. Hidden by default: the wrapper already delegates every
// layer operation, so most walkers should treat it as opaque.
func (wn *WeightNorm) SetModelExposed(exposed bool) {
	wn.model = exposed
}

// Reset caches the wrapped layer's parameter count, allocates the flat
// [direction | magnitude] buffer and initializes it from the wrapped layer's
// current parameters: v is the parameter vector itself and g_i the Euclidean
// norm of unit i's group, so the initial effective weights reproduce the
// pre-existing weights exactly.
//
// Reset must be called exactly once per Add. Calling it again re-derives
// v and g from the currently installed effective weights.
func (wn *WeightNorm) Reset() {
	if wn.network == nil {
		panic("WeightNorm.Reset: no wrapped layer; call Add first")
	}
	if wn.network.Parameters() == nil {
		wn.network.Reset()
	}

	n := wn.network.WeightSize()
	if n == 0 {
		panic("WeightNorm.Reset: wrapped layer has no parameters")
	}
	units := wn.network.OutputSize()
	if units <= 0 {
		panic("WeightNorm.Reset: wrapped layer does not report its output units")
	}
	if n%units != 0 {
		panic(fmt.Sprintf("WeightNorm.Reset: %d parameters do not split into %d unit groups", n, units))
	}

	wn.weightSize = n
	wn.groups = units
	wn.groupLen = n / units

	wn.weights = mat.NewVecDense(n+units, nil)
	wn.vector = wn.weights.SliceVec(0, n).(*mat.VecDense)
	wn.scalar = wn.weights.SliceVec(n, n+units).(*mat.VecDense)
	wn.grad = mat.NewVecDense(n+units, nil)
	wn.effective = mat.NewVecDense(n, nil)

	wn.vector.CopyVec(wn.network.Parameters())
	v := wn.vector.RawVector().Data
	for i := 0; i < units; i++ {
		group := v[i*wn.groupLen : (i+1)*wn.groupLen]
		wn.scalar.SetVec(i, norm2(group))
	}
}

// Forward reconstructs the wrapped layer's effective weights from (v, g),
// installs them, and delegates to the wrapped layer.
//
// Per-unit norms are floored at normEpsilon, so a degenerate all-zero
// direction group produces zero weights rather than NaN/Inf output.
func (wn *WeightNorm) Forward(input *mat.Dense) *mat.Dense {
	wn.checkReady("Forward")

	v := wn.vector.RawVector().Data
	eff := wn.effective.RawVector().Data
	for i := 0; i < wn.groups; i++ {
		lo, hi := i*wn.groupLen, (i+1)*wn.groupLen
		norm := math.Max(norm2(v[lo:hi]), normEpsilon)
		scale := wn.scalar.AtVec(i) / norm
		for j := lo; j < hi; j++ {
			eff[j] = scale * v[j]
		}
	}
	wn.network.SetParameters(wn.effective)

	return wn.network.Forward(input)
}

// Backward delegates to the wrapped layer. Backpropagation reads the
// effective weights installed by the most recent Forward, so no
// reparametrization is needed here; callers must not mutate v or g between
// a Forward and its matching Backward.
func (wn *WeightNorm) Backward(input, upstream *mat.Dense) *mat.Dense {
	wn.checkReady("Backward")
	return wn.network.Backward(input, upstream)
}

// Gradient computes the gradient of the loss with respect to the wrapper's
// own parameters. The wrapped layer supplies dL/dw, the gradient with
// respect to the effective weights; the chain rule converts it per unit:
//
//	dL/dv_i = (g_i / ||v_i||) * dL/dw_i - (g_i * (dL/dw_i . v_i) / ||v_i||^3) * v_i
//	dL/dg_i = (dL/dw_i . v_i) / ||v_i||
//
// The result is written into the wrapper's gradient buffer using the same
// [direction | magnitude] offsets as Parameters.
func (wn *WeightNorm) Gradient(input, errSignal *mat.Dense) *mat.VecDense {
	wn.checkReady("Gradient")

	dw := wn.network.Gradient(input, errSignal).RawVector().Data
	v := wn.vector.RawVector().Data
	out := wn.grad.RawVector().Data

	for i := 0; i < wn.groups; i++ {
		lo, hi := i*wn.groupLen, (i+1)*wn.groupLen
		norm := math.Max(norm2(v[lo:hi]), normEpsilon)
		g := wn.scalar.AtVec(i)

		dot := floats.Dot(dw[lo:hi], v[lo:hi])

		a := g / norm
		b := g * dot / (norm * norm * norm)
		for j := lo; j < hi; j++ {
			out[j] = a*dw[j] - b*v[j]
		}
		out[wn.weightSize+i] = dot / norm
	}
	return wn.grad
}

// Parameters returns the flat [direction | magnitude] buffer, or nil before
// Reset.
func (wn *WeightNorm) Parameters() *mat.VecDense { return wn.weights }

// SetParameters copies w into the flat [direction | magnitude] buffer.
func (wn *WeightNorm) SetParameters(w *mat.VecDense) {
	wn.checkReady("SetParameters")
	if w.Len() != wn.weights.Len() {
		panic(fmt.Sprintf("WeightNorm.SetParameters: expected %d elements, got %d", wn.weights.Len(), w.Len()))
	}
	wn.weights.CopyVec(w)
}

// WeightSize returns the wrapper's parameter count: the wrapped layer's
// weight count plus one magnitude per output unit.
func (wn *WeightNorm) WeightSize() int {
	if wn.weights != nil {
		return wn.weights.Len()
	}
	if wn.network != nil {
		return wn.network.WeightSize() + wn.network.OutputSize()
	}
	return 0
}

// OutputSize returns the wrapped layer's output unit count.
func (wn *WeightNorm) OutputSize() int {
	if wn.network == nil {
		return 0
	}
	return wn.network.OutputSize()
}

// Grad returns the [dL/dv | dL/dg] buffer filled by the last Gradient call.
func (wn *WeightNorm) Grad() *mat.VecDense { return wn.grad }

// Delta returns the wrapped layer's delta buffer.
func (wn *WeightNorm) Delta() *mat.Dense {
	wn.checkReady("Delta")
	return wn.network.Delta()
}

// OutputParameter returns the wrapped layer's output buffer.
func (wn *WeightNorm) OutputParameter() *mat.Dense {
	wn.checkReady("OutputParameter")
	return wn.network.OutputParameter()
}

// Direction returns the direction vector v as a view into the wrapper's
// parameter buffer.
func (wn *WeightNorm) Direction() *mat.VecDense { return wn.vector }

// Magnitude returns the per-unit magnitude vector g as a view into the
// wrapper's parameter buffer.
func (wn *WeightNorm) Magnitude() *mat.VecDense { return wn.scalar }

// Model returns the wrapped layer when exposure is enabled via
// SetModelExposed, otherwise nil.
func (wn *WeightNorm) Model() []Layer {
	if wn.model && wn.network != nil {
		return []Layer{wn.network}
	}
	return nil
}

// StateDict exports the direction vector, the magnitude vector and,
// recursively, the wrapped layer's state under the "layer." prefix.
func (wn *WeightNorm) StateDict() map[string]*mat.Dense {
	wn.checkReady("StateDict")

	sd := map[string]*mat.Dense{
		"direction": vecToColumn(wn.vector),
		"magnitude": vecToColumn(wn.scalar),
	}
	for name, value := range wn.network.StateDict() {
		sd["layer."+name] = value
	}
	return sd
}

// LoadStateDict restores the direction and magnitude vectors and delegates
// "layer."-prefixed entries to the wrapped layer. All shape and missing-key
// failures are reported together.
func (wn *WeightNorm) LoadStateDict(stateDict map[string]*mat.Dense) error {
	if wn.network == nil {
		return fmt.Errorf("weightnorm: no wrapped layer attached")
	}
	if wn.weights == nil {
		wn.Reset()
	}

	var err error
	err = multierr.Append(err, loadColumn(stateDict, "direction", wn.vector))
	err = multierr.Append(err, loadColumn(stateDict, "magnitude", wn.scalar))

	inner := make(map[string]*mat.Dense)
	for name, value := range stateDict {
		if rest, ok := strings.CutPrefix(name, "layer."); ok {
			inner[rest] = value
		}
	}
	err = multierr.Append(err, wn.network.LoadStateDict(inner))
	return err
}

func (wn *WeightNorm) checkReady(op string) {
	if wn.network == nil {
		panic("WeightNorm." + op + ": no wrapped layer; call Add first")
	}
	if wn.weights == nil {
		panic("WeightNorm." + op + ": Reset has not been called")
	}
}

// norm2 returns the Euclidean norm of s.
func norm2(s []float64) float64 {
	return floats.Norm(s, 2)
}

// vecToColumn copies v into a fresh n-by-1 matrix.
func vecToColumn(v *mat.VecDense) *mat.Dense {
	out := mat.NewDense(v.Len(), 1, nil)
	for i := 0; i < v.Len(); i++ {
		out.Set(i, 0, v.AtVec(i))
	}
	return out
}

// loadColumn copies the named n-by-1 state-dict entry into dst.
func loadColumn(stateDict map[string]*mat.Dense, name string, dst *mat.VecDense) error {
	value, ok := stateDict[name]
	if !ok {
		return fmt.Errorf("weightnorm: state dict missing %q", name)
	}
	r, c := value.Dims()
	if r != dst.Len() || c != 1 {
		return fmt.Errorf("weightnorm: %s shape [%d, %d] does not match length %d", name, r, c, dst.Len())
	}
	for i := 0; i < r; i++ {
		dst.SetVec(i, value.At(i, 0))
	}
	return nil
}

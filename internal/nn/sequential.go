package nn

import (
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/multierr"
	"gonum.org/v1/gonum/mat"
)

// Sequential is a container layer that chains other layers together.
//
// Each layer's output becomes the next layer's input. The container owns no
// parameters of its own; optimizers reach the children through Model(),
// which always exposes them.
//
// A training step drives the container through the usual three phases.
// Forward caches every layer's input and Backward caches every layer's
// upstream signal, so Gradient can hand each child the (input, error) pair
// it needs:
//
//	output := model.Forward(input)
//	model.Backward(input, lossGrad)
//	model.Gradient(input, lossGrad)
//
// Example:
//
//	model := nn.NewSequential(
//	    nn.WrapWeightNorm(nn.NewLinear(2, 4)),
//	    nn.NewTanh(),
//	    nn.NewLinear(4, 1),
//	)
//	model.Reset()
type Sequential struct {
	layers    []Layer
	inputs    []*mat.Dense // input seen by each layer during the last Forward
	upstreams []*mat.Dense // upstream signal seen by each layer during the last Backward
}

// NewSequential creates a new Sequential container.
func NewSequential(layers ...Layer) *Sequential {
	return &Sequential{layers: layers}
}

// Add appends a layer to the sequence.
func (s *Sequential) Add(layer Layer) {
	if layer == nil {
		panic("Sequential.Add: nil layer")
	}
	s.layers = append(s.layers, layer)
}

// Len returns the number of layers in the sequence.
func (s *Sequential) Len() int { return len(s.layers) }

// Reset resets every layer in the sequence.
func (s *Sequential) Reset() {
	for _, layer := range s.layers {
		layer.Reset()
	}
}

// Forward applies all layers in sequence and returns the last layer's
// output buffer.
func (s *Sequential) Forward(input *mat.Dense) *mat.Dense {
	if len(s.layers) == 0 {
		panic("Sequential.Forward: empty container")
	}

	s.inputs = s.inputs[:0]
	x := input
	for _, layer := range s.layers {
		s.inputs = append(s.inputs, x)
		x = layer.Forward(x)
	}
	return x
}

// Backward propagates the upstream signal through the layers in reverse
// order and returns the first layer's delta buffer. Must follow a Forward
// on the same input.
func (s *Sequential) Backward(input, upstream *mat.Dense) *mat.Dense {
	if len(s.inputs) != len(s.layers) {
		panic("Sequential.Backward: Forward has not been called")
	}

	s.upstreams = make([]*mat.Dense, len(s.layers))
	u := upstream
	for i := len(s.layers) - 1; i >= 0; i-- {
		s.upstreams[i] = u
		u = s.layers[i].Backward(s.inputs[i], u)
	}
	return u
}

// Gradient fans out to every layer with the (input, error) pair cached by
// the preceding Forward and Backward. The container has no flat gradient
// buffer of its own and returns nil; each child's Grad() holds its result.
func (s *Sequential) Gradient(input, errSignal *mat.Dense) *mat.VecDense {
	if len(s.upstreams) != len(s.layers) {
		panic("Sequential.Gradient: Backward has not been called")
	}

	for i, layer := range s.layers {
		if layer.WeightSize() > 0 {
			layer.Gradient(s.inputs[i], s.upstreams[i])
		}
	}
	return nil
}

// Parameters returns nil; the container owns no parameters directly.
// Optimizers walk Model() instead.
func (s *Sequential) Parameters() *mat.VecDense { return nil }

// SetParameters panics; the container owns no parameters directly.
func (s *Sequential) SetParameters(w *mat.VecDense) {
	panic("Sequential.SetParameters: container owns no parameters")
}

// WeightSize returns the total parameter count over all layers.
func (s *Sequential) WeightSize() int {
	total := 0
	for _, layer := range s.layers {
		total += layer.WeightSize()
	}
	return total
}

// OutputSize returns the output unit count of the last layer that fixes
// one, or 0.
func (s *Sequential) OutputSize() int {
	for i := len(s.layers) - 1; i >= 0; i-- {
		if n := s.layers[i].OutputSize(); n > 0 {
			return n
		}
	}
	return 0
}

// Grad returns nil; see Gradient.
func (s *Sequential) Grad() *mat.VecDense { return nil }

// Delta returns the first layer's delta buffer.
func (s *Sequential) Delta() *mat.Dense {
	if len(s.layers) == 0 {
		panic("Sequential.Delta: empty container")
	}
	return s.layers[0].Delta()
}

// OutputParameter returns the last layer's output buffer.
func (s *Sequential) OutputParameter() *mat.Dense {
	if len(s.layers) == 0 {
		panic("Sequential.OutputParameter: empty container")
	}
	return s.layers[len(s.layers)-1].OutputParameter()
}

// Model returns the child layers. A Sequential container is always
// transparent to graph walkers.
func (s *Sequential) Model() []Layer {
	out := make([]Layer, len(s.layers))
	copy(out, s.layers)
	return out
}

// StateDict exports every child's state under its position index, e.g.
// "0.weight", "2.direction".
func (s *Sequential) StateDict() map[string]*mat.Dense {
	sd := make(map[string]*mat.Dense)
	for i, layer := range s.layers {
		for name, value := range layer.StateDict() {
			sd[fmt.Sprintf("%d.%s", i, name)] = value
		}
	}
	return sd
}

// LoadStateDict splits entries by their position prefix and delegates to the
// children, reporting all failures together.
func (s *Sequential) LoadStateDict(stateDict map[string]*mat.Dense) error {
	perLayer := make([]map[string]*mat.Dense, len(s.layers))
	for i := range perLayer {
		perLayer[i] = make(map[string]*mat.Dense)
	}

	var err error
	for name, value := range stateDict {
		idx, rest, found := strings.Cut(name, ".")
		i, convErr := strconv.Atoi(idx)
		if !found || convErr != nil || i < 0 || i >= len(s.layers) {
			err = multierr.Append(err, fmt.Errorf("sequential: unrecognized state entry %q", name))
			continue
		}
		perLayer[i][rest] = value
	}
	for i, layer := range s.layers {
		err = multierr.Append(err, layer.LoadStateDict(perLayer[i]))
	}
	return err
}

package optim

import (
	"gonum.org/v1/gonum/floats"

	"github.com/anvil-ml/anvil/internal/nn"
)

// SGD implements Stochastic Gradient Descent with optional momentum.
//
// Update rule without momentum:
//
//	param = param - lr * gradient
//
// Update rule with momentum:
//
//	velocity = momentum * velocity + gradient
//	param = param - lr * velocity
//
// Example:
//
//	sgd := optim.NewSGD(optim.Collect(model), optim.SGDConfig{
//	    LR:       0.01,
//	    Momentum: 0.9,
//	})
type SGD struct {
	layers     []nn.Layer
	lr         float64
	momentum   float64
	velocities [][]float64
}

// SGDConfig holds configuration for the SGD optimizer.
type SGDConfig struct {
	LR       float64 // Learning rate (default: 0.01)
	Momentum float64 // Momentum factor (default: 0.0, range: [0, 1))
}

// NewSGD creates a new SGD optimizer over the given layers.
func NewSGD(layers []nn.Layer, config SGDConfig) *SGD {
	if config.LR == 0 {
		config.LR = 0.01
	}
	return &SGD{
		layers:     layers,
		lr:         config.LR,
		momentum:   config.Momentum,
		velocities: make([][]float64, len(layers)),
	}
}

// Step performs a single optimization step over all collected layers.
func (s *SGD) Step() {
	for i, layer := range s.layers {
		grad := layer.Grad()
		if grad == nil {
			continue
		}
		params := layer.Parameters().RawVector().Data
		g := grad.RawVector().Data

		if s.momentum == 0 {
			floats.AddScaled(params, -s.lr, g)
			continue
		}

		if s.velocities[i] == nil {
			s.velocities[i] = make([]float64, len(g))
		}
		v := s.velocities[i]
		floats.Scale(s.momentum, v)
		floats.Add(v, g)
		floats.AddScaled(params, -s.lr, v)
	}
}

// ZeroGrad clears all collected layers' gradient buffers.
func (s *SGD) ZeroGrad() {
	zeroGrad(s.layers)
}

// LR returns the learning rate.
func (s *SGD) LR() float64 { return s.lr }

package optim

import (
	"math"

	"github.com/anvil-ml/anvil/internal/nn"
)

// Adam implements the Adam optimizer (Kingma & Ba, 2015).
//
// Maintains exponential moving averages of gradients (first moment) and
// squared gradients (second moment) per parameter:
//
//	m = beta1 * m + (1 - beta1) * g
//	v = beta2 * v + (1 - beta2) * g^2
//	param -= lr * m_hat / (sqrt(v_hat) + eps)
//
// where m_hat and v_hat are bias-corrected moments.
type Adam struct {
	layers []nn.Layer
	lr     float64
	beta1  float64
	beta2  float64
	eps    float64
	step   int

	m [][]float64
	v [][]float64
}

// AdamConfig holds configuration for the Adam optimizer.
type AdamConfig struct {
	LR    float64 // Learning rate (default: 0.001)
	Beta1 float64 // First moment decay (default: 0.9)
	Beta2 float64 // Second moment decay (default: 0.999)
	Eps   float64 // Numerical stability constant (default: 1e-8)
}

// NewAdam creates a new Adam optimizer over the given layers.
func NewAdam(layers []nn.Layer, config AdamConfig) *Adam {
	if config.LR == 0 {
		config.LR = 0.001
	}
	if config.Beta1 == 0 {
		config.Beta1 = 0.9
	}
	if config.Beta2 == 0 {
		config.Beta2 = 0.999
	}
	if config.Eps == 0 {
		config.Eps = 1e-8
	}
	return &Adam{
		layers: layers,
		lr:     config.LR,
		beta1:  config.Beta1,
		beta2:  config.Beta2,
		eps:    config.Eps,
		m:      make([][]float64, len(layers)),
		v:      make([][]float64, len(layers)),
	}
}

// Step performs a single optimization step over all collected layers.
func (a *Adam) Step() {
	a.step++
	c1 := 1 - math.Pow(a.beta1, float64(a.step))
	c2 := 1 - math.Pow(a.beta2, float64(a.step))

	for i, layer := range a.layers {
		grad := layer.Grad()
		if grad == nil {
			continue
		}
		params := layer.Parameters().RawVector().Data
		g := grad.RawVector().Data

		if a.m[i] == nil {
			a.m[i] = make([]float64, len(g))
			a.v[i] = make([]float64, len(g))
		}
		m, v := a.m[i], a.v[i]

		for j := range g {
			m[j] = a.beta1*m[j] + (1-a.beta1)*g[j]
			v[j] = a.beta2*v[j] + (1-a.beta2)*g[j]*g[j]
			mHat := m[j] / c1
			vHat := v[j] / c2
			params[j] -= a.lr * mHat / (math.Sqrt(vHat) + a.eps)
		}
	}
}

// ZeroGrad clears all collected layers' gradient buffers.
func (a *Adam) ZeroGrad() {
	zeroGrad(a.layers)
}

// LR returns the learning rate.
func (a *Adam) LR() float64 { return a.lr }

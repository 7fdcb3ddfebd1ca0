// Package optim implements optimization algorithms for training neural
// networks.
//
// This package provides:
//   - Optimizer interface: Base interface for all optimizers
//   - SGD: Stochastic Gradient Descent with momentum
//   - Adam: Adaptive Moment Estimation
//
// Optimizers update each layer through its flat Parameters()/Grad() buffer
// pair. Collect gathers the trainable layers of a model tree; a WeightNorm
// wrapper is collected as a single layer and trained through its own
// (direction, magnitude) buffer, never through the wrapped layer's derived
// weights.
//
// Example usage:
//
//	optimizer := optim.NewSGD(optim.Collect(model), optim.SGDConfig{LR: 0.01})
//
//	for epoch := 0; epoch < epochs; epoch++ {
//	    pred := model.Forward(input)
//	    grad := loss.Grad(pred, target)
//	    model.Backward(input, grad)
//	    model.Gradient(input, grad)
//	    optimizer.Step()
//	}
package optim

import (
	"github.com/anvil-ml/anvil/internal/nn"
)

// Optimizer is the base interface for all optimization algorithms.
type Optimizer interface {
	// Step applies one gradient update to every collected layer, reading
	// each layer's Grad() buffer and mutating its Parameters() in place.
	Step()

	// ZeroGrad clears every collected layer's gradient buffer.
	ZeroGrad()

	// LR returns the current learning rate.
	LR() float64
}

// Collect walks a model tree and returns the layers an optimizer should
// update.
//
// A layer that owns parameters is collected as-is and its children are not
// descended into: a wrapper like WeightNorm owns its inner layer's training.
// Containers without parameters are traversed through Model().
func Collect(root nn.Layer) []nn.Layer {
	if root == nil {
		return nil
	}
	if root.Parameters() != nil {
		return []nn.Layer{root}
	}

	var out []nn.Layer
	for _, child := range root.Model() {
		out = append(out, Collect(child)...)
	}
	return out
}

// zeroGrad clears the gradient buffers of all given layers.
func zeroGrad(layers []nn.Layer) {
	for _, layer := range layers {
		if grad := layer.Grad(); grad != nil {
			grad.Zero()
		}
	}
}

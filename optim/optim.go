// Copyright 2025 Anvil ML Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package optim provides the public API for optimization algorithms in the
// Anvil ML library.
//
// Example:
//
//	optimizer := optim.NewSGD(optim.Collect(model), optim.SGDConfig{LR: 0.01})
//	optimizer.Step()
package optim

import (
	"github.com/anvil-ml/anvil/internal/nn"
	"github.com/anvil-ml/anvil/internal/optim"
)

// Optimizer is the common interface for all optimizers.
type Optimizer = optim.Optimizer

// SGD is stochastic gradient descent with optional momentum.
type SGD = optim.SGD

// SGDConfig configures the SGD optimizer.
type SGDConfig = optim.SGDConfig

// Adam is the adaptive moment estimation optimizer.
type Adam = optim.Adam

// AdamConfig configures the Adam optimizer.
type AdamConfig = optim.AdamConfig

// Collect walks a model tree and returns the layers an optimizer should
// update. Wrapper layers that own parameters, such as WeightNorm, are
// collected whole; parameterless containers are traversed through Model().
func Collect(root nn.Layer) []nn.Layer {
	return optim.Collect(root)
}

// NewSGD creates a new SGD optimizer over the given layers.
func NewSGD(layers []nn.Layer, config SGDConfig) *SGD {
	return optim.NewSGD(layers, config)
}

// NewAdam creates a new Adam optimizer over the given layers.
func NewAdam(layers []nn.Layer, config AdamConfig) *Adam {
	return optim.NewAdam(layers, config)
}

// Copyright 2025 Anvil ML Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides the public API for neural network layers in the Anvil
// ML library.
//
// The package exposes:
//   - Layer: the interface every layer satisfies (Forward/Backward/Gradient
//     plus parameter, gradient, delta and output buffer accessors)
//   - Linear: fully connected layer
//   - Activation layers: Sigmoid, Tanh, ReLU, InverseQuadratic
//   - WeightNorm: weight normalization wrapper around any layer
//   - Sequential: container for stacking layers
//   - MSELoss: mean squared error loss
//   - Save/Load: .anvl model persistence
//
// Layers operate on gonum dense matrices with rows as samples and columns
// as features.
//
// Example:
//
//	model := nn.NewSequential(
//	    nn.WrapWeightNorm(nn.NewLinear(2, 4)),
//	    nn.NewTanh(),
//	    nn.NewLinear(4, 1),
//	)
//	model.Reset()
//	output := model.Forward(input)
package nn

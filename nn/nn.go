// Copyright 2025 Anvil ML Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"github.com/anvil-ml/anvil/internal/nn"
	"github.com/anvil-ml/anvil/internal/serialization"
)

// Layer is the base interface for all neural network layers.
type Layer = nn.Layer

// Linear is a fully connected layer.
type Linear = nn.Linear

// Activation is a stateless elementwise activation layer.
type Activation = nn.Activation

// Function is an elementwise activation transform.
type Function = nn.Function

// WeightNorm is the weight normalization wrapper layer.
type WeightNorm = nn.WeightNorm

// Sequential is a container layer chaining other layers.
type Sequential = nn.Sequential

// MSELoss is the mean squared error loss.
type MSELoss = nn.MSELoss

// Header is the parsed header of a .anvl model file.
type Header = serialization.Header

// Activation function implementations.
type (
	// InverseQuadratic is f(x) = 1 / (1 + x^2).
	InverseQuadratic = nn.InverseQuadratic
	// Sigmoid is the logistic function.
	Sigmoid = nn.Sigmoid
	// Tanh is the hyperbolic tangent.
	Tanh = nn.Tanh
	// ReLU is the rectified linear unit.
	ReLU = nn.ReLU
)

// NewLinear creates a fully connected layer with a bias term.
func NewLinear(inSize, outSize int) *Linear {
	return nn.NewLinear(inSize, outSize)
}

// NewLinearNoBias creates a fully connected layer without a bias term.
func NewLinearNoBias(inSize, outSize int) *Linear {
	return nn.NewLinearNoBias(inSize, outSize)
}

// NewActivation creates an activation layer applying fn.
func NewActivation(fn Function) *Activation {
	return nn.NewActivation(fn)
}

// NewSigmoid creates a Sigmoid activation layer.
func NewSigmoid() *Activation { return nn.NewSigmoid() }

// NewTanh creates a Tanh activation layer.
func NewTanh() *Activation { return nn.NewTanh() }

// NewReLU creates a ReLU activation layer.
func NewReLU() *Activation { return nn.NewReLU() }

// NewInverseQuadratic creates an inverse quadratic activation layer.
func NewInverseQuadratic() *Activation { return nn.NewInverseQuadratic() }

// NewWeightNorm creates an empty WeightNorm wrapper; attach the wrapped
// layer with Add and call Reset before use.
func NewWeightNorm() *WeightNorm { return nn.NewWeightNorm() }

// WrapWeightNorm creates a WeightNorm wrapper around layer; Reset must
// still be called before use.
func WrapWeightNorm(layer Layer) *WeightNorm { return nn.WrapWeightNorm(layer) }

// NewSequential creates a Sequential container.
func NewSequential(layers ...Layer) *Sequential { return nn.NewSequential(layers...) }

// NewMSELoss creates a mean squared error loss.
func NewMSELoss() *MSELoss { return nn.NewMSELoss() }

// Save writes a layer's state dictionary to a .anvl file.
func Save(layer Layer, path, modelType string, metadata map[string]string) error {
	return nn.Save(layer, path, modelType, metadata)
}

// Load restores a layer's state dictionary from a .anvl file and returns
// the file header.
func Load(path string, layer Layer) (Header, error) {
	return nn.Load(path, layer)
}

package nn

import (
	"math"
	"math/rand"
)

// Xavier (Glorot) initialization for weights.
//
// Fills dst with values drawn from a uniform distribution:
// U(-sqrt(6/(fan_in + fan_out)), sqrt(6/(fan_in + fan_out)))
//
// This initialization helps maintain variance of activations across layers
// and is the default for Linear weights.
//
// Parameters:
//   - dst: Flat weight slice to fill
//   - fanIn: Number of input units
//   - fanOut: Number of output units
func Xavier(dst []float64, fanIn, fanOut int) {
	bound := math.Sqrt(6.0 / float64(fanIn+fanOut))
	for i := range dst {
		//nolint:gosec // Using math/rand for weight initialization (not security-critical)
		dst[i] = (rand.Float64()*2.0 - 1.0) * bound
	}
}

// He (Kaiming) initialization for weights.
//
// Fills dst with values drawn from N(0, 2/fan_in), the preferred
// initialization for layers followed by ReLU.
//
// Parameters:
//   - dst: Flat weight slice to fill
//   - fanIn: Number of input units
func He(dst []float64, fanIn int) {
	scale := math.Sqrt(2.0 / float64(fanIn))
	for i := range dst {
		//nolint:gosec // Using math/rand for weight initialization (not security-critical)
		dst[i] = rand.NormFloat64() * scale
	}
}

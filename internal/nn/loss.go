package nn

import (
	"gonum.org/v1/gonum/mat"
)

// MSELoss is the mean squared error loss over all matrix elements.
//
//	L = mean((pred - target)^2)
//
// Grad produces the initial error signal fed into the network's Backward
// and Gradient phases.
type MSELoss struct {
	grad mat.Dense
}

// NewMSELoss creates a new MSE loss.
func NewMSELoss() *MSELoss { return &MSELoss{} }

// Loss computes mean((pred - target)^2).
func (l *MSELoss) Loss(pred, target *mat.Dense) float64 {
	r, c := pred.Dims()
	if tr, tc := target.Dims(); tr != r || tc != c {
		panic("MSELoss.Loss: pred and target shapes differ")
	}

	sum := 0.0
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			d := pred.At(i, j) - target.At(i, j)
			sum += d * d
		}
	}
	return sum / float64(r*c)
}

// Grad computes dL/dpred = 2 * (pred - target) / n, where n is the total
// element count. Returns an internal buffer overwritten by the next call.
func (l *MSELoss) Grad(pred, target *mat.Dense) *mat.Dense {
	r, c := pred.Dims()
	if tr, tc := target.Dims(); tr != r || tc != c {
		panic("MSELoss.Grad: pred and target shapes differ")
	}

	out := resize(&l.grad, r, c)
	scale := 2.0 / float64(r*c)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			out.Set(i, j, scale*(pred.At(i, j)-target.At(i, j)))
		}
	}
	return out
}

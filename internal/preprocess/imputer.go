// Package preprocess implements dataset preprocessing utilities.
//
// The central tool is the Imputer, which replaces missing values in a dense
// dataset. Missing cells are represented as NaN in the matrix; the CSV
// helpers map a configurable missing-value token to NaN on load.
//
// Matrices are row=sample, col=dimension, matching the nn package.
package preprocess

import (
	"math"
	"sort"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Strategy selects how missing values are replaced.
type Strategy string

// Supported imputation strategies.
const (
	// Mean replaces missing cells with the mean of the observed values in
	// the same dimension.
	Mean Strategy = "mean"
	// Median replaces missing cells with the median of the observed
	// values in the same dimension.
	Median Strategy = "median"
	// Custom replaces missing cells with a fixed user-supplied value.
	Custom Strategy = "custom"
	// ListwiseDeletion drops every sample (row) that has a missing cell
	// in one of the considered dimensions.
	ListwiseDeletion Strategy = "listwise_deletion"
)

// AllDimensions selects every column of the dataset.
const AllDimensions = -1

// ParseStrategy converts a strategy name into a Strategy.
func ParseStrategy(name string) (Strategy, error) {
	switch Strategy(name) {
	case Mean, Median, Custom, ListwiseDeletion:
		return Strategy(name), nil
	default:
		return "", errors.Errorf("preprocess: unknown imputation strategy %q", name)
	}
}

// Imputer replaces missing (NaN) values in a dataset.
//
// Example:
//
//	imp := preprocess.NewImputer(preprocess.Mean)
//	clean, err := imp.Impute(data, preprocess.AllDimensions)
type Imputer struct {
	strategy    Strategy
	customValue float64
}

// NewImputer creates an imputer with the given strategy. For the Custom
// strategy use NewCustomImputer instead.
func NewImputer(strategy Strategy) *Imputer {
	return &Imputer{strategy: strategy}
}

// NewCustomImputer creates an imputer that fills missing cells with value.
func NewCustomImputer(value float64) *Imputer {
	return &Imputer{strategy: Custom, customValue: value}
}

// Impute returns a copy of data with missing values handled according to
// the strategy. dimension selects a single column, or AllDimensions for
// every column. The input is never modified.
//
// For ListwiseDeletion the result may have fewer rows than the input; for
// every other strategy the shape is preserved.
func (im *Imputer) Impute(data *mat.Dense, dimension int) (*mat.Dense, error) {
	_, c := data.Dims()
	if dimension != AllDimensions && (dimension < 0 || dimension >= c) {
		return nil, errors.Errorf("preprocess: dimension %d out of range [0, %d)", dimension, c)
	}

	dims := dimRange(dimension, c)
	if im.strategy == ListwiseDeletion {
		return deleteListwise(data, dims), nil
	}

	out := mat.DenseCopyOf(data)
	for _, d := range dims {
		if err := im.imputeDimension(out, d); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// imputeDimension fills the missing cells of one column in place.
func (im *Imputer) imputeDimension(data *mat.Dense, d int) error {
	r, _ := data.Dims()

	fill := im.customValue
	if im.strategy == Mean || im.strategy == Median {
		observed := make([]float64, 0, r)
		for i := 0; i < r; i++ {
			if v := data.At(i, d); !math.IsNaN(v) {
				observed = append(observed, v)
			}
		}
		if len(observed) == 0 {
			return errors.Errorf("preprocess: dimension %d has no observed values", d)
		}
		switch im.strategy {
		case Mean:
			fill = stat.Mean(observed, nil)
		case Median:
			sort.Float64s(observed)
			fill = median(observed)
		}
	}

	for i := 0; i < r; i++ {
		if math.IsNaN(data.At(i, d)) {
			data.Set(i, d, fill)
		}
	}
	return nil
}

// median returns the middle element of the sorted slice, averaging the two
// middle elements when the count is even.
func median(sorted []float64) float64 {
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// CountMissing returns the number of missing cells in the considered
// dimensions. dimension follows the same convention as Impute.
func CountMissing(data *mat.Dense, dimension int) int {
	r, c := data.Dims()
	count := 0
	for _, d := range dimRange(dimension, c) {
		for i := 0; i < r; i++ {
			if math.IsNaN(data.At(i, d)) {
				count++
			}
		}
	}
	return count
}

// deleteListwise returns a copy of data without the rows that have a
// missing cell in one of the given dimensions.
func deleteListwise(data *mat.Dense, dims []int) *mat.Dense {
	r, c := data.Dims()

	kept := make([]int, 0, r)
	for i := 0; i < r; i++ {
		complete := true
		for _, d := range dims {
			if math.IsNaN(data.At(i, d)) {
				complete = false
				break
			}
		}
		if complete {
			kept = append(kept, i)
		}
	}

	if len(kept) == 0 {
		// gonum cannot represent a 0-row Dense; callers check IsEmpty.
		return &mat.Dense{}
	}
	out := mat.NewDense(len(kept), c, nil)
	for oi, i := range kept {
		for j := 0; j < c; j++ {
			out.Set(oi, j, data.At(i, j))
		}
	}
	return out
}

// dimRange expands the dimension argument into explicit column indices.
func dimRange(dimension, cols int) []int {
	if dimension != AllDimensions {
		return []int{dimension}
	}
	dims := make([]int, cols)
	for i := range dims {
		dims[i] = i
	}
	return dims
}

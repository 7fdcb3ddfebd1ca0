// Copyright 2025 Anvil ML Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package preprocess provides the public API for dataset preprocessing in
// the Anvil ML library.
//
// Example:
//
//	data, err := preprocess.ReadCSV("data.csv", preprocess.DefaultMissingToken)
//	imp := preprocess.NewImputer(preprocess.Mean)
//	clean, err := imp.Impute(data, preprocess.AllDimensions)
package preprocess

import (
	"gonum.org/v1/gonum/mat"

	"github.com/anvil-ml/anvil/internal/preprocess"
)

// Strategy selects how missing values are replaced.
type Strategy = preprocess.Strategy

// Supported imputation strategies.
const (
	Mean             = preprocess.Mean
	Median           = preprocess.Median
	Custom           = preprocess.Custom
	ListwiseDeletion = preprocess.ListwiseDeletion
)

// AllDimensions selects every column of the dataset.
const AllDimensions = preprocess.AllDimensions

// DefaultMissingToken is the missing-value token assumed by the CLI.
const DefaultMissingToken = preprocess.DefaultMissingToken

// Imputer replaces missing (NaN) values in a dataset.
type Imputer = preprocess.Imputer

// NewImputer creates an imputer with the given strategy.
func NewImputer(strategy Strategy) *Imputer {
	return preprocess.NewImputer(strategy)
}

// NewCustomImputer creates an imputer that fills missing cells with value.
func NewCustomImputer(value float64) *Imputer {
	return preprocess.NewCustomImputer(value)
}

// ParseStrategy converts a strategy name into a Strategy.
func ParseStrategy(name string) (Strategy, error) {
	return preprocess.ParseStrategy(name)
}

// CountMissing returns the number of missing cells in the considered
// dimensions.
func CountMissing(data *mat.Dense, dimension int) int {
	return preprocess.CountMissing(data, dimension)
}

// ReadCSV loads a numeric CSV file, mapping the missing token to NaN.
func ReadCSV(path, missingToken string) (*mat.Dense, error) {
	return preprocess.ReadCSV(path, missingToken)
}

// WriteCSV stores a dense matrix as a numeric CSV file.
func WriteCSV(path string, data *mat.Dense) error {
	return preprocess.WriteCSV(path, data)
}

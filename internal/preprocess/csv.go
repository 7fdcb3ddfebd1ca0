package preprocess

import (
	"encoding/csv"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// DefaultMissingToken is the missing-value token assumed by the CLI.
const DefaultMissingToken = "nan"

// ReadCSV loads a numeric CSV file into a dense matrix. Cells equal to
// missingToken (case-insensitive) or empty are mapped to NaN. The file must
// be rectangular and contain no header row.
func ReadCSV(path, missingToken string) (*mat.Dense, error) {
	//nolint:gosec // G304: File path comes from user input, which is expected for dataset loading
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "preprocess: open csv")
	}
	defer func() {
		_ = file.Close()
	}()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "preprocess: parse csv")
	}
	if len(records) == 0 {
		return nil, errors.Errorf("preprocess: %s is empty", path)
	}

	rows := len(records)
	cols := len(records[0])
	out := mat.NewDense(rows, cols, nil)
	for i, record := range records {
		if len(record) != cols {
			return nil, errors.Errorf("preprocess: row %d has %d fields, expected %d", i+1, len(record), cols)
		}
		for j, cell := range record {
			cell = strings.TrimSpace(cell)
			if cell == "" || strings.EqualFold(cell, missingToken) {
				out.Set(i, j, math.NaN())
				continue
			}
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, errors.Wrapf(err, "preprocess: row %d, column %d", i+1, j+1)
			}
			out.Set(i, j, v)
		}
	}
	return out, nil
}

// WriteCSV stores a dense matrix as a numeric CSV file.
func WriteCSV(path string, data *mat.Dense) error {
	//nolint:gosec // G304: File path comes from user input, which is expected for dataset saving
	file, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "preprocess: create csv")
	}
	defer func() {
		_ = file.Close()
	}()

	w := csv.NewWriter(file)
	r, c := data.Dims()
	record := make([]string, c)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			record[j] = strconv.FormatFloat(data.At(i, j), 'g', -1, 64)
		}
		if err := w.Write(record); err != nil {
			return errors.Wrap(err, "preprocess: write csv")
		}
	}
	w.Flush()
	return errors.Wrap(w.Error(), "preprocess: flush csv")
}

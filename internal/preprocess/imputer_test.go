package preprocess

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

var nan = math.NaN()

// TestMeanImputation checks mean filling per dimension and that the shape is
// preserved.
func TestMeanImputation(t *testing.T) {
	data := mat.NewDense(4, 2, []float64{
		1, 10,
		nan, 20,
		3, nan,
		5, 30,
	})

	out, err := NewImputer(Mean).Impute(data, AllDimensions)
	require.NoError(t, err)

	r, c := out.Dims()
	assert.Equal(t, 4, r)
	assert.Equal(t, 2, c)
	assert.InDelta(t, 3.0, out.At(1, 0), 1e-12)  // mean of 1, 3, 5
	assert.InDelta(t, 20.0, out.At(2, 1), 1e-12) // mean of 10, 20, 30
	assert.InDelta(t, 1.0, out.At(0, 0), 1e-12, "observed cells untouched")

	assert.True(t, math.IsNaN(data.At(1, 0)), "input not modified")
}

// TestMedianImputation checks median filling on odd and even observed
// counts; an even count averages the two middle values.
func TestMedianImputation(t *testing.T) {
	data := mat.NewDense(5, 2, []float64{
		10, 4,
		40, 8,
		20, nan,
		nan, 100,
		30, nan,
	})

	out, err := NewImputer(Median).Impute(data, AllDimensions)
	require.NoError(t, err)

	assert.InDelta(t, 25.0, out.At(3, 0), 1e-12) // median of 10, 20, 30, 40
	assert.InDelta(t, 8.0, out.At(2, 1), 1e-12)  // median of 4, 8, 100
	assert.InDelta(t, 8.0, out.At(4, 1), 1e-12)
}

// TestCustomImputation checks fixed-value filling.
func TestCustomImputation(t *testing.T) {
	data := mat.NewDense(2, 2, []float64{
		nan, 1,
		2, nan,
	})

	out, err := NewCustomImputer(-7.5).Impute(data, AllDimensions)
	require.NoError(t, err)

	assert.InDelta(t, -7.5, out.At(0, 0), 1e-12)
	assert.InDelta(t, -7.5, out.At(1, 1), 1e-12)
	assert.InDelta(t, 1.0, out.At(0, 1), 1e-12)
}

// TestSingleDimensionScope checks that imputation limited to one dimension
// leaves missing cells in the others alone.
func TestSingleDimensionScope(t *testing.T) {
	data := mat.NewDense(3, 2, []float64{
		1, nan,
		nan, 5,
		3, 7,
	})

	out, err := NewImputer(Mean).Impute(data, 0)
	require.NoError(t, err)

	assert.InDelta(t, 2.0, out.At(1, 0), 1e-12)
	assert.True(t, math.IsNaN(out.At(0, 1)), "other dimension untouched")
}

// TestListwiseDeletion checks that rows with missing cells are dropped.
func TestListwiseDeletion(t *testing.T) {
	data := mat.NewDense(4, 2, []float64{
		1, 2,
		nan, 4,
		5, 6,
		7, nan,
	})

	out, err := NewImputer(ListwiseDeletion).Impute(data, AllDimensions)
	require.NoError(t, err)

	r, c := out.Dims()
	require.Equal(t, 2, r)
	require.Equal(t, 2, c)
	assert.Equal(t, []float64{1, 2, 5, 6}, out.RawMatrix().Data)

	// Scoped to dimension 1 only, the NaN in dimension 0 is not a reason to
	// drop a row.
	out, err = NewImputer(ListwiseDeletion).Impute(data, 1)
	require.NoError(t, err)
	r, _ = out.Dims()
	assert.Equal(t, 3, r)

	// All rows incomplete.
	allMissing := mat.NewDense(2, 1, []float64{nan, nan})
	out, err = NewImputer(ListwiseDeletion).Impute(allMissing, AllDimensions)
	require.NoError(t, err)
	assert.True(t, out.IsEmpty())
}

// TestImputeErrors checks dimension range and all-missing error paths.
func TestImputeErrors(t *testing.T) {
	data := mat.NewDense(2, 2, []float64{1, nan, 2, nan})

	_, err := NewImputer(Mean).Impute(data, 2)
	require.Error(t, err)
	_, err = NewImputer(Mean).Impute(data, -3)
	require.Error(t, err)

	// Dimension 1 has no observed values to average.
	_, err = NewImputer(Mean).Impute(data, 1)
	require.Error(t, err)
	_, err = NewImputer(Median).Impute(data, 1)
	require.Error(t, err)

	// Custom does not need observed values.
	_, err = NewCustomImputer(0).Impute(data, 1)
	require.NoError(t, err)
}

// TestParseStrategy checks name parsing for all strategies and the error on
// unknown names.
func TestParseStrategy(t *testing.T) {
	for _, name := range []string{"mean", "median", "custom", "listwise_deletion"} {
		s, err := ParseStrategy(name)
		require.NoError(t, err)
		assert.Equal(t, Strategy(name), s)
	}

	_, err := ParseStrategy("mode")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mode")
}

// TestCountMissing checks the missing-cell counter with both scopes.
func TestCountMissing(t *testing.T) {
	data := mat.NewDense(3, 2, []float64{
		nan, 1,
		2, nan,
		nan, 3,
	})

	assert.Equal(t, 3, CountMissing(data, AllDimensions))
	assert.Equal(t, 2, CountMissing(data, 0))
	assert.Equal(t, 1, CountMissing(data, 1))
}

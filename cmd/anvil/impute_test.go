package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()

	app := newApp(zap.NewNop().Sugar())
	var out bytes.Buffer
	app.Writer = &out

	err := app.Run(append([]string{"anvil"}, args...))
	return out.String(), err
}

func writeDataset(t *testing.T, content string) (input, output string) {
	t.Helper()
	dir := t.TempDir()
	input = filepath.Join(dir, "in.csv")
	require.NoError(t, os.WriteFile(input, []byte(content), 0o600))
	return input, filepath.Join(dir, "out.csv")
}

// TestImputeMean runs the default mean strategy end to end on a file with
// missing cells.
func TestImputeMean(t *testing.T) {
	input, output := writeDataset(t, "1,10\nnan,20\n3,30\n")

	_, err := runCLI(t, "preprocess", "impute", "-i", input, "-o", output)
	require.NoError(t, err)

	got, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, "1,10\n2,20\n3,30\n", string(got))
}

// TestImputeCustomValue checks the custom strategy and its required flag.
func TestImputeCustomValue(t *testing.T) {
	input, output := writeDataset(t, "nan,5\n")

	_, err := runCLI(t, "preprocess", "impute",
		"-i", input, "-o", output, "-s", "custom", "--custom-value", "0.5")
	require.NoError(t, err)

	got, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, "0.5,5\n", string(got))

	_, err = runCLI(t, "preprocess", "impute",
		"-i", input, "-o", output, "-s", "custom")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "custom-value")
}

// TestImputeListwiseDeletion checks row dropping and the dropped-samples
// notice on stdout.
func TestImputeListwiseDeletion(t *testing.T) {
	input, output := writeDataset(t, "1,2\nnan,4\n5,6\n")

	stdout, err := runCLI(t, "preprocess", "impute",
		"-i", input, "-o", output, "-s", "listwise_deletion")
	require.NoError(t, err)
	assert.Contains(t, stdout, "dropped 1 incomplete samples")

	got, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, "1,2\n5,6\n", string(got))
}

// TestImputeSingleDimension scopes imputation to one column.
func TestImputeSingleDimension(t *testing.T) {
	input, output := writeDataset(t, "1,nan\nnan,4\n3,6\n")

	_, err := runCLI(t, "preprocess", "impute",
		"-i", input, "-o", output, "-d", "0")
	require.NoError(t, err)

	got, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, "1,NaN\n2,4\n3,6\n", string(got))
}

// TestVersionCommand checks the version subcommand output.
func TestVersionCommand(t *testing.T) {
	stdout, err := runCLI(t, "version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "anvil 0.1.0")
}

// TestImputeArgumentErrors checks strategy, dimension, and input failures.
func TestImputeArgumentErrors(t *testing.T) {
	input, output := writeDataset(t, "1,2\n")

	_, err := runCLI(t, "preprocess", "impute",
		"-i", input, "-o", output, "-s", "mode")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mode")

	_, err = runCLI(t, "preprocess", "impute",
		"-i", input, "-o", output, "-d", "7")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of range")

	_, err = runCLI(t, "preprocess", "impute",
		"-i", filepath.Join(t.TempDir(), "absent.csv"), "-o", output)
	require.Error(t, err)
}

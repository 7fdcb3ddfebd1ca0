package nn

import (
	"github.com/anvil-ml/anvil/internal/serialization"
)

// Save writes a layer's state dictionary to a .anvl file.
//
// Parameters:
//   - layer: The layer to save
//   - path: File path to write to
//   - modelType: Type name of the model (e.g., "Sequential", "WeightNorm")
//   - metadata: Optional metadata (can be nil)
//
// Example:
//
//	model := nn.WrapWeightNorm(nn.NewLinear(784, 10))
//	model.Reset()
//	err := nn.Save(model, "model.anvl", "WeightNorm", nil)
func Save(layer Layer, path, modelType string, metadata map[string]string) error {
	writer, err := serialization.NewWriter(path)
	if err != nil {
		return err
	}
	defer func() {
		_ = writer.Close()
	}()

	return writer.WriteStateDict(layer.StateDict(), modelType, metadata)
}

// Load reads a state dictionary from a .anvl file into the provided layer.
//
// The layer must already have the architecture the file was written from;
// Load restores parameter values only. Returns the file header.
func Load(path string, layer Layer) (serialization.Header, error) {
	reader, err := serialization.NewReader(path)
	if err != nil {
		return serialization.Header{}, err
	}
	defer func() {
		_ = reader.Close()
	}()

	stateDict, err := reader.ReadStateDict()
	if err != nil {
		return serialization.Header{}, err
	}
	if err := layer.LoadStateDict(stateDict); err != nil {
		return serialization.Header{}, err
	}
	return reader.Header(), nil
}

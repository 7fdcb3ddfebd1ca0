package serialization

import (
	"time"
)

// Format constants.
const (
	MagicBytes    = "ANVL"
	FormatVersion = 1

	// MaxHeaderSize bounds the JSON header to keep a corrupted length
	// field from driving a huge allocation.
	MaxHeaderSize = 16 << 20
)

// Flags for the .anvl format.
const (
	FlagHasMetadata uint32 = 1 << 0 // bit 0: custom metadata included
)

// Header represents the JSON header in a .anvl file.
type Header struct {
	FormatVersion int               `json:"format_version"` // Version of the .anvl format
	AnvilVersion  string            `json:"anvil_version"`  // Version of Anvil that created this file
	ModelType     string            `json:"model_type"`     // Type of model (e.g., "Sequential", "WeightNorm")
	CreatedAt     time.Time         `json:"created_at"`     // When the file was created
	Tensors       []TensorMeta      `json:"tensors"`        // Tensor metadata, sorted by name
	Metadata      map[string]string `json:"metadata"`       // Custom metadata
}

// TensorMeta describes a tensor in the .anvl file. All tensors are float64
// matrices stored row-major.
type TensorMeta struct {
	Name   string `json:"name"`   // Tensor name (e.g., "0.weight", "2.direction")
	Rows   int    `json:"rows"`   // Matrix row count
	Cols   int    `json:"cols"`   // Matrix column count
	Offset int64  `json:"offset"` // Offset in the data section (bytes)
	Size   int64  `json:"size"`   // Size in bytes
}

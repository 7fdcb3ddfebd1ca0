package serialization

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"

	"gonum.org/v1/gonum/mat"
)

const anvilVersion = "0.1.0" // Current Anvil version

// Writer writes models in .anvl format.
type Writer struct {
	file   *os.File
	closed bool
}

// NewWriter creates a new .anvl file writer.
func NewWriter(path string) (*Writer, error) {
	//nolint:gosec // G304: File path comes from user input, which is expected for model saving
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}
	return &Writer{file: file}, nil
}

// WriteStateDict writes a state dictionary to the .anvl file.
//
// Tensors are serialized in sorted name order so the layout is
// deterministic. metadata may be nil.
func (w *Writer) WriteStateDict(stateDict map[string]*mat.Dense, modelType string, metadata map[string]string) error {
	if w.closed {
		return fmt.Errorf("writer is closed")
	}

	names := make([]string, 0, len(stateDict))
	for name := range stateDict {
		names = append(names, name)
	}
	sort.Strings(names)

	header := Header{
		FormatVersion: FormatVersion,
		AnvilVersion:  anvilVersion,
		ModelType:     modelType,
		CreatedAt:     time.Now().UTC(),
		Metadata:      metadata,
	}
	if header.Metadata == nil {
		header.Metadata = make(map[string]string)
	}

	var offset int64
	header.Tensors = make([]TensorMeta, 0, len(names))
	for _, name := range names {
		r, c := stateDict[name].Dims()
		size := int64(r*c) * 8
		header.Tensors = append(header.Tensors, TensorMeta{
			Name:   name,
			Rows:   r,
			Cols:   c,
			Offset: offset,
			Size:   size,
		})
		offset += size
	}

	headerJSON, err := json.Marshal(header)
	if err != nil {
		return fmt.Errorf("failed to marshal header: %w", err)
	}
	if len(headerJSON) > MaxHeaderSize {
		return ErrHeaderTooLarge
	}

	buf := bufio.NewWriter(w.file)

	if _, err := buf.WriteString(MagicBytes); err != nil {
		return fmt.Errorf("failed to write magic bytes: %w", err)
	}
	if err := binary.Write(buf, binary.LittleEndian, uint32(FormatVersion)); err != nil {
		return fmt.Errorf("failed to write version: %w", err)
	}

	flags := uint32(0)
	if len(header.Metadata) > 0 {
		flags |= FlagHasMetadata
	}
	if err := binary.Write(buf, binary.LittleEndian, flags); err != nil {
		return fmt.Errorf("failed to write flags: %w", err)
	}

	if err := binary.Write(buf, binary.LittleEndian, uint32(len(headerJSON))); err != nil {
		return fmt.Errorf("failed to write header size: %w", err)
	}
	if _, err := buf.Write(headerJSON); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, name := range names {
		m := stateDict[name]
		r, c := m.Dims()
		row := make([]float64, c)
		for i := 0; i < r; i++ {
			mat.Row(row, i, m)
			if err := binary.Write(buf, binary.LittleEndian, row); err != nil {
				return fmt.Errorf("failed to write tensor %q: %w", name, err)
			}
		}
	}

	return buf.Flush()
}

// Close closes the underlying file.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	return w.file.Close()
}

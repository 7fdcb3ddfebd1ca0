package serialization

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gonum.org/v1/gonum/mat"
)

// Reader reads models in .anvl format.
type Reader struct {
	file   *os.File
	header Header
	// dataOffset is the file offset where the tensor data section begins.
	dataOffset int64
	closed     bool
}

// NewReader opens a .anvl file and validates its header.
func NewReader(path string) (*Reader, error) {
	//nolint:gosec // G304: File path comes from user input, which is expected for model loading
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	r := &Reader{file: file}
	if err := r.readHeader(); err != nil {
		_ = file.Close()
		return nil, err
	}
	return r, nil
}

func (r *Reader) readHeader() error {
	magic := make([]byte, 4)
	if _, err := io.ReadFull(r.file, magic); err != nil {
		return fmt.Errorf("failed to read magic bytes: %w", err)
	}
	if string(magic) != MagicBytes {
		return ErrInvalidMagic
	}

	var version, flags, headerSize uint32
	if err := binary.Read(r.file, binary.LittleEndian, &version); err != nil {
		return fmt.Errorf("failed to read version: %w", err)
	}
	if version != FormatVersion {
		return fmt.Errorf("%w: %d", ErrUnsupportedVersion, version)
	}
	if err := binary.Read(r.file, binary.LittleEndian, &flags); err != nil {
		return fmt.Errorf("failed to read flags: %w", err)
	}
	if err := binary.Read(r.file, binary.LittleEndian, &headerSize); err != nil {
		return fmt.Errorf("failed to read header size: %w", err)
	}
	if headerSize > MaxHeaderSize {
		return ErrHeaderTooLarge
	}

	headerJSON := make([]byte, headerSize)
	if _, err := io.ReadFull(r.file, headerJSON); err != nil {
		return fmt.Errorf("failed to read header: %w", err)
	}
	if err := json.Unmarshal(headerJSON, &r.header); err != nil {
		return fmt.Errorf("failed to parse header: %w", err)
	}
	r.dataOffset = int64(4 + 4 + 4 + 4 + headerSize)

	return r.validate()
}

// validate checks tensor metadata against the data section.
func (r *Reader) validate() error {
	info, err := r.file.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat file: %w", err)
	}
	dataLen := info.Size() - r.dataOffset

	seen := make(map[string]struct{}, len(r.header.Tensors))
	for _, meta := range r.header.Tensors {
		if _, dup := seen[meta.Name]; dup {
			return fmt.Errorf("%w: %q", ErrDuplicateTensor, meta.Name)
		}
		seen[meta.Name] = struct{}{}

		if meta.Rows < 0 || meta.Cols < 0 || int64(meta.Rows*meta.Cols)*8 != meta.Size {
			return fmt.Errorf("%w: %q", ErrInvalidShape, meta.Name)
		}
		if meta.Offset < 0 || meta.Offset+meta.Size > dataLen {
			return fmt.Errorf("%w: %q", ErrOutOfBounds, meta.Name)
		}
	}
	return nil
}

// Header returns the parsed file header.
func (r *Reader) Header() Header {
	return r.header
}

// ReadStateDict reads all tensors into a state dictionary.
func (r *Reader) ReadStateDict() (map[string]*mat.Dense, error) {
	if r.closed {
		return nil, fmt.Errorf("reader is closed")
	}

	stateDict := make(map[string]*mat.Dense, len(r.header.Tensors))
	for _, meta := range r.header.Tensors {
		if _, err := r.file.Seek(r.dataOffset+meta.Offset, io.SeekStart); err != nil {
			return nil, fmt.Errorf("failed to seek to tensor %q: %w", meta.Name, err)
		}
		data := make([]float64, meta.Rows*meta.Cols)
		if err := binary.Read(r.file, binary.LittleEndian, data); err != nil {
			return nil, fmt.Errorf("failed to read tensor %q: %w", meta.Name, err)
		}
		stateDict[meta.Name] = mat.NewDense(meta.Rows, meta.Cols, data)
	}
	return stateDict, nil
}

// Close closes the underlying file.
func (r *Reader) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	return r.file.Close()
}

package serialization

import "errors"

// Sentinel errors returned while validating a .anvl file.
var (
	ErrInvalidMagic       = errors.New("invalid magic bytes")
	ErrUnsupportedVersion = errors.New("unsupported format version")
	ErrHeaderTooLarge     = errors.New("header exceeds maximum size")
	ErrInvalidShape       = errors.New("tensor shape does not match its size")
	ErrOutOfBounds        = errors.New("tensor extends beyond data section")
	ErrDuplicateTensor    = errors.New("duplicate tensor name")
)

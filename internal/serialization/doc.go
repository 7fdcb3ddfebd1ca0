// Package serialization implements the .anvl binary model format.
//
// File layout:
//
//	[4 bytes]  magic "ANVL"
//	[4 bytes]  format version (uint32, little-endian)
//	[4 bytes]  flags (uint32, little-endian)
//	[4 bytes]  header length (uint32, little-endian)
//	[N bytes]  JSON header (model type, creation time, tensor metadata)
//	[...]      tensor data: float64 little-endian, row-major, in header order
//
// Tensor metadata is sorted by name before writing, so the same state
// dictionary always produces the same file layout and a written file
// round-trips exactly.
package serialization

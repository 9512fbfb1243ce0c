// Package bbytes reads and writes the big-endian scalar values that make up
// a resource fork. Readers keep an explicit cursor over one byte slice so
// that map and list sections can be walked with absolute seeks.
package bbytes

type (
	Reader struct {
		data   []byte
		offset int
	}
)

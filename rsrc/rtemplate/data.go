// Package rtemplate compiles struct-template format strings into fixed-width
// record shapes and decodes/encodes resource data against them.
//
// A template string is a sequence of type codes, each optionally preceded by
// a decimal repeat count:
//
//	B b  unsigned/signed byte     H h  unsigned/signed 16-bit
//	I L  unsigned 32-bit          i l  signed 32-bit
//	Q q  unsigned/signed 64-bit   f d  32/64-bit float
//	?    boolean byte             x    padding byte (never named)
//	Ns   fixed-length N-byte string, carried as uppercase hex
//
// All values are big-endian on the wire. A leading byte-order marker
// (one of "@!><=") is accepted and ignored. A trailing "+" marks the
// template as a list: the resource data is a packed sequence of records
// rather than a single one.
package rtemplate

import (
	"fmt"
)

type (
	// Field is one primitive slot of the record layout.
	Field struct {
		Code byte
		Size int
	}

	// Template is an immutable compiled layout. It is safe to share across
	// any number of Decode/Encode calls.
	Template struct {
		Fields []Field
		// Names runs parallel to Fields; padding fields keep "".
		Names        []string
		RecordLength int
		IsList       bool
	}

	ErrUnsupportedFieldCode struct {
		Code byte
	}
)

func (r ErrUnsupportedFieldCode) Error() string {
	return fmt.Sprintf("unsupported struct format character %q", r.Code)
}

// NumValues is the number of non-padding fields, i.e. the number of values a
// decoded record carries.
func (t *Template) NumValues() int {
	n := 0
	for _, f := range t.Fields {
		if f.Code != 'x' {
			n++
		}
	}
	return n
}

// IsScalar reports whether a record decodes to a bare value instead of an
// object, which happens when the layout has exactly one non-padding field.
func (t *Template) IsScalar() bool {
	return t.NumValues() == 1
}

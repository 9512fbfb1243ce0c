// Package rtype handles the textual side of 4-byte resource type tags and
// legacy 8-bit resource names.
package rtype

import (
	"strings"

	"github.com/pkg/errors"
)

// Type is a 4-byte resource type tag ("FourCC").
type Type [4]byte

const Size = 4

func FromBytes(bs []byte) (Type, error) {
	var t Type
	if len(bs) != Size {
		return t, errors.Errorf("type tag must be %d bytes, got %d", Size, len(bs))
	}
	copy(t[:], bs)
	return t, nil
}

func (t Type) Bytes() []byte {
	return t[:4]
}

// String renders the tag for display without escaping; non-text bytes come
// out as-is. Use Sanitize for a reversible form.
func (t Type) String() string {
	return DecodeLegacyText(t[:])
}

func isUnreserved(b byte) bool {
	switch {
	case b >= 'A' && b <= 'Z':
		return true
	case b >= 'a' && b <= 'z':
		return true
	case b >= '0' && b <= '9':
		return true
	case b == '_' || b == '.' || b == '-' || b == '~':
		return true
	}
	return false
}

const upperHexDigits = "0123456789ABCDEF"

// Sanitize turns a raw type tag into a string that is safe as a JSON key or
// file name. Trailing space padding is trimmed, except for the all-space
// tag, and every byte outside the unreserved set is percent-encoded.
func Sanitize(t Type) string {
	bs := t[:4]
	if t != (Type{' ', ' ', ' ', ' '}) {
		for len(bs) > 0 && bs[len(bs)-1] == ' ' {
			bs = bs[:len(bs)-1]
		}
	}

	var sb strings.Builder
	for _, b := range bs {
		if isUnreserved(b) {
			sb.WriteByte(b)
		} else {
			sb.WriteByte('%')
			sb.WriteByte(upperHexDigits[b>>4])
			sb.WriteByte(upperHexDigits[b&0xF])
		}
	}
	return sb.String()
}

func hexNibble(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	}
	return 0, false
}

// Parse is the inverse of Sanitize: percent-decode, then right-pad with
// spaces to exactly 4 bytes.
func Parse(name string) (Type, error) {
	var t Type
	decoded := make([]byte, 0, Size)
	for i := 0; i < len(name); i++ {
		c := name[i]
		if c != '%' {
			decoded = append(decoded, c)
			continue
		}
		if i+2 >= len(name) {
			return t, errors.Errorf(`truncated percent escape in type name "%s"`, name)
		}
		hi, ok1 := hexNibble(name[i+1])
		lo, ok2 := hexNibble(name[i+2])
		if !ok1 || !ok2 {
			return t, errors.Errorf(`invalid percent escape in type name "%s"`, name)
		}
		decoded = append(decoded, hi<<4|lo)
		i += 2
	}

	if len(decoded) > Size {
		return t, errors.Errorf(`type name "%s" decodes to %d bytes, want at most %d`, name, len(decoded), Size)
	}
	copy(t[:], decoded)
	for i := len(decoded); i < Size; i++ {
		t[i] = ' '
	}
	return t, nil
}

package rtype

// Resource names are stored as legacy 8-bit text. The original encoding is
// MacRoman, but for round-trip fidelity it is enough to map each byte to the
// code point of the same value (Latin-1 style): every byte survives a trip
// through a Go string and back.

func DecodeLegacyText(bs []byte) string {
	runes := make([]rune, len(bs))
	for i, b := range bs {
		runes[i] = rune(b)
	}
	return string(runes)
}

func EncodeLegacyText(s string) []byte {
	bs := make([]byte, 0, len(s))
	for _, r := range s {
		if r > 0xFF {
			r = '?'
		}
		bs = append(bs, byte(r))
	}
	return bs
}

package bbytes

import (
	"encoding/binary"
)

func PutUint16(bs []byte, value uint16) []byte {
	return binary.BigEndian.AppendUint16(bs, value)
}

func PutUint32(bs []byte, value uint32) []byte {
	return binary.BigEndian.AppendUint32(bs, value)
}

func PutInt16(bs []byte, value int16) []byte {
	return binary.BigEndian.AppendUint16(bs, uint16(value))
}

func PutInt32(bs []byte, value int32) []byte {
	return binary.BigEndian.AppendUint32(bs, uint32(value))
}

func PutUint64(bs []byte, value uint64) []byte {
	return binary.BigEndian.AppendUint64(bs, value)
}

// PutPString writes a Pascal-style string. Bodies longer than 255 bytes are
// truncated to fit the one-byte length prefix.
func PutPString(bs []byte, body []byte) []byte {
	if len(body) > 255 {
		body = body[:255]
	}
	bs = append(bs, byte(len(body)))
	return append(bs, body...)
}

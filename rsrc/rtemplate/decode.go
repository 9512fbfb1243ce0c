package rtemplate

import (
	"encoding/binary"
	"encoding/hex"
	"math"
	"strings"

	"github.com/pkg/errors"

	"github.com/LachlanBWWright/rsrcdump/ds"
)

// Decode interprets data against the template. Single-record templates
// return one record value; list templates return a []any with one value per
// packed record. A record value is a *ds.LinkedHashMap[string, any] keyed by
// field name in layout order, or the bare value for scalar templates.
func (t *Template) Decode(data []byte) (any, error) {
	if !t.IsList {
		if len(data) != t.RecordLength {
			return nil, errors.Errorf(
				"data length %d does not match record length %d",
				len(data), t.RecordLength,
			)
		}
		return t.decodeRecord(data), nil
	}

	if t.RecordLength == 0 {
		return nil, errors.New("list template has zero record length")
	}
	if len(data)%t.RecordLength != 0 {
		return nil, errors.Errorf(
			"data length %d is not a multiple of record length %d",
			len(data), t.RecordLength,
		)
	}

	chunks := ds.MakeChunks(data, t.RecordLength)
	records := make([]any, 0, len(chunks))
	for _, chunk := range chunks {
		records = append(records, t.decodeRecord(chunk))
	}
	return records, nil
}

func (t *Template) decodeRecord(record []byte) any {
	values := ds.NewLinkedHashMap[string, any]()
	var scalar any
	offset := 0
	for i, f := range t.Fields {
		bs := record[offset : offset+f.Size]
		offset += f.Size
		if f.Code == 'x' {
			continue
		}
		value := decodeFieldValue(f, bs)
		scalar = value
		values.Put(t.Names[i], value)
	}
	if t.IsScalar() {
		return scalar
	}
	return values
}

func decodeFieldValue(f Field, bs []byte) any {
	switch f.Code {
	case 'B':
		return bs[0]
	case 'b':
		return int8(bs[0])
	case 'H':
		return binary.BigEndian.Uint16(bs)
	case 'h':
		return int16(binary.BigEndian.Uint16(bs))
	case 'I', 'L':
		return binary.BigEndian.Uint32(bs)
	case 'i', 'l':
		return int32(binary.BigEndian.Uint32(bs))
	case 'Q':
		return binary.BigEndian.Uint64(bs)
	case 'q':
		return int64(binary.BigEndian.Uint64(bs))
	case 'f':
		return math.Float32frombits(binary.BigEndian.Uint32(bs))
	case 'd':
		return math.Float64frombits(binary.BigEndian.Uint64(bs))
	case '?':
		return bs[0] != 0
	case 's':
		return strings.ToUpper(hex.EncodeToString(bs))
	}
	// Compile rejects every other code.
	panic(ds.ErrUnreachableCode{Caller: "rtemplate.decodeFieldValue"})
}

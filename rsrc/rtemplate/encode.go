package rtemplate

import (
	"encoding/binary"
	"encoding/hex"
	"math"
	"strings"

	"github.com/iancoleman/orderedmap"
	"github.com/pkg/errors"

	"github.com/LachlanBWWright/rsrcdump/ds"
)

// Encode is the inverse of Decode. List templates expect a []any of record
// values. Fields absent from a record default to a code-appropriate zero;
// out-of-range numbers truncate with native wraparound; strings pad with
// zero bytes or truncate to the declared width.
func (t *Template) Encode(value any) ([]byte, error) {
	if !t.IsList {
		return t.encodeRecord(value)
	}

	records, ok := toAnySlice(value)
	if !ok {
		return nil, errors.Errorf("list template needs an array of records, got %T", value)
	}
	bs := make([]byte, 0, len(records)*t.RecordLength)
	for i, record := range records {
		recordBytes, err := t.encodeRecord(record)
		if err != nil {
			return nil, errors.Wrapf(err, "record %d", i)
		}
		bs = append(bs, recordBytes...)
	}
	return bs, nil
}

func toAnySlice(value any) ([]any, bool) {
	switch v := value.(type) {
	case []any:
		return v, true
	case nil:
		return nil, true
	}
	return nil, false
}

func (t *Template) encodeRecord(record any) ([]byte, error) {
	bs := make([]byte, 0, t.RecordLength)
	for i, f := range t.Fields {
		if f.Code == 'x' {
			bs = append(bs, make([]byte, f.Size)...)
			continue
		}
		var fieldValue any
		if t.IsScalar() && !isMapShape(record) {
			fieldValue = record
		} else {
			fieldValue, _ = lookupField(record, t.Names[i])
		}
		fieldBytes, err := encodeFieldValue(f, fieldValue)
		if err != nil {
			return nil, errors.Wrapf(err, `field "%s"`, t.Names[i])
		}
		bs = append(bs, fieldBytes...)
	}
	return bs, nil
}

// isMapShape reports whether lookupField knows how to read named values out
// of record. Scalar templates accept the bare value too, but a mapping
// always wins so a provided field is never silently dropped.
func isMapShape(record any) bool {
	switch record.(type) {
	case *ds.LinkedHashMap[string, any],
		ds.LinkedHashMap[string, any],
		*orderedmap.OrderedMap,
		orderedmap.OrderedMap,
		map[string]any:
		return true
	}
	return false
}

// lookupField reads one named value out of a decoded record, whichever map
// shape it arrived in: our own ordered map from Decode, the ordered map the
// JSON layer parses into, or a plain map.
func lookupField(record any, name string) (any, bool) {
	switch m := record.(type) {
	case *ds.LinkedHashMap[string, any]:
		return m.Get(name)
	case ds.LinkedHashMap[string, any]:
		return m.Get(name)
	case *orderedmap.OrderedMap:
		return m.Get(name)
	case orderedmap.OrderedMap:
		return m.Get(name)
	case map[string]any:
		value, ok := m[name]
		return value, ok
	}
	return nil, false
}

func encodeFieldValue(f Field, value any) ([]byte, error) {
	switch f.Code {
	case 'B', 'b':
		return []byte{byte(coerceUint64(value))}, nil
	case 'H', 'h':
		return binary.BigEndian.AppendUint16(nil, uint16(coerceUint64(value))), nil
	case 'I', 'L', 'i', 'l':
		return binary.BigEndian.AppendUint32(nil, uint32(coerceUint64(value))), nil
	case 'Q', 'q':
		return binary.BigEndian.AppendUint64(nil, coerceUint64(value)), nil
	case 'f':
		bits := math.Float32bits(float32(coerceFloat64(value)))
		return binary.BigEndian.AppendUint32(nil, bits), nil
	case 'd':
		bits := math.Float64bits(coerceFloat64(value))
		return binary.BigEndian.AppendUint64(nil, bits), nil
	case '?':
		if coerceBool(value) {
			return []byte{1}, nil
		}
		return []byte{0}, nil
	case 's':
		return encodeStringField(f.Size, value)
	}
	panic(ds.ErrUnreachableCode{Caller: "rtemplate.encodeFieldValue"})
}

func encodeStringField(size int, value any) ([]byte, error) {
	text := ""
	if value != nil {
		ok := false
		if text, ok = value.(string); !ok {
			return nil, errors.Errorf("string field needs a hex string, got %T", value)
		}
	}
	body, err := hex.DecodeString(strings.TrimSpace(text))
	if err != nil {
		return nil, errors.Wrapf(err, `bad hex in string field value "%s"`, text)
	}
	if len(body) > size {
		body = body[:size]
	}
	return append(body, make([]byte, size-len(body))...), nil
}

// coerceUint64 accepts every numeric shape a value can arrive in, most
// importantly float64 from JSON. Negative values wrap two's-complement so
// narrowing casts truncate natively.
func coerceUint64(value any) uint64 {
	switch v := value.(type) {
	case nil:
		return 0
	case float64:
		return uint64(int64(v))
	case float32:
		return uint64(int64(v))
	case int:
		return uint64(int64(v))
	case int8:
		return uint64(int64(v))
	case int16:
		return uint64(int64(v))
	case int32:
		return uint64(int64(v))
	case int64:
		return uint64(v)
	case uint:
		return uint64(v)
	case uint8:
		return uint64(v)
	case uint16:
		return uint64(v)
	case uint32:
		return uint64(v)
	case uint64:
		return v
	case bool:
		if v {
			return 1
		}
		return 0
	}
	return 0
}

func coerceFloat64(value any) float64 {
	switch v := value.(type) {
	case nil:
		return 0
	case float64:
		return v
	case float32:
		return float64(v)
	default:
		return float64(int64(coerceUint64(value)))
	}
}

func coerceBool(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case bool:
		return v
	default:
		return coerceUint64(value) != 0
	}
}

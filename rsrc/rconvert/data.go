// Package rconvert resolves resource types to converters and isolates
// per-resource conversion failures. The converter set is closed: a
// struct-template converter where a layout is registered for the type, and
// the raw-hex converter as the ever-present fallback.
package rconvert

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/LachlanBWWright/rsrcdump/rsrc/rfork"
	"github.com/LachlanBWWright/rsrcdump/rsrc/rtemplate"
	"github.com/LachlanBWWright/rsrcdump/rsrc/rtype"
)

type (
	// Converter turns a resource's raw bytes into a JSON-ready value.
	Converter interface {
		Decode(res *rfork.Resource) (any, error)
		// JSONKey names the wrapper key the decoded value is stored under.
		JSONKey() string
	}

	// Encoder is the optional inverse capability: value back to raw bytes.
	Encoder interface {
		Encode(value any) ([]byte, error)
	}

	// HexConverter is the identity-like fallback: raw bytes as an uppercase
	// hex string, reversible for any input.
	HexConverter struct{}

	// StructConverter decodes fixed-width records through a compiled
	// struct template.
	StructConverter struct {
		Template *rtemplate.Template
	}

	ErrLengthMismatch struct {
		TypeName string
		ID       int16
		Actual   int
		Expected int
		IsList   bool
	}

	ErrNoEncoder struct {
		TypeName string
		ID       int16
	}
)

func (r ErrLengthMismatch) Error() string {
	relation := "does not match"
	if r.IsList {
		relation = "is not a multiple of"
	}
	return fmt.Sprintf(
		"resource %s#%d: data length %d %s record length %d",
		r.TypeName, r.ID, r.Actual, relation, r.Expected,
	)
}

func (r ErrNoEncoder) Error() string {
	return fmt.Sprintf(
		"resource %s#%d: no struct template registered to encode its decoded object",
		r.TypeName, r.ID,
	)
}

func (HexConverter) JSONKey() string {
	return "data"
}

func (HexConverter) Decode(res *rfork.Resource) (any, error) {
	return strings.ToUpper(hex.EncodeToString(res.Data)), nil
}

func (HexConverter) Encode(value any) ([]byte, error) {
	text, ok := value.(string)
	if !ok {
		return nil, errors.Errorf("hex payload must be a string, got %T", value)
	}
	bs, err := hex.DecodeString(text)
	if err != nil {
		return nil, errors.Wrap(err, "bad hex payload")
	}
	return bs, nil
}

func (c *StructConverter) JSONKey() string {
	return "obj"
}

func (c *StructConverter) Decode(res *rfork.Resource) (any, error) {
	t := c.Template
	mismatch := false
	if t.IsList {
		mismatch = t.RecordLength == 0 || len(res.Data)%t.RecordLength != 0
	} else {
		mismatch = len(res.Data) != t.RecordLength
	}
	if mismatch {
		return nil, ErrLengthMismatch{
			TypeName: rtype.Sanitize(res.Type),
			ID:       res.ID,
			Actual:   len(res.Data),
			Expected: t.RecordLength,
			IsList:   t.IsList,
		}
	}
	return t.Decode(res.Data)
}

func (c *StructConverter) Encode(value any) ([]byte, error) {
	return c.Template.Encode(value)
}

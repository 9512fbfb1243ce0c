package rjson

import (
	"strconv"

	"github.com/iancoleman/orderedmap"
	"github.com/pkg/errors"
	"github.com/samber/lo"

	"github.com/LachlanBWWright/rsrcdump/rsrc/rconvert"
	"github.com/LachlanBWWright/rsrcdump/rsrc/rfork"
	"github.com/LachlanBWWright/rsrcdump/rsrc/rtype"
)

// Build is the reverse mapping: a parsed JSON blob back into a fork. Every
// "obj" payload needs a registered struct template with encode support;
// "data" payloads are plain hex. Unknown keys inside "_metadata" are
// ignored here so callers can stash their own extras there.
func Build(
	blob *orderedmap.OrderedMap,
	registry *rconvert.Registry,
	includeTypes []rtype.Type,
	excludeTypes []rtype.Type,
) (*rfork.Fork, error) {
	fork := rfork.NewFork()

	if metaValue, ok := blob.Get(MetadataKey); ok {
		meta, ok := metaValue.(orderedmap.OrderedMap)
		if !ok {
			return nil, errors.Errorf(`"%s" must be an object`, MetadataKey)
		}
		fork.JunkNextResMap = uint32(numberAt(meta, "junk1"))
		fork.JunkFileRefNum = uint16(numberAt(meta, "junk2"))
		fork.FileAttributes = uint16(numberAt(meta, "file_attributes"))
	}

	for _, typeName := range blob.Keys() {
		if typeName == MetadataKey {
			continue
		}
		resType, err := rtype.Parse(typeName)
		if err != nil {
			return nil, errors.Wrapf(err, `top-level key "%s"`, typeName)
		}
		if lo.Contains(excludeTypes, resType) {
			continue
		}
		if len(includeTypes) > 0 && !lo.Contains(includeTypes, resType) {
			continue
		}

		entriesValue, _ := blob.Get(typeName)
		entries, ok := entriesValue.(orderedmap.OrderedMap)
		if !ok {
			return nil, errors.Errorf(`type "%s" must map ids to objects`, typeName)
		}

		for _, idText := range entries.Keys() {
			id, err := strconv.ParseInt(idText, 10, 16)
			if err != nil {
				return nil, errors.Wrapf(err, `resource id "%s" of type "%s"`, idText, typeName)
			}
			wrapperValue, _ := entries.Get(idText)
			wrapper, ok := wrapperValue.(orderedmap.OrderedMap)
			if !ok {
				return nil, errors.Errorf(`resource %s#%d must be an object`, typeName, id)
			}

			res, err := buildResource(wrapper, registry, resType, int16(id))
			if err != nil {
				return nil, err
			}
			if !fork.Add(res) {
				return nil, errors.Errorf("duplicate resource %s", res.Desc())
			}
		}
	}

	return fork, nil
}

func buildResource(
	wrapper orderedmap.OrderedMap,
	registry *rconvert.Registry,
	resType rtype.Type,
	id int16,
) (*rfork.Resource, error) {
	res := &rfork.Resource{
		Type:  resType,
		ID:    id,
		Flags: uint8(numberAt(wrapper, "flags")),
		Junk:  uint32(numberAt(wrapper, "junk")),
		Order: rfork.OrderUnset,
	}
	if nameValue, ok := wrapper.Get("name"); ok {
		if name, ok := nameValue.(string); ok {
			res.Name = rtype.EncodeLegacyText(name)
		}
	}
	if _, ok := wrapper.Get("order"); ok {
		res.Order = uint32(numberAt(wrapper, "order"))
	}

	if objValue, ok := wrapper.Get("obj"); ok {
		encoder, err := registry.EncoderFor(resType, id)
		if err != nil {
			return nil, err
		}
		data, err := encoder.Encode(objValue)
		if err != nil {
			return nil, errors.Wrapf(err, "encoding %s", res.Desc())
		}
		res.Data = data
		return res, nil
	}

	hexValue, ok := wrapper.Get("data")
	if !ok {
		return nil, errors.Errorf(`resource %s carries neither "obj" nor "data"`, res.Desc())
	}
	data, err := rconvert.HexConverter{}.Encode(hexValue)
	if err != nil {
		return nil, errors.Wrapf(err, "decoding hex of %s", res.Desc())
	}
	res.Data = data
	return res, nil
}

// numberAt fetches a numeric wrapper key, tolerating the float64 shape JSON
// numbers parse into. Absent keys read as zero.
func numberAt(o orderedmap.OrderedMap, key string) uint64 {
	value, ok := o.Get(key)
	if !ok {
		return 0
	}
	switch v := value.(type) {
	case float64:
		return uint64(int64(v))
	case int:
		return uint64(int64(v))
	case uint64:
		return v
	}
	return 0
}

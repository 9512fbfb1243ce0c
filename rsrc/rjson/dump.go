// Package rjson maps between the in-memory fork model and its structured
// JSON text form. Output goes through insertion-ordered maps so the text is
// deterministic; input is parsed order-preserving so a rebuilt fork keeps
// the file's resource ordering.
package rjson

import (
	"strconv"

	"github.com/samber/lo"

	"github.com/LachlanBWWright/rsrcdump/ds"
	"github.com/LachlanBWWright/rsrcdump/rsrc/rconvert"
	"github.com/LachlanBWWright/rsrcdump/rsrc/rfork"
	"github.com/LachlanBWWright/rsrcdump/rsrc/rtype"
)

// MetadataKey is the reserved top-level key carrying file-level values.
const MetadataKey = "_metadata"

// Dump renders a fork as a JSON-ready ordered object: "_metadata" first,
// then one object per type keyed by sanitized type name, each mapping
// decimal resource ids to wrapper objects.
func Dump(
	fork *rfork.Fork,
	registry *rconvert.Registry,
	includeTypes []rtype.Type,
	excludeTypes []rtype.Type,
) *ds.LinkedHashMap[string, any] {
	blob := ds.NewLinkedHashMap[string, any]()

	metadata := ds.NewLinkedHashMap[string, any]()
	metadata.Put("junk1", fork.JunkNextResMap)
	metadata.Put("junk2", fork.JunkFileRefNum)
	metadata.Put("file_attributes", fork.FileAttributes)
	blob.Put(MetadataKey, metadata)

	for _, resType := range fork.Tree.Keys() {
		if lo.Contains(excludeTypes, resType) {
			continue
		}
		if len(includeTypes) > 0 && !lo.Contains(includeTypes, resType) {
			continue
		}

		byID, _ := fork.Tree.Get(resType)
		entries := ds.NewLinkedHashMap[string, any]()
		for _, id := range byID.Keys() {
			res, _ := byID.Get(id)
			entries.Put(strconv.Itoa(int(id)), dumpResource(res, registry))
		}
		blob.Put(rtype.Sanitize(resType), entries)
	}

	return blob
}

func dumpResource(res *rfork.Resource, registry *rconvert.Registry) *ds.LinkedHashMap[string, any] {
	wrapper := ds.NewLinkedHashMap[string, any]()

	if len(res.Name) > 0 {
		wrapper.Put("name", rtype.DecodeLegacyText(res.Name))
	}
	if res.Flags != 0 {
		wrapper.Put("flags", res.Flags)
	}
	if res.Junk != 0 {
		wrapper.Put("junk", res.Junk)
	}
	if res.Order != rfork.OrderUnset {
		wrapper.Put("order", res.Order)
	}

	jsonKey, value, diagnostic := registry.DecodeResource(res)
	if diagnostic != "" {
		wrapper.Put("conversion_error", diagnostic)
	}
	wrapper.Put(jsonKey, value)

	return wrapper
}

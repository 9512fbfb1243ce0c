// Package rsrc converts classic resource forks to editable JSON and back.
// The heavy lifting lives in the subpackages: rfork (container codec),
// rtemplate (struct templates), rconvert (converter registry), rjson
// (JSON mapping), radf (AppleDouble container), rtype (type-tag text).
package rsrc

import (
	"encoding/hex"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/iancoleman/orderedmap"
	"github.com/pkg/errors"

	"github.com/LachlanBWWright/rsrcdump/ds"
	"github.com/LachlanBWWright/rsrcdump/rsrc/radf"
	"github.com/LachlanBWWright/rsrcdump/rsrc/rconvert"
	"github.com/LachlanBWWright/rsrcdump/rsrc/rfork"
	"github.com/LachlanBWWright/rsrcdump/rsrc/rjson"
	"github.com/LachlanBWWright/rsrcdump/rsrc/rtype"
)

// IsAppleDouble reports whether bs is wrapped in an AppleDouble container
// rather than being a bare resource fork.
func IsAppleDouble(bs []byte) bool {
	return radf.IsAppleDouble(bs)
}

// Dump converts resource-fork (or AppleDouble) bytes to indented JSON text.
// Non-fatal decode problems come back as warnings; non-fork ADF entries are
// preserved under "_metadata.adf" so Build can reconstitute the container.
func Dump(
	bs []byte,
	registry *rconvert.Registry,
	includeTypes []rtype.Type,
	excludeTypes []rtype.Type,
) (jsonText []byte, warnings []string, err error) {
	forkBytes := bs
	var container *radf.Container
	if radf.IsAppleDouble(bs) {
		if container, err = radf.Unpack(bs); err != nil {
			return nil, nil, err
		}
		forkBytes = container.ResourceFork()
	}

	fork, err := rfork.Decode(forkBytes)
	if err != nil {
		return nil, nil, err
	}

	blob := rjson.Dump(fork, registry, includeTypes, excludeTypes)

	if container != nil {
		extras := ds.NewLinkedHashMap[string, any]()
		for _, id := range container.Entries.Keys() {
			if id == radf.EntryResourceFork {
				continue
			}
			data, _ := container.Entries.Get(id)
			extras.Put(strconv.Itoa(int(id)), strings.ToUpper(hex.EncodeToString(data)))
		}
		if extras.Len() > 0 {
			metaValue, _ := blob.Get(rjson.MetadataKey)
			metaValue.(*ds.LinkedHashMap[string, any]).Put("adf", extras)
		}
	}

	jsonText, err = json.MarshalIndent(blob, "", "\t")
	if err != nil {
		return nil, nil, errors.Wrap(err, "marshalling fork JSON")
	}
	return jsonText, fork.Warnings, nil
}

// Build converts JSON text produced by Dump back into binary. With wrapADF
// the fork is wrapped in an AppleDouble container, restoring any extra
// entries preserved under "_metadata.adf".
func Build(
	jsonText []byte,
	registry *rconvert.Registry,
	includeTypes []rtype.Type,
	excludeTypes []rtype.Type,
	wrapADF bool,
) ([]byte, error) {
	blob := orderedmap.New()
	if err := json.Unmarshal(jsonText, blob); err != nil {
		return nil, errors.Wrap(err, "parsing fork JSON")
	}

	fork, err := rjson.Build(blob, registry, includeTypes, excludeTypes)
	if err != nil {
		return nil, err
	}
	forkBytes := rfork.Encode(fork)

	if !wrapADF {
		return forkBytes, nil
	}

	container := radf.NewContainer()
	container.Entries.Put(radf.EntryResourceFork, forkBytes)
	if err := restoreADFExtras(blob, container); err != nil {
		return nil, err
	}
	return container.Pack(), nil
}

func restoreADFExtras(blob *orderedmap.OrderedMap, container *radf.Container) error {
	metaValue, ok := blob.Get(rjson.MetadataKey)
	if !ok {
		return nil
	}
	meta, ok := metaValue.(orderedmap.OrderedMap)
	if !ok {
		return nil
	}
	extrasValue, ok := meta.Get("adf")
	if !ok {
		return nil
	}
	extras, ok := extrasValue.(orderedmap.OrderedMap)
	if !ok {
		return errors.New(`"_metadata.adf" must be an object`)
	}
	for _, idText := range extras.Keys() {
		id, err := strconv.ParseUint(idText, 10, 32)
		if err != nil {
			return errors.Wrapf(err, `AppleDouble entry id "%s"`, idText)
		}
		hexValue, _ := extras.Get(idText)
		data, err := rconvert.HexConverter{}.Encode(hexValue)
		if err != nil {
			return errors.Wrapf(err, "AppleDouble entry %s", idText)
		}
		container.Entries.Put(uint32(id), data)
	}
	return nil
}

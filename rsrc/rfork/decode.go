package rfork

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/LachlanBWWright/rsrcdump/rsrc/bbytes"
	"github.com/LachlanBWWright/rsrcdump/rsrc/rtype"
)

const (
	headerSize       = 16
	noNameSentinel   = 0xFFFF
	dataOffsetMask   = 0x00FFFFFF
	flagsShift       = 24
	resourceListStep = 12
)

// Decode parses a binary resource fork. Structural damage (a header whose
// offsets point outside the buffer) is a hard error; damage confined to one
// resource (its data or name falls outside the buffer) only skips that
// resource and records a warning on the fork.
func Decode(data []byte) (*Fork, error) {
	fork := NewFork()
	if len(data) == 0 {
		return fork, nil
	}
	if len(data) < headerSize {
		return nil, ErrInvalidResourceFork{
			Reason: "data is too small to contain a resource fork header",
		}
	}

	header := bbytes.NewReader(data)
	dataOffset, _ := header.ReadUint32()
	mapOffset, _ := header.ReadUint32()
	dataLength, _ := header.ReadUint32()
	mapLength, _ := header.ReadUint32()

	if uint64(dataOffset)+uint64(dataLength) > uint64(len(data)) ||
		uint64(mapOffset)+uint64(mapLength) > uint64(len(data)) {
		return nil, ErrInvalidResourceFork{
			Reason: "offsets/lengths in header are nonsense",
		}
	}

	dataSection := data[dataOffset : dataOffset+dataLength]
	mapSection := data[mapOffset : mapOffset+mapLength]

	mapReader := bbytes.NewReader(mapSection)
	mapReader.Skip(headerSize) // copy of the fork header, ignored

	var err error
	if fork.JunkNextResMap, err = mapReader.ReadUint32(); err != nil {
		return nil, ErrInvalidResourceFork{Reason: "map section too small"}
	}
	fork.JunkFileRefNum, _ = mapReader.ReadUint16()
	fork.FileAttributes, _ = mapReader.ReadUint16()
	typeListOffset, _ := mapReader.ReadUint16()
	nameListOffset, err := mapReader.ReadUint16()
	if err != nil {
		return nil, ErrInvalidResourceFork{Reason: "map section too small"}
	}

	if int(typeListOffset) > len(mapSection) || int(nameListOffset) > len(mapSection) {
		return nil, ErrInvalidResourceFork{
			Reason: "type/name list offsets fall outside the map section",
		}
	}
	typeList := bbytes.NewReader(mapSection[typeListOffset:])
	nameList := bbytes.NewReader(mapSection[nameListOffset:])

	numTypesMinusOne, err := typeList.ReadUint16()
	if err != nil {
		return nil, ErrInvalidResourceFork{Reason: "type list too small"}
	}
	numTypes := int(numTypesMinusOne) + 1

	type placed struct {
		res        *Resource
		dataOffset uint32
	}
	order := make([]placed, 0, numTypes)

	for i := 0; i < numTypes; i++ {
		tagBytes, err := typeList.ReadBytes(rtype.Size)
		if err != nil {
			return nil, ErrInvalidResourceFork{Reason: "truncated type list entry"}
		}
		resType, _ := rtype.FromBytes(tagBytes)
		resCountMinusOne, _ := typeList.ReadUint16()
		resListOffset, err := typeList.ReadUint16()
		if err != nil {
			return nil, ErrInvalidResourceFork{Reason: "truncated type list entry"}
		}
		resCount := int(resCountMinusOne) + 1

		entries := bbytes.NewReader(mapSection[typeListOffset:])
		entries.Seek(int(resListOffset))
		for j := 0; j < resCount; j++ {
			res, resDataOffset, err := decodeListEntry(entries, nameList, dataSection, resType)
			if err != nil {
				var structural ErrInvalidResourceFork
				if errors.As(err, &structural) {
					return nil, structural
				}
				fork.warnf("skipping %s: %s", rtype.Sanitize(resType), err)
				continue
			}
			if !fork.Add(res) {
				fork.warnf("skipping duplicate resource %s", res.Desc())
				continue
			}
			order = append(order, placed{res: res, dataOffset: resDataOffset})
		}
	}

	// Recover the original data-section ordering so encode can reproduce it.
	sort.SliceStable(order, func(i, j int) bool {
		return order[i].dataOffset < order[j].dataOffset
	})
	for i, p := range order {
		p.res.Order = uint32(i)
	}

	return fork, nil
}

// decodeListEntry reads one 12-byte resource list entry and fetches the
// record's name and data. A truncated list entry is structural
// (ErrInvalidResourceFork); bad name or data bounds only poison this entry.
func decodeListEntry(
	entries *bbytes.Reader,
	nameList *bbytes.Reader,
	dataSection []byte,
	resType rtype.Type,
) (*Resource, uint32, error) {
	resID, err := entries.ReadInt16()
	if err != nil {
		return nil, 0, ErrInvalidResourceFork{Reason: "truncated resource list"}
	}
	nameOffset, _ := entries.ReadUint16()
	packedAttr, _ := entries.ReadUint32()
	junk, err := entries.ReadUint32()
	if err != nil {
		return nil, 0, ErrInvalidResourceFork{Reason: "truncated resource list"}
	}

	flags := uint8(packedAttr >> flagsShift)
	dataOffset := packedAttr & dataOffsetMask

	var name []byte
	if nameOffset != noNameSentinel {
		nameList.Seek(int(nameOffset))
		raw, err := nameList.ReadPString()
		if err != nil {
			return nil, 0, errors.Wrapf(err, "#%d: name out of bounds", resID)
		}
		name = append([]byte(nil), raw...)
	}

	dataReader := bbytes.NewReader(dataSection)
	dataReader.Seek(int(dataOffset))
	size, err := dataReader.ReadUint32()
	if err != nil {
		return nil, 0, errors.Wrapf(err, "#%d: data offset out of bounds", resID)
	}
	raw, err := dataReader.ReadBytes(int(size))
	if err != nil {
		return nil, 0, errors.Wrapf(err, "#%d: data length out of bounds", resID)
	}
	// zero-length records still get a non-nil slice
	recordData := make([]byte, len(raw))
	copy(recordData, raw)

	res := &Resource{
		Type:  resType,
		ID:    resID,
		Data:  recordData,
		Name:  name,
		Flags: flags,
		Junk:  junk,
		Order: OrderUnset,
	}
	return res, dataOffset, nil
}

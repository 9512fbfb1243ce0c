package rfork

import (
	"github.com/LachlanBWWright/rsrcdump/rsrc/bbytes"
	"github.com/LachlanBWWright/rsrcdump/rsrc/rtype"
)

const mapHeaderSize = headerSize + 4 + 2 + 2 + 2 + 2

type resKey struct {
	t  rtype.Type
	id int16
}

// nameLen mirrors the truncation bbytes.PutPString applies, so the name
// list offsets computed up front match what actually gets written.
func nameLen(name []byte) int {
	if len(name) > 255 {
		return 255
	}
	return len(name)
}

// Encode serializes the fork. The physical layout is rebuilt from scratch
// (header, data section, then map with type list, resource lists and name
// list), so the output need not be byte-identical to the file the fork came
// from, but decoding it yields a logically equal fork.
//
// An empty fork encodes to an empty byte slice: the count-minus-one fields
// cannot express zero types, and Decode already maps empty input back to an
// empty fork.
func Encode(fork *Fork) []byte {
	flat := fork.OrderedFlatList()
	if len(flat) == 0 {
		return nil
	}

	types := fork.Tree.Keys()
	numTypes := 0
	for _, t := range types {
		byID, _ := fork.Tree.Get(t)
		if byID.Len() > 0 {
			numTypes++
		}
	}

	dataSize := 0
	nameSize := 0
	for _, res := range flat {
		dataSize += 4 + len(res.Data)
		if len(res.Name) > 0 {
			nameSize += 1 + nameLen(res.Name)
		}
	}

	typeListSize := 2 + 8*numTypes
	resListSize := resourceListStep * len(flat)

	dataOffset := headerSize
	mapOffset := dataOffset + dataSize
	typeListOffset := mapHeaderSize
	nameListOffset := typeListOffset + typeListSize + resListSize
	mapLength := nameListOffset + nameSize

	bs := make([]byte, 0, mapOffset+mapLength)

	// Header.
	bs = bbytes.PutUint32(bs, uint32(dataOffset))
	bs = bbytes.PutUint32(bs, uint32(mapOffset))
	bs = bbytes.PutUint32(bs, uint32(dataSize))
	bs = bbytes.PutUint32(bs, uint32(mapLength))

	// Data section, in original order. Remember where each record landed.
	dataOffsets := map[resKey]uint32{}
	for _, res := range flat {
		dataOffsets[resKey{res.Type, res.ID}] = uint32(len(bs) - dataOffset)
		bs = bbytes.PutUint32(bs, uint32(len(res.Data)))
		bs = append(bs, res.Data...)
	}

	// Name list offsets are assigned up front, walking the same flat order
	// the name list itself is written in below.
	nameOffsets := map[resKey]uint16{}
	nameCursor := 0
	for _, res := range flat {
		if len(res.Name) > 0 {
			nameOffsets[resKey{res.Type, res.ID}] = uint16(nameCursor)
			nameCursor += 1 + nameLen(res.Name)
		} else {
			nameOffsets[resKey{res.Type, res.ID}] = noNameSentinel
		}
	}

	// Map header: copy of the fork header, then the preserved file-level
	// values, then the two list offsets.
	bs = append(bs, bs[:headerSize]...)
	bs = bbytes.PutUint32(bs, fork.JunkNextResMap)
	bs = bbytes.PutUint16(bs, fork.JunkFileRefNum)
	bs = bbytes.PutUint16(bs, fork.FileAttributes)
	bs = bbytes.PutUint16(bs, uint16(typeListOffset))
	bs = bbytes.PutUint16(bs, uint16(nameListOffset))

	// Type list, with counts stored minus one.
	bs = bbytes.PutUint16(bs, uint16(numTypes-1))
	resListCursor := typeListSize
	for _, t := range types {
		byID, _ := fork.Tree.Get(t)
		if byID.Len() == 0 {
			continue
		}
		bs = append(bs, t.Bytes()...)
		bs = bbytes.PutUint16(bs, uint16(byID.Len()-1))
		bs = bbytes.PutUint16(bs, uint16(resListCursor))
		resListCursor += resourceListStep * byID.Len()
	}

	// Resource lists, one run per type.
	for _, t := range types {
		byID, _ := fork.Tree.Get(t)
		for _, id := range byID.Keys() {
			res, _ := byID.Get(id)
			key := resKey{t, id}
			bs = bbytes.PutInt16(bs, res.ID)
			bs = bbytes.PutUint16(bs, nameOffsets[key])
			packedAttr := uint32(res.Flags)<<flagsShift | dataOffsets[key]&dataOffsetMask
			bs = bbytes.PutUint32(bs, packedAttr)
			bs = bbytes.PutUint32(bs, res.Junk)
		}
	}

	// Name list.
	for _, res := range flat {
		if len(res.Name) > 0 {
			bs = bbytes.PutPString(bs, res.Name)
		}
	}

	return bs
}

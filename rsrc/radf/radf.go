// Package radf unpacks and packs the AppleDouble container that often wraps
// a resource fork on foreign filesystems: a fixed index of typed entries,
// one of which is the fork itself.
package radf

import (
	"github.com/pkg/errors"

	"github.com/LachlanBWWright/rsrcdump/ds"
	"github.com/LachlanBWWright/rsrcdump/rsrc/bbytes"
)

const (
	Magic   = uint32(0x00051607)
	Version = uint32(0x00020000)

	// EntryResourceFork is the well-known entry id of the resource fork.
	EntryResourceFork = uint32(2)

	headerSize = 4 + 4 + 16 + 2
	entrySize  = 4 + 4 + 4
)

// Container holds the ADF entries in file order.
type Container struct {
	Entries *ds.LinkedHashMap[uint32, []byte]
}

func NewContainer() *Container {
	return &Container{
		Entries: ds.NewLinkedHashMap[uint32, []byte](),
	}
}

// IsAppleDouble reports whether bs starts with the ADF magic and version.
// Anything else is treated as a bare resource fork by callers, never as an
// error.
func IsAppleDouble(bs []byte) bool {
	r := bbytes.NewReader(bs)
	magic, err := r.ReadUint32()
	if err != nil {
		return false
	}
	version, err := r.ReadUint32()
	return err == nil && magic == Magic && version == Version
}

// Unpack reads an ADF container. The caller is expected to check
// IsAppleDouble first; a buffer with the right magic but a broken entry
// table is an error.
func Unpack(bs []byte) (*Container, error) {
	r := bbytes.NewReader(bs)
	magic, _ := r.ReadUint32()
	version, _ := r.ReadUint32()
	if magic != Magic || version != Version {
		return nil, errors.New("not an AppleDouble container")
	}
	r.Skip(16) // reserved

	numEntries, err := r.ReadUint16()
	if err != nil {
		return nil, errors.New("AppleDouble header too small")
	}

	type entry struct {
		id     uint32
		offset uint32
		length uint32
	}
	table := make([]entry, 0, numEntries)
	for i := 0; i < int(numEntries); i++ {
		var e entry
		e.id, _ = r.ReadUint32()
		e.offset, _ = r.ReadUint32()
		if e.length, err = r.ReadUint32(); err != nil {
			return nil, errors.New("truncated AppleDouble entry table")
		}
		table = append(table, e)
	}

	container := NewContainer()
	for _, e := range table {
		if uint64(e.offset)+uint64(e.length) > uint64(len(bs)) {
			return nil, errors.Errorf("AppleDouble entry %d overruns the file", e.id)
		}
		container.Entries.Put(e.id, append([]byte(nil), bs[e.offset:e.offset+e.length]...))
	}
	return container, nil
}

// ResourceFork returns the embedded fork bytes, or nil when the container
// carries none.
func (c *Container) ResourceFork() []byte {
	bs, _ := c.Entries.Get(EntryResourceFork)
	return bs
}

// Pack serializes the container: header, entry table, then entry data in
// insertion order.
func (c *Container) Pack() []byte {
	ids := c.Entries.Keys()
	bs := make([]byte, 0, headerSize+entrySize*len(ids))

	bs = bbytes.PutUint32(bs, Magic)
	bs = bbytes.PutUint32(bs, Version)
	bs = append(bs, make([]byte, 16)...)
	bs = bbytes.PutUint16(bs, uint16(len(ids)))

	offset := headerSize + entrySize*len(ids)
	for _, id := range ids {
		data, _ := c.Entries.Get(id)
		bs = bbytes.PutUint32(bs, id)
		bs = bbytes.PutUint32(bs, uint32(offset))
		bs = bbytes.PutUint32(bs, uint32(len(data)))
		offset += len(data)
	}
	for _, id := range ids {
		data, _ := c.Entries.Get(id)
		bs = append(bs, data...)
	}
	return bs
}

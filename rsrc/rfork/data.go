// Package rfork converts between the binary resource-fork container and an
// in-memory model of its resources.
package rfork

import (
	"fmt"
	"sort"

	"github.com/LachlanBWWright/rsrcdump/ds"
	"github.com/LachlanBWWright/rsrcdump/rsrc/rtype"
)

// OrderUnset marks a resource whose position in the original data section is
// unknown, e.g. one added programmatically. Such resources sort after all
// ordered ones on encode.
const OrderUnset = uint32(0xFFFFFFFF)

type (
	// Resource is one typed, numbered record of the fork.
	Resource struct {
		Type  rtype.Type
		ID    int16
		Data  []byte
		Name  []byte // legacy 8-bit text, usually MacRoman
		Flags uint8
		Junk  uint32 // opaque handle value, preserved verbatim
		Order uint32
	}

	// Fork is a whole resource fork: resources grouped by type and keyed by
	// ID, plus the file-level values that must survive a round trip.
	Fork struct {
		Tree *ds.LinkedHashMap[rtype.Type, *ds.LinkedHashMap[int16, *Resource]]

		JunkNextResMap uint32
		JunkFileRefNum uint16
		FileAttributes uint16

		// Warnings collects non-fatal decode diagnostics, one per skipped
		// or repaired resource.
		Warnings []string
	}

	ErrInvalidResourceFork struct {
		Reason string
	}
)

func (r ErrInvalidResourceFork) Error() string {
	return fmt.Sprintf("invalid resource fork: %s", r.Reason)
}

func (r *Resource) Desc() string {
	return fmt.Sprintf("%s#%d", rtype.Sanitize(r.Type), r.ID)
}

func NewFork() *Fork {
	return &Fork{
		Tree: ds.NewLinkedHashMap[rtype.Type, *ds.LinkedHashMap[int16, *Resource]](),
	}
}

func (r *Fork) warnf(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// Add inserts a resource, keeping (type, ID) unique. A duplicate reports
// false and leaves the existing resource in place.
func (r *Fork) Add(res *Resource) bool {
	byID, ok := r.Tree.Get(res.Type)
	if !ok {
		byID = ds.NewLinkedHashMap[int16, *Resource]()
		r.Tree.Put(res.Type, byID)
	}
	if byID.Has(res.ID) {
		return false
	}
	byID.Put(res.ID, res)
	return true
}

func (r *Fork) Get(t rtype.Type, id int16) (*Resource, bool) {
	byID, ok := r.Tree.Get(t)
	if !ok {
		return nil, false
	}
	return byID.Get(id)
}

func (r *Fork) NumResources() int {
	total := 0
	for _, t := range r.Tree.Keys() {
		byID, _ := r.Tree.Get(t)
		total += byID.Len()
	}
	return total
}

// OrderedFlatList returns every resource sorted by Order, with unordered
// resources last and insertion order as the tiebreak. Encode walks this list
// so serialization stays deterministic.
func (r *Fork) OrderedFlatList() []*Resource {
	flat := make([]*Resource, 0, r.NumResources())
	for _, t := range r.Tree.Keys() {
		byID, _ := r.Tree.Get(t)
		for _, id := range byID.Keys() {
			res, _ := byID.Get(id)
			flat = append(flat, res)
		}
	}
	sort.SliceStable(flat, func(i, j int) bool {
		return flat[i].Order < flat[j].Order
	})
	return flat
}

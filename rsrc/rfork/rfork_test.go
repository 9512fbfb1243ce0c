package rfork

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LachlanBWWright/rsrcdump/rsrc/rtype"
)

func sampleFork() *Fork {
	fork := NewFork()
	fork.JunkNextResMap = 0xCAFEBABE
	fork.JunkFileRefNum = 0x1234
	fork.FileAttributes = 0x0010

	fork.Add(&Resource{
		Type:  rtype.Type{'S', 'T', 'R', ' '},
		ID:    128,
		Data:  []byte("\x05hello"),
		Name:  []byte("greeting"),
		Flags: 0x20,
		Junk:  7,
		Order: 0,
	})
	fork.Add(&Resource{
		Type:  rtype.Type{'S', 'T', 'R', ' '},
		ID:    -1,
		Data:  []byte{},
		Order: 1,
	})
	fork.Add(&Resource{
		Type:  rtype.Type{'H', 'e', 'd', 'r'},
		ID:    1000,
		Data:  []byte{0, 1, 0, 2, 0, 0, 0, 3},
		Order: 2,
	})
	return fork
}

func TestDecode_EmptyAndTruncated(t *testing.T) {
	fork, err := Decode(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, fork.NumResources())

	_, err = Decode(make([]byte, 15))
	require.Error(t, err)
	assert.ErrorAs(t, err, &ErrInvalidResourceFork{})
}

func TestDecode_NonsenseHeader(t *testing.T) {
	bs := make([]byte, 32)
	binary.BigEndian.PutUint32(bs[0:], 16)
	binary.BigEndian.PutUint32(bs[4:], 1_000_000) // map offset past the end
	binary.BigEndian.PutUint32(bs[8:], 8)
	binary.BigEndian.PutUint32(bs[12:], 8)

	_, err := Decode(bs)
	assert.ErrorAs(t, err, &ErrInvalidResourceFork{})
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	original := sampleFork()
	decoded, err := Decode(Encode(original))
	require.NoError(t, err)
	assert.Empty(t, decoded.Warnings)

	assert.Equal(t, original.JunkNextResMap, decoded.JunkNextResMap)
	assert.Equal(t, original.JunkFileRefNum, decoded.JunkFileRefNum)
	assert.Equal(t, original.FileAttributes, decoded.FileAttributes)
	require.Equal(t, original.NumResources(), decoded.NumResources())

	for _, want := range original.OrderedFlatList() {
		got, ok := decoded.Get(want.Type, want.ID)
		require.True(t, ok, want.Desc())
		assert.Equal(t, want.Data, got.Data, want.Desc())
		assert.Equal(t, want.Name, got.Name, want.Desc())
		assert.Equal(t, want.Flags, got.Flags, want.Desc())
		assert.Equal(t, want.Junk, got.Junk, want.Desc())
		assert.Equal(t, want.Order, got.Order, want.Desc())
	}
}

func TestDecode_ZeroLengthResourceKeepsEmptyData(t *testing.T) {
	decoded, err := Decode(Encode(sampleFork()))
	require.NoError(t, err)

	got, ok := decoded.Get(rtype.Type{'S', 'T', 'R', ' '}, -1)
	require.True(t, ok)
	require.NotNil(t, got.Data)
	assert.Equal(t, []byte{}, got.Data)
}

func TestEncode_EmptyFork(t *testing.T) {
	bs := Encode(NewFork())
	assert.Empty(t, bs)

	fork, err := Decode(bs)
	require.NoError(t, err)
	assert.Equal(t, 0, fork.NumResources())
}

func TestDecode_SkipsResourceWithBadOffset(t *testing.T) {
	bs := Encode(sampleFork())

	// Corrupt the data offset of the first resource list entry so it points
	// far outside the data section. Entry layout after the type list:
	// id(2) nameOffset(2) packedAttr(4) junk(4).
	mapOffset := binary.BigEndian.Uint32(bs[4:])
	typeListOffset := binary.BigEndian.Uint16(bs[mapOffset+24:])
	numTypes := int(binary.BigEndian.Uint16(bs[int(mapOffset)+int(typeListOffset):])) + 1
	firstEntry := int(mapOffset) + int(typeListOffset) + 2 + 8*numTypes
	binary.BigEndian.PutUint32(bs[firstEntry+4:], 0x00FFFFFF)

	fork, err := Decode(bs)
	require.NoError(t, err)
	assert.Len(t, fork.Warnings, 1)
	assert.Equal(t, 2, fork.NumResources())
}

func TestAdd_RejectsDuplicates(t *testing.T) {
	fork := NewFork()
	res := &Resource{Type: rtype.Type{'T', 'E', 'X', 'T'}, ID: 1}
	assert.True(t, fork.Add(res))
	assert.False(t, fork.Add(res))
	assert.Equal(t, 1, fork.NumResources())
}

func TestOrderedFlatList_UnsetOrderSortsLast(t *testing.T) {
	fork := NewFork()
	fork.Add(&Resource{Type: rtype.Type{'A', 'A', 'A', 'A'}, ID: 1, Order: OrderUnset})
	fork.Add(&Resource{Type: rtype.Type{'B', 'B', 'B', 'B'}, ID: 2, Order: 0})

	flat := fork.OrderedFlatList()
	require.Len(t, flat, 2)
	assert.Equal(t, int16(2), flat[0].ID)
	assert.Equal(t, int16(1), flat[1].ID)
}

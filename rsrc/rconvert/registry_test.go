package rconvert

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LachlanBWWright/rsrcdump/ds"
	"github.com/LachlanBWWright/rsrcdump/rsrc/rfork"
	"github.com/LachlanBWWright/rsrcdump/rsrc/rtype"
)

func TestHexConverter_RoundTrip(t *testing.T) {
	res := &rfork.Resource{
		Type: rtype.Type{'j', 'u', 'n', 'k'},
		ID:   1,
		Data: []byte{0xDE, 0xAD, 0xBE, 0xEF},
	}

	value, err := HexConverter{}.Decode(res)
	require.NoError(t, err)
	assert.Equal(t, "DEADBEEF", value)

	bs, err := HexConverter{}.Encode(value)
	require.NoError(t, err)
	assert.Equal(t, res.Data, bs)
}

func TestRegistry_LookupFallsBackToHex(t *testing.T) {
	registry := NewRegistry()
	converter := registry.Lookup(rtype.Type{'T', 'E', 'X', 'T'})
	assert.Equal(t, "data", converter.JSONKey())
}

func TestRegistry_RegisterSpec(t *testing.T) {
	registry := NewRegistry()
	require.NoError(t, registry.RegisterSpecs(`
// per-record header layout
Hedr:Hi+:version,count

STR%23:H:num
`))

	converter := registry.Lookup(rtype.Type{'H', 'e', 'd', 'r'})
	assert.Equal(t, "obj", converter.JSONKey())

	converter = registry.Lookup(rtype.Type{'S', 'T', 'R', '#'})
	assert.Equal(t, "obj", converter.JSONKey())

	assert.Error(t, registry.RegisterSpec("Hedr"))
	assert.Error(t, registry.RegisterSpec("Hedr:Hz"))
	assert.Error(t, registry.RegisterSpec("WAYTOOLONG:H"))
}

func TestStructConverter_LengthMismatch(t *testing.T) {
	registry := NewRegistry()
	require.NoError(t, registry.RegisterSpec("Hedr:Hi+:version,count"))

	res := &rfork.Resource{
		Type: rtype.Type{'H', 'e', 'd', 'r'},
		ID:   1000,
		Data: make([]byte, 13), // not a multiple of 6
	}
	_, err := registry.Lookup(res.Type).Decode(res)
	require.Error(t, err)

	var mismatch ErrLengthMismatch
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, "Hedr", mismatch.TypeName)
	assert.Equal(t, int16(1000), mismatch.ID)
	assert.Equal(t, 13, mismatch.Actual)
	assert.Equal(t, 6, mismatch.Expected)
	assert.Contains(t, mismatch.Error(), "Hedr#1000")
	assert.Contains(t, mismatch.Error(), "13")
	assert.Contains(t, mismatch.Error(), "6")
}

func TestDecodeResource_FallsBackOnError(t *testing.T) {
	registry := NewRegistry()
	require.NoError(t, registry.RegisterSpec("Hedr:Hi:version,count"))

	good := &rfork.Resource{
		Type: rtype.Type{'H', 'e', 'd', 'r'},
		ID:   1,
		Data: []byte{0, 1, 0, 0, 0, 2},
	}
	key, value, diagnostic := registry.DecodeResource(good)
	assert.Equal(t, "obj", key)
	assert.Empty(t, diagnostic)
	record := value.(*ds.LinkedHashMap[string, any])
	version, _ := record.Get("version")
	assert.Equal(t, uint16(1), version)

	bad := &rfork.Resource{
		Type: rtype.Type{'H', 'e', 'd', 'r'},
		ID:   2,
		Data: []byte{0xAB},
	}
	key, value, diagnostic = registry.DecodeResource(bad)
	assert.Equal(t, "data", key)
	assert.Equal(t, "AB", value)
	assert.NotEmpty(t, diagnostic)
}

func TestEncoderFor(t *testing.T) {
	registry := NewRegistry()
	require.NoError(t, registry.RegisterSpec("Hedr:H:num"))

	_, err := registry.EncoderFor(rtype.Type{'H', 'e', 'd', 'r'}, 1)
	assert.NoError(t, err)

	_, err = registry.EncoderFor(rtype.Type{'T', 'E', 'X', 'T'}, 5)
	require.Error(t, err)
	var noEncoder ErrNoEncoder
	require.ErrorAs(t, err, &noEncoder)
	assert.Equal(t, "TEXT", noEncoder.TypeName)
}

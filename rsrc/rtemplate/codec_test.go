package rtemplate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LachlanBWWright/rsrcdump/ds"
)

func TestDecode_SingleRecord(t *testing.T) {
	template, err := Compile("Hi", []string{"version", "count"})
	require.NoError(t, err)

	value, err := template.Decode([]byte{0x00, 0x02, 0xFF, 0xFF, 0xFF, 0xFE})
	require.NoError(t, err)

	record, ok := value.(*ds.LinkedHashMap[string, any])
	require.True(t, ok)
	assert.Equal(t, []string{"version", "count"}, record.Keys())

	version, _ := record.Get("version")
	count, _ := record.Get("count")
	assert.Equal(t, uint16(2), version)
	assert.Equal(t, int32(-2), count)
}

func TestDecode_ScalarCollapse(t *testing.T) {
	template, err := Compile("H", nil)
	require.NoError(t, err)

	value, err := template.Decode([]byte{0x01, 0x00})
	require.NoError(t, err)
	assert.Equal(t, uint16(256), value)

	// padding around the single value still collapses
	template, err = Compile("xHx", []string{"only"})
	require.NoError(t, err)
	value, err = template.Decode([]byte{0xAA, 0x01, 0x00, 0xBB})
	require.NoError(t, err)
	assert.Equal(t, uint16(256), value)
}

func TestDecode_List(t *testing.T) {
	template, err := Compile("Hb+", []string{"id", "level"})
	require.NoError(t, err)

	value, err := template.Decode([]byte{
		0x00, 0x01, 0x05,
		0x00, 0x02, 0xFB,
	})
	require.NoError(t, err)

	records, ok := value.([]any)
	require.True(t, ok)
	require.Len(t, records, 2)

	second := records[1].(*ds.LinkedHashMap[string, any])
	id, _ := second.Get("id")
	level, _ := second.Get("level")
	assert.Equal(t, uint16(2), id)
	assert.Equal(t, int8(-5), level)
}

func TestDecode_LengthMismatch(t *testing.T) {
	template, err := Compile("Hi", nil)
	require.NoError(t, err)
	_, err = template.Decode([]byte{1, 2, 3})
	assert.Error(t, err)

	template, err = Compile("Hi+", nil)
	require.NoError(t, err)
	_, err = template.Decode(make([]byte, 13))
	assert.Error(t, err)
}

func TestDecode_StringFieldIsHex(t *testing.T) {
	template, err := Compile("4s", nil)
	require.NoError(t, err)
	value, err := template.Decode([]byte{0xDE, 0xAD, 0xBE, 0xEF})
	require.NoError(t, err)
	assert.Equal(t, "DEADBEEF", value)
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	cases := []struct {
		format string
		names  []string
		data   []byte
	}{
		{"Hi", []string{"a", "b"}, []byte{0, 7, 0xFF, 0xFF, 0xFF, 0x80}},
		{"B?q", nil, []byte{9, 1, 0, 0, 0, 0, 0, 0, 0, 42}},
		{"xHx", []string{"v"}, []byte{0, 1, 2, 0}},
		{"fd", []string{"x", "y"}, []byte{0x40, 0x49, 0x0F, 0xDB, 0x40, 0x09, 0x21, 0xFB, 0x54, 0x44, 0x2D, 0x18}},
		{"4s", nil, []byte{0xCA, 0xFE, 0xBA, 0xBE}},
		{"Hb+", []string{"id", "level"}, []byte{0, 1, 5, 0, 2, 251}},
	}
	for _, c := range cases {
		template, err := Compile(c.format, c.names)
		require.NoError(t, err, c.format)

		value, err := template.Decode(c.data)
		require.NoError(t, err, c.format)

		encoded, err := template.Encode(value)
		require.NoError(t, err, c.format)
		assert.Equal(t, c.data, encoded, c.format)
	}
}

func TestEncode_MissingFieldsDefaultToZero(t *testing.T) {
	template, err := Compile("Hi?4s", []string{"num", "count", "flag", "text"})
	require.NoError(t, err)

	encoded, err := template.Encode(map[string]any{"num": float64(7)})
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 7, 0, 0, 0, 0, 0, 0, 0, 0, 0}, encoded)
}

func TestEncode_Wraparound(t *testing.T) {
	template, err := Compile("B", nil)
	require.NoError(t, err)

	encoded, err := template.Encode(float64(0x1FF))
	require.NoError(t, err)
	assert.Equal(t, []byte{0xFF}, encoded)

	encoded, err = template.Encode(float64(-1))
	require.NoError(t, err)
	assert.Equal(t, []byte{0xFF}, encoded)
}

func TestEncode_StringPaddingAndTruncation(t *testing.T) {
	template, err := Compile("4s", nil)
	require.NoError(t, err)

	encoded, err := template.Encode("AB")
	require.NoError(t, err)
	assert.Equal(t, []byte{0xAB, 0, 0, 0}, encoded)

	encoded, err = template.Encode("DEADBEEF00")
	require.NoError(t, err)
	assert.Equal(t, []byte{0xDE, 0xAD, 0xBE, 0xEF}, encoded)

	_, err = template.Encode("not-hex")
	assert.Error(t, err)
}

func TestEncode_ScalarTakesBareValueOrMapping(t *testing.T) {
	template, err := Compile("H", []string{"v"})
	require.NoError(t, err)

	encoded, err := template.Encode(float64(256))
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 0}, encoded)

	// a value mapping must be honored, not coerced to zero
	encoded, err = template.Encode(map[string]any{"v": float64(256)})
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 0}, encoded)
}

func TestEncode_PaddingWritesZeroes(t *testing.T) {
	template, err := Compile("xBx", []string{"v"})
	require.NoError(t, err)

	encoded, err := template.Encode(map[string]any{"v": 0xEE})
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 0xEE, 0}, encoded)
}

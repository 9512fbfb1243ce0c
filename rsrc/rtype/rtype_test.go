package rtype

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitize(t *testing.T) {
	assert.Equal(t, "TEXT", Sanitize(Type{'T', 'E', 'X', 'T'}))
	assert.Equal(t, "STR", Sanitize(Type{'S', 'T', 'R', ' '}))
	assert.Equal(t, "STR%23", Sanitize(Type{'S', 'T', 'R', '#'}))
	assert.Equal(t, "snd", Sanitize(Type{'s', 'n', 'd', ' '}))
	// the all-space tag keeps its padding
	assert.Equal(t, "%20%20%20%20", Sanitize(Type{' ', ' ', ' ', ' '}))
	assert.Equal(t, "%00%01%02%03", Sanitize(Type{0, 1, 2, 3}))
}

func TestParse(t *testing.T) {
	parsed, err := Parse("STR%23")
	require.NoError(t, err)
	assert.Equal(t, Type{'S', 'T', 'R', '#'}, parsed)

	// short names pad with spaces
	parsed, err = Parse("snd")
	require.NoError(t, err)
	assert.Equal(t, Type{'s', 'n', 'd', ' '}, parsed)

	_, err = Parse("TOOLONG")
	assert.Error(t, err)

	_, err = Parse("AB%G0")
	assert.Error(t, err)

	_, err = Parse("ABC%2")
	assert.Error(t, err)
}

func TestSanitizeParseRoundTrip(t *testing.T) {
	tags := []Type{
		{'T', 'E', 'X', 'T'},
		{'S', 'T', 'R', '#'},
		{'I', 'C', 'N', '#'},
		{0xDE, 0xAD, 0xBE, 0xEF},
		{' ', ' ', ' ', ' '},
		{'p', 'l', 's', 't'},
	}
	for _, tag := range tags {
		parsed, err := Parse(Sanitize(tag))
		require.NoError(t, err)
		assert.Equal(t, tag, parsed)
	}
}

func TestLegacyTextRoundTrip(t *testing.T) {
	raw := []byte{'M', 'a', 'c', 0xA9, 0xFF, ' '}
	assert.Equal(t, raw, EncodeLegacyText(DecodeLegacyText(raw)))
	assert.Equal(t, []byte{'a', '?'}, EncodeLegacyText("aሴ"))
}

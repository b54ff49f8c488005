package hashid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodecRoundTrip(t *testing.T) {
	codec, err := NewCodec("test-salt")
	require.NoError(t, err)

	for _, id := range []uint{1, 42, 99999} {
		encoded := codec.Encode(id)
		assert.GreaterOrEqual(t, len(encoded), 4)

		decoded, err := codec.Decode(encoded)
		require.NoError(t, err)
		assert.Equal(t, id, decoded)
	}
}

func TestCodecDecodeGarbage(t *testing.T) {
	codec, err := NewCodec("test-salt")
	require.NoError(t, err)

	for _, input := range []string{"", "!!!!", "not a hashid"} {
		_, err := codec.Decode(input)
		assert.ErrorIs(t, err, ErrInvalidID)
	}
}

func TestCodecSaltChangesOutput(t *testing.T) {
	a, err := NewCodec("salt-a")
	require.NoError(t, err)
	b, err := NewCodec("salt-b")
	require.NoError(t, err)

	assert.NotEqual(t, a.Encode(7), b.Encode(7))
}

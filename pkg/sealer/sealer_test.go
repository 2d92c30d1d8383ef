package sealer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSealOpenRoundTrip(t *testing.T) {
	s, err := New("test-secret")
	require.NoError(t, err)

	sealed, err := s.Seal([]byte("backend-jwt"))
	require.NoError(t, err)
	assert.NotContains(t, string(sealed), "backend-jwt")

	out, err := s.Open(sealed)
	require.NoError(t, err)
	assert.Equal(t, "backend-jwt", string(out))
}

func TestOpenRejectsTamperingAndOtherKeys(t *testing.T) {
	s, _ := New("one")
	other, _ := New("two")

	sealed, err := s.Seal([]byte("token"))
	require.NoError(t, err)

	_, err = other.Open(sealed)
	assert.ErrorIs(t, err, ErrOpen)

	sealed[len(sealed)-1] ^= 0xFF
	_, err = s.Open(sealed)
	assert.ErrorIs(t, err, ErrOpen)

	_, err = s.Open([]byte("short"))
	assert.ErrorIs(t, err, ErrOpen)
}

func TestNewRequiresSecret(t *testing.T) {
	_, err := New("")
	assert.Error(t, err)
}

package helpers

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPasswordRoundTrip(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("secret")
	require.NoError(t, err)
	require.NotEqual(t, "secret", hash)

	require.True(t, CompareHashAndPassword(hash, "secret"))
	require.False(t, CompareHashAndPassword(hash, "wrong"))
}

func TestHashingIsSalted(t *testing.T) {
	t.Parallel()

	first, err := HashPassword("secret")
	require.NoError(t, err)
	second, err := HashPassword("secret")
	require.NoError(t, err)

	// Same plaintext, different digests; both still verify.
	require.NotEqual(t, first, second)
	require.True(t, CompareHashAndPassword(first, "secret"))
	require.True(t, CompareHashAndPassword(second, "secret"))
}

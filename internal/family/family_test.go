package family

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInvites(t *testing.T) {
	const secret = "s3cret"
	fam := NewFamily("  The Silvas ")
	assert.Equal(t, "The Silvas", fam.Name)
	assert.True(t, strings.HasPrefix(fam.ID, "fam-"))

	t.Run("RoundTrip", func(t *testing.T) {
		code, err := NewInvite(secret, fam, time.Hour)
		require.NoError(t, err)

		got, err := Redeem(secret, "  "+code+"\n")
		require.NoError(t, err)
		assert.Equal(t, fam, got)
	})

	t.Run("WrongSecret", func(t *testing.T) {
		code, err := NewInvite(secret, fam, time.Hour)
		require.NoError(t, err)
		_, err = Redeem("other", code)
		assert.ErrorIs(t, err, ErrInvalidInvite)
	})

	t.Run("Expired", func(t *testing.T) {
		code, err := NewInvite(secret, fam, -time.Minute)
		require.NoError(t, err)
		_, err = Redeem(secret, code)
		assert.ErrorIs(t, err, ErrInvalidInvite)
	})

	t.Run("SignedCodeWithoutSecret", func(t *testing.T) {
		code, err := NewInvite(secret, fam, time.Hour)
		require.NoError(t, err)
		_, err = Redeem("", code)
		assert.ErrorIs(t, err, ErrInvalidInvite)
	})

	t.Run("NoSecretConfigured", func(t *testing.T) {
		_, err := NewInvite("", fam, time.Hour)
		assert.Error(t, err)
	})

	t.Run("PlainCode", func(t *testing.T) {
		got, err := Redeem(secret, " ABC123 ")
		require.NoError(t, err)
		assert.Equal(t, Family{ID: "ABC123", Name: "Family ABC123"}, got)
	})

	t.Run("EmptyCode", func(t *testing.T) {
		_, err := Redeem(secret, "   ")
		assert.ErrorIs(t, err, ErrInvalidInvite)
	})
}

package security

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	hash, err := h.Hash("s3cretpass")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cretpass", hash)

	assert.NoError(t, h.Compare(hash, "s3cretpass"))
	assert.ErrorIs(t, h.Compare(hash, "wrongpass"), ErrPasswordMismatch)

	_, err = h.Hash("short")
	assert.ErrorIs(t, err, ErrPasswordTooShort)

	_, err = h.Hash(strings.Repeat("a", MaxPasswordLen+1))
	assert.ErrorIs(t, err, ErrPasswordTooLong)
}

func TestAESEncryptorRoundTrip(t *testing.T) {
	enc, err := NewAESEncryptorFromHex(strings.Repeat("ab", 32))
	require.NoError(t, err)

	plain := []byte("scanned passport bytes")
	sealed, err := enc.Encrypt(plain)
	require.NoError(t, err)
	assert.NotContains(t, string(sealed), "passport")

	opened, err := enc.Decrypt(sealed)
	require.NoError(t, err)
	assert.Equal(t, plain, opened)

	sealed[len(sealed)-1] ^= 0xff
	_, err = enc.Decrypt(sealed)
	assert.ErrorIs(t, err, ErrDecryption)
}

func TestAESEncryptorRejectsBadKey(t *testing.T) {
	_, err := NewAESEncryptorFromHex("not-hex")
	assert.ErrorIs(t, err, ErrInvalidKeySize)

	_, err = NewAESEncryptor([]byte("short"))
	assert.ErrorIs(t, err, ErrInvalidKeySize)
}

func TestTokenIssuer(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", "intake-api")
	userID := uuid.New()

	token, err := issuer.Issue(userID, PurposeEmailVerification, time.Hour)
	require.NoError(t, err)

	got, err := issuer.Verify(token, PurposeEmailVerification)
	require.NoError(t, err)
	assert.Equal(t, userID, got)

	_, err = issuer.Verify(token, "password_reset")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = NewTokenIssuer("other-secret", "intake-api").Verify(token, PurposeEmailVerification)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenIssuerRejectsExpired(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", "intake-api")
	issuer.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, err := issuer.Issue(uuid.New(), PurposeEmailVerification, time.Hour)
	require.NoError(t, err)

	issuer.now = time.Now
	_, err = issuer.Verify(token, PurposeEmailVerification)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

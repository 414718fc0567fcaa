package vault

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/identity-verify-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"

func newVault(t *testing.T) *Vault {
	t.Helper()
	v, err := New(testKey)
	require.NoError(t, err)
	return v
}

func TestNew_BadKeys(t *testing.T) {
	for _, key := range []string{"", "not hex", "abcd", strings.Repeat("0", 63)} {
		_, err := New(key)
		assert.ErrorIs(t, err, ErrInvalidKey, "key %q", key)
	}
}

func TestEncryptDecrypt_Roundtrip(t *testing.T) {
	v := newVault(t)

	enc, err := v.Encrypt("RC123456")
	require.NoError(t, err)
	assert.NotEmpty(t, enc.Ciphertext)
	assert.NotEmpty(t, enc.IV)
	assert.NotContains(t, enc.Ciphertext, "RC123456")

	got, err := v.Decrypt(enc)
	require.NoError(t, err)
	assert.Equal(t, "RC123456", got)
}

func TestEncrypt_FreshNoncePerCall(t *testing.T) {
	v := newVault(t)

	a, err := v.Encrypt("12345678901")
	require.NoError(t, err)
	b, err := v.Encrypt("12345678901")
	require.NoError(t, err)

	assert.NotEqual(t, a.IV, b.IV)
	assert.NotEqual(t, a.Ciphertext, b.Ciphertext)
}

func TestEncrypt_EmptyCleartext(t *testing.T) {
	v := newVault(t)
	_, err := v.Encrypt("")
	assert.Error(t, err)
}

func TestDecrypt_Tampered(t *testing.T) {
	v := newVault(t)

	enc, err := v.Encrypt("12345678901")
	require.NoError(t, err)

	sealed, err := base64.StdEncoding.DecodeString(enc.Ciphertext)
	require.NoError(t, err)
	sealed[0] ^= 0xFF
	enc.Ciphertext = base64.StdEncoding.EncodeToString(sealed)

	_, err = v.Decrypt(enc)
	assert.Error(t, err)
}

func TestDecrypt_WrongKey(t *testing.T) {
	v := newVault(t)
	enc, err := v.Encrypt("12345678901")
	require.NoError(t, err)

	other, err := New(strings.Repeat("ff", 32))
	require.NoError(t, err)

	_, err = other.Decrypt(enc)
	assert.Error(t, err)
}

func TestDecrypt_Malformed(t *testing.T) {
	v := newVault(t)

	_, err := v.Decrypt(domain.EncryptedIdentifier{Ciphertext: "!!!", IV: "!!!"})
	assert.Error(t, err)

	_, err = v.Decrypt(domain.EncryptedIdentifier{
		Ciphertext: base64.StdEncoding.EncodeToString([]byte("junk")),
		IV:         base64.StdEncoding.EncodeToString([]byte("x")),
	})
	assert.Error(t, err)
}

func TestMask(t *testing.T) {
	assert.Equal(t, "RC12****", Mask("RC123456"))
	assert.Equal(t, "1234*******", Mask("12345678901"))
	assert.Equal(t, "***", Mask("abc"))
	assert.Equal(t, "****", Mask("abcd"))
	assert.Equal(t, "****", Mask(""))
}

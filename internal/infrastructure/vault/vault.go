// Package vault protects identity numbers at rest. Identifiers are encrypted
// with AES-256-GCM before persistence; logs and audit records only ever see
// the Mask form.
package vault

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/identity-verify-api/internal/domain"
)

const keyLength = 32 // AES-256

// maskVisibleChars is how many leading characters Mask leaves readable.
const maskVisibleChars = 4

var ErrInvalidKey = errors.New("vault: encryption key must be 32 bytes of hex")

// Vault encrypts, decrypts, and masks sensitive identifiers.
type Vault struct {
	aead cipher.AEAD
}

// New builds a Vault from a hex-encoded 32-byte key (typically the
// ENCRYPTION_KEY environment variable).
func New(hexKey string) (*Vault, error) {
	key, err := hex.DecodeString(strings.TrimSpace(hexKey))
	if err != nil || len(key) != keyLength {
		return nil, ErrInvalidKey
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("vault: init cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("vault: init GCM: %w", err)
	}
	return &Vault{aead: aead}, nil
}

// Encrypt seals a cleartext identifier with a fresh random nonce. The
// returned value is safe to persist.
func (v *Vault) Encrypt(cleartext string) (domain.EncryptedIdentifier, error) {
	if cleartext == "" {
		return domain.EncryptedIdentifier{}, errors.New("vault: cleartext must not be empty")
	}
	nonce := make([]byte, v.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return domain.EncryptedIdentifier{}, fmt.Errorf("vault: generate nonce: %w", err)
	}
	sealed := v.aead.Seal(nil, nonce, []byte(cleartext), nil)
	return domain.EncryptedIdentifier{
		Ciphertext: base64.StdEncoding.EncodeToString(sealed),
		IV:         base64.StdEncoding.EncodeToString(nonce),
	}, nil
}

// Decrypt opens a sealed identifier. Authentication failure (tampered or
// corrupted data, wrong key) returns an error; the caller treats it as
// invalid input, never exposing detail to customers.
func (v *Vault) Decrypt(enc domain.EncryptedIdentifier) (string, error) {
	sealed, err := base64.StdEncoding.DecodeString(enc.Ciphertext)
	if err != nil {
		return "", fmt.Errorf("vault: decode ciphertext: %w", err)
	}
	nonce, err := base64.StdEncoding.DecodeString(enc.IV)
	if err != nil {
		return "", fmt.Errorf("vault: decode nonce: %w", err)
	}
	if len(nonce) != v.aead.NonceSize() {
		return "", errors.New("vault: bad nonce length")
	}
	cleartext, err := v.aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", errors.New("vault: decryption failed, data may be corrupted or tampered with")
	}
	return string(cleartext), nil
}

// Mask irreversibly obscures an identifier for logs and audit records: the
// first four characters stay visible, the rest become asterisks. Values of
// four characters or fewer are fully masked so the mask never equals the
// cleartext.
func Mask(cleartext string) string {
	if cleartext == "" {
		return "****"
	}
	if len(cleartext) <= maskVisibleChars {
		return strings.Repeat("*", len(cleartext))
	}
	return cleartext[:maskVisibleChars] + strings.Repeat("*", len(cleartext)-maskVisibleChars)
}

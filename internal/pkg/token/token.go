package token

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"regexp"
	"strings"
)

// 32 bytes of entropy; URL-safe base64 without padding yields 43 characters.
const byteLength = 32

// MinLength is the shortest well-formed verification token.
const MinLength = 43

var formatRe = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// New generates a cryptographically random, URL-safe verification token.
func New() (string, error) {
	b := make([]byte, byteLength)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate verification token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// ValidFormat reports whether s looks like a token this service issued:
// URL-safe base64 characters only, at least MinLength of them.
func ValidFormat(s string) bool {
	return len(s) >= MinLength && formatRe.MatchString(s)
}

// VerificationURL builds the link embedded in customer notifications.
func VerificationURL(baseURL, tok string) string {
	return strings.TrimRight(baseURL, "/") + "/verify/" + tok
}

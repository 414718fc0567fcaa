package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tok, err := New()
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(tok), MinLength)
	assert.True(t, ValidFormat(tok))

	other, err := New()
	require.NoError(t, err)
	assert.NotEqual(t, tok, other)
}

func TestValidFormat(t *testing.T) {
	assert.True(t, ValidFormat("aB3-_cdefghijklmnopqrstuvwxyz0123456789ABCD"))

	for _, s := range []string{
		"",
		"short",
		"has spaces has spaces has spaces has spaces",
		"contains+plus/slash=padding-aaaaaaaaaaaaaaaaaa",
	} {
		assert.False(t, ValidFormat(s), "input %q", s)
	}
}

func TestVerificationURL(t *testing.T) {
	assert.Equal(t, "https://verify.example.com/verify/abc", VerificationURL("https://verify.example.com", "abc"))
	assert.Equal(t, "https://verify.example.com/verify/abc", VerificationURL("https://verify.example.com/", "abc"))
}

package service

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileCipher_RoundTrip(t *testing.T) {
	c, err := NewProfileCipher("profile-secret")
	require.NoError(t, err)

	inputs := []string{
		"",
		"alice@example.com",
		"josé.müller@exämple.de",
		"用户@例子.广告",
		"emoji 🙂 mail@example.com",
	}

	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			enc, err := c.Encrypt(in)
			require.NoError(t, err)
			if in != "" {
				assert.NotContains(t, enc, in)
			}

			out, err := c.Decrypt(enc)
			require.NoError(t, err)
			assert.Equal(t, in, out)
		})
	}
}

func TestProfileCipher_FreshNoncePerEncryption(t *testing.T) {
	c, err := NewProfileCipher("profile-secret")
	require.NoError(t, err)

	a, err := c.Encrypt("same@example.com")
	require.NoError(t, err)
	b, err := c.Encrypt("same@example.com")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestProfileCipher_DecryptFailures(t *testing.T) {
	c, err := NewProfileCipher("profile-secret")
	require.NoError(t, err)
	other, err := NewProfileCipher("other-secret")
	require.NoError(t, err)

	enc, err := c.Encrypt("alice@example.com")
	require.NoError(t, err)

	raw, err := base64.StdEncoding.DecodeString(enc)
	require.NoError(t, err)
	raw[len(raw)-1] ^= 0x01
	tampered := base64.StdEncoding.EncodeToString(raw)

	tests := map[string]string{
		"tampered":  tampered,
		"not b64":   "%%%",
		"too short": base64.StdEncoding.EncodeToString([]byte("short")),
		"empty":     "",
	}
	for name, input := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := c.Decrypt(input)
			assert.ErrorIs(t, err, ErrDecryption)
		})
	}

	t.Run("wrong key", func(t *testing.T) {
		_, err := other.Decrypt(enc)
		assert.ErrorIs(t, err, ErrDecryption)
	})
}

func TestNewProfileCipher_EmptySecret(t *testing.T) {
	_, err := NewProfileCipher("")
	assert.Error(t, err)
}

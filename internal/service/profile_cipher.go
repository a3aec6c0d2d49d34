package service

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

const profileKeyInfo = "profile-email-v1"

// ProfileCipher encrypts the sensitive profile field with AES-256-GCM. The
// stored form is base64([nonce][ciphertext+tag]).
type ProfileCipher struct {
	aead cipher.AEAD
}

// NewProfileCipher derives a 32-byte key from secret with HKDF-SHA256.
func NewProfileCipher(secret string) (*ProfileCipher, error) {
	if secret == "" {
		return nil, errors.New("profile encryption secret is empty")
	}

	key := make([]byte, 32)
	if _, err := io.ReadFull(hkdf.New(sha256.New, []byte(secret), nil, []byte(profileKeyInfo)), key); err != nil {
		return nil, fmt.Errorf("deriving key: %w", err)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("creating cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("creating GCM: %w", err)
	}

	return &ProfileCipher{aead: gcm}, nil
}

// Encrypt seals plaintext under a fresh random nonce. The empty string is
// encrypted like any other value.
func (c *ProfileCipher) Encrypt(plaintext string) (string, error) {
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("generating nonce: %w", err)
	}

	sealed := c.aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt reverses Encrypt. Any malformed or tampered input yields ErrDecryption.
func (c *ProfileCipher) Decrypt(encoded string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("%w: decoding: %v", ErrDecryption, err)
	}

	nonceSize := c.aead.NonceSize()
	if len(raw) < nonceSize+c.aead.Overhead() {
		return "", fmt.Errorf("%w: ciphertext too short", ErrDecryption)
	}

	nonce, ct := raw[:nonceSize], raw[nonceSize:]
	plaintext, err := c.aead.Open(nil, nonce, ct, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecryption, err)
	}
	return string(plaintext), nil
}

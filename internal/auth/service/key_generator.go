package service

import (
	"crypto/rand"
	"math/big"

	apperrors "github.com/allisson/authgate/internal/errors"
)

// secretKeyAlphabet is the character set for generated signing secrets.
const secretKeyAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_."

// SecretKeyLength is the length of generated signing secrets. The rotation
// contract requires at least 24 characters; 32 leaves headroom.
const SecretKeyLength = 32

// randomKeyGenerator implements KeyGenerator using crypto/rand.
type randomKeyGenerator struct{}

// NewKeyGenerator creates a new KeyGenerator instance.
func NewKeyGenerator() KeyGenerator {
	return &randomKeyGenerator{}
}

// Generate returns a new SecretKeyLength-character secret. Each character is
// drawn independently via crypto/rand.Int, which avoids modulo bias.
func (g *randomKeyGenerator) Generate() (string, error) {
	alphabetSize := big.NewInt(int64(len(secretKeyAlphabet)))
	key := make([]byte, SecretKeyLength)

	for i := range key {
		n, err := rand.Int(rand.Reader, alphabetSize)
		if err != nil {
			return "", apperrors.Wrap(err, "failed to generate signing key")
		}
		key[i] = secretKeyAlphabet[n.Int64()]
	}

	return string(key), nil
}

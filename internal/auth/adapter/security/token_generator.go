package security

import (
	"crypto/rand"
	"fmt"

	"cah-online/internal/auth/domain/repository"
)

// MinTokenLength keeps at least 126 bits of entropy in every token.
const MinTokenLength = 21

// tokenAlphabet is URL and cookie safe. Its size is a power of two so masking
// a random byte picks every symbol with equal probability.
const tokenAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_"

const tokenMask = 63

var _ repository.TokenGenerator = (*RandomTokenGenerator)(nil)

// RandomTokenGenerator draws tokens from crypto/rand.
type RandomTokenGenerator struct {
	length int
}

// NewTokenGenerator creates a generator of tokens with the given length.
func NewTokenGenerator(length int) (*RandomTokenGenerator, error) {
	if length < MinTokenLength {
		return nil, fmt.Errorf("token length must be at least %d, got %d", MinTokenLength, length)
	}
	return &RandomTokenGenerator{length: length}, nil
}

// Length returns the number of characters in generated tokens.
func (g *RandomTokenGenerator) Length() int {
	return g.length
}

// Generate returns a new random token.
func (g *RandomTokenGenerator) Generate() (string, error) {
	buf := make([]byte, g.length)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	for i := range buf {
		buf[i] = tokenAlphabet[buf[i]&tokenMask]
	}
	return string(buf), nil
}

package crypto

import (
	"crypto/rand"
	"encoding/hex"

	"github.com/weblogin/weblogin/internal/common/constants"
)

type TokenGenerator interface {
	NewToken() (string, error)
}

// RandomTokenGenerator produces opaque session tokens from crypto/rand.
type RandomTokenGenerator struct{}

func NewRandomTokenGenerator() *RandomTokenGenerator {
	return &RandomTokenGenerator{}
}

func (g *RandomTokenGenerator) NewToken() (string, error) {
	b := make([]byte, constants.SessionTokenSize)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

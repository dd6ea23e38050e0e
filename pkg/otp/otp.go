package otp

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
)

// Generator draws one-time code values.
type Generator interface {
	RandomCode(min, max int64) (int64, error)
}

// CryptoGenerator draws uniformly from [min, max] using crypto/rand.
type CryptoGenerator struct{}

func NewCryptoGenerator() *CryptoGenerator {
	return &CryptoGenerator{}
}

func (g *CryptoGenerator) RandomCode(min, max int64) (int64, error) {
	if max < min {
		return 0, errors.New("invalid code range")
	}

	n, err := rand.Int(rand.Reader, big.NewInt(max-min+1))
	if err != nil {
		return 0, fmt.Errorf("read random failed: %w", err)
	}

	return min + n.Int64(), nil
}

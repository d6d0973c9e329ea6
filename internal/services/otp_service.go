package services

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/Triostacksoftware/authkit/domain"
)

// OTPGeneratorImpl implements domain.OTPGenerator with uniformly random
// decimal digits.
type OTPGeneratorImpl struct {
	length int
	ttl    time.Duration
}

// NewOTPGenerator creates a new OTP generator.
func NewOTPGenerator(length int, ttl time.Duration) domain.OTPGenerator {
	if length <= 0 {
		length = 6
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &OTPGeneratorImpl{length: length, ttl: ttl}
}

// Generate implements domain.OTPGenerator. The expiry is always exactly the
// configured window after the generation instant.
func (g *OTPGeneratorImpl) Generate() (string, time.Time, error) {
	digits := make([]byte, g.length)
	for i := 0; i < g.length; i++ {
		num, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", time.Time{}, fmt.Errorf("failed to generate random digit: %w", err)
		}
		digits[i] = byte('0' + num.Int64())
	}
	return string(digits), time.Now().Add(g.ttl), nil
}

// TTL reports the configured validity window.
func (g *OTPGeneratorImpl) TTL() time.Duration {
	return g.ttl
}

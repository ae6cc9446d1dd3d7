package auth

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

// OTPValidity is how long a verification code stays usable after issuance.
const OTPValidity = 5 * time.Minute

// GenerateOTP returns a 6-digit code drawn uniformly from [100000, 999999]
// using the crypto random source.
func GenerateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", fmt.Errorf("otp: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

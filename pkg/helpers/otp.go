package helpers

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

// OTPTTL is how long a signup code stays valid after issuance.
const OTPTTL = 10 * time.Minute

var otpSpace = big.NewInt(1_000_000)

// GenOTPCode generates a uniformly random 6-digit code as a zero-padded string.
func GenOTPCode() (string, error) {
	n, err := rand.Int(rand.Reader, otpSpace)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// OTPExpiry returns the instant after which a code issued at issuedAt is expired.
func OTPExpiry(issuedAt time.Time) time.Time {
	return issuedAt.Add(OTPTTL)
}

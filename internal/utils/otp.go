package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// OTPLength is the number of digits in a verification code.
const OTPLength = 6

// GenerateNumericOTP returns n random decimal digits, zero padded.
func GenerateNumericOTP(n int) (string, error) {
	if n <= 0 {
		n = OTPLength
	}
	max := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(n)), nil)
	num, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}
	return fmt.Sprintf("%0*d", n, num), nil
}

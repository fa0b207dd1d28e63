package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// GenerateMfaCode returns a random 6-digit code for email verification.
func GenerateMfaCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const (
	accountNumberMin   = 100000
	accountNumberRange = 900000
)

// GenerateAccountNumber returns a uniformly random six digit account number (100000-999999).
func GenerateAccountNumber() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(accountNumberRange))
	if err != nil {
		return "", fmt.Errorf("failed to read random account number: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()+accountNumberMin), nil
}

package testutil

import (
	"math/rand"

	"github.com/google/uuid"
)

// MakeID generates a unique UUID string for testing.
func MakeID() string {
	return uuid.New().String()
}

// MakeFund generates a unique fund identifier for testing.
//
// Example usage:
//
//	fund := testutil.MakeFund("growth")
func MakeFund(base string) string {
	if base == "" {
		base = "fund"
	}
	return base + "-" + randomAlphanumeric(6)
}

// MakeTicker generates a stock ticker symbol for testing.
func MakeTicker(base string) string {
	if base == "" {
		base = "TST"
	}
	return base + randomAlphanumeric(4)
}

// randomAlphanumeric generates a random alphanumeric string of specified length.
func randomAlphanumeric(length int) string {
	const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	result := make([]byte, length)
	for i := range result {
		//nolint:gosec // G404: Using math/rand for test data generation is acceptable
		result[i] = charset[rand.Intn(len(charset))]
	}
	return string(result)
}

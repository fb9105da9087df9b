package utils

import (
	"crypto/rand"
	"math/big"
	"strings"

	"github.com/google/uuid"
)

const ReferencePrefix = "DON"

// GenerateReference returns a fresh payment reference. References are random
// (UUIDv4), so collisions are negligible but not impossible.
func GenerateReference() string {
	return ReferencePrefix + "-" + strings.ReplaceAll(uuid.NewString(), "-", "")
}

func GenerateRandomString(length int) string {
	const charset = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
	result := make([]byte, length)
	for i := range result {
		n, _ := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		result[i] = charset[n.Int64()]
	}
	return string(result)
}

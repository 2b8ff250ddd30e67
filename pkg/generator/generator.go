package generator

import (
	"crypto/rand"
	"math/big"

	"github.com/google/uuid"
)

const alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

// RandomKey returns a random alphanumeric string, used as a signing key
// when none is configured.
func RandomKey(length int) (string, error) {
	result := make([]byte, length)

	for i := 0; i < length; i++ {
		randomIndex, err := rand.Int(rand.Reader, big.NewInt(int64(len(alphabet))))
		if err != nil {
			return "", err
		}
		result[i] = alphabet[randomIndex.Int64()]
	}

	return string(result), nil
}

// RequestID identifies one outgoing backend call.
func RequestID() string {
	return uuid.NewString()
}

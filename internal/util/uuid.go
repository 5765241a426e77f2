package util

import (
	"encoding/base64"
	"errors"

	"github.com/google/uuid"
)

// ShortUUID generates a short UUID with 22 symbols
func ShortUUID() string {
	u := uuid.New()
	return base64.RawURLEncoding.EncodeToString(u[:]) // 22 symbols
}

// GenerateUniqueID generates a URL-safe random ID of the requested length,
// at most 22 symbols.
func GenerateUniqueID(length int) (string, error) {
	encoded := ShortUUID()
	if length > len(encoded) {
		return "", errors.New("requested length exceeds the maximum possible")
	}
	return encoded[:length], nil
}

package util

import (
	"crypto/rand"
	"encoding/base64"
)

// RandomString generates a secure random URL-safe string from n bytes of
// entropy. It fails rather than falling back to a weaker source.
func RandomString(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

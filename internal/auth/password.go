// Package auth resolves caller identity from session cookies and bearer tokens.
package auth

import "golang.org/x/crypto/bcrypt"

// HashPassword returns the bcrypt hash of plaintext.
func HashPassword(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword reports whether plaintext matches storedHash. A malformed hash
// is a mismatch.
func VerifyPassword(plaintext, storedHash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(plaintext)) == nil
}

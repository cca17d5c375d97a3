package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifyPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)

	tests := []struct {
		name      string
		plaintext string
		hash      string
		want      bool
	}{
		{"match", "correct horse battery staple", hash, true},
		{"mismatch", "wrong", hash, false},
		{"empty plaintext", "", hash, false},
		{"malformed hash", "correct horse battery staple", "not-a-bcrypt-hash", false},
		{"empty hash", "anything", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, VerifyPassword(tt.plaintext, tt.hash))
		})
	}
}

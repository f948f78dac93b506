// Package passhash wraps bcrypt for credential storage. bcrypt embeds a
// random per-call salt into the hash, so two hashes of the same password
// differ while both still verify.
package passhash

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Hash derives a storable hash from a plaintext password.
func Hash(password string) ([]byte, error) {
	const op = "passhash.Hash"

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return hash, nil
}

// Verify reports whether password matches hash. A malformed hash is treated
// as a mismatch, never an error.
func Verify(password string, hash []byte) bool {
	return bcrypt.CompareHashAndPassword(hash, []byte(password)) == nil
}

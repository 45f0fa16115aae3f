// Package credential provides one-way password hashing, constant-time
// verification, and cryptographically secure token generation for
// account-management flows. Hashing cost is an operator-controlled
// constant, never caller-supplied.
package credential

import "golang.org/x/crypto/bcrypt"

// HashCost is the bcrypt cost factor. Each increment doubles the work per
// hash; 12 lands around 250ms on current server hardware, which keeps
// offline brute force expensive without stalling interactive login.
const HashCost = 12

// maxPasswordBytes is bcrypt's input limit. Longer plaintexts are
// truncated rather than rejected so Hash accepts any input string.
const maxPasswordBytes = 72

// Hash derives a salted bcrypt hash from plaintext. A fresh random salt is
// generated on every call, so hashing the same plaintext twice yields
// different outputs. The returned string is self-describing (algorithm,
// cost, salt, digest) and is the only form in which credentials may be
// stored.
func Hash(plaintext string) (string, error) {
	out, err := bcrypt.GenerateFromPassword(truncate(plaintext), HashCost)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// Verify reports whether plaintext matches the stored hash. The comparison
// runs in time independent of where a mismatch occurs. A malformed hash
// yields false, never a panic or an error to propagate.
func Verify(plaintext, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), truncate(plaintext)) == nil
}

func truncate(plaintext string) []byte {
	b := []byte(plaintext)
	if len(b) > maxPasswordBytes {
		b = b[:maxPasswordBytes]
	}
	return b
}

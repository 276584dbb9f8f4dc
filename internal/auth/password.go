package auth

import (
	"encoding/hex"

	"golang.org/x/crypto/sha3"
)

// PasswordDigest computes the lowercase hex SHA3-256 digest of a password.
// Operator credentials are provisioned with the same digest family, so the
// gate compares digests for exact equality.
func PasswordDigest(password string) string {
	sum := sha3.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

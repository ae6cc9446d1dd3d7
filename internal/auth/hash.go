package auth

import "golang.org/x/crypto/bcrypt"

// DefaultBcryptCost matches the interactive-cost work factor the platform has
// always used for account passwords.
const DefaultBcryptCost = 10

// HashPassword hashes a raw password with bcrypt. The salt is generated per
// call, so hashing the same password twice yields different digests.
func HashPassword(password string, cost int) (string, error) {
	if cost == 0 {
		cost = DefaultBcryptCost
	}
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	return string(bytes), err
}

// CheckPassword compares a raw password against a stored digest. Malformed
// digests simply fail the check.
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

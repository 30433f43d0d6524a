package auth

import (
	"golang.org/x/crypto/bcrypt"
)

// HashCode creates a bcrypt hash of a confirmation code so the plaintext code
// never sits in the database. Only the delivery mail carries the plaintext.
func HashCode(code string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

// VerifyCode checks a submitted confirmation code against the stored hash.
func VerifyCode(hashedCode, providedCode string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedCode), []byte(providedCode))
}

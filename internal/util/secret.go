package util

import (
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"unicode"

	"golang.org/x/crypto/argon2"
)

// argon2id parameters shared by passwords and one-time codes.
const (
	saltLength   = 16
	hashLength   = 32
	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
)

var (
	ErrEmptySecret = errors.New("secret cannot be empty")
	ErrEmptySalt   = errors.New("salt cannot be empty")
)

func GenerateSalt() ([]byte, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return nil, err
	}
	return salt, nil
}

// HashSecret derives the argon2id hash of secret under salt.
func HashSecret(secret string, salt []byte) ([]byte, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	if len(salt) == 0 {
		return nil, ErrEmptySalt
	}
	return argon2.IDKey([]byte(secret), salt, argonTime, argonMemory, argonThreads, hashLength), nil
}

// DeriveSecret hashes secret under a fresh random salt.
func DeriveSecret(secret string) (hash, salt []byte, err error) {
	if salt, err = GenerateSalt(); err != nil {
		return nil, nil, err
	}
	if hash, err = HashSecret(secret, salt); err != nil {
		return nil, nil, err
	}
	return hash, salt, nil
}

// VerifySecret recomputes the hash and compares in constant time.
func VerifySecret(secret string, salt, expected []byte) bool {
	if secret == "" || len(salt) == 0 || len(expected) == 0 {
		return false
	}
	candidate, err := HashSecret(secret, salt)
	if err != nil || len(candidate) != len(expected) {
		return false
	}
	return subtle.ConstantTimeCompare(candidate, expected) == 1
}

// ValidatePassword applies the staff password policy.
func ValidatePassword(password string) error {
	if len(password) < 10 {
		return errors.New("password must be at least 10 characters long")
	}
	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasLetter || !hasDigit {
		return errors.New("password must include at least one letter and one digit")
	}
	return nil
}

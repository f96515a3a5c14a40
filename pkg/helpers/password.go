package helpers

import (
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// dummyHash is compared against when no account exists so that a login miss
// costs the same bcrypt work as a wrong password.
var dummyHash = sync.OnceValue(func() []byte {
	b, _ := bcrypt.GenerateFromPassword([]byte("hireboard-dummy-password"), bcrypt.DefaultCost)
	return b
})

// HashPassword hashes the plain text password using bcrypt
func HashPassword(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// CompareHashAndPassword compares a bcrypt hash with a plain password.
// An empty hash still performs one comparison and always fails.
func CompareHashAndPassword(hash string, plain string) bool {
	if hash == "" {
		_ = bcrypt.CompareHashAndPassword(dummyHash(), []byte(plain))
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

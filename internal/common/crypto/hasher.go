package crypto

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/semenovda/todo-vault/internal/common/constants"
)

type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash string, password string) error
}

// BcryptHasher embeds a fresh salt in every hash, so Compare needs nothing
// beyond the stored value. Compare returns an error for malformed hashes
// instead of panicking.
type BcryptHasher struct{}

func (h *BcryptHasher) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), constants.BcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (h *BcryptHasher) Compare(hash string, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

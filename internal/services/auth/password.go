package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/officialpathway/pathwei-website/internal/platform/errors"
)

const minPasswordLength = 8

// HashPassword returns the bcrypt hash of password.
func HashPassword(password string) (string, error) {
	if len(password) < minPasswordLength {
		return "", apperrors.New(apperrors.CodeInvalidArgument, "password must be at least 8 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), passwordCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", apperrors.New(apperrors.CodeInvalidArgument, "password is too long")
		}
		return "", err
	}
	return string(hash), nil
}

// CheckPassword compares password with a stored hash.
func CheckPassword(hash, password string) bool {
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// passwordCost is lowered by tests.
var passwordCost = bcrypt.DefaultCost

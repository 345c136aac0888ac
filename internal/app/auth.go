package app

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"quizdesk/internal/domain"
)

// Authenticator resolves basic-auth credentials to a user identity. Both an
// unknown username and a wrong password surface as ErrInvalidCredentials so
// responses do not leak which accounts exist.
type Authenticator struct {
	users UserStore
}

func NewAuthenticator(users UserStore) *Authenticator {
	return &Authenticator{users: users}
}

func (a *Authenticator) Authenticate(ctx context.Context, username, password string) (domain.User, error) {
	user, err := a.users.GetUserByName(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.User{}, domain.ErrInvalidCredentials
		}
		return domain.User{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return domain.User{}, domain.ErrInvalidCredentials
	}
	return user, nil
}

// HashPassword produces a bcrypt hash suitable for UserStore storage.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

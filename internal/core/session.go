package core

import (
	"context"
	"errors"
	"strings"
)

// ErrInvalidCredentials is returned by Login when the email is unknown or the
// password does not match.
var ErrInvalidCredentials = errors.New("invalid email or password")

// Login verifies the credentials against the users bucket and records the
// matching account as the current session.
func (s *Service) Login(ctx context.Context, email, password string) (User, Result, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return User{}, Result{}, ErrInvalidCredentials
	}
	var user User
	res, err := s.run(ctx, "login", func(tx Transaction) error {
		found, ok := tx.Snapshot().FindUserByEmail(email)
		if !ok || found.Password != password {
			return ErrInvalidCredentials
		}
		user = found
		return tx.SetCurrentUser(found)
	})
	if err != nil {
		return User{}, res, err
	}
	s.logger.Info("user logged in", "user", user.ID, "role", string(user.Role))
	return user, res, nil
}

// Logout clears the current session. Logging out while logged out is a no-op.
func (s *Service) Logout(ctx context.Context) (Result, error) {
	return s.run(ctx, "logout", func(tx Transaction) error {
		return tx.ClearCurrentUser()
	})
}

// CurrentUser returns the signed-in account, if any.
func (s *Service) CurrentUser() (User, bool) {
	return s.store.CurrentUser()
}

// Authorize reports whether the signed-in account may act at the required
// role. Admins satisfy every requirement; managers satisfy manager and user.
func (s *Service) Authorize(required Role) bool {
	user, ok := s.CurrentUser()
	if !ok {
		return false
	}
	switch user.Role {
	case RoleAdmin:
		return true
	case RoleManager:
		return required != RoleAdmin
	case RoleUser:
		return required == RoleUser
	}
	return false
}

package auth

import (
	"context"
	"strings"

	"github.com/eatwise/eatwise-backend/internal/users"
	"github.com/eatwise/eatwise-backend/pkg/enums"
	pkgerrors "github.com/eatwise/eatwise-backend/pkg/errors"
)

// Register creates a credentials account with the default user role.
func (s *service) Register(ctx context.Context, req RegisterRequest) (*users.UserDTO, error) {
	username := strings.TrimSpace(req.Username)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if n := len([]rune(username)); n < 3 || n > 30 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "username must be between 3 and 30 characters").
			WithDetails(map[string]string{"username": "must be between 3 and 30 characters"})
	}
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	if len(req.Password) < 6 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "password must be at least 6 characters").
			WithDetails(map[string]string{"password": "must be at least 6"})
	}

	account := &users.Account{
		Username: username,
		Email:    email,
		Identity: users.NewCredentials(req.Password),
		Role:     enums.UserRoleUser,
	}
	if err := s.accounts.Save(ctx, account); err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create user")
	}
	return users.FromAccount(account), nil
}

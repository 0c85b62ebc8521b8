package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/eatwise/eatwise-backend/pkg/db/models"
	pkgerrors "github.com/eatwise/eatwise-backend/pkg/errors"
	"github.com/google/uuid"
)

// Service exposes profile operations for signed-in users.
type Service interface {
	Profile(ctx context.Context, userID uuid.UUID) (*UserDTO, error)
	UpdatePreferences(ctx context.Context, userID uuid.UUID, req UpdatePreferencesRequest) (*UserDTO, error)
}

type accountStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Account, error)
	Save(ctx context.Context, account *Account) error
}

type service struct {
	repo accountStore
}

// NewService constructs the profile service.
func NewService(repo accountStore) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("users repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Profile(ctx context.Context, userID uuid.UUID) (*UserDTO, error) {
	account, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return FromAccount(account), nil
}

// UpdatePreferences re-saves the account; the stored password hash is carried
// through untouched.
func (s *service) UpdatePreferences(ctx context.Context, userID uuid.UUID, req UpdatePreferencesRequest) (*UserDTO, error) {
	account, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	req.apply(&account.Preferences)
	account.Preferences.Allergies = models.NormalizeTokens(account.Preferences.Allergies)

	if err := s.repo.Save(ctx, account); err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "save preferences")
	}
	return FromAccount(account), nil
}

func (s *service) load(ctx context.Context, userID uuid.UUID) (*Account, error) {
	account, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load user")
	}
	return account, nil
}

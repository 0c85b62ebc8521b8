package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/eatwise/eatwise-backend/internal/users"
	pkgAuth "github.com/eatwise/eatwise-backend/pkg/auth"
	"github.com/eatwise/eatwise-backend/pkg/config"
	pkgerrors "github.com/eatwise/eatwise-backend/pkg/errors"
	"github.com/google/uuid"
)

const invalidCredentialsMessage = "invalid credentials"

// Service defines the behavior needed by the auth controller.
type Service interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	Register(ctx context.Context, req RegisterRequest) (*users.UserDTO, error)
}

type accountStore interface {
	FindByEmail(ctx context.Context, email string) (*users.Account, error)
	Save(ctx context.Context, account *users.Account) error
}

type service struct {
	accounts accountStore
	jwtCfg   config.JWTConfig
	now      func() time.Time
}

// ServiceParams bundles the dependencies required to build an auth service.
type ServiceParams struct {
	Accounts  accountStore
	JWTConfig config.JWTConfig
}

// NewService constructs the login and registration service.
func NewService(params ServiceParams) (Service, error) {
	if params.Accounts == nil {
		return nil, fmt.Errorf("users repository is required")
	}
	if strings.TrimSpace(params.JWTConfig.Secret) == "" {
		return nil, fmt.Errorf("jwt secret is required")
	}
	return &service{
		accounts: params.Accounts,
		jwtCfg:   params.JWTConfig,
		now:      time.Now,
	}, nil
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	email := strings.TrimSpace(req.Email)
	if email == "" || req.Password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}

	account, err := s.accounts.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}
	if !account.ComparePassword(req.Password) {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}

	now := s.now().UTC()
	token, err := pkgAuth.MintAccessToken(s.jwtCfg, now, pkgAuth.AccessTokenPayload{
		UserID: account.ID,
		Role:   account.Role,
		JTI:    uuid.NewString(),
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}

	return &LoginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   now.Add(time.Duration(s.jwtCfg.ExpirationMinutes) * time.Minute),
		User:        users.FromAccount(account),
	}, nil
}

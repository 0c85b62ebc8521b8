package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/eatwise/eatwise-backend/internal/repo"
	"github.com/eatwise/eatwise-backend/pkg/config"
	"github.com/eatwise/eatwise-backend/pkg/db"
	"github.com/eatwise/eatwise-backend/pkg/db/models"
	pkgerrors "github.com/eatwise/eatwise-backend/pkg/errors"
	"github.com/eatwise/eatwise-backend/pkg/security"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrNotFound is returned when no account matches a lookup.
var ErrNotFound = errors.New("user not found")

var uniqueConstraintMessages = map[string]string{
	"uq_users_username":         "username is already taken",
	"uq_users_email":            "email is already registered",
	"uq_users_auth_provider_id": "provider account is already linked",
}

type passwordHasher struct {
	cfg config.PasswordConfig
}

func (p passwordHasher) hash(plaintext string) (string, error) {
	return security.HashPassword(plaintext, p.cfg)
}

// Repository persists accounts.
type Repository struct {
	base   repo.Base
	hasher passwordHasher
}

// NewRepository constructs a users repository. Passwords are hashed with cfg.
func NewRepository(src db.Source, cfg config.PasswordConfig) (*Repository, error) {
	base, err := repo.NewBase(src)
	if err != nil {
		return nil, err
	}
	return &Repository{base: base, hasher: passwordHasher{cfg: cfg}}, nil
}

// FindByEmail retrieves the account with the given email, case-insensitively.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*Account, error) {
	return r.findOne(ctx, "email = ?", strings.ToLower(strings.TrimSpace(email)))
}

// FindByID loads an account by id.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*Account, error) {
	return r.findOne(ctx, "id = ?", id)
}

func (r *Repository) findOne(ctx context.Context, query string, args ...any) (*Account, error) {
	var user models.User
	err := r.base.Run(ctx, func(tx *gorm.DB) error {
		return tx.Where(query, args...).First(&user).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return accountFromModel(&user)
}

// Save inserts a new account or updates an existing one. A pending password is
// hashed first; otherwise the stored hash is written back unchanged.
func (r *Repository) Save(ctx context.Context, account *Account) error {
	if account == nil {
		return fmt.Errorf("account required")
	}
	if err := account.hashPending(r.hasher); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}
	user, err := account.toModel()
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, err.Error())
	}

	err = r.base.Run(ctx, func(tx *gorm.DB) error {
		if user.ID == uuid.Nil {
			return tx.Create(user).Error
		}
		return tx.Save(user).Error
	})
	if err != nil {
		for constraint, msg := range uniqueConstraintMessages {
			if db.IsUniqueViolation(err, constraint) {
				return pkgerrors.Wrap(pkgerrors.CodeConflict, err, msg)
			}
		}
		return err
	}

	account.ID = user.ID
	account.Username = user.Username
	account.Email = user.Email
	account.Role = user.Role
	account.CreatedAt = user.CreatedAt
	account.UpdatedAt = user.UpdatedAt
	return nil
}

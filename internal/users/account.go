package users

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/eatwise/eatwise-backend/pkg/db/models"
	"github.com/eatwise/eatwise-backend/pkg/enums"
	"github.com/eatwise/eatwise-backend/pkg/security"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Identity is how an account proves who it is. It is either *Credentials or
// Federated.
type Identity interface {
	Provider() enums.AuthProvider
}

// Credentials is the only identity that carries a password. A plaintext set
// through NewCredentials or SetPassword stays pending until the account is
// saved, at which point it is replaced by its hash.
type Credentials struct {
	hash    string
	pending *string
}

// NewCredentials returns credentials holding a pending plaintext password.
func NewCredentials(password string) *Credentials {
	c := &Credentials{}
	c.SetPassword(password)
	return c
}

// CredentialsFromHash wraps an already stored hash.
func CredentialsFromHash(hash string) *Credentials {
	return &Credentials{hash: hash}
}

func (c *Credentials) Provider() enums.AuthProvider { return enums.AuthProviderCredentials }

// SetPassword marks password for hashing on the next save.
func (c *Credentials) SetPassword(password string) {
	c.pending = &password
}

// Hash returns the stored hash, empty until the first save.
func (c *Credentials) Hash() string { return c.hash }

// HasPendingPassword reports whether a plaintext is waiting to be hashed.
func (c *Credentials) HasPendingPassword() bool { return c.pending != nil }

// Federated identities are verified by an external provider and never hold a
// password.
type Federated struct {
	AuthProvider enums.AuthProvider
	ProviderID   string
}

func (f Federated) Provider() enums.AuthProvider { return f.AuthProvider }

// Preferences drive the dietary warnings shown to the user.
type Preferences struct {
	IsMuslim     bool     `json:"isMuslim"`
	IsVegan      bool     `json:"isVegan"`
	IsVegetarian bool     `json:"isVegetarian"`
	IsDiabetic   bool     `json:"isDiabetic"`
	IsPregnant   bool     `json:"isPregnant"`
	AvoidsGluten bool     `json:"avoidsGluten"`
	Allergies    []string `json:"allergies"`
}

// Account is the domain view of a user row.
type Account struct {
	ID          uuid.UUID
	Username    string
	Email       string
	Identity    Identity
	Preferences Preferences
	Role        enums.UserRole
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ComparePassword reports whether candidate matches the stored hash. Accounts
// without a stored hash, including every federated account, never match.
func (a *Account) ComparePassword(candidate string) bool {
	creds, ok := a.Identity.(*Credentials)
	if !ok || creds == nil || creds.hash == "" {
		return false
	}
	valid, err := security.VerifyPassword(candidate, creds.hash)
	return err == nil && valid
}

// hashPending replaces a pending plaintext with its hash. It is a no-op for
// federated identities and for credentials without a pending password.
func (a *Account) hashPending(cfg passwordHasher) error {
	creds, ok := a.Identity.(*Credentials)
	if !ok || creds == nil || creds.pending == nil {
		return nil
	}
	hash, err := cfg.hash(*creds.pending)
	if err != nil {
		return err
	}
	creds.hash = hash
	creds.pending = nil
	return nil
}

func (a *Account) toModel() (*models.User, error) {
	if a.Identity == nil {
		return nil, errors.New("account identity required")
	}
	role := a.Role
	if role == "" {
		role = enums.UserRoleUser
	}
	user := &models.User{
		ID:           a.ID,
		Username:     strings.TrimSpace(a.Username),
		Email:        strings.ToLower(strings.TrimSpace(a.Email)),
		AuthProvider: a.Identity.Provider(),
		IsMuslim:     a.Preferences.IsMuslim,
		IsVegan:      a.Preferences.IsVegan,
		IsVegetarian: a.Preferences.IsVegetarian,
		IsDiabetic:   a.Preferences.IsDiabetic,
		IsPregnant:   a.Preferences.IsPregnant,
		AvoidsGluten: a.Preferences.AvoidsGluten,
		Allergies:    pq.StringArray(models.NormalizeTokens(a.Preferences.Allergies)),
		Role:         role,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}

	switch id := a.Identity.(type) {
	case *Credentials:
		if id.pending != nil {
			return nil, errors.New("password must be hashed before persisting")
		}
		if id.hash == "" {
			return nil, errors.New("credentials account requires a password")
		}
		hash := id.hash
		user.PasswordHash = &hash
	case Federated:
		if !id.AuthProvider.IsFederated() {
			return nil, fmt.Errorf("provider %q is not federated", id.AuthProvider)
		}
		if strings.TrimSpace(id.ProviderID) == "" {
			return nil, errors.New("federated account requires a provider id")
		}
		providerID := strings.TrimSpace(id.ProviderID)
		user.AuthProviderID = &providerID
	default:
		return nil, fmt.Errorf("unsupported identity %T", a.Identity)
	}
	return user, nil
}

func accountFromModel(u *models.User) (*Account, error) {
	if u == nil {
		return nil, errors.New("user required")
	}
	account := &Account{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Preferences: Preferences{
			IsMuslim:     u.IsMuslim,
			IsVegan:      u.IsVegan,
			IsVegetarian: u.IsVegetarian,
			IsDiabetic:   u.IsDiabetic,
			IsPregnant:   u.IsPregnant,
			AvoidsGluten: u.AvoidsGluten,
			Allergies:    append([]string{}, u.Allergies...),
		},
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}

	switch {
	case u.AuthProvider == enums.AuthProviderCredentials || u.AuthProvider == "":
		hash := ""
		if u.PasswordHash != nil {
			hash = *u.PasswordHash
		}
		account.Identity = CredentialsFromHash(hash)
	case u.AuthProvider.IsFederated():
		fed := Federated{AuthProvider: u.AuthProvider}
		if u.AuthProviderID != nil {
			fed.ProviderID = *u.AuthProviderID
		}
		account.Identity = fed
	default:
		return nil, fmt.Errorf("unknown auth provider %q", u.AuthProvider)
	}
	return account, nil
}

package users

import (
	"testing"

	"github.com/eatwise/eatwise-backend/pkg/config"
	"github.com/eatwise/eatwise-backend/pkg/db/models"
	"github.com/eatwise/eatwise-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fastHasher keeps argon2 cheap in tests.
var fastHasher = passwordHasher{cfg: config.PasswordConfig{
	ArgonMemoryKB:    64,
	ArgonTime:        1,
	ArgonParallelism: 1,
	ArgonSaltLen:     16,
	ArgonKeyLen:      32,
}}

func TestHashPendingReplacesPlaintext(t *testing.T) {
	account := &Account{Username: "jane", Email: "jane@example.com", Identity: NewCredentials("hunter22")}

	require.NoError(t, account.hashPending(fastHasher))

	creds := account.Identity.(*Credentials)
	assert.False(t, creds.HasPendingPassword())
	assert.NotEmpty(t, creds.Hash())
	assert.NotContains(t, creds.Hash(), "hunter22")
	assert.True(t, account.ComparePassword("hunter22"))
	assert.False(t, account.ComparePassword("hunter23"))
}

func TestHashPendingWithoutChangeKeepsHash(t *testing.T) {
	account := &Account{Identity: NewCredentials("first-pass")}
	require.NoError(t, account.hashPending(fastHasher))
	original := account.Identity.(*Credentials).Hash()

	require.NoError(t, account.hashPending(fastHasher))
	assert.Equal(t, original, account.Identity.(*Credentials).Hash())

	account.Identity.(*Credentials).SetPassword("second-pass")
	require.NoError(t, account.hashPending(fastHasher))
	assert.NotEqual(t, original, account.Identity.(*Credentials).Hash())
	assert.True(t, account.ComparePassword("second-pass"))
	assert.False(t, account.ComparePassword("first-pass"))
}

func TestSamePasswordHashesDifferently(t *testing.T) {
	a := &Account{Identity: NewCredentials("same-password")}
	b := &Account{Identity: NewCredentials("same-password")}
	require.NoError(t, a.hashPending(fastHasher))
	require.NoError(t, b.hashPending(fastHasher))
	assert.NotEqual(t, a.Identity.(*Credentials).Hash(), b.Identity.(*Credentials).Hash())
}

func TestFederatedAccountsNeverCarryPasswords(t *testing.T) {
	account := &Account{
		Username: "gina",
		Email:    "Gina@Example.com",
		Identity: Federated{AuthProvider: enums.AuthProviderGoogle, ProviderID: "google-123"},
	}
	require.NoError(t, account.hashPending(fastHasher))
	assert.False(t, account.ComparePassword(""))
	assert.False(t, account.ComparePassword("anything"))

	user, err := account.toModel()
	require.NoError(t, err)
	assert.Nil(t, user.PasswordHash)
	assert.Equal(t, enums.AuthProviderGoogle, user.AuthProvider)
	require.NotNil(t, user.AuthProviderID)
	assert.Equal(t, "google-123", *user.AuthProviderID)
	assert.Equal(t, "gina@example.com", user.Email)
	assert.Equal(t, enums.UserRoleUser, user.Role)
}

func TestComparePasswordWithoutStoredHash(t *testing.T) {
	account := &Account{Identity: &Credentials{}}
	assert.False(t, account.ComparePassword(""))
	assert.False(t, account.ComparePassword("x"))
}

func TestToModelRejectsUnhashedOrMissingPassword(t *testing.T) {
	_, err := (&Account{Identity: NewCredentials("pending")}).toModel()
	require.Error(t, err)

	_, err = (&Account{Identity: &Credentials{}}).toModel()
	require.Error(t, err)

	_, err = (&Account{Identity: Federated{AuthProvider: enums.AuthProviderCredentials, ProviderID: "x"}}).toModel()
	require.Error(t, err)

	_, err = (&Account{Identity: Federated{AuthProvider: enums.AuthProviderFirebase}}).toModel()
	require.Error(t, err)
}

func TestAccountModelRoundTripKeepsHash(t *testing.T) {
	hash := "$argon2id$v=19$m=64,t=1,p=1$c2FsdHNhbHRzYWx0c2FsdA$a2V5a2V5a2V5a2V5a2V5a2V5a2V5a2V5a2V5a2V5"
	user := &models.User{
		ID:           uuid.New(),
		Username:     "sam",
		Email:        "sam@example.com",
		PasswordHash: &hash,
		AuthProvider: enums.AuthProviderCredentials,
		IsVegan:      true,
		Allergies:    []string{"peanuts"},
		Role:         enums.UserRoleAdmin,
	}

	account, err := accountFromModel(user)
	require.NoError(t, err)
	assert.True(t, account.Preferences.IsVegan)
	assert.Equal(t, enums.UserRoleAdmin, account.Role)

	back, err := account.toModel()
	require.NoError(t, err)
	require.NotNil(t, back.PasswordHash)
	assert.Equal(t, hash, *back.PasswordHash)
	assert.Equal(t, []string{"peanuts"}, []string(back.Allergies))
}

func TestAccountFromModelRejectsUnknownProvider(t *testing.T) {
	_, err := accountFromModel(&models.User{AuthProvider: enums.AuthProvider("saml")})
	require.Error(t, err)
}

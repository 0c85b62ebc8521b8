package enums

import "fmt"

// AuthProvider identifies where an account's identity is verified.
type AuthProvider string

const (
	AuthProviderCredentials AuthProvider = "credentials"
	AuthProviderGoogle      AuthProvider = "google"
	AuthProviderFirebase    AuthProvider = "firebase"
)

var validAuthProviders = []AuthProvider{
	AuthProviderCredentials,
	AuthProviderGoogle,
	AuthProviderFirebase,
}

func (p AuthProvider) String() string {
	return string(p)
}

func (p AuthProvider) IsValid() bool {
	for _, candidate := range validAuthProviders {
		if candidate == p {
			return true
		}
	}
	return false
}

// IsFederated reports whether the provider verifies identity externally.
func (p AuthProvider) IsFederated() bool {
	return p == AuthProviderGoogle || p == AuthProviderFirebase
}

func ParseAuthProvider(value string) (AuthProvider, error) {
	for _, candidate := range validAuthProviders {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid auth provider %q", value)
}

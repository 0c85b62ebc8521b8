package gcs

import (
	"context"
	"crypto/rsa"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/eatwise/eatwise-backend/pkg/config"
	"github.com/golang-jwt/jwt/v5"
)

const (
	defaultTokenURI  = "https://oauth2.googleapis.com/token"
	metadataTokenURL = "http://metadata.google.internal/computeMetadata/v1/instance/service-accounts/default/token"
	storageScope     = "https://www.googleapis.com/auth/devstorage.read_write"
	tokenRefreshSkew = time.Minute
)

type tokenFetcher func(context.Context) (string, time.Time, error)

// tokenSource caches one bearer token and refreshes it shortly before expiry.
type tokenSource struct {
	mu     sync.Mutex
	token  string
	expiry time.Time
	fetch  tokenFetcher
}

func (t *tokenSource) Token(ctx context.Context) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.token != "" && time.Until(t.expiry) > tokenRefreshSkew {
		return t.token, nil
	}

	token, expiry, err := t.fetch(ctx)
	if err != nil {
		return "", err
	}
	t.token, t.expiry = token, expiry
	return token, nil
}

// resolveTokenSource picks inline JSON credentials, then a credentials file,
// then the GCE metadata server.
func resolveTokenSource(httpClient *http.Client, gcp config.GCPConfig) (*tokenSource, error) {
	raw := strings.TrimSpace(gcp.CredentialsJSON)
	if raw == "" && gcp.ApplicationCredentials != "" {
		b, err := os.ReadFile(gcp.ApplicationCredentials)
		if err != nil {
			return nil, fmt.Errorf("reading credentials file: %w", err)
		}
		raw = string(b)
	}
	if raw == "" {
		return &tokenSource{fetch: metadataFetcher(httpClient)}, nil
	}

	acct, err := parseServiceAccount(raw)
	if err != nil {
		return nil, err
	}
	return &tokenSource{fetch: acct.fetcher(httpClient)}, nil
}

type serviceAccount struct {
	email    string
	tokenURI string
	key      *rsa.PrivateKey
}

func parseServiceAccount(raw string) (*serviceAccount, error) {
	var creds struct {
		ClientEmail string `json:"client_email"`
		PrivateKey  string `json:"private_key"`
		TokenURI    string `json:"token_uri"`
	}
	if err := json.Unmarshal([]byte(raw), &creds); err != nil {
		return nil, fmt.Errorf("parsing service account credentials: %w", err)
	}
	if creds.ClientEmail == "" || creds.PrivateKey == "" {
		return nil, errors.New("service account credentials missing client_email or private_key")
	}

	key, err := parsePrivateKey(creds.PrivateKey)
	if err != nil {
		return nil, err
	}
	acct := &serviceAccount{email: creds.ClientEmail, tokenURI: creds.TokenURI, key: key}
	if acct.tokenURI == "" {
		acct.tokenURI = defaultTokenURI
	}
	return acct, nil
}

// parsePrivateKey accepts PKCS#1 and PKCS#8 PEM blocks.
func parsePrivateKey(pemData string) (*rsa.PrivateKey, error) {
	key, err := jwt.ParseRSAPrivateKeyFromPEM([]byte(pemData))
	if err != nil {
		return nil, fmt.Errorf("parsing service account key: %w", err)
	}
	return key, nil
}

// assertion builds the signed JWT exchanged for an access token.
func (a *serviceAccount) assertion(now time.Time) (string, error) {
	claims := jwt.MapClaims{
		"iss":   a.email,
		"scope": storageScope,
		"aud":   a.tokenURI,
		"iat":   now.Unix(),
		"exp":   now.Add(time.Hour).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(a.key)
}

func (a *serviceAccount) fetcher(httpClient *http.Client) tokenFetcher {
	return func(ctx context.Context) (string, time.Time, error) {
		signed, err := a.assertion(time.Now())
		if err != nil {
			return "", time.Time{}, fmt.Errorf("signing token assertion: %w", err)
		}
		form := url.Values{
			"grant_type": {"urn:ietf:params:oauth:grant-type:jwt-bearer"},
			"assertion":  {signed},
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.tokenURI, strings.NewReader(form.Encode()))
		if err != nil {
			return "", time.Time{}, err
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		return exchangeToken(httpClient, req)
	}
}

func metadataFetcher(httpClient *http.Client) tokenFetcher {
	return func(ctx context.Context) (string, time.Time, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, metadataTokenURL, nil)
		if err != nil {
			return "", time.Time{}, err
		}
		req.Header.Set("Metadata-Flavor", "Google")
		return exchangeToken(httpClient, req)
	}
}

func exchangeToken(httpClient *http.Client, req *http.Request) (string, time.Time, error) {
	resp, err := httpClient.Do(req)
	if err != nil {
		return "", time.Time{}, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", time.Time{}, statusError("token request failed", resp)
	}

	var body struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int64  `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", time.Time{}, fmt.Errorf("decoding token response: %w", err)
	}
	if body.AccessToken == "" {
		return "", time.Time{}, errors.New("token response carried no access_token")
	}
	return body.AccessToken, time.Now().Add(time.Duration(body.ExpiresIn) * time.Second), nil
}

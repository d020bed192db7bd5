package github

import (
	"context"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/hv-doan/prbridge/src/pkg/config"
)

// AppTokenSource mints GitHub App installation tokens. Installation
// tokens live for an hour; minted ones are kept until shortly before
// expiry so repeated calls stay cheap.
type AppTokenSource struct {
	app        config.AppConfig
	endpoint   string
	httpClient *http.Client
	cache      tokenCache
}

// NewAppTokenSource creates a token source from App credentials.
func NewAppTokenSource(cfg *config.Config) *AppTokenSource {
	return &AppTokenSource{
		app:        cfg.GitHub.App,
		endpoint:   strings.TrimSuffix(cfg.GitHub.APIEndpoint, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// Token returns a valid installation token, minting one if needed.
func (s *AppTokenSource) Token(ctx context.Context) (string, error) {
	if t, ok := s.cache.Get(); ok {
		return t, nil
	}

	signed, err := s.createJWT()
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/app/installations/%s/access_tokens", s.endpoint, s.app.InstallationID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create token request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+signed)
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to request installation token: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("GitHub API returned status %d: %s", resp.StatusCode, string(body))
	}

	var tokenData struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tokenData); err != nil {
		return "", fmt.Errorf("failed to decode token response: %w", err)
	}
	if tokenData.Token == "" {
		return "", fmt.Errorf("empty installation token")
	}

	s.cache.Set(tokenData.Token, 50*time.Minute)

	logger.WithField("installation", s.app.InstallationID).Info("Minted installation token")
	return tokenData.Token, nil
}

// createJWT signs the short-lived App JWT that GitHub exchanges for an
// installation token. Issued a minute in the past to absorb clock skew.
func (s *AppTokenSource) createJWT() (string, error) {
	key, err := loadPrivateKey(s.app.PrivateKeyPath)
	if err != nil {
		return "", err
	}

	now := time.Now()
	claims := jwt.RegisteredClaims{
		IssuedAt:  jwt.NewNumericDate(now.Add(-1 * time.Minute)),
		ExpiresAt: jwt.NewNumericDate(now.Add(9 * time.Minute)),
		Issuer:    s.app.ID,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	return token.SignedString(key)
}

func loadPrivateKey(path string) (*rsa.PrivateKey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read private key: %w", err)
	}

	block, _ := pem.Decode(data)
	if block == nil {
		return nil, fmt.Errorf("no PEM block in %s", path)
	}

	if key, err := x509.ParsePKCS1PrivateKey(block.Bytes); err == nil {
		return key, nil
	}

	parsed, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}
	key, ok := parsed.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("private key is not RSA")
	}
	return key, nil
}

// tokenCache guards the cached installation token.
type tokenCache struct {
	mu    sync.Mutex
	token string
	exp   time.Time
}

func (t *tokenCache) Get() (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if time.Now().Before(t.exp) {
		return t.token, true
	}
	return "", false
}

func (t *tokenCache) Set(token string, ttl time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.token = token
	t.exp = time.Now().Add(ttl)
}

package github

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/golang-jwt/jwt/v4"

	"github.com/hv-doan/prbridge/src/pkg/config"
)

// writeTestKey generates an RSA key and writes it as PKCS1 PEM,
// returning the path and the key for signature verification
func writeTestKey(t *testing.T) (string, *rsa.PrivateKey) {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("failed to generate key: %v", err)
	}

	path := filepath.Join(t.TempDir(), "app.pem")
	data := pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	})
	if err := os.WriteFile(path, data, 0600); err != nil {
		t.Fatalf("failed to write key: %v", err)
	}
	return path, key
}

func appConfig(endpoint, keyPath string) *config.Config {
	cfg := config.DefaultConfig()
	cfg.GitHub.APIEndpoint = endpoint
	cfg.GitHub.App = config.AppConfig{
		ID:             "12345",
		InstallationID: "77",
		PrivateKeyPath: keyPath,
	}
	return cfg
}

// TestAppTokenSource_Token tests minting, the app JWT claims, and that
// a second call is served from cache
func TestAppTokenSource_Token(t *testing.T) {
	keyPath, key := writeTestKey(t)

	var requests int
	var bearer string
	mux := http.NewServeMux()
	mux.HandleFunc("/app/installations/77/access_tokens", func(w http.ResponseWriter, r *http.Request) {
		requests++
		bearer = strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"token": "ghs_installation", "expires_at": "2099-01-01T00:00:00Z"}`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	source := NewAppTokenSource(appConfig(srv.URL, keyPath))

	token, err := source.Token(context.Background())
	if err != nil {
		t.Fatalf("Token() error = %v", err)
	}
	if token != "ghs_installation" {
		t.Errorf("Token() = %v, want ghs_installation", token)
	}

	// The app JWT must verify against the key and carry the app ID
	claims := &jwt.RegisteredClaims{}
	if _, err := jwt.ParseWithClaims(bearer, claims, func(tk *jwt.Token) (interface{}, error) {
		return &key.PublicKey, nil
	}); err != nil {
		t.Fatalf("failed to verify app JWT: %v", err)
	}
	if claims.Issuer != "12345" {
		t.Errorf("JWT issuer = %v, want 12345", claims.Issuer)
	}

	if _, err := source.Token(context.Background()); err != nil {
		t.Fatalf("Token() second call error = %v", err)
	}
	if requests != 1 {
		t.Errorf("made %d token requests, want 1 (second call cached)", requests)
	}
}

func TestAppTokenSource_Token_Errors(t *testing.T) {
	t.Run("api failure", func(t *testing.T) {
		keyPath, _ := writeTestKey(t)

		mux := http.NewServeMux()
		mux.HandleFunc("/app/installations/77/access_tokens", func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"message": "Bad credentials"}`, http.StatusUnauthorized)
		})
		srv := httptest.NewServer(mux)
		defer srv.Close()

		if _, err := NewAppTokenSource(appConfig(srv.URL, keyPath)).Token(context.Background()); err == nil {
			t.Fatal("Token() error = nil, want error")
		}
	})

	t.Run("empty token in response", func(t *testing.T) {
		keyPath, _ := writeTestKey(t)

		mux := http.NewServeMux()
		mux.HandleFunc("/app/installations/77/access_tokens", func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"token": ""}`)
		})
		srv := httptest.NewServer(mux)
		defer srv.Close()

		if _, err := NewAppTokenSource(appConfig(srv.URL, keyPath)).Token(context.Background()); err == nil {
			t.Fatal("Token() error = nil, want error")
		}
	})

	t.Run("missing key file", func(t *testing.T) {
		cfg := appConfig("http://127.0.0.1:1", filepath.Join(t.TempDir(), "missing.pem"))
		if _, err := NewAppTokenSource(cfg).Token(context.Background()); err == nil {
			t.Fatal("Token() error = nil, want error")
		}
	})
}

// TestLoadPrivateKey tests both PEM encodings the loader accepts
func TestLoadPrivateKey(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("failed to generate key: %v", err)
	}

	t.Run("pkcs1", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "pkcs1.pem")
		data := pem.EncodeToMemory(&pem.Block{
			Type:  "RSA PRIVATE KEY",
			Bytes: x509.MarshalPKCS1PrivateKey(key),
		})
		if err := os.WriteFile(path, data, 0600); err != nil {
			t.Fatalf("failed to write key: %v", err)
		}

		if _, err := loadPrivateKey(path); err != nil {
			t.Errorf("loadPrivateKey() error = %v", err)
		}
	})

	t.Run("pkcs8", func(t *testing.T) {
		der, err := x509.MarshalPKCS8PrivateKey(key)
		if err != nil {
			t.Fatalf("failed to marshal key: %v", err)
		}
		path := filepath.Join(t.TempDir(), "pkcs8.pem")
		data := pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der})
		if err := os.WriteFile(path, data, 0600); err != nil {
			t.Fatalf("failed to write key: %v", err)
		}

		if _, err := loadPrivateKey(path); err != nil {
			t.Errorf("loadPrivateKey() error = %v", err)
		}
	})

	t.Run("not pem", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "garbage.pem")
		if err := os.WriteFile(path, []byte("not a key"), 0600); err != nil {
			t.Fatalf("failed to write file: %v", err)
		}

		if _, err := loadPrivateKey(path); err == nil {
			t.Error("loadPrivateKey() error = nil, want error")
		}
	})
}

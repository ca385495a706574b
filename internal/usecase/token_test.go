package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/akhilbawari/ai-helpdesk-portal/internal/core/domain"
	"github.com/akhilbawari/ai-helpdesk-portal/internal/infra/config"
	"github.com/akhilbawari/ai-helpdesk-portal/internal/infra/security"
	"github.com/akhilbawari/ai-helpdesk-portal/internal/repository"
)

func testConfig() *config.AppConfig {
	return &config.AppConfig{
		App: config.AppSettings{Name: "helpdesk-portal"},
		JWT: config.JWTSettings{AccessTokenTTL: 15 * time.Minute},
	}
}

func testUser() domain.User {
	return domain.User{
		ID:           "user-1",
		Email:        "dana@example.com",
		FullName:     "Dana Smith",
		PasswordHash: "argon2id$c2FsdA$aGFzaA",
		Role:         domain.RoleSupport,
		AuthProvider: domain.AuthProviderLocal,
	}
}

func TestTokenServiceIssueAndParse(t *testing.T) {
	provider := generateKeyProvider(t)
	service := NewTokenService(testConfig(), provider, &stubUserRepo{}, nil)

	user := testUser()
	token, expiresAt, err := service.Issue(user)
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}
	if token == "" {
		t.Fatalf("expected non-empty token")
	}
	if !expiresAt.After(time.Now()) {
		t.Fatalf("expected future expiry, got %v", expiresAt)
	}

	claims, err := service.Parse(token)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if claims.UserID != user.ID {
		t.Fatalf("expected uid %s, got %s", user.ID, claims.UserID)
	}
	if claims.Role != string(domain.RoleSupport) {
		t.Fatalf("expected role SUPPORT, got %s", claims.Role)
	}
	if claims.CredentialHash != security.HashToken(user.PasswordHash) {
		t.Fatalf("expected credential fingerprint to match stored hash")
	}
}

func TestTokenServiceParseExpired(t *testing.T) {
	provider := generateKeyProvider(t)
	service := NewTokenService(testConfig(), provider, &stubUserRepo{}, nil)

	issuedAt := time.Now().UTC().Add(-time.Hour)
	service.WithClock(func() time.Time { return issuedAt })

	token, _, err := service.Issue(testUser())
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	service.WithClock(func() time.Time { return time.Now().UTC() })

	if _, err := service.Parse(token); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestTokenServiceParseMalformed(t *testing.T) {
	provider := generateKeyProvider(t)
	service := NewTokenService(testConfig(), provider, &stubUserRepo{}, nil)

	for _, token := range []string{"", "garbage", "a.b", "a.b.c.d"} {
		if _, err := service.Parse(token); !errors.Is(err, ErrTokenMalformed) {
			t.Fatalf("token %q: expected ErrTokenMalformed, got %v", token, err)
		}
	}
}

func TestTokenServiceParseUnsupportedAlgorithm(t *testing.T) {
	provider := generateKeyProvider(t)
	service := NewTokenService(testConfig(), provider, &stubUserRepo{}, nil)

	claims := &security.AccessTokenClaims{
		UserID: "user-1",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			Issuer:    "helpdesk-portal",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	hmacToken := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	hmacToken.Header["kid"] = provider.SigningKID()
	signed, err := hmacToken.SignedString([]byte("shared-secret"))
	if err != nil {
		t.Fatalf("sign hmac token: %v", err)
	}

	if _, err := service.Parse(signed); !errors.Is(err, ErrTokenUnsupported) {
		t.Fatalf("expected ErrTokenUnsupported, got %v", err)
	}
}

func TestTokenServiceParseBadSignature(t *testing.T) {
	provider := generateKeyProvider(t)
	service := NewTokenService(testConfig(), provider, &stubUserRepo{}, nil)

	// Same kid, different private key.
	forger := generateKeyProvider(t)
	forgerService := NewTokenService(testConfig(), forger, &stubUserRepo{}, nil)

	token, _, err := forgerService.Issue(testUser())
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	if _, err := service.Parse(token); !errors.Is(err, ErrBadSignature) {
		t.Fatalf("expected ErrBadSignature, got %v", err)
	}
}

func TestTokenServiceParseExpiredOutranksBadSignature(t *testing.T) {
	provider := generateKeyProvider(t)
	service := NewTokenService(testConfig(), provider, &stubUserRepo{}, nil)

	// Forged with a different private key but the verifier's kid, and
	// already past its expiry.
	forger := generateKeyProvider(t)
	forgerService := NewTokenService(testConfig(), forger, &stubUserRepo{}, nil)
	issuedAt := time.Now().UTC().Add(-time.Hour)
	forgerService.WithClock(func() time.Time { return issuedAt })

	token, _, err := forgerService.Issue(testUser())
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	if _, err := service.Parse(token); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired for an expired forgery, got %v", err)
	}
}

func TestTokenServiceParseMissingKID(t *testing.T) {
	provider := generateKeyProvider(t)
	service := NewTokenService(testConfig(), provider, &stubUserRepo{}, nil)

	claims := &security.AccessTokenClaims{
		UserID: "user-1",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			Issuer:    "helpdesk-portal",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	signed, err := token.SignedString(provider.private)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	if _, err := service.Parse(signed); !errors.Is(err, ErrTokenUnsupported) {
		t.Fatalf("expected ErrTokenUnsupported without a kid header, got %v", err)
	}
}

func TestTokenServiceParseUnknownKID(t *testing.T) {
	provider := generateKeyProvider(t)
	service := NewTokenService(testConfig(), provider, &stubUserRepo{}, nil)

	other := generateKeyProvider(t)
	other.kid = "rotated-away"
	otherService := NewTokenService(testConfig(), other, &stubUserRepo{}, nil)

	token, _, err := otherService.Issue(testUser())
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	if _, err := service.Parse(token); !errors.Is(err, ErrBadSignature) {
		t.Fatalf("expected ErrBadSignature, got %v", err)
	}
}

func TestTokenServiceParseEmptyClaims(t *testing.T) {
	provider := generateKeyProvider(t)
	service := NewTokenService(testConfig(), provider, &stubUserRepo{}, nil)

	claims := &security.AccessTokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "helpdesk-portal",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	token.Header["kid"] = provider.SigningKID()
	signed, err := token.SignedString(provider.private)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	if _, err := service.Parse(signed); !errors.Is(err, ErrEmptyClaims) {
		t.Fatalf("expected ErrEmptyClaims, got %v", err)
	}
}

func TestTokenServiceResolvePrincipal(t *testing.T) {
	provider := generateKeyProvider(t)
	user := testUser()
	users := &stubUserRepo{
		getByIDFn: func(_ context.Context, id string) (*domain.User, error) {
			if id != user.ID {
				return nil, repository.ErrNotFound
			}
			copied := user
			return &copied, nil
		},
	}
	service := NewTokenService(testConfig(), provider, users, nil)

	token, _, err := service.Issue(user)
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}
	claims, err := service.Parse(token)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}

	principal, err := service.ResolvePrincipal(context.Background(), claims)
	if err != nil {
		t.Fatalf("ResolvePrincipal returned error: %v", err)
	}
	if principal.ID != user.ID {
		t.Fatalf("expected principal %s, got %s", user.ID, principal.ID)
	}
	if principal.Permission() != "ROLE_SUPPORT" {
		t.Fatalf("expected permission ROLE_SUPPORT, got %s", principal.Permission())
	}
}

func TestTokenServiceResolvePrincipalUnknownUser(t *testing.T) {
	provider := generateKeyProvider(t)
	service := NewTokenService(testConfig(), provider, &stubUserRepo{}, nil)

	token, _, err := service.Issue(testUser())
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}
	claims, err := service.Parse(token)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}

	if _, err := service.ResolvePrincipal(context.Background(), claims); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestTokenServiceResolvePrincipalAfterPasswordChange(t *testing.T) {
	provider := generateKeyProvider(t)
	user := testUser()
	users := &stubUserRepo{
		getByIDFn: func(_ context.Context, _ string) (*domain.User, error) {
			rotated := user
			rotated.PasswordHash = "argon2id$bmV3$bmV3aGFzaA"
			return &rotated, nil
		},
	}
	service := NewTokenService(testConfig(), provider, users, nil)

	token, _, err := service.Issue(user)
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}
	claims, err := service.Parse(token)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}

	if _, err := service.ResolvePrincipal(context.Background(), claims); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials after credential rotation, got %v", err)
	}
}

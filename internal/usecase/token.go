package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/akhilbawari/ai-helpdesk-portal/internal/core/domain"
	"github.com/akhilbawari/ai-helpdesk-portal/internal/core/port"
	"github.com/akhilbawari/ai-helpdesk-portal/internal/infra/config"
	"github.com/akhilbawari/ai-helpdesk-portal/internal/infra/security"
	"github.com/akhilbawari/ai-helpdesk-portal/internal/repository"
)

// TokenService issues and validates signed access tokens. Validation
// failures are distinguished so the HTTP boundary can report the exact
// reason a token was rejected.
type TokenService struct {
	cfg    *config.AppConfig
	keys   security.KeyProvider
	users  port.UserRepository
	logger *zap.Logger
	now    func() time.Time
}

// NewTokenService constructs a TokenService instance.
func NewTokenService(
	cfg *config.AppConfig,
	keyProvider security.KeyProvider,
	users port.UserRepository,
	logger *zap.Logger,
) *TokenService {
	if logger == nil {
		logger = zap.NewNop()
	}

	service := &TokenService{
		cfg:    cfg,
		keys:   keyProvider,
		users:  users,
		logger: logger,
	}
	service.now = func() time.Time { return time.Now().UTC() }
	return service
}

// WithClock overrides the service clock for deterministic tests.
func (s *TokenService) WithClock(clock func() time.Time) {
	if clock != nil {
		s.now = clock
	}
}

// Issue mints a signed access token for the user. The token embeds a
// fingerprint of the current credential state so a password change
// invalidates previously issued tokens.
func (s *TokenService) Issue(user domain.User) (string, time.Time, error) {
	claims, err := security.NewAccessTokenClaims(security.AccessTokenOptions{
		UserID:         user.ID,
		Role:           string(user.Role),
		CredentialHash: credentialFingerprint(user.PasswordHash),
		Issuer:         s.resolveIssuer(),
		TTL:            s.accessTokenTTL(),
		IssuedAt:       s.now(),
	})
	if err != nil {
		return "", time.Time{}, fmt.Errorf("build access token claims: %w", err)
	}

	signed, err := security.SignAccessToken(s.keys, claims)
	if err != nil {
		return "", time.Time{}, err
	}

	return signed, claims.ExpiresAt.Time, nil
}

// Parse validates a compact token string and returns its claims. The
// returned error is always one of the sentinel token errors.
func (s *TokenService) Parse(token string) (*security.AccessTokenClaims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrTokenMalformed
	}
	if s.keys == nil {
		return nil, ErrBadSignature
	}

	claims := &security.AccessTokenClaims{}

	parserOptions := []jwt.ParserOption{}
	if s.now != nil {
		parserOptions = append(parserOptions, jwt.WithTimeFunc(s.now))
	}
	if issuer := s.resolveIssuer(); issuer != "" {
		parserOptions = append(parserOptions, jwt.WithIssuer(issuer))
	}

	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("%w: alg %v", errUnsupportedAlg, t.Header["alg"])
		}

		kid, _ := t.Header["kid"].(string)
		kid = strings.TrimSpace(kid)
		if kid == "" {
			return nil, fmt.Errorf("%w: kid header not found", errUnsupportedAlg)
		}

		return s.keys.GetVerificationKey(kid)
	}, parserOptions...)
	if err != nil {
		kind := classifyTokenError(err)
		if errors.Is(kind, ErrBadSignature) && s.expiredUnverified(token) {
			return nil, ErrTokenExpired
		}
		return nil, kind
	}

	if parsed == nil || !parsed.Valid {
		return nil, ErrBadSignature
	}

	if strings.TrimSpace(claims.UserID) == "" && strings.TrimSpace(claims.Subject) == "" {
		return nil, ErrEmptyClaims
	}

	return claims, nil
}

// ResolvePrincipal loads the user named by the claims and builds the
// request principal. A token minted before the user's credentials
// changed is rejected as invalid.
func (s *TokenService) ResolvePrincipal(ctx context.Context, claims *security.AccessTokenClaims) (domain.Principal, error) {
	if claims == nil {
		return domain.Principal{}, ErrEmptyClaims
	}

	subject := strings.TrimSpace(claims.UserID)
	if subject == "" {
		subject = strings.TrimSpace(claims.Subject)
	}
	if subject == "" {
		return domain.Principal{}, ErrEmptyClaims
	}

	user, err := s.users.GetByID(ctx, subject)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Principal{}, ErrInvalidCredentials
		}
		return domain.Principal{}, fmt.Errorf("get user: %w", err)
	}

	if claims.CredentialHash != credentialFingerprint(user.PasswordHash) {
		return domain.Principal{}, ErrInvalidCredentials
	}

	return domain.NewPrincipal(*user), nil
}

// expiredUnverified reads the exp claim without verifying the
// signature. Expiry outranks signature failures: a stale token reports
// as expired even when its signature does not check out.
func (s *TokenService) expiredUnverified(token string) bool {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	return claims.ExpiresAt != nil && claims.ExpiresAt.Time.Before(s.now())
}

// errUnsupportedAlg marks keyfunc rejections of non-RSA tokens so they
// survive the parser's error wrapping.
var errUnsupportedAlg = errors.New("unsupported signing method")

func classifyTokenError(err error) error {
	switch {
	case errors.Is(err, errUnsupportedAlg):
		return ErrTokenUnsupported
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenMalformed):
		return ErrTokenMalformed
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return ErrBadSignature
	default:
		return ErrTokenMalformed
	}
}

func credentialFingerprint(passwordHash string) string {
	if passwordHash == "" {
		return ""
	}
	return security.HashToken(passwordHash)
}

func (s *TokenService) resolveIssuer() string {
	if s.cfg == nil {
		return ""
	}
	return strings.TrimSpace(s.cfg.App.Name)
}

func (s *TokenService) accessTokenTTL() time.Duration {
	if s.cfg != nil && s.cfg.JWT.AccessTokenTTL > 0 {
		return s.cfg.JWT.AccessTokenTTL
	}
	return 15 * time.Minute
}

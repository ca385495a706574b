package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	uuid "github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/akhilbawari/ai-helpdesk-portal/internal/core/domain"
	"github.com/akhilbawari/ai-helpdesk-portal/internal/core/port"
	"github.com/akhilbawari/ai-helpdesk-portal/internal/infra/cache"
	"github.com/akhilbawari/ai-helpdesk-portal/internal/infra/logger"
	"github.com/akhilbawari/ai-helpdesk-portal/internal/repository"
)

// OAuthService drives the authorization-code callback flow. Exchange
// results are cached per code so a replayed callback (browser refresh,
// double redirect) resolves to the original outcome without a second
// round trip to the provider. Concurrent callbacks holding the same
// code collapse into a single in-flight exchange; failures are not
// cached and the next attempt retries the provider.
type OAuthService struct {
	provider port.IdentityProvider
	users    port.UserRepository
	tokens   *TokenService
	codes    *cache.CodeCache
	events   port.EventPublisher
	logger   *zap.Logger
	inflight singleflight.Group
	now      func() time.Time
}

// NewOAuthService constructs an OAuthService instance.
func NewOAuthService(
	provider port.IdentityProvider,
	users port.UserRepository,
	tokens *TokenService,
	codes *cache.CodeCache,
	events port.EventPublisher,
	log *zap.Logger,
) *OAuthService {
	if log == nil {
		log = zap.NewNop()
	}

	service := &OAuthService{
		provider: provider,
		users:    users,
		tokens:   tokens,
		codes:    codes,
		events:   events,
		logger:   log,
	}
	service.now = func() time.Time { return time.Now().UTC() }
	return service
}

// WithClock overrides the service clock for deterministic tests.
func (s *OAuthService) WithClock(clock func() time.Time) {
	if clock != nil {
		s.now = clock
	}
}

// AuthorizationURL returns the provider consent page URL for the given
// anti-forgery state.
func (s *OAuthService) AuthorizationURL(state string) string {
	return s.provider.AuthorizationURL(state)
}

// HandleCallback exchanges an authorization code for a local session.
func (s *OAuthService) HandleCallback(ctx context.Context, code string) (*domain.AuthResult, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, ErrIdentityProvider
	}

	if s.codes != nil {
		if cached, ok := s.codes.Get(code); ok {
			return &cached, nil
		}
	}

	value, err, _ := s.inflight.Do(code, func() (any, error) {
		if s.codes != nil {
			if cached, ok := s.codes.Get(code); ok {
				return &cached, nil
			}
		}

		result, err := s.exchange(ctx, code)
		if err != nil {
			return nil, err
		}

		if s.codes != nil {
			s.codes.Put(code, *result)
		}
		return result, nil
	})
	if err != nil {
		return nil, err
	}

	return value.(*domain.AuthResult), nil
}

func (s *OAuthService) exchange(ctx context.Context, code string) (*domain.AuthResult, error) {
	identity, err := s.provider.Exchange(ctx, code)
	if err != nil {
		s.logger.Warn("identity provider exchange failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrIdentityProvider, err)
	}
	if identity == nil || strings.TrimSpace(identity.Subject) == "" || strings.TrimSpace(identity.Email) == "" {
		return nil, ErrIdentityProvider
	}

	user, err := s.resolveUser(ctx, identity)
	if err != nil {
		return nil, err
	}

	token, expiresAt, err := s.tokens.Issue(*user)
	if err != nil {
		return nil, fmt.Errorf("issue access token: %w", err)
	}

	s.publishLoggedIn(ctx, *user)

	return &domain.AuthResult{
		AccessToken: token,
		ExpiresAt:   expiresAt,
		User:        *user,
	}, nil
}

// resolveUser upserts the account behind an external identity. A brand
// new email creates an EMPLOYEE account; an existing Google account has
// its profile refreshed; an email already registered locally is
// rejected instead of being silently linked.
func (s *OAuthService) resolveUser(ctx context.Context, identity *domain.ExternalIdentity) (*domain.User, error) {
	email := strings.ToLower(strings.TrimSpace(identity.Email))

	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("get user by email: %w", err)
	}

	if existing != nil {
		if existing.AuthProvider != domain.AuthProviderGoogle {
			return nil, ErrAuthMethodMismatch
		}
		return s.refreshProfile(ctx, existing, identity)
	}

	now := s.now()
	subject := strings.TrimSpace(identity.Subject)
	user := domain.User{
		ID:            uuid.NewString(),
		Email:         email,
		FullName:      strings.TrimSpace(identity.FullName),
		Role:          domain.RoleEmployee,
		AuthProvider:  domain.AuthProviderGoogle,
		ProviderID:    &subject,
		EmailVerified: identity.EmailVerified,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if picture := strings.TrimSpace(identity.PictureURL); picture != "" {
		user.ProfilePicture = &picture
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.publishRegistered(ctx, user)

	s.logger.Info("oauth user registered",
		zap.String("user_id", user.ID),
		zap.String("email", logger.MaskEmail(user.Email)),
	)

	return &user, nil
}

func (s *OAuthService) refreshProfile(ctx context.Context, user *domain.User, identity *domain.ExternalIdentity) (*domain.User, error) {
	changed := false

	if name := strings.TrimSpace(identity.FullName); name != "" && name != user.FullName {
		user.FullName = name
		changed = true
	}
	if picture := strings.TrimSpace(identity.PictureURL); picture != "" {
		if user.ProfilePicture == nil || *user.ProfilePicture != picture {
			user.ProfilePicture = &picture
			changed = true
		}
	}
	if identity.EmailVerified && !user.EmailVerified {
		user.EmailVerified = true
		changed = true
	}

	if changed {
		user.UpdatedAt = s.now()
		if err := s.users.Update(ctx, *user); err != nil {
			return nil, fmt.Errorf("update user: %w", err)
		}
	}

	return user, nil
}

func (s *OAuthService) publishRegistered(ctx context.Context, user domain.User) {
	if s.events == nil {
		return
	}
	event := domain.UserRegisteredEvent{
		UserID:       user.ID,
		Email:        user.Email,
		Role:         user.Role,
		AuthProvider: user.AuthProvider,
		RegisteredAt: user.CreatedAt,
	}
	if err := s.events.PublishUserRegistered(ctx, event); err != nil {
		s.logger.Warn("publish user registered failed", zap.Error(err))
	}
}

func (s *OAuthService) publishLoggedIn(ctx context.Context, user domain.User) {
	if s.events == nil {
		return
	}
	event := domain.UserLoggedInEvent{
		UserID:       user.ID,
		Email:        user.Email,
		AuthProvider: user.AuthProvider,
		LoggedInAt:   s.now(),
	}
	if err := s.events.PublishUserLoggedIn(ctx, event); err != nil {
		s.logger.Warn("publish user logged in failed", zap.Error(err))
	}
}

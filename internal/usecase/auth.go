package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	uuid "github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/akhilbawari/ai-helpdesk-portal/internal/core/domain"
	"github.com/akhilbawari/ai-helpdesk-portal/internal/core/port"
	"github.com/akhilbawari/ai-helpdesk-portal/internal/infra/logger"
	"github.com/akhilbawari/ai-helpdesk-portal/internal/infra/security"
	"github.com/akhilbawari/ai-helpdesk-portal/internal/repository"
)

// RegisterInput carries the fields accepted at registration time.
type RegisterInput struct {
	Email      string
	Password   string
	FullName   string
	Department string
}

// AuthService handles local registration and login.
type AuthService struct {
	users     port.UserRepository
	tokens    *TokenService
	validator *security.PasswordValidator
	events    port.EventPublisher
	logger    *zap.Logger
	now       func() time.Time
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(
	users port.UserRepository,
	tokens *TokenService,
	validator *security.PasswordValidator,
	events port.EventPublisher,
	log *zap.Logger,
) *AuthService {
	if log == nil {
		log = zap.NewNop()
	}
	if validator == nil {
		validator = security.DefaultPasswordValidator()
	}

	service := &AuthService{
		users:     users,
		tokens:    tokens,
		validator: validator,
		events:    events,
		logger:    log,
	}
	service.now = func() time.Time { return time.Now().UTC() }
	return service
}

// WithClock overrides the service clock for deterministic tests.
func (s *AuthService) WithClock(clock func() time.Time) {
	if clock != nil {
		s.now = clock
	}
}

// Register creates a local account and returns a signed token for it.
// New accounts always start with the EMPLOYEE role.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*domain.AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" {
		return nil, fmt.Errorf("email is required")
	}
	fullName := strings.TrimSpace(input.FullName)
	if fullName == "" {
		return nil, fmt.Errorf("full name is required")
	}

	if err := s.validator.Validate(input.Password); err != nil {
		return nil, err
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("check existing email: %w", err)
	}

	passwordHash, err := security.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := s.now()
	user := domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		FullName:     fullName,
		PasswordHash: passwordHash,
		Role:         domain.RoleEmployee,
		AuthProvider: domain.AuthProviderLocal,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if dept := strings.TrimSpace(input.Department); dept != "" {
		user.Department = &dept
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.publishRegistered(ctx, user)

	result, err := s.issueFor(user)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user registered",
		zap.String("user_id", user.ID),
		zap.String("email", logger.MaskEmail(user.Email)),
	)

	return result, nil
}

// Login verifies a local credential pair and returns a signed token.
// Unknown email and wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}

	if user.AuthProvider != domain.AuthProviderLocal {
		return nil, ErrAuthMethodMismatch
	}

	ok, err := security.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}

	result, err := s.issueFor(*user)
	if err != nil {
		return nil, err
	}

	s.publishLoggedIn(ctx, *user)

	s.logger.Info("user logged in",
		zap.String("user_id", user.ID),
		zap.String("email", logger.MaskEmail(user.Email)),
	)

	return result, nil
}

func (s *AuthService) issueFor(user domain.User) (*domain.AuthResult, error) {
	token, expiresAt, err := s.tokens.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("issue access token: %w", err)
	}

	return &domain.AuthResult{
		AccessToken: token,
		ExpiresAt:   expiresAt,
		User:        user,
	}, nil
}

func (s *AuthService) publishRegistered(ctx context.Context, user domain.User) {
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

func (s *AuthService) publishLoggedIn(ctx context.Context, user domain.User) {
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

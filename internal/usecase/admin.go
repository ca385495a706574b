package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/akhilbawari/ai-helpdesk-portal/internal/core/domain"
	"github.com/akhilbawari/ai-helpdesk-portal/internal/core/port"
	"github.com/akhilbawari/ai-helpdesk-portal/internal/infra/logger"
)

// AdminService backs the staff-management endpoints. Self-service
// sign-up only ever creates EMPLOYEE accounts; promotion to SUPPORT or
// ADMIN happens here.
type AdminService struct {
	users  port.UserRepository
	logger *zap.Logger
	now    func() time.Time
}

// NewAdminService constructs an AdminService instance.
func NewAdminService(users port.UserRepository, log *zap.Logger) *AdminService {
	if log == nil {
		log = zap.NewNop()
	}

	service := &AdminService{
		users:  users,
		logger: log,
	}
	service.now = func() time.Time { return time.Now().UTC() }
	return service
}

// ListUsers returns the full user directory.
func (s *AdminService) ListUsers(ctx context.Context) ([]domain.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// ChangeRole assigns a user a new role. The value must name a member
// of the closed role set; nothing is inferred from partial matches.
func (s *AdminService) ChangeRole(ctx context.Context, userID, value string) (*domain.User, error) {
	role := domain.Role(strings.ToUpper(strings.TrimSpace(value)))
	switch role {
	case domain.RoleEmployee, domain.RoleSupport, domain.RoleAdmin:
	default:
		return nil, ErrUnknownRole
	}

	user, err := s.users.GetByID(ctx, strings.TrimSpace(userID))
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	if user.Role == role {
		return user, nil
	}

	user.Role = role
	user.UpdatedAt = s.now()
	if err := s.users.Update(ctx, *user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}

	s.logger.Info("user role changed",
		zap.String("user_id", user.ID),
		zap.String("email", logger.MaskEmail(user.Email)),
		zap.String("role", string(role)),
	)

	return user, nil
}

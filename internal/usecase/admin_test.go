package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/akhilbawari/ai-helpdesk-portal/internal/core/domain"
	"github.com/akhilbawari/ai-helpdesk-portal/internal/repository"
)

func TestAdminServiceChangeRole(t *testing.T) {
	user := testUser()
	user.Role = domain.RoleEmployee

	var updated *domain.User
	users := &stubUserRepo{
		getByIDFn: func(_ context.Context, id string) (*domain.User, error) {
			if id != user.ID {
				return nil, repository.ErrNotFound
			}
			copied := user
			return &copied, nil
		},
		updateFn: func(_ context.Context, u domain.User) error {
			updated = &u
			return nil
		},
	}

	service := NewAdminService(users, nil)
	now := time.Date(2025, 11, 2, 12, 0, 0, 0, time.UTC)
	service.now = func() time.Time { return now }

	result, err := service.ChangeRole(context.Background(), user.ID, "support")
	if err != nil {
		t.Fatalf("ChangeRole returned error: %v", err)
	}
	if result.Role != domain.RoleSupport {
		t.Fatalf("expected SUPPORT, got %s", result.Role)
	}
	if updated == nil {
		t.Fatal("expected user update")
	}
	if !updated.UpdatedAt.Equal(now) {
		t.Fatalf("expected updated_at %v, got %v", now, updated.UpdatedAt)
	}
}

func TestAdminServiceChangeRoleNoopWhenUnchanged(t *testing.T) {
	user := testUser()
	user.Role = domain.RoleSupport

	users := &stubUserRepo{
		getByIDFn: func(_ context.Context, _ string) (*domain.User, error) {
			copied := user
			return &copied, nil
		},
		// updateFn left nil: an unchanged role must not touch the store.
	}

	service := NewAdminService(users, nil)
	if _, err := service.ChangeRole(context.Background(), user.ID, "SUPPORT"); err != nil {
		t.Fatalf("ChangeRole returned error: %v", err)
	}
}

func TestAdminServiceChangeRoleRejectsUnknownRole(t *testing.T) {
	service := NewAdminService(&stubUserRepo{}, nil)

	if _, err := service.ChangeRole(context.Background(), "user-1", "ROOT"); !errors.Is(err, ErrUnknownRole) {
		t.Fatalf("expected ErrUnknownRole, got %v", err)
	}
}

func TestAdminServiceListUsers(t *testing.T) {
	users := &stubUserRepo{
		listFn: func(_ context.Context) ([]domain.User, error) {
			return []domain.User{testUser()}, nil
		},
	}

	service := NewAdminService(users, nil)
	list, err := service.ListUsers(context.Background())
	if err != nil {
		t.Fatalf("ListUsers returned error: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 user, got %d", len(list))
	}
}

package port

import (
	"context"

	"github.com/akhilbawari/ai-helpdesk-portal/internal/core/domain"
)

// UserRepository exposes persistence behavior for users. Authentication
// resolves principals by id; registration and OAuth upsert flows look
// users up by email; List backs the admin directory.
type UserRepository interface {
	Create(ctx context.Context, user domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	Update(ctx context.Context, user domain.User) error
}

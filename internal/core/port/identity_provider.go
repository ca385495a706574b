package port

import (
	"context"

	"github.com/akhilbawari/ai-helpdesk-portal/internal/core/domain"
)

// IdentityProvider exchanges a single-use authorization code against a
// third-party OAuth2 endpoint and returns the verified subject.
type IdentityProvider interface {
	Exchange(ctx context.Context, code string) (*domain.ExternalIdentity, error)
	AuthorizationURL(state string) string
}

package usecase

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"testing"

	"github.com/akhilbawari/ai-helpdesk-portal/internal/core/domain"
	"github.com/akhilbawari/ai-helpdesk-portal/internal/infra/security"
	"github.com/akhilbawari/ai-helpdesk-portal/internal/repository"
)

type staticKeyProvider struct {
	private *rsa.PrivateKey
	kid     string
}

func (s *staticKeyProvider) GetSigningKey() (*rsa.PrivateKey, error) {
	return s.private, nil
}

func (s *staticKeyProvider) SigningKID() string {
	return s.kid
}

func (s *staticKeyProvider) GetVerificationKey(kid string) (*rsa.PublicKey, error) {
	if kid != s.kid {
		return nil, security.ErrKeyNotFound
	}
	return &s.private.PublicKey, nil
}

func generateKeyProvider(t *testing.T) *staticKeyProvider {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate rsa key: %v", err)
	}

	return &staticKeyProvider{private: key, kid: "test-kid"}
}

type stubUserRepo struct {
	createFn     func(ctx context.Context, user domain.User) error
	getByIDFn    func(ctx context.Context, id string) (*domain.User, error)
	getByEmailFn func(ctx context.Context, email string) (*domain.User, error)
	listFn       func(ctx context.Context) ([]domain.User, error)
	updateFn     func(ctx context.Context, user domain.User) error
}

func (s *stubUserRepo) Create(ctx context.Context, user domain.User) error {
	if s.createFn != nil {
		return s.createFn(ctx, user)
	}
	panic("unexpected call to Create")
}

func (s *stubUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if s.getByIDFn != nil {
		return s.getByIDFn(ctx, id)
	}
	return nil, repository.ErrNotFound
}

func (s *stubUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if s.getByEmailFn != nil {
		return s.getByEmailFn(ctx, email)
	}
	return nil, repository.ErrNotFound
}

func (s *stubUserRepo) List(ctx context.Context) ([]domain.User, error) {
	if s.listFn != nil {
		return s.listFn(ctx)
	}
	panic("unexpected call to List")
}

func (s *stubUserRepo) Update(ctx context.Context, user domain.User) error {
	if s.updateFn != nil {
		return s.updateFn(ctx, user)
	}
	panic("unexpected call to Update")
}

type stubTicketRepo struct {
	createFn        func(ctx context.Context, ticket domain.Ticket) error
	getByIDFn       func(ctx context.Context, id string) (*domain.Ticket, error)
	listFn          func(ctx context.Context) ([]domain.Ticket, error)
	listByCreatorFn func(ctx context.Context, userID string) ([]domain.Ticket, error)
}

func (s *stubTicketRepo) Create(ctx context.Context, ticket domain.Ticket) error {
	if s.createFn != nil {
		return s.createFn(ctx, ticket)
	}
	panic("unexpected call to Create")
}

func (s *stubTicketRepo) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	if s.getByIDFn != nil {
		return s.getByIDFn(ctx, id)
	}
	return nil, repository.ErrNotFound
}

func (s *stubTicketRepo) List(ctx context.Context) ([]domain.Ticket, error) {
	if s.listFn != nil {
		return s.listFn(ctx)
	}
	panic("unexpected call to List")
}

func (s *stubTicketRepo) ListByCreator(ctx context.Context, userID string) ([]domain.Ticket, error) {
	if s.listByCreatorFn != nil {
		return s.listByCreatorFn(ctx, userID)
	}
	panic("unexpected call to ListByCreator")
}

type stubResponseRepo struct {
	createFn       func(ctx context.Context, response domain.TicketResponse) error
	getByIDFn      func(ctx context.Context, id string) (*domain.TicketResponse, error)
	listByTicketFn func(ctx context.Context, ticketID string) ([]domain.TicketResponse, error)
	deleteFn       func(ctx context.Context, id string) error
}

func (s *stubResponseRepo) Create(ctx context.Context, response domain.TicketResponse) error {
	if s.createFn != nil {
		return s.createFn(ctx, response)
	}
	panic("unexpected call to Create")
}

func (s *stubResponseRepo) GetByID(ctx context.Context, id string) (*domain.TicketResponse, error) {
	if s.getByIDFn != nil {
		return s.getByIDFn(ctx, id)
	}
	return nil, repository.ErrNotFound
}

func (s *stubResponseRepo) ListByTicket(ctx context.Context, ticketID string) ([]domain.TicketResponse, error) {
	if s.listByTicketFn != nil {
		return s.listByTicketFn(ctx, ticketID)
	}
	panic("unexpected call to ListByTicket")
}

func (s *stubResponseRepo) Delete(ctx context.Context, id string) error {
	if s.deleteFn != nil {
		return s.deleteFn(ctx, id)
	}
	panic("unexpected call to Delete")
}

type stubAttachmentRepo struct {
	createFn       func(ctx context.Context, attachment domain.Attachment) error
	getByIDFn      func(ctx context.Context, id string) (*domain.Attachment, error)
	listByTicketFn func(ctx context.Context, ticketID string) ([]domain.Attachment, error)
	deleteFn       func(ctx context.Context, id string) error
}

func (s *stubAttachmentRepo) Create(ctx context.Context, attachment domain.Attachment) error {
	if s.createFn != nil {
		return s.createFn(ctx, attachment)
	}
	panic("unexpected call to Create")
}

func (s *stubAttachmentRepo) GetByID(ctx context.Context, id string) (*domain.Attachment, error) {
	if s.getByIDFn != nil {
		return s.getByIDFn(ctx, id)
	}
	return nil, repository.ErrNotFound
}

func (s *stubAttachmentRepo) ListByTicket(ctx context.Context, ticketID string) ([]domain.Attachment, error) {
	if s.listByTicketFn != nil {
		return s.listByTicketFn(ctx, ticketID)
	}
	panic("unexpected call to ListByTicket")
}

func (s *stubAttachmentRepo) Delete(ctx context.Context, id string) error {
	if s.deleteFn != nil {
		return s.deleteFn(ctx, id)
	}
	panic("unexpected call to Delete")
}

type capturingPublisher struct {
	registered []domain.UserRegisteredEvent
	loggedIn   []domain.UserLoggedInEvent
}

func (p *capturingPublisher) PublishUserRegistered(_ context.Context, event domain.UserRegisteredEvent) error {
	p.registered = append(p.registered, event)
	return nil
}

func (p *capturingPublisher) PublishUserLoggedIn(_ context.Context, event domain.UserLoggedInEvent) error {
	p.loggedIn = append(p.loggedIn, event)
	return nil
}

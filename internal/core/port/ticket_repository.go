package port

import (
	"context"

	"github.com/akhilbawari/ai-helpdesk-portal/internal/core/domain"
)

// TicketRepository exposes persistence behavior for tickets.
type TicketRepository interface {
	Create(ctx context.Context, ticket domain.Ticket) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	List(ctx context.Context) ([]domain.Ticket, error)
	ListByCreator(ctx context.Context, userID string) ([]domain.Ticket, error)
}

// ResponseRepository exposes persistence behavior for ticket responses.
type ResponseRepository interface {
	Create(ctx context.Context, response domain.TicketResponse) error
	GetByID(ctx context.Context, id string) (*domain.TicketResponse, error)
	ListByTicket(ctx context.Context, ticketID string) ([]domain.TicketResponse, error)
	Delete(ctx context.Context, id string) error
}

// AttachmentRepository exposes persistence behavior for attachments.
type AttachmentRepository interface {
	Create(ctx context.Context, attachment domain.Attachment) error
	GetByID(ctx context.Context, id string) (*domain.Attachment, error)
	ListByTicket(ctx context.Context, ticketID string) ([]domain.Attachment, error)
	Delete(ctx context.Context, id string) error
}

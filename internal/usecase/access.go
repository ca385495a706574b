package usecase

import (
	"context"

	"go.uber.org/zap"

	"github.com/akhilbawari/ai-helpdesk-portal/internal/core/domain"
	"github.com/akhilbawari/ai-helpdesk-portal/internal/core/port"
)

// AccessService answers resource-ownership questions consulted by
// route guards. Every predicate is fail-closed: a missing resource, a
// lookup error, or an unauthenticated caller all answer false, never
// an error. Denial decisions are logged; the HTTP layer only sees the
// boolean.
type AccessService struct {
	tickets     port.TicketRepository
	responses   port.ResponseRepository
	attachments port.AttachmentRepository
	logger      *zap.Logger
}

// NewAccessService constructs an AccessService instance.
func NewAccessService(
	tickets port.TicketRepository,
	responses port.ResponseRepository,
	attachments port.AttachmentRepository,
	log *zap.Logger,
) *AccessService {
	if log == nil {
		log = zap.NewNop()
	}
	return &AccessService{
		tickets:     tickets,
		responses:   responses,
		attachments: attachments,
		logger:      log,
	}
}

// IsTicketCreator reports whether the principal created the ticket.
func (s *AccessService) IsTicketCreator(ctx context.Context, principal domain.Principal, ticketID string) bool {
	if principal.ID == "" || ticketID == "" {
		return false
	}

	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		s.logDenied("ticket lookup failed", ticketID, principal.ID, err)
		return false
	}

	return ticket.CreatedBy == principal.ID
}

// IsResponseCreator reports whether the principal authored the response.
func (s *AccessService) IsResponseCreator(ctx context.Context, principal domain.Principal, responseID string) bool {
	if principal.ID == "" || responseID == "" {
		return false
	}

	response, err := s.responses.GetByID(ctx, responseID)
	if err != nil {
		s.logDenied("response lookup failed", responseID, principal.ID, err)
		return false
	}

	return response.UserID == principal.ID
}

// CanViewResponse reports whether the principal may read the response:
// its author, or the creator of the ticket it belongs to.
func (s *AccessService) CanViewResponse(ctx context.Context, principal domain.Principal, responseID string) bool {
	if principal.ID == "" || responseID == "" {
		return false
	}

	response, err := s.responses.GetByID(ctx, responseID)
	if err != nil {
		s.logDenied("response lookup failed", responseID, principal.ID, err)
		return false
	}

	if response.UserID == principal.ID {
		return true
	}

	return s.IsTicketCreator(ctx, principal, response.TicketID)
}

// IsAttachmentUploader reports whether the principal uploaded the
// attachment.
func (s *AccessService) IsAttachmentUploader(ctx context.Context, principal domain.Principal, attachmentID string) bool {
	if principal.ID == "" || attachmentID == "" {
		return false
	}

	attachment, err := s.attachments.GetByID(ctx, attachmentID)
	if err != nil {
		s.logDenied("attachment lookup failed", attachmentID, principal.ID, err)
		return false
	}

	return attachment.UploadedBy == principal.ID
}

// CanViewAttachment reports whether the principal may read the
// attachment: its uploader, or the creator of the ticket it belongs to.
func (s *AccessService) CanViewAttachment(ctx context.Context, principal domain.Principal, attachmentID string) bool {
	if principal.ID == "" || attachmentID == "" {
		return false
	}

	attachment, err := s.attachments.GetByID(ctx, attachmentID)
	if err != nil {
		s.logDenied("attachment lookup failed", attachmentID, principal.ID, err)
		return false
	}

	if attachment.UploadedBy == principal.ID {
		return true
	}

	return s.IsTicketCreator(ctx, principal, attachment.TicketID)
}

func (s *AccessService) logDenied(msg, resourceID, principalID string, err error) {
	s.logger.Debug(msg,
		zap.String("resource_id", resourceID),
		zap.String("principal_id", principalID),
		zap.Error(err),
	)
}

package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	uuid "github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/akhilbawari/ai-helpdesk-portal/internal/core/domain"
	"github.com/akhilbawari/ai-helpdesk-portal/internal/core/port"
)

// CreateTicketInput carries the fields accepted when opening a ticket.
type CreateTicketInput struct {
	Title       string
	Description string
	Department  string
}

// AddResponseInput carries the fields accepted when replying to a ticket.
type AddResponseInput struct {
	TicketID string
	Message  string
	Internal bool
}

// AddAttachmentInput carries file metadata recorded for an upload.
type AddAttachmentInput struct {
	TicketID   string
	FileName   string
	FileType   string
	FileSize   int64
	StorageKey string
}

// TicketService implements the ticket workflow: creation, responses,
// and attachment bookkeeping. Authorization happens at the HTTP layer;
// this service assumes the caller is already allowed to act.
type TicketService struct {
	tickets     port.TicketRepository
	responses   port.ResponseRepository
	attachments port.AttachmentRepository
	logger      *zap.Logger
	now         func() time.Time
}

// NewTicketService constructs a TicketService instance.
func NewTicketService(
	tickets port.TicketRepository,
	responses port.ResponseRepository,
	attachments port.AttachmentRepository,
	log *zap.Logger,
) *TicketService {
	if log == nil {
		log = zap.NewNop()
	}

	service := &TicketService{
		tickets:     tickets,
		responses:   responses,
		attachments: attachments,
		logger:      log,
	}
	service.now = func() time.Time { return time.Now().UTC() }
	return service
}

// Create opens a new ticket owned by the principal. An empty department
// is filled in by the routing heuristic.
func (s *TicketService) Create(ctx context.Context, principal domain.Principal, input CreateTicketInput) (*domain.Ticket, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, fmt.Errorf("title is required")
	}
	description := strings.TrimSpace(input.Description)

	department := strings.TrimSpace(input.Department)
	if department == "" {
		department = RouteDepartment(title, description)
	}

	now := s.now()
	ticket := domain.Ticket{
		ID:          uuid.NewString(),
		Title:       title,
		Description: description,
		Status:      domain.TicketStatusOpen,
		Department:  department,
		CreatedBy:   principal.ID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, fmt.Errorf("create ticket: %w", err)
	}

	s.logger.Info("ticket created",
		zap.String("ticket_id", ticket.ID),
		zap.String("department", ticket.Department),
		zap.String("created_by", principal.ID),
	)

	return &ticket, nil
}

// Get retrieves a single ticket.
func (s *TicketService) Get(ctx context.Context, id string) (*domain.Ticket, error) {
	return s.tickets.GetByID(ctx, id)
}

// List returns every ticket in the system.
func (s *TicketService) List(ctx context.Context) ([]domain.Ticket, error) {
	return s.tickets.List(ctx)
}

// ListForCreator returns the tickets opened by a user.
func (s *TicketService) ListForCreator(ctx context.Context, userID string) ([]domain.Ticket, error) {
	return s.tickets.ListByCreator(ctx, userID)
}

// AddResponse records a reply on a ticket authored by the principal.
func (s *TicketService) AddResponse(ctx context.Context, principal domain.Principal, input AddResponseInput) (*domain.TicketResponse, error) {
	message := strings.TrimSpace(input.Message)
	if message == "" {
		return nil, fmt.Errorf("message is required")
	}

	if _, err := s.tickets.GetByID(ctx, input.TicketID); err != nil {
		return nil, fmt.Errorf("get ticket: %w", err)
	}

	response := domain.TicketResponse{
		ID:        uuid.NewString(),
		TicketID:  input.TicketID,
		UserID:    principal.ID,
		Message:   message,
		Internal:  input.Internal,
		CreatedAt: s.now(),
	}

	if err := s.responses.Create(ctx, response); err != nil {
		return nil, fmt.Errorf("create response: %w", err)
	}

	return &response, nil
}

// GetResponse retrieves a single response.
func (s *TicketService) GetResponse(ctx context.Context, id string) (*domain.TicketResponse, error) {
	return s.responses.GetByID(ctx, id)
}

// ListResponses returns all responses on a ticket.
func (s *TicketService) ListResponses(ctx context.Context, ticketID string) ([]domain.TicketResponse, error) {
	return s.responses.ListByTicket(ctx, ticketID)
}

// DeleteResponse removes a response.
func (s *TicketService) DeleteResponse(ctx context.Context, id string) error {
	return s.responses.Delete(ctx, id)
}

// AddAttachment records attachment metadata for a ticket.
func (s *TicketService) AddAttachment(ctx context.Context, principal domain.Principal, input AddAttachmentInput) (*domain.Attachment, error) {
	fileName := strings.TrimSpace(input.FileName)
	if fileName == "" {
		return nil, fmt.Errorf("file name is required")
	}

	if _, err := s.tickets.GetByID(ctx, input.TicketID); err != nil {
		return nil, fmt.Errorf("get ticket: %w", err)
	}

	attachment := domain.Attachment{
		ID:         uuid.NewString(),
		TicketID:   input.TicketID,
		UploadedBy: principal.ID,
		FileName:   fileName,
		FileType:   strings.TrimSpace(input.FileType),
		FileSize:   input.FileSize,
		StorageKey: strings.TrimSpace(input.StorageKey),
		CreatedAt:  s.now(),
	}

	if err := s.attachments.Create(ctx, attachment); err != nil {
		return nil, fmt.Errorf("create attachment: %w", err)
	}

	return &attachment, nil
}

// GetAttachment retrieves a single attachment.
func (s *TicketService) GetAttachment(ctx context.Context, id string) (*domain.Attachment, error) {
	return s.attachments.GetByID(ctx, id)
}

// ListAttachments returns all attachments on a ticket.
func (s *TicketService) ListAttachments(ctx context.Context, ticketID string) ([]domain.Attachment, error) {
	return s.attachments.ListByTicket(ctx, ticketID)
}

// DeleteAttachment removes an attachment.
func (s *TicketService) DeleteAttachment(ctx context.Context, id string) error {
	return s.attachments.Delete(ctx, id)
}

var departmentKeywords = []struct {
	department string
	keywords   []string
}{
	{"IT", []string{"password", "login", "vpn", "laptop", "computer", "network", "email", "software", "wifi", "printer driver"}},
	{"HR", []string{"payroll", "leave", "vacation", "benefits", "salary", "onboarding", "policy", "harassment"}},
	{"FACILITIES", []string{"desk", "chair", "office", "building", "ac", "heating", "parking", "printer", "cleaning"}},
	{"FINANCE", []string{"invoice", "expense", "reimbursement", "payment", "budget", "purchase order"}},
}

// RouteDepartment guesses the owning department for a ticket from
// keywords in its title and description. Unmatched text routes to IT.
func RouteDepartment(title, description string) string {
	text := strings.ToLower(title + " " + description)

	best := ""
	bestHits := 0
	for _, entry := range departmentKeywords {
		hits := 0
		for _, keyword := range entry.keywords {
			if strings.Contains(text, keyword) {
				hits++
			}
		}
		if hits > bestHits {
			best = entry.department
			bestHits = hits
		}
	}

	if best == "" {
		return "IT"
	}
	return best
}

package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/akhilbawari/ai-helpdesk-portal/internal/core/domain"
)

func testPrincipal(id string, role domain.Role) domain.Principal {
	return domain.NewPrincipal(domain.User{ID: id, Email: id + "@example.com", Role: role})
}

func TestAccessServiceIsTicketCreator(t *testing.T) {
	tickets := &stubTicketRepo{
		getByIDFn: func(_ context.Context, id string) (*domain.Ticket, error) {
			return &domain.Ticket{ID: id, CreatedBy: "user-1"}, nil
		},
	}
	service := NewAccessService(tickets, &stubResponseRepo{}, &stubAttachmentRepo{}, nil)

	if !service.IsTicketCreator(context.Background(), testPrincipal("user-1", domain.RoleEmployee), "ticket-1") {
		t.Fatalf("expected creator to match")
	}
	if service.IsTicketCreator(context.Background(), testPrincipal("user-2", domain.RoleEmployee), "ticket-1") {
		t.Fatalf("expected non-creator to be denied")
	}
}

func TestAccessServiceMissingResourceDenies(t *testing.T) {
	service := NewAccessService(&stubTicketRepo{}, &stubResponseRepo{}, &stubAttachmentRepo{}, nil)
	principal := testPrincipal("user-1", domain.RoleEmployee)

	if service.IsTicketCreator(context.Background(), principal, "missing") {
		t.Fatalf("expected missing ticket to deny")
	}
	if service.IsResponseCreator(context.Background(), principal, "missing") {
		t.Fatalf("expected missing response to deny")
	}
	if service.CanViewResponse(context.Background(), principal, "missing") {
		t.Fatalf("expected missing response to deny view")
	}
	if service.IsAttachmentUploader(context.Background(), principal, "missing") {
		t.Fatalf("expected missing attachment to deny")
	}
	if service.CanViewAttachment(context.Background(), principal, "missing") {
		t.Fatalf("expected missing attachment to deny view")
	}
}

func TestAccessServiceLookupErrorDenies(t *testing.T) {
	tickets := &stubTicketRepo{
		getByIDFn: func(_ context.Context, _ string) (*domain.Ticket, error) {
			return nil, errors.New("connection reset")
		},
	}
	service := NewAccessService(tickets, &stubResponseRepo{}, &stubAttachmentRepo{}, nil)

	if service.IsTicketCreator(context.Background(), testPrincipal("user-1", domain.RoleAdmin), "ticket-1") {
		t.Fatalf("expected lookup error to deny, not escalate")
	}
}

func TestAccessServiceEmptyPrincipalDenies(t *testing.T) {
	service := NewAccessService(&stubTicketRepo{}, &stubResponseRepo{}, &stubAttachmentRepo{}, nil)

	if service.IsTicketCreator(context.Background(), domain.Principal{}, "ticket-1") {
		t.Fatalf("expected empty principal to deny")
	}
}

func TestAccessServiceCanViewResponse(t *testing.T) {
	responses := &stubResponseRepo{
		getByIDFn: func(_ context.Context, id string) (*domain.TicketResponse, error) {
			return &domain.TicketResponse{ID: id, TicketID: "ticket-1", UserID: "author-1"}, nil
		},
	}
	tickets := &stubTicketRepo{
		getByIDFn: func(_ context.Context, id string) (*domain.Ticket, error) {
			return &domain.Ticket{ID: id, CreatedBy: "creator-1"}, nil
		},
	}
	service := NewAccessService(tickets, responses, &stubAttachmentRepo{}, nil)

	if !service.CanViewResponse(context.Background(), testPrincipal("author-1", domain.RoleEmployee), "resp-1") {
		t.Fatalf("expected author to view response")
	}
	if !service.CanViewResponse(context.Background(), testPrincipal("creator-1", domain.RoleEmployee), "resp-1") {
		t.Fatalf("expected ticket creator to view response")
	}
	if service.CanViewResponse(context.Background(), testPrincipal("stranger", domain.RoleEmployee), "resp-1") {
		t.Fatalf("expected stranger to be denied")
	}
}

func TestAccessServiceCanViewAttachment(t *testing.T) {
	attachments := &stubAttachmentRepo{
		getByIDFn: func(_ context.Context, id string) (*domain.Attachment, error) {
			return &domain.Attachment{ID: id, TicketID: "ticket-1", UploadedBy: "uploader-1"}, nil
		},
	}
	tickets := &stubTicketRepo{
		getByIDFn: func(_ context.Context, id string) (*domain.Ticket, error) {
			return &domain.Ticket{ID: id, CreatedBy: "creator-1"}, nil
		},
	}
	service := NewAccessService(tickets, &stubResponseRepo{}, attachments, nil)

	if !service.CanViewAttachment(context.Background(), testPrincipal("uploader-1", domain.RoleEmployee), "att-1") {
		t.Fatalf("expected uploader to view attachment")
	}
	if !service.CanViewAttachment(context.Background(), testPrincipal("creator-1", domain.RoleEmployee), "att-1") {
		t.Fatalf("expected ticket creator to view attachment")
	}
	if service.CanViewAttachment(context.Background(), testPrincipal("stranger", domain.RoleEmployee), "att-1") {
		t.Fatalf("expected stranger to be denied")
	}
	if !service.IsAttachmentUploader(context.Background(), testPrincipal("uploader-1", domain.RoleEmployee), "att-1") {
		t.Fatalf("expected uploader predicate to match")
	}
}

package postgres

import (
	"context"
	"errors"
	"fmt"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/akhilbawari/ai-helpdesk-portal/internal/core/domain"
	"github.com/akhilbawari/ai-helpdesk-portal/internal/repository"
)

var attachmentColumns = []string{
	"id",
	"ticket_id",
	"uploaded_by",
	"file_name",
	"file_type",
	"file_size",
	"storage_key",
	"created_at",
}

// AttachmentRepository implements port.AttachmentRepository using PostgreSQL.
type AttachmentRepository struct {
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewAttachmentRepository wires a PostgreSQL-backed attachment repository.
func NewAttachmentRepository(exec pgExecutor) *AttachmentRepository {
	return &AttachmentRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a new attachment row.
func (r *AttachmentRepository) Create(ctx context.Context, attachment domain.Attachment) error {
	stmt, args, err := r.builder.Insert("helpdesk.attachments").
		Columns(attachmentColumns...).
		Values(
			attachment.ID,
			attachment.TicketID,
			attachment.UploadedBy,
			attachment.FileName,
			attachment.FileType,
			attachment.FileSize,
			attachment.StorageKey,
			attachment.CreatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert attachment sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("insert attachment: %w", err)
	}

	return nil
}

// GetByID retrieves an attachment by identifier.
func (r *AttachmentRepository) GetByID(ctx context.Context, id string) (*domain.Attachment, error) {
	stmt, args, err := r.builder.
		Select(attachmentColumns...).
		From("helpdesk.attachments").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select attachment sql: %w", err)
	}

	var attachment domain.Attachment
	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(
		&attachment.ID,
		&attachment.TicketID,
		&attachment.UploadedBy,
		&attachment.FileName,
		&attachment.FileType,
		&attachment.FileSize,
		&attachment.StorageKey,
		&attachment.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan attachment: %w", err)
	}

	return &attachment, nil
}

// ListByTicket returns attachments for a ticket in upload order.
func (r *AttachmentRepository) ListByTicket(ctx context.Context, ticketID string) ([]domain.Attachment, error) {
	stmt, args, err := r.builder.
		Select(attachmentColumns...).
		From("helpdesk.attachments").
		Where(squirrel.Eq{"ticket_id": ticketID}).
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list attachments sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("list attachments: %w", err)
	}
	defer rows.Close()

	var attachments []domain.Attachment
	for rows.Next() {
		var attachment domain.Attachment
		if err := rows.Scan(
			&attachment.ID,
			&attachment.TicketID,
			&attachment.UploadedBy,
			&attachment.FileName,
			&attachment.FileType,
			&attachment.FileSize,
			&attachment.StorageKey,
			&attachment.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan attachment: %w", err)
		}
		attachments = append(attachments, attachment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate attachments: %w", err)
	}

	return attachments, nil
}

// Delete removes an attachment row.
func (r *AttachmentRepository) Delete(ctx context.Context, id string) error {
	stmt, args, err := r.builder.
		Delete("helpdesk.attachments").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete attachment sql: %w", err)
	}

	tag, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("delete attachment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

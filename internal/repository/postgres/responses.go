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

var responseColumns = []string{
	"id",
	"ticket_id",
	"user_id",
	"message",
	"internal",
	"created_at",
}

// ResponseRepository implements port.ResponseRepository using PostgreSQL.
type ResponseRepository struct {
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewResponseRepository wires a PostgreSQL-backed response repository.
func NewResponseRepository(exec pgExecutor) *ResponseRepository {
	return &ResponseRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a new ticket response row.
func (r *ResponseRepository) Create(ctx context.Context, response domain.TicketResponse) error {
	stmt, args, err := r.builder.Insert("helpdesk.ticket_responses").
		Columns(responseColumns...).
		Values(
			response.ID,
			response.TicketID,
			response.UserID,
			response.Message,
			response.Internal,
			response.CreatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert response sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("insert response: %w", err)
	}

	return nil
}

// GetByID retrieves a response by identifier.
func (r *ResponseRepository) GetByID(ctx context.Context, id string) (*domain.TicketResponse, error) {
	stmt, args, err := r.builder.
		Select(responseColumns...).
		From("helpdesk.ticket_responses").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select response sql: %w", err)
	}

	var response domain.TicketResponse
	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(
		&response.ID,
		&response.TicketID,
		&response.UserID,
		&response.Message,
		&response.Internal,
		&response.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan response: %w", err)
	}

	return &response, nil
}

// ListByTicket returns responses for a ticket in chronological order.
func (r *ResponseRepository) ListByTicket(ctx context.Context, ticketID string) ([]domain.TicketResponse, error) {
	stmt, args, err := r.builder.
		Select(responseColumns...).
		From("helpdesk.ticket_responses").
		Where(squirrel.Eq{"ticket_id": ticketID}).
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list responses sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("list responses: %w", err)
	}
	defer rows.Close()

	var responses []domain.TicketResponse
	for rows.Next() {
		var response domain.TicketResponse
		if err := rows.Scan(
			&response.ID,
			&response.TicketID,
			&response.UserID,
			&response.Message,
			&response.Internal,
			&response.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan response: %w", err)
		}
		responses = append(responses, response)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate responses: %w", err)
	}

	return responses, nil
}

// Delete removes a response row.
func (r *ResponseRepository) Delete(ctx context.Context, id string) error {
	stmt, args, err := r.builder.
		Delete("helpdesk.ticket_responses").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete response sql: %w", err)
	}

	tag, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("delete response: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

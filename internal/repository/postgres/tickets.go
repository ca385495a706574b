package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/akhilbawari/ai-helpdesk-portal/internal/core/domain"
	"github.com/akhilbawari/ai-helpdesk-portal/internal/repository"
)

var ticketColumns = []string{
	"id",
	"title",
	"description",
	"status",
	"department",
	"created_by",
	"assigned_to",
	"created_at",
	"updated_at",
}

// TicketRepository implements port.TicketRepository using PostgreSQL.
type TicketRepository struct {
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewTicketRepository wires a PostgreSQL-backed ticket repository.
func NewTicketRepository(exec pgExecutor) *TicketRepository {
	return &TicketRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a new ticket row.
func (r *TicketRepository) Create(ctx context.Context, ticket domain.Ticket) error {
	stmt, args, err := r.builder.Insert("helpdesk.tickets").
		Columns(ticketColumns...).
		Values(
			ticket.ID,
			ticket.Title,
			ticket.Description,
			ticket.Status,
			ticket.Department,
			ticket.CreatedBy,
			ticket.AssignedTo,
			ticket.CreatedAt,
			ticket.UpdatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert ticket sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("insert ticket: %w", err)
	}

	return nil
}

// GetByID retrieves a ticket by identifier.
func (r *TicketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	stmt, args, err := r.builder.
		Select(ticketColumns...).
		From("helpdesk.tickets").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select ticket sql: %w", err)
	}

	ticket, err := scanTicket(r.exec.QueryRow(ctx, stmt, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan ticket: %w", err)
	}

	return ticket, nil
}

// List returns all tickets ordered by creation time, newest first.
func (r *TicketRepository) List(ctx context.Context) ([]domain.Ticket, error) {
	return r.list(ctx, nil)
}

// ListByCreator returns tickets created by the given user.
func (r *TicketRepository) ListByCreator(ctx context.Context, userID string) ([]domain.Ticket, error) {
	return r.list(ctx, squirrel.Eq{"created_by": userID})
}

func (r *TicketRepository) list(ctx context.Context, where squirrel.Eq) ([]domain.Ticket, error) {
	query := r.builder.
		Select(ticketColumns...).
		From("helpdesk.tickets").
		OrderBy("created_at DESC")
	if where != nil {
		query = query.Where(where)
	}

	stmt, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list tickets sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("list tickets: %w", err)
	}
	defer rows.Close()

	var tickets []domain.Ticket
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, fmt.Errorf("scan ticket: %w", err)
		}
		tickets = append(tickets, *ticket)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tickets: %w", err)
	}

	return tickets, nil
}

func scanTicket(row pgx.Row) (*domain.Ticket, error) {
	var (
		ticket   domain.Ticket
		status   string
		assigned sql.NullString
	)

	if err := row.Scan(
		&ticket.ID,
		&ticket.Title,
		&ticket.Description,
		&status,
		&ticket.Department,
		&ticket.CreatedBy,
		&assigned,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	); err != nil {
		return nil, err
	}

	ticket.Status = domain.TicketStatus(status)
	if assigned.Valid {
		val := assigned.String
		ticket.AssignedTo = &val
	}

	return &ticket, nil
}

package domain

import "time"

// TicketStatus enumerates ticket lifecycle states.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "OPEN"
	TicketStatusInProgress TicketStatus = "IN_PROGRESS"
	TicketStatusResolved   TicketStatus = "RESOLVED"
	TicketStatusClosed     TicketStatus = "CLOSED"
)

// Ticket mirrors the persisted representation in the tickets table.
// CreatedBy is the owner-reference id consulted by ownership checks.
type Ticket struct {
	ID          string
	Title       string
	Description string
	Status      TicketStatus
	Department  string
	CreatedBy   string
	AssignedTo  *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TicketResponse is a reply attached to a ticket. UserID is the author
// reference; TicketID links back to the parent ticket.
type TicketResponse struct {
	ID        string
	TicketID  string
	UserID    string
	Message   string
	Internal  bool
	CreatedAt time.Time
}

// Attachment is a stored file reference linked to a ticket.
type Attachment struct {
	ID         string
	TicketID   string
	UploadedBy string
	FileName   string
	FileType   string
	FileSize   int64
	StorageKey string
	CreatedAt  time.Time
}

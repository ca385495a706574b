package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/akhilbawari/ai-helpdesk-portal/internal/core/domain"
	"github.com/akhilbawari/ai-helpdesk-portal/internal/transport/http/middleware"
)

// ErrorResponse represents a generic error payload with trace ID for debugging.
type ErrorResponse struct {
	Error   string `json:"error"`
	TraceID string `json:"trace_id,omitempty"`
}

// NewErrorResponse creates an error response with trace ID from context.
func NewErrorResponse(c *gin.Context, errorMsg string) ErrorResponse {
	return ErrorResponse{
		Error:   errorMsg,
		TraceID: middleware.GetTraceID(c),
	}
}

// MessageResponse represents a simple message payload.
type MessageResponse struct {
	Message string `json:"message"`
}

// HealthResponse reports service liveness.
type HealthResponse struct {
	Status    string    `json:"status"`
	StartedAt time.Time `json:"started_at"`
}

// ReadinessResponse reports the outcome of dependency probes.
type ReadinessResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// UserSummary describes the view of a user returned by the API.
type UserSummary struct {
	ID             string  `json:"id"`
	Email          string  `json:"email"`
	FullName       string  `json:"full_name"`
	Role           string  `json:"role"`
	Department     *string `json:"department,omitempty"`
	ProfilePicture *string `json:"profile_picture,omitempty"`
	AuthProvider   string  `json:"auth_provider"`
}

func newUserSummary(user domain.User) UserSummary {
	return UserSummary{
		ID:             user.ID,
		Email:          user.Email,
		FullName:       user.FullName,
		Role:           string(user.Role),
		Department:     user.Department,
		ProfilePicture: user.ProfilePicture,
		AuthProvider:   user.AuthProvider,
	}
}

// ChangeRoleRequest names the role an admin assigns to a user.
type ChangeRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// RegisterRequest defines the account registration payload.
type RegisterRequest struct {
	Email      string `json:"email" binding:"required,email"`
	Password   string `json:"password" binding:"required"`
	FullName   string `json:"full_name" binding:"required"`
	Department string `json:"department"`
}

// LoginRequest defines the payload for the login endpoint.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse is returned after a successful registration, login, or
// OAuth callback.
type AuthResponse struct {
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"`
	ExpiresIn   int         `json:"expires_in"`
	User        UserSummary `json:"user"`
}

func newAuthResponse(result *domain.AuthResult) AuthResponse {
	expiresIn := int(time.Until(result.ExpiresAt).Seconds())
	if expiresIn < 0 {
		expiresIn = 0
	}

	return AuthResponse{
		AccessToken: result.AccessToken,
		TokenType:   "Bearer",
		ExpiresIn:   expiresIn,
		User:        newUserSummary(result.User),
	}
}

// CreateTicketRequest defines the payload for opening a ticket.
type CreateTicketRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description" binding:"required"`
	Department  string `json:"department"`
}

// TicketView is the API representation of a ticket.
type TicketView struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	Department  string    `json:"department"`
	CreatedBy   string    `json:"created_by"`
	AssignedTo  *string   `json:"assigned_to,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func newTicketView(ticket domain.Ticket) TicketView {
	return TicketView{
		ID:          ticket.ID,
		Title:       ticket.Title,
		Description: ticket.Description,
		Status:      string(ticket.Status),
		Department:  ticket.Department,
		CreatedBy:   ticket.CreatedBy,
		AssignedTo:  ticket.AssignedTo,
		CreatedAt:   ticket.CreatedAt,
		UpdatedAt:   ticket.UpdatedAt,
	}
}

func newTicketViews(tickets []domain.Ticket) []TicketView {
	views := make([]TicketView, 0, len(tickets))
	for _, ticket := range tickets {
		views = append(views, newTicketView(ticket))
	}
	return views
}

// AddResponseRequest defines the payload for replying to a ticket.
type AddResponseRequest struct {
	Message  string `json:"message" binding:"required"`
	Internal bool   `json:"internal"`
}

// ResponseView is the API representation of a ticket response.
type ResponseView struct {
	ID        string    `json:"id"`
	TicketID  string    `json:"ticket_id"`
	UserID    string    `json:"user_id"`
	Message   string    `json:"message"`
	Internal  bool      `json:"internal"`
	CreatedAt time.Time `json:"created_at"`
}

func newResponseView(response domain.TicketResponse) ResponseView {
	return ResponseView{
		ID:        response.ID,
		TicketID:  response.TicketID,
		UserID:    response.UserID,
		Message:   response.Message,
		Internal:  response.Internal,
		CreatedAt: response.CreatedAt,
	}
}

func newResponseViews(responses []domain.TicketResponse) []ResponseView {
	views := make([]ResponseView, 0, len(responses))
	for _, response := range responses {
		views = append(views, newResponseView(response))
	}
	return views
}

// AddAttachmentRequest records file metadata for an upload.
type AddAttachmentRequest struct {
	FileName   string `json:"file_name" binding:"required"`
	FileType   string `json:"file_type"`
	FileSize   int64  `json:"file_size"`
	StorageKey string `json:"storage_key" binding:"required"`
}

// AttachmentView is the API representation of an attachment.
type AttachmentView struct {
	ID         string    `json:"id"`
	TicketID   string    `json:"ticket_id"`
	UploadedBy string    `json:"uploaded_by"`
	FileName   string    `json:"file_name"`
	FileType   string    `json:"file_type"`
	FileSize   int64     `json:"file_size"`
	StorageKey string    `json:"storage_key"`
	CreatedAt  time.Time `json:"created_at"`
}

func newAttachmentView(attachment domain.Attachment) AttachmentView {
	return AttachmentView{
		ID:         attachment.ID,
		TicketID:   attachment.TicketID,
		UploadedBy: attachment.UploadedBy,
		FileName:   attachment.FileName,
		FileType:   attachment.FileType,
		FileSize:   attachment.FileSize,
		StorageKey: attachment.StorageKey,
		CreatedAt:  attachment.CreatedAt,
	}
}

func newAttachmentViews(attachments []domain.Attachment) []AttachmentView {
	views := make([]AttachmentView, 0, len(attachments))
	for _, attachment := range attachments {
		views = append(views, newAttachmentView(attachment))
	}
	return views
}

// RouteTicketRequest defines the payload for the public routing probe.
type RouteTicketRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// RouteTicketResponse carries the suggested department.
type RouteTicketResponse struct {
	Department string `json:"department"`
}

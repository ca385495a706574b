package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/akhilbawari/ai-helpdesk-portal/internal/core/domain"
	"github.com/akhilbawari/ai-helpdesk-portal/internal/repository"
	"github.com/akhilbawari/ai-helpdesk-portal/internal/transport/http/middleware"
	"github.com/akhilbawari/ai-helpdesk-portal/internal/usecase"
)

// AttachmentHandler exposes endpoints addressing attachments directly by id.
type AttachmentHandler struct {
	tickets *usecase.TicketService
	access  *usecase.AccessService
}

// NewAttachmentHandler constructs AttachmentHandler.
func NewAttachmentHandler(tickets *usecase.TicketService, access *usecase.AccessService) *AttachmentHandler {
	return &AttachmentHandler{tickets: tickets, access: access}
}

// RegisterRoutes binds attachment routes. Reading requires staff roles,
// being the uploader, or owning the parent ticket; deletion is reserved
// for admins and the uploader.
func (h *AttachmentHandler) RegisterRoutes(r *gin.RouterGroup) {
	attachments := r.Group("/attachments")

	attachments.GET("/:id",
		middleware.RequireRoleOr(h.canView, domain.RoleAdmin, domain.RoleSupport), h.get)
	attachments.DELETE("/:id",
		middleware.RequireRoleOr(h.isUploader, domain.RoleAdmin), h.delete)
}

func (h *AttachmentHandler) canView(c *gin.Context, principal domain.Principal) bool {
	return h.access.CanViewAttachment(c.Request.Context(), principal, c.Param("id"))
}

func (h *AttachmentHandler) isUploader(c *gin.Context, principal domain.Principal) bool {
	return h.access.IsAttachmentUploader(c.Request.Context(), principal, c.Param("id"))
}

func (h *AttachmentHandler) get(c *gin.Context) {
	attachment, err := h.tickets.GetAttachment(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: repository.ErrNotFound, Status: http.StatusNotFound, Message: "attachment not found"},
		}, http.StatusInternalServerError, "failed to load attachment")
		return
	}

	c.JSON(http.StatusOK, newAttachmentView(*attachment))
}

func (h *AttachmentHandler) delete(c *gin.Context) {
	if err := h.tickets.DeleteAttachment(c.Request.Context(), c.Param("id")); err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: repository.ErrNotFound, Status: http.StatusNotFound, Message: "attachment not found"},
		}, http.StatusInternalServerError, "failed to delete attachment")
		return
	}

	c.Status(http.StatusNoContent)
}

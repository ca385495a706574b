package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/akhilbawari/ai-helpdesk-portal/internal/core/domain"
	"github.com/akhilbawari/ai-helpdesk-portal/internal/repository"
	"github.com/akhilbawari/ai-helpdesk-portal/internal/transport/http/middleware"
	"github.com/akhilbawari/ai-helpdesk-portal/internal/usecase"
)

// ResponseHandler exposes endpoints addressing responses directly by id.
type ResponseHandler struct {
	tickets *usecase.TicketService
	access  *usecase.AccessService
}

// NewResponseHandler constructs ResponseHandler.
func NewResponseHandler(tickets *usecase.TicketService, access *usecase.AccessService) *ResponseHandler {
	return &ResponseHandler{tickets: tickets, access: access}
}

// RegisterRoutes binds response routes. Reading requires staff roles,
// authorship, or ownership of the parent ticket; deletion is reserved
// for admins and the author.
func (h *ResponseHandler) RegisterRoutes(r *gin.RouterGroup) {
	responses := r.Group("/responses")

	responses.GET("/:id",
		middleware.RequireRoleOr(h.canView, domain.RoleAdmin, domain.RoleSupport), h.get)
	responses.DELETE("/:id",
		middleware.RequireRoleOr(h.isAuthor, domain.RoleAdmin), h.delete)
}

func (h *ResponseHandler) canView(c *gin.Context, principal domain.Principal) bool {
	return h.access.CanViewResponse(c.Request.Context(), principal, c.Param("id"))
}

func (h *ResponseHandler) isAuthor(c *gin.Context, principal domain.Principal) bool {
	return h.access.IsResponseCreator(c.Request.Context(), principal, c.Param("id"))
}

func (h *ResponseHandler) get(c *gin.Context) {
	response, err := h.tickets.GetResponse(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: repository.ErrNotFound, Status: http.StatusNotFound, Message: "response not found"},
		}, http.StatusInternalServerError, "failed to load response")
		return
	}

	c.JSON(http.StatusOK, newResponseView(*response))
}

func (h *ResponseHandler) delete(c *gin.Context) {
	if err := h.tickets.DeleteResponse(c.Request.Context(), c.Param("id")); err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: repository.ErrNotFound, Status: http.StatusNotFound, Message: "response not found"},
		}, http.StatusInternalServerError, "failed to delete response")
		return
	}

	c.Status(http.StatusNoContent)
}

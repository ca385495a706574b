package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/akhilbawari/ai-helpdesk-portal/internal/core/domain"
	"github.com/akhilbawari/ai-helpdesk-portal/internal/repository"
	"github.com/akhilbawari/ai-helpdesk-portal/internal/transport/http/middleware"
	"github.com/akhilbawari/ai-helpdesk-portal/internal/usecase"
)

// TicketHandler exposes the ticket lifecycle endpoints.
type TicketHandler struct {
	tickets *usecase.TicketService
	access  *usecase.AccessService
}

// NewTicketHandler constructs TicketHandler.
func NewTicketHandler(tickets *usecase.TicketService, access *usecase.AccessService) *TicketHandler {
	return &TicketHandler{tickets: tickets, access: access}
}

// RegisterRoutes binds ticket routes with their guards. Any authenticated
// user may open a ticket; reading one requires staff roles or ownership.
func (h *TicketHandler) RegisterRoutes(r *gin.RouterGroup) {
	tickets := r.Group("/tickets")

	tickets.POST("", middleware.RequireAuthenticated(), h.create)
	tickets.GET("", middleware.RequireRole(domain.RoleAdmin, domain.RoleSupport), h.list)
	tickets.GET("/my", middleware.RequireAuthenticated(), h.listMine)
	tickets.GET("/:id",
		middleware.RequireRoleOr(h.ownsTicket, domain.RoleAdmin, domain.RoleSupport), h.get)
	tickets.POST("/:id/responses",
		middleware.RequireRoleOr(h.ownsTicket, domain.RoleAdmin, domain.RoleSupport), h.addResponse)
	tickets.GET("/:id/responses",
		middleware.RequireRoleOr(h.ownsTicket, domain.RoleAdmin, domain.RoleSupport), h.listResponses)
	tickets.POST("/:id/attachments",
		middleware.RequireRoleOr(h.ownsTicket, domain.RoleAdmin, domain.RoleSupport), h.addAttachment)
	tickets.GET("/:id/attachments",
		middleware.RequireRoleOr(h.ownsTicket, domain.RoleAdmin, domain.RoleSupport), h.listAttachments)
}

func (h *TicketHandler) ownsTicket(c *gin.Context, principal domain.Principal) bool {
	return h.access.IsTicketCreator(c.Request.Context(), principal, c.Param("id"))
}

func (h *TicketHandler) create(c *gin.Context) {
	principal, ok := middleware.CurrentPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	var req CreateTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid ticket payload"))
		return
	}

	ticket, err := h.tickets.Create(c.Request.Context(), principal, usecase.CreateTicketInput{
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		Department:  strings.TrimSpace(req.Department),
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to create ticket"))
		return
	}

	c.JSON(http.StatusCreated, newTicketView(*ticket))
}

func (h *TicketHandler) get(c *gin.Context) {
	ticket, err := h.tickets.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: repository.ErrNotFound, Status: http.StatusNotFound, Message: "ticket not found"},
		}, http.StatusInternalServerError, "failed to load ticket")
		return
	}

	c.JSON(http.StatusOK, newTicketView(*ticket))
}

func (h *TicketHandler) list(c *gin.Context) {
	tickets, err := h.tickets.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to list tickets"))
		return
	}

	c.JSON(http.StatusOK, newTicketViews(tickets))
}

func (h *TicketHandler) listMine(c *gin.Context) {
	principal, ok := middleware.CurrentPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	tickets, err := h.tickets.ListForCreator(c.Request.Context(), principal.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to list tickets"))
		return
	}

	c.JSON(http.StatusOK, newTicketViews(tickets))
}

func (h *TicketHandler) addResponse(c *gin.Context) {
	principal, ok := middleware.CurrentPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	var req AddResponseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid response payload"))
		return
	}

	response, err := h.tickets.AddResponse(c.Request.Context(), principal, usecase.AddResponseInput{
		TicketID: c.Param("id"),
		Message:  strings.TrimSpace(req.Message),
		Internal: req.Internal,
	})
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: repository.ErrNotFound, Status: http.StatusNotFound, Message: "ticket not found"},
		}, http.StatusInternalServerError, "failed to add response")
		return
	}

	c.JSON(http.StatusCreated, newResponseView(*response))
}

func (h *TicketHandler) listResponses(c *gin.Context) {
	responses, err := h.tickets.ListResponses(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to list responses"))
		return
	}

	c.JSON(http.StatusOK, newResponseViews(responses))
}

func (h *TicketHandler) addAttachment(c *gin.Context) {
	principal, ok := middleware.CurrentPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	var req AddAttachmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid attachment payload"))
		return
	}

	attachment, err := h.tickets.AddAttachment(c.Request.Context(), principal, usecase.AddAttachmentInput{
		TicketID:   c.Param("id"),
		FileName:   strings.TrimSpace(req.FileName),
		FileType:   strings.TrimSpace(req.FileType),
		FileSize:   req.FileSize,
		StorageKey: strings.TrimSpace(req.StorageKey),
	})
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: repository.ErrNotFound, Status: http.StatusNotFound, Message: "ticket not found"},
		}, http.StatusInternalServerError, "failed to add attachment")
		return
	}

	c.JSON(http.StatusCreated, newAttachmentView(*attachment))
}

func (h *TicketHandler) listAttachments(c *gin.Context) {
	attachments, err := h.tickets.ListAttachments(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to list attachments"))
		return
	}

	c.JSON(http.StatusOK, newAttachmentViews(attachments))
}

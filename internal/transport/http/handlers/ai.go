package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/akhilbawari/ai-helpdesk-portal/internal/usecase"
)

// AIHandler exposes the public ticket-routing probe. The endpoint is
// unauthenticated so the frontend can suggest a department before the
// ticket form is submitted.
type AIHandler struct{}

// NewAIHandler constructs AIHandler.
func NewAIHandler() *AIHandler {
	return &AIHandler{}
}

// RegisterRoutes binds the routing probe.
func (h *AIHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/route-ticket", h.routeTicket)
}

func (h *AIHandler) routeTicket(c *gin.Context) {
	var req RouteTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid routing payload"))
		return
	}

	department := usecase.RouteDepartment(strings.TrimSpace(req.Title), strings.TrimSpace(req.Description))
	c.JSON(http.StatusOK, RouteTicketResponse{Department: department})
}

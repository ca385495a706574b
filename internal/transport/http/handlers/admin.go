package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/akhilbawari/ai-helpdesk-portal/internal/core/domain"
	"github.com/akhilbawari/ai-helpdesk-portal/internal/repository"
	"github.com/akhilbawari/ai-helpdesk-portal/internal/transport/http/middleware"
	"github.com/akhilbawari/ai-helpdesk-portal/internal/usecase"
)

// AdminHandler exposes the staff-management endpoints.
type AdminHandler struct {
	admin *usecase.AdminService
}

// NewAdminHandler constructs AdminHandler.
func NewAdminHandler(admin *usecase.AdminService) *AdminHandler {
	return &AdminHandler{admin: admin}
}

// RegisterRoutes binds the admin routes. All of them require the ADMIN
// role; SUPPORT does not qualify.
func (h *AdminHandler) RegisterRoutes(r *gin.RouterGroup) {
	admin := r.Group("/admin", middleware.RequireRole(domain.RoleAdmin))

	admin.GET("/users", h.listUsers)
	admin.PUT("/users/:id/role", h.changeRole)
}

func (h *AdminHandler) listUsers(c *gin.Context) {
	users, err := h.admin.ListUsers(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to list users"))
		return
	}

	views := make([]UserSummary, 0, len(users))
	for _, user := range users {
		views = append(views, newUserSummary(user))
	}
	c.JSON(http.StatusOK, views)
}

func (h *AdminHandler) changeRole(c *gin.Context) {
	var req ChangeRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid role payload"))
		return
	}

	user, err := h.admin.ChangeRole(c.Request.Context(), c.Param("id"), req.Role)
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrUnknownRole, Status: http.StatusBadRequest, Message: "unknown role"},
			{Err: repository.ErrNotFound, Status: http.StatusNotFound, Message: "user not found"},
		}, http.StatusInternalServerError, "failed to change role")
		return
	}

	c.JSON(http.StatusOK, newUserSummary(*user))
}

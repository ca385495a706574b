package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/akhilbawari/ai-helpdesk-portal/internal/core/domain"
)

// OwnershipCheck answers whether the principal may act on the resource
// addressed by the current request.
type OwnershipCheck func(c *gin.Context, principal domain.Principal) bool

// RequireAuthenticated rejects anonymous requests.
func RequireAuthenticated() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := CurrentPrincipal(c); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				newErrorResponse(c, "authentication required"))
			return
		}
		c.Next()
	}
}

// RequireRole admits only principals holding one of the listed roles.
// Roles are flat: ADMIN confers nothing beyond its own name.
func RequireRole(roles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := CurrentPrincipal(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				newErrorResponse(c, "authentication required"))
			return
		}

		if !principal.HasRole(roles...) {
			c.AbortWithStatusJSON(http.StatusForbidden,
				newErrorResponse(c, "insufficient permissions"))
			return
		}

		c.Next()
	}
}

// RequireRoleOr admits principals holding one of the listed roles, or
// passing the ownership check. The check runs only when the role test
// fails.
func RequireRoleOr(check OwnershipCheck, roles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := CurrentPrincipal(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				newErrorResponse(c, "authentication required"))
			return
		}

		if principal.HasRole(roles...) {
			c.Next()
			return
		}

		if check != nil && check(c, principal) {
			c.Next()
			return
		}

		c.AbortWithStatusJSON(http.StatusForbidden,
			newErrorResponse(c, "insufficient permissions"))
	}
}

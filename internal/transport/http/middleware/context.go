package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/akhilbawari/ai-helpdesk-portal/internal/core/domain"
)

const (
	// TraceIDHeader is the HTTP header name for trace ID.
	TraceIDHeader = "X-Trace-ID"
	// TraceIDKey is the context key for trace ID.
	TraceIDKey = "trace_id"
	// PrincipalKey is the context key for the authenticated principal.
	PrincipalKey = "principal"
)

// EnrichContext stamps every request with a trace ID.
func EnrichContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := c.GetHeader(TraceIDHeader)
		if traceID == "" {
			traceID = uuid.NewString()
		}

		c.Set(TraceIDKey, traceID)
		c.Header(TraceIDHeader, traceID)

		c.Next()
	}
}

// GetTraceID retrieves the trace ID from the context.
func GetTraceID(c *gin.Context) string {
	if traceID, exists := c.Get(TraceIDKey); exists {
		if id, ok := traceID.(string); ok {
			return id
		}
	}
	return ""
}

// SetPrincipal publishes the authenticated principal into the request
// context for downstream guards and handlers.
func SetPrincipal(c *gin.Context, principal domain.Principal) {
	c.Set(PrincipalKey, principal)
}

// CurrentPrincipal retrieves the authenticated principal, if any.
func CurrentPrincipal(c *gin.Context) (domain.Principal, bool) {
	value, exists := c.Get(PrincipalKey)
	if !exists {
		return domain.Principal{}, false
	}

	principal, ok := value.(domain.Principal)
	if !ok || principal.ID == "" {
		return domain.Principal{}, false
	}
	return principal, true
}

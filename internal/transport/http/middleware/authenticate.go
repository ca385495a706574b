package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/akhilbawari/ai-helpdesk-portal/internal/usecase"
)

// ErrorResponse matches the handlers.ErrorResponse structure.
type ErrorResponse struct {
	Error   string `json:"error"`
	TraceID string `json:"trace_id,omitempty"`
}

func newErrorResponse(c *gin.Context, errorMsg string) ErrorResponse {
	return ErrorResponse{
		Error:   errorMsg,
		TraceID: GetTraceID(c),
	}
}

// The authentication stage skips the credential endpoints by prefix
// and the public routing endpoint by exact path, so sibling /ai routes
// stay authenticated.
var (
	bypassPrefixes = []string{
		"/auth/",
		"/oauth/",
	}
	bypassPaths = map[string]struct{}{
		"/ai/route-ticket": {},
	}
)

func bypassed(path string) bool {
	if _, ok := bypassPaths[path]; ok {
		return true
	}
	for _, prefix := range bypassPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// Authenticate resolves the bearer token into a request principal.
// Requests without a token pass through anonymously; route guards
// decide whether anonymity is acceptable. Requests with a bad token
// are rejected here with the precise failure reason. A panic anywhere
// in the stage degrades to a plain 500 rather than an open gate.
func Authenticate(tokens *usecase.TokenService, log *zap.Logger) gin.HandlerFunc {
	if log == nil {
		log = zap.NewNop()
	}

	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error("authentication stage panic", zap.Any("panic", r))
				c.AbortWithStatusJSON(http.StatusInternalServerError,
					newErrorResponse(c, "authentication failed"))
			}
		}()

		if bypassed(c.Request.URL.Path) {
			c.Next()
			return
		}

		// Already authenticated by an earlier pass through the chain.
		if _, ok := CurrentPrincipal(c); ok {
			c.Next()
			return
		}

		token, ok := bearerToken(c)
		if !ok {
			c.Next()
			return
		}

		claims, err := tokens.Parse(token)
		if err != nil {
			abortUnauthorized(c, err)
			return
		}

		principal, err := tokens.ResolvePrincipal(c.Request.Context(), claims)
		if err != nil {
			if errors.Is(err, usecase.ErrEmptyClaims) {
				abortUnauthorized(c, err)
				return
			}
			if errors.Is(err, usecase.ErrInvalidCredentials) {
				// Unknown subject or rotated credentials: the token names
				// nobody resolvable. Downstream guards reject protected
				// access; public routes stay reachable.
				log.Warn("bearer token resolves to no principal",
					zap.String("subject", claims.Subject))
				c.Next()
				return
			}
			log.Error("principal resolution failed", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError,
				newErrorResponse(c, "authentication failed"))
			return
		}

		SetPrincipal(c, principal)
		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return "", false
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}

	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", false
	}
	return token, true
}

func abortUnauthorized(c *gin.Context, err error) {
	message := "invalid access token"
	switch {
	case errors.Is(err, usecase.ErrTokenExpired):
		message = "access token expired"
	case errors.Is(err, usecase.ErrTokenMalformed):
		message = "access token malformed"
	case errors.Is(err, usecase.ErrTokenUnsupported):
		message = "access token uses an unsupported signing scheme"
	case errors.Is(err, usecase.ErrBadSignature):
		message = "access token signature invalid"
	case errors.Is(err, usecase.ErrEmptyClaims):
		message = "access token carries no subject"
	}

	c.AbortWithStatusJSON(http.StatusUnauthorized, newErrorResponse(c, message))
}

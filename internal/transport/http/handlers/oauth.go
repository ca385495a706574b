package handlers

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/akhilbawari/ai-helpdesk-portal/internal/infra/security"
	"github.com/akhilbawari/ai-helpdesk-portal/internal/usecase"
)

const (
	oauthStateCookie = "oauth_state"
	oauthStateMaxAge = 300
)

// OAuthHandler drives the Google authorization-code flow.
type OAuthHandler struct {
	oauth       *usecase.OAuthService
	frontendURL string
}

// NewOAuthHandler constructs OAuthHandler. frontendURL, when set, is
// where the callback redirects with the issued token.
func NewOAuthHandler(oauth *usecase.OAuthService, frontendURL string) *OAuthHandler {
	return &OAuthHandler{
		oauth:       oauth,
		frontendURL: strings.TrimRight(strings.TrimSpace(frontendURL), "/"),
	}
}

// RegisterRoutes binds the OAuth endpoints.
func (h *OAuthHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/google", h.begin)
	r.GET("/google/callback", h.callback)
}

func (h *OAuthHandler) begin(c *gin.Context) {
	state, err := security.GenerateSecureToken(24)
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to start sign-in"))
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(oauthStateCookie, state, oauthStateMaxAge, "/", "", false, true)

	c.Redirect(http.StatusFound, h.oauth.AuthorizationURL(state))
}

func (h *OAuthHandler) callback(c *gin.Context) {
	state := c.Query("state")
	expected, err := c.Cookie(oauthStateCookie)
	if err != nil || state == "" || state != expected {
		h.fail(c, http.StatusBadRequest, "oauth state mismatch")
		return
	}

	// The cookie stays for its full lifetime, which matches the code
	// cache TTL: a browser retry of the callback URL passes the state
	// check again and resolves from the cache instead of failing here.
	result, err := h.oauth.HandleCallback(c.Request.Context(), c.Query("code"))
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrAuthMethodMismatch):
			h.fail(c, http.StatusConflict, "account uses a different sign-in method")
		default:
			h.fail(c, http.StatusBadGateway, "sign-in with Google failed")
		}
		return
	}

	if h.frontendURL == "" {
		c.JSON(http.StatusOK, newAuthResponse(result))
		return
	}

	redirect := h.frontendURL + "/oauth/callback?" + url.Values{
		"token": {result.AccessToken},
	}.Encode()
	c.Redirect(http.StatusFound, redirect)
}

func (h *OAuthHandler) fail(c *gin.Context, status int, message string) {
	if h.frontendURL == "" {
		c.JSON(status, NewErrorResponse(c, message))
		return
	}

	redirect := h.frontendURL + "/oauth/callback?" + url.Values{
		"error": {message},
	}.Encode()
	c.Redirect(http.StatusFound, redirect)
}

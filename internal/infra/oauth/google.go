package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/akhilbawari/ai-helpdesk-portal/internal/core/domain"
	"github.com/akhilbawari/ai-helpdesk-portal/internal/core/port"
	"github.com/akhilbawari/ai-helpdesk-portal/internal/infra/config"
)

const userInfoURL = "https://www.googleapis.com/oauth2/v3/userinfo"

// GoogleProvider exchanges authorization codes against Google and
// fetches the holder's profile.
type GoogleProvider struct {
	config *oauth2.Config
}

// NewGoogleProvider builds a provider from the configured client
// credentials.
func NewGoogleProvider(cfg config.OAuthSettings) *GoogleProvider {
	return &GoogleProvider{
		config: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleRedirectURI,
			Endpoint:     google.Endpoint,
			Scopes:       []string{"openid", "email", "profile"},
		},
	}
}

// AuthorizationURL returns the consent page URL carrying the given
// anti-forgery state.
func (p *GoogleProvider) AuthorizationURL(state string) string {
	return p.config.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

// Exchange trades an authorization code for the holder's identity.
func (p *GoogleProvider) Exchange(ctx context.Context, code string) (*domain.ExternalIdentity, error) {
	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchange authorization code: %w", err)
	}

	client := p.config.Client(ctx, token)
	resp, err := client.Get(userInfoURL)
	if err != nil {
		return nil, fmt.Errorf("fetch user info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("user info request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var info struct {
		Sub           string `json:"sub"`
		Email         string `json:"email"`
		EmailVerified bool   `json:"email_verified"`
		Name          string `json:"name"`
		Picture       string `json:"picture"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("decode user info: %w", err)
	}

	if info.Sub == "" {
		return nil, fmt.Errorf("missing subject in user info response")
	}
	if info.Email == "" {
		return nil, fmt.Errorf("missing email in user info response")
	}

	return &domain.ExternalIdentity{
		Subject:       info.Sub,
		Email:         info.Email,
		FullName:      info.Name,
		PictureURL:    info.Picture,
		EmailVerified: info.EmailVerified,
	}, nil
}

var _ port.IdentityProvider = (*GoogleProvider)(nil)

package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/marko/deckroom-api/internal/config"
	"golang.org/x/oauth2"
)

var linkedInEndpoint = oauth2.Endpoint{
	AuthURL:  "https://www.linkedin.com/oauth/v2/authorization",
	TokenURL: "https://www.linkedin.com/oauth/v2/accessToken",
}

type LinkedInProvider struct {
	config *oauth2.Config
}

func NewLinkedInProvider(cfg config.OAuthConfig) *LinkedInProvider {
	return &LinkedInProvider{
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       []string{"openid", "profile", "email"},
			Endpoint:     linkedInEndpoint,
		},
	}
}

func (p *LinkedInProvider) Name() string {
	return "linkedin"
}

func (p *LinkedInProvider) GetConsentURL(state string) string {
	return p.config.AuthCodeURL(state)
}

func (p *LinkedInProvider) ExchangeCode(ctx context.Context, code string) (*UserInfo, error) {
	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange code: %w", err)
	}

	client := p.config.Client(ctx, token)

	resp, err := client.Get("https://api.linkedin.com/v2/userinfo")
	if err != nil {
		return nil, fmt.Errorf("failed to get user info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("linkedin api returned status %d", resp.StatusCode)
	}

	var liUser struct {
		Sub        string `json:"sub"`
		Name       string `json:"name"`
		GivenName  string `json:"given_name"`
		FamilyName string `json:"family_name"`
		Email      string `json:"email"`
		Picture    string `json:"picture"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&liUser); err != nil {
		return nil, fmt.Errorf("failed to decode user info: %w", err)
	}

	name := liUser.Name
	if name == "" {
		name = fmt.Sprintf("%s %s", liUser.GivenName, liUser.FamilyName)
	}

	return &UserInfo{
		Email:     liUser.Email,
		Name:      name,
		AvatarURL: liUser.Picture,
		ID:        liUser.Sub,
		Provider:  "linkedin",
	}, nil
}

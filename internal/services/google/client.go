package google

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/oauth2"
	oauthgoogle "golang.org/x/oauth2/google"

	"github.com/gainworld/travel-guide/internal/models"
)

// ErrTokenExchange is returned when Google rejects the authorization code
// (expired, already used, or issued for a different redirect URI).
var ErrTokenExchange = errors.New("token exchange failed")

// Scopes requested on every login.
var Scopes = []string{
	"https://www.googleapis.com/auth/userinfo.profile",
	"https://www.googleapis.com/auth/userinfo.email",
	"https://www.googleapis.com/auth/user.addresses.read",
	"https://www.googleapis.com/auth/user.birthday.read",
	"openid",
	"https://www.googleapis.com/auth/user.phonenumbers.read",
}

// Credentials is the result of a successful code exchange plus ID token
// verification.
type Credentials struct {
	AccessToken  string
	RefreshToken string
	Claims       *models.IDClaims
}

// Authenticator is the provider surface the HTTP layer depends on.
// This interface enables handler tests to stub the provider round trips.
type Authenticator interface {
	AuthCodeURL(state string) string
	Authenticate(ctx context.Context, code string) (*Credentials, error)
}

// Client drives the Google authorization-code flow: it builds authorization
// URLs, exchanges codes for tokens, and verifies the returned ID token.
type Client struct {
	config   *oauth2.Config
	verifier *Verifier
}

var _ Authenticator = (*Client)(nil)

// NewClient creates a Google OAuth client
func NewClient(clientID, clientSecret, redirectURL string, verifier *Verifier) *Client {
	config := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		Scopes:       Scopes,
		Endpoint:     oauthgoogle.Endpoint,
	}

	return &Client{config: config, verifier: verifier}
}

// AuthCodeURL returns the authorization URL binding this login attempt to
// state. access_type=offline requests a refresh token; incremental
// authorization keeps previously granted scopes.
func (c *Client) AuthCodeURL(state string) string {
	return c.config.AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("include_granted_scopes", "true"),
	)
}

// Authenticate exchanges the authorization code for tokens and verifies the
// ID token against this client's ID as audience. A missing or unverifiable
// ID token is an ErrInvalidToken; a rejected code is an ErrTokenExchange.
func (c *Client) Authenticate(ctx context.Context, code string) (*Credentials, error) {
	token, err := c.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenExchange, err)
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		return nil, fmt.Errorf("%w: response contained no id_token", ErrInvalidToken)
	}

	claims, err := c.verifier.Verify(ctx, rawIDToken, c.config.ClientID)
	if err != nil {
		return nil, err
	}

	return &Credentials{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		Claims:       claims,
	}, nil
}

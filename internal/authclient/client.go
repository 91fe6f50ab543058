package authclient

import (
	"context"
	"errors"
	"fmt"

	"github.com/Skotchmaster/shoplist/internal/identity"
	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
)

// Client is the OIDC relying party. The rest of the app only ever sees
// identity.Claims; tokens stay inside this package.
type Client struct {
	provider *oidc.Provider
	config   oauth2.Config
	verifier *oidc.IDTokenVerifier
}

func New(ctx context.Context, issuer, clientID, clientSecret, redirectURL string) (*Client, error) {
	provider, err := oidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, fmt.Errorf("oidc discovery: %w", err)
	}

	return &Client{
		provider: provider,
		config: oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Endpoint:     provider.Endpoint(),
			Scopes:       []string{oidc.ScopeOpenID, "profile", "email"},
		},
		verifier: provider.Verifier(&oidc.Config{ClientID: clientID}),
	}, nil
}

func (c *Client) AuthCodeURL(state string) string {
	return c.config.AuthCodeURL(state)
}

// Exchange trades the authorization code for tokens, verifies the ID token
// and extracts the claims the rest of the app works with.
func (c *Client) Exchange(ctx context.Context, code string) (identity.Claims, error) {
	token, err := c.config.Exchange(ctx, code)
	if err != nil {
		return identity.Claims{}, fmt.Errorf("code exchange: %w", err)
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok {
		return identity.Claims{}, errors.New("token response without id_token")
	}

	idToken, err := c.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return identity.Claims{}, fmt.Errorf("id token verify: %w", err)
	}

	var raw struct {
		Email   string `json:"email"`
		Name    string `json:"name"`
		Picture string `json:"picture"`
	}
	if err := idToken.Claims(&raw); err != nil {
		return identity.Claims{}, fmt.Errorf("claims decode: %w", err)
	}

	return identity.Claims{
		Email:   raw.Email,
		Name:    raw.Name,
		Picture: raw.Picture,
	}, nil
}

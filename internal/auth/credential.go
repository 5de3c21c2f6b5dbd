package auth

import (
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// Credential is a persisted OAuth grant. The JSON layout is Google's
// "authorized user" format, so token files written by other Google client
// libraries load without conversion.
type Credential struct {
	Token        string    `json:"token"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	TokenURI     string    `json:"token_uri,omitempty"`
	ClientID     string    `json:"client_id,omitempty"`
	ClientSecret string    `json:"client_secret,omitempty"`
	Scopes       []string  `json:"scopes,omitempty"`
	Expiry       time.Time `json:"expiry,omitzero"`
}

// ExpirySkew treats a token as expired this long before its real expiry, so
// a token handed to a request does not lapse while the request is in flight.
const ExpirySkew = 45 * time.Second

// Expired reports whether the access token expires within ExpirySkew of now.
// A credential without expiry never expires.
func (c *Credential) Expired(now time.Time) bool {
	return !c.Expiry.IsZero() && !now.Add(ExpirySkew).Before(c.Expiry)
}

// HasScopes reports whether every required scope was granted.
func (c *Credential) HasScopes(required []string) bool {
	return hasScopes(c.Scopes, required)
}

// Valid reports whether the credential can be used as is.
func (c *Credential) Valid(now time.Time, required []string) bool {
	return c.Token != "" && !c.Expired(now) && c.HasScopes(required)
}

// OAuth2Token converts the credential for use with an oauth2.Transport.
func (c *Credential) OAuth2Token() *oauth2.Token {
	return &oauth2.Token{
		AccessToken:  c.Token,
		TokenType:    "Bearer",
		RefreshToken: c.RefreshToken,
		Expiry:       c.Expiry,
	}
}

// oauthConfig rebuilds the client configuration needed to refresh the token.
func (c *Credential) oauthConfig() *oauth2.Config {
	tokenURL := c.TokenURI
	if tokenURL == "" {
		tokenURL = google.Endpoint.TokenURL
	}
	return &oauth2.Config{
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		Endpoint: oauth2.Endpoint{
			AuthURL:   google.Endpoint.AuthURL,
			TokenURL:  tokenURL,
			AuthStyle: oauth2.AuthStyleInParams,
		},
		Scopes: c.Scopes,
	}
}

// credentialFromToken builds a Credential from a token response. Scopes come
// from the response's "scope" field when present, else fall back to the
// requested set.
func credentialFromToken(tok *oauth2.Token, conf *oauth2.Config, fallbackScopes []string) *Credential {
	scopes := fallbackScopes
	if granted, ok := tok.Extra("scope").(string); ok && strings.TrimSpace(granted) != "" {
		scopes = strings.Fields(granted)
	}
	return &Credential{
		Token:        tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		TokenURI:     conf.Endpoint.TokenURL,
		ClientID:     conf.ClientID,
		ClientSecret: conf.ClientSecret,
		Scopes:       append([]string(nil), scopes...),
		Expiry:       tok.Expiry,
	}
}

// State is the outcome of classifying a stored credential.
type State int

const (
	// StateUnusable means the credential is missing, lacks scopes, or is
	// expired without a refresh token. Interactive consent is required.
	StateUnusable State = iota
	// StateRefreshable means the access token expired but a refresh token
	// is available.
	StateRefreshable
	// StateValid means the credential can be used without any network call.
	StateValid
)

func (s State) String() string {
	switch s {
	case StateValid:
		return "valid"
	case StateRefreshable:
		return "refreshable"
	default:
		return "unusable"
	}
}

// Classify decides what Authenticate must do with a stored credential.
func Classify(c *Credential, now time.Time, required []string) State {
	switch {
	case c == nil:
		return StateUnusable
	case c.Valid(now, required):
		return StateValid
	case c.Expired(now) && c.RefreshToken != "":
		return StateRefreshable
	default:
		return StateUnusable
	}
}
